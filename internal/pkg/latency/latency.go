// Package latency simula o atraso de uma API remota antes de cada operação de serviço.
package latency

import "time"

// Op classifica a operação para escolher o atraso.
type Op int

const (
	OpList   Op = iota // listagens e buscas
	OpGet              // leitura de um registro
	OpMutate           // criação, alteração e remoção
	OpStats            // agregações do painel
)

// DefaultDelays são os atrasos usados pelo painel original.
var DefaultDelays = map[Op]time.Duration{
	OpList:   100 * time.Millisecond,
	OpGet:    50 * time.Millisecond,
	OpMutate: 200 * time.Millisecond,
	OpStats:  150 * time.Millisecond,
}

// Simulator aplica o atraso configurado. Um *Simulator nil não espera nada.
type Simulator struct {
	delays map[Op]time.Duration
	sleep  func(time.Duration)
}

// New cria o simulador; com enabled=false todas as esperas são ignoradas.
func New(enabled bool) *Simulator {
	if !enabled {
		return Disabled()
	}
	return &Simulator{delays: DefaultDelays, sleep: time.Sleep}
}

// Disabled devolve um simulador que nunca espera (testes e CLI).
func Disabled() *Simulator {
	return &Simulator{delays: map[Op]time.Duration{}, sleep: time.Sleep}
}

// WithSleep troca a função de espera; usado em testes para registrar as esperas.
func (s *Simulator) WithSleep(sleep func(time.Duration)) *Simulator {
	return &Simulator{delays: s.delays, sleep: sleep}
}

// Wait bloqueia pelo atraso da operação. Não há cancelamento: uma vez
// iniciada, a operação sempre aplica seu efeito.
func (s *Simulator) Wait(op Op) {
	if s == nil {
		return
	}
	if d := s.delays[op]; d > 0 {
		s.sleep(d)
	}
}

// Delay informa o atraso configurado para a operação.
func (s *Simulator) Delay(op Op) time.Duration {
	if s == nil {
		return 0
	}
	return s.delays[op]
}
