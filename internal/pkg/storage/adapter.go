package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"godash/internal/pkg/logger"
)

// Kind classifica a falha de uma operação do adaptador.
type Kind int

const (
	KindAbsent  Kind = iota + 1 // chave nunca escrita (ou removida)
	KindCorrupt                 // blob presente mas ilegível para o tipo de destino
	KindRead                    // falha do backend na leitura
	KindWrite                   // falha de serialização ou do backend na escrita
	KindDelete                  // falha do backend ao remover/limpar
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindCorrupt:
		return "corrupt"
	case KindRead:
		return "read"
	case KindWrite:
		return "write"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Error carrega a chave, a operação e a causa original.
type Error struct {
	Op   string
	Key  string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s %q (%s): %v", e.Op, e.Key, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsAbsent indica se o erro significa apenas "não há valor para a chave".
func IsAbsent(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindAbsent
}

// KindOf devolve a classificação do erro, ou 0 se não for um *Error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

// Adapter serializa valores em JSON sobre um Backend.
// Toda falha é registrada no log antes de ser devolvida ao chamador.
type Adapter struct {
	backend Backend
	logger  logger.Logger
}

// NewAdapter cria o adaptador sobre o backend escolhido na configuração.
func NewAdapter(backend Backend, log logger.Logger) *Adapter {
	return &Adapter{
		backend: backend,
		logger:  log.With(map[string]interface{}{"component": "storage"}),
	}
}

// Get lê a chave e decodifica o JSON em dst.
// Blob vazio é tratado como ausente, assim como uma chave inexistente.
func (a *Adapter) Get(ctx context.Context, key string, dst interface{}) error {
	raw, err := a.backend.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		a.logger.Debug("Chave ausente no armazenamento.", map[string]interface{}{"key": key})
		return &Error{Op: "get", Key: key, Kind: KindAbsent, Err: ErrKeyNotFound}
	}
	if err != nil {
		a.logger.Error(fmt.Sprintf("Falha ao ler a chave %s do armazenamento.", key), err)
		return &Error{Op: "get", Key: key, Kind: KindRead, Err: err}
	}
	if raw == "" {
		return &Error{Op: "get", Key: key, Kind: KindAbsent, Err: ErrKeyNotFound}
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		a.logger.Error(fmt.Sprintf("Conteúdo corrompido na chave %s.", key), err)
		return &Error{Op: "get", Key: key, Kind: KindCorrupt, Err: err}
	}
	return nil
}

// Set serializa value e substitui o blob da chave por inteiro.
func (a *Adapter) Set(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		a.logger.Error(fmt.Sprintf("Falha ao serializar valor da chave %s.", key), err)
		return &Error{Op: "set", Key: key, Kind: KindWrite, Err: err}
	}

	if err := a.backend.Set(ctx, key, string(b)); err != nil {
		a.logger.Error(fmt.Sprintf("Falha ao gravar a chave %s no armazenamento.", key), err)
		return &Error{Op: "set", Key: key, Kind: KindWrite, Err: err}
	}

	a.logger.Debug("Chave gravada.", map[string]interface{}{"key": key, "bytes": len(b)})
	return nil
}

// Remove apaga a chave; remover uma chave inexistente não é erro.
func (a *Adapter) Remove(ctx context.Context, key string) error {
	if err := a.backend.Delete(ctx, key); err != nil {
		a.logger.Error(fmt.Sprintf("Falha ao remover a chave %s.", key), err)
		return &Error{Op: "remove", Key: key, Kind: KindDelete, Err: err}
	}
	return nil
}

// Clear apaga todo o estado persistido do backend.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.backend.Clear(ctx); err != nil {
		a.logger.Error("Falha ao limpar o armazenamento.", err)
		return &Error{Op: "clear", Kind: KindDelete, Err: err}
	}
	a.logger.Info("Armazenamento limpo.", nil)
	return nil
}

// Health verifica se o backend responde.
func (a *Adapter) Health(ctx context.Context) error {
	return a.backend.Ping(ctx)
}
