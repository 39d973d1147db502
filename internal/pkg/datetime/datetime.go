// Package datetime concentra o formato texto das datas persistidas e as
// comparações por dia de calendário usadas pelo painel.
package datetime

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout é o formato das datas da série de vendas.
const DayLayout = "2006-01-02"

// layouts aceitos na leitura, do mais ao menos comum.
// local marca o formato sem fuso que o navegador lê na hora local.
var layouts = []struct {
	value string
	local bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05.000Z07:00", false}, // toISOString do navegador
	{"2006-01-02T15:04:05", true},
	{DayLayout, false},
}

// Format grava o instante em RFC3339Nano UTC.
func Format(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Parse reconstrói o instante a partir do texto persistido, com o fuso local do processo.
func Parse(s string) (time.Time, error) {
	return ParseIn(s, time.Local)
}

// ParseIn reconstrói o instante como o navegador faz: data pura ("2024-01-15") é UTC,
// data e hora sem fuso ("2024-01-15T10:00:00") é hora local em loc.
func ParseIn(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	for _, l := range layouts {
		in := time.UTC
		if l.local {
			in = loc
		}
		if t, err := time.ParseInLocation(l.value, s, in); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("data inválida: %q", s)
}

// StartOfDay zera a hora do instante no fuso informado.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SameDay compara apenas a data de calendário dos dois instantes no fuso informado.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return StartOfDay(a, loc).Equal(StartOfDay(b, loc))
}

// DayKey devolve a data de calendário no fuso informado, formato DayLayout.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}
