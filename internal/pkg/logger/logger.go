package logger

import (
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger define a interface para logging estruturado.
// A aplicação (Handler, Service, Repositório) deve depender apenas desta interface.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error)
	Fatal(msg string, err error)
	// With retorna um Logger que sempre anexa os campos informados.
	With(fields map[string]interface{}) Logger
}

// ZapLogger é a implementação concreta da interface Logger sobre o zap,
// com saída JSON estruturada.
type ZapLogger struct {
	l *zap.Logger
}

// NewLogger cria e retorna uma nova instância do Logger.
// Esta função é chamada nos binários em cmd/.
func NewLogger(level string) Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.MessageKey = "message"
	encoderCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		parseLevel(level),
	)
	return NewWithCore(core)
}

// NewWithCore monta um Logger sobre um zapcore.Core arbitrário (útil em testes com observer).
func NewWithCore(core zapcore.Core) Logger {
	return &ZapLogger{l: zap.New(core)}
}

// NewNop retorna um Logger que descarta tudo.
func NewNop() Logger {
	return &ZapLogger{l: zap.NewNop()}
}

// parseLevel traduz o LOG_LEVEL da configuração; valores desconhecidos caem em info.
func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// toZapFields converte o mapa de campos em zap.Field, com ordem estável de chaves.
func toZapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}

func (z *ZapLogger) Debug(msg string, fields map[string]interface{}) {
	z.l.Debug(msg, toZapFields(fields)...)
}

func (z *ZapLogger) Info(msg string, fields map[string]interface{}) {
	z.l.Info(msg, toZapFields(fields)...)
}

func (z *ZapLogger) Warn(msg string, fields map[string]interface{}) {
	z.l.Warn(msg, toZapFields(fields)...)
}

func (z *ZapLogger) Error(msg string, err error) {
	z.l.Error(msg, zap.Error(err))
}

// Fatal registra e encerra o processo (o zap chama os.Exit(1)).
func (z *ZapLogger) Fatal(msg string, err error) {
	z.l.Fatal(msg, zap.Error(err))
}

func (z *ZapLogger) With(fields map[string]interface{}) Logger {
	return &ZapLogger{l: z.l.With(toZapFields(fields)...)}
}

// Sync descarrega buffers pendentes; chamado no encerramento dos binários.
func (z *ZapLogger) Sync() error {
	return z.l.Sync()
}
