package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin wrapper around a zap SugaredLogger shared by every layer.
type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

func NewLogger(dev bool) (*Logger, error) {
	config := zap.NewProductionConfig()
	if dev {
		config = zap.NewDevelopmentConfig()
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: logger.Sugar()}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// Named returns a child logger tagged with the given component name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.Named(name)}
}

func (l *Logger) Infow(msg string, kv ...interface{}) {
	l.SugaredLogger.Infow(msg, kv...)
}

func (l *Logger) Warnw(msg string, kv ...interface{}) {
	l.SugaredLogger.Warnw(msg, kv...)
}

func (l *Logger) Errorw(msg string, kv ...interface{}) {
	l.SugaredLogger.Errorw(msg, kv...)
}

func (l *Logger) Debugw(msg string, kv ...interface{}) {
	l.SugaredLogger.Debugw(msg, kv...)
}

// Reconcile logs a condition that needs manual ledger reconciliation.
func (l *Logger) Reconcile(msg string, kv ...interface{}) {
	l.SugaredLogger.Errorw(msg, append(kv, "reconciliation_required", true)...)
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}
