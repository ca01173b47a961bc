// Package logging carries a zap logger in context. The CLI and the exporter configure the logger, while library code
// (engine runner, handles, clients) only logs through L and stays silent when it's used without a configured context.
package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"github.com/KonishchevDmitry/whales/internal/metrics"
)

const encoderName = "custom"

func init() {
	if err := zap.RegisterEncoder(encoderName, func(config zapcore.EncoderConfig) (zapcore.Encoder, error) {
		return newEncoder(zapcore.NewConsoleEncoder(config)), nil
	}); err != nil {
		panic(err)
	}
}

// Configure builds the console logger. Development mode enables debug messages like engine command lines.
func Configure(develMode bool) (*zap.SugaredLogger, error) {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	encoderConfig.LevelKey = ""

	var loggerConfig zap.Config
	if develMode {
		loggerConfig = zap.NewDevelopmentConfig()
	} else {
		loggerConfig = zap.NewProductionConfig()
	}

	loggerConfig.DisableCaller = true
	loggerConfig.DisableStacktrace = true

	loggerConfig.Encoding = encoderName
	loggerConfig.EncoderConfig = encoderConfig

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, err
	}

	return logger.Sugar(), nil
}

type contextKey struct{}

var nopLogger = zap.NewNop().Sugar()

// L returns the logger attached by WithLogger. Contexts without a logger (library use from outside of the CLI) get a
// no-op logger, so warnings logged there aren't counted in the errors metric either.
func L(ctx context.Context) *zap.SugaredLogger {
	if logger, ok := ctx.Value(contextKey{}).(*zap.SugaredLogger); ok {
		return logger
	}
	return nopLogger
}

func WithLogger(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

type encoder struct {
	zapcore.Encoder
}

func newEncoder(impl zapcore.Encoder) zapcore.Encoder {
	return encoder{impl}
}

func (e encoder) Clone() zapcore.Encoder {
	return newEncoder(e.Encoder.Clone())
}

func (e encoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	if entry.Level >= zapcore.WarnLevel {
		metrics.ErrorsMetric.Inc()
	}
	return e.Encoder.EncodeEntry(entry, fields)
}
