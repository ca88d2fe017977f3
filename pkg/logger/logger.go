package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "production"
)

// New builds a zap logger tuned for the given environment.
// Local/dev get a human-readable console encoder at debug level,
// production gets JSON at info level.
func New(env string) *zap.Logger {
	var cfg zap.Config

	switch env {
	case envLocal, envDev:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case envProd:
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewProductionConfig()
	}

	log, err := cfg.Build()
	if err != nil {
		// A broken logger config leaves no way to report anything.
		panic("failed to build logger: " + err.Error())
	}

	return log.With(zap.String("env", env))
}
