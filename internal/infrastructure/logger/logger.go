package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"samplehub/internal/config"
)

const serviceName = "samplehub"

// New builds the process logger. Unknown levels fall back to info; the
// console format is meant for local runs and logs every debug line unsampled.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	var zc zap.Config
	switch cfg.Format {
	case "", "json":
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "timestamp"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case "console":
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.Sampling = nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.InitialFields = map[string]interface{}{"service": serviceName}

	return zc.Build()
}
