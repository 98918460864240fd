// Package logging builds the process logger.
//
// Two output forms, selected by config: console lines of the shape
// "<time> [LEVEL] <logger> message {fields as JSON}" or single-line JSON
// objects. Writes go through a buffered syncer that a background goroutine
// flushes every 100ms; when the buffer is full, the writing goroutine
// flushes it itself, so a slow sink can stall the caller. No log line is
// dropped. Hot-path code
// does not log at all; components log startup, shutdown, and exceptional
// events only.
package logging

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects level and output form.
type Config struct {
	Level  string `mapstructure:"level"`  // debug | info | warn | error
	Format string `mapstructure:"format"` // console | json
}

// New constructs the root logger. The returned sync function flushes the
// buffered writer and must run on shutdown.
func New(cfg Config) (*zap.Logger, func()) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.EpochNanosTimeEncoder

	var enc zapcore.Encoder
	if cfg.Format == "json" {
		encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encCfg.EncodeLevel = bracketLevelEncoder
		encCfg.ConsoleSeparator = " "
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	ws := &zapcore.BufferedWriteSyncer{
		WS:            zapcore.AddSync(os.Stdout),
		FlushInterval: 100 * time.Millisecond,
	}

	core := zapcore.NewCore(enc, ws, parseLevel(cfg.Level))
	logger := zap.New(core)

	sync := func() {
		_ = ws.Stop()
	}
	return logger, sync
}

func bracketLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + l.CapitalString() + "]")
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
