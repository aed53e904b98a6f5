package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the service logger. Production gets JSON with ISO8601
// timestamps; everything else gets the colored development encoder.
//
// When extra is non-nil every entry is also written to it as JSON, which is
// how the CloudWatch Logs writer gets attached.
func New(env string, extra io.Writer) (*zap.Logger, error) {
	config := configFor(env)

	if extra == nil {
		return config.Build()
	}

	level := zap.NewAtomicLevelAt(config.Level.Level())

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(config.EncoderConfig),
		zapcore.Lock(zapcore.AddSync(os.Stdout)),
		level,
	)

	jsonConfig := config.EncoderConfig
	jsonConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	extraCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(jsonConfig),
		zapcore.Lock(zapcore.AddSync(extra)),
		level,
	)

	core := zapcore.NewTee(consoleCore, extraCore)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func configFor(env string) zap.Config {
	if env == "production" {
		config := zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return config
	}

	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return config
}
