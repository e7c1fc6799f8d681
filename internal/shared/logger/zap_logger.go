package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements the Logger interface on top of a zap SugaredLogger
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger builds a zap-backed Logger. format "json" selects the production
// encoder, anything else the console encoder.
func NewZapLogger(level, format string) Logger {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.MessageKey = "message"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(timestampFormat)

	var encoder zapcore.Encoder
	if format == logFormatJSON {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), lvl)
	return &ZapLogger{sugar: zap.New(core).Sugar()}
}

// NewZapLoggerFrom wraps an existing zap logger
func NewZapLoggerFrom(l *zap.Logger) Logger {
	return &ZapLogger{sugar: l.Sugar()}
}

func (z *ZapLogger) Debug(args ...interface{}) { z.sugar.Debug(args...) }
func (z *ZapLogger) Info(args ...interface{})  { z.sugar.Info(args...) }
func (z *ZapLogger) Warn(args ...interface{})  { z.sugar.Warn(args...) }
func (z *ZapLogger) Error(args ...interface{}) { z.sugar.Error(args...) }
func (z *ZapLogger) Fatal(args ...interface{}) { z.sugar.Fatal(args...) }

func (z *ZapLogger) Debugf(format string, args ...interface{}) { z.sugar.Debugf(format, args...) }
func (z *ZapLogger) Infof(format string, args ...interface{})  { z.sugar.Infof(format, args...) }
func (z *ZapLogger) Warnf(format string, args ...interface{})  { z.sugar.Warnf(format, args...) }
func (z *ZapLogger) Errorf(format string, args ...interface{}) { z.sugar.Errorf(format, args...) }
func (z *ZapLogger) Fatalf(format string, args ...interface{}) { z.sugar.Fatalf(format, args...) }

// WithFields adds structured fields to the logger
func (z *ZapLogger) WithFields(fields map[string]interface{}) Logger {
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return &ZapLogger{sugar: z.sugar.With(kv...)}
}

// WithContext adds context information to the logger
func (z *ZapLogger) WithContext(ctx context.Context) Logger {
	return z.WithFields(contextFields(ctx))
}

// WithComponent adds component name to the logger
func (z *ZapLogger) WithComponent(component string) Logger {
	return &ZapLogger{sugar: z.sugar.With("component", component)}
}

// Sync flushes buffered log entries
func (z *ZapLogger) Sync() error {
	return z.sugar.Sync()
}
