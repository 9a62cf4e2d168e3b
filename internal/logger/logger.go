// ABOUTME: Structured logging setup with file rotation
// ABOUTME: Logs go to a rotated file so CLI stdout stays clean for output
package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/stacksapp/stacks/internal/storage/sqlite"
)

// New builds the application logger writing to path. An empty path logs
// to stacks.log in the default data directory. Setting STACKS_DEBUG also
// mirrors debug output to stderr.
func New(path string) (*zap.Logger, error) {
	if path == "" {
		path = filepath.Join(sqlite.DefaultDataDir(), "stacks.log")
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		zap.InfoLevel,
	)

	core := fileCore
	if os.Getenv("STACKS_DEBUG") != "" {
		consoleCore := zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.Lock(os.Stderr),
			zap.DebugLevel,
		)
		core = zapcore.NewTee(fileCore, consoleCore)
	}

	return zap.New(core), nil
}
