package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Debug = false

// DebugLog is a no-op logger until InitDebugLog enables file logging.
// The TUI owns the terminal, so nothing is ever logged to stderr.
var DebugLog = zap.NewNop()

func CheckDebug() bool {
	debug := os.Getenv("CURIE_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string, force bool) {
	if !force && !CheckDebug() {
		return
	}

	logPath := filepath.Join(dataDir, "debug.log")

	// 0600 - request payloads may contain document names
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	Debug = true
	DebugLog = newFileLogger(f)
	DebugLog.Info("debug logging started", zap.String("path", logPath))
}

func newFileLogger(f *os.File) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(f),
		zap.NewAtomicLevelAt(zapcore.DebugLevel),
	)
	return zap.New(core, zap.AddCaller())
}

// SyncDebugLog flushes buffered log entries before exit.
func SyncDebugLog() {
	_ = DebugLog.Sync()
}
