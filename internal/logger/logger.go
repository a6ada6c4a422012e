package logger

import (
	"os"

	"go.uber.org/zap"
)

// Log is the process-wide logger. It is a no-op logger until Init is called,
// so packages can log from tests without any setup.
var Log = zap.NewNop()

// Init builds the global logger. Debug mode uses zap's development config
// (console encoder, debug level, caller info).
func Init(debug bool) error {
	if !debug && os.Getenv("RUNNER3D_DEBUG") != "" {
		debug = true
	}

	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.DisableStacktrace = true
		l, err = cfg.Build()
	}
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Sync flushes buffered log entries. Errors from syncing stderr are ignored.
func Sync() {
	_ = Log.Sync()
}
