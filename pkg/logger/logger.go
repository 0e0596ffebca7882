// Package logger wraps a process-wide zap sugared logger. Until Init runs
// (e.g. in tests) logging is a no-op.
package logger

import "go.uber.org/zap"

var sugar = zap.NewNop().Sugar()

// Init builds the global logger. Production config when env is
// "production", human-readable development config otherwise.
func Init(env string) error {
	var (
		l   *zap.Logger
		err error
	)
	if env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}
	sugar = l.Sugar()
	return nil
}

// L returns the global sugared logger.
func L() *zap.SugaredLogger {
	return sugar
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	_ = sugar.Sync()
}
