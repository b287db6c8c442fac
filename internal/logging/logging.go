package logging

import (
	"fmt"

	"github.com/the127/keyv/internal/args"

	"go.uber.org/zap"
)

// Logger is a no-op until Init runs so libraries and tests can log freely.
var Logger = zap.NewNop().Sugar()

func Init() {
	var logger *zap.Logger
	var err error

	if args.IsProduction() {
		logger, err = zap.NewProduction()
		if err != nil {
			panic(fmt.Errorf("failed to initialize production logger: %w", err))
		}
	} else {
		logger, err = zap.NewDevelopment()
		if err != nil {
			panic(fmt.Errorf("failed to initialize development logger: %w", err))
		}
	}

	Logger = logger.Sugar()
}

// Sync flushes buffered log entries, used on shutdown.
func Sync() error {
	return Logger.Sync()
}
