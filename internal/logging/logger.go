package logging

import (
	"log"

	"go.uber.org/zap"
)

// Initialize builds the production logger, installs it as the zap global,
// and returns a cleanup that flushes buffered entries.
func Initialize() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		// Sync can fail on stderr; nothing useful to do about it.
		_ = logger.Sync()
	}

	return logger, cleanup
}
