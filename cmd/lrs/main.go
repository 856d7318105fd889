package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/dpup/lrs/internal/logging"
)

func main() {
	if err := execute(newRootCmd(), os.Args[1:]); err != nil {
		logger, lerr := logging.New("error", "console")
		if lerr != nil {
			logger = zap.NewExample()
		}
		logFailure(logger.WithOptions(zap.AddStacktrace(zap.FatalLevel)), err)
		os.Exit(1)
	}
}

// logFailure reports the error a command returned
func logFailure(logger *zap.Logger, err error) {
	logger.Error("Command failed", zap.Error(err))
	_ = logger.Sync()
}
