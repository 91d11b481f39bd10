package ui

import (
	"os"

	"github.com/charmbracelet/log"
)

// InitLogger initializes and configures a Charm logger. Verbose forces debug
// level; otherwise level is used, falling back to info.
func InitLogger(verbose bool, level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    verbose,
		ReportTimestamp: verbose,
		Prefix:          "jmsctl",
	})

	if verbose {
		logger.SetLevel(log.DebugLevel)
		return logger
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger
}
