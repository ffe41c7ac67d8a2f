package shared

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// LogFlags are the logging options every command shares
type LogFlags struct {
	Debug   bool   `env:"BLACKJACK_DEBUG" help:"Enable debug logging"`
	LogFile string `env:"BLACKJACK_LOG_FILE" type:"path" help:"Write logs to this file instead of stderr"`
}

// SetupLogger configures charm log. Logs go to stderr with timestamps unless
// a log file is given; the returned close func must be called on exit.
func SetupLogger(flags LogFlags, quiet bool) (*log.Logger, func() error, error) {
	var (
		out     io.Writer = os.Stderr
		closeFn           = func() error { return nil }
	)
	if flags.LogFile != "" {
		f, err := os.OpenFile(flags.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closeFn = f, f.Close
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})

	switch {
	case flags.Debug:
		logger.SetLevel(log.DebugLevel)
	case quiet && flags.LogFile == "":
		// keep stderr clear of per-round chatter while a human is playing
		logger.SetLevel(log.WarnLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger, closeFn, nil
}
