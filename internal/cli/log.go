package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/scynet/scynet/pkg/config"
)

// newLogger creates a text logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// setFormat switches l to the named config format. Unknown names keep text.
func setFormat(l *log.Logger, format string) {
	switch format {
	case config.FormatJSON:
		l.SetFormatter(log.JSONFormatter)
	case config.FormatLogfmt:
		l.SetFormatter(log.LogfmtFormatter)
	default:
		l.SetFormatter(log.TextFormatter)
	}
}

// progress logs the elapsed time of a sequential operation.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Collapsed 3 organisms (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
