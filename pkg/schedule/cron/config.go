package cron

import (
	"io"
	"log/slog"
	"time"

	"github.com/vnykmshr/cronik/pkg/common/validation"
	"github.com/vnykmshr/cronik/pkg/metrics"
)

// DefaultYearWindow is the number of years searched for an occurrence.
const DefaultYearWindow = 16

// Config holds schedule configuration.
type Config struct {
	Location   *time.Location    // Time zone occurrences are computed in (default: time.Local)
	YearWindow int               // Years searched from the input year (default: 16)
	Metrics    *metrics.Registry // Solver metrics (default: none)
	Name       string            // Metrics label and log attribute (default: the expression)
	Logger     *slog.Logger      // Debug logging (default: discarded)
}

func (c Config) validate() error {
	return validation.ValidateNonNegative("cron", "YearWindow", c.YearWindow)
}

func (c Config) withDefaults(spec string) Config {
	if c.Location == nil {
		c.Location = time.Local
	}
	if c.YearWindow == 0 {
		c.YearWindow = DefaultYearWindow
	}
	if c.Name == "" {
		c.Name = spec
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}
