package config

import (
	"fmt"
	"time"

	"github.com/grovetools/pollwatch/errors"
	"github.com/moby/patternmatcher"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Interval != "" {
		d, err := time.ParseDuration(c.Interval)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigValidation, fmt.Sprintf("invalid interval %q", c.Interval)).
				WithDetail("field", "interval")
		}
		if d <= 0 {
			return errors.ConfigValidation("interval", fmt.Sprintf("must be positive, got %s", d))
		}
	}

	switch c.Output.Format {
	case "", "text", "json":
	default:
		return errors.ConfigValidation("output.format", fmt.Sprintf("unknown format %q (want text or json)", c.Output.Format))
	}

	if len(c.Ignore) > 0 {
		if _, err := patternmatcher.New(c.Ignore); err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid ignore pattern").
				WithDetail("field", "ignore")
		}
	}

	return nil
}
