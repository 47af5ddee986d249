package config

import (
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

const maxTouchParentDepth = 3

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOrganizer(); err != nil {
		return err
	}
	if err := c.validateTMDB(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateOrganizer() error {
	switch c.Organizer.Kind {
	case "tv", "movie":
	default:
		return fmt.Errorf("organizer.kind must be tv or movie, got %q", c.Organizer.Kind)
	}
	if c.Organizer.TouchParentDepth < 0 || c.Organizer.TouchParentDepth > maxTouchParentDepth {
		return fmt.Errorf("organizer.touch_parent_depth must be between 0 and %d", maxTouchParentDepth)
	}
	for _, pattern := range c.Organizer.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("organizer.ignore: invalid glob %q", pattern)
		}
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if c.TMDB.MinIntervalMS < 0 {
		return errors.New("tmdb.min_interval_ms must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
