package config

import (
	"fmt"
	"net/url"

	"github.com/pfrederiksen/mtg-events/internal/logger"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateParser(); err != nil {
		return err
	}
	if err := c.validateGeocoder(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateParser() error {
	if y := c.Parser.DefaultYear; y < 2000 || y > 2100 {
		return fmt.Errorf("parser.default_year %d is out of range", y)
	}
	return nil
}

func (c *Config) validateGeocoder() error {
	u, err := url.Parse(c.Geocoder.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("geocoder.base_url %q must be an http(s) URL", c.Geocoder.BaseURL)
	}
	if c.Geocoder.MinIntervalMS < MinGeocodeIntervalMS {
		return fmt.Errorf("geocoder.min_interval_ms must be at least %d", MinGeocodeIntervalMS)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if _, err := logger.ParseFormat(c.Logging.Format); err != nil {
		return fmt.Errorf("logging.format: %w", err)
	}
	return nil
}
