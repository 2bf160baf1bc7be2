package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGeocoder()
	c.normalizeLogging()
	if c.Parser.DefaultYear == 0 {
		c.Parser.DefaultYear = defaultYear
	}
	if c.Enrich.DefaultLimit <= 0 {
		c.Enrich.DefaultLimit = defaultEnrichLimit
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}

	files := []struct {
		key   string
		value *string
		def   string
	}{
		{"paths.source_file", &c.Paths.SourceFile, defaultSourceFile},
		{"paths.document_file", &c.Paths.DocumentFile, defaultDocumentFile},
		{"paths.cache_file", &c.Paths.CacheFile, defaultCacheFile},
		{"paths.progress_file", &c.Paths.ProgressFile, defaultProgressFile},
		{"paths.results_file", &c.Paths.ResultsFile, defaultResultsFile},
	}
	for _, f := range files {
		if strings.TrimSpace(*f.value) == "" {
			*f.value = f.def
		}
		if *f.value, err = c.ResolvePath(strings.TrimSpace(*f.value)); err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
	}
	return nil
}

func (c *Config) normalizeGeocoder() {
	g := &c.Geocoder
	g.BaseURL = strings.TrimRight(strings.TrimSpace(g.BaseURL), "/")
	if g.BaseURL == "" {
		g.BaseURL = defaultGeocoderBaseURL
	}
	g.UserAgent = strings.TrimSpace(g.UserAgent)
	if g.UserAgent == "" {
		g.UserAgent = defaultUserAgent
	}
	g.CountryCodes = strings.ToLower(strings.ReplaceAll(g.CountryCodes, " ", ""))
	if g.MinIntervalMS < MinGeocodeIntervalMS {
		g.MinIntervalMS = MinGeocodeIntervalMS
	}
	if g.TimeoutSeconds <= 0 {
		g.TimeoutSeconds = defaultTimeoutSeconds
	}
	if g.BatchSize <= 0 {
		g.BatchSize = defaultBatchSize
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
