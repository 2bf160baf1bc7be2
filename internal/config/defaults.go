package config

const (
	defaultDataDir         = "data"
	defaultSourceFile      = "mtg-events.txt"
	defaultDocumentFile    = "events.json"
	defaultCacheFile       = ".cache.json"
	defaultProgressFile    = ".progress.json"
	defaultResultsFile     = "results.json"
	defaultYear            = 2026
	defaultGeocoderBaseURL = "https://nominatim.openstreetmap.org"
	defaultUserAgent       = "MTG Event Planner/1.0 (github.com/pfrederiksen/mtg-events)"
	defaultCountryCodes    = "us"
	defaultTimeoutSeconds  = 10
	defaultBatchSize       = 10
	defaultEnrichLimit     = 10
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"

	// MinGeocodeIntervalMS is the smallest allowed gap between two geocoder
	// requests. Nominatim allows one request per second.
	MinGeocodeIntervalMS = 1100
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:      defaultDataDir,
			SourceFile:   defaultSourceFile,
			DocumentFile: defaultDocumentFile,
			CacheFile:    defaultCacheFile,
			ProgressFile: defaultProgressFile,
			ResultsFile:  defaultResultsFile,
		},
		Parser: Parser{
			DefaultYear: defaultYear,
		},
		Geocoder: Geocoder{
			BaseURL:        defaultGeocoderBaseURL,
			UserAgent:      defaultUserAgent,
			CountryCodes:   defaultCountryCodes,
			MinIntervalMS:  MinGeocodeIntervalMS,
			TimeoutSeconds: defaultTimeoutSeconds,
			BatchSize:      defaultBatchSize,
		},
		Enrich: Enrich{
			DefaultLimit: defaultEnrichLimit,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
