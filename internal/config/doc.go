// Package config loads, normalizes, and validates mtg-events configuration.
//
// Settings come from repository defaults overlaid with an optional TOML file.
// File paths are resolved against the data directory and expanded (including
// the ~ shortcut), and the geocoder request interval is clamped so no
// configuration can break the Nominatim usage policy.
package config
