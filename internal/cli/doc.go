// Package cli implements the command-line interface for mtg-events.
//
// The cli package provides the Cobra-based commands: extract (parse the listing
// and merge it into the document), prepare and apply (one research round for
// venue addresses and event links), geocode, status, ics (calendar export) and
// config. Output is text with tables or JSON. It coordinates the scraper,
// parser, event, enrich, geocode and storage packages, and holds the writer
// lock while a command changes the document.
package cli
