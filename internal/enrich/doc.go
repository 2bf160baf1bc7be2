// Package enrich applies researched venue and event details to a document.
//
// A research round has three steps. Prepare lists the venues that still need
// an address and the events that still need a link, skipping anything already
// answered in the enrichment cache or marked as handled in the progress file.
// The answers come back as a results batch:
//
//	[
//	  {"type": "address", "venueKey": "Store X|Town|OH",
//	   "address": "1 Main St, Town, OH 44444", "website": "https://storex.example",
//	   "coordinates": null},
//	  {"type": "link", "eventId": "2026-01-10-store-x-town",
//	   "link": "https://storex.example/rcq"}
//	]
//
// Resolver.Apply writes each answer to every matching event through
// event.ApplyIfAbsent, so a field that already holds a value is never
// replaced. Afterwards every event without a link but with a store website
// uses the website as its link.
//
// Backfill fills missing fields from the cache and from other events at the
// same venue. It runs after every extraction so newly listed events at known
// venues are enriched without another research round.
package enrich
