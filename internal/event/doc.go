// Package event provides the event record, the persisted document and the merge
// engine that reconciles a fresh extraction with a previously saved document.
//
// Each event is assigned a deterministic ID derived from its date, venue, city and
// optional time slot, enabling reliable tracking across runs. Enrichment fields
// (address, coordinates, website, event link) are written only through
// Event.ApplyIfAbsent, so once set they survive every later merge.
package event
