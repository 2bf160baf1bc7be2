// Package storage provides JSON file persistence for the event document.
//
// Three files are managed, each read and written whole:
//
//   - the Document (metadata plus every event record), which is authoritative
//   - the enrichment Cache of resolved venue and event values
//   - the research Progress sets of venues and events already handled
//
// The Document is written atomically (temp file plus rename) and a missing or
// corrupt Document is an error. The Cache and Progress files are best effort:
// when they are missing or unreadable the caller gets empty state. Mutating
// commands hold a file lock next to the Document while they run.
package storage
