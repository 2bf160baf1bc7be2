// Package geocode resolves event addresses to coordinates through Nominatim.
//
// A Geocoder tries up to three queries per event and stops at the first hit:
// the literal address, the address with suite/unit designators removed, and
// "city, state" as a city-center fallback. Every outbound request waits on a
// shared throttle: no request starts until 1100 ms (by default) after the
// previous response arrived. Answers, including misses, are remembered for the
// rest of the run so no query is sent twice.
//
// Lookup failures of any kind are treated as "no result"; nothing in this
// package aborts a pass because the service misbehaved.
package geocode
