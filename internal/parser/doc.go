// Package parser turns the raw event listing into event records.
//
// The listing is line oriented. Header lines (matched by fixed marker substrings)
// switch the current section, which decides the event type and qualification path
// of the lines that follow. Event lines are matched against an ordered list of
// grammar rules; the first rule that matches produces the records. Lines that match
// no rule are dropped without error.
package parser
