// Package scraper acquires the raw event listing as lines of text.
//
// A listing can be a plain text file, a saved HTML page or a URL. HTML is
// flattened with goquery: headings, paragraphs, list items and table cells each
// become lines, and <br> tags split a block into several lines. No parsing
// of the lines happens here; see package parser.
package scraper
