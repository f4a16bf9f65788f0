// Package scraper fetches project and profile pages and extracts a fixed set of
// fields from known element identifiers. Every call either returns a complete
// record or an error; partial records are never produced.
package scraper
