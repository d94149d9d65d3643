package domain

import "time"

// BookRecord is the structured result of parsing one kitapyurdu item page.
//
// Constraints:
// - URL must be the item page the record was parsed from (it is also the
//   provenance marker; ID is derived from its trailing <digits>.html segment)
// - optional scalar fields use pointers: rating 0 and page count 0 are
//   legitimate values and must stay distinguishable from "not on the page"
// - a record is populated in one pass by the parser and never mutated
//   afterwards, except for the caller-assigned Relevance
type BookRecord struct {
	Title   string
	Authors []string

	Editor        string
	Translator    string
	Publisher     string
	OriginalTitle string

	// Rating is the number of selected stars (0-5); nil when the page has
	// no rating widget at all.
	Rating *int

	// CoverURLs keeps the thumbnail-list order; the first entry is the
	// canonical cover and the source of CoverID.
	CoverURLs []string
	CoverID   string

	// Description is a raw HTML fragment, markup included.
	Description string

	PubDate *time.Time
	ISBN    string

	// Language holds the site's own wording (e.g. "Türkçe"); mapping to a
	// canonical English name happens only at ToMetadata time.
	Language string

	Pages *int
	Tags  []string

	URL string
	ID  string

	// Relevance is assigned by the caller from listing order, 1 = best.
	Relevance int
}
