package domain

import (
	"fmt"
	"strings"
	"time"
)

// Identifier keys this source contributes to the host's identifier map.
const (
	// IdentifierKey carries the numeric item id from the page URL.
	IdentifierKey = "kitapyurdu"
	// CoverIdentifierKey carries the cover id used to build image URLs
	// without re-fetching the item page.
	CoverIdentifierKey = "kitapyurdu_kapak"
)

// placeholderCoverID is what the site emits when a book has no real cover.
// It must never be exposed as a usable cover identifier.
const placeholderCoverID = "0"

// Metadata is the normalized, host-facing shape of a BookRecord.
// It is a pure read of the record plus the caller-assigned relevance;
// nothing here touches the network.
type Metadata struct {
	Title   string
	Authors []string

	Identifiers map[string]string
	ISBN        string
	Publisher   string
	Rating      *int

	// Language is the canonical English name, empty when the site value
	// is missing or not in the fixed table.
	Language string

	Tags     []string
	PubDate  *time.Time
	Comments string

	SourceRelevance int
}

// ToMetadata converts the record for the host. When appendExtra is set the
// supplementary fields (editor, translator, original title, page count) are
// appended to the description as a formatted HTML block.
func (b BookRecord) ToMetadata(appendExtra bool) Metadata {
	m := Metadata{
		Title:           b.Title,
		Authors:         b.Authors,
		Identifiers:     map[string]string{IdentifierKey: b.ID},
		ISBN:            b.ISBN,
		Publisher:       b.Publisher,
		Rating:          b.Rating,
		Tags:            b.Tags,
		PubDate:         b.PubDate,
		SourceRelevance: b.Relevance,
	}
	if b.CoverID != "" && b.CoverID != placeholderCoverID {
		m.Identifiers[CoverIdentifierKey] = b.CoverID
	}
	if b.Language != "" {
		if eng, ok := LanguageToEnglish(b.Language); ok {
			m.Language = eng
		}
	}
	if b.Description != "" {
		m.Comments = b.Description
		if appendExtra {
			m.Comments += b.extraHTML()
		}
	}
	return m
}

// extraHTML renders the supplementary fields in the site's own wording.
// Empty when no supplementary field is present.
func (b BookRecord) extraHTML() string {
	var sb strings.Builder
	if b.Editor != "" {
		fmt.Fprintf(&sb, "Editör(ler): %s<br/>", b.Editor)
	}
	if b.Translator != "" {
		fmt.Fprintf(&sb, "Çevirmen(ler): %s<br/>", b.Translator)
	}
	if b.OriginalTitle != "" {
		fmt.Fprintf(&sb, "Orijinal Adı: %s<br/>", b.OriginalTitle)
	}
	if b.Pages != nil {
		fmt.Fprintf(&sb, "Sayfa Sayısı: %d", *b.Pages)
	}
	if sb.Len() == 0 {
		return ""
	}
	return "<p>" + sb.String() + "</p>"
}
