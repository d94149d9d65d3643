// Package query builds kitapyurdu search strings from noisy title/author
// input. The site's search is a brittle keyword match, so callers ask for a
// strict variant first and fall back to a relaxed, title-only, accent-free
// variant when the strict one finds nothing.
package query

import (
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Options selects the query variant.
//
// Strict variant:  zero Options plus StripJoiners (title+author, subtitle
// kept, accents kept). Relaxed variant: OnlyTitle+StripSubtitle+
// StripJoiners+RemoveAccents.
type Options struct {
	// OnlyTitle omits author tokens entirely.
	OnlyTitle bool
	// StripSubtitle drops bracketed segments and anything after a
	// subtitle separator (":" and friends).
	StripSubtitle bool
	// StripJoiners drops joiner words ("and", "the" and their Turkish
	// equivalents) from the title.
	StripJoiners bool
	// RemoveAccents strips diacritics after lowercasing.
	RemoveAccents bool
}

// joiners are dropped from titles when StripJoiners is set. The site indexes
// both Turkish and imported English titles, so both sets are listed.
var joiners = map[string]struct{}{
	"a": {}, "and": {}, "the": {}, "&": {},
	"ve": {}, "bir": {},
}

// Casing must be Turkish-aware: byte-wise folding maps "İ" to "i̇" and "I"
// to "i", corrupting dotted/dotless i pairs.
var lowerTR = cases.Lower(language.Turkish)

// deaccent strips combining marks after NFD decomposition, then recomposes.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Build turns a free-form title and author list into one normalized search
// string. Only the first author contributes tokens. Returns "" when both
// inputs are empty or every token was filtered away; "" means "no query",
// callers must not send it to the site.
func Build(log *slog.Logger, title string, authors []string, opts Options) string {
	if log == nil {
		log = slog.Default()
	}
	if strings.TrimSpace(title) == "" && len(authors) == 0 {
		return ""
	}

	tokens := titleTokens(title, opts.StripSubtitle, opts.StripJoiners)
	if !opts.OnlyTitle {
		tokens = append(tokens, authorTokens(authors)...)
	}
	if len(tokens) == 0 {
		return ""
	}

	q := lowerTR.String(strings.Join(tokens, " "))
	q = norm.NFC.String(q)
	if opts.RemoveAccents {
		if stripped, _, err := transform.String(deaccent, q); err == nil {
			q = stripped
		}
		log.Debug("removed accents from query")
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return ""
	}
	log.Info("constructed query", "query", q)
	return q
}

func titleTokens(title string, stripSubtitle, stripJoiners bool) []string {
	if stripSubtitle {
		title = cutSubtitle(title)
	}
	var out []string
	for _, tok := range strings.FieldsFunc(title, isSeparator) {
		if stripJoiners {
			if _, ok := joiners[strings.ToLower(tok)]; ok {
				continue
			}
		}
		out = append(out, tok)
	}
	return out
}

// cutSubtitle removes bracketed segments and truncates at the first
// subtitle separator.
func cutSubtitle(title string) string {
	var sb strings.Builder
	depth := 0
	for _, r := range title {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ':', ';', '/', '\\', '—':
			if depth == 0 {
				return sb.String()
			}
		default:
			if depth == 0 {
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}

// authorTokens tokenizes the first author only. "Last, First" order is
// flipped back before tokenizing so strict queries match the site's
// "First Last" rendering.
func authorTokens(authors []string) []string {
	if len(authors) == 0 {
		return nil
	}
	name := strings.TrimSpace(authors[0])
	if name == "" {
		return nil
	}
	if last, first, ok := strings.Cut(name, ","); ok {
		name = strings.TrimSpace(first) + " " + strings.TrimSpace(last)
	}
	return strings.FieldsFunc(name, isSeparator)
}

func isSeparator(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case ',', '.', '!', '?', '"', '\'', '“', '”', '‘', '’', '«', '»', '*', '#', '|',
		':', ';', '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}
