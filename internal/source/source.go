// Package source is the host-facing surface of the kitapyurdu metadata
// source: identify with two-tier query relaxation, cover download, and the
// identifier plumbing the host keys results by.
package source

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/anezih/calibre-kitapyurdu/internal/domain"
	"github.com/anezih/calibre-kitapyurdu/internal/infra/httpx"
	"github.com/anezih/calibre-kitapyurdu/internal/kitapyurdu"
	"github.com/anezih/calibre-kitapyurdu/internal/query"
)

// Name is how the host lists this source.
const Name = "Kitapyurdu"

// Source holds the per-instance tunables. Each lookup builds its own
// transient client state; a Source can serve concurrent lookups without
// shared mutable state.
type Source struct {
	// MaxResults caps the listing page, one of 20/25/50. Zero means 20.
	MaxResults int
	// AppendExtra appends editor/translator/original-title/page-count as
	// HTML to the end of the description.
	AppendExtra bool
	// Timeout bounds every network fetch of one lookup.
	Timeout time.Duration

	// BaseURL and ImageHost override the production endpoints (tests,
	// mirrors). Empty means production.
	BaseURL   string
	ImageHost string

	// HTTP overrides the per-lookup client; nil builds one from Timeout.
	HTTP *http.Client
	Log  *slog.Logger
}

// Request is one lookup as the host hands it over. All fields optional.
type Request struct {
	Title       string
	Authors     []string
	Identifiers map[string]string
}

func (s *Source) log() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

func (s *Source) maxResults() int {
	if s.MaxResults <= 0 {
		return 20
	}
	return s.MaxResults
}

func (s *Source) client() *kitapyurdu.Client {
	h := s.HTTP
	if h == nil {
		h = httpx.NewClient(s.Timeout)
	}
	c := kitapyurdu.New(h, s.log())
	c.BaseURL = s.BaseURL
	return c
}

func (s *Source) imageHost() string {
	if s.ImageHost == "" {
		return kitapyurdu.DefaultImageHost
	}
	return s.ImageHost
}

// Identify runs one lookup and delivers each result to put, relevance
// ranks assigned from listing order starting at 1. Nothing found is not an
// error: put is simply never called. Cancellation is honored at fetch
// boundaries via ctx.
func (s *Source) Identify(ctx context.Context, req Request, put func(domain.Metadata)) {
	if ctx.Err() != nil {
		return
	}
	for i, rec := range s.records(ctx, req) {
		rec.Relevance = i + 1
		put(rec.ToMetadata(s.AppendExtra))
	}
}

// records implements the two-tier retry: an identifier match wins outright,
// then a strict title+author query, then a relaxed title-only accent-free
// query. The site's keyword search is brittle; author names and subtitles
// frequently prevent any match that the relaxed query recovers.
func (s *Source) records(ctx context.Context, req Request) []domain.BookRecord {
	log := s.log()
	c := s.client()

	if id := req.Identifiers[domain.IdentifierKey]; id != "" {
		if recs := c.LookupID(ctx, id); len(recs) > 0 {
			log.Info("matched kitapyurdu id", "id", id)
			return recs
		}
	}

	strict := query.Build(log, req.Title, req.Authors, query.Options{
		StripJoiners: true,
	})
	if strict != "" {
		if recs := c.Search(ctx, strict, s.maxResults()); len(recs) > 0 {
			return recs
		}
	}

	log.Info("query second pass", "variant", "only_title, strip_subtitle, remove_accents")
	relaxed := query.Build(log, req.Title, req.Authors, query.Options{
		OnlyTitle:     true,
		StripSubtitle: true,
		StripJoiners:  true,
		RemoveAccents: true,
	})
	if relaxed == "" {
		return nil
	}
	return c.Search(ctx, relaxed, s.maxResults())
}

// CachedCoverURL builds the image URL from a previously captured cover
// identifier, no page fetch needed. Empty when the identifier is missing.
func (s *Source) CachedCoverURL(identifiers map[string]string) string {
	id := identifiers[domain.CoverIdentifierKey]
	if id == "" {
		return ""
	}
	return kitapyurdu.CoverURL(s.imageHost(), id)
}

// DownloadCover delivers the raw cover image bytes to put. The cached
// cover-id path is tried first; without one, a full identify runs and the
// best-ranked result carrying a cover identifier is used. Failures are
// logged and leave put uncalled.
func (s *Source) DownloadCover(ctx context.Context, req Request, put func([]byte)) {
	if ctx.Err() != nil {
		return
	}
	log := s.log()

	cached := s.CachedCoverURL(req.Identifiers)
	if cached == "" {
		log.Info("no cached cover URL, running identify")
		var results []domain.Metadata
		s.Identify(ctx, req, func(m domain.Metadata) { results = append(results, m) })
		if ctx.Err() != nil {
			return
		}
		for _, m := range results {
			if u := s.CachedCoverURL(m.Identifiers); u != "" {
				cached = u
				break
			}
		}
	}
	if cached == "" {
		log.Warn("no cover URL found")
		return
	}

	h := s.HTTP
	if h == nil {
		h = httpx.NewClient(s.Timeout)
	}
	data, err := httpx.Get(ctx, h, cached)
	if err != nil {
		log.Warn("failed to get cover", "url", cached, "err", err)
		return
	}
	if len(data) > 0 {
		put(data)
	}
}

// BookURL reports the item page URL for a stored identifier, for the
// host's "view on site" affordance.
func (s *Source) BookURL(identifiers map[string]string) (idType, id, pageURL string, ok bool) {
	kid := identifiers[domain.IdentifierKey]
	if kid == "" {
		return "", "", "", false
	}
	base := s.BaseURL
	if base == "" {
		base = kitapyurdu.DefaultBaseURL
	}
	return domain.IdentifierKey, kid, kitapyurdu.ItemURL(base, kid), true
}
