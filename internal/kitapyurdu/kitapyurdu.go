// Package kitapyurdu fetches kitapyurdu.com listing and item pages and
// parses them into domain.BookRecord values.
//
// Constraints:
// - fetches are strictly sequential; the site rate-limits aggressively and
//   parallel item fetches trip its anti-scraping defenses
// - a failed fetch is logged and degrades to "no result from that request";
//   it is never propagated to the caller
// - all parsing is pure: same HTML + URL, same record
package kitapyurdu

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/anezih/calibre-kitapyurdu/internal/domain"
	"github.com/anezih/calibre-kitapyurdu/internal/infra/httpx"
)

const (
	// DefaultBaseURL is the production site.
	DefaultBaseURL = "https://www.kitapyurdu.com"
	// DefaultImageHost serves cover images by cover id, no page fetch needed.
	DefaultImageHost = "https://img.kitapyurdu.com"
)

// SearchURL builds the listing endpoint for a URL-encoded query capped at
// limit entries.
func SearchURL(base, query string, limit int) string {
	return strings.TrimRight(base, "/") +
		"/index.php?route=product/search&filter_name=" + url.QueryEscape(query) +
		"&limit=" + strconv.Itoa(limit)
}

// ItemURL builds the item-detail endpoint for a numeric item id. The site
// ignores the slug segment, so "-" stands in for it.
func ItemURL(base, id string) string {
	return strings.TrimRight(base, "/") + "/kitap/-/" + id + ".html"
}

// CoverURL builds the image endpoint for a previously captured cover id.
func CoverURL(imageHost, coverID string) string {
	return strings.TrimRight(imageHost, "/") + "/v1/getImage/fn:" + coverID
}

// Client runs lookups against one site instance. A Client is owned by a
// single lookup; it carries no state shared across concurrent lookups.
type Client struct {
	// BaseURL overrides the production site (mirrors, tests). Empty means
	// DefaultBaseURL.
	BaseURL string

	HTTP *http.Client
	Log  *slog.Logger
}

// New builds a Client around the given HTTP client. A nil httpClient gets
// the default policy client.
func New(httpClient *http.Client, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = httpx.NewClient(0)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{HTTP: httpClient, Log: log}
}

func (c *Client) base() string {
	if strings.TrimSpace(c.BaseURL) == "" {
		return DefaultBaseURL
	}
	return c.BaseURL
}

// LookupID fetches and parses exactly one item page for a known item id.
// Empty result on fetch failure or cancellation.
func (c *Client) LookupID(ctx context.Context, id string) []domain.BookRecord {
	u := ItemURL(c.base(), id)
	rec, ok := c.fetchItem(ctx, u)
	if !ok {
		return nil
	}
	return []domain.BookRecord{rec}
}

// Search fetches the listing page for query, then each item page in listing
// order, at most limit of them. One failed item fetch drops one record and
// the batch continues.
func (c *Client) Search(ctx context.Context, query string, limit int) []domain.BookRecord {
	urls := c.listingURLs(ctx, query, limit)
	if len(urls) == 0 {
		return nil
	}
	records := make([]domain.BookRecord, 0, len(urls))
	for _, u := range urls {
		if ctx.Err() != nil {
			c.Log.Info("lookup cancelled", "url", u)
			return records
		}
		rec, ok := c.fetchItem(ctx, u)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records
}

func (c *Client) listingURLs(ctx context.Context, query string, limit int) []string {
	u := SearchURL(c.base(), query, limit)
	html, err := httpx.Get(ctx, c.HTTP, u)
	if err != nil {
		c.Log.Warn("failed to get search results", "url", u, "err", err)
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		c.Log.Warn("failed to parse search results", "url", u, "err", err)
		return nil
	}
	var urls []string
	doc.Find("#product-table div.product-cr div.name > a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if ok && strings.TrimSpace(href) != "" {
			urls = append(urls, strings.TrimSpace(href))
		}
		return len(urls) < limit
	})
	return urls
}

func (c *Client) fetchItem(ctx context.Context, pageURL string) (domain.BookRecord, bool) {
	html, err := httpx.Get(ctx, c.HTTP, pageURL)
	if err != nil {
		c.Log.Warn("failed to get page content", "url", pageURL, "err", err)
		return domain.BookRecord{}, false
	}
	rec, err := parsePage(html, pageURL)
	if err != nil {
		c.Log.Warn("failed to parse page", "url", pageURL, "err", err)
		return domain.BookRecord{}, false
	}
	return rec, true
}
