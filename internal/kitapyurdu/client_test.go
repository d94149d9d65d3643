package kitapyurdu

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listingHTML renders a search-results page whose item links point at hrefs.
func listingHTML(hrefs ...string) string {
	items := ""
	for i, h := range hrefs {
		items += fmt.Sprintf(
			`<div class="product-cr"><div class="name"><a href="%s">Result %d</a></div></div>`, h, i+1)
	}
	return `<html><body><div id="product-table">` + items + `</div></body></html>`
}

func TestSearch_ListingOrderAndPartialFailure(t *testing.T) {
	itemHTML, err := os.ReadFile(filepath.Join("testdata", "item.html"))
	require.NoError(t, err)

	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	defer ts.Close()

	mux.HandleFunc("/index.php", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "product/search", r.URL.Query().Get("route"))
		assert.Equal(t, "madonna", r.URL.Query().Get("filter_name"))
		fmt.Fprint(w, listingHTML(
			ts.URL+"/kitap/a/111.html",
			ts.URL+"/kitap/b/222.html",
			ts.URL+"/kitap/c/333.html",
		))
	})
	mux.HandleFunc("/kitap/a/111.html", func(w http.ResponseWriter, r *http.Request) { w.Write(itemHTML) })
	// One broken item page must not abort the batch.
	mux.HandleFunc("/kitap/b/222.html", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/kitap/c/333.html", func(w http.ResponseWriter, r *http.Request) { w.Write(itemHTML) })

	c := New(ts.Client(), nil)
	c.BaseURL = ts.URL

	recs := c.Search(context.Background(), "madonna", 20)
	require.Len(t, recs, 2)
	assert.Equal(t, "111", recs[0].ID)
	assert.Equal(t, "333", recs[1].ID)
}

func TestSearch_LimitCapsItemFetches(t *testing.T) {
	itemHTML, err := os.ReadFile(filepath.Join("testdata", "item_min.html"))
	require.NoError(t, err)

	var itemFetches atomic.Int32
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	defer ts.Close()

	mux.HandleFunc("/index.php", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingHTML(
			ts.URL+"/kitap/a/1.html",
			ts.URL+"/kitap/b/2.html",
			ts.URL+"/kitap/c/3.html",
		))
	})
	mux.HandleFunc("/kitap/", func(w http.ResponseWriter, r *http.Request) {
		itemFetches.Add(1)
		w.Write(itemHTML)
	})

	c := New(ts.Client(), nil)
	c.BaseURL = ts.URL

	recs := c.Search(context.Background(), "q", 2)
	assert.Len(t, recs, 2)
	assert.Equal(t, int32(2), itemFetches.Load())
}

func TestSearch_ListingFetchFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := New(ts.Client(), nil)
	c.BaseURL = ts.URL

	assert.Empty(t, c.Search(context.Background(), "q", 20))
}

func TestSearch_Cancelled(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(ts.Client(), nil)
	c.BaseURL = ts.URL

	// Cancelled lookup degrades to empty, no error, no network traffic.
	assert.Empty(t, c.Search(ctx, "q", 20))
	assert.Equal(t, int32(0), requests.Load())
}

func TestLookupID(t *testing.T) {
	itemHTML, err := os.ReadFile(filepath.Join("testdata", "item.html"))
	require.NoError(t, err)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/kitap/-/49438.html", r.URL.Path)
		w.Write(itemHTML)
	}))
	defer ts.Close()

	c := New(ts.Client(), nil)
	c.BaseURL = ts.URL

	recs := c.LookupID(context.Background(), "49438")
	require.Len(t, recs, 1)
	assert.Equal(t, "49438", recs[0].ID)
	assert.Equal(t, ts.URL+"/kitap/-/49438.html", recs[0].URL)
}

func TestEndpointBuilders(t *testing.T) {
	assert.Equal(t,
		"https://www.kitapyurdu.com/index.php?route=product/search&filter_name=k%C3%BCrk+mantolu&limit=20",
		SearchURL(DefaultBaseURL, "kürk mantolu", 20))
	assert.Equal(t,
		"https://www.kitapyurdu.com/kitap/-/49438.html",
		ItemURL(DefaultBaseURL, "49438"))
	assert.Equal(t,
		"https://img.kitapyurdu.com/v1/getImage/fn:12345",
		CoverURL(DefaultImageHost, "12345"))
}
