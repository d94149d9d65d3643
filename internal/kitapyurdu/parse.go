package kitapyurdu

import (
	"bytes"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/anezih/calibre-kitapyurdu/internal/domain"
)

// Attribute-table labels as the site prints them. The markup mixes Turkish
// and English labels; "Editor:" really is English on production pages.
const (
	attrEditor     = "Editor:"
	attrTranslator = "Çevirmen:"
	attrPubDate    = "Yayın Tarihi:"
	attrOriginal   = "Orijinal Adı:"
	attrISBN       = "ISBN:"
	attrLanguage   = "Dil:"
	attrPages      = "Sayfa Sayısı:"
)

// pubDateLayout matches the attribute table's "31.12.2023" rendering.
const pubDateLayout = "02.01.2006"

// Boilerplate category names present on nearly every page; they carry no
// information and are dropped from tags.
var boilerplateTags = []string{"Kitap", "Diğer"}

// itemIDRe pulls the numeric item id out of the page URL's trailing
// "<digits>.html" segment.
var itemIDRe = regexp.MustCompile(`(\d+)\.html`)

// titleTR applies Turkish casing rules. ASCII folding corrupts the
// dotted/dotless i pairs (İ/i, I/ı), so publisher and language values must
// go through the locale-aware caser.
var titleTR = cases.Title(language.Turkish)

// parsePage turns one item page into a BookRecord. Every extraction is
// independent: a missing element or an unparseable value leaves its own
// field absent and never aborts the rest of the page. The error return only
// covers HTML that goquery cannot build a document from.
func parsePage(html []byte, pageURL string) (domain.BookRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return domain.BookRecord{}, err
	}

	rec := domain.BookRecord{URL: pageURL}

	// Internal consistency check: well-formed item URLs always end in
	// "<digits>.html". No match leaves ID absent.
	if m := itemIDRe.FindStringSubmatch(pageURL); m != nil {
		rec.ID = m[1]
	}

	if h := doc.Find("h1.pr_header__heading").First(); h.Length() > 0 {
		rec.Title = strings.TrimSpace(h.Text())
	}

	doc.Find("div.pr_producers__manufacturer > div.pr_producers__item").Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(strings.ReplaceAll(s.Text(), ",", ""))
		if name != "" {
			rec.Authors = append(rec.Authors, name)
		}
	})

	if p := doc.Find("div.pr_producers__publisher").First(); p.Length() > 0 {
		rec.Publisher = titleTR.String(strings.TrimSpace(p.Text()))
	}

	// Zero selected stars is a valid "no stars" rating; only the widget
	// being absent leaves Rating nil.
	if widget := doc.Find("ul.pr_rating-stars").First(); widget.Length() > 0 {
		n := widget.Find(".icon__star-big--selected").Length()
		rec.Rating = &n
	}

	rec.CoverURLs = coverURLs(doc)
	if len(rec.CoverURLs) > 0 {
		first := rec.CoverURLs[0]
		rec.CoverID = first[strings.LastIndex(first, ":")+1:]
	}

	if info := doc.Find("span.info__text").First(); info.Length() > 0 {
		// Raw HTML fragment, markup kept; the host renders it as-is.
		if frag, err := goquery.OuterHtml(info); err == nil {
			rec.Description = frag
		}
	}

	attrs := attributeTable(doc)

	if v, ok := attrs[attrEditor]; ok {
		rec.Editor = strings.TrimSpace(v)
	}
	if v, ok := attrs[attrTranslator]; ok {
		rec.Translator = strings.TrimSpace(v)
	}
	if v, ok := attrs[attrOriginal]; ok {
		rec.OriginalTitle = strings.TrimSpace(v)
	}
	if v, ok := attrs[attrISBN]; ok {
		rec.ISBN = strings.TrimSpace(v)
	}
	if v, ok := attrs[attrPubDate]; ok {
		if t, err := time.Parse(pubDateLayout, strings.TrimSpace(v)); err == nil {
			rec.PubDate = &t
		}
	}
	if v, ok := attrs[attrLanguage]; ok {
		rec.Language = titleTR.String(strings.TrimSpace(v))
	}
	if v, ok := attrs[attrPages]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			rec.Pages = &n
		}
	}

	rec.Tags = tags(doc)

	return rec, nil
}

// coverURLs collects cover references in thumbnail order. Multi-image pages
// carry a thumbnail list; single-image pages only the jbox cover link. No
// cover element at all means no cover references, nothing is synthesized.
func coverURLs(doc *goquery.Document) []string {
	images := doc.Find("div.pr_images").First()
	if images.Length() == 0 {
		return nil
	}
	if thumbs := images.Find("ul.pr_images__thumb-list").First(); thumbs.Length() > 0 {
		var urls []string
		thumbs.Find("a").Each(func(_ int, a *goquery.Selection) {
			if href, ok := a.Attr("href"); ok {
				urls = append(urls, trimCoverSuffix(href))
			}
		})
		return urls
	}
	if href, ok := images.Find("a.js-jbox-book-cover").First().Attr("href"); ok {
		return []string{trimCoverSuffix(href)}
	}
	return nil
}

// trimCoverSuffix cuts the resolution suffix: from one character before the
// first "wh" marker to the end ("...fn:12345/wh:100.jpg" -> "...fn:12345",
// the separator before the marker goes too). Known fragility: any earlier
// "wh" in the URL wins; production URLs do not contain one, and this
// mirrors what the pages actually produce.
func trimCoverSuffix(href string) string {
	if i := strings.Index(href, "wh"); i > 0 {
		return href[:i-1]
	}
	return href
}

// attributeTable flattens the attributes block's cells into label/value
// pairs. A recurring label appends its value to the existing one with a
// ", " separator (multiple editors span multiple rows).
func attributeTable(doc *goquery.Document) map[string]string {
	attrs := make(map[string]string)
	cells := doc.Find("div.attributes tr td")
	for i := 1; i < cells.Length(); i += 2 {
		label := strings.TrimSpace(cells.Eq(i - 1).Text())
		value := cells.Eq(i).Text()
		if prev, ok := attrs[label]; ok {
			attrs[label] = prev + ", " + value
		} else {
			attrs[label] = value
		}
	}
	return attrs
}

// tags reads the related-categories list as a set: duplicates collapse,
// boilerplate names are dropped, and the result is sorted because the set
// has no meaningful order.
func tags(doc *goquery.Document) []string {
	list := doc.Find("ul.rel-cats__list").First()
	if list.Length() == 0 {
		return nil
	}
	set := make(map[string]struct{})
	list.Find("span").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			set[t] = struct{}{}
		}
	})
	for _, b := range boilerplateTags {
		delete(set, b)
	}
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
