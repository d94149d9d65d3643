package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(n int) *int { return &n }

func TestToMetadata_Full(t *testing.T) {
	date := time.Date(2021, time.May, 3, 0, 0, 0, 0, time.UTC)
	rec := BookRecord{
		Title:       "Kürk Mantolu Madonna",
		Authors:     []string{"Sabahattin Ali"},
		Publisher:   "Yapı Kredi Yayınları",
		Rating:      intp(4),
		CoverID:     "11502469",
		Description: "<p>Roman.</p>",
		PubDate:     &date,
		ISBN:        "9789753638029",
		Language:    "Türkçe",
		Pages:       intp(160),
		Tags:        []string{"Edebiyat", "Roman"},
		URL:         "https://www.kitapyurdu.com/kitap/-/49438.html",
		ID:          "49438",
		Relevance:   1,
	}

	m := rec.ToMetadata(false)

	assert.Equal(t, "49438", m.Identifiers[IdentifierKey])
	assert.Equal(t, "11502469", m.Identifiers[CoverIdentifierKey])
	assert.Equal(t, "Turkish", m.Language)
	assert.Equal(t, "<p>Roman.</p>", m.Comments)
	assert.Equal(t, 1, m.SourceRelevance)
	require.NotNil(t, m.Rating)
	assert.Equal(t, 4, *m.Rating)
}

func TestToMetadata_PlaceholderCoverIDSuppressed(t *testing.T) {
	rec := BookRecord{ID: "1", CoverID: "0"}
	m := rec.ToMetadata(false)
	_, ok := m.Identifiers[CoverIdentifierKey]
	assert.False(t, ok)
}

func TestToMetadata_UnknownLanguageStaysEmpty(t *testing.T) {
	rec := BookRecord{ID: "1", Language: "Klingonca"}
	assert.Empty(t, rec.ToMetadata(false).Language)
}

func TestToMetadata_RatingAbsentVsZero(t *testing.T) {
	assert.Nil(t, BookRecord{ID: "1"}.ToMetadata(false).Rating)

	m := BookRecord{ID: "1", Rating: intp(0)}.ToMetadata(false)
	require.NotNil(t, m.Rating)
	assert.Equal(t, 0, *m.Rating)
}

func TestToMetadata_AppendExtra(t *testing.T) {
	rec := BookRecord{
		ID:            "1",
		Description:   "<p>Desc.</p>",
		Editor:        "A, B",
		Translator:    "C",
		OriginalTitle: "The Original",
		Pages:         intp(200),
	}

	m := rec.ToMetadata(true)
	assert.Equal(t,
		"<p>Desc.</p><p>Editör(ler): A, B<br/>Çevirmen(ler): C<br/>Orijinal Adı: The Original<br/>Sayfa Sayısı: 200</p>",
		m.Comments)

	// Without the flag the description is untouched.
	assert.Equal(t, "<p>Desc.</p>", rec.ToMetadata(false).Comments)
}

func TestToMetadata_NoExtraWithoutDescription(t *testing.T) {
	// Matches the source behavior: extras ride on the description; no
	// description, no comments at all.
	rec := BookRecord{ID: "1", Editor: "A"}
	assert.Empty(t, rec.ToMetadata(true).Comments)
}

func TestLanguageToEnglish(t *testing.T) {
	eng, ok := LanguageToEnglish("Türkçe")
	assert.True(t, ok)
	assert.Equal(t, "Turkish", eng)

	eng, ok = LanguageToEnglish("İngilizce")
	assert.True(t, ok)
	assert.Equal(t, "English", eng)

	_, ok = LanguageToEnglish("Esperanto")
	assert.False(t, ok)
}
