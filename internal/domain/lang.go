package domain

// langToEnglish maps the language names kitapyurdu prints in its attribute
// table to canonical English names. Loaded once, never mutated.
var langToEnglish = map[string]string{
	"Türkçe":     "Turkish",
	"İngilizce":  "English",
	"İspanyolca": "Spanish",
	"İtalyanca":  "Italian",
	"Korece":     "Korean",
	"Rusça":      "Russian",
	"Almanca":    "German",
	"Fransızca":  "French",
}

// LanguageToEnglish resolves a site-locale language name to its canonical
// English name. ok is false for names outside the fixed table.
func LanguageToEnglish(lang string) (string, bool) {
	eng, ok := langToEnglish[lang]
	return eng, ok
}
