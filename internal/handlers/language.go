package handlers

import (
	"net/http"

	"golang.org/x/text/language"
)

var languageMatcher = language.NewMatcher([]language.Tag{language.English, language.Arabic})

// preferredLanguage returns "en" or "ar". An explicit ?lang= wins over
// Accept-Language.
func preferredLanguage(r *http.Request) string {
	tag, _ := language.MatchStrings(languageMatcher, r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
	if base, _ := tag.Base(); base.String() == "ar" {
		return "ar"
	}
	return "en"
}

func pick(lang, en, ar string) string {
	if lang == "ar" {
		return ar
	}
	return en
}
