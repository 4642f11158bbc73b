package i18n

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

type Lang string

const (
	Arabic  Lang = "ar"
	English Lang = "en"

	Default = Arabic

	CookieName = "lang"
	QueryParam = "lang"
)

// Parse accepts "ar" or "en" (any case, surrounding space ignored).
func Parse(s string) (Lang, bool) {
	switch Lang(strings.ToLower(strings.TrimSpace(s))) {
	case Arabic:
		return Arabic, true
	case English:
		return English, true
	default:
		return "", false
	}
}

func (l Lang) String() string { return string(l) }

// Dir is the HTML text direction for the language.
func (l Lang) Dir() string {
	if l == Arabic {
		return "rtl"
	}
	return "ltr"
}

// Other is the language the toggle switches to.
func (l Lang) Other() Lang {
	if l == English {
		return Arabic
	}
	return English
}

var matcher = language.NewMatcher([]language.Tag{
	language.Arabic,
	language.English,
})

// Negotiate picks the request language: explicit query value, then cookie,
// then Accept-Language, then Default. fromQuery reports whether the query
// decided it, in which case callers persist it to the cookie.
func Negotiate(query, cookie, acceptLanguage string) (lang Lang, fromQuery bool) {
	if l, ok := Parse(query); ok {
		return l, true
	}
	if l, ok := Parse(cookie); ok {
		return l, false
	}
	if strings.TrimSpace(acceptLanguage) != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(tags) > 0 {
			_, idx, conf := matcher.Match(tags...)
			if conf != language.No {
				if idx == 1 {
					return English, false
				}
				return Arabic, false
			}
		}
	}
	return Default, false
}

// T looks up key in the dictionary; unknown keys render as the key itself.
func T(lang Lang, key string) string {
	e, ok := dictionary[key]
	if !ok {
		return key
	}
	if lang == English {
		return e.en
	}
	return e.ar
}

var (
	monthsAR = [...]string{"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو", "يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر"}
	monthsEN = [...]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
)

// FormatDate renders a timestamp as "2 January 2025, 14:05" in the request
// language.
func FormatDate(lang Lang, t time.Time) string {
	if t.IsZero() {
		return T(lang, "date.unavailable")
	}
	t = t.UTC()
	months := monthsAR
	if lang == English {
		months = monthsEN
	}
	return fmt.Sprintf("%d %s %d, %02d:%02d", t.Day(), months[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}
