package diagnosis

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	LangArabic  = "ar"
	LangEnglish = "en"
)

// Localized maps a language code to text. Both ar and en are expected on every
// stored record.
type Localized map[string]string

func NewLocalized(ar, en string) Localized {
	return Localized{LangArabic: ar, LangEnglish: en}
}

// In returns the text for lang, falling back to English, then Arabic.
func (l Localized) In(lang string) string {
	if v := strings.TrimSpace(l[lang]); v != "" {
		return v
	}
	if v := strings.TrimSpace(l[LangEnglish]); v != "" {
		return v
	}
	return strings.TrimSpace(l[LangArabic])
}

func (l Localized) Complete() bool {
	return strings.TrimSpace(l[LangArabic]) != "" && strings.TrimSpace(l[LangEnglish]) != ""
}

func (l Localized) Clone() Localized {
	if l == nil {
		return nil
	}
	out := make(Localized, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

func (l Localized) Value() (driver.Value, error) {
	if l == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *Localized) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = Localized{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("localized: unsupported scan type %T", src)
	}
	m := map[string]string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("localized: %w", err)
		}
	}
	*l = Localized(m)
	return nil
}
