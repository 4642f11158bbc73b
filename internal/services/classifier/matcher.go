package classifier

import (
	"strings"

	"github.com/yungbote/plantdx-backend/internal/domain/disease"
)

// plant aliases as they appear in upstream labels
var plantAliases = map[string]string{
	"tomato":   "tomato",
	"tomatoes": "tomato",
	"potato":   "potato",
	"potatoes": "potato",
	"corn":     "corn",
	"maize":    "corn",
	"apple":    "apple",
	"grape":    "grape",
	"grapes":   "grape",
	"pepper":   "pepper",
	"wheat":    "wheat",
}

// Matcher maps free-text classifier labels onto the disease table.
type Matcher struct {
	table   *disease.Table
	entries []disease.Entry
}

func NewMatcher(table *disease.Table) *Matcher {
	if table == nil {
		table = disease.Default()
	}
	return &Matcher{table: table, entries: table.Known()}
}

// Match tries, in order: a table name contained in the label, a detected
// plant plus disease keyword, then a healthy label.
func (m *Matcher) Match(label string) (disease.Entry, bool) {
	text := normalizeLabel(label)
	if text == "" {
		return disease.Entry{}, false
	}
	if e, ok := m.matchName(text); ok {
		return e, true
	}
	plant := detectPlant(text)
	if e, ok := m.matchKeyword(text, plant); ok {
		return e, true
	}
	return m.matchHealthy(text, plant)
}

func (m *Matcher) matchName(text string) (disease.Entry, bool) {
	best := -1
	bestLen := 0
	for i, e := range m.entries {
		key := e.Key()
		if len(key) > bestLen && containsPhrase(text, key) {
			best, bestLen = i, len(key)
		}
	}
	if best < 0 {
		return disease.Entry{}, false
	}
	return m.entries[best], true
}

func (m *Matcher) matchKeyword(text, plant string) (disease.Entry, bool) {
	if plant != "" {
		for _, e := range m.entries {
			if e.Plant != plant || e.Healthy {
				continue
			}
			for _, kw := range e.Keywords {
				if containsPhrase(text, kw) {
					return e, true
				}
			}
		}
	}
	for _, e := range m.entries {
		if e.Plant != "" || e.Healthy {
			continue
		}
		for _, kw := range e.Keywords {
			if containsPhrase(text, kw) {
				return e, true
			}
		}
	}
	return disease.Entry{}, false
}

func (m *Matcher) matchHealthy(text, plant string) (disease.Entry, bool) {
	if !containsPhrase(text, "healthy") {
		return disease.Entry{}, false
	}
	if plant != "" {
		for _, e := range m.entries {
			if e.Healthy && e.Plant == plant {
				return e, true
			}
		}
	}
	return m.table.Lookup(disease.HealthyPlantName)
}

func detectPlant(text string) string {
	for _, tok := range strings.Fields(text) {
		if p, ok := plantAliases[tok]; ok {
			return p
		}
	}
	return ""
}

// normalizeLabel lower-cases, maps separators and punctuation to spaces and
// collapses whitespace, so "Corn_(maize)___Common_rust_" becomes
// "corn maize common rust".
func normalizeLabel(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '(', ')', ',', '.', ';', ':', '/', '\'', '"':
			return ' '
		}
		return r
	}, s)
	return disease.Normalize(s)
}

// containsPhrase reports whether phrase occurs in text on word boundaries.
func containsPhrase(text, phrase string) bool {
	phrase = disease.Normalize(phrase)
	if phrase == "" {
		return false
	}
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}
