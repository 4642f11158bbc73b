package disease

import (
	"strings"

	"github.com/yungbote/plantdx-backend/internal/domain/diagnosis"
)

const (
	UnknownName      = "Unknown"
	HealthyPlantName = "Healthy Plant"
)

// Entry is one row of the bilingual disease table.
type Entry struct {
	Name          diagnosis.Localized
	Description   diagnosis.Localized
	Severity      diagnosis.Severity
	SeverityScore int

	// Plant is the lower-case plant token, empty for plant-independent rows.
	Plant string
	// Keywords are tried in order during plant + keyword reconstruction.
	Keywords []string
	Healthy  bool
}

// Key is the normalized English name used for lookups.
func (e Entry) Key() string { return Normalize(e.Name.In(diagnosis.LangEnglish)) }

func (e Entry) clone() Entry {
	out := e
	out.Name = e.Name.Clone()
	out.Description = e.Description.Clone()
	out.Keywords = append([]string(nil), e.Keywords...)
	return out
}

// normalized clamps the score into 0..100 and derives the severity from it
// when the row does not carry a valid one.
func (e Entry) normalized() Entry {
	out := e.clone()
	out.SeverityScore = diagnosis.ClampScore(e.SeverityScore)
	if !out.Severity.Valid() {
		out.Severity = diagnosis.SeverityForScore(out.SeverityScore)
	}
	return out
}

// Table is an ordered, read-only set of entries. The zero value is empty;
// use Default for the built-in table.
type Table struct {
	entries []Entry
	index   map[string]int
	unknown int
}

func NewTable(entries []Entry) *Table {
	t := &Table{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
		unknown: -1,
	}
	for _, e := range entries {
		k := e.Key()
		if k == "" {
			continue
		}
		if _, dup := t.index[k]; dup {
			continue
		}
		t.index[k] = len(t.entries)
		if k == Normalize(UnknownName) {
			t.unknown = len(t.entries)
		}
		t.entries = append(t.entries, e.normalized())
	}
	if t.unknown < 0 {
		t.unknown = len(t.entries)
		t.index[Normalize(UnknownName)] = t.unknown
		t.entries = append(t.entries, unknownEntry.clone())
	}
	return t
}

// Entries returns copies of every row in table order, Unknown included.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.clone())
	}
	return out
}

// Known returns every row except Unknown.
func (t *Table) Known() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for i, e := range t.entries {
		if i == t.unknown {
			continue
		}
		out = append(out, e.clone())
	}
	return out
}

func (t *Table) Lookup(name string) (Entry, bool) {
	i, ok := t.index[Normalize(name)]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i].clone(), true
}

func (t *Table) Unknown() Entry { return t.entries[t.unknown].clone() }

// Normalize lower-cases s, maps '_' and '-' to spaces and collapses runs of
// whitespace.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// Input copies the entry's user-facing fields into a create input.
func (e Entry) Input(imageURL string) diagnosis.CreateInput {
	return diagnosis.CreateInput{
		ImageURL:      imageURL,
		DiseaseName:   e.Name.Clone(),
		Description:   e.Description.Clone(),
		Severity:      e.Severity,
		SeverityScore: e.SeverityScore,
	}
}
