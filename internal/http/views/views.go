package views

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	types "github.com/yungbote/plantdx-backend/internal/domain"
	"github.com/yungbote/plantdx-backend/internal/platform/i18n"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Page names accepted by gin's HTML renderer.
const (
	PageHome     = "home"
	PageResult   = "result"
	PageHistory  = "history"
	PageNotFound = "notfound"
)

// Page is the data every view receives.
type Page struct {
	Lang      i18n.Lang
	Path      string
	Error     string
	Diagnosis *types.Diagnosis
	History   []*types.Diagnosis
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"t": func(lang i18n.Lang, key string) string { return i18n.T(lang, key) },
		"localized": func(lang i18n.Lang, l types.Localized) string {
			return l.In(lang.String())
		},
		"severity": func(lang i18n.Lang, s types.Severity) string {
			return i18n.T(lang, "diagnosis.severity."+string(s))
		},
		"date": func(lang i18n.Lang, ts time.Time) string { return i18n.FormatDate(lang, ts) },
		"pct": func(score int) string {
			if score < 0 {
				score = 0
			}
			if score > 100 {
				score = 100
			}
			return fmt.Sprintf("%d%%", score)
		},
	}
}

// Templates parses the embedded view set.
func Templates() (*template.Template, error) {
	t, err := template.New("views").Funcs(Funcs()).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse views: %w", err)
	}
	return t, nil
}
