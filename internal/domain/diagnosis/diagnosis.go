package diagnosis

import (
	"time"

	"gorm.io/datatypes"
)

// Diagnosis is one classification result for one uploaded image. Records are
// immutable once created.
type Diagnosis struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ImageURL      string    `gorm:"column:image_url;type:text;not null" json:"imageUrl"`
	DiseaseName   Localized `gorm:"column:disease_name;type:text;not null" json:"diseaseName"`
	Description   Localized `gorm:"column:description;type:text;not null" json:"description"`
	Severity      Severity  `gorm:"column:severity;type:text;not null" json:"severity"`
	SeverityScore int       `gorm:"column:severity_score;not null" json:"severityScore"`

	Classifier string         `gorm:"column:classifier;type:text;not null;default:''" json:"classifier"`
	Label      string         `gorm:"column:label;type:text;not null;default:''" json:"label,omitempty"`
	Confidence float64        `gorm:"column:confidence;not null;default:0" json:"confidence"`
	Attempts   datatypes.JSON `gorm:"column:attempts" json:"attempts,omitempty"`

	Timestamp time.Time `gorm:"column:created_at;not null;index" json:"timestamp"`
}

func (Diagnosis) TableName() string { return "diagnoses" }

// Clone returns a deep copy so callers never share maps with the store.
func (d *Diagnosis) Clone() *Diagnosis {
	if d == nil {
		return nil
	}
	out := *d
	out.DiseaseName = d.DiseaseName.Clone()
	out.Description = d.Description.Clone()
	if d.Attempts != nil {
		out.Attempts = append(datatypes.JSON(nil), d.Attempts...)
	}
	return &out
}

// Attempt records one classifier call made while producing a diagnosis.
type Attempt struct {
	Classifier string  `json:"classifier"`
	Outcome    string  `json:"outcome"`
	Label      string  `json:"label,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Error      string  `json:"error,omitempty"`
	ElapsedMS  int64   `json:"elapsed_ms"`
}
