package domain

import (
	"github.com/yungbote/plantdx-backend/internal/domain/diagnosis"
	"github.com/yungbote/plantdx-backend/internal/domain/disease"
)

type (
	Diagnosis            = diagnosis.Diagnosis
	CreateDiagnosisInput = diagnosis.CreateInput
	Localized            = diagnosis.Localized
	Severity             = diagnosis.Severity
	DiseaseEntry         = disease.Entry
	DiseaseTable         = disease.Table
)

const (
	SeverityLow    = diagnosis.SeverityLow
	SeverityMedium = diagnosis.SeverityMedium
	SeverityHigh   = diagnosis.SeverityHigh

	LangArabic  = diagnosis.LangArabic
	LangEnglish = diagnosis.LangEnglish
)
