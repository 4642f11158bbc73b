package diagnosis

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"

	pkgerrors "github.com/yungbote/plantdx-backend/internal/pkg/errors"
)

// CreateInput is everything a store needs to create a Diagnosis; the store
// assigns ID and Timestamp.
type CreateInput struct {
	ImageURL      string    `validate:"required"`
	DiseaseName   Localized `validate:"required,bilingual"`
	Description   Localized `validate:"required,bilingual"`
	Severity      Severity  `validate:"required,oneof=low medium high"`
	SeverityScore int       `validate:"min=0,max=100"`

	Classifier string
	Label      string
	Confidence float64 `validate:"min=0,max=1"`
	Attempts   datatypes.JSON
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func inputValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("bilingual", func(fl validator.FieldLevel) bool {
			l, ok := fl.Field().Interface().(Localized)
			return ok && l.Complete()
		})
		validate = v
	})
	return validate
}

// ValidationError lists the rejected fields of a CreateInput.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid diagnosis data: %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error { return pkgerrors.ErrInvalidArgument }

func (in CreateInput) Validate() error {
	err := inputValidator().Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
		}
		return &ValidationError{Fields: fields}
	}
	return err
}

// Build materializes a record from the input. Callers set ID and Timestamp.
func (in CreateInput) Build() *Diagnosis {
	d := &Diagnosis{
		ImageURL:      in.ImageURL,
		DiseaseName:   in.DiseaseName.Clone(),
		Description:   in.Description.Clone(),
		Severity:      in.Severity,
		SeverityScore: in.SeverityScore,
		Classifier:    in.Classifier,
		Label:         in.Label,
		Confidence:    in.Confidence,
	}
	if in.Attempts != nil {
		d.Attempts = append(datatypes.JSON(nil), in.Attempts...)
	}
	return d
}
