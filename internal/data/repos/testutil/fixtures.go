package testutil

import (
	"fmt"

	types "github.com/yungbote/plantdx-backend/internal/domain"
	"github.com/yungbote/plantdx-backend/internal/domain/disease"
)

// DiagnosisInput builds a valid create input from the n-th known table entry.
func DiagnosisInput(n int) types.CreateDiagnosisInput {
	known := disease.Default().Known()
	e := known[n%len(known)]
	in := e.Input(fmt.Sprintf("/uploads/test-%d.jpg", n))
	in.Classifier = "test"
	in.Label = e.Name.In(types.LangEnglish)
	in.Confidence = 0.9
	return in
}
