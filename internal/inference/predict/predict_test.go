package predict

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/yungbote/plantdx-backend/internal/inference/labels"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
)

type fixedEngine struct {
	scores []float64
}

func (f fixedEngine) Name() string { return "fixed" }

func (f fixedEngine) Scores(context.Context, *image.RGBA, int) ([]float64, error) {
	return f.scores, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{G: 140, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPredict(t *testing.T) {
	index, err := labels.Parse([]byte(`{"0":"Tomato___healthy","1":"Tomato___Early_blight"}`))
	if err != nil {
		t.Fatal(err)
	}
	svc := New(logger.NewNop(), fixedEngine{scores: []float64{0.1, 0.9}}, index, nil, 224)

	got, err := svc.Predict(context.Background(), pngBytes(t))
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	want := Prediction{
		ClassEN:    "Tomato - Early blight",
		ClassAR:    "اللفحة المبكرة في طماطم",
		Confidence: 0.9,
		Severity:   SeverityHigh,
	}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
	if n, err := svc.Ready(); err != nil || n != 2 {
		t.Fatalf("Ready: %d %v", n, err)
	}
}

func TestPredictDecodeError(t *testing.T) {
	svc := New(logger.NewNop(), fixedEngine{scores: []float64{1}}, labels.PlantVillage(), nil, 224)
	_, err := svc.Predict(context.Background(), []byte("definitely not an image"))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("want ErrDecode, got %v", err)
	}
}

func TestPredictNotReady(t *testing.T) {
	svc := New(logger.NewNop(), fixedEngine{}, nil, errors.New("open class_indices.json: no such file"), 224)
	if _, err := svc.Ready(); err == nil {
		t.Fatalf("expected not ready")
	}
	if _, err := svc.Predict(context.Background(), pngBytes(t)); !errors.Is(err, ErrNotReady) {
		t.Fatalf("want ErrNotReady, got %v", err)
	}
}

func TestSeverity(t *testing.T) {
	cases := map[float64]string{
		0.99: SeverityHigh,
		0.86: SeverityHigh,
		0.85: SeverityMedium,
		0.66: SeverityMedium,
		0.65: SeverityLow,
		0.1:  SeverityLow,
	}
	for c, want := range cases {
		if got := Severity(c); got != want {
			t.Errorf("Severity(%v)=%q want %q", c, got, want)
		}
	}
}
