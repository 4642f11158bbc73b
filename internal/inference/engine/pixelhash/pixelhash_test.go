package pixelhash

import (
	"context"
	"image"
	"math"
	"testing"
)

func leaf(green uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+1] = green
		img.Pix[i+3] = 255
	}
	return img
}

func TestScoresDeterministic(t *testing.T) {
	e := New()
	a, err := e.Scores(context.Background(), leaf(120), 38)
	if err != nil {
		t.Fatalf("Scores: %v", err)
	}
	b, _ := e.Scores(context.Background(), leaf(120), 38)
	if len(a) != 38 {
		t.Fatalf("len=%d", len(a))
	}
	var sum float64
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("not deterministic at %d", i)
		}
		sum += a[i]
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("not a distribution, sum=%v", sum)
	}

	c, _ := e.Scores(context.Background(), leaf(121), 38)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different pixels produced identical scores")
	}
}

func TestScoresErrors(t *testing.T) {
	e := New()
	if _, err := e.Scores(context.Background(), leaf(1), 0); err == nil {
		t.Fatalf("expected error for zero classes")
	}
	if _, err := e.Scores(context.Background(), nil, 3); err == nil {
		t.Fatalf("expected error for nil image")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Scores(ctx, leaf(1), 3); err == nil {
		t.Fatalf("expected context error")
	}
}
