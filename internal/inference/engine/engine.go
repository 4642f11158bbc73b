package engine

import (
	"context"
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Engine scores a preprocessed image against numClasses outputs. The returned
// slice is a probability distribution of length numClasses.
type Engine interface {
	Name() string
	Scores(ctx context.Context, img *image.RGBA, numClasses int) ([]float64, error)
}

// Preprocess converts img to RGBA and resizes it to size x size, the input
// shape the model expects.
func Preprocess(img image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Softmax normalizes logits into probabilities.
func Softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return nil
	}
	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}
	out := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		out[i] = math.Exp(l - maxLogit)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// Argmax returns the index of the largest score; ties go to the lowest index.
func Argmax(scores []float64) int {
	best := -1
	for i, s := range scores {
		if best < 0 || s > scores[best] {
			best = i
		}
	}
	return best
}
