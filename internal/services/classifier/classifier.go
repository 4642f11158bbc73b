package classifier

import (
	"context"
)

// Image is an uploaded photo as handed to every classifier.
type Image struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Label is one candidate answer from a classifier. Score is in [0,1].
type Label struct {
	Text  string
	Score float64
}

// Classifier is one pluggable image-classification backend.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, img Image) ([]Label, error)
}
