// Package pixelhash is a deterministic stand-in for a trained network: the
// same pixels always produce the same distribution.
package pixelhash

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"image"

	"github.com/yungbote/plantdx-backend/internal/inference/engine"
)

// logitScale spreads the hashed logits so the top class lands anywhere from a
// low to a high severity confidence.
const logitScale = 8.0

type Engine struct{}

func New() *Engine { return &Engine{} }

func (e *Engine) Name() string { return "pixelhash" }

func (e *Engine) Scores(ctx context.Context, img *image.RGBA, numClasses int) ([]float64, error) {
	if numClasses <= 0 {
		return nil, errors.New("pixelhash: no classes")
	}
	if img == nil {
		return nil, errors.New("pixelhash: nil image")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seed := sha256.Sum256(img.Pix)
	logits := make([]float64, numClasses)
	var buf [sha256.Size + 4]byte
	copy(buf[:], seed[:])
	for i := range logits {
		binary.LittleEndian.PutUint32(buf[sha256.Size:], uint32(i))
		h := sha256.Sum256(buf[:])
		u := binary.LittleEndian.Uint32(h[:4])
		logits[i] = float64(u) / float64(^uint32(0)) * logitScale
	}
	return engine.Softmax(logits), nil
}
