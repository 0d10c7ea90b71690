package classifier

import (
	"context"
	"math/rand"
)

type Label string

const (
	LabelSupportive    Label = "supportive"
	LabelContradictory Label = "contradictory"
)

// Result is a classifier verdict for one reply relative to its parent.
type Result struct {
	Label      Label
	Confidence float64
	Source     string
}

// Classifier labels a reply as supportive or contradictory of its parent.
// Implementations are swappable; the scoring engine receives one at
// construction time and never reaches for a global.
type Classifier interface {
	ClassifyReply(ctx context.Context, replyID uint64, content, parentContent string) (Result, error)
}

// RandomClassifier is the placeholder implementation: a uniform coin flip.
type RandomClassifier struct{}

func NewRandomClassifier() *RandomClassifier {
	return &RandomClassifier{}
}

func (c *RandomClassifier) ClassifyReply(_ context.Context, _ uint64, _, _ string) (Result, error) {
	label := LabelSupportive
	if rand.Intn(2) == 1 {
		label = LabelContradictory
	}
	return Result{Label: label, Confidence: 0.5, Source: "random"}, nil
}
