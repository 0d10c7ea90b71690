package classifier

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

const classifyPrompt = `You judge whether a discussion reply supports or contradicts its parent.
Answer with exactly one line: "supportive <confidence>" or "contradictory <confidence>",
where <confidence> is a number between 0 and 1, e.g. "contradictory 0.85".
No other words, punctuation, or lines.`

// GeminiClassifier labels replies with a Gemini text model.
type GeminiClassifier struct {
	model string
}

func NewGeminiClassifier(model string) *GeminiClassifier {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiClassifier{model: model}
}

func (c *GeminiClassifier) ClassifyReply(ctx context.Context, replyID uint64, content, parentContent string) (Result, error) {
	start := time.Now()
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("gemini client: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(classifyPrompt),
		genai.NewPartFromText(fmt.Sprintf("Parent: %s\nReply: %s", parentContent, content)),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	temp := float32(0)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	res, err := client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return Result{}, fmt.Errorf("gemini generate: %w", err)
	}

	raw := res.Text()
	label, confidence, err := ParseLabel(raw)
	if err != nil {
		log.WithFields(log.Fields{
			"reply_id": replyID,
			"model":    c.model,
			"raw":      truncate(raw, 80),
		}).Warn("classifier output did not parse")
		return Result{}, err
	}
	log.WithFields(log.Fields{
		"reply_id":   replyID,
		"model":      c.model,
		"label":      label,
		"confidence": confidence,
		"ms":         time.Since(start).Milliseconds(),
	}).Debug("reply classified")
	return Result{Label: label, Confidence: confidence, Source: "gemini:" + c.model}, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
