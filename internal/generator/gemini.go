package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"legacy-modernizer/internal/logging"
	"legacy-modernizer/internal/model"
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("generator: empty response from model")

// contentAPI is the subset of *genai.Models the generator needs.
type contentAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini is a thin wrapper around the official genai client.
type Gemini struct {
	models      contentAPI
	model       string
	temperature float32
	maxRetries  int
	baseDelay   time.Duration
	log         *zap.SugaredLogger
}

func NewGemini(ctx context.Context, apiKey, modelName string, temperature float64, maxRetries int, log *zap.SugaredLogger) (*Gemini, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init genai client: %w", err)
	}
	return newGemini(cli.Models, modelName, temperature, maxRetries, log), nil
}

func newGemini(api contentAPI, modelName string, temperature float64, maxRetries int, log *zap.SugaredLogger) *Gemini {
	if maxRetries < 1 {
		maxRetries = 1
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Gemini{
		models:      api,
		model:       modelName,
		temperature: float32(temperature),
		maxRetries:  maxRetries,
		baseDelay:   300 * time.Millisecond,
		log:         log,
	}
}

func (g *Gemini) Name() string { return "Gemini:" + g.model }

// Generate asks the model for a Java translation, retrying failed calls
// with exponential backoff.
func (g *Gemini) Generate(ctx context.Context, source string, meta model.GenerationMeta) (string, error) {
	prompt := BuildPrompt(source, meta)
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	}
	contents := []*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: prompt}}}}

	g.log.Debugw("generation request", "program", meta.Fact.Name, "model", g.model, "bytes", len(prompt))

	var lastErr error
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		if attempt > 0 {
			delay := g.baseDelay * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := g.models.GenerateContent(ctx, g.model, contents, cfg)
		if err != nil {
			lastErr = err
			g.log.Warnw("generation attempt failed", "program", meta.Fact.Name, "attempt", attempt+1, "error", err)
			continue
		}
		text := responseText(resp)
		if text == "" {
			lastErr = ErrEmptyResponse
			continue
		}
		return StripFences(text), nil
	}
	return "", lastErr
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}
	var text string
	for _, part := range content.Parts {
		if part != nil {
			text += part.Text
		}
	}
	return text
}
