package generator

import (
	"context"

	"legacy-modernizer/internal/model"
)

// MockOutput is what Mock returns when no API key is configured.
const MockOutput = "// [MOCK] No generation API key found. Set GEMINI_API_KEY (or add it to .env) to see a real conversion."

// Mock returns fixed text without contacting any service.
type Mock struct {
	Output string
}

func (m Mock) Name() string { return "Mock" }

func (m Mock) Generate(ctx context.Context, _ string, _ model.GenerationMeta) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Output == "" {
		return MockOutput, nil
	}
	return m.Output, nil
}
