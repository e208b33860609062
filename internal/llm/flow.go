package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"cookwise/internal/config"
	"cookwise/internal/shared"
)

// NewFromConfig builds the text generator selected by cfg.LLMProvider.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Client, error) {
	switch cfg.LLMProvider {
	case config.ProviderGroq:
		return NewGroqClient(cfg, 0.3), nil
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

// RenderPrompt executes a prompt template against data.
func RenderPrompt(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s prompt: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", name, err)
	}

	return buf.String(), nil
}

// GenerateJSON sends prompt to gen and decodes the JSON answer into out.
// Every failure is wrapped with ErrGeneration. The returned meta carries token
// usage whenever the provider answered, even if decoding failed.
func GenerateJSON(ctx context.Context, gen TextGenerator, agent, prompt string, out any) (shared.AgentMeta, error) {
	start := time.Now()
	meta := shared.AgentMeta{AgentName: agent}

	resp, err := gen.GenerateContent(ctx, prompt)
	if err != nil {
		return meta, fmt.Errorf("%w: failed to get LLM response: %w", ErrGeneration, err)
	}
	meta.Usage = resp.Usage
	meta.Latency = time.Since(start)

	if err := json.Unmarshal([]byte(StripCodeFences(resp.Content)), out); err != nil {
		return meta, fmt.Errorf("%w: failed to unmarshal LLM response: %w", ErrGeneration, err)
	}

	return meta, nil
}

// StripCodeFences removes a surrounding markdown code block, which some
// models add even in JSON mode.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
