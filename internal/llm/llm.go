package llm

import (
	"context"
	"errors"

	"cookwise/internal/shared"
)

// ErrGeneration marks any failure of an AI flow: transport errors, empty
// candidates, malformed JSON and schema rejections alike.
var ErrGeneration = errors.New("generation failed")

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// Client is a TextGenerator that holds resources.
type Client interface {
	TextGenerator
	Closer
}
