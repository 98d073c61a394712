package ports

import (
	"context"
	"errors"

	"tweetbloom/domain/core/valueobjects"
)

// Turn is one prior exchange passed to a text generator
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TextGenerator produces text from a prompt and optional prior turns
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, history []Turn) (string, error)
}

// GeneratorRegistry selects a backend by its enumerated key
type GeneratorRegistry interface {
	Get(tool valueobjects.AITool) (TextGenerator, error)
}

// Provider failure classes. Backends wrap these so callers can tell a
// misconfigured backend from a failing one.
var (
	ErrMissingCredential = errors.New("AI backend credential not configured")
	ErrUpstream          = errors.New("AI backend request failed")
	ErrUnknownBackend    = errors.New("unknown AI backend")
)
