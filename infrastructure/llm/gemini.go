package llm

import (
	"context"
	"fmt"
	"strings"

	"tweetbloom/application/ports"

	"google.golang.org/genai"
)

// GeminiGenerator answers prompts through the Gemini API
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed generator
func NewGeminiGenerator(ctx context.Context, cfg BackendSettings) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, ports.ErrMissingCredential
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiGenerator{client: client, model: cfg.Model}, nil
}

// Generate sends the prompt after the prior turns
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, history []ports.Turn) (string, error) {
	contents := geminiContents(prompt, history)

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", ports.ErrUpstream, err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned no text", ports.ErrUpstream)
	}
	return text, nil
}

// geminiContents maps turns to Gemini roles; assistant turns become "model"
func geminiContents(prompt string, history []ports.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, t := range history {
		role := genai.Role(genai.RoleUser)
		if t.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Content, role))
	}
	return append(contents, genai.NewContentFromText(prompt, genai.RoleUser))
}
