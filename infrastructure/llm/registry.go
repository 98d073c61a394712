package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"tweetbloom/application/ports"
	"tweetbloom/domain/core/valueobjects"

	"go.uber.org/zap"
)

// Registry resolves a backend by its AI tool key. Backends without a
// credential are registered too and fail every call with ErrMissingCredential.
type Registry struct {
	generators map[valueobjects.AITool]ports.TextGenerator
	logger     *zap.Logger
}

// NewRegistry builds every known backend and wraps each one with a circuit
// breaker, a trace span, a call timeout and metrics.
func NewRegistry(ctx context.Context, settings Settings, metrics ports.Metrics, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings = settings.withDefaults()
	httpClient := &http.Client{Timeout: settings.Timeout}

	raw := map[valueobjects.AITool]ports.TextGenerator{}
	add := func(tool valueobjects.AITool, gen ports.TextGenerator, err error) error {
		switch {
		case errors.Is(err, ports.ErrMissingCredential):
			logger.Warn("AI backend has no credential; calls will fail", zap.String("aiTool", tool.String()))
			raw[tool] = unconfigured{tool: tool}
		case err != nil:
			return fmt.Errorf("init %s backend: %w", tool, err)
		default:
			raw[tool] = gen
		}
		return nil
	}

	gemini, err := NewGeminiGenerator(ctx, settings.Gemini)
	if err := add(valueobjects.AIToolGemini, gemini, err); err != nil {
		return nil, err
	}
	openai, err := NewChatCompletionsGenerator("openai", settings.OpenAI, httpClient)
	if err := add(valueobjects.AIToolChatGPT, openai, err); err != nil {
		return nil, err
	}
	grok, err := NewChatCompletionsGenerator("grok", settings.Grok, httpClient)
	if err := add(valueobjects.AIToolGrok, grok, err); err != nil {
		return nil, err
	}

	return NewRegistryFromGenerators(raw, settings, metrics, logger), nil
}

// NewRegistryFromGenerators decorates ready-made generators
func NewRegistryFromGenerators(generators map[valueobjects.AITool]ports.TextGenerator, settings Settings, metrics ports.Metrics, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings = settings.withDefaults()
	r := &Registry{generators: make(map[valueobjects.AITool]ports.TextGenerator, len(generators)), logger: logger}
	for tool, gen := range generators {
		r.generators[tool] = newInstrumented(tool, gen, settings, metrics, logger)
	}
	return r
}

// Get returns the backend for tool
func (r *Registry) Get(tool valueobjects.AITool) (ports.TextGenerator, error) {
	gen, ok := r.generators[tool]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ports.ErrUnknownBackend, tool)
	}
	return gen, nil
}

// unconfigured stands in for a backend whose API key is missing
type unconfigured struct {
	tool valueobjects.AITool
}

func (u unconfigured) Generate(context.Context, string, []ports.Turn) (string, error) {
	return "", fmt.Errorf("%w: %s", ports.ErrMissingCredential, u.tool)
}

var _ ports.GeneratorRegistry = (*Registry)(nil)
