package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"tweetbloom/application/ports"
	"tweetbloom/application/ports/mocks"
	"tweetbloom/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestNewRegistry_MissingCredentials(t *testing.T) {
	registry, err := NewRegistry(context.Background(), Settings{}, mocks.NopMetrics{}, nil)
	require.NoError(t, err)

	for _, tool := range valueobjects.AllAITools() {
		gen, err := registry.Get(tool)
		require.NoError(t, err)

		_, err = gen.Generate(context.Background(), "hello", nil)
		assert.ErrorIs(t, err, ports.ErrMissingCredential, tool.String())
	}
}

func TestRegistry_UnknownBackend(t *testing.T) {
	registry := NewRegistryFromGenerators(nil, Settings{}, mocks.NopMetrics{}, nil)
	_, err := registry.Get("CLAUDE")
	assert.ErrorIs(t, err, ports.ErrUnknownBackend)
}

func TestInstrumented_AppliesDefaultDeadline(t *testing.T) {
	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), "hi", []ports.Turn(nil)).Return("ok", nil)

	registry := NewRegistryFromGenerators(
		map[valueobjects.AITool]ports.TextGenerator{valueobjects.AIToolGemini: gen},
		Settings{Timeout: time.Second}, mocks.NopMetrics{}, nil,
	)
	wrapped, err := registry.Get(valueobjects.AIToolGemini)
	require.NoError(t, err)

	text, err := wrapped.Generate(context.Background(), "hi", nil)

	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	gen.AssertExpectations(t)
}

func TestInstrumented_BreakerOpensAfterFailures(t *testing.T) {
	gen := new(mocks.MockTextGenerator)
	upstream := errors.New("503 from backend")
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", upstream)

	registry := NewRegistryFromGenerators(
		map[valueobjects.AITool]ports.TextGenerator{valueobjects.AIToolGrok: gen},
		Settings{BreakerMinRequests: 3, BreakerFailureThreshold: 0.5, BreakerOpenTimeout: time.Minute},
		mocks.NopMetrics{}, nil,
	)
	wrapped, _ := registry.Get(valueobjects.AIToolGrok)

	for i := 0; i < 3; i++ {
		_, err := wrapped.Generate(context.Background(), "hi", nil)
		assert.ErrorIs(t, err, upstream)
	}

	_, err := wrapped.Generate(context.Background(), "hi", nil)
	assert.ErrorIs(t, err, ports.ErrUpstream)
	gen.AssertNumberOfCalls(t, "Generate", 3)
}

func TestInstrumented_MissingCredentialDoesNotTrip(t *testing.T) {
	registry := NewRegistryFromGenerators(
		map[valueobjects.AITool]ports.TextGenerator{valueobjects.AIToolChatGPT: unconfigured{tool: valueobjects.AIToolChatGPT}},
		Settings{BreakerMinRequests: 1, BreakerFailureThreshold: 0.1},
		mocks.NopMetrics{}, nil,
	)
	wrapped, _ := registry.Get(valueobjects.AIToolChatGPT)

	for i := 0; i < 5; i++ {
		_, err := wrapped.Generate(context.Background(), "hi", nil)
		assert.ErrorIs(t, err, ports.ErrMissingCredential)
	}
}

func TestGeminiContents(t *testing.T) {
	contents := geminiContents("now", []ports.Turn{
		{Role: "user", Content: "q"},
		{Role: "assistant", Content: "a"},
	})

	require.Len(t, contents, 3)
	assert.Equal(t, genai.Role(genai.RoleUser), genai.Role(contents[0].Role))
	assert.Equal(t, genai.Role(genai.RoleModel), genai.Role(contents[1].Role))
	assert.Equal(t, "now", contents[2].Parts[0].Text)
}
