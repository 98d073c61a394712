package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tweetbloom/application/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCompletionsGenerator_Generate(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  hello there  "}}]}`))
	}))
	defer server.Close()

	gen, err := NewChatCompletionsGenerator("grok", BackendSettings{APIKey: "test-key", Model: "grok-test", BaseURL: server.URL + "/"}, server.Client())
	require.NoError(t, err)

	text, err := gen.Generate(context.Background(), "next question", []ports.Turn{
		{Role: "user", Content: "first"},
		{Role: "assistant", Content: "answer"},
	})

	require.NoError(t, err)
	assert.Equal(t, "hello there", text)
	assert.Equal(t, "grok-test", got.Model)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, chatMessage{Role: "system", Content: SystemInstruction}, got.Messages[0])
	assert.Equal(t, chatMessage{Role: "assistant", Content: "answer"}, got.Messages[2])
	assert.Equal(t, chatMessage{Role: "user", Content: "next question"}, got.Messages[3])
}

func TestChatCompletionsGenerator_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom"}}`},
		{"rate limited", http.StatusTooManyRequests, `slow down`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"empty content", http.StatusOK, `{"choices":[{"message":{"content":"   "}}]}`},
		{"api error body", http.StatusOK, `{"error":{"message":"model not found"}}`},
		{"not json", http.StatusOK, `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			gen, err := NewChatCompletionsGenerator("openai", BackendSettings{APIKey: "k", Model: "m", BaseURL: server.URL}, server.Client())
			require.NoError(t, err)

			_, err = gen.Generate(context.Background(), "hi", nil)

			assert.True(t, errors.Is(err, ports.ErrUpstream), "got %v", err)
			assert.Equal(t, 1, calls, "upstream calls are never retried")
		})
	}
}

func TestNewChatCompletionsGenerator_MissingKey(t *testing.T) {
	_, err := NewChatCompletionsGenerator("openai", BackendSettings{Model: "m"}, nil)
	assert.ErrorIs(t, err, ports.ErrMissingCredential)
}
