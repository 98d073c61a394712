package utils

import (
	"strings"
	"testing"

	"tweetbloom/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type promptRequest struct {
	Prompt string   `json:"prompt" validate:"required,max=1200,maxwords=150"`
	Color  string   `json:"color" validate:"omitempty,hexcolor6"`
	Tool   string   `json:"aiTool" validate:"omitempty,oneof=GEMINI CHATGPT GROK"`
	IDs    []string `json:"noteIds" validate:"omitempty,min=2,max=7,dive,uuid"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		req     promptRequest
		wantErr string
	}{
		{"valid", promptRequest{Prompt: "Explain goroutines in simple terms", Color: "#ff5733"}, ""},
		{"exactly 150 words", promptRequest{Prompt: strings.TrimSpace(strings.Repeat("word ", 150))}, ""},
		{"missing prompt", promptRequest{}, "prompt is required"},
		{"151 words", promptRequest{Prompt: strings.TrimSpace(strings.Repeat("word ", 151))}, "prompt must be at most 150 words"},
		{"too many characters", promptRequest{Prompt: strings.Repeat("a", 1201)}, "prompt must be at most 1200 characters"},
		{"color without hash", promptRequest{Prompt: "x", Color: "FF5733"}, "color must be a hex color"},
		{"short color", promptRequest{Prompt: "x", Color: "#FF57"}, "color must be a hex color"},
		{"unknown tool", promptRequest{Prompt: "x", Tool: "CLAUDE"}, "aiTool must be one of"},
		{"one id", promptRequest{Prompt: "x", IDs: []string{"6f1c2a9e-1b7d-4c55-9d1c-3d0f4f3b2a10"}}, "noteIds must contain at least 2 items"},
		{"bad id", promptRequest{Prompt: "x", IDs: []string{"nope", "6f1c2a9e-1b7d-4c55-9d1c-3d0f4f3b2a10"}}, "must be a valid UUID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.req)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHexColorMatchesTagColor(t *testing.T) {
	for _, color := range []string{"#ff5733", "#FF5733", "FF5733", "#FF57", "#GG5733", "#FF57331", " #FF5733"} {
		t.Run(color, func(t *testing.T) {
			err := ValidateStruct(promptRequest{Prompt: "x", Color: color})
			assert.Equal(t, valueobjects.IsHexColor(color), err == nil)

			_, tagErr := valueobjects.NewTagColor(color)
			assert.Equal(t, tagErr == nil, err == nil)
		})
	}
}
