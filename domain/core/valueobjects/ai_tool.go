package valueobjects

import (
	"fmt"
	"strings"
)

// AITool selects the text-generation backend of a conversation
type AITool string

const (
	AIToolGemini  AITool = "GEMINI"
	AIToolChatGPT AITool = "CHATGPT"
	AIToolGrok    AITool = "GROK"
)

// DefaultAITool is used when neither the request nor the user's settings name one
const DefaultAITool = AIToolGemini

// AllAITools lists the known backends in display order
func AllAITools() []AITool {
	return []AITool{AIToolGemini, AIToolChatGPT, AIToolGrok}
}

// ParseAITool accepts any casing of a known backend name
func ParseAITool(s string) (AITool, error) {
	tool := AITool(strings.ToUpper(strings.TrimSpace(s)))
	if !tool.IsValid() {
		return "", fmt.Errorf("unknown AI tool %q: must be one of GEMINI, CHATGPT, GROK", s)
	}
	return tool, nil
}

// IsValid reports whether the tool is one of the known backends
func (t AITool) IsValid() bool {
	switch t {
	case AIToolGemini, AIToolChatGPT, AIToolGrok:
		return true
	}
	return false
}

func (t AITool) String() string { return string(t) }
