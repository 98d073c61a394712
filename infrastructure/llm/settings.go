package llm

import "time"

// SystemInstruction is sent to every backend so answers fit the content budget
const SystemInstruction = "You are a concise assistant. Respond in 150 words or fewer and no more than 1200 characters."

// Default models and endpoints
const (
	DefaultGeminiModel   = "gemini-2.5-flash-lite"
	DefaultOpenAIModel   = "gpt-5-nano"
	DefaultGrokModel     = "grok-4-fast-reasoning"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultGrokBaseURL   = "https://api.x.ai/v1"
	DefaultTimeout       = 60 * time.Second
)

// BackendSettings configures one backend
type BackendSettings struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Settings configures every backend in the registry
type Settings struct {
	Gemini  BackendSettings
	OpenAI  BackendSettings
	Grok    BackendSettings
	Timeout time.Duration

	// Circuit breaker
	BreakerMinRequests      uint32
	BreakerFailureThreshold float64
	BreakerOpenTimeout      time.Duration
}

// withDefaults fills unset fields
func (s Settings) withDefaults() Settings {
	if s.Gemini.Model == "" {
		s.Gemini.Model = DefaultGeminiModel
	}
	if s.OpenAI.Model == "" {
		s.OpenAI.Model = DefaultOpenAIModel
	}
	if s.OpenAI.BaseURL == "" {
		s.OpenAI.BaseURL = DefaultOpenAIBaseURL
	}
	if s.Grok.Model == "" {
		s.Grok.Model = DefaultGrokModel
	}
	if s.Grok.BaseURL == "" {
		s.Grok.BaseURL = DefaultGrokBaseURL
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	if s.BreakerMinRequests == 0 {
		s.BreakerMinRequests = 5
	}
	if s.BreakerFailureThreshold <= 0 {
		s.BreakerFailureThreshold = 0.8
	}
	if s.BreakerOpenTimeout <= 0 {
		s.BreakerOpenTimeout = 30 * time.Second
	}
	return s
}
