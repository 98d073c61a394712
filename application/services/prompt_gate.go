package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"tweetbloom/application/ports"
	pkgerrors "tweetbloom/pkg/errors"

	"go.uber.org/zap"
)

// FailurePolicy decides what prompt classification does when the gate backend fails
type FailurePolicy string

const (
	// FailOpen lets the prompt through as good
	FailOpen FailurePolicy = "open"
	// FailClosed rejects the turn with an upstream error
	FailClosed FailurePolicy = "closed"
)

// ParseFailurePolicy accepts "open" or "closed" in any case
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case FailOpen, FailClosed:
		return p, nil
	}
	return "", fmt.Errorf("invalid gate failure policy %q: must be open or closed", s)
}

// Verdict is the gate's judgement of a prompt
type Verdict string

const (
	VerdictGood Verdict = "good"
	VerdictBad  Verdict = "bad"
)

// Evaluation is the result of classifying a prompt
type Evaluation struct {
	Status     Verdict `json:"status"`
	Suggestion string  `json:"suggestion,omitempty"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// Suggestion is a proposed next user prompt
type Suggestion struct {
	NewPrompt string `json:"new_prompt"`
	Reasoning string `json:"reasoning,omitempty"`
}

const gateProvider = "prompt_gate"

// Fallback texts returned when the gate backend fails
const (
	FallbackEvaluationReasoning = "Evaluation failed, proceeding."
	FallbackSuggestionPrompt    = "Tell me more about that."
	FallbackSuggestionReasoning = "Fallback suggestion due to error."
	FallbackSummary             = "Failed to summarize chat."
	FallbackCombined            = "Failed to combine notes."
	FallbackSynthesis           = "Continue our previous conversation where we left off."
)

var errMalformedVerdict = errors.New("gate returned an unrecognised verdict")

// PromptGate uses one designated backend to classify prompts and to write
// suggestions, summaries and merged notes.
type PromptGate struct {
	generator ports.TextGenerator
	policy    atomic.Value // FailurePolicy
	metrics   ports.Metrics
	logger    *zap.Logger
}

// NewPromptGate creates a gate around the designated generator
func NewPromptGate(generator ports.TextGenerator, policy FailurePolicy, metrics ports.Metrics, logger *zap.Logger) *PromptGate {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &PromptGate{
		generator: generator,
		metrics:   metrics,
		logger:    logger.Named("prompt_gate"),
	}
	g.SetFailurePolicy(policy)
	return g
}

// SetFailurePolicy swaps the policy; safe to call while requests are in flight
func (g *PromptGate) SetFailurePolicy(policy FailurePolicy) {
	if policy != FailClosed {
		policy = FailOpen
	}
	g.policy.Store(policy)
}

// FailurePolicy returns the policy in force
func (g *PromptGate) FailurePolicy() FailurePolicy {
	return g.policy.Load().(FailurePolicy)
}

// EvaluatePrompt judges whether a prompt is specific enough to send
func (g *PromptGate) EvaluatePrompt(ctx context.Context, prompt string) (Evaluation, error) {
	eval, err := g.evaluate(ctx, prompt)
	if err == nil {
		g.metrics.RecordGateVerdict(string(eval.Status))
		return eval, nil
	}

	g.fallback("evaluate", err)
	if g.FailurePolicy() == FailClosed {
		return Evaluation{}, pkgerrors.NewUpstreamProviderError(gateProvider, err)
	}
	g.metrics.RecordGateVerdict(string(VerdictGood))
	return Evaluation{Status: VerdictGood, Reasoning: FallbackEvaluationReasoning}, nil
}

func (g *PromptGate) evaluate(ctx context.Context, prompt string) (Evaluation, error) {
	raw, err := g.generator.Generate(ctx, fmt.Sprintf(evaluateTemplate, prompt), nil)
	if err != nil {
		return Evaluation{}, err
	}

	var eval Evaluation
	if err := decodeJSON(raw, &eval); err != nil {
		return Evaluation{}, err
	}
	eval.Status = Verdict(strings.ToLower(strings.TrimSpace(string(eval.Status))))
	if eval.Status != VerdictGood && eval.Status != VerdictBad {
		return Evaluation{}, fmt.Errorf("%w: %q", errMalformedVerdict, eval.Status)
	}
	eval.Suggestion = strings.TrimSpace(eval.Suggestion)
	return eval, nil
}

// SuggestNextPrompt proposes what the user could ask next
func (g *PromptGate) SuggestNextPrompt(ctx context.Context, history []ports.Turn) Suggestion {
	raw, err := g.generator.Generate(ctx, fmt.Sprintf(suggestTemplate, formatHistory(history)), nil)
	if err == nil {
		var s Suggestion
		if err = decodeJSON(raw, &s); err == nil {
			s.NewPrompt = strings.TrimSpace(s.NewPrompt)
			if s.NewPrompt != "" {
				return s
			}
			err = errors.New("empty suggestion")
		}
	}

	g.fallback("suggest", err)
	return Suggestion{NewPrompt: FallbackSuggestionPrompt, Reasoning: FallbackSuggestionReasoning}
}

// SummarizeChat condenses a conversation into note text
func (g *PromptGate) SummarizeChat(ctx context.Context, history []ports.Turn) string {
	return g.freeText(ctx, "summarize", fmt.Sprintf(summarizeTemplate, formatHistory(history)), FallbackSummary)
}

// SynthesizeConversation writes a prompt that carries a conversation into a new one
func (g *PromptGate) SynthesizeConversation(ctx context.Context, history []ports.Turn) string {
	return g.freeText(ctx, "synthesize", fmt.Sprintf(synthesizeTemplate, formatHistory(history)), FallbackSynthesis)
}

// CombineNotes merges note contents, given in order, into one text
func (g *PromptGate) CombineNotes(ctx context.Context, contents []string) string {
	return g.freeText(ctx, "combine", fmt.Sprintf(combineTemplate, formatNotes(contents)), FallbackCombined)
}

func (g *PromptGate) freeText(ctx context.Context, op, instruction, fallback string) string {
	raw, err := g.generator.Generate(ctx, instruction, nil)
	if err == nil {
		if text := stripFences(raw); text != "" {
			return text
		}
		err = errors.New("empty response")
	}
	g.fallback(op, err)
	return fallback
}

func (g *PromptGate) fallback(op string, err error) {
	g.logger.Warn("Gate operation failed, using fallback",
		zap.String("operation", op),
		zap.String("policy", string(g.FailurePolicy())),
		zap.Error(err),
	)
	g.metrics.RecordGateFallback(op)
}

// decodeJSON parses model output, tolerating code fences and chatter
// around a single JSON object.
func decodeJSON(raw string, v interface{}) error {
	text := stripFences(raw)
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("gate response is not JSON: %q", truncateForLog(text))
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("decode gate response: %w", err)
	}
	return nil
}

func truncateForLog(s string) string {
	const max = 120
	if r := []rune(s); len(r) > max {
		return string(r[:max]) + "..."
	}
	return s
}
