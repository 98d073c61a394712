package services

import (
	"strings"
	"unicode"

	"tweetbloom/domain/config"
	"tweetbloom/domain/core/valueobjects"
)

// sentenceBoundaryRatio is how far into the cut text a sentence end must lie
// to be preferred over a plain word boundary.
const sentenceBoundaryRatio = 0.7

// TruncationStats describes a Truncate call for observability
type TruncationStats struct {
	WasTruncated  bool `json:"was_truncated"`
	OriginalWords int  `json:"original_words"`
	OriginalChars int  `json:"original_chars"`
	FinalWords    int  `json:"final_words"`
	FinalChars    int  `json:"final_chars"`
}

// ComplianceEnforcer trims model output to the content budget
type ComplianceEnforcer struct {
	maxWords int
	maxChars int
}

// NewComplianceEnforcer creates an enforcer for the configured budget
func NewComplianceEnforcer(cfg *config.DomainConfig) *ComplianceEnforcer {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &ComplianceEnforcer{maxWords: cfg.MaxWords, maxChars: cfg.MaxChars}
}

// Enforce truncates text and reports what happened
func (e *ComplianceEnforcer) Enforce(text string) (string, TruncationStats) {
	out := Truncate(text, e.maxWords, e.maxChars)
	return out, Stats(text, out)
}

// Truncate shortens text to at most maxWords words and maxChars runes,
// preferring to end on a sentence boundary. Text that already fits is
// returned unchanged, so Truncate is idempotent.
func Truncate(text string, maxWords, maxChars int) string {
	if fits(text, maxWords, maxChars) {
		return text
	}

	result := []rune(strings.TrimSpace(text))
	if len(result) > maxChars {
		result = cutAtBoundary(result[:maxChars])
	}

	if words := strings.Fields(string(result)); len(words) > maxWords {
		result = preferSentenceEnd([]rune(strings.Join(words[:maxWords], " ")))
	}

	return strings.TrimSpace(string(result))
}

// Stats compares the original and truncated text
func Stats(original, truncated string) TruncationStats {
	return TruncationStats{
		WasTruncated:  original != truncated,
		OriginalWords: valueobjects.CountWords(original),
		OriginalChars: valueobjects.CountChars(original),
		FinalWords:    valueobjects.CountWords(truncated),
		FinalChars:    valueobjects.CountChars(truncated),
	}
}

func fits(text string, maxWords, maxChars int) bool {
	return valueobjects.CountChars(text) <= maxChars && valueobjects.CountWords(text) <= maxWords
}

// cutAtBoundary trims an already length-limited cut to a sentence end or,
// failing that, to the last whitespace. The first rune is never whitespace.
func cutAtBoundary(cut []rune) []rune {
	if end := lastSentenceEnd(cut); end >= 0 && float64(end) > float64(len(cut))*sentenceBoundaryRatio {
		return cut[:end+1]
	}
	for i := len(cut) - 1; i > 0; i-- {
		if unicode.IsSpace(cut[i]) {
			return cut[:i]
		}
	}
	return cut
}

func preferSentenceEnd(text []rune) []rune {
	if end := lastSentenceEnd(text); end >= 0 && float64(end) > float64(len(text))*sentenceBoundaryRatio {
		return text[:end+1]
	}
	return text
}

// lastSentenceEnd returns the index of the last '.', '!' or '?' followed by
// a space or newline, or -1.
func lastSentenceEnd(text []rune) int {
	for i := len(text) - 2; i >= 0; i-- {
		switch text[i] {
		case '.', '!', '?':
			if next := text[i+1]; next == ' ' || next == '\n' {
				return i
			}
		}
	}
	return -1
}
