package valueobjects

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"tweetbloom/domain/config"
	pkgerrors "tweetbloom/pkg/errors"
)

// BoundedContent is text that fits the shared word and character budget
type BoundedContent struct {
	text string
}

// NewBoundedContent validates content against the default budget
func NewBoundedContent(text string) (BoundedContent, error) {
	return NewBoundedContentWithConfig(text, config.DefaultDomainConfig())
}

// NewBoundedContentWithConfig validates trimmed content against cfg
func NewBoundedContentWithConfig(text string, cfg *config.DomainConfig) (BoundedContent, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return BoundedContent{}, pkgerrors.NewValidationError("content cannot be empty")
	}
	if words := CountWords(text); words > cfg.MaxWords {
		return BoundedContent{}, pkgerrors.NewValidationError(
			fmt.Sprintf("content exceeds %d words (got %d)", cfg.MaxWords, words))
	}
	if chars := CountChars(text); chars > cfg.MaxChars {
		return BoundedContent{}, pkgerrors.NewValidationError(
			fmt.Sprintf("content exceeds %d characters (got %d)", cfg.MaxChars, chars))
	}

	return BoundedContent{text: text}, nil
}

// RestoreBoundedContent wraps text that was validated when it was stored
func RestoreBoundedContent(text string) BoundedContent {
	return BoundedContent{text: text}
}

func (c BoundedContent) String() string { return c.text }

// IsEmpty reports whether the content is the zero value
func (c BoundedContent) IsEmpty() bool { return c.text == "" }

// CountWords counts whitespace-separated words
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// CountChars counts runes
func CountChars(s string) int {
	return utf8.RuneCountInString(s)
}
