package config

// DomainConfig holds the business limits of the product
type DomainConfig struct {
	// Content budget shared by prompts, model output and notes
	MaxWords int
	MaxChars int

	// Conversation limits
	TurnCap          int // assistant responses per conversation
	TitleMaxRunes    int
	MaxTitleLength   int // explicit renames
	EvaluationWindow int // messages considered by next-prompt suggestions

	// Note hierarchy
	MaxNoteDepth    int
	MinCombineNotes int
	MaxCombineNotes int

	// Tags and folders
	MaxTagNameLength    int
	MaxFolderNameLength int
	MaxTagsPerOwner     int

	// Gate heuristics
	MinPromptWords int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxWords: 150,
		MaxChars: 1200,

		TurnCap:          7,
		TitleMaxRunes:    50,
		MaxTitleLength:   200,
		EvaluationWindow: 10,

		MaxNoteDepth:    3,
		MinCombineNotes: 2,
		MaxCombineNotes: 7,

		MaxTagNameLength:    50,
		MaxFolderNameLength: 100,
		MaxTagsPerOwner:     40,

		MinPromptWords: 5,
	}
}
