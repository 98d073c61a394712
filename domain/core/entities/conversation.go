package entities

import (
	"strings"
	"time"

	"tweetbloom/domain/core/valueobjects"
	pkgerrors "tweetbloom/pkg/errors"
)

// Conversation is a capped sequence of user/assistant turns tied to one backend
type Conversation struct {
	id        valueobjects.ConversationID
	userID    string
	title     string
	aiTool    valueobjects.AITool
	folderID  *valueobjects.FolderID
	createdAt time.Time
	updatedAt time.Time
	version   int
}

// NewConversation starts a conversation whose title is derived from the first prompt
func NewConversation(userID, firstPrompt string, tool valueobjects.AITool, titleMaxRunes int) (*Conversation, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if !tool.IsValid() {
		return nil, pkgerrors.NewValidationError("unknown AI tool")
	}

	now := time.Now().UTC()
	return &Conversation{
		id:        valueobjects.NewConversationID(),
		userID:    userID,
		title:     TitleFromPrompt(firstPrompt, titleMaxRunes),
		aiTool:    tool,
		createdAt: now,
		updatedAt: now,
		version:   1,
	}, nil
}

// ReconstructConversation rebuilds a conversation from stored data
func ReconstructConversation(
	id valueobjects.ConversationID,
	userID, title string,
	tool valueobjects.AITool,
	folderID *valueobjects.FolderID,
	createdAt, updatedAt time.Time,
	version int,
) *Conversation {
	return &Conversation{
		id:        id,
		userID:    userID,
		title:     title,
		aiTool:    tool,
		folderID:  folderID,
		createdAt: createdAt,
		updatedAt: updatedAt,
		version:   version,
	}
}

// TitleFromPrompt keeps the first maxRunes runes of the prompt, marking a cut with "..."
func TitleFromPrompt(prompt string, maxRunes int) string {
	prompt = strings.TrimSpace(prompt)
	runes := []rune(prompt)
	if len(runes) <= maxRunes {
		return prompt
	}
	return string(runes[:maxRunes]) + "..."
}

func (c *Conversation) ID() valueobjects.ConversationID  { return c.id }
func (c *Conversation) UserID() string                   { return c.userID }
func (c *Conversation) Title() string                    { return c.title }
func (c *Conversation) AITool() valueobjects.AITool      { return c.aiTool }
func (c *Conversation) FolderID() *valueobjects.FolderID { return c.folderID }
func (c *Conversation) CreatedAt() time.Time             { return c.createdAt }
func (c *Conversation) UpdatedAt() time.Time             { return c.updatedAt }
func (c *Conversation) Version() int                     { return c.version }

// Rename changes the title
func (c *Conversation) Rename(title string, maxLength int) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return pkgerrors.NewValidationError("title cannot be empty")
	}
	if len([]rune(title)) > maxLength {
		return pkgerrors.NewValidationError("title is too long")
	}
	c.title = title
	c.Touch()
	return nil
}

// MoveToFolder files the conversation; nil detaches it
func (c *Conversation) MoveToFolder(folderID *valueobjects.FolderID) {
	c.folderID = folderID
	c.Touch()
}

// Touch records activity on the conversation
func (c *Conversation) Touch() {
	c.updatedAt = time.Now().UTC()
}

// TurnState is the derived cap state of a conversation
type TurnState struct {
	ResponseCount    int  `json:"responseCount"`
	HasReachedLimit  bool `json:"hasReachedLimit"`
	CanOfferWhatNext bool `json:"canOfferWhatNext"`
}

// NewTurnState derives the cap flags from the number of recorded responses
func NewTurnState(responseCount, turnCap int) TurnState {
	reached := responseCount >= turnCap
	return TurnState{
		ResponseCount:    responseCount,
		HasReachedLimit:  reached,
		CanOfferWhatNext: responseCount > 0 && !reached,
	}
}
