package commands

import (
	"errors"

	"tweetbloom/domain/core/valueobjects"
)

// SubmitTurnCommand asks for one model answer in a new or existing conversation
type SubmitTurnCommand struct {
	UserID         string                       `json:"user_id" validate:"required"`
	Prompt         string                       `json:"prompt" validate:"required"`
	ConversationID *valueobjects.ConversationID `json:"conversation_id,omitempty"`
	AITool         *valueobjects.AITool         `json:"ai_tool,omitempty"`
	BypassGate     bool                         `json:"bypass_gate"`
}

// Validate validates the command
func (cmd SubmitTurnCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.AITool != nil && !cmd.AITool.IsValid() {
		return errors.New("unknown AI tool")
	}
	return nil
}

// UpdateConversationCommand edits conversation metadata. Nil fields are left alone.
type UpdateConversationCommand struct {
	UserID         string
	ConversationID valueobjects.ConversationID
	Title          *string
	// FolderID set to "" detaches the conversation from its folder
	FolderID *string
	TagIDs   *[]valueobjects.TagID
}

// Validate validates the command
func (cmd UpdateConversationCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.ConversationID == "" {
		return errors.New("conversation ID is required")
	}
	return nil
}

// CreateNoteCommand creates a note, optionally under a parent
type CreateNoteCommand struct {
	UserID   string
	Content  string
	ParentID *valueobjects.NoteID
	TagIDs   []valueobjects.TagID
}

// Validate validates the command
func (cmd CreateNoteCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// UpdateNoteCommand edits, moves or retags a note. Nil fields are left alone.
type UpdateNoteCommand struct {
	UserID  string
	NoteID  valueobjects.NoteID
	Content *string
	// ParentID set to "" moves the note to the root
	ParentID *string
	TagIDs   *[]valueobjects.TagID
}

// Validate validates the command
func (cmd UpdateNoteCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.NoteID == "" {
		return errors.New("note ID is required")
	}
	return nil
}

// CreateTagCommand creates a tag
type CreateTagCommand struct {
	UserID string
	Name   string
	Color  string
}

// UpdateTagCommand renames or recolors a tag
type UpdateTagCommand struct {
	UserID string
	TagID  valueobjects.TagID
	Name   *string
	Color  *string
}
