package entities

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"tweetbloom/domain/core/valueobjects"
	pkgerrors "tweetbloom/pkg/errors"
)

// TagOwnerKind names the entity type a tag is attached to
type TagOwnerKind string

const (
	TagOwnerNote         TagOwnerKind = "note"
	TagOwnerConversation TagOwnerKind = "conversation"
)

// TagOwner identifies the note or conversation whose tag set is replaced
type TagOwner struct {
	Kind TagOwnerKind
	ID   string
}

// NoteTagOwner returns the tag owner for a note
func NoteTagOwner(id valueobjects.NoteID) TagOwner {
	return TagOwner{Kind: TagOwnerNote, ID: id.String()}
}

// ConversationTagOwner returns the tag owner for a conversation
func ConversationTagOwner(id valueobjects.ConversationID) TagOwner {
	return TagOwner{Kind: TagOwnerConversation, ID: id.String()}
}

// Tag is a user-defined label
type Tag struct {
	ID        valueobjects.TagID
	UserID    string
	Name      string
	Color     valueobjects.TagColor
	CreatedAt time.Time
}

// NewTag validates and creates a tag
func NewTag(userID, name, color string, maxNameLength int) (*Tag, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	tag := &Tag{
		ID:        valueobjects.NewTagID(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := tag.Rename(name, maxNameLength); err != nil {
		return nil, err
	}
	if err := tag.Recolor(color); err != nil {
		return nil, err
	}
	return tag, nil
}

// Rename sets a 1..maxLength character name
func (t *Tag) Rename(name string, maxLength int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return pkgerrors.NewValidationError("tag name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxLength {
		return pkgerrors.NewValidationError(fmt.Sprintf("tag name must be at most %d characters", maxLength))
	}
	t.Name = name
	return nil
}

// Recolor sets a #RRGGBB color
func (t *Tag) Recolor(color string) error {
	c, err := valueobjects.NewTagColor(color)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	t.Color = c
	return nil
}
