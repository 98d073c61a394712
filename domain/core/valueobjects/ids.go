package valueobjects

import (
	"fmt"

	"github.com/google/uuid"
)

// ConversationID identifies a conversation
type ConversationID string

// MessageID identifies a message
type MessageID string

// NoteID identifies a note
type NoteID string

// TagID identifies a tag
type TagID string

// FolderID identifies a folder
type FolderID string

func NewConversationID() ConversationID { return ConversationID(uuid.NewString()) }
func NewMessageID() MessageID           { return MessageID(uuid.NewString()) }
func NewNoteID() NoteID                 { return NoteID(uuid.NewString()) }
func NewTagID() TagID                   { return TagID(uuid.NewString()) }
func NewFolderID() FolderID             { return FolderID(uuid.NewString()) }

func (id ConversationID) String() string { return string(id) }
func (id MessageID) String() string      { return string(id) }
func (id NoteID) String() string         { return string(id) }
func (id TagID) String() string          { return string(id) }
func (id FolderID) String() string       { return string(id) }

// ParseConversationID validates a conversation identifier
func ParseConversationID(s string) (ConversationID, error) {
	v, err := parseUUID("conversation", s)
	return ConversationID(v), err
}

// ParseMessageID validates a message identifier
func ParseMessageID(s string) (MessageID, error) {
	v, err := parseUUID("message", s)
	return MessageID(v), err
}

// ParseNoteID validates a note identifier
func ParseNoteID(s string) (NoteID, error) {
	v, err := parseUUID("note", s)
	return NoteID(v), err
}

// ParseTagID validates a tag identifier
func ParseTagID(s string) (TagID, error) {
	v, err := parseUUID("tag", s)
	return TagID(v), err
}

// ParseFolderID validates a folder identifier
func ParseFolderID(s string) (FolderID, error) {
	v, err := parseUUID("folder", s)
	return FolderID(v), err
}

// ParseTagIDs validates a list of tag identifiers, dropping duplicates
// while keeping first-seen order.
func ParseTagIDs(raw []string) ([]TagID, error) {
	seen := make(map[TagID]struct{}, len(raw))
	ids := make([]TagID, 0, len(raw))
	for _, s := range raw {
		id, err := ParseTagID(s)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseUUID(kind, s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("%s ID cannot be empty", kind)
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%s ID must be a valid UUID", kind)
	}
	return parsed.String(), nil
}
