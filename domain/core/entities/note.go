package entities

import (
	"time"

	"tweetbloom/domain/core/valueobjects"
	pkgerrors "tweetbloom/pkg/errors"
)

// Note is a bounded piece of text placed in a shallow hierarchy
type Note struct {
	id        valueobjects.NoteID
	userID    string
	parentID  *valueobjects.NoteID
	content   valueobjects.BoundedContent
	createdAt time.Time
	updatedAt time.Time
}

// NewNote creates a note; a nil parent makes it a root
func NewNote(userID string, content valueobjects.BoundedContent, parentID *valueobjects.NoteID) (*Note, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if content.IsEmpty() {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}

	now := time.Now().UTC()
	return &Note{
		id:        valueobjects.NewNoteID(),
		userID:    userID,
		parentID:  parentID,
		content:   content,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructNote rebuilds a note from stored data
func ReconstructNote(
	id valueobjects.NoteID,
	userID string,
	parentID *valueobjects.NoteID,
	content valueobjects.BoundedContent,
	createdAt, updatedAt time.Time,
) *Note {
	return &Note{
		id:        id,
		userID:    userID,
		parentID:  parentID,
		content:   content,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (n *Note) ID() valueobjects.NoteID              { return n.id }
func (n *Note) UserID() string                       { return n.userID }
func (n *Note) ParentID() *valueobjects.NoteID       { return n.parentID }
func (n *Note) Content() valueobjects.BoundedContent { return n.content }
func (n *Note) CreatedAt() time.Time                 { return n.createdAt }
func (n *Note) UpdatedAt() time.Time                 { return n.updatedAt }
func (n *Note) IsRoot() bool                         { return n.parentID == nil }

// UpdateContent replaces the note text
func (n *Note) UpdateContent(content valueobjects.BoundedContent) {
	n.content = content
	n.updatedAt = time.Now().UTC()
}

// MoveTo re-parents the note; depth rules are checked by the caller
func (n *Note) MoveTo(parentID *valueobjects.NoteID) error {
	if parentID != nil && *parentID == n.id {
		return pkgerrors.NewValidationError("a note cannot be its own parent")
	}
	n.parentID = parentID
	n.updatedAt = time.Now().UTC()
	return nil
}
