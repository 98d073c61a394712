package entities

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"tweetbloom/domain/core/valueobjects"
	pkgerrors "tweetbloom/pkg/errors"
)

// Folder groups conversations
type Folder struct {
	ID        valueobjects.FolderID
	UserID    string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewFolder creates a named folder
func NewFolder(userID, name string, maxNameLength int) (*Folder, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	now := time.Now().UTC()
	f := &Folder{
		ID:        valueobjects.NewFolderID(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := f.Rename(name, maxNameLength); err != nil {
		return nil, err
	}
	return f, nil
}

// Rename sets a 1..maxLength character name
func (f *Folder) Rename(name string, maxLength int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return pkgerrors.NewValidationError("folder name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxLength {
		return pkgerrors.NewValidationError(fmt.Sprintf("folder name must be at most %d characters", maxLength))
	}
	f.Name = name
	f.UpdatedAt = time.Now().UTC()
	return nil
}
