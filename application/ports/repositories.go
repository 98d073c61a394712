package ports

import (
	"context"
	"errors"

	"tweetbloom/domain/core/entities"
	"tweetbloom/domain/core/valueobjects"
)

// ErrTurnCapReached is returned by AppendResponse when the conversation
// already holds the maximum number of responses.
var ErrTurnCapReached = errors.New("conversation turn cap reached")

// ConversationFilter narrows conversation listings
type ConversationFilter struct {
	FolderID *valueobjects.FolderID
}

// ConversationRepository persists conversations. Every call is scoped to userID.
type ConversationRepository interface {
	Create(ctx context.Context, conversation *entities.Conversation) error
	GetByID(ctx context.Context, userID string, id valueobjects.ConversationID) (*entities.Conversation, error)
	List(ctx context.Context, userID string, filter ConversationFilter) ([]*entities.Conversation, error)
	// Update saves title, folder and updatedAt.
	Update(ctx context.Context, conversation *entities.Conversation) error
	// Delete removes the conversation with its messages and tag links.
	Delete(ctx context.Context, userID string, id valueobjects.ConversationID) error
}

// MessageRepository persists the append-only message log of a conversation
type MessageRepository interface {
	Append(ctx context.Context, userID string, message *entities.Message) error
	// AppendResponse stores an assistant response only while the conversation
	// holds fewer than turnCap responses. The check and the insert are atomic;
	// a full conversation yields ErrTurnCapReached. It returns the response
	// count including the new message.
	AppendResponse(ctx context.Context, userID string, message *entities.Message, turnCap int) (int, error)
	// ListByConversation returns messages oldest first.
	ListByConversation(ctx context.Context, userID string, conversationID valueobjects.ConversationID) ([]*entities.Message, error)
	CountResponses(ctx context.Context, userID string, conversationID valueobjects.ConversationID) (int, error)
}

// NoteRepository persists notes
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) error
	GetByID(ctx context.Context, userID string, id valueobjects.NoteID) (*entities.Note, error)
	List(ctx context.Context, userID string) ([]*entities.Note, error)
	ListChildren(ctx context.Context, userID string, parentID valueobjects.NoteID) ([]*entities.Note, error)
	Update(ctx context.Context, note *entities.Note) error
	// Delete removes the note, its descendants and their tag links.
	Delete(ctx context.Context, userID string, id valueobjects.NoteID) error
}

// TagRepository persists tags and their associations
type TagRepository interface {
	Create(ctx context.Context, tag *entities.Tag) error
	GetByID(ctx context.Context, userID string, id valueobjects.TagID) (*entities.Tag, error)
	List(ctx context.Context, userID string) ([]*entities.Tag, error)
	Update(ctx context.Context, tag *entities.Tag) error
	// Delete removes the tag and every association to it.
	Delete(ctx context.Context, userID string, id valueobjects.TagID) error

	// SetTags replaces the owner's whole tag set in one atomic step.
	SetTags(ctx context.Context, userID string, owner entities.TagOwner, tagIDs []valueobjects.TagID) error
	ListTagIDs(ctx context.Context, userID string, owner entities.TagOwner) ([]valueobjects.TagID, error)
}

// FolderRepository persists folders
type FolderRepository interface {
	Create(ctx context.Context, folder *entities.Folder) error
	GetByID(ctx context.Context, userID string, id valueobjects.FolderID) (*entities.Folder, error)
	List(ctx context.Context, userID string) ([]*entities.Folder, error)
	Update(ctx context.Context, folder *entities.Folder) error
	// Delete removes the folder and detaches its conversations in the same transaction.
	Delete(ctx context.Context, userID string, id valueobjects.FolderID) error
}

// SettingsRepository persists user preferences
type SettingsRepository interface {
	// Get returns default settings when the user has none stored.
	Get(ctx context.Context, userID string) (*entities.UserSettings, error)
	Save(ctx context.Context, settings *entities.UserSettings) error
}

// HealthChecker reports whether a backing store is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}
