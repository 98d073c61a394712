package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"tweetbloom/application/commands"
	"tweetbloom/application/services"
	"tweetbloom/domain/core/entities"
	"tweetbloom/domain/core/valueobjects"
	"tweetbloom/pkg/auth"
	pkgerrors "tweetbloom/pkg/errors"
	"tweetbloom/pkg/utils"

	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 10

// ConversationUseCases is the conversation surface the handlers call
type ConversationUseCases interface {
	SubmitTurn(ctx context.Context, cmd commands.SubmitTurnCommand) (*services.TurnResult, error)
	Continue(ctx context.Context, userID string, id valueobjects.ConversationID) (string, error)
	Evaluate(ctx context.Context, userID string, id valueobjects.ConversationID, messageID *valueobjects.MessageID) (services.Suggestion, error)
	Get(ctx context.Context, userID string, id valueobjects.ConversationID) (*services.ConversationDetail, error)
	List(ctx context.Context, userID string, folderID *valueobjects.FolderID) ([]*entities.Conversation, error)
	Update(ctx context.Context, cmd commands.UpdateConversationCommand) (*services.ConversationDetail, error)
	Delete(ctx context.Context, userID string, id valueobjects.ConversationID) error
}

// NoteUseCases is the note surface the handlers call
type NoteUseCases interface {
	Create(ctx context.Context, cmd commands.CreateNoteCommand) (*services.NoteView, error)
	Update(ctx context.Context, cmd commands.UpdateNoteCommand) (*services.NoteView, error)
	Delete(ctx context.Context, userID string, id valueobjects.NoteID) error
	List(ctx context.Context, userID string) ([]*services.NoteView, error)
	Combine(ctx context.Context, userID string, noteIDs []valueobjects.NoteID) (*services.GeneratedNote, error)
	Summarize(ctx context.Context, userID string, conversationID valueobjects.ConversationID) (*services.GeneratedNote, error)
}

// TagUseCases is the tag surface the handlers call
type TagUseCases interface {
	Create(ctx context.Context, cmd commands.CreateTagCommand) (*entities.Tag, error)
	List(ctx context.Context, userID string) ([]*entities.Tag, error)
	Update(ctx context.Context, cmd commands.UpdateTagCommand) (*entities.Tag, error)
	Delete(ctx context.Context, userID string, id valueobjects.TagID) error
}

// FolderUseCases is the folder surface the handlers call
type FolderUseCases interface {
	Create(ctx context.Context, userID, name string) (*entities.Folder, error)
	List(ctx context.Context, userID string) ([]*entities.Folder, error)
	Rename(ctx context.Context, userID string, id valueobjects.FolderID, name string) (*entities.Folder, error)
	Delete(ctx context.Context, userID string, id valueobjects.FolderID) error
}

// SettingsUseCases is the settings surface the handlers call
type SettingsUseCases interface {
	Get(ctx context.Context, userID string) (*entities.UserSettings, error)
	UpdateDefaultAITool(ctx context.Context, userID string, tool valueobjects.AITool) (*entities.UserSettings, error)
}

// base carries what every handler needs to reply
type base struct {
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

func (b base) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		b.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (b base) respondError(w http.ResponseWriter, r *http.Request, err error) {
	b.errors.Handle(w, r, err)
}

// decode reads a size-limited JSON body into v and runs its validation tags.
// It answers the request itself and returns false on failure.
func (b base) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		msg := "Invalid request body: " + err.Error()
		if errors.Is(err, io.EOF) {
			msg = "Request body is required"
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = fmt.Sprintf("Request body must be at most %d bytes", tooLarge.Limit)
		}
		b.respondError(w, r, pkgerrors.NewValidationError(msg))
		return false
	}
	if err := utils.ValidateStruct(v); err != nil {
		b.respondError(w, r, pkgerrors.NewValidationError(err.Error()))
		return false
	}
	return true
}

// userID returns the authenticated caller, answering 401 when there is none
func (b base) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		b.respondError(w, r, pkgerrors.NewUnauthorizedError("Unauthorized"))
		return "", false
	}
	return user.UserID, true
}

// parseID validates a path or body identifier, answering 400 on failure
func parseID[T any](b base, w http.ResponseWriter, r *http.Request, raw string, parse func(string) (T, error)) (T, bool) {
	id, err := parse(raw)
	if err != nil {
		b.respondError(w, r, pkgerrors.NewValidationError(err.Error()))
		return id, false
	}
	return id, true
}

// parseTagIDs converts an optional tag list; nil means "leave unchanged"
func parseTagIDs(raw *[]string) (*[]valueobjects.TagID, error) {
	if raw == nil {
		return nil, nil
	}
	ids, err := valueobjects.ParseTagIDs(*raw)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	return &ids, nil
}
