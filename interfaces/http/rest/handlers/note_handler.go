package handlers

import (
	"net/http"

	"tweetbloom/application/commands"
	"tweetbloom/domain/core/valueobjects"
	pkgerrors "tweetbloom/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NoteHandler handles note-related HTTP requests
type NoteHandler struct {
	base
	notes NoteUseCases
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(notes NoteUseCases, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{
		base:  base{errors: errHandler, logger: logger},
		notes: notes,
	}
}

// List handles GET /notes
// @Summary List notes
// @Tags notes
// @Produce json
// @Success 200 {array} NoteResponse
// @Security BearerAuth
// @Router /notes [get]
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	views, err := h.notes.List(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	resp := make([]NoteResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, toNoteResponse(v))
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// Create handles POST /notes
// @Summary Create a note
// @Description Notes nest at most three levels deep.
// @Tags notes
// @Accept json
// @Produce json
// @Param request body CreateNoteRequest true "Note"
// @Success 201 {object} NoteResponse
// @Failure 400 {object} pkgerrors.ErrorResponse "Invalid content or depth exceeded"
// @Failure 404 {object} pkgerrors.ErrorResponse "Parent or tag not found"
// @Security BearerAuth
// @Router /notes [post]
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req CreateNoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	cmd := commands.CreateNoteCommand{UserID: userID, Content: req.Content}
	if req.ParentID != "" {
		parentID, ok := parseID(h.base, w, r, req.ParentID, valueobjects.ParseNoteID)
		if !ok {
			return
		}
		cmd.ParentID = &parentID
	}
	tagIDs, err := valueobjects.ParseTagIDs(req.TagIDs)
	if err != nil {
		h.respondError(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}
	cmd.TagIDs = tagIDs

	view, err := h.notes.Create(r.Context(), cmd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, toNoteResponse(view))
}

// Update handles PATCH /notes/{id}
// @Summary Edit, move or retag a note
// @Tags notes
// @Accept json
// @Produce json
// @Param id path string true "Note ID"
// @Param request body UpdateNoteRequest true "Changes"
// @Success 200 {object} NoteResponse
// @Failure 400 {object} pkgerrors.ErrorResponse
// @Failure 404 {object} pkgerrors.ErrorResponse
// @Security BearerAuth
// @Router /notes/{id} [patch]
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(h.base, w, r, chi.URLParam(r, "id"), valueobjects.ParseNoteID)
	if !ok {
		return
	}
	var req UpdateNoteRequest
	if !h.decode(w, r, &req) {
		return
	}
	tagIDs, err := parseTagIDs(req.TagIDs)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	view, err := h.notes.Update(r.Context(), commands.UpdateNoteCommand{
		UserID:   userID,
		NoteID:   id,
		Content:  req.Content,
		ParentID: req.ParentID,
		TagIDs:   tagIDs,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toNoteResponse(view))
}

// Delete handles DELETE /notes/{id}
// @Summary Delete a note and its descendants
// @Tags notes
// @Param id path string true "Note ID"
// @Success 204
// @Failure 404 {object} pkgerrors.ErrorResponse
// @Security BearerAuth
// @Router /notes/{id} [delete]
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(h.base, w, r, chi.URLParam(r, "id"), valueobjects.ParseNoteID)
	if !ok {
		return
	}
	if err := h.notes.Delete(r.Context(), userID, id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Summarize handles POST /notes/summarize
// @Summary Summarize a conversation into a note
// @Tags notes
// @Accept json
// @Produce json
// @Param request body ConversationRefRequest true "Conversation"
// @Success 201 {object} services.GeneratedNote
// @Failure 400 {object} pkgerrors.ErrorResponse
// @Failure 404 {object} pkgerrors.ErrorResponse
// @Security BearerAuth
// @Router /notes/summarize [post]
func (h *NoteHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req ConversationRefRequest
	if !h.decode(w, r, &req) {
		return
	}
	id, ok := parseID(h.base, w, r, req.ConversationID, valueobjects.ParseConversationID)
	if !ok {
		return
	}

	note, err := h.notes.Summarize(r.Context(), userID, id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, note)
}

// Combine handles POST /notes/combine
// @Summary Merge 2 to 7 notes into a new note
// @Tags notes
// @Accept json
// @Produce json
// @Param request body CombineNotesRequest true "Notes"
// @Success 201 {object} services.GeneratedNote
// @Failure 400 {object} pkgerrors.ErrorResponse "Fewer than 2 or more than 7 notes"
// @Failure 404 {object} pkgerrors.ErrorResponse
// @Security BearerAuth
// @Router /notes/combine [post]
func (h *NoteHandler) Combine(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req CombineNotesRequest
	if !h.decode(w, r, &req) {
		return
	}
	ids := make([]valueobjects.NoteID, 0, len(req.NoteIDs))
	for _, raw := range req.NoteIDs {
		id, ok := parseID(h.base, w, r, raw, valueobjects.ParseNoteID)
		if !ok {
			return
		}
		ids = append(ids, id)
	}

	note, err := h.notes.Combine(r.Context(), userID, ids)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, note)
}
