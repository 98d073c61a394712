package handlers

import (
	"net/http"

	"tweetbloom/application/commands"
	"tweetbloom/domain/core/valueobjects"
	pkgerrors "tweetbloom/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ConversationHandler handles conversation-related HTTP requests
type ConversationHandler struct {
	base
	conversations ConversationUseCases
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversations ConversationUseCases, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *ConversationHandler {
	return &ConversationHandler{
		base:          base{errors: errHandler, logger: logger},
		conversations: conversations,
	}
}

// SubmitTurn handles POST /conversations
// @Summary Submit a prompt
// @Description Starts or continues a conversation. Weak prompts come back as a suggestion without a model call.
// @Tags conversations
// @Accept json
// @Produce json
// @Param request body SubmitTurnRequest true "Prompt"
// @Success 200 {object} services.TurnResult
// @Failure 400 {object} pkgerrors.ErrorResponse
// @Failure 404 {object} pkgerrors.ErrorResponse
// @Failure 409 {object} pkgerrors.ErrorResponse "Turn limit reached"
// @Failure 502 {object} pkgerrors.ErrorResponse "AI backend failed"
// @Security BearerAuth
// @Router /conversations [post]
func (h *ConversationHandler) SubmitTurn(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req SubmitTurnRequest
	if !h.decode(w, r, &req) {
		return
	}

	cmd := commands.SubmitTurnCommand{
		UserID:     userID,
		Prompt:     req.Prompt,
		BypassGate: req.BypassGate,
	}
	if req.ConversationID != "" {
		id, ok := parseID(h.base, w, r, req.ConversationID, valueobjects.ParseConversationID)
		if !ok {
			return
		}
		cmd.ConversationID = &id
	}
	if req.AITool != "" {
		tool, ok := parseID(h.base, w, r, req.AITool, valueobjects.ParseAITool)
		if !ok {
			return
		}
		cmd.AITool = &tool
	}

	result, err := h.conversations.SubmitTurn(r.Context(), cmd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// List handles GET /conversations
// @Summary List conversations
// @Tags conversations
// @Produce json
// @Param folderId query string false "Only conversations in this folder"
// @Success 200 {array} ConversationResponse
// @Security BearerAuth
// @Router /conversations [get]
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var folderID *valueobjects.FolderID
	if raw := r.URL.Query().Get("folderId"); raw != "" {
		id, ok := parseID(h.base, w, r, raw, valueobjects.ParseFolderID)
		if !ok {
			return
		}
		folderID = &id
	}

	convs, err := h.conversations.List(r.Context(), userID, folderID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	resp := make([]ConversationResponse, 0, len(convs))
	for _, c := range convs {
		resp = append(resp, toConversationResponse(c))
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// Get handles GET /conversations/{id}
// @Summary Get a conversation with its messages
// @Tags conversations
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {object} ConversationDetailResponse
// @Failure 404 {object} pkgerrors.ErrorResponse
// @Security BearerAuth
// @Router /conversations/{id} [get]
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(h.base, w, r, chi.URLParam(r, "id"), valueobjects.ParseConversationID)
	if !ok {
		return
	}

	detail, err := h.conversations.Get(r.Context(), userID, id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toConversationDetail(detail))
}

// Update handles PATCH /conversations/{id}
// @Summary Rename, refile or retag a conversation
// @Tags conversations
// @Accept json
// @Produce json
// @Param id path string true "Conversation ID"
// @Param request body UpdateConversationRequest true "Changes"
// @Success 200 {object} ConversationDetailResponse
// @Failure 400 {object} pkgerrors.ErrorResponse
// @Failure 404 {object} pkgerrors.ErrorResponse
// @Security BearerAuth
// @Router /conversations/{id} [patch]
func (h *ConversationHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(h.base, w, r, chi.URLParam(r, "id"), valueobjects.ParseConversationID)
	if !ok {
		return
	}
	var req UpdateConversationRequest
	if !h.decode(w, r, &req) {
		return
	}
	tagIDs, err := parseTagIDs(req.TagIDs)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	detail, err := h.conversations.Update(r.Context(), commands.UpdateConversationCommand{
		UserID:         userID,
		ConversationID: id,
		Title:          req.Title,
		FolderID:       req.FolderID,
		TagIDs:         tagIDs,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toConversationDetail(detail))
}

// Delete handles DELETE /conversations/{id}
// @Summary Delete a conversation
// @Tags conversations
// @Param id path string true "Conversation ID"
// @Success 204
// @Failure 404 {object} pkgerrors.ErrorResponse
// @Security BearerAuth
// @Router /conversations/{id} [delete]
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(h.base, w, r, chi.URLParam(r, "id"), valueobjects.ParseConversationID)
	if !ok {
		return
	}
	if err := h.conversations.Delete(r.Context(), userID, id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Evaluate handles POST /conversations/evaluate
// @Summary Suggest the next prompt
// @Description Looks at the last messages, optionally ending at messageId, and proposes a follow-up.
// @Tags conversations
// @Accept json
// @Produce json
// @Param request body EvaluateRequest true "Conversation"
// @Success 200 {object} EvaluateResponse
// @Failure 404 {object} pkgerrors.ErrorResponse
// @Security BearerAuth
// @Router /conversations/evaluate [post]
func (h *ConversationHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req EvaluateRequest
	if !h.decode(w, r, &req) {
		return
	}
	id, ok := parseID(h.base, w, r, req.ConversationID, valueobjects.ParseConversationID)
	if !ok {
		return
	}
	var messageID *valueobjects.MessageID
	if req.MessageID != "" {
		mid, ok := parseID(h.base, w, r, req.MessageID, valueobjects.ParseMessageID)
		if !ok {
			return
		}
		messageID = &mid
	}

	suggestion, err := h.conversations.Evaluate(r.Context(), userID, id, messageID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, EvaluateResponse{Suggestion: suggestion.NewPrompt, Reasoning: suggestion.Reasoning})
}

// Continue handles POST /conversations/continue
// @Summary Carry a conversation over
// @Description Synthesizes an opening prompt for a fresh conversation from an existing one.
// @Tags conversations
// @Accept json
// @Produce json
// @Param request body ConversationRefRequest true "Conversation"
// @Success 200 {object} ContinueResponse
// @Failure 400 {object} pkgerrors.ErrorResponse
// @Failure 404 {object} pkgerrors.ErrorResponse
// @Security BearerAuth
// @Router /conversations/continue [post]
func (h *ConversationHandler) Continue(w http.ResponseWriter, r *http.Request) {
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

	prompt, err := h.conversations.Continue(r.Context(), userID, id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, ContinueResponse{NewPrompt: prompt})
}
