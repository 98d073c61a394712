package handlers

import (
	"net/http"

	"tweetbloom/application/commands"
	"tweetbloom/domain/core/valueobjects"
	pkgerrors "tweetbloom/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TagHandler handles tag-related HTTP requests
type TagHandler struct {
	base
	tags TagUseCases
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tags TagUseCases, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *TagHandler {
	return &TagHandler{
		base: base{errors: errHandler, logger: logger},
		tags: tags,
	}
}

// List handles GET /tags
// @Summary List tags
// @Tags tags
// @Produce json
// @Success 200 {array} TagResponse
// @Security BearerAuth
// @Router /tags [get]
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	tags, err := h.tags.List(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	resp := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		resp = append(resp, toTagResponse(t))
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// Create handles POST /tags
// @Summary Create a tag
// @Tags tags
// @Accept json
// @Produce json
// @Param request body CreateTagRequest true "Tag"
// @Success 201 {object} TagResponse
// @Failure 400 {object} pkgerrors.ErrorResponse
// @Security BearerAuth
// @Router /tags [post]
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req CreateTagRequest
	if !h.decode(w, r, &req) {
		return
	}
	tag, err := h.tags.Create(r.Context(), commands.CreateTagCommand{UserID: userID, Name: req.Name, Color: req.Color})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, toTagResponse(tag))
}

// Update handles PATCH /tags/{id}
// @Summary Rename or recolor a tag
// @Tags tags
// @Accept json
// @Produce json
// @Param id path string true "Tag ID"
// @Param request body UpdateTagRequest true "Changes"
// @Success 200 {object} TagResponse
// @Failure 400 {object} pkgerrors.ErrorResponse
// @Failure 404 {object} pkgerrors.ErrorResponse
// @Security BearerAuth
// @Router /tags/{id} [patch]
func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(h.base, w, r, chi.URLParam(r, "id"), valueobjects.ParseTagID)
	if !ok {
		return
	}
	var req UpdateTagRequest
	if !h.decode(w, r, &req) {
		return
	}
	tag, err := h.tags.Update(r.Context(), commands.UpdateTagCommand{UserID: userID, TagID: id, Name: req.Name, Color: req.Color})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toTagResponse(tag))
}

// Delete handles DELETE /tags/{id}
// @Summary Delete a tag and its associations
// @Tags tags
// @Param id path string true "Tag ID"
// @Success 204
// @Failure 404 {object} pkgerrors.ErrorResponse
// @Security BearerAuth
// @Router /tags/{id} [delete]
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(h.base, w, r, chi.URLParam(r, "id"), valueobjects.ParseTagID)
	if !ok {
		return
	}
	if err := h.tags.Delete(r.Context(), userID, id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
