package handlers

import (
	"net/http"

	"tweetbloom/domain/core/valueobjects"
	pkgerrors "tweetbloom/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FolderHandler handles folder requests
type FolderHandler struct {
	base
	folders FolderUseCases
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folders FolderUseCases, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *FolderHandler {
	return &FolderHandler{
		base:    base{errors: errHandler, logger: logger},
		folders: folders,
	}
}

// List handles GET /folders
// @Summary List folders
// @Tags folders
// @Produce json
// @Success 200 {array} FolderResponse
// @Security BearerAuth
// @Router /folders [get]
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	folders, err := h.folders.List(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	resp := make([]FolderResponse, 0, len(folders))
	for _, f := range folders {
		resp = append(resp, toFolderResponse(f))
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// Create handles POST /folders
// @Summary Create a folder
// @Tags folders
// @Accept json
// @Produce json
// @Param request body FolderRequest true "Folder"
// @Success 201 {object} FolderResponse
// @Failure 400 {object} pkgerrors.ErrorResponse
// @Security BearerAuth
// @Router /folders [post]
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req FolderRequest
	if !h.decode(w, r, &req) {
		return
	}
	folder, err := h.folders.Create(r.Context(), userID, req.Name)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, toFolderResponse(folder))
}

// Rename handles PATCH /folders/{id}
// @Summary Rename a folder
// @Tags folders
// @Accept json
// @Produce json
// @Param id path string true "Folder ID"
// @Param request body FolderRequest true "Folder"
// @Success 200 {object} FolderResponse
// @Failure 404 {object} pkgerrors.ErrorResponse
// @Security BearerAuth
// @Router /folders/{id} [patch]
func (h *FolderHandler) Rename(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(h.base, w, r, chi.URLParam(r, "id"), valueobjects.ParseFolderID)
	if !ok {
		return
	}
	var req FolderRequest
	if !h.decode(w, r, &req) {
		return
	}
	folder, err := h.folders.Rename(r.Context(), userID, id, req.Name)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toFolderResponse(folder))
}

// Delete handles DELETE /folders/{id}
// @Summary Delete a folder
// @Description Conversations in the folder are kept and detached.
// @Tags folders
// @Param id path string true "Folder ID"
// @Success 204
// @Failure 404 {object} pkgerrors.ErrorResponse
// @Security BearerAuth
// @Router /folders/{id} [delete]
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := parseID(h.base, w, r, chi.URLParam(r, "id"), valueobjects.ParseFolderID)
	if !ok {
		return
	}
	if err := h.folders.Delete(r.Context(), userID, id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
