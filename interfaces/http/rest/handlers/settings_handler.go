package handlers

import (
	"net/http"

	"tweetbloom/domain/core/valueobjects"
	pkgerrors "tweetbloom/pkg/errors"

	"go.uber.org/zap"
)

// SettingsHandler handles the per-user settings
type SettingsHandler struct {
	base
	settings SettingsUseCases
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings SettingsUseCases, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		base:     base{errors: errHandler, logger: logger},
		settings: settings,
	}
}

// Get handles GET /settings
// @Summary Get user settings
// @Tags settings
// @Produce json
// @Success 200 {object} SettingsResponse
// @Security BearerAuth
// @Router /settings [get]
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	settings, err := h.settings.Get(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, SettingsResponse{DefaultAITool: settings.DefaultAITool.String()})
}

// Update handles PUT /settings
// @Summary Set the default AI tool
// @Tags settings
// @Accept json
// @Produce json
// @Param request body SettingsRequest true "Settings"
// @Success 200 {object} SettingsResponse
// @Failure 400 {object} pkgerrors.ErrorResponse
// @Security BearerAuth
// @Router /settings [put]
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req SettingsRequest
	if !h.decode(w, r, &req) {
		return
	}
	settings, err := h.settings.UpdateDefaultAITool(r.Context(), userID, valueobjects.AITool(req.DefaultAITool))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, SettingsResponse{DefaultAITool: settings.DefaultAITool.String()})
}
