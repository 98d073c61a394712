package services

import (
	"context"
	"time"

	"tweetbloom/application/ports"
	"tweetbloom/domain/core/entities"
	"tweetbloom/domain/core/valueobjects"
	pkgerrors "tweetbloom/pkg/errors"
)

// SettingsService reads and writes user preferences
type SettingsService struct {
	settings ports.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settings ports.SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

// Get returns the stored settings or the defaults
func (s *SettingsService) Get(ctx context.Context, userID string) (*entities.UserSettings, error) {
	return s.settings.Get(ctx, userID)
}

// UpdateDefaultAITool changes the backend used for new conversations
func (s *SettingsService) UpdateDefaultAITool(ctx context.Context, userID string, tool valueobjects.AITool) (*entities.UserSettings, error) {
	if !tool.IsValid() {
		return nil, pkgerrors.NewValidationError("unknown AI tool")
	}
	settings := &entities.UserSettings{
		UserID:        userID,
		DefaultAITool: tool,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.settings.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
