package entities

import (
	"time"

	"tweetbloom/domain/core/valueobjects"
)

// UserSettings holds per-user preferences
type UserSettings struct {
	UserID        string
	DefaultAITool valueobjects.AITool
	UpdatedAt     time.Time
}

// DefaultUserSettings returns the settings of a user who never saved any
func DefaultUserSettings(userID string) *UserSettings {
	return &UserSettings{
		UserID:        userID,
		DefaultAITool: valueobjects.DefaultAITool,
	}
}
