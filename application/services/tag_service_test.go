package services

import (
	"context"
	"testing"

	"tweetbloom/application/commands"
	"tweetbloom/application/ports/mocks"
	"tweetbloom/domain/core/entities"
	"tweetbloom/domain/core/valueobjects"
	pkgerrors "tweetbloom/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTagService_Create(t *testing.T) {
	tests := []struct {
		name    string
		tagName string
		color   string
		wantErr bool
	}{
		{"valid", "work", "#ff5733", false},
		{"missing hash", "work", "FF5733", true},
		{"short hex", "work", "#FF57", true},
		{"empty name", "  ", "#FF5733", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockTagRepository)
			repo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
			svc := NewTagService(repo, nil, nil)

			tag, err := svc.Create(context.Background(), commands.CreateTagCommand{UserID: testUser, Name: tt.tagName, Color: tt.color})

			if tt.wantErr {
				assert.True(t, pkgerrors.IsValidation(err))
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "#FF5733", tag.Color.String())
		})
	}
}

func TestTagService_SetTags(t *testing.T) {
	owner := entities.ConversationTagOwner(valueobjects.NewConversationID())

	t.Run("dedupes and replaces", func(t *testing.T) {
		repo := new(mocks.MockTagRepository)
		a, b := valueobjects.NewTagID(), valueobjects.NewTagID()
		repo.On("GetByID", mock.Anything, testUser, a).Return(&entities.Tag{ID: a}, nil).Once()
		repo.On("GetByID", mock.Anything, testUser, b).Return(&entities.Tag{ID: b}, nil).Once()
		repo.On("SetTags", mock.Anything, testUser, owner, []valueobjects.TagID{a, b}).Return(nil)

		err := NewTagService(repo, nil, nil).SetTags(context.Background(), testUser, owner, []valueobjects.TagID{a, b, a})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("empty list clears", func(t *testing.T) {
		repo := new(mocks.MockTagRepository)
		repo.On("SetTags", mock.Anything, testUser, owner, []valueobjects.TagID{}).Return(nil)

		err := NewTagService(repo, nil, nil).SetTags(context.Background(), testUser, owner, nil)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("unknown tag", func(t *testing.T) {
		repo := new(mocks.MockTagRepository)
		missing := valueobjects.NewTagID()
		repo.On("GetByID", mock.Anything, testUser, missing).Return(nil, pkgerrors.NewNotFoundError("tag"))

		err := NewTagService(repo, nil, nil).SetTags(context.Background(), testUser, owner, []valueobjects.TagID{missing})

		assert.True(t, pkgerrors.IsNotFound(err))
		repo.AssertNotCalled(t, "SetTags", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTagService_Update(t *testing.T) {
	repo := new(mocks.MockTagRepository)
	tag, err := entities.NewTag(testUser, "old", "#000000", 50)
	require.NoError(t, err)
	repo.On("GetByID", mock.Anything, testUser, tag.ID).Return(tag, nil)
	repo.On("Update", mock.Anything, tag).Return(nil)

	name, color := "new", "#abcdef"
	got, err := NewTagService(repo, nil, nil).Update(context.Background(), commands.UpdateTagCommand{
		UserID: testUser, TagID: tag.ID, Name: &name, Color: &color,
	})

	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)
	assert.Equal(t, "#ABCDEF", got.Color.String())
}

func TestFolderService(t *testing.T) {
	t.Run("create validates name", func(t *testing.T) {
		repo := new(mocks.MockFolderRepository)
		_, err := NewFolderService(repo, nil).Create(context.Background(), testUser, "")
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("delete unknown folder", func(t *testing.T) {
		repo := new(mocks.MockFolderRepository)
		id := valueobjects.NewFolderID()
		repo.On("GetByID", mock.Anything, testUser, id).Return(nil, pkgerrors.NewNotFoundError("folder"))

		err := NewFolderService(repo, nil).Delete(context.Background(), testUser, id)

		assert.True(t, pkgerrors.IsNotFound(err))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rename", func(t *testing.T) {
		repo := new(mocks.MockFolderRepository)
		folder, err := entities.NewFolder(testUser, "Inbox", 100)
		require.NoError(t, err)
		repo.On("GetByID", mock.Anything, testUser, folder.ID).Return(folder, nil)
		repo.On("Update", mock.Anything, folder).Return(nil)

		got, err := NewFolderService(repo, nil).Rename(context.Background(), testUser, folder.ID, "Archive")

		require.NoError(t, err)
		assert.Equal(t, "Archive", got.Name)
	})
}

func TestSettingsService(t *testing.T) {
	repo := new(mocks.MockSettingsRepository)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(s *entities.UserSettings) bool {
		return s.DefaultAITool == valueobjects.AIToolChatGPT
	})).Return(nil)
	svc := NewSettingsService(repo)

	got, err := svc.UpdateDefaultAITool(context.Background(), testUser, valueobjects.AIToolChatGPT)
	require.NoError(t, err)
	assert.Equal(t, valueobjects.AIToolChatGPT, got.DefaultAITool)

	_, err = svc.UpdateDefaultAITool(context.Background(), testUser, "CLAUDE")
	assert.True(t, pkgerrors.IsValidation(err))
}
