package sqlite

import (
	"context"
	"sync"
	"testing"

	"tweetbloom/application/ports"
	"tweetbloom/domain/core/entities"
	"tweetbloom/domain/core/valueobjects"
	pkgerrors "tweetbloom/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "user-123"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	store, err := Open(ctx, ":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	t.Cleanup(func() { store.Close() })
	return store
}

func seedConversation(t *testing.T, store *Store) *entities.Conversation {
	t.Helper()
	c, err := entities.NewConversation(testUser, "Explain photosynthesis in detail", valueobjects.AIToolGemini, 50)
	require.NoError(t, err)
	require.NoError(t, NewConversationRepository(store).Create(context.Background(), c))
	return c
}

func seedNote(t *testing.T, store *Store, parent *valueobjects.NoteID) *entities.Note {
	t.Helper()
	content, err := valueobjects.NewBoundedContent("a short note")
	require.NoError(t, err)
	n, err := entities.NewNote(testUser, content, parent)
	require.NoError(t, err)
	require.NoError(t, NewNoteRepository(store).Create(context.Background(), n))
	return n
}

func TestStore_MigrateIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Migrate(context.Background()))
	assert.NoError(t, store.Ping(context.Background()))
}

func TestConversationRepository(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewConversationRepository(store)
	c := seedConversation(t, store)

	t.Run("get scoped to user", func(t *testing.T) {
		got, err := repo.GetByID(ctx, testUser, c.ID())
		require.NoError(t, err)
		assert.Equal(t, c.Title(), got.Title())
		assert.Equal(t, valueobjects.AIToolGemini, got.AITool())
		assert.True(t, c.CreatedAt().Equal(got.CreatedAt()))

		_, err = repo.GetByID(ctx, "someone-else", c.ID())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("update and filter by folder", func(t *testing.T) {
		folder, err := entities.NewFolder(testUser, "Biology", 100)
		require.NoError(t, err)
		require.NoError(t, NewFolderRepository(store).Create(ctx, folder))

		c.MoveToFolder(&folder.ID)
		require.NoError(t, c.Rename("Plants", 200))
		require.NoError(t, repo.Update(ctx, c))

		list, err := repo.List(ctx, testUser, ports.ConversationFilter{FolderID: &folder.ID})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Plants", list[0].Title())
		assert.Equal(t, 2, list[0].Version())
	})

	t.Run("folder delete detaches", func(t *testing.T) {
		require.NotNil(t, c.FolderID())
		require.NoError(t, NewFolderRepository(store).Delete(ctx, testUser, *c.FolderID()))

		got, err := repo.GetByID(ctx, testUser, c.ID())
		require.NoError(t, err)
		assert.Nil(t, got.FolderID())
	})

	t.Run("delete removes messages", func(t *testing.T) {
		messages := NewMessageRepository(store)
		require.NoError(t, messages.Append(ctx, testUser, entities.NewUserText(c.ID(), "hello")))

		require.NoError(t, repo.Delete(ctx, testUser, c.ID()))

		list, err := messages.ListByConversation(ctx, testUser, c.ID())
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.True(t, pkgerrors.IsNotFound(repo.Delete(ctx, testUser, c.ID())))
	})
}

func TestMessageRepository_OrderAndMetadata(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	c := seedConversation(t, store)
	repo := NewMessageRepository(store)

	require.NoError(t, repo.Append(ctx, testUser, entities.NewUserText(c.ID(), "first")))
	require.NoError(t, repo.Append(ctx, testUser, entities.NewSuggestion(c.ID(), "better prompt",
		map[string]interface{}{"reasoning": "too vague"})))
	count, err := repo.AppendResponse(ctx, testUser, entities.NewResponse(c.ID(), "answer", nil), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	list, err := repo.ListByConversation(ctx, testUser, c.ID())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "first", list[0].Content)
	assert.Equal(t, entities.KindSuggestion, list[1].Kind)
	assert.Equal(t, "too vague", list[1].Metadata["reasoning"])
	assert.Equal(t, entities.KindResponse, list[2].Kind)

	responses, err := repo.CountResponses(ctx, testUser, c.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, responses)
}

func TestMessageRepository_AppendResponseNeverExceedsCap(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	c := seedConversation(t, store)
	repo := NewMessageRepository(store)
	const turnCap = 10

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		rejected int
	)
	for i := 0; i < 15; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AppendResponse(ctx, testUser, entities.NewResponse(c.ID(), "answer", nil), turnCap)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, ports.ErrTurnCapReached)
				rejected++
				return
			}
			accepted++
		}()
	}
	wg.Wait()

	assert.Equal(t, turnCap, accepted)
	assert.Equal(t, 5, rejected)

	count, err := repo.CountResponses(ctx, testUser, c.ID())
	require.NoError(t, err)
	assert.Equal(t, turnCap, count)
}

func TestNoteRepository_DeleteSubtree(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewNoteRepository(store)
	tags := NewTagRepository(store)

	root := seedNote(t, store, nil)
	rootID := root.ID()
	child := seedNote(t, store, &rootID)
	childID := child.ID()
	grandchild := seedNote(t, store, &childID)
	other := seedNote(t, store, nil)

	tag, err := entities.NewTag(testUser, "science", "#00FF00", 50)
	require.NoError(t, err)
	require.NoError(t, tags.Create(ctx, tag))
	require.NoError(t, tags.SetTags(ctx, testUser, entities.NoteTagOwner(grandchild.ID()), []valueobjects.TagID{tag.ID}))

	children, err := repo.ListChildren(ctx, testUser, rootID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, childID, children[0].ID())

	require.NoError(t, repo.Delete(ctx, testUser, rootID))

	remaining, err := repo.List(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, other.ID(), remaining[0].ID())

	links, err := tags.ListTagIDs(ctx, testUser, entities.NoteTagOwner(grandchild.ID()))
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestNoteRepository_UpdateMovesNote(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewNoteRepository(store)

	parent := seedNote(t, store, nil)
	n := seedNote(t, store, nil)
	parentID := parent.ID()
	require.NoError(t, n.MoveTo(&parentID))
	require.NoError(t, repo.Update(ctx, n))

	got, err := repo.GetByID(ctx, testUser, n.ID())
	require.NoError(t, err)
	require.NotNil(t, got.ParentID())
	assert.Equal(t, parentID, *got.ParentID())
	assert.Equal(t, "a short note", got.Content().String())
}

func TestTagRepository_SetTagsReplacesWholeSet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewTagRepository(store)
	c := seedConversation(t, store)
	owner := entities.ConversationTagOwner(c.ID())

	var ids []valueobjects.TagID
	for _, name := range []string{"alpha", "beta", "gamma"} {
		tag, err := entities.NewTag(testUser, name, "#123abc", 50)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, tag))
		ids = append(ids, tag.ID)
	}

	require.NoError(t, repo.SetTags(ctx, testUser, owner, ids[:2]))
	require.NoError(t, repo.SetTags(ctx, testUser, owner, ids[2:]))

	got, err := repo.ListTagIDs(ctx, testUser, owner)
	require.NoError(t, err)
	assert.Equal(t, []valueobjects.TagID{ids[2]}, got)

	stored, err := repo.GetByID(ctx, testUser, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "#123ABC", stored.Color.String())

	t.Run("failed replace keeps previous set", func(t *testing.T) {
		err := repo.SetTags(ctx, testUser, owner, []valueobjects.TagID{ids[0], "missing-tag"})
		require.Error(t, err)

		got, err := repo.ListTagIDs(ctx, testUser, owner)
		require.NoError(t, err)
		assert.Equal(t, []valueobjects.TagID{ids[2]}, got)
	})

	t.Run("tag delete removes links", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, testUser, ids[2]))
		got, err := repo.ListTagIDs(ctx, testUser, owner)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestSettingsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(newTestStore(t))

	got, err := repo.Get(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, valueobjects.DefaultAITool, got.DefaultAITool)

	got.DefaultAITool = valueobjects.AIToolGrok
	require.NoError(t, repo.Save(ctx, got))
	got.DefaultAITool = valueobjects.AIToolChatGPT
	require.NoError(t, repo.Save(ctx, got))

	stored, err := repo.Get(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, valueobjects.AIToolChatGPT, stored.DefaultAITool)
}
