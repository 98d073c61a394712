package services

import (
	"context"

	"tweetbloom/application/commands"
	"tweetbloom/application/ports"
	"tweetbloom/domain/config"
	"tweetbloom/domain/core/entities"
	"tweetbloom/domain/core/valueobjects"
	pkgerrors "tweetbloom/pkg/errors"

	"go.uber.org/zap"
)

// TagService manages tags and their note and conversation associations
type TagService struct {
	tags   ports.TagRepository
	cfg    *config.DomainConfig
	logger *zap.Logger
}

// NewTagService creates a new tag service
func NewTagService(tags ports.TagRepository, cfg *config.DomainConfig, logger *zap.Logger) *TagService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TagService{tags: tags, cfg: cfg, logger: logger}
}

// Create adds a tag
func (s *TagService) Create(ctx context.Context, cmd commands.CreateTagCommand) (*entities.Tag, error) {
	tag, err := entities.NewTag(cmd.UserID, cmd.Name, cmd.Color, s.cfg.MaxTagNameLength)
	if err != nil {
		return nil, err
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// List returns the user's tags
func (s *TagService) List(ctx context.Context, userID string) ([]*entities.Tag, error) {
	return s.tags.List(ctx, userID)
}

// Update renames or recolors a tag
func (s *TagService) Update(ctx context.Context, cmd commands.UpdateTagCommand) (*entities.Tag, error) {
	tag, err := s.tags.GetByID(ctx, cmd.UserID, cmd.TagID)
	if err != nil {
		return nil, err
	}
	if cmd.Name != nil {
		if err := tag.Rename(*cmd.Name, s.cfg.MaxTagNameLength); err != nil {
			return nil, err
		}
	}
	if cmd.Color != nil {
		if err := tag.Recolor(*cmd.Color); err != nil {
			return nil, err
		}
	}
	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// Delete removes a tag and every association to it
func (s *TagService) Delete(ctx context.Context, userID string, id valueobjects.TagID) error {
	if _, err := s.tags.GetByID(ctx, userID, id); err != nil {
		return err
	}
	return s.tags.Delete(ctx, userID, id)
}

// SetTags replaces the owner's tag set. Duplicates collapse and every tag
// must exist; an empty list clears the set.
func (s *TagService) SetTags(ctx context.Context, userID string, owner entities.TagOwner, tagIDs []valueobjects.TagID) error {
	unique, err := s.Resolve(ctx, userID, tagIDs)
	if err != nil {
		return err
	}
	return s.Replace(ctx, userID, owner, unique)
}

// Resolve dedupes tagIDs and checks that each one exists for the user. Callers
// that write an owner alongside its tags resolve first so an unknown tag
// leaves nothing behind.
func (s *TagService) Resolve(ctx context.Context, userID string, tagIDs []valueobjects.TagID) ([]valueobjects.TagID, error) {
	unique := dedupeTagIDs(tagIDs)
	if len(unique) > s.cfg.MaxTagsPerOwner {
		return nil, pkgerrors.NewValidationError("too many tags")
	}
	for _, id := range unique {
		if _, err := s.tags.GetByID(ctx, userID, id); err != nil {
			return nil, err
		}
	}
	return unique, nil
}

// Replace writes an already resolved tag set
func (s *TagService) Replace(ctx context.Context, userID string, owner entities.TagOwner, resolved []valueobjects.TagID) error {
	if err := s.tags.SetTags(ctx, userID, owner, resolved); err != nil {
		return err
	}
	s.logger.Debug("Tag set replaced",
		zap.String("ownerKind", string(owner.Kind)),
		zap.String("ownerID", owner.ID),
		zap.Int("tags", len(resolved)),
	)
	return nil
}

// TagsOf returns the tag IDs attached to owner
func (s *TagService) TagsOf(ctx context.Context, userID string, owner entities.TagOwner) ([]valueobjects.TagID, error) {
	return s.tags.ListTagIDs(ctx, userID, owner)
}

func dedupeTagIDs(ids []valueobjects.TagID) []valueobjects.TagID {
	seen := make(map[valueobjects.TagID]struct{}, len(ids))
	out := make([]valueobjects.TagID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
