package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"tweetbloom/domain/core/entities"
	"tweetbloom/domain/core/valueobjects"
	pkgerrors "tweetbloom/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// TagRepository implements ports.TagRepository
type TagRepository struct {
	*Store
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(store *Store) *TagRepository {
	return &TagRepository{Store: store}
}

func (r *TagRepository) Create(ctx context.Context, t *entities.Tag) error {
	av, err := attributevalue.MarshalMap(newTagItem(t))
	if err != nil {
		return fmt.Errorf("failed to marshal tag: %w", err)
	}
	return r.putNew(ctx, av, "tag")
}

func (r *TagRepository) GetByID(ctx context.Context, userID string, id valueobjects.TagID) (*entities.Tag, error) {
	raw, err := r.getItem(ctx, userPK(userID), "TAG#"+id.String(), "tag", false)
	if err != nil {
		return nil, err
	}
	var item tagItem
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tag: %w", err)
	}
	return item.toEntity()
}

func (r *TagRepository) List(ctx context.Context, userID string) ([]*entities.Tag, error) {
	items, err := r.queryPrefix(ctx, userPK(userID), "TAG#", nil)
	if err != nil {
		return nil, r.mapError("list tags", "tag", err)
	}

	out := make([]*entities.Tag, 0, len(items))
	for _, raw := range items {
		var item tagItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tag: %w", err)
		}
		tag, err := item.toEntity()
		if err != nil {
			r.logger.Warn("Skipping tag with invalid color", zap.String("tagID", item.TagID), zap.Error(err))
			continue
		}
		out = append(out, tag)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TagRepository) Update(ctx context.Context, t *entities.Tag) error {
	av, err := attributevalue.MarshalMap(newTagItem(t))
	if err != nil {
		return fmt.Errorf("failed to marshal tag: %w", err)
	}
	return r.putExisting(ctx, av, "tag")
}

// Delete removes the tag and every link pointing at it, found through GSI1
func (r *TagRepository) Delete(ctx context.Context, userID string, id valueobjects.TagID) error {
	if _, err := r.getItem(ctx, userPK(userID), "TAG#"+id.String(), "tag", true); err != nil {
		return err
	}

	links, err := r.query(ctx,
		expression.Key("GSI1PK").Equal(expression.Value(tagIndexPK(userID, id.String()))), nil, gsi1)
	if err != nil {
		return r.mapError("delete tag", "tag", err)
	}

	keys := make([]map[string]types.AttributeValue, 0, len(links)+1)
	for _, link := range links {
		keys = append(keys, itemKey(link))
	}
	keys = append(keys, key(userPK(userID), "TAG#"+id.String()))
	return r.mapError("delete tag", "tag", r.batchDelete(ctx, keys))
}

const (
	tagLinkPrefix = "TAGLINK#"
	tagSetSK      = "TAGSET"

	// maxTagSetAttempts bounds the optimistic retries of SetTags
	maxTagSetAttempts = 5
)

// SetTags replaces the owner's links in a single transaction. The owner's
// TAGSET item is bumped in the same transaction on the condition that it still
// holds the version read alongside the links, so two replaces racing on one
// owner cannot merge their sets. A lost race re-reads and retries.
func (r *TagRepository) SetTags(ctx context.Context, userID string, owner entities.TagOwner, tagIDs []valueobjects.TagID) error {
	pk, err := ownerPK(userID, owner)
	if err != nil {
		return err
	}

	for attempt := 1; attempt <= maxTagSetAttempts; attempt++ {
		version, existing, err := r.readTagSet(ctx, pk)
		if err != nil {
			return err
		}
		changes, err := r.linkChanges(userID, owner, pk, existing, tagIDs)
		if err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		if len(changes)+1 > transactLimit {
			return fmt.Errorf("tag replace needs %d writes, above the transaction limit", len(changes)+1)
		}
		guard, err := r.tagSetGuard(pk, version)
		if err != nil {
			return err
		}

		_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: append([]types.TransactWriteItem{guard}, changes...),
		})
		if err == nil {
			return nil
		}

		var canceled *types.TransactionCanceledException
		if !errors.As(err, &canceled) {
			return r.mapError("set tags", "tag", err)
		}
		r.logger.Debug("Tag replace lost a race, retrying",
			zap.String("ownerKind", string(owner.Kind)),
			zap.String("ownerID", owner.ID),
			zap.Int("attempt", attempt),
		)
	}
	return pkgerrors.NewConflictError("tags are being updated concurrently, try again")
}

func (r *TagRepository) ListTagIDs(ctx context.Context, userID string, owner entities.TagOwner) ([]valueobjects.TagID, error) {
	pk, err := ownerPK(userID, owner)
	if err != nil {
		return nil, err
	}
	items, err := r.queryPrefix(ctx, pk, tagLinkPrefix, nil)
	if err != nil {
		return nil, r.mapError("list tag links", "tag", err)
	}
	return linkedTagIDs(items)
}

// readTagSet returns the owner's tag set version and links, both read
// consistently. An owner never retagged has version 0.
func (r *TagRepository) readTagSet(ctx context.Context, pk string) (int, []valueobjects.TagID, error) {
	version := 0
	raw, err := r.getItem(ctx, pk, tagSetSK, "tag", true)
	switch {
	case err == nil:
		var item tagSetItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return 0, nil, fmt.Errorf("failed to unmarshal tag set: %w", err)
		}
		version = item.Version
	case !pkgerrors.IsNotFound(err):
		return 0, nil, err
	}

	items, err := r.consistentQueryPrefix(ctx, pk, tagLinkPrefix)
	if err != nil {
		return 0, nil, r.mapError("list tag links", "tag", err)
	}
	existing, err := linkedTagIDs(items)
	if err != nil {
		return 0, nil, err
	}
	return version, existing, nil
}

// linkChanges deletes the links not wanted and puts the ones missing
func (r *TagRepository) linkChanges(userID string, owner entities.TagOwner, pk string, existing, tagIDs []valueobjects.TagID) ([]types.TransactWriteItem, error) {
	want := make(map[valueobjects.TagID]bool, len(tagIDs))
	for _, id := range tagIDs {
		want[id] = true
	}
	have := make(map[valueobjects.TagID]bool, len(existing))
	for _, id := range existing {
		have[id] = true
	}

	var ops []types.TransactWriteItem
	for _, id := range existing {
		if !want[id] {
			ops = append(ops, types.TransactWriteItem{Delete: &types.Delete{
				TableName: aws.String(r.tableName),
				Key:       key(pk, tagLinkPrefix+id.String()),
			}})
		}
	}
	for _, id := range tagIDs {
		if have[id] {
			continue
		}
		av, err := attributevalue.MarshalMap(tagLinkItem{
			PK:         pk,
			SK:         tagLinkPrefix + id.String(),
			GSI1PK:     tagIndexPK(userID, id.String()),
			GSI1SK:     pk,
			EntityType: entityTagLink,
			TagID:      id.String(),
			OwnerKind:  string(owner.Kind),
			OwnerID:    owner.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tag link: %w", err)
		}
		ops = append(ops, types.TransactWriteItem{Put: &types.Put{TableName: aws.String(r.tableName), Item: av}})
	}
	return ops, nil
}

// tagSetGuard writes version+1, conditioned on the owner still being at version
func (r *TagRepository) tagSetGuard(pk string, version int) (types.TransactWriteItem, error) {
	cond := expression.AttributeNotExists(expression.Name("PK"))
	if version > 0 {
		cond = expression.Name("Version").Equal(expression.Value(version))
	}
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("failed to build condition expression: %w", err)
	}
	av, err := attributevalue.MarshalMap(tagSetItem{PK: pk, SK: tagSetSK, EntityType: entityTagSet, Version: version + 1})
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("failed to marshal tag set: %w", err)
	}
	return types.TransactWriteItem{Put: &types.Put{
		TableName:                 aws.String(r.tableName),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}}, nil
}

func linkedTagIDs(items []map[string]types.AttributeValue) ([]valueobjects.TagID, error) {
	out := make([]valueobjects.TagID, 0, len(items))
	for _, raw := range items {
		var link tagLinkItem
		if err := attributevalue.UnmarshalMap(raw, &link); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tag link: %w", err)
		}
		out = append(out, valueobjects.TagID(link.TagID))
	}
	return out, nil
}

func ownerPK(userID string, owner entities.TagOwner) (string, error) {
	switch owner.Kind {
	case entities.TagOwnerNote:
		return notePK(userID, owner.ID), nil
	case entities.TagOwnerConversation:
		return conversationPK(userID, owner.ID), nil
	}
	return "", fmt.Errorf("unknown tag owner kind %q", owner.Kind)
}
