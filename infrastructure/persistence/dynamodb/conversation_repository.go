package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"tweetbloom/application/ports"
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

// maxAppendAttempts bounds the optimistic retries of AppendResponse when
// another writer changes the response count first.
const maxAppendAttempts = 5

// ConversationRepository implements ports.ConversationRepository
type ConversationRepository struct {
	*Store
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(store *Store) *ConversationRepository {
	return &ConversationRepository{Store: store}
}

func (r *ConversationRepository) Create(ctx context.Context, c *entities.Conversation) error {
	av, err := attributevalue.MarshalMap(newConversationItem(c))
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}
	return r.putNew(ctx, av, "conversation")
}

func (r *ConversationRepository) GetByID(ctx context.Context, userID string, id valueobjects.ConversationID) (*entities.Conversation, error) {
	item, err := r.getConversationItem(ctx, userID, id, false)
	if err != nil {
		return nil, err
	}
	return item.toEntity(), nil
}

func (r *ConversationRepository) List(ctx context.Context, userID string, filter ports.ConversationFilter) ([]*entities.Conversation, error) {
	var cond *expression.ConditionBuilder
	if filter.FolderID != nil {
		c := expression.Name("FolderID").Equal(expression.Value(filter.FolderID.String()))
		cond = &c
	}
	items, err := r.queryPrefix(ctx, userPK(userID), "CONV#", cond)
	if err != nil {
		return nil, r.mapError("list conversations", "conversation", err)
	}

	out := make([]*entities.Conversation, 0, len(items))
	for _, raw := range items {
		var item conversationItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("Failed to unmarshal conversation item", zap.Error(err))
			continue
		}
		out = append(out, item.toEntity())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt().After(out[j].UpdatedAt()) })
	return out, nil
}

func (r *ConversationRepository) Update(ctx context.Context, c *entities.Conversation) error {
	update := expression.Set(expression.Name("Title"), expression.Value(c.Title())).
		Set(expression.Name("UpdatedAt"), expression.Value(formatTime(c.UpdatedAt()))).
		Add(expression.Name("Version"), expression.Value(1))
	if c.FolderID() != nil {
		update = update.Set(expression.Name("FolderID"), expression.Value(c.FolderID().String()))
	} else {
		update = update.Remove(expression.Name("FolderID"))
	}

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build update expression: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       key(userPK(c.UserID()), "CONV#"+c.ID().String()),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	return r.mapError("update conversation", "conversation", err)
}

// Delete removes the conversation item and its partition of messages and tag links
func (r *ConversationRepository) Delete(ctx context.Context, userID string, id valueobjects.ConversationID) error {
	if _, err := r.getConversationItem(ctx, userID, id, true); err != nil {
		return err
	}

	children, err := r.queryPrefix(ctx, conversationPK(userID, id.String()), "", nil)
	if err != nil {
		return r.mapError("delete conversation", "conversation", err)
	}
	keys := make([]map[string]types.AttributeValue, 0, len(children)+1)
	for _, item := range children {
		keys = append(keys, itemKey(item))
	}
	keys = append(keys, key(userPK(userID), "CONV#"+id.String()))

	return r.mapError("delete conversation", "conversation", r.batchDelete(ctx, keys))
}

func (r *ConversationRepository) getConversationItem(ctx context.Context, userID string, id valueobjects.ConversationID, consistent bool) (*conversationItem, error) {
	raw, err := r.getItem(ctx, userPK(userID), "CONV#"+id.String(), "conversation", consistent)
	if err != nil {
		return nil, err
	}
	var item conversationItem
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return &item, nil
}

// MessageRepository implements ports.MessageRepository
type MessageRepository struct {
	*Store
	conversations *ConversationRepository
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(store *Store) *MessageRepository {
	return &MessageRepository{Store: store, conversations: NewConversationRepository(store)}
}

func (r *MessageRepository) Append(ctx context.Context, userID string, m *entities.Message) error {
	av, err := attributevalue.MarshalMap(newMessageItem(userID, m))
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return r.putNew(ctx, av, "message")
}

// AppendResponse writes the message and bumps ResponseCount in one
// transaction conditioned on the count it read. A lost race re-reads the
// count, so the cap holds under concurrent turns.
func (r *MessageRepository) AppendResponse(ctx context.Context, userID string, m *entities.Message, turnCap int) (int, error) {
	av, err := attributevalue.MarshalMap(newMessageItem(userID, m))
	if err != nil {
		return 0, fmt.Errorf("failed to marshal message: %w", err)
	}

	for attempt := 1; attempt <= maxAppendAttempts; attempt++ {
		conv, err := r.conversations.getConversationItem(ctx, userID, m.ConversationID, true)
		if err != nil {
			return 0, err
		}
		current := conv.ResponseCount
		if current >= turnCap {
			return 0, ports.ErrTurnCapReached
		}

		expr, err := expression.NewBuilder().
			WithUpdate(expression.Set(expression.Name("ResponseCount"), expression.Value(current+1)).
				Add(expression.Name("Version"), expression.Value(1))).
			WithCondition(expression.Name("ResponseCount").Equal(expression.Value(current))).
			Build()
		if err != nil {
			return 0, fmt.Errorf("failed to build update expression: %w", err)
		}

		_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: []types.TransactWriteItem{
				{
					Update: &types.Update{
						TableName:                 aws.String(r.tableName),
						Key:                       key(conv.PK, conv.SK),
						UpdateExpression:          expr.Update(),
						ConditionExpression:       expr.Condition(),
						ExpressionAttributeNames:  expr.Names(),
						ExpressionAttributeValues: expr.Values(),
					},
				},
				{
					Put: &types.Put{
						TableName:           aws.String(r.tableName),
						Item:                av,
						ConditionExpression: aws.String("attribute_not_exists(PK)"),
					},
				},
			},
		})
		if err == nil {
			return current + 1, nil
		}

		var canceled *types.TransactionCanceledException
		if !errors.As(err, &canceled) {
			return 0, r.mapError("append response", "conversation", err)
		}
		r.logger.Debug("Response append lost a race, retrying",
			zap.String("conversationID", m.ConversationID.String()),
			zap.Int("attempt", attempt),
		)
	}
	return 0, pkgerrors.NewConflictError("conversation is being updated concurrently, try again")
}

func (r *MessageRepository) ListByConversation(ctx context.Context, userID string, conversationID valueobjects.ConversationID) ([]*entities.Message, error) {
	items, err := r.queryPrefix(ctx, conversationPK(userID, conversationID.String()), "MSG#", nil)
	if err != nil {
		return nil, r.mapError("list messages", "conversation", err)
	}

	out := make([]*entities.Message, 0, len(items))
	for _, raw := range items {
		var item messageItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message: %w", err)
		}
		out = append(out, item.toEntity())
	}
	return out, nil
}

func (r *MessageRepository) CountResponses(ctx context.Context, userID string, conversationID valueobjects.ConversationID) (int, error) {
	conv, err := r.conversations.getConversationItem(ctx, userID, conversationID, true)
	if err != nil {
		return 0, err
	}
	return conv.ResponseCount, nil
}
