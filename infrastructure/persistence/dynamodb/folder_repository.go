package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tweetbloom/domain/core/entities"
	"tweetbloom/domain/core/valueobjects"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// FolderRepository implements ports.FolderRepository
type FolderRepository struct {
	*Store
}

// NewFolderRepository creates a new FolderRepository
func NewFolderRepository(store *Store) *FolderRepository {
	return &FolderRepository{Store: store}
}

func newFolderItem(f *entities.Folder) folderItem {
	return folderItem{
		PK:         userPK(f.UserID),
		SK:         "FOLDER#" + f.ID.String(),
		EntityType: entityFolder,
		FolderID:   f.ID.String(),
		UserID:     f.UserID,
		Name:       f.Name,
		CreatedAt:  formatTime(f.CreatedAt),
		UpdatedAt:  formatTime(f.UpdatedAt),
	}
}

func (i folderItem) toEntity() *entities.Folder {
	return &entities.Folder{
		ID:        valueobjects.FolderID(i.FolderID),
		UserID:    i.UserID,
		Name:      i.Name,
		CreatedAt: parseTime(i.CreatedAt),
		UpdatedAt: parseTime(i.UpdatedAt),
	}
}

func (r *FolderRepository) Create(ctx context.Context, f *entities.Folder) error {
	av, err := attributevalue.MarshalMap(newFolderItem(f))
	if err != nil {
		return fmt.Errorf("failed to marshal folder: %w", err)
	}
	return r.putNew(ctx, av, "folder")
}

func (r *FolderRepository) GetByID(ctx context.Context, userID string, id valueobjects.FolderID) (*entities.Folder, error) {
	raw, err := r.getItem(ctx, userPK(userID), "FOLDER#"+id.String(), "folder", false)
	if err != nil {
		return nil, err
	}
	var item folderItem
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal folder: %w", err)
	}
	return item.toEntity(), nil
}

func (r *FolderRepository) List(ctx context.Context, userID string) ([]*entities.Folder, error) {
	items, err := r.queryPrefix(ctx, userPK(userID), "FOLDER#", nil)
	if err != nil {
		return nil, r.mapError("list folders", "folder", err)
	}
	out := make([]*entities.Folder, 0, len(items))
	for _, raw := range items {
		var item folderItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal folder: %w", err)
		}
		out = append(out, item.toEntity())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *FolderRepository) Update(ctx context.Context, f *entities.Folder) error {
	av, err := attributevalue.MarshalMap(newFolderItem(f))
	if err != nil {
		return fmt.Errorf("failed to marshal folder: %w", err)
	}
	return r.putExisting(ctx, av, "folder")
}

// Delete detaches the folder's conversations and removes the folder. Up to 99
// conversations commit with the folder delete in one transaction; larger
// folders are detached in earlier chunks first.
func (r *FolderRepository) Delete(ctx context.Context, userID string, id valueobjects.FolderID) error {
	if _, err := r.getItem(ctx, userPK(userID), "FOLDER#"+id.String(), "folder", true); err != nil {
		return err
	}

	filter := expression.Name("FolderID").Equal(expression.Value(id.String()))
	convs, err := r.queryPrefix(ctx, userPK(userID), "CONV#", &filter)
	if err != nil {
		return r.mapError("delete folder", "folder", err)
	}

	expr, err := expression.NewBuilder().
		WithUpdate(expression.Remove(expression.Name("FolderID")).
			Set(expression.Name("UpdatedAt"), expression.Value(formatTime(time.Now()))).
			Add(expression.Name("Version"), expression.Value(1))).
		WithCondition(filter).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build detach expression: %w", err)
	}

	ops := make([]types.TransactWriteItem, 0, len(convs)+1)
	for _, c := range convs {
		ops = append(ops, types.TransactWriteItem{Update: &types.Update{
			TableName:                 aws.String(r.tableName),
			Key:                       itemKey(c),
			UpdateExpression:          expr.Update(),
			ConditionExpression:       expr.Condition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		}})
	}
	ops = append(ops, types.TransactWriteItem{Delete: &types.Delete{
		TableName: aws.String(r.tableName),
		Key:       key(userPK(userID), "FOLDER#"+id.String()),
	}})

	for start := 0; start < len(ops); start += transactLimit {
		end := start + transactLimit
		if end > len(ops) {
			end = len(ops)
		}
		if _, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: ops[start:end],
		}); err != nil {
			return r.mapError("delete folder", "folder", err)
		}
	}
	return nil
}

// SettingsRepository implements ports.SettingsRepository
type SettingsRepository struct {
	*Store
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(store *Store) *SettingsRepository {
	return &SettingsRepository{Store: store}
}

func (r *SettingsRepository) Get(ctx context.Context, userID string) (*entities.UserSettings, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       key(userPK(userID), "SETTINGS"),
	})
	if err != nil {
		return nil, r.mapError("get settings", "settings", err)
	}
	if out.Item == nil {
		return entities.DefaultUserSettings(userID), nil
	}

	var item settingsItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return &entities.UserSettings{
		UserID:        userID,
		DefaultAITool: valueobjects.AITool(item.DefaultAITool),
		UpdatedAt:     parseTime(item.UpdatedAt),
	}, nil
}

func (r *SettingsRepository) Save(ctx context.Context, s *entities.UserSettings) error {
	av, err := attributevalue.MarshalMap(settingsItem{
		PK:            userPK(s.UserID),
		SK:            "SETTINGS",
		EntityType:    entitySettings,
		DefaultAITool: s.DefaultAITool.String(),
		UpdatedAt:     formatTime(s.UpdatedAt),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: aws.String(r.tableName), Item: av})
	return r.mapError("save settings", "settings", err)
}
