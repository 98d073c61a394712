package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"tweetbloom/domain/events"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPutEvents struct {
	mock.Mock
}

func (m *mockPutEvents) PutEvents(ctx context.Context, in *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*eventbridge.PutEventsOutput)
	return out, args.Error(1)
}

func TestPublisher_Publish(t *testing.T) {
	client := new(mockPutEvents)
	event := events.NewTurnCompleted("conv-1", "user-1", "msg-1", 3, false)

	client.On("PutEvents", mock.Anything, mock.MatchedBy(func(in *eventbridge.PutEventsInput) bool {
		if len(in.Entries) != 1 {
			return false
		}
		e := in.Entries[0]
		var detail map[string]interface{}
		if err := json.Unmarshal([]byte(aws.ToString(e.Detail)), &detail); err != nil {
			return false
		}
		return aws.ToString(e.Source) == events.SourceBackend &&
			aws.ToString(e.DetailType) == events.TypeTurnCompleted &&
			aws.ToString(e.EventBusName) == "bus" &&
			detail["response_count"] == float64(3)
	})).Return(&eventbridge.PutEventsOutput{}, nil)

	err := NewPublisher(client, "bus", nil).Publish(context.Background(), event)

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestPublisher_PublishBatchChunks(t *testing.T) {
	client := new(mockPutEvents)
	client.On("PutEvents", mock.Anything, mock.MatchedBy(func(in *eventbridge.PutEventsInput) bool {
		return len(in.Entries) == 10
	})).Return(&eventbridge.PutEventsOutput{}, nil).Once()
	client.On("PutEvents", mock.Anything, mock.MatchedBy(func(in *eventbridge.PutEventsInput) bool {
		return len(in.Entries) == 3
	})).Return(&eventbridge.PutEventsOutput{}, nil).Once()

	batch := make([]events.DomainEvent, 13)
	for i := range batch {
		batch[i] = events.NewNoteCreated("note", "user-1", "", "manual")
	}

	require.NoError(t, NewPublisher(client, "bus", nil).PublishBatch(context.Background(), batch))
	client.AssertExpectations(t)
}

func TestPublisher_Failures(t *testing.T) {
	event := events.NewNoteCreated("note", "user-1", "", "manual")

	t.Run("client error", func(t *testing.T) {
		client := new(mockPutEvents)
		client.On("PutEvents", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))
		assert.Error(t, NewPublisher(client, "bus", nil).Publish(context.Background(), event))
	})

	t.Run("failed entries", func(t *testing.T) {
		client := new(mockPutEvents)
		client.On("PutEvents", mock.Anything, mock.Anything).Return(&eventbridge.PutEventsOutput{
			FailedEntryCount: 1,
			Entries:          []types.PutEventsResultEntry{{ErrorCode: aws.String("InternalFailure")}},
		}, nil)
		err := NewPublisher(client, "bus", nil).Publish(context.Background(), event)
		assert.ErrorContains(t, err, "1 events failed")
	})
}

func TestLogPublisher(t *testing.T) {
	assert.NoError(t, NewLogPublisher(nil).Publish(context.Background(), events.NewNoteCreated("n", "u", "", "manual")))
}
