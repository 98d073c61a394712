package observability

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

const cloudWatchBatchSize = 20

// MetricDataAPI is the CloudWatch call the publisher needs
type MetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchMetrics buffers turn and provider counters and sends them on
// Flush. Lambda freezes between invocations, so the handler flushes after
// every request instead of running a background sender.
type CloudWatchMetrics struct {
	namespace string
	client    MetricDataAPI
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.Mutex
	pending []types.MetricDatum
}

// NewCloudWatchMetrics creates a CloudWatch metrics publisher
func NewCloudWatchMetrics(namespace string, client MetricDataAPI, logger *zap.Logger) *CloudWatchMetrics {
	return &CloudWatchMetrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
		now:       time.Now,
	}
}

func (m *CloudWatchMetrics) RecordTurn(outcome string) {
	m.add(types.MetricDatum{
		MetricName: aws.String("Turns"),
		Dimensions: []types.Dimension{{Name: aws.String("Outcome"), Value: aws.String(outcome)}},
		Value:      aws.Float64(1),
		Unit:       types.StandardUnitCount,
	})
}

func (m *CloudWatchMetrics) RecordProviderCall(provider string, duration time.Duration, err error) {
	dims := []types.Dimension{
		{Name: aws.String("Provider"), Value: aws.String(provider)},
		{Name: aws.String("Status"), Value: aws.String(statusLabel(err))},
	}
	m.add(
		types.MetricDatum{
			MetricName: aws.String("ProviderCalls"),
			Dimensions: dims,
			Value:      aws.Float64(1),
			Unit:       types.StandardUnitCount,
		},
		types.MetricDatum{
			MetricName: aws.String("ProviderLatency"),
			Dimensions: dims,
			Value:      aws.Float64(float64(duration.Milliseconds())),
			Unit:       types.StandardUnitMilliseconds,
		},
	)
}

func (m *CloudWatchMetrics) RecordGateVerdict(string)  {}
func (m *CloudWatchMetrics) RecordGateFallback(string) {}
func (m *CloudWatchMetrics) RecordTruncation()         {}
func (m *CloudWatchMetrics) RecordNoteCreated(string)  {}

func (m *CloudWatchMetrics) add(data ...types.MetricDatum) {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range data {
		d.Timestamp = aws.Time(now)
		m.pending = append(m.pending, d)
	}
}

// Flush sends buffered data. Failures are logged and the data dropped.
func (m *CloudWatchMetrics) Flush(ctx context.Context) {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	for start := 0; start < len(pending); start += cloudWatchBatchSize {
		end := min(start+cloudWatchBatchSize, len(pending))
		_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(m.namespace),
			MetricData: pending[start:end],
		})
		if err != nil {
			m.logger.Warn("Failed to send metrics", zap.Int("count", end-start), zap.Error(err))
		}
	}
}
