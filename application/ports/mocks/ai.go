package mocks

import (
	"context"
	"time"

	"tweetbloom/application/ports"
	"tweetbloom/domain/core/valueobjects"
	"tweetbloom/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockTextGenerator is a testify mock of ports.TextGenerator
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string, history []ports.Turn) (string, error) {
	args := m.Called(ctx, prompt, history)
	return args.String(0), args.Error(1)
}

// MockGeneratorRegistry is a testify mock of ports.GeneratorRegistry
type MockGeneratorRegistry struct {
	mock.Mock
}

func (m *MockGeneratorRegistry) Get(tool valueobjects.AITool) (ports.TextGenerator, error) {
	args := m.Called(tool)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.TextGenerator), args.Error(1)
}

// MockEventPublisher is a testify mock of ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return m.Called(ctx, event).Error(0)
}

// NopMetrics discards every measurement
type NopMetrics struct{}

func (NopMetrics) RecordTurn(string)                               {}
func (NopMetrics) RecordGateVerdict(string)                        {}
func (NopMetrics) RecordGateFallback(string)                       {}
func (NopMetrics) RecordProviderCall(string, time.Duration, error) {}
func (NopMetrics) RecordTruncation()                               {}
func (NopMetrics) RecordNoteCreated(string)                        {}
