//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"tweetbloom/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogLevel,
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDomainConfig,
	ProvideRepositories,
	ProvideMetrics,
	ProvideMetricsRecorder,
	ProvideTracing,
	ProvideGeneratorRegistry,
	ProvideGeneratorLookup,
	ProvidePromptGate,
	ProvideEventPublisher,
	ProvideTagService,
	ProvideConversationService,
	ProvideNoteService,
	ProvideFolderService,
	ProvideSettingsService,
	ProvideTokenVerifier,
	ProvideLimiterFactory,
	ProvideErrorHandler,
	ProvideRouter,
	ProvideConfigWatcher,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container. The returned cleanup
// releases resources in reverse order of construction.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
