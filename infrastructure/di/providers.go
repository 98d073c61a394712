package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"tweetbloom/application/ports"
	"tweetbloom/application/services"
	domainconfig "tweetbloom/domain/config"
	"tweetbloom/domain/core/valueobjects"
	"tweetbloom/infrastructure/config"
	"tweetbloom/infrastructure/llm"
	"tweetbloom/infrastructure/messaging/eventbridge"
	"tweetbloom/infrastructure/persistence/dynamodb"
	"tweetbloom/infrastructure/persistence/sqlite"
	"tweetbloom/interfaces/http/rest"
	"tweetbloom/interfaces/http/rest/handlers"
	"tweetbloom/pkg/auth"
	pkgerrors "tweetbloom/pkg/errors"
	"tweetbloom/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "tweetbloom"

// Repositories is the selected store with every repository built on it
type Repositories struct {
	Conversations ports.ConversationRepository
	Messages      ports.MessageRepository
	Notes         ports.NoteRepository
	Tags          ports.TagRepository
	Folders       ports.FolderRepository
	Settings      ports.SettingsRepository
	Health        ports.HealthChecker
}

// Metrics groups the metric sinks. CloudWatch is nil outside Lambda and
// Collector is nil when metrics are disabled.
type Metrics struct {
	Collector  *observability.Collector
	CloudWatch *observability.CloudWatchMetrics
	Recorder   ports.Metrics
}

// Flush sends buffered CloudWatch data, if any
func (m *Metrics) Flush(ctx context.Context) {
	if m != nil && m.CloudWatch != nil {
		m.CloudWatch.Flush(ctx)
	}
}

// ProvideLogLevel parses LOG_LEVEL into a level the config watcher can change later
func ProvideLogLevel(cfg *config.Config) (zap.AtomicLevel, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return zap.NewAtomicLevelAt(level), nil
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, func(), error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() || cfg.IsLambda {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = level

	logger, err := zapCfg.Build(zap.Fields(
		zap.String("service", serviceName),
		zap.String("environment", cfg.Environment),
	))
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.EnableXRay {
		observability.InstrumentAWS(&awsCfg)
	}
	return awsCfg, nil
}

// ProvideDomainConfig returns the business limits
func ProvideDomainConfig() *domainconfig.DomainConfig {
	return domainconfig.DefaultDomainConfig()
}

// ProvideRepositories opens the configured store. SQLite is migrated on open.
func ProvideRepositories(ctx context.Context, cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) (*Repositories, func(), error) {
	switch cfg.Store {
	case config.StoreDynamoDB:
		store := dynamodb.NewStore(awsdynamodb.NewFromConfig(awsCfg), cfg.TableName, logger)
		logger.Info("Using DynamoDB store", zap.String("table", cfg.TableName))
		return &Repositories{
			Conversations: dynamodb.NewConversationRepository(store),
			Messages:      dynamodb.NewMessageRepository(store),
			Notes:         dynamodb.NewNoteRepository(store),
			Tags:          dynamodb.NewTagRepository(store),
			Folders:       dynamodb.NewFolderRepository(store),
			Settings:      dynamodb.NewSettingsRepository(store),
			Health:        store,
		}, func() {}, nil
	default:
		store, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		cleanup := func() {
			if err := store.Close(); err != nil {
				logger.Error("Failed to close SQLite store", zap.Error(err))
			}
		}
		return &Repositories{
			Conversations: sqlite.NewConversationRepository(store),
			Messages:      sqlite.NewMessageRepository(store),
			Notes:         sqlite.NewNoteRepository(store),
			Tags:          sqlite.NewTagRepository(store),
			Folders:       sqlite.NewFolderRepository(store),
			Settings:      sqlite.NewSettingsRepository(store),
			Health:        store,
		}, cleanup, nil
	}
}

// ProvideMetrics creates the Prometheus collector and, on Lambda, a
// CloudWatch sink that is flushed after each invocation
func ProvideMetrics(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) *Metrics {
	m := &Metrics{}
	var sinks observability.Fanout
	if cfg.EnableMetrics {
		m.Collector = observability.NewCollector(serviceName)
		sinks = append(sinks, m.Collector)
	}
	if cfg.IsLambda {
		namespace := fmt.Sprintf("TweetBloom/%s", cfg.Environment)
		m.CloudWatch = observability.NewCloudWatchMetrics(namespace, awscloudwatch.NewFromConfig(awsCfg), logger)
		sinks = append(sinks, m.CloudWatch)
	}
	m.Recorder = sinks
	return m
}

// ProvideMetricsRecorder exposes the combined sink to the application layer
func ProvideMetricsRecorder(m *Metrics) ports.Metrics {
	return m.Recorder
}

// ProvideTracing installs the OTLP tracer provider when tracing is enabled
func ProvideTracing(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	if !cfg.EnableTracing {
		return nil, func() {}, nil
	}
	tp, err := observability.InitTracing(ctx, serviceName, cfg.Environment, cfg.OTLPEndpoint)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("Failed to shut down tracer", zap.Error(err))
		}
	}
	return tp, cleanup, nil
}

// ProvideGeneratorRegistry builds every AI backend
func ProvideGeneratorRegistry(ctx context.Context, cfg *config.Config, metrics ports.Metrics, logger *zap.Logger) (*llm.Registry, error) {
	return llm.NewRegistry(ctx, llm.Settings{
		Gemini:  llm.BackendSettings{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel},
		OpenAI:  llm.BackendSettings{APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		Grok:    llm.BackendSettings{APIKey: cfg.GrokAPIKey, Model: cfg.GrokModel, BaseURL: cfg.GrokBaseURL},
		Timeout: cfg.AITimeout,
	}, metrics, logger)
}

// ProvideGeneratorLookup exposes the registry to the services
func ProvideGeneratorLookup(registry *llm.Registry) ports.GeneratorRegistry {
	return registry
}

// ProvidePromptGate builds the gate on the configured gate backend
func ProvidePromptGate(cfg *config.Config, registry *llm.Registry, metrics ports.Metrics, logger *zap.Logger) (*services.PromptGate, error) {
	tool, err := valueobjects.ParseAITool(cfg.GateAITool)
	if err != nil {
		return nil, err
	}
	gen, err := registry.Get(tool)
	if err != nil {
		return nil, fmt.Errorf("gate backend: %w", err)
	}
	policy, err := services.ParseFailurePolicy(cfg.GateFailurePolicy)
	if err != nil {
		return nil, err
	}
	return services.NewPromptGate(gen, policy, metrics, logger), nil
}

// ProvideEventPublisher sends events to EventBridge when a bus is configured
// and logs them otherwise
func ProvideEventPublisher(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return eventbridge.NewLogPublisher(logger)
	}
	return eventbridge.NewPublisher(awseventbridge.NewFromConfig(awsCfg), cfg.EventBusName, logger)
}

// ProvideTagService creates the tag service
func ProvideTagService(repos *Repositories, dcfg *domainconfig.DomainConfig, logger *zap.Logger) *services.TagService {
	return services.NewTagService(repos.Tags, dcfg, logger)
}

// ProvideConversationService creates the conversation service
func ProvideConversationService(
	repos *Repositories,
	tags *services.TagService,
	generators ports.GeneratorRegistry,
	gate *services.PromptGate,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	dcfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *services.ConversationService {
	return services.NewConversationService(
		repos.Conversations,
		repos.Messages,
		repos.Folders,
		repos.Settings,
		tags,
		generators,
		gate,
		publisher,
		metrics,
		dcfg,
		logger,
	)
}

// ProvideNoteService creates the note service
func ProvideNoteService(
	repos *Repositories,
	tags *services.TagService,
	gate *services.PromptGate,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	dcfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *services.NoteService {
	return services.NewNoteService(
		repos.Notes,
		repos.Conversations,
		repos.Messages,
		tags,
		gate,
		publisher,
		metrics,
		dcfg,
		logger,
	)
}

// ProvideFolderService creates the folder service
func ProvideFolderService(repos *Repositories, dcfg *domainconfig.DomainConfig) *services.FolderService {
	return services.NewFolderService(repos.Folders, dcfg)
}

// ProvideSettingsService creates the settings service
func ProvideSettingsService(repos *Repositories) *services.SettingsService {
	return services.NewSettingsService(repos.Settings)
}

// ProvideTokenVerifier selects local JWT validation or Supabase lookups
func ProvideTokenVerifier(cfg *config.Config) (auth.TokenVerifier, error) {
	if cfg.AuthMode == config.AuthModeSupabase {
		return auth.NewSupabaseVerifier(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey)
	}
	validator, err := auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     cfg.JWTSecret,
		Issuer:        cfg.JWTIssuer,
	})
	if err != nil {
		return nil, fmt.Errorf("JWT_SECRET: %w", err)
	}
	return validator, nil
}

// ProvideLimiterFactory shares counters through DynamoDB when the store is
// DynamoDB, so every Lambda instance sees the same budget. Otherwise each
// class gets an in-process sliding window.
func ProvideLimiterFactory(cfg *config.Config, awsCfg aws.Config) (rest.LimiterFactory, func()) {
	if cfg.Store == config.StoreDynamoDB {
		client := awsdynamodb.NewFromConfig(awsCfg)
		return func(class string, perMinute int) auth.RateLimiter {
			return auth.NewDistributedRateLimiter(client, cfg.TableName, perMinute, time.Minute, class)
		}, func() {}
	}

	var limiters []*auth.SlidingWindowLimiter
	factory := func(_ string, perMinute int) auth.RateLimiter {
		l := auth.NewPerMinuteLimiter(perMinute)
		limiters = append(limiters, l)
		return l
	}
	return factory, func() {
		for _, l := range limiters {
			_ = l.Close()
		}
	}
}

// ProvideErrorHandler creates the HTTP error mapper; debug mode exposes causes
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideRouter wires the handlers into the HTTP router
func ProvideRouter(
	cfg *config.Config,
	conversations *services.ConversationService,
	notes *services.NoteService,
	tags *services.TagService,
	folders *services.FolderService,
	settings *services.SettingsService,
	verifier auth.TokenVerifier,
	newLimiter rest.LimiterFactory,
	repos *Repositories,
	metrics *Metrics,
	errHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) http.Handler {
	return rest.NewRouter(rest.RouterDeps{
		Conversations: handlers.NewConversationHandler(conversations, errHandler, logger),
		Notes:         handlers.NewNoteHandler(notes, errHandler, logger),
		Tags:          handlers.NewTagHandler(tags, errHandler, logger),
		Folders:       handlers.NewFolderHandler(folders, errHandler, logger),
		Settings:      handlers.NewSettingsHandler(settings, errHandler, logger),
		Verifier:      verifier,
		NewLimiter:    newLimiter,
		Limits:        cfg.RateLimits,
		Health:        repos.Health,
		Metrics:       metrics.Collector,
		Errors:        errHandler,
		CORSOrigins:   cfg.CORSAllowedOrigins,
		Logger:        logger,
	}).Setup()
}

// ProvideConfigWatcher reloads the gate policy and log level when the YAML
// config file changes. It is nil when no file is configured.
func ProvideConfigWatcher(cfg *config.Config, gate *services.PromptGate, level zap.AtomicLevel, logger *zap.Logger) (*config.Watcher, func(), error) {
	if cfg.ConfigFile == "" {
		return nil, func() {}, nil
	}
	watcher, err := config.NewWatcher(cfg.ConfigFile, logger)
	if err != nil {
		return nil, nil, err
	}
	watcher.Subscribe(func(fc *config.FileConfig) {
		applyFileConfig(fc, gate, level, logger)
	})
	watcher.Start()
	return watcher, watcher.Stop, nil
}

// applyFileConfig applies the reloadable settings. Environment variables
// still win at startup; a reload always applies what the file says.
func applyFileConfig(fc *config.FileConfig, gate *services.PromptGate, level zap.AtomicLevel, logger *zap.Logger) {
	if fc.GateFailurePolicy != "" {
		policy, err := services.ParseFailurePolicy(fc.GateFailurePolicy)
		if err != nil {
			logger.Warn("Ignoring gate failure policy from config file", zap.Error(err))
		} else if policy != gate.FailurePolicy() {
			gate.SetFailurePolicy(policy)
			logger.Info("Gate failure policy changed", zap.String("policy", string(policy)))
		}
	}
	if fc.LogLevel != "" {
		l, err := zapcore.ParseLevel(fc.LogLevel)
		switch {
		case err != nil:
			logger.Warn("Ignoring log level from config file", zap.Error(err))
		case l != level.Level():
			level.SetLevel(l)
			logger.Info("Log level changed", zap.Stringer("level", l))
		}
	}
}
