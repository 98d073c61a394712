package di

import (
	"net/http"

	"tweetbloom/application/services"
	"tweetbloom/infrastructure/config"
	"tweetbloom/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Handler      http.Handler
	Repositories *Repositories
	Metrics      *Metrics
	Tracer       *observability.TracerProvider
	Gate         *services.PromptGate
	// Watcher is nil when no config file is set
	Watcher *config.Watcher
}
