package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tweetbloom/application/ports"
	"tweetbloom/domain/core/valueobjects"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const tracerName = "tweetbloom/llm"

// instrumented wraps a backend with a circuit breaker, a span, a default
// deadline and metrics. It never retries.
type instrumented struct {
	tool    valueobjects.AITool
	next    ports.TextGenerator
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
	metrics ports.Metrics
	logger  *zap.Logger
}

func newInstrumented(tool valueobjects.AITool, next ports.TextGenerator, settings Settings, metrics ports.Metrics, logger *zap.Logger) *instrumented {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ai-" + tool.String(),
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     settings.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.BreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= settings.BreakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("AI backend circuit breaker changed state",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			// caller cancellations and configuration errors say nothing about backend health
			return err == nil ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, ports.ErrMissingCredential)
		},
	})

	return &instrumented{
		tool:    tool,
		next:    next,
		breaker: breaker,
		timeout: settings.Timeout,
		metrics: metrics,
		logger:  logger,
	}
}

func (i *instrumented) Generate(ctx context.Context, prompt string, history []ports.Turn) (string, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "llm.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.tool", i.tool.String()),
		attribute.Int("ai.history_turns", len(history)),
		attribute.Int("ai.prompt_chars", len(prompt)),
	)

	if _, ok := ctx.Deadline(); !ok && i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := i.breaker.Execute(func() (interface{}, error) {
		return i.next.Generate(ctx, prompt, history)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: %s circuit breaker: %v", ports.ErrUpstream, i.tool, err)
	}
	if i.metrics != nil {
		i.metrics.RecordProviderCall(i.tool.String(), time.Since(start), err)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		i.logger.Warn("AI backend call failed",
			zap.String("aiTool", i.tool.String()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return "", err
	}

	text, _ := out.(string)
	span.SetAttributes(attribute.Int("ai.response_chars", len(text)))
	return text, nil
}
