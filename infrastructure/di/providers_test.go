package di

import (
	"context"
	"testing"

	"tweetbloom/application/ports/mocks"
	"tweetbloom/application/services"
	"tweetbloom/infrastructure/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestApplyFileConfig(t *testing.T) {
	gate := services.NewPromptGate(new(mocks.MockTextGenerator), services.FailOpen, mocks.NopMetrics{}, nil)
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	applyFileConfig(&config.FileConfig{GateFailurePolicy: "closed", LogLevel: "debug"}, gate, level, zap.NewNop())
	assert.Equal(t, services.FailClosed, gate.FailurePolicy())
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	applyFileConfig(&config.FileConfig{LogLevel: "loud"}, gate, level, zap.NewNop())
	assert.Equal(t, services.FailClosed, gate.FailurePolicy(), "empty policy leaves the gate alone")
	assert.Equal(t, zapcore.DebugLevel, level.Level(), "bad level is ignored")
}

func TestProvideLogLevel(t *testing.T) {
	level, err := ProvideLogLevel(&config.Config{LogLevel: "warn"})
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, level.Level())

	_, err = ProvideLogLevel(&config.Config{LogLevel: "chatty"})
	assert.Error(t, err)
}

func TestProvideLimiterFactory_InProcess(t *testing.T) {
	defer goleak.VerifyNone(t)

	factory, cleanup := ProvideLimiterFactory(&config.Config{Store: config.StoreSQLite}, aws.Config{})
	limiter := factory("chat", 1)

	ok, err := limiter.Allow(context.Background(), "user:a")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = limiter.Allow(context.Background(), "user:a")
	assert.False(t, ok)

	cleanup()
}

func TestProvideMetrics(t *testing.T) {
	m := ProvideMetrics(&config.Config{EnableMetrics: true, Environment: "test"}, aws.Config{}, zap.NewNop())
	require.NotNil(t, m.Collector)
	assert.Nil(t, m.CloudWatch)
	m.Recorder.RecordTurn("success")
	m.Flush(context.Background())

	off := ProvideMetrics(&config.Config{}, aws.Config{}, zap.NewNop())
	assert.Nil(t, off.Collector)
	assert.NotPanics(t, func() { off.Recorder.RecordTruncation() })
}

func TestProvideTokenVerifier(t *testing.T) {
	_, err := ProvideTokenVerifier(&config.Config{AuthMode: config.AuthModeJWT})
	assert.Error(t, err, "HS256 needs a secret")

	v, err := ProvideTokenVerifier(&config.Config{AuthMode: config.AuthModeJWT, JWTSecret: "s3cret"})
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestProvideRepositories_SQLite(t *testing.T) {
	repos, cleanup, err := ProvideRepositories(context.Background(),
		&config.Config{Store: config.StoreSQLite, SQLitePath: ":memory:"}, aws.Config{}, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, repos.Health.Ping(context.Background()))
}
