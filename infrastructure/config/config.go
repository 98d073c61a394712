package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends
const (
	StoreSQLite   = "sqlite"
	StoreDynamoDB = "dynamodb"
)

// Auth modes
const (
	AuthModeJWT      = "jwt"
	AuthModeSupabase = "supabase"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress      string
	Environment        string
	LogLevel           string
	ConfigFile         string
	CORSAllowedOrigins []string

	// Store
	Store      string
	SQLitePath string
	AWSRegion  string
	TableName  string

	// Events; empty logs events instead of sending them
	EventBusName string

	// Authentication
	AuthMode               string
	JWTSecret              string
	JWTIssuer              string
	SupabaseURL            string
	SupabaseServiceRoleKey string

	// AI backends
	GeminiAPIKey  string
	OpenAIAPIKey  string
	GrokAPIKey    string
	GeminiModel   string
	OpenAIModel   string
	GrokModel     string
	OpenAIBaseURL string
	GrokBaseURL   string
	AITimeout     time.Duration

	// Prompt gate
	GateAITool        string
	GateFailurePolicy string

	RateLimits RateLimits

	// Feature flags
	EnableMetrics bool
	EnableTracing bool
	OTLPEndpoint  string
	EnableXRay    bool
	IsLambda      bool
}

// RateLimits are requests per minute for each route class
type RateLimits struct {
	Chat      int `yaml:"chat"`
	Evaluate  int `yaml:"evaluate"`
	Summarize int `yaml:"summarize"`
	Combine   int `yaml:"combine"`
	Read      int `yaml:"read"`
	Write     int `yaml:"write"`
	Global    int `yaml:"global"`
}

// DefaultRateLimits returns the per-minute limits of each route class
func DefaultRateLimits() RateLimits {
	return RateLimits{Chat: 50, Evaluate: 60, Summarize: 30, Combine: 20, Read: 100, Write: 50, Global: 100}
}

// LoadConfig loads configuration from the environment, layered over the
// optional YAML file named by CONFIG_FILE.
func LoadConfig() (*Config, error) {
	file := &FileConfig{}
	path := os.Getenv("CONFIG_FILE")
	if path != "" {
		var err error
		if file, err = LoadFile(path); err != nil {
			return nil, err
		}
	}

	limits := file.RateLimits.withDefaults(DefaultRateLimits())
	cfg := &Config{
		ServerAddress:      getEnv("SERVER_ADDRESS", ":3001"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		LogLevel:           getEnv("LOG_LEVEL", orDefault(file.LogLevel, "info")),
		ConfigFile:         path,
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),

		Store:      strings.ToLower(getEnv("STORE", StoreSQLite)),
		SQLitePath: getEnv("SQLITE_PATH", "tweetbloom.db"),
		AWSRegion:  getEnv("AWS_REGION", "us-west-2"),
		TableName:  getEnv("TABLE_NAME", "tweetbloom"),

		EventBusName: getEnv("EVENT_BUS_NAME", ""),

		AuthMode:               strings.ToLower(getEnv("AUTH_MODE", AuthModeJWT)),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		JWTIssuer:              getEnv("JWT_ISSUER", ""),
		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabaseServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		GrokAPIKey:    getEnv("GROK_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_AI", file.Models.Gemini),
		OpenAIModel:   getEnv("OPENAI_AI", file.Models.OpenAI),
		GrokModel:     getEnv("GROK_AI", file.Models.Grok),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		GrokBaseURL:   getEnv("GROK_BASE_URL", ""),
		AITimeout:     getEnvDuration("AI_TIMEOUT", 60*time.Second),

		GateAITool:        strings.ToUpper(getEnv("GATE_AI_TOOL", "GEMINI")),
		GateFailurePolicy: strings.ToLower(getEnv("GATE_FAILURE_POLICY", orDefault(file.GateFailurePolicy, "open"))),

		RateLimits: RateLimits{
			Chat:      getEnvInt("RATE_LIMIT_CHAT", limits.Chat),
			Evaluate:  getEnvInt("RATE_LIMIT_EVALUATE", limits.Evaluate),
			Summarize: getEnvInt("RATE_LIMIT_SUMMARIZE", limits.Summarize),
			Combine:   getEnvInt("RATE_LIMIT_COMBINE", limits.Combine),
			Read:      getEnvInt("RATE_LIMIT_READ", limits.Read),
			Write:     getEnvInt("RATE_LIMIT_WRITE", limits.Write),
			Global:    getEnvInt("RATE_LIMIT_GLOBAL", limits.Global),
		},

		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		OTLPEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		EnableXRay:    getEnvBool("ENABLE_XRAY", false),
		IsLambda:      os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "",
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StoreDynamoDB:
	default:
		return fmt.Errorf("STORE must be %q or %q, got %q", StoreSQLite, StoreDynamoDB, c.Store)
	}
	switch c.AuthMode {
	case AuthModeJWT, AuthModeSupabase:
	default:
		return fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthModeJWT, AuthModeSupabase, c.AuthMode)
	}
	if err := validateGatePolicy(c.GateFailurePolicy); err != nil {
		return err
	}
	switch c.GateAITool {
	case "GEMINI", "CHATGPT", "GROK":
	default:
		return fmt.Errorf("GATE_AI_TOOL must be GEMINI, CHATGPT or GROK, got %q", c.GateAITool)
	}

	if c.IsProduction() {
		if c.AuthMode == AuthModeJWT && c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.AuthMode == AuthModeSupabase && (c.SupabaseURL == "" || c.SupabaseServiceRoleKey == "") {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY are required in production")
		}
		if c.Store == StoreDynamoDB && c.TableName == "" {
			return fmt.Errorf("TABLE_NAME is required")
		}
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func validateGatePolicy(p string) error {
	if p != "open" && p != "closed" {
		return fmt.Errorf("GATE_FAILURE_POLICY must be open or closed, got %q", p)
	}
	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
