package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileConfig is the hot-reloadable part of the configuration, read from YAML:
//
//	gateFailurePolicy: closed
//	logLevel: debug
//	rateLimits:
//	  chat: 50
//	models:
//	  gemini: gemini-2.5-flash-lite
type FileConfig struct {
	GateFailurePolicy string     `yaml:"gateFailurePolicy"`
	LogLevel          string     `yaml:"logLevel"`
	RateLimits        RateLimits `yaml:"rateLimits"`
	Models            Models     `yaml:"models"`
}

// Models overrides backend model names
type Models struct {
	Gemini string `yaml:"gemini"`
	OpenAI string `yaml:"openai"`
	Grok   string `yaml:"grok"`
}

// LoadFile reads and validates a YAML config file
func LoadFile(path string) (*FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg := &FileConfig{}
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.GateFailurePolicy = strings.ToLower(strings.TrimSpace(cfg.GateFailurePolicy))
	if cfg.GateFailurePolicy != "" {
		if err := validateGatePolicy(cfg.GateFailurePolicy); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// withDefaults fills zero limits from defaults
func (r RateLimits) withDefaults(d RateLimits) RateLimits {
	pick := func(v, def int) int {
		if v <= 0 {
			return def
		}
		return v
	}
	return RateLimits{
		Chat:      pick(r.Chat, d.Chat),
		Evaluate:  pick(r.Evaluate, d.Evaluate),
		Summarize: pick(r.Summarize, d.Summarize),
		Combine:   pick(r.Combine, d.Combine),
		Read:      pick(r.Read, d.Read),
		Write:     pick(r.Write, d.Write),
		Global:    pick(r.Global, d.Global),
	}
}
