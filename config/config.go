// Package config loads repository settings from YAML with environment
// overrides.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Config holds the repository settings.
type Config struct {
	Catalog       string         `yaml:"catalog"`
	BaseURL       string         `yaml:"base_url"`
	OAIPrefix     string         `yaml:"oai_prefix"`
	ResourceTypes []string       `yaml:"resource_types"`
	PIDs          map[string]PID `yaml:"pids"`
	Citation      Citation       `yaml:"citation"`
	Relations     Relations      `yaml:"relations"`
	Search        Search         `yaml:"search"`
	Stats         Stats          `yaml:"stats"`
	DatabaseURL   string         `yaml:"database_url"`
	RedisAddr     string         `yaml:"redis_addr"`
}

// PID configures one persistent identifier scheme.
type PID struct {
	Provider string `yaml:"provider"`
	Required bool   `yaml:"required"`
	Prefix   string `yaml:"prefix,omitempty"`
}

// Citation holds the citation defaults.
type Citation struct {
	Style  string `yaml:"style"`
	Locale string `yaml:"locale"`
}

// Relations limits relation traversal.
type Relations struct {
	MaxDepth int `yaml:"max_depth"`
}

// Search lists facets and sort options offered to search callers.
type Search struct {
	Facets []string `yaml:"facets"`
	Sort   []string `yaml:"sort"`
}

// Stats configures the statistics task.
type Stats struct {
	Schedule string `yaml:"schedule"`
	Bucket   string `yaml:"bucket"`
}

// Default returns the embedded defaults.
func Default() (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return nil, fmt.Errorf("parsing default config: %w", err)
	}
	return &cfg, nil
}

// Load reads the defaults, overlays path when non-empty and applies the
// environment.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides settings from LOM_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"LOM_DATABASE_URL": &c.DatabaseURL,
		"LOM_REDIS_ADDR":   &c.RedisAddr,
		"LOM_BASE_URL":     &c.BaseURL,
		"LOM_OAI_PREFIX":   &c.OAIPrefix,
		"LOM_CATALOG":      &c.Catalog,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	if v, ok := lookup("LOM_DOI_PREFIX"); ok {
		doi := c.PIDs["doi"]
		doi.Prefix = strings.TrimSpace(v)
		if doi.Provider == "" {
			doi.Provider = "datacite"
		}
		if c.PIDs == nil {
			c.PIDs = map[string]PID{}
		}
		c.PIDs["doi"] = doi
	}
	if v, ok := lookup("LOM_MAX_DEPTH"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LOM_MAX_DEPTH: %w", err)
		}
		c.Relations.MaxDepth = n
	}
	return nil
}

// Validate checks settings that have no usable fallback.
func (c *Config) Validate() error {
	if c.Catalog == "" {
		return fmt.Errorf("catalog must not be empty")
	}
	if len(c.ResourceTypes) == 0 {
		return fmt.Errorf("at least one resource type is required")
	}
	if c.Relations.MaxDepth < 0 {
		return fmt.Errorf("relations.max_depth must not be negative")
	}
	if doi, ok := c.PIDs["doi"]; ok && doi.Required && doi.Prefix == "" {
		return fmt.Errorf("pids.doi is required but has no prefix")
	}
	return nil
}

// DOIPrefix returns the DOI prefix, or "" when DOI minting is off.
func (c *Config) DOIPrefix() string {
	return c.PIDs["doi"].Prefix
}

// DOIProvider returns the configured DOI provider.
func (c *Config) DOIProvider() string {
	return c.PIDs["doi"].Provider
}
