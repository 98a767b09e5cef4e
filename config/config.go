package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read by Load and Parse.
// TODO_DATABASE_HOST maps to database.host.
const EnvPrefix = "TODO_"

// Load loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. config.yaml and config.<env>.yaml in the working directory
// 3. Default values (lowest priority)
func Load() (*Config, error) {
	return LoadFiles("config.yaml")
}

// LoadFiles is Load with an explicit base file. The environment overlay
// config.<env>.yaml is looked up next to it.
func LoadFiles(path string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := loadOptionalFile(k, path); err != nil {
		return nil, err
	}

	if appEnv := k.String("app.env"); appEnv != "" {
		if err := loadOptionalFile(k, envFileName(path, appEnv)); err != nil {
			return nil, err
		}
	}

	return finish(k)
}

// Parse builds a configuration from YAML bytes layered over the defaults.
// Environment variables still take precedence.
func Parse(data []byte) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return finish(k)
}

func finish(k *koanf.Koanf) (*Config, error) {
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnv,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.k = k

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// transformEnv converts TODO_UPPER_CASE to upper.case for koanf.
func transformEnv(key, value string) (string, any) {
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
}

func loadOptionalFile(k *koanf.Koanf, path string) error {
	err := k.Load(file.Provider(path), yaml.Parser())
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

func envFileName(base, appEnv string) string {
	ext := ".yaml"
	stem := strings.TrimSuffix(base, ext)
	if stem == base {
		stem = strings.TrimSuffix(base, ".yml")
		ext = ".yml"
	}
	return fmt.Sprintf("%s.%s%s", stem, appEnv, ext)
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":    "todo-bricks",
		"app.version": "v1.0.0",
		"app.env":     EnvDevelopment,

		// Database defaults not provided for deterministic behavior
		// Database will only be enabled when explicitly configured

		"log.level":  "info",
		"log.pretty": false,

		"todo.pagination.default": defaultPageSize,
		"todo.pagination.max":     defaultMaxPageSize,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}
