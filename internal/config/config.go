// Package config loads service settings from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"srmorph/internal/language"
	"srmorph/internal/override"
	"srmorph/pkg/options"
)

type Config struct {
	Resources     string        `yaml:"resources"`
	Dialect       string        `yaml:"dialect"`
	RemovalMode   string        `yaml:"removal_mode"`
	Transliterate bool          `yaml:"transliterate"`
	HTTPAddr      string        `yaml:"http_addr"`
	CORSOrigins   []string      `yaml:"cors_origins"`
	Redis         RedisConfig   `yaml:"redis"`
	Speller       SpellerConfig `yaml:"speller"`
}

type RedisConfig struct {
	// Addr is empty when no Redis store is used.
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type SpellerConfig struct {
	MaxEditDistance int `yaml:"max_edit_distance"`
	MaxSuggestions  int `yaml:"max_suggestions"`
	MinWordLength   int `yaml:"min_word_length"`
	CacheSize       int `yaml:"cache_size"`
}

func Default() Config {
	d := options.DefaultOptions
	return Config{
		Resources:   "resources",
		Dialect:     language.Ekavian.Name,
		RemovalMode: "qualified",
		HTTPAddr:    ":8080",
		CORSOrigins: []string{"*"},
		Redis:       RedisConfig{Prefix: "srmorph"},
		Speller: SpellerConfig{
			MaxEditDistance: d.MaxEditDistance,
			MaxSuggestions:  d.MaxSuggestions,
			MinWordLength:   d.MinWordLength,
			CacheSize:       d.CacheSize,
		},
	}
}

// Load reads path on top of the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Resources = getenv("SRMORPH_RESOURCES", c.Resources)
	c.Dialect = getenv("SRMORPH_DIALECT", c.Dialect)
	c.RemovalMode = getenv("SRMORPH_REMOVAL_MODE", c.RemovalMode)
	c.Transliterate = getEnvBool("SRMORPH_TRANSLITERATE", c.Transliterate)
	c.HTTPAddr = getenv("HTTP_ADDR", c.HTTPAddr)
	if v := os.Getenv("SRMORPH_CORS_ORIGINS"); v != "" {
		c.CORSOrigins = strings.Split(v, ",")
	}
	c.Redis.Addr = getenv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getenv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)
}

func (c Config) Validate() error {
	if _, err := language.DialectByName(c.Dialect); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := override.ParseRemovalMode(c.RemovalMode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Resources == "" {
		return fmt.Errorf("config: resources directory is required")
	}
	return nil
}

// LanguageOptions translates the settings into pipeline options. Overrides
// and accepted words come from elsewhere.
func (c Config) LanguageOptions() (language.Options, error) {
	d, err := language.DialectByName(c.Dialect)
	if err != nil {
		return language.Options{}, err
	}
	mode, err := override.ParseRemovalMode(c.RemovalMode)
	if err != nil {
		return language.Options{}, err
	}
	return language.Options{
		Root:          c.Resources,
		Dialect:       d,
		RemovalMode:   mode,
		Transliterate: c.Transliterate,
		Speller:       c.SpellerOptions(),
	}, nil
}

func (c Config) SpellerOptions() []options.Options {
	s := c.Speller
	return []options.Options{
		options.WithMaxEditDistance(s.MaxEditDistance),
		options.WithMaxSuggestions(s.MaxSuggestions),
		options.WithMinWordLength(s.MinWordLength),
		options.WithCacheSize(s.CacheSize),
	}
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return def
}
