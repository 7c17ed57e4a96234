// Package config resolves the settings of a tblsrel run from command line
// flags, environment variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tordrt/tblsrel/internal/output"
	"github.com/tordrt/tblsrel/internal/rule"
)

// Environment variables read when the matching flag is not set
const (
	EnvDatabaseURL     = "TBLSREL_DATABASE_URL"
	EnvRules           = "TBLSREL_RULES"
	EnvPrefixes        = "TBLSREL_PREFIXES"
	EnvOutput          = "TBLSREL_OUTPUT"
	EnvMaxCombinations = "TBLSREL_MAX_COMBINATIONS"
	EnvSchema          = "TBLSREL_SCHEMA"

	EnvS3Endpoint  = "TBLSREL_S3_ENDPOINT"
	EnvS3AccessKey = "TBLSREL_S3_ACCESS_KEY"
	EnvS3SecretKey = "TBLSREL_S3_SECRET_KEY"
	EnvS3UseSSL    = "TBLSREL_S3_USE_SSL"
	EnvS3Region    = "TBLSREL_S3_REGION"
)

// Defaults
const (
	DefaultEnvFile         = ".env"
	DefaultOutput          = ".tbls.yml"
	DefaultMaxCombinations = 1_000_000
	DefaultTimeout         = 5 * time.Minute
)

// Config holds everything a run needs
type Config struct {
	DatabaseURL      string
	Schema           string // PostgreSQL schema, "public" when empty
	Rules            []string
	Prefixes         []string
	Output           string
	MaxCombinations  uint64
	SkipEmptyIndexes bool
	Deduplicate      bool
	Timeout          time.Duration
	Storage          output.StorageConfig
}

// Default returns a config with the default rule, output and search limit
func Default() *Config {
	return &Config{
		Rules:           []string{rule.NameEndsWith},
		Output:          DefaultOutput,
		MaxCombinations: DefaultMaxCombinations,
		Timeout:         DefaultTimeout,
	}
}

// LoadEnvFile loads variables from path into the process environment
// without overriding variables already set. A missing file is only an
// error when required is true.
func LoadEnvFile(path string, required bool) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv fills settings from the environment. isSet reports whether the
// user set the flag of that name explicitly; those settings are kept.
func (c *Config) ApplyEnv(isSet func(flag string) bool) error {
	if isSet == nil {
		isSet = func(string) bool { return false }
	}

	if v, ok := lookup(EnvDatabaseURL); ok && !isSet("database-url") {
		c.DatabaseURL = v
	}
	if v, ok := lookup(EnvSchema); ok && !isSet("schema") {
		c.Schema = v
	}
	if v, ok := lookup(EnvRules); ok && !isSet("rules") {
		c.Rules = splitAndTrim(v, ",")
	}
	if v, ok := lookup(EnvPrefixes); ok && !isSet("ends-with-excepting-prefixes") {
		c.Prefixes = splitAndTrim(v, ",")
	}
	if v, ok := lookup(EnvOutput); ok && !isSet("output") {
		c.Output = v
	}
	if v, ok := lookup(EnvMaxCombinations); ok && !isSet("max-combinations") {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMaxCombinations, err)
		}
		c.MaxCombinations = n
	}

	if v, ok := lookup(EnvS3Endpoint); ok {
		c.Storage.Endpoint = v
	}
	if v, ok := lookup(EnvS3AccessKey); ok {
		c.Storage.AccessKey = v
	}
	if v, ok := lookup(EnvS3SecretKey); ok {
		c.Storage.SecretKey = v
	}
	if v, ok := lookup(EnvS3Region); ok {
		c.Storage.Region = v
	}
	if v, ok := lookup(EnvS3UseSSL); ok {
		useSSL, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvS3UseSSL, err)
		}
		c.Storage.UseSSL = useSSL
	}

	return nil
}

// Validate checks the settings that can be checked without touching the
// database. Rule names are resolved here so a typo fails before connecting.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("database URL is required (--database-url or %s)", EnvDatabaseURL)
	}
	if _, err := rule.Build(c.Rules, c.Prefixes); err != nil {
		return err
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func splitAndTrim(str, sep string) []string {
	if str == "" {
		return []string{}
	}
	parts := strings.Split(str, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
