package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrMissingAPIKey is returned when no OpenAI API key is configured.
// The key is required before any network call is made.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY not set (export it or add it to your shell profile)")

// Load reads and parses the configuration file, then applies
// environment overrides
func Load(path string) (*Config, error) {
	// Expand path
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	cfg := Default()

	// A missing config file is fine: defaults plus environment
	// overrides are enough to run.
	data, err := os.ReadFile(expandedPath)
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.ApplyEnv()

	// Expand paths in config
	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides config values from the environment. The variable
// names match the original dotenv surface so existing setups keep working.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Summarizer.APIKey = v
	}
	if v := os.Getenv("GMAIL_CREDENTIALS_FILE"); v != "" {
		c.Gmail.CredentialsPath = v
	}
	if v := os.Getenv("GMAIL_TOKEN_FILE"); v != "" {
		c.Gmail.TokenPath = v
	}
	if v := os.Getenv("MAX_EMAILS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Gmail.MaxResults = n
		}
	}
	if v := os.Getenv("EMAIL_QUERY"); v != "" {
		c.Gmail.Query = v
	}
	if v := os.Getenv("SUMMARY_MAX_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Summarizer.WordBudget = n
		}
	}
	if v := os.Getenv("AI_MODEL"); v != "" {
		c.Summarizer.Model = v
	}
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// expandPaths expands ~ in all path fields
func (c *Config) expandPaths() error {
	var err error

	c.Gmail.CredentialsPath, err = expandPath(c.Gmail.CredentialsPath)
	if err != nil {
		return err
	}

	c.Gmail.TokenPath, err = expandPath(c.Gmail.TokenPath)
	if err != nil {
		return err
	}

	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// Gmail validation
	if c.Gmail.CredentialsPath == "" {
		errs = append(errs, errors.New("gmail.credentials_path is required"))
	}
	if c.Gmail.TokenPath == "" {
		errs = append(errs, errors.New("gmail.token_path is required"))
	}
	if c.Gmail.MaxResults < 1 || c.Gmail.MaxResults > 500 {
		errs = append(errs, errors.New("gmail.max_results must be between 1 and 500"))
	}

	// Summarizer validation
	if c.Summarizer.Model == "" {
		errs = append(errs, errors.New("summarizer.model is required"))
	}
	if c.Summarizer.WordBudget < 10 || c.Summarizer.WordBudget > 1000 {
		errs = append(errs, errors.New("summarizer.word_budget must be between 10 and 1000"))
	}
	if c.Summarizer.BaseURL == "" {
		errs = append(errs, errors.New("summarizer.base_url is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// ValidateSecrets checks the parts of the configuration that gate
// network access. Split from Validate so 'config show' works without a key.
func (c *Config) ValidateSecrets() error {
	if c.Summarizer.APIKey == "" {
		return ErrMissingAPIKey
	}

	if _, err := os.Stat(c.Gmail.CredentialsPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Gmail credentials file %q not found.\n", c.Gmail.CredentialsPath)
		fmt.Fprintln(os.Stderr, "Download it from the Google Cloud Console before the first run.")
	}

	return nil
}

// EnsureDirectories creates the directories the token file lives in
func (c *Config) EnsureDirectories() error {
	dir := filepath.Dir(c.Gmail.TokenPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
