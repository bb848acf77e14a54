package config

// Config represents the application configuration
type Config struct {
	Gmail      GmailConfig      `toml:"gmail"`
	Summarizer SummarizerConfig `toml:"summarizer"`
}

// GmailConfig contains Gmail-specific settings
type GmailConfig struct {
	CredentialsPath string `toml:"credentials_path"`
	TokenPath       string `toml:"token_path"`
	MaxResults      int    `toml:"max_results"`
	Query           string `toml:"query"`
}

// SummarizerConfig contains summarization settings
type SummarizerConfig struct {
	Model      string `toml:"model"`
	WordBudget int    `toml:"word_budget"`
	BaseURL    string `toml:"base_url"`
	// API key is read from the OPENAI_API_KEY environment variable,
	// never from the config file.
	APIKey string `toml:"-"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Gmail: GmailConfig{
			CredentialsPath: "~/.config/mailbrief/credentials.json",
			TokenPath:       "~/.config/mailbrief/token.json",
			MaxResults:      10,
		},
		Summarizer: SummarizerConfig{
			Model:      "gpt-4o-mini",
			WordBudget: 150,
			BaseURL:    "https://api.openai.com/v1",
		},
	}
}
