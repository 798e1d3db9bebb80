package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	categoriesPathEnv = "NEWSROOM_CATEGORIES"
	databaseURLEnv    = "DATABASE_URL"
	baseURLEnv        = "BASE_URL"
	chatAPIKeyEnv     = "CHAT_API_KEY"
	chatModelEnv      = "CHAT_MODEL"
	chatEndpointEnv   = "CHAT_ENDPOINT"
	imageAPIKeyEnv    = "IMAGE_API_KEY"
	imageEndpointEnv  = "IMAGE_ENDPOINT"
	emailAPIKeyEnv    = "EMAIL_API_KEY"
	emailEndpointEnv  = "EMAIL_ENDPOINT"
	emailFromEnv      = "EMAIL_FROM"
)

// Config holds high-level settings required across the application.
// It is loaded once at startup from the environment plus an optional
// YAML category file and treated as immutable afterwards.
type Config struct {
	DatabaseURL string
	BaseURL     string
	ServerPort  string
	StagingPath string
	Author      string

	// PipelineInterval is the period between scheduled pipeline runs in
	// watch mode. Defaults to one week.
	PipelineInterval time.Duration

	Logging    LoggingConfig
	Chat       ChatConfig
	Image      ImageConfig
	Email      EmailConfig
	Fetch      FetchConfig
	Categories []Category
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string
}

// ChatConfig defines how to contact the generative-text API.
type ChatConfig struct {
	Endpoint        string
	Model           string
	APIKey          string
	MaxTokens       int
	RequestInterval time.Duration
	Timeout         time.Duration
}

// ImageConfig defines the optional image-generation API.
type ImageConfig struct {
	Endpoint string
	APIKey   string
	Size     string
	Timeout  time.Duration
}

// EmailConfig wires the transactional email provider.
type EmailConfig struct {
	Endpoint     string
	APIKey       string
	From         string
	SendInterval time.Duration
	Timeout      time.Duration
}

// FetchConfig bounds the source fetchers.
type FetchConfig struct {
	PerSourceLimit int
	Timeout        time.Duration
	UserAgent      string
}

// Category is a configured topic bucket driving keyword filtering
// and source selection.
type Category struct {
	Name       string   `yaml:"name"`
	Label      string   `yaml:"label"`
	Keywords   []string `yaml:"keywords"`
	Subreddits []string `yaml:"subreddits"`
	ArxivQuery string   `yaml:"arxivQuery"`
	Feeds      []string `yaml:"feeds"`
}

// Load reads environment variables and the optional category file.
// Missing required variables are reported together in a single error.
func Load() (*Config, error) {
	cfg := defaultConfig()

	var missing []string

	cfg.DatabaseURL = os.Getenv(databaseURLEnv)
	if cfg.DatabaseURL == "" {
		missing = append(missing, databaseURLEnv)
	}

	cfg.BaseURL = getEnvString(baseURLEnv, cfg.BaseURL)

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.ServerPort = getEnvString("SERVER_PORT", cfg.ServerPort)
	cfg.StagingPath = getEnvString("STAGING_PATH", cfg.StagingPath)
	cfg.Author = getEnvString("POST_AUTHOR", cfg.Author)
	cfg.PipelineInterval = getEnvDuration("PIPELINE_INTERVAL", cfg.PipelineInterval)
	cfg.Logging.Level = getEnvString("LOG_LEVEL", cfg.Logging.Level)

	cfg.Chat.APIKey = os.Getenv(chatAPIKeyEnv)
	cfg.Chat.Model = getEnvString(chatModelEnv, cfg.Chat.Model)
	cfg.Chat.Endpoint = getEnvString(chatEndpointEnv, cfg.Chat.Endpoint)
	cfg.Chat.MaxTokens = getEnvInt("CHAT_MAX_TOKENS", cfg.Chat.MaxTokens)
	cfg.Chat.RequestInterval = getEnvDuration("CHAT_REQUEST_INTERVAL", cfg.Chat.RequestInterval)

	cfg.Image.APIKey = os.Getenv(imageAPIKeyEnv)
	cfg.Image.Endpoint = getEnvString(imageEndpointEnv, cfg.Image.Endpoint)
	cfg.Image.Size = getEnvString("IMAGE_SIZE", cfg.Image.Size)

	cfg.Email.APIKey = os.Getenv(emailAPIKeyEnv)
	cfg.Email.Endpoint = getEnvString(emailEndpointEnv, cfg.Email.Endpoint)
	cfg.Email.From = getEnvString(emailFromEnv, cfg.Email.From)
	cfg.Email.SendInterval = getEnvDuration("EMAIL_SEND_INTERVAL", cfg.Email.SendInterval)

	cfg.Fetch.PerSourceLimit = getEnvInt("FETCH_PER_SOURCE_LIMIT", cfg.Fetch.PerSourceLimit)
	cfg.Fetch.Timeout = getEnvDuration("FETCH_TIMEOUT", cfg.Fetch.Timeout)

	if path := os.Getenv(categoriesPathEnv); path != "" {
		cats, err := loadCategories(path)
		if err != nil {
			return nil, fmt.Errorf("load categories from %s: %w", path, err)
		}
		cfg.Categories = cats
	}

	return cfg, nil
}

// ValidatePipeline checks the variables the content pipeline needs beyond Load.
func (c *Config) ValidatePipeline() error {
	if c.Chat.APIKey == "" {
		return fmt.Errorf("required environment variable is not set: %s", chatAPIKeyEnv)
	}
	return nil
}

// ValidateDispatch checks the variables the newsletter dispatcher needs.
func (c *Config) ValidateDispatch() error {
	var missing []string
	if c.Email.APIKey == "" {
		missing = append(missing, emailAPIKeyEnv)
	}
	if c.Email.From == "" {
		missing = append(missing, emailFromEnv)
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variables are not set: %v", missing)
	}
	return nil
}

func loadCategories(path string) ([]Category, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file struct {
		Categories []Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("no categories defined")
	}
	return file.Categories, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func defaultConfig() *Config {
	return &Config{
		BaseURL:     "http://localhost:5173",
		ServerPort:  "8080",
		StagingPath: "staging/posts.json",
		Author:      "Editorial Team",

		PipelineInterval: 7 * 24 * time.Hour,
		Logging:     LoggingConfig{Level: "info"},
		Chat: ChatConfig{
			Endpoint:        "https://api.openai.com/v1/chat/completions",
			Model:           "gpt-4o-mini",
			MaxTokens:       700,
			RequestInterval: 2 * time.Second,
			Timeout:         60 * time.Second,
		},
		Image: ImageConfig{
			Endpoint: "https://api.openai.com/v1/images/generations",
			Size:     "1792x1024",
			Timeout:  90 * time.Second,
		},
		Email: EmailConfig{
			Endpoint:     "https://api.resend.com/emails",
			SendInterval: 500 * time.Millisecond,
			Timeout:      15 * time.Second,
		},
		Fetch: FetchConfig{
			PerSourceLimit: 25,
			Timeout:        20 * time.Second,
			UserAgent:      "newsroom/1.0 (weekly digest pipeline)",
		},
		Categories: defaultCategories(),
	}
}

func defaultCategories() []Category {
	return []Category{
		{
			Name:     "devops",
			Label:    "DevOps & Tools",
			Keywords: []string{"kubernetes", "docker", "terraform", "ci/cd", "observability", "sre"},
			Subreddits: []string{
				"devops", "kubernetes",
			},
			ArxivQuery: "cat:cs.DC",
			Feeds: []string{
				"https://kubernetes.io/feed.xml",
			},
		},
		{
			Name:     "ai",
			Label:    "AI & Machine Learning",
			Keywords: []string{"llm", "machine learning", "neural", "gpt", "model", "inference"},
			Subreddits: []string{
				"MachineLearning",
			},
			ArxivQuery: "cat:cs.AI",
			Feeds: []string{
				"https://openai.com/blog/rss.xml",
			},
		},
		{
			Name:     "web",
			Label:    "Web Development",
			Keywords: []string{"javascript", "typescript", "react", "css", "browser", "frontend"},
			Subreddits: []string{
				"webdev",
			},
			Feeds: []string{
				"https://web.dev/feed.xml",
			},
		},
	}
}
