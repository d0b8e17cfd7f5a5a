package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	LLM      ModelConfig    `mapstructure:"llm"`
	OpenAI   ModelConfig    `mapstructure:"openai"`
	Qdrant   QdrantConfig   `mapstructure:"qdrant"`
	Context  ContextConfig  `mapstructure:"context"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type ModelConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type QdrantConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	CollectionName string `mapstructure:"collection_name"`
}

// ContextConfig drives the retrieval-context builder and its cache.
// The relevance thresholds live here instead of as magic numbers so
// they can be tuned without a rebuild.
type ContextConfig struct {
	MaxContextSize      int     `mapstructure:"max_context_size"`
	IncludeAIExpenses   bool    `mapstructure:"include_ai_expenses"`
	TimeRangeMonths     int     `mapstructure:"time_range_months"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	CacheTTLMinutes     int     `mapstructure:"cache_ttl_minutes"`
	CacheMaxEntries     int     `mapstructure:"cache_max_entries"`

	CategoryBudget float64 `mapstructure:"category_budget"`
	AmountBudget   float64 `mapstructure:"amount_budget"`
	TemporalBudget float64 `mapstructure:"temporal_budget"`
	AIBudget       float64 `mapstructure:"ai_budget"`
}

// LoadConfig reads config.yaml from the working directory.
// Every key can be overridden via EXPENSE_* environment variables,
// e.g. EXPENSE_LLM_API_KEY in Docker.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("EXPENSE")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Missing file is fine, defaults + env carry us; anything else is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", ":8080")
	viper.SetDefault("jwt.expire_hours", 72)

	viper.SetDefault("llm.base_url", "https://api.deepseek.com/v1")
	viper.SetDefault("llm.model", "deepseek-chat")
	viper.SetDefault("openai.base_url", "https://api.openai.com/v1")
	viper.SetDefault("openai.model", "text-embedding-3-small")

	viper.SetDefault("qdrant.enabled", false)
	viper.SetDefault("qdrant.host", "localhost")
	viper.SetDefault("qdrant.port", 6334)
	viper.SetDefault("qdrant.collection_name", "expense_memory")

	viper.SetDefault("context.max_context_size", 100)
	viper.SetDefault("context.include_ai_expenses", true)
	viper.SetDefault("context.time_range_months", 6)
	viper.SetDefault("context.similarity_threshold", 0.7)
	viper.SetDefault("context.cache_ttl_minutes", 15)
	viper.SetDefault("context.cache_max_entries", 256)
	viper.SetDefault("context.category_budget", 0.4)
	viper.SetDefault("context.amount_budget", 0.3)
	viper.SetDefault("context.temporal_budget", 0.2)
	viper.SetDefault("context.ai_budget", 0.1)
}
