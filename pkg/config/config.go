package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/spf13/viper"
	"github.com/xaenox/st-notes/internal/storage"
	"go.uber.org/zap"
)

type Config struct {
	Storage    StorageConfig    `mapstructure:"storage"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Log        LogConfig        `mapstructure:"log"`
}

type StorageConfig struct {
	Backend    string `mapstructure:"backend"`
	SQLitePath string `mapstructure:"sqlite_path"`
	KeyPrefix  string `mapstructure:"key_prefix"`
	QuotaBytes int    `mapstructure:"quota_bytes"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type ClassifierConfig struct {
	UseGPT bool `mapstructure:"use_gpt"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// StorageOptions translates the config into options for storage.Open.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:    c.Storage.Backend,
		SQLitePath: c.Storage.SQLitePath,
		QuotaBytes: c.Storage.QuotaBytes,
		Postgres: storage.DatabaseConfig{
			Host:     c.Database.Host,
			Port:     c.Database.Port,
			User:     c.Database.User,
			Password: c.Database.Password,
			DBName:   c.Database.DBName,
			SSLMode:  c.Database.SSLMode,
		},
	}
}

func (c *Config) Keyspace() storage.Keyspace {
	return storage.NewKeyspace(c.Storage.KeyPrefix)
}

// OpenAIClientConfig returns the client settings, honoring a custom base URL.
func (c OpenAIConfig) OpenAIClientConfig() openai.ClientConfig {
	cfg := openai.DefaultConfig(c.APIKey)
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	return cfg
}

// Logger builds a zap logger at the configured level.
func (c LogConfig) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}

	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		if _, err := fmt.Sscanf(u.Port(), "%d", &port); err != nil {
			return DatabaseConfig{}, fmt.Errorf("invalid port %q: %w", u.Port(), err)
		}
	}

	sslMode := u.Query().Get("sslmode")
	if sslMode == "" {
		sslMode = "disable"
	}

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   strings.TrimPrefix(u.Path, "/"),
		SSLMode:  sslMode,
	}, nil
}

// LoadConfig reads the YAML file at path, if any, over the defaults and
// applies environment overrides (STNOTES_STORAGE_BACKEND, DATABASE_URL, ...).
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("storage.backend", storage.BackendSQLite)
	v.SetDefault("storage.sqlite_path", "st-notes.db")
	v.SetDefault("storage.key_prefix", storage.DefaultPrefix)
	v.SetDefault("storage.quota_bytes", 0)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.dbname", "stnotes")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("telegram.token", "")
	v.SetDefault("classifier.use_gpt", false)
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", openai.GPT3Dot5Turbo)
	v.SetDefault("openai.max_tokens", 16)
	v.SetDefault("openai.temperature", 0.2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	// Enable environment variable support
	v.SetEnvPrefix("stnotes")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Unprefixed variables used by hosting platforms
	env := viper.New()
	env.AutomaticEnv()

	if dbURL := env.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		config.Database = dbConfig
		config.Storage.Backend = storage.BackendPostgres
	}

	if token := env.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}

	if apiKey := env.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}

	return &config, nil
}
