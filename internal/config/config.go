package config

import (
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env         string    `mapstructure:"env"`          // application environment (local, production)
	CatalogPath string    `mapstructure:"catalog_path"` // optional JSON file replacing the built-in subject table
	Server      Server    `mapstructure:"server"`
	AIService   AIService `mapstructure:"ai_service"`
	CORS        CORS      `mapstructure:"cors"`
	Session     Session   `mapstructure:"session"`
}

type Server struct {
	Port string `mapstructure:"port"`
}

type AIService struct {
	BaseURL        string  `mapstructure:"base_url"`
	APIKey         string  `mapstructure:"-"` // loaded from environment only
	Model          string  `mapstructure:"model"`
	Temperature    float64 `mapstructure:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"` // 0 disables the client timeout
}

type CORS struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Session struct {
	MaxIdle       time.Duration `mapstructure:"max_idle"`
	PruneInterval time.Duration `mapstructure:"prune_interval"`
	CookieSecure  bool          `mapstructure:"cookie_secure"`
}

// Load reads .env, config/config.yaml and the environment, in increasing
// priority. A missing API key is not an error here; generation reports it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "error loading .env file")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvPrefix("QUIZ_APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("ai_service.api_key", "QUIZ_APP_AI_SERVICE_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("env", "QUIZ_APP_ENV", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, errors.Wrap(err, "error loading config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "error unmarshalling config")
	}
	cfg.AIService.APIKey = v.GetString("ai_service.api_key")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("catalog_path", "")
	v.SetDefault("server.port", ":8080")
	v.SetDefault("ai_service.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai_service.model", "gpt-4o-mini")
	v.SetDefault("ai_service.temperature", 0.7)
	v.SetDefault("ai_service.timeout_seconds", 0)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:8080"})
	v.SetDefault("session.max_idle", "2h")
	v.SetDefault("session.prune_interval", "10m")
	v.SetDefault("session.cookie_secure", false)
}

func (c *Config) validate() error {
	if c.AIService.BaseURL == "" {
		return errors.New("ai_service.base_url must not be empty")
	}
	if c.AIService.Model == "" {
		return errors.New("ai_service.model must not be empty")
	}
	if c.AIService.Temperature < 0 || c.AIService.Temperature > 2 {
		return errors.Errorf("ai_service.temperature must be in [0, 2], got %v", c.AIService.Temperature)
	}
	if c.AIService.TimeoutSeconds < 0 {
		return errors.Errorf("ai_service.timeout_seconds must not be negative, got %d", c.AIService.TimeoutSeconds)
	}
	if c.Session.MaxIdle <= 0 || c.Session.PruneInterval <= 0 {
		return errors.New("session.max_idle and session.prune_interval must be positive")
	}
	return nil
}
