package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Database struct {
		URI string `yaml:"uri"`
	} `yaml:"database"`

	// Redis is optional. With an empty address the navigation marker, the
	// session cache and the rate limiter fall back to in-process stores.
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Gemini struct {
		ApiKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"gemini"`

	Openai struct {
		GptApiKey          string `yaml:"gptApiKey"`
		Model              string `yaml:"model"`
		TranscriptionModel string `yaml:"transcriptionModel"`
	} `yaml:"openai"`

	Tavus struct {
		ApiKey  string `yaml:"apiKey"`
		BaseURL string `yaml:"baseUrl"`
	} `yaml:"tavus"`

	JWT struct {
		Secret string `yaml:"secret"`
		Expiry int    `yaml:"expiry"` // admin token expiry in minutes
	} `yaml:"jwt"`

	// Generator selects the text provider: "gemini" or "openai".
	Generator string `yaml:"generator"`

	Onboarding struct {
		TableSource        string `yaml:"tableSource"` // "static" or "database"
		RecommendationSize int    `yaml:"recommendationSize"`
	} `yaml:"onboarding"`

	Messages struct {
		CachedRoute       string            `yaml:"cachedRoute"`
		SessionRoutes     map[string]string `yaml:"sessionRoutes"` // route -> session type
		ChatContextTurns  int               `yaml:"chatContextTurns"`
		LowWatermark      int               `yaml:"lowWatermark"`
		ReplenishBatch    int               `yaml:"replenishBatch"`
		SessionTTLMinutes int               `yaml:"sessionTtlMinutes"`
	} `yaml:"messages"`

	RateLimit struct {
		Requests      int `yaml:"requests"`
		WindowSeconds int `yaml:"windowSeconds"`
	} `yaml:"rateLimit"`
}

// LoadConfig reads the configuration file, then lets the environment (and a
// local .env file, when present) override secrets and endpoints.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	overrides := map[string]*string{
		"MONGO_URI":      &c.Database.URI,
		"REDIS_ADDR":     &c.Redis.Addr,
		"REDIS_PASSWORD": &c.Redis.Password,
		"GEMINI_API_KEY": &c.Gemini.ApiKey,
		"OPENAI_API_KEY": &c.Openai.GptApiKey,
		"TAVUS_API_KEY":  &c.Tavus.ApiKey,
		"JWT_SECRET":     &c.JWT.Secret,
		"LOG_LEVEL":      &c.Log.Level,
		"TEXT_GENERATOR": &c.Generator,
	}
	for key, target := range overrides {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			*target = value
		}
	}

	if value := os.Getenv("PORT"); value != "" {
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", value, err)
		}
		c.Server.Port = port
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 1313
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:8081", "http://localhost:5173"}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Openai.Model == "" {
		c.Openai.Model = "gpt-4o-mini"
	}
	if c.Openai.TranscriptionModel == "" {
		c.Openai.TranscriptionModel = "whisper-1"
	}
	if c.Tavus.BaseURL == "" {
		c.Tavus.BaseURL = "https://tavusapi.com/v2"
	}
	if c.JWT.Expiry == 0 {
		c.JWT.Expiry = 60
	}
	if c.Generator == "" {
		c.Generator = "gemini"
	}
	if c.Onboarding.TableSource == "" {
		c.Onboarding.TableSource = "static"
	}
	if c.Onboarding.RecommendationSize == 0 {
		c.Onboarding.RecommendationSize = 3
	}
	if c.Messages.CachedRoute == "" {
		c.Messages.CachedRoute = "/profile"
	}
	if len(c.Messages.SessionRoutes) == 0 {
		c.Messages.SessionRoutes = map[string]string{
			"/chat":       "chat",
			"/video-call": "video",
		}
	}
	if c.Messages.ChatContextTurns == 0 {
		c.Messages.ChatContextTurns = 3
	}
	if c.Messages.LowWatermark == 0 {
		c.Messages.LowWatermark = 2
	}
	if c.Messages.ReplenishBatch == 0 {
		c.Messages.ReplenishBatch = 5
	}
	if c.Messages.SessionTTLMinutes == 0 {
		c.Messages.SessionTTLMinutes = 120
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = 20
	}
	if c.RateLimit.WindowSeconds == 0 {
		c.RateLimit.WindowSeconds = 60
	}
}
