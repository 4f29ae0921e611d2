package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Telegram struct {
	APIToken       string `env:"TELEGRAM_APITOKEN,required"`
	TriggerKeyword string `yaml:"trigger_keyword" env:"TRIGGER_KEYWORD" env-default:"iris"`
}

// Providers configures the LLM fallback chain. Every credential is
// optional, but at least one provider must be configured. Comma
// separated keys enable per-request key rotation.
type Providers struct {
	OllamaBaseURL     string        `yaml:"ollama_base_url" env:"OLLAMA_BASE_URL"`
	OllamaModel       string        `yaml:"ollama_model" env:"OLLAMA_MODEL" env-default:"iris"`
	GroqAPIKeys       []string      `env:"GROQ_API_KEY"`
	GroqModel         string        `yaml:"groq_model" env:"GROQ_MODEL" env-default:"llama-3.3-70b-versatile"`
	GeminiAPIKeys     []string      `env:"GEMINI_API_KEY"`
	GeminiModel       string        `yaml:"gemini_model" env:"GEMINI_MODEL" env-default:"gemini-2.0-flash"`
	OpenRouterAPIKeys []string      `env:"OPENROUTER_API_KEY"`
	OpenRouterModel   string        `yaml:"openrouter_model" env:"OPENROUTER_MODEL" env-default:"deepseek/deepseek-r1:free"`
	Timeout           time.Duration `yaml:"provider_timeout" env:"PROVIDER_TIMEOUT" env-default:"30s"`
	Temperature       float32       `yaml:"model_temperature" env:"MODEL_TEMPERATURE" env-default:"0.9"`
}

type Chat struct {
	// HistoryDepth is the number of kept exchanges (user + reply pairs).
	HistoryDepth int `yaml:"history_depth" env:"HISTORY_DEPTH" env-default:"10"`
	TokenBudget  int `yaml:"token_budget" env:"TOKEN_BUDGET" env-default:"3500"`
}

type Redis struct {
	Endpoint string `yaml:"endpoint" env:"REDIS_ENDPOINT"`
}

type Ledger struct {
	Path string `yaml:"path" env:"LEDGER_DB_PATH" env-default:"irischat.db"`
}

type Payment struct {
	UPIID string `env:"UPI_ID"`
}

type Moderation struct {
	WarnLimit  int  `yaml:"warn_limit" env:"WARN_LIMIT" env-default:"3"`
	BanOnLimit bool `yaml:"ban_on_limit" env:"BAN_ON_LIMIT" env-default:"true"`
}

type Config struct {
	Telegram   Telegram   `yaml:"telegram"`
	Providers  Providers  `yaml:"providers"`
	Chat       Chat       `yaml:"chat"`
	Redis      Redis      `yaml:"redis"`
	Ledger     Ledger     `yaml:"ledger"`
	Payment    Payment    `yaml:"payment"`
	Moderation Moderation `yaml:"moderation"`
	LogLevel   string     `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
