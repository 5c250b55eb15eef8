package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token string `yaml:"token" envconfig:"BOT_TOKEN"`
	// AdminID restricts the bot to a single sender; 0 keeps the bot open to everyone.
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
	// APIURL overrides the Bot API base URL (self-hosted Bot API servers, tests).
	APIURL string `yaml:"api_url" envconfig:"TELEGRAM_API_URL"`
}

// WebhookConfig specifies how Telegram reaches the webhook endpoint.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Path   string `yaml:"path" envconfig:"WEBHOOK_PATH"`
	Secret string `yaml:"secret" envconfig:"WEBHOOK_SECRET"`
}

// HTTPConfig configures the public HTTP listener (menu page, webhook, metrics).
type HTTPConfig struct {
	Listen string `yaml:"listen" envconfig:"HTTP_LISTEN"`
	Port   int    `yaml:"port" envconfig:"PORT"`
}

// Addr returns the listen address in host:port form.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Listen, h.Port)
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format      string `yaml:"format" envconfig:"LOG_FORMAT"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	File        string `yaml:"file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

const (
	// RunModeWebhook feeds updates through the HTTP webhook endpoint.
	RunModeWebhook = "webhook"
	// RunModeLongpoll pulls updates with getUpdates; handy for local development.
	RunModeLongpoll = "longpoll"
)

const (
	defaultHTTPPort    = 8080
	defaultWebhookPath = "/api/telegram"
)

// Config aggregates the configuration that belongs to the reusable core.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoadInto fills dst from an optional .env file, the YAML file at path and the
// process environment, in that order of increasing precedence.
func LoadInto(path string, dst any) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// env-only deployments are allowed
	default:
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := envconfig.Process("", dst); err != nil {
		return fmt.Errorf("failed to process env: %w", err)
	}
	return nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		return fmt.Errorf("telegram token is required")
	}
	if cfg.Telegram.AdminID < 0 {
		return fmt.Errorf("telegram.admin_id must be >= 0")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	switch rm {
	case "":
		rm = RunModeWebhook
	case "polling": // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = defaultHTTPPort
	}
	if cfg.HTTP.Port < 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be within 1..65535")
	}

	path := strings.TrimSpace(cfg.Webhook.Path)
	if path == "" {
		path = defaultWebhookPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	cfg.Webhook.Path = path
	return nil
}
