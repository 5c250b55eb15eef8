// Package app assembles carta from its configuration: the catalog backend,
// the session store, the admin bot and the public web server.
package app

import (
	"fmt"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/carta/core/config"
	coredatabase "github.com/m3rciful/carta/core/database"
	"github.com/m3rciful/carta/internal/admin"
	"github.com/m3rciful/carta/internal/catalog"
	"github.com/m3rciful/carta/internal/session"
)

// Session store backends.
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// GitHubConfig locates menu.json in a repository.
type GitHubConfig struct {
	// Repo is "owner/name".
	Repo   string `yaml:"repo" envconfig:"GITHUB_REPO"`
	Path   string `yaml:"path" envconfig:"GITHUB_MENU_PATH"`
	Branch string `yaml:"branch" envconfig:"GITHUB_BRANCH"`
	Token  string `yaml:"token" envconfig:"GITHUB_TOKEN"`
	APIURL string `yaml:"api_url" envconfig:"GITHUB_API_URL"`
}

// StorageConfig selects where the catalog lives.
type StorageConfig struct {
	Backend string       `yaml:"backend" envconfig:"STORAGE_BACKEND"`
	File    string       `yaml:"file" envconfig:"MENU_FILE"`
	GitHub  GitHubConfig `yaml:"github"`
	// SeedFile is imported into an empty products table on startup (postgres only).
	SeedFile string `yaml:"seed_file" envconfig:"MENU_SEED_FILE"`
}

// SessionConfig picks the conversation store.
type SessionConfig struct {
	Backend string        `yaml:"backend" envconfig:"SESSION_BACKEND"`
	TTL     time.Duration `yaml:"ttl" envconfig:"SESSION_TTL"`
}

// DisplayConfig tunes the public page.
type DisplayConfig struct {
	DefaultLanguage     string `yaml:"default_language" envconfig:"MENU_DEFAULT_LANG"`
	InferAllergens      bool   `yaml:"infer_allergens" envconfig:"MENU_INFER_ALLERGENS"`
	MilkSupplementPrice string `yaml:"milk_supplement_price" envconfig:"MENU_MILK_SUPPLEMENT"`
}

// Config is the full application configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Storage  StorageConfig       `yaml:"storage"`
	Database coredatabase.Config `yaml:"database" envconfig:"DB"`
	Session  SessionConfig       `yaml:"session"`
	Redis    session.RedisConfig `yaml:"redis"`
	Display  DisplayConfig       `yaml:"display"`
}

// CoreConfig implements the runner's config carrier.
func (c *Config) CoreConfig() *coreconfig.Config { return &c.Config }

// LoadConfig reads the YAML file at path overlaid by the environment.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.LoadInto(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates cfg and fills defaults.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}

	backend := strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if backend == "" {
		backend = admin.BackendGitHub
	}
	switch backend {
	case admin.BackendGitHub:
		if c.Storage.GitHub.Repo == "" {
			return fmt.Errorf("storage.github.repo is required for the github backend")
		}
		if c.Storage.GitHub.Path == "" {
			c.Storage.GitHub.Path = "data/menu.json"
		}
	case admin.BackendFile:
		if c.Storage.File == "" {
			c.Storage.File = "data/menu.json"
		}
	case admin.BackendPostgres:
		if err := c.Database.Normalize(); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	default:
		return fmt.Errorf("invalid storage.backend %q; allowed: github, file, postgres", c.Storage.Backend)
	}
	c.Storage.Backend = backend

	sb := strings.ToLower(strings.TrimSpace(c.Session.Backend))
	switch sb {
	case "":
		sb = SessionMemory
	case SessionMemory:
	case SessionRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for the redis session backend")
		}
	default:
		return fmt.Errorf("invalid session.backend %q; allowed: memory, redis", c.Session.Backend)
	}
	c.Session.Backend = sb
	if c.Session.TTL < 0 {
		return fmt.Errorf("session.ttl must be >= 0")
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = session.DefaultTTL
	}

	lang := strings.ToLower(strings.TrimSpace(c.Display.DefaultLanguage))
	if lang == "" {
		lang = string(catalog.ES)
	}
	if _, ok := catalog.ParseLocale(lang); !ok {
		return fmt.Errorf("invalid display.default_language %q; allowed: es, en, ca", c.Display.DefaultLanguage)
	}
	c.Display.DefaultLanguage = lang
	if c.Display.MilkSupplementPrice != "" {
		price, err := catalog.ParsePrice(c.Display.MilkSupplementPrice)
		if err != nil {
			return fmt.Errorf("display.milk_supplement_price: %w", err)
		}
		c.Display.MilkSupplementPrice = price
	}
	return nil
}
