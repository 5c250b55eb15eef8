package database

import (
	"fmt"
	"net"
	"net/url"
)

// Config holds database connection settings.
type Config struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// Normalize fills defaults and rejects settings that cannot produce a DSN.
func (c *Config) Normalize() error {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == "" {
		c.Port = "5432"
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.MaxConnections <= 0 {
		c.MaxConnections = 5
	}
	if c.User == "" || c.Name == "" {
		return fmt.Errorf("database user and name are required")
	}
	return nil
}

// DSN returns the lib/pq keyword/value connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		quote(c.User), quote(c.Password), c.Host, c.Port, quote(c.Name), c.SSLMode)
}

// URL returns the postgres:// form golang-migrate expects.
func (c Config) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

func quote(v string) string {
	if v == "" {
		return "''"
	}
	out := make([]rune, 0, len(v)+2)
	out = append(out, '\'')
	for _, r := range v {
		if r == '\'' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(append(out, '\''))
}
