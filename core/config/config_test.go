package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "1:abc", RunMode: "Polling"}, Webhook: WebhookConfig{Path: "hook"}}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q", cfg.Telegram.RunMode)
	}
	if cfg.Webhook.Path != "/hook" {
		t.Fatalf("webhook path = %q", cfg.Webhook.Path)
	}
	if cfg.HTTP.Addr() != ":8080" {
		t.Fatalf("addr = %q", cfg.HTTP.Addr())
	}
}

func TestNormalizeRejects(t *testing.T) {
	cases := map[string]Config{
		"missing token":  {},
		"negative admin": {Telegram: TelegramConfig{Token: "x", AdminID: -1}},
		"bad run mode":   {Telegram: TelegramConfig{Token: "x", RunMode: "push"}},
		"bad port":       {Telegram: TelegramConfig{Token: "x"}, HTTP: HTTPConfig{Port: 70000}},
	}
	for name, cfg := range cases {
		cfg := cfg
		if err := Normalize(&cfg); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadIntoMissingFileUsesEnv(t *testing.T) {
	t.Setenv("TELEGRAM_ADMIN_ID", "99")
	t.Setenv("PORT", "9090")
	var cfg Config
	if err := LoadInto(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err != nil {
		t.Fatalf("LoadInto: %v", err)
	}
	if cfg.Telegram.AdminID != 99 || cfg.HTTP.Port != 9090 {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestLoadIntoBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("telegram: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	var cfg Config
	if err := LoadInto(path, &cfg); err == nil {
		t.Fatal("expected parse error")
	}
}
