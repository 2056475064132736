package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadEnvOnly(t *testing.T) {
	t.Setenv("KODI_HOST", "htpc.local")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Kodi.Host != "htpc.local" {
		t.Errorf("expected host htpc.local, got %s", cfg.Kodi.Host)
	}
	// Defaults fill in the rest.
	if cfg.Kodi.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Kodi.Port)
	}
	if cfg.Kodi.Username != "kodi" || cfg.Kodi.Password != "kodi" {
		t.Errorf("expected default credentials kodi/kodi, got %s/%s", cfg.Kodi.Username, cfg.Kodi.Password)
	}
	if cfg.Kodi.Timeout != 30 {
		t.Errorf("expected default timeout 30, got %d", cfg.Kodi.Timeout)
	}
	if cfg.App.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.App.LogLevel)
	}
	if cfg.SOCKS5 != nil {
		t.Error("expected no SOCKS5 section without SOCKS5_HOST")
	}
}

func TestLoadMissingHost(t *testing.T) {
	_, err := Load("")
	if err == nil {
		t.Fatal("expected error when no host is configured")
	}
	if !strings.Contains(err.Error(), "KODI_HOST") {
		t.Errorf("error should point at KODI_HOST: %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("KODI_HOST", "10.0.0.5")
	t.Setenv("KODI_PORT", "8090")
	t.Setenv("KODI_USERNAME", "media")
	t.Setenv("KODI_PASSWORD", "hunter2")
	t.Setenv("KODI_TIMEOUT", "10")
	t.Setenv("USE_HTTPS", "true")
	t.Setenv("KODIMATE_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Kodi.Host != "10.0.0.5" || cfg.Kodi.Port != 8090 {
		t.Errorf("unexpected endpoint: %s:%d", cfg.Kodi.Host, cfg.Kodi.Port)
	}
	if cfg.Kodi.Username != "media" || cfg.Kodi.Password != "hunter2" {
		t.Errorf("unexpected credentials: %s/%s", cfg.Kodi.Username, cfg.Kodi.Password)
	}
	if cfg.Kodi.Timeout != 10 {
		t.Errorf("expected timeout 10, got %d", cfg.Kodi.Timeout)
	}
	if !cfg.Kodi.UseHTTPS {
		t.Error("expected UseHTTPS true")
	}
	if cfg.App.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.App.LogLevel)
	}
}

func TestLoadSOCKS5FromEnv(t *testing.T) {
	t.Setenv("KODI_HOST", "htpc.local")
	t.Setenv("SOCKS5_HOST", "proxy.local")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.SOCKS5 == nil {
		t.Fatal("expected SOCKS5 section created by SOCKS5_HOST")
	}
	if cfg.SOCKS5.Host != "proxy.local" {
		t.Errorf("expected proxy host proxy.local, got %s", cfg.SOCKS5.Host)
	}
	if cfg.SOCKS5.Port != 1080 {
		t.Errorf("expected default proxy port 1080, got %d", cfg.SOCKS5.Port)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
kodi:
  host: htpc.lan
  port: 8081
  username: admin
  password: secret
socks5:
  host: 127.0.0.1
  port: 9050
app:
  log_level: warn
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Kodi.Host != "htpc.lan" || cfg.Kodi.Port != 8081 {
		t.Errorf("unexpected endpoint: %s:%d", cfg.Kodi.Host, cfg.Kodi.Port)
	}
	if cfg.SOCKS5 == nil || cfg.SOCKS5.Port != 9050 {
		t.Errorf("unexpected SOCKS5 config: %+v", cfg.SOCKS5)
	}
	if cfg.App.LogLevel != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.App.LogLevel)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "kodi:\n  host: from-file\n  port: 8081\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("KODI_HOST", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Kodi.Host != "from-env" {
		t.Errorf("environment must win over the file, got %s", cfg.Kodi.Host)
	}
	if cfg.Kodi.Port != 8081 {
		t.Errorf("file value must survive when env is unset, got %d", cfg.Kodi.Port)
	}
}

func TestLoadNonexistentFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Kodi: KodiConfig{Host: "h", Port: 8080, Username: "u", Password: "p", Timeout: 30},
			App:  AppConfig{LogLevel: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing host", func(c *Config) { c.Kodi.Host = "" }, "kodi.host"},
		{"port too high", func(c *Config) { c.Kodi.Port = 70000 }, "kodi.port"},
		{"port zero", func(c *Config) { c.Kodi.Port = 0 }, "kodi.port"},
		{"zero timeout", func(c *Config) { c.Kodi.Timeout = 0 }, "kodi.timeout"},
		{"socks5 without host", func(c *Config) { c.SOCKS5 = &SOCKS5Config{Port: 1080} }, "socks5.host"},
		{"socks5 bad port", func(c *Config) { c.SOCKS5 = &SOCKS5Config{Host: "p", Port: -1} }, "socks5.port"},
		{"bad log level", func(c *Config) { c.App.LogLevel = "verbose" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %s", err, tt.wantErr)
			}
		})
	}
}
