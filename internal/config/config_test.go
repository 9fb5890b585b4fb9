package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected default host localhost, got %s", cfg.Server.Host)
	}
	if cfg.Upstream.BaseURL != "https://api.contentgeo.info" {
		t.Errorf("expected default base url, got %s", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.HasAPIKey() {
		t.Error("expected no API key by default")
	}
	if cfg.MCP.Name != "contentgeo-mcp" {
		t.Errorf("expected default mcp name contentgeo-mcp, got %s", cfg.MCP.Name)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
	if issues := cfg.Validate(); len(issues) != 0 {
		t.Errorf("expected default config to be valid, got %v", issues)
	}
}

func TestLoadFromFiles_NoFiles(t *testing.T) {
	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles with no files should not error: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
}

func TestLoadFromFiles_ValidTOML(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "test.toml")

	content := `
[server]
port = 9090
host = "0.0.0.0"

[upstream]
base_url = "http://geo.internal:8080"
api_key = "file-key"
timeout = "15s"

[mcp]
name = "geo-tools"
stateless = false

[logging]
level = "debug"
outputs = ["console", "file"]
file_path = "/tmp/geo.log"
`
	if err := os.WriteFile(tomlPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(tomlPath)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected host 0.0.0.0, got %s", cfg.Server.Host)
	}
	if cfg.Upstream.BaseURL != "http://geo.internal:8080" {
		t.Errorf("expected base url from file, got %s", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.APIKey != "file-key" {
		t.Errorf("expected api key file-key, got %s", cfg.Upstream.APIKey)
	}
	timeout, err := cfg.Upstream.RequestTimeout()
	if err != nil || timeout != 15*time.Second {
		t.Errorf("expected timeout 15s, got %v (err %v)", timeout, err)
	}
	if cfg.MCP.Name != "geo-tools" || cfg.MCP.Stateless {
		t.Errorf("unexpected mcp section: %+v", cfg.MCP)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	if len(cfg.Logging.Outputs) != 2 {
		t.Errorf("expected 2 log outputs, got %v", cfg.Logging.Outputs)
	}
}

func TestLoadFromFiles_PartialOverride(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "partial.toml")

	content := `
[upstream]
api_key = "only-key"
`
	if err := os.WriteFile(tomlPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(tomlPath)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.Upstream.APIKey != "only-key" {
		t.Errorf("expected api key only-key, got %s", cfg.Upstream.APIKey)
	}
	if cfg.Upstream.BaseURL != DefaultBaseURL {
		t.Errorf("expected default base url to survive, got %s", cfg.Upstream.BaseURL)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port to survive, got %d", cfg.Server.Port)
	}
}

func TestLoadFromFiles_MultipleFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	override := filepath.Join(dir, "override.toml")

	if err := os.WriteFile(base, []byte("[server]\nport = 9000\nhost = \"base-host\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(override, []byte("[server]\nport = 9100\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(base, override)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("expected later file to win with port 9100, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "base-host" {
		t.Errorf("expected host from first file, got %s", cfg.Server.Host)
	}
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/path.toml")
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestLoadFromFiles_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "invalid.toml")

	if err := os.WriteFile(tomlPath, []byte("this is not valid {{toml"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFromFiles(tomlPath)
	if err == nil {
		t.Error("expected error for invalid TOML, got nil")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	t.Setenv("CONTENTGEO_PORT", "9999")
	t.Setenv("CONTENTGEO_HOST", "env-host")
	t.Setenv("CONTENTGEO_BASE_URL", "http://env-upstream")
	t.Setenv("CONTENTGEO_API_KEY", "env-key")
	t.Setenv("CONTENTGEO_UPSTREAM_TIMEOUT", "2m")
	t.Setenv("CONTENTGEO_LOG_LEVEL", "error")

	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9999 {
		t.Errorf("expected env port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "env-host" {
		t.Errorf("expected env host env-host, got %s", cfg.Server.Host)
	}
	if cfg.Upstream.BaseURL != "http://env-upstream" {
		t.Errorf("expected env base url, got %s", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.APIKey != "env-key" {
		t.Errorf("expected env api key, got %s", cfg.Upstream.APIKey)
	}
	if cfg.Upstream.Timeout != "2m" {
		t.Errorf("expected env timeout 2m, got %s", cfg.Upstream.Timeout)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected env log level error, got %s", cfg.Logging.Level)
	}
}

func TestApplyEnvOverrides_InvalidPort(t *testing.T) {
	cfg := NewDefaultConfig()

	t.Setenv("CONTENTGEO_PORT", "not-a-number")

	applyEnvOverrides(cfg)

	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000 for invalid env, got %d", cfg.Server.Port)
	}
}

func TestValidate_ReportsInvalidPortEnv(t *testing.T) {
	t.Setenv("CONTENTGEO_PORT", "80a")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	issues := cfg.Validate()
	if len(issues) != 1 || !strings.Contains(issues[0], "CONTENTGEO_PORT") || !strings.Contains(issues[0], `"80a"`) {
		t.Fatalf("expected one CONTENTGEO_PORT issue, got %v", issues)
	}
}

func TestValidate_FlagPortSupersedesInvalidPortEnv(t *testing.T) {
	t.Setenv("CONTENTGEO_PORT", "80a")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	ApplyFlagOverrides(cfg, 9000, "")

	if issues := cfg.Validate(); len(issues) != 0 {
		t.Errorf("expected no issues after --port, got %v", issues)
	}
}

func TestEnvOverridesFileConfig(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "test.toml")
	if err := os.WriteFile(tomlPath, []byte("[upstream]\napi_key = \"file-key\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONTENTGEO_API_KEY", "env-key")

	cfg, err := LoadFromFiles(tomlPath)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.Upstream.APIKey != "env-key" {
		t.Errorf("expected env to override file api key, got %s", cfg.Upstream.APIKey)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, 7777, "flag-host")

	if cfg.Server.Port != 7777 {
		t.Errorf("expected flag port 7777, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "flag-host" {
		t.Errorf("expected flag host flag-host, got %s", cfg.Server.Host)
	}
	if cfg.Address() != "flag-host:7777" {
		t.Errorf("expected address flag-host:7777, got %s", cfg.Address())
	}
}

func TestApplyFlagOverrides_ZeroPortNoOverride(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, 0, "")

	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected default host localhost, got %s", cfg.Server.Host)
	}
}

func TestRequestTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout string
		want    time.Duration
		wantErr bool
	}{
		{"empty means none", "", 0, false},
		{"zero means none", "0", 0, false},
		{"seconds", "30s", 30 * time.Second, false},
		{"garbage", "soon", 0, true},
		{"negative", "-5s", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UpstreamConfig{Timeout: tt.timeout}.RequestTimeout()
			if (err != nil) != tt.wantErr {
				t.Fatalf("RequestTimeout(%q) err = %v, wantErr %v", tt.timeout, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("RequestTimeout(%q) = %v, want %v", tt.timeout, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"empty base url", func(c *Config) { c.Upstream.BaseURL = "" }, "upstream.base_url is required"},
		{"relative base url", func(c *Config) { c.Upstream.BaseURL = "api.contentgeo.info" }, "absolute http(s) URL"},
		{"ftp base url", func(c *Config) { c.Upstream.BaseURL = "ftp://api.contentgeo.info" }, "absolute http(s) URL"},
		{"bad timeout", func(c *Config) { c.Upstream.Timeout = "forever" }, "invalid upstream timeout"},
		{"empty mcp name", func(c *Config) { c.MCP.Name = " " }, "mcp.name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)

			issues := cfg.Validate()
			if len(issues) != 1 {
				t.Fatalf("expected exactly one issue, got %v", issues)
			}
			if !strings.Contains(issues[0], tt.want) {
				t.Errorf("expected issue containing %q, got %q", tt.want, issues[0])
			}
		})
	}
}
