package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Upstream UpstreamConfig `toml:"upstream"`
	MCP      MCPConfig      `toml:"mcp"`
	Logging  LoggingConfig  `toml:"logging"`

	// portEnvIssue records an unparseable CONTENTGEO_PORT for Validate.
	portEnvIssue string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// UpstreamConfig describes the ContentGeo API every tool forwards to.
type UpstreamConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	// Timeout is a Go duration string. Empty or "0" means no timeout.
	Timeout string `toml:"timeout"`
}

// MCPConfig contains MCP server identity and transport settings.
type MCPConfig struct {
	Name      string `toml:"name"`
	Stateless bool   `toml:"stateless"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// HasAPIKey reports whether an upstream API key is configured.
func (u UpstreamConfig) HasAPIKey() bool {
	return strings.TrimSpace(u.APIKey) != ""
}

// RequestTimeout parses Timeout. A zero duration disables the timeout.
func (u UpstreamConfig) RequestTimeout() (time.Duration, error) {
	if strings.TrimSpace(u.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(u.Timeout))
	if err != nil {
		return 0, fmt.Errorf("invalid upstream timeout %q: %w", u.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid upstream timeout %q: must not be negative", u.Timeout)
	}
	return d, nil
}

// Address returns the host:port the HTTP transport binds to.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies CONTENTGEO_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("CONTENTGEO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		} else {
			config.portEnvIssue = fmt.Sprintf("CONTENTGEO_PORT must be an integer (got %q)", port)
		}
	}
	if host := os.Getenv("CONTENTGEO_HOST"); host != "" {
		config.Server.Host = host
	}
	if baseURL := os.Getenv("CONTENTGEO_BASE_URL"); baseURL != "" {
		config.Upstream.BaseURL = baseURL
	}
	if key := os.Getenv("CONTENTGEO_API_KEY"); key != "" {
		config.Upstream.APIKey = key
	}
	if timeout := os.Getenv("CONTENTGEO_UPSTREAM_TIMEOUT"); timeout != "" {
		config.Upstream.Timeout = timeout
	}
	if level := os.Getenv("CONTENTGEO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
		config.portEnvIssue = ""
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate returns a list of problems with mandatory or malformed settings.
// An empty result means the configuration is usable.
func (c *Config) Validate() []string {
	var issues []string

	if c.portEnvIssue != "" {
		issues = append(issues, c.portEnvIssue)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}

	base := strings.TrimSpace(c.Upstream.BaseURL)
	if base == "" {
		issues = append(issues, "upstream.base_url is required (CONTENTGEO_BASE_URL)")
	} else if u, err := url.Parse(base); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		issues = append(issues, fmt.Sprintf("upstream.base_url must be an absolute http(s) URL (got %q)", c.Upstream.BaseURL))
	}

	if _, err := c.Upstream.RequestTimeout(); err != nil {
		issues = append(issues, err.Error())
	}

	if strings.TrimSpace(c.MCP.Name) == "" {
		issues = append(issues, "mcp.name must not be empty")
	}

	return issues
}
