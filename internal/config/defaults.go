package config

// DefaultBaseURL is the public ContentGeo API endpoint.
const DefaultBaseURL = "https://api.contentgeo.info"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8000,
			Host: "localhost",
		},
		Upstream: UpstreamConfig{
			BaseURL: DefaultBaseURL,
		},
		MCP: MCPConfig{
			Name:      "contentgeo-mcp",
			Stateless: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "logs/contentgeo-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}
