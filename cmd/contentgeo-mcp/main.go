package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/contentgeo-mcp/internal/app"
	"github.com/bobmcallan/contentgeo-mcp/internal/common"
	"github.com/bobmcallan/contentgeo-mcp/internal/config"
	"github.com/bobmcallan/contentgeo-mcp/internal/server"
)

const configName = "contentgeo-mcp.toml"

var cli struct {
	Config  []string         `short:"c" type:"path" help:"Configuration file path (repeatable, later files override earlier ones)"`
	Port    int              `short:"p" help:"Server port (overrides config)"`
	Host    string           `help:"Server host (overrides config)"`
	Stdio   bool             `help:"Serve MCP over stdin/stdout instead of HTTP"`
	Version kong.VersionFlag `help:"Print version information and exit"`
}

func main() {
	config.LoadVersionFromFile()

	kong.Parse(&cli,
		kong.Name("contentgeo-mcp"),
		kong.Description("ContentGeo geospatial lookups exposed as MCP and HTTP tools."),
		kong.Vars{"version": "contentgeo-mcp " + config.GetFullVersion()},
	)

	configFiles := cli.Config
	if len(configFiles) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				configFiles = append(configFiles, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// CLI flags have the highest priority
	config.ApplyFlagOverrides(cfg, cli.Port, cli.Host)

	if issues := cfg.Validate(); len(issues) > 0 {
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Configuration error:")
		fmt.Fprintln(os.Stderr, "")
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "  - %s\n", issue)
		}
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Values can be set via TOML file, CONTENTGEO_* environment variables, or CLI flags.")
		fmt.Fprintln(os.Stderr, "")
		os.Exit(1)
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)

	logger.Info().
		Str("version", config.GetVersion()).
		Str("upstream", cfg.Upstream.BaseURL).
		Bool("api_key_configured", cfg.Upstream.HasAPIKey()).
		Str("config_files", fmt.Sprintf("%v", configFiles)).
		Msg("configuration loaded")

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to initialize application")
		os.Exit(1)
	}

	if cli.Stdio {
		logger.Info().Msg("serving MCP over stdio")
		err = mcpserver.ServeStdio(application.MCPServer)
	} else {
		err = serveHTTP(application, logger)
	}

	// Close before exiting: os.Exit skips deferred calls.
	application.Close()

	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("server failed")
		os.Exit(1)
	}
}

// serveHTTP runs the HTTP server until it fails or a shutdown signal arrives.
func serveHTTP(application *app.App, logger *common.Logger) error {
	srv := server.New(application)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		if err == nil {
			return errors.New("server stopped unexpectedly")
		}
		return err
	case <-sigChan:
		logger.Info().Msg("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried first, then the working directory.
func configSearchPaths() []string {
	candidates := []string{
		configName,
		filepath.Join("config", configName),
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, configName),
		filepath.Join(binDir, "config", configName),
	}
	paths = append(paths, candidates...)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}
