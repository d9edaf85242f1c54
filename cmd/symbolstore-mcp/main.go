package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/signalzero/symbolstore-mcp/internal/common"
	"github.com/signalzero/symbolstore-mcp/internal/spec"
	"github.com/signalzero/symbolstore-mcp/internal/store"
)

// DefaultBaseURL points at the managed symbol store deployment; override via
// config file or SYMBOL_STORE_BASE_URL.
const DefaultBaseURL = "https://qnw96whs57.execute-api.us-west-2.amazonaws.com/prod"

// StoreConfig holds symbol store API settings.
type StoreConfig struct {
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
	Timeout  string `toml:"timeout"`
	SpecPath string `toml:"spec_path"`
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Port string `toml:"port"`
}

// Config holds all symbolstore-mcp configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	Store   StoreConfig          `toml:"store"`
	Logging common.LoggingConfig `toml:"logging"`
}

// newDefaultConfig returns a Config with sensible defaults.
func newDefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Name: "SignalZero-Symbol-Store",
			Port: "4280",
		},
		Store: StoreConfig{
			BaseURL:  DefaultBaseURL,
			Timeout:  "10s",
			SpecPath: "api/symbol_store_openapi.yaml",
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/symbolstore-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// loadConfig loads configuration from a TOML file with defaults and env overrides.
func loadConfig(path string) Config {
	cfg := newDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Fatalf("Failed to read config file %s: %v", path, err)
			}
			// File not found — use defaults
		} else {
			if err := toml.Unmarshal(data, &cfg); err != nil {
				log.Fatalf("Failed to parse config file %s: %v", path, err)
			}
		}
	}

	if url := os.Getenv("SYMBOL_STORE_BASE_URL"); url != "" {
		cfg.Store.BaseURL = url
	}
	if key := os.Getenv("SYMBOL_STORE_API_KEY"); key != "" {
		cfg.Store.APIKey = key
	}
	if sp := os.Getenv("SYMBOL_STORE_SPEC_PATH"); sp != "" {
		cfg.Store.SpecPath = sp
	}
	if port := os.Getenv("SYMBOL_MCP_PORT"); port != "" {
		cfg.Server.Port = port
	}

	return cfg
}

// storeTimeout parses the configured timeout, falling back to the client
// default on empty or malformed values.
func storeTimeout(cfg StoreConfig) time.Duration {
	if cfg.Timeout == "" {
		return store.DefaultTimeout
	}
	d, err := time.ParseDuration(cfg.Timeout)
	if err != nil || d <= 0 {
		return store.DefaultTimeout
	}
	return d
}

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for Claude Desktop)")
	configFile := flag.String("config", "symbolstore-mcp.toml", "Path to config file")
	specFile := flag.String("spec", "", "Path to the OpenAPI spec document (overrides config)")
	flag.Parse()

	cfg := loadConfig(*configFile)
	if *specFile != "" {
		cfg.Store.SpecPath = *specFile
	}

	common.LoadVersionFromFile()

	logger := common.NewLoggerFromConfig(cfg.Logging)

	// The spec document drives the whole tool catalog; failure to load it is
	// fatal at startup.
	doc, err := spec.Load(cfg.Store.SpecPath)
	if err != nil {
		log.Fatalf("Failed to load spec: %v", err)
	}

	timeout := storeTimeout(cfg.Store)
	d := newDispatcher(func() *store.Client {
		return store.NewClient(cfg.Store.BaseURL, cfg.Store.APIKey, timeout, logger)
	}, logger)

	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	registerTools(mcpServer, buildToolsFromSpec(doc), d)

	if *stdio {
		// Stdio transport — reads stdin, writes stdout
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	port := cfg.Server.Port

	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	logger.Info().Str("port", port).Msg("Starting MCP Streamable HTTP")
	fmt.Fprintf(os.Stderr, "Starting MCP Streamable HTTP on :%s\n", port)

	if err := httpServer.Start(":" + port); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}
