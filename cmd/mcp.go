package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/rtzll/ytnotes/internal"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server for ytnotes",
	Long: `Run a Model Context Protocol (MCP) server that exposes one ytnotes session as tools.

The MCP server provides these tools:
- load_video: Resolve a YouTube URL or ID and fetch its captions
- get_transcript: Return the loaded transcript
- list_styles / add_style: Inspect and extend the note styles
- generate_notes: Generate markdown study notes with Gemini or Groq
- ask_question: Answer questions about the video with recent history as context
- clear_conversation: Forget previous questions and answers
- export_notes: Save the last notes as notes_<videoId>.md

Provider API keys are read from GOOGLE_API_KEY and GROQ_API_KEY.

Transport options:
- stdio (default): Standard MCP transport via stdin/stdout
- http: HTTP transport on specified port (use --port to configure)`,
	Example: `  # Run MCP server with stdio transport (e.g. for Claude Desktop)
  ytnotes mcp

  # Run MCP server with HTTP transport on port 8080
  ytnotes mcp --transport=http --port=8080

  # Set up Claude Desktop integration
  ytnotes mcp setup-claude`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// MCP uses stdio protocol, so disable verbose logging
		config.Verbose = false
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		internal.InitMCPLogging(config)

		// stdout belongs to the protocol; status output goes nowhere
		app, err := internal.NewApp(config, internal.WithUI(internal.NewWriterUIManager(io.Discard, false, true)))
		if err != nil {
			return err
		}

		mcpServer := internal.NewMCPServer(app, version)

		if transport == "http" {
			fmt.Fprintf(os.Stderr, "Starting ytnotes MCP server on HTTP port %d...\n", port)
		}

		// Start the server (this will block until context is cancelled)
		return mcpServer.Start(cmd.Context(), transport, port)
	},
}

// setupClaudeCmd represents the setup-claude subcommand
var setupClaudeCmd = &cobra.Command{
	Use:   "setup-claude",
	Short: "Configure Claude Desktop to use the ytnotes MCP server",
	Long: `Automatically configure Claude Desktop to use ytnotes as an MCP server.

This command will:
- Detect Claude Desktop installation and config location
- Add the ytnotes MCP server configuration to claude_desktop_config.json
- Preserve existing MCP server configurations
- Set appropriate XDG environment variables for the current platform`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setupClaudeDesktop()
	},
}

// mcpServerEntry is one entry of Claude Desktop's "mcpServers" object
type mcpServerEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env,omitempty"`
}

// setupClaudeDesktop implements the setup-claude subcommand
func setupClaudeDesktop() error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("getting executable path: %w", err)
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return fmt.Errorf("resolving executable path: %w", err)
	}

	configPath, err := getClaudeDesktopConfigPath()
	if err != nil {
		return fmt.Errorf("getting Claude Desktop config path: %w", err)
	}
	if !internal.FileExists(configPath) {
		return fmt.Errorf("config for Claude Desktop not found at %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading existing config: %w", err)
	}

	// The server must see the same XDG dirs as the CLI to find config.toml
	entry := mcpServerEntry{
		Command: execPath,
		Args:    []string{"mcp"},
		Env: map[string]string{
			"XDG_DATA_HOME":   xdg.DataHome,
			"XDG_CONFIG_HOME": xdg.ConfigHome,
			"XDG_CACHE_HOME":  xdg.CacheHome,
		},
	}
	data, err = addMCPServer(data, "ytnotes", entry)
	if err != nil {
		return err
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Printf("Successfully configured Claude Desktop MCP server\n")
	fmt.Printf("Restart Claude Desktop to use the ytnotes MCP server\n")
	for _, p := range internal.Providers {
		if os.Getenv(p.EnvKey()) != "" {
			fmt.Printf("Note: %s is not copied; add it to the \"env\" block in %s or to %s\n",
				p.EnvKey(), configPath, filepath.Join(config.ConfigDir, "config.toml"))
		}
	}

	return nil
}

// addMCPServer sets mcpServers[name] in a Claude Desktop config document.
// Other top-level settings and other servers are kept as they are.
func addMCPServer(data []byte, name string, entry mcpServerEntry) ([]byte, error) {
	doc := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing existing config: %w", err)
		}
	}

	servers := map[string]json.RawMessage{}
	if raw, ok := doc["mcpServers"]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &servers); err != nil {
			return nil, fmt.Errorf("parsing mcpServers: %w", err)
		}
	}

	rawEntry, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("marshaling server entry: %w", err)
	}
	servers[name] = rawEntry

	if doc["mcpServers"], err = json.Marshal(servers); err != nil {
		return nil, fmt.Errorf("marshaling mcpServers: %w", err)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return out, nil
}

// getClaudeDesktopConfigPath returns the platform-specific config path for Claude Desktop
func getClaudeDesktopConfigPath() (string, error) {
	var configPath string

	switch runtime.GOOS {
	case "darwin":
		// macOS: ~/Library/Application Support/Claude/claude_desktop_config.json
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configPath = filepath.Join(homeDir, "Library", "Application Support", "Claude", "claude_desktop_config.json")

	case "windows":
		// Windows: %APPDATA%/Claude/claude_desktop_config.json
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		configPath = filepath.Join(appData, "Claude", "claude_desktop_config.json")

	case "linux":
		// Linux: ~/.config/Claude/claude_desktop_config.json
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configPath = filepath.Join(homeDir, ".config", "Claude", "claude_desktop_config.json")

	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return configPath, nil
}

func init() {
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol (stdio or http)")
	mcpCmd.Flags().Int("port", 8080, "Port for HTTP transport (only used with --transport=http)")
	mcpCmd.AddCommand(setupClaudeCmd)
	rootCmd.AddCommand(mcpCmd)
}
