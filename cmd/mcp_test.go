package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMCPServerKeepsExistingSettings(t *testing.T) {
	existing := []byte(`{
  "globalShortcut": "Ctrl+Space",
  "mcpServers": {
    "other": {"command": "/usr/bin/other", "args": ["serve"]}
  }
}`)

	out, err := addMCPServer(existing, "ytnotes", mcpServerEntry{Command: "/usr/local/bin/ytnotes", Args: []string{"mcp"}})
	require.NoError(t, err)

	var doc struct {
		GlobalShortcut string                    `json:"globalShortcut"`
		MCPServers     map[string]mcpServerEntry `json:"mcpServers"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))

	assert.Equal(t, "Ctrl+Space", doc.GlobalShortcut)
	assert.Equal(t, "/usr/bin/other", doc.MCPServers["other"].Command)
	assert.Equal(t, []string{"mcp"}, doc.MCPServers["ytnotes"].Args)
}

func TestAddMCPServerEmptyConfig(t *testing.T) {
	out, err := addMCPServer([]byte("{}"), "ytnotes", mcpServerEntry{Command: "ytnotes", Args: []string{"mcp"}})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"ytnotes"`)

	_, err = addMCPServer([]byte("{not json"), "ytnotes", mcpServerEntry{})
	assert.Error(t, err)
}
