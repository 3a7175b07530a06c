package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MCPEvent is one line of the MCP log
type MCPEvent struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Tool    string    `json:"tool,omitempty"`
	Message string    `json:"message,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// mcpLogger appends JSON lines to mcp.jsonl. stdout carries the protocol in
// stdio mode, so the log is the only place server activity shows up.
type mcpLogger struct {
	path string
	mu   sync.Mutex
}

var (
	mcpLog     *mcpLogger
	mcpLogOnce sync.Once
)

func newMCPLogger(dir string) (*mcpLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	return &mcpLogger{path: filepath.Join(dir, "mcp.jsonl")}, nil
}

func (l *mcpLogger) append(event MCPEvent) error {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal log event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write log event: %w", err)
	}
	return nil
}

// InitMCPLogging enables the MCP log in the cache dir when mcp_log is set.
// Logging stays off if the directory cannot be created.
func InitMCPLogging(config *Config) {
	mcpLogOnce.Do(func() {
		if !config.MCPLogEnabled {
			return
		}
		if logger, err := newMCPLogger(config.CacheDir); err == nil {
			mcpLog = logger
		}
	})
}

func logMCPEvent(event MCPEvent) {
	if mcpLog == nil {
		return
	}
	// a failed log write must not fail the tool call
	_ = mcpLog.append(event)
}

// MCPLogInfo logs an info message
func MCPLogInfo(format string, args ...any) {
	logMCPEvent(MCPEvent{Level: "info", Message: fmt.Sprintf(format, args...)})
}

// MCPLogToolError logs a failed tool call
func MCPLogToolError(tool string, err error) {
	if err == nil {
		return
	}
	logMCPEvent(MCPEvent{Level: "error", Tool: tool, Message: UserMessage(err), Error: err.Error()})
}
