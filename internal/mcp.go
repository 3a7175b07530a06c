package internal

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer exposes one notes session as MCP tools
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
	// tool calls may arrive concurrently but the session handles one action at a time
	mu sync.Mutex
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App, version string) *MCPServer {
	mcpServer := server.NewMCPServer(
		"ytnotes-server",
		version,
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
	}
	s.registerTools()

	return s
}

// registerTools registers all available MCP tools
func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("load_video",
		mcp.WithDescription("Load a YouTube video by URL or ID and fetch its captions. Returns the video ID, thumbnail and transcript status. Loading the same URL again does not refetch once its transcript is loaded."),
		mcp.WithString("url",
			mcp.Description("YouTube URL (watch, youtu.be, embed, shorts) or 11 character video ID"),
			mcp.Required(),
		),
	), s.handleLoadVideo)

	s.mcpServer.AddTool(mcp.NewTool("get_transcript",
		mcp.WithDescription("Return the transcript of the loaded video, or load the given URL first."),
		mcp.WithString("url",
			mcp.Description("Optional YouTube URL or video ID to load first"),
		),
	), s.handleGetTranscript)

	s.mcpServer.AddTool(mcp.NewTool("list_styles",
		mcp.WithDescription("List the available note styles, built-in and custom."),
	), s.handleListStyles)

	s.mcpServer.AddTool(mcp.NewTool("add_style",
		mcp.WithDescription("Create or replace a custom note style for this session."),
		mcp.WithString("name", mcp.Description("Style name"), mcp.Required()),
		mcp.WithString("description", mcp.Description("Instruction describing the note format"), mcp.Required()),
	), s.handleAddStyle)

	s.mcpServer.AddTool(mcp.NewTool("generate_notes",
		mcp.WithDescription("Generate study notes in markdown for the loaded video (or the given URL) using an LLM provider. Requires the provider's API key in the server environment."),
		mcp.WithString("url", mcp.Description("Optional YouTube URL or video ID to load first")),
		mcp.WithString("style", mcp.Description("Note style name (see list_styles)")),
		mcp.WithString("provider", mcp.Description("LLM provider for this call only: gemini or groq")),
	), s.handleGenerateNotes)

	s.mcpServer.AddTool(mcp.NewTool("ask_question",
		mcp.WithDescription("Answer a question about the loaded video's transcript. Recent questions and answers are kept as context."),
		mcp.WithString("question", mcp.Description("The question"), mcp.Required()),
		mcp.WithString("provider", mcp.Description("LLM provider for this call only: gemini or groq")),
	), s.handleAskQuestion)

	s.mcpServer.AddTool(mcp.NewTool("clear_conversation",
		mcp.WithDescription("Forget previous questions and answers."),
	), s.handleClearConversation)

	s.mcpServer.AddTool(mcp.NewTool("export_notes",
		mcp.WithDescription("Save the last generated notes as notes_<videoId>.md and return the file path."),
		mcp.WithString("dir", mcp.Description("Target directory (default: configured export_dir)")),
	), s.handleExportNotes)
}

// toolError turns a failure into a tool result the client can show
func toolError(tool string, err error) *mcp.CallToolResult {
	if err == nil {
		err = fmt.Errorf("%s failed", tool)
	}
	MCPLogToolError(tool, err)
	return mcp.NewToolResultError(UserMessage(err))
}

// useProvider switches to the call's provider argument, if any, and returns
// a func restoring the session provider
func (s *MCPServer) useProvider(request mcp.CallToolRequest) (func(), error) {
	previous := s.app.Session().Provider
	restore := func() { s.app.SelectProvider(previous) }

	name := request.GetString("provider", "")
	if name == "" {
		return restore, nil
	}
	p, err := ParseProvider(name)
	if err != nil {
		return restore, err
	}
	s.app.SelectProvider(p)
	return restore, nil
}

func (s *MCPServer) loadIfGiven(ctx context.Context, request mcp.CallToolRequest) error {
	url := request.GetString("url", "")
	if url == "" {
		return nil
	}
	_, err := s.app.SubmitURL(ctx, url)
	return err
}

func (s *MCPServer) handleLoadVideo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}
	MCPLogInfo("load_video %q", url)

	_, err = s.app.SubmitURL(ctx, url)
	session := s.app.Session()
	if session.VideoID == "" {
		return toolError("load_video", err), nil
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "Video ID: %s\n", session.VideoID)
	fmt.Fprintf(&buf, "Thumbnail: %s\n", ThumbnailURL(session.VideoID))
	fmt.Fprintf(&buf, "URL: %s\n", WatchURL(session.VideoID))
	fmt.Fprintf(&buf, "Status: %s\n", session.Phase())
	if session.Transcript != nil {
		fmt.Fprintf(&buf, "Transcript length: %d characters\n", len(session.Transcript.Text))
	}
	if session.FetchErr != nil {
		fmt.Fprintf(&buf, "Error: %s\n", UserMessage(session.FetchErr))
	}

	return mcp.NewToolResultText(buf.String()), nil
}

func (s *MCPServer) handleGetTranscript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadIfGiven(ctx, request); err != nil {
		return toolError("get_transcript", err), nil
	}
	transcript, err := s.app.requireTranscript()
	if err != nil {
		return toolError("get_transcript", err), nil
	}
	return mcp.NewToolResultText(transcript.Text), nil
}

func (s *MCPServer) handleListStyles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return mcp.NewToolResultText(strings.Join(s.app.Session().Styles.Names(), "\n")), nil
}

func (s *MCPServer) handleAddStyle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := request.GetString("name", "")
	description := request.GetString("description", "")
	if err := s.app.RegisterStyle(name, description); err != nil {
		return toolError("add_style", err), nil
	}
	MCPLogInfo("add_style %q", name)
	return mcp.NewToolResultText(fmt.Sprintf("Custom style '%s' saved", strings.TrimSpace(name))), nil
}

func (s *MCPServer) handleGenerateNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	restore, err := s.useProvider(request)
	defer restore()
	if err != nil {
		return toolError("generate_notes", err), nil
	}
	if err := s.loadIfGiven(ctx, request); err != nil {
		return toolError("generate_notes", err), nil
	}

	style := request.GetString("style", "")
	MCPLogInfo("generate_notes style=%q provider=%s", style, s.app.Session().Provider)
	notes, err := s.app.GenerateNotes(ctx, style)
	if err != nil {
		return toolError("generate_notes", err), nil
	}
	return mcp.NewToolResultText(notes.Content), nil
}

func (s *MCPServer) handleAskQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question parameter is required and must be a string"), nil
	}
	restore, err := s.useProvider(request)
	defer restore()
	if err != nil {
		return toolError("ask_question", err), nil
	}

	MCPLogInfo("ask_question (history: %d turns)", s.app.Session().Conversation.Len())
	answer, err := s.app.Ask(ctx, question)
	if err != nil {
		return toolError("ask_question", err), nil
	}
	return mcp.NewToolResultText(answer), nil
}

func (s *MCPServer) handleClearConversation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.app.ClearConversation()
	return mcp.NewToolResultText("Conversation cleared"), nil
}

func (s *MCPServer) handleExportNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.app.SaveNotes(request.GetString("dir", ""))
	if err != nil {
		return toolError("export_notes", err), nil
	}
	MCPLogInfo("export_notes wrote %s", path)
	return mcp.NewToolResultText(path), nil
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		MCPLogInfo("serving HTTP on %s", addr)
		return httpServer.Start(addr)
	}

	MCPLogInfo("serving stdio")
	return server.ServeStdio(s.mcpServer)
}
