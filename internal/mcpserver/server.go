package mcpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/mcpkit-labs/mcpkit/internal/branding"
	"github.com/mcpkit-labs/mcpkit/internal/config"
	"github.com/mcpkit-labs/mcpkit/internal/logging"
	"github.com/mcpkit-labs/mcpkit/internal/metrics"
	"github.com/mcpkit-labs/mcpkit/internal/schema"
	"github.com/mcpkit-labs/mcpkit/internal/session"
)

// Server kinds accepted by New.
const (
	KindAnalysis    = "analysis"
	KindBoilerplate = "boilerplate"
)

// Options configures New.
type Options struct {
	Version string
	Sandbox config.SandboxSettings
	// WorkDir is where create_boilerplate writes projects.
	WorkDir string
}

// toolSet is implemented by Analysis and Boilerplate.
type toolSet interface {
	register(s *server.MCPServer)
	dropSession(id string)
}

// Server is an MCP server together with the tool set that owns its
// per-session state.
type Server struct {
	*server.MCPServer
	name string
	set  toolSet
}

// New creates the MCP server of the given kind with all its tools, prompts
// and resources registered.
func New(kind string, opts Options) (*Server, error) {
	var (
		name         string
		instructions string
		set          toolSet
	)
	switch kind {
	case KindAnalysis:
		name = branding.AnalysisServer()
		instructions = analysisInstructions
		set = NewAnalysis(name, opts.Sandbox)
	case KindBoilerplate:
		name = branding.BoilerplateServer()
		instructions = boilerplateInstructions
		set = NewBoilerplate(name, opts.WorkDir)
	default:
		return nil, fmt.Errorf("unknown server %q (want %s or %s)", kind, KindAnalysis, KindBoilerplate)
	}

	version := opts.Version
	if version == "" {
		version = "dev"
	}

	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithPromptCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
		server.WithHooks(streamHooks(name)),
	)
	set.register(s)
	return &Server{MCPServer: s, name: name, set: set}, nil
}

// streamHooks tracks registered client streams. mcp-go registers a session
// for the stdio connection and for every streamable HTTP GET stream; neither
// ends the MCP session's tool state, which is released by sessionManager.
func streamHooks(name string) *server.Hooks {
	hooks := &server.Hooks{}
	hooks.AddOnRegisterSession(func(ctx context.Context, cs server.ClientSession) {
		metrics.StreamOpened(name)
		logging.WithContext(ctx).Debug("stream registered",
			zap.String("server", name), zap.String("session", cs.SessionID()))
	})
	hooks.AddOnUnregisterSession(func(ctx context.Context, cs server.ClientSession) {
		metrics.StreamClosed(name)
		logging.WithContext(ctx).Debug("stream unregistered",
			zap.String("server", name), zap.String("session", cs.SessionID()))
	})
	return hooks
}

// sessionID returns the MCP session of the request, or session.LocalID.
func sessionID(ctx context.Context) string {
	if cs := server.ClientSessionFromContext(ctx); cs != nil && cs.SessionID() != "" {
		return cs.SessionID()
	}
	return session.LocalID
}

// tool couples a definition with its validated, instrumented handler.
func tool(serverName, name, description, schemaName string, h server.ToolHandlerFunc) server.ServerTool {
	return server.ServerTool{
		Tool:    mcp.NewToolWithRawSchema(name, description, schema.Raw(schemaName)),
		Handler: instrument(serverName, name, validated(schemaName, h)),
	}
}

// validated rejects calls whose arguments do not match the tool schema.
func validated(schemaName string, next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := schema.Validate(schemaName, req.GetArguments())
		if err != nil {
			return nil, fmt.Errorf("validating arguments: %w", err)
		}
		if !result.Valid {
			return mcp.NewToolResultError(result.Summary()), nil
		}
		return next(ctx, req)
	}
}

// instrument logs and counts every call.
func instrument(serverName, name string, next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		res, err := next(ctx, req)
		elapsed := time.Since(start)

		failed := err != nil || (res != nil && res.IsError)
		metrics.RecordToolCall(serverName, name, failed, elapsed)

		logger := logging.WithContext(ctx).With(
			zap.String("server", serverName),
			zap.String("tool", name),
			zap.String("session", sessionID(ctx)),
			zap.Duration("duration", elapsed),
		)
		switch {
		case err != nil:
			logger.Error("tool call failed", zap.Error(err))
		case failed:
			logger.Info("tool call returned error", zap.String("message", resultText(res)))
		default:
			logger.Debug("tool call completed")
		}
		return res, err
	}
}

// resultText returns the text of the first content item.
func resultText(res *mcp.CallToolResult) string {
	if res == nil || len(res.Content) == 0 {
		return ""
	}
	if tc, ok := res.Content[0].(mcp.TextContent); ok {
		return tc.Text
	}
	return ""
}
