package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mcpkit-labs/mcpkit/internal/config"
	"github.com/mcpkit-labs/mcpkit/internal/sandbox"
	"github.com/mcpkit-labs/mcpkit/internal/schema"
	"github.com/mcpkit-labs/mcpkit/internal/session"
)

const notInitialized = "Repository not initialized."

// Analysis serves the repository browsing tools. Each session owns at most
// one sandbox.
type Analysis struct {
	name   string
	limits config.SandboxSettings
	repos  *session.Store[sandbox.Sandbox]
}

// NewAnalysis returns the tool set with limits applied to every session.
// Zero limits fall back to the sandbox defaults.
func NewAnalysis(name string, limits config.SandboxSettings) *Analysis {
	if limits.DefaultDepth < sandbox.MinDepth || limits.DefaultDepth > sandbox.MaxDepth {
		limits.DefaultDepth = sandbox.DefaultDepth
	}
	if limits.MaxChildren <= 0 {
		limits.MaxChildren = sandbox.DefaultMaxChildren
	}
	return &Analysis{
		name:   name,
		limits: limits,
		repos:  session.NewStore[sandbox.Sandbox](),
	}
}

func (a *Analysis) tools() []server.ServerTool {
	return []server.ServerTool{
		tool(a.name, "init_repo", "Initialize a code repository for analysis.", schema.InitRepo, a.handleInitRepo),
		tool(a.name, "get_repo_info", "Get information about the initialized code repository.", schema.Empty, a.handleRepoInfo),
		tool(a.name, "get_repo_structure", "Get the structure of the code repository.", schema.GetRepoStructure, a.handleRepoStructure),
		tool(a.name, "read_file", "Read a file from the code repository.", schema.ReadFile, a.handleReadFile),
	}
}

func (a *Analysis) register(s *server.MCPServer) {
	s.AddTools(a.tools()...)
	s.AddPrompt(analyzePrompt, handleAnalyzePrompt)
	s.AddResource(repoSchemaResource, a.handleRepoSchema)
}

func (a *Analysis) dropSession(id string) { a.repos.Drop(id) }

// withSandbox runs fn with the session's sandbox under the session lock.
func (a *Analysis) withSandbox(ctx context.Context, fn func(sb *sandbox.Sandbox) *mcp.CallToolResult) *mcp.CallToolResult {
	var res *mcp.CallToolResult
	a.repos.Do(sessionID(ctx), func(cur *sandbox.Sandbox) *sandbox.Sandbox {
		if cur == nil {
			res = mcp.NewToolResultError(notInitialized)
			return nil
		}
		res = fn(cur)
		return cur
	})
	return res
}

func (a *Analysis) handleInitRepo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")

	var res *mcp.CallToolResult
	a.repos.Do(sessionID(ctx), func(cur *sandbox.Sandbox) *sandbox.Sandbox {
		sb, err := sandbox.Initialize(path)
		if err != nil {
			res = mcp.NewToolResultError("Initialization error: " + initMessage(err))
			return cur
		}
		res = mcp.NewToolResultText(sb.Message())
		return sb
	})
	return res, nil
}

func (a *Analysis) handleRepoInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return a.withSandbox(ctx, func(sb *sandbox.Sandbox) *mcp.CallToolResult {
		return mcp.NewToolResultText(sb.Info().Render())
	}), nil
}

func (a *Analysis) handleRepoStructure(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subPath := req.GetString("subPath", "")
	depth := req.GetInt("depth", a.limits.DefaultDepth)
	maxChildren := req.GetInt("maxChildren", a.limits.MaxChildren)

	return a.withSandbox(ctx, func(sb *sandbox.Sandbox) *mcp.CallToolResult {
		out, err := sb.RenderTree(subPath, depth, maxChildren)
		if err != nil {
			return mcp.NewToolResultError(errorMessage(err))
		}
		return mcp.NewToolResultText(out)
	}), nil
}

func (a *Analysis) handleReadFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath := req.GetString("filePath", "")

	return a.withSandbox(ctx, func(sb *sandbox.Sandbox) *mcp.CallToolResult {
		slice, err := sb.ReadFile(filePath, a.limits.MaxFileBytes, a.limits.MaxLines)
		if sandbox.KindOf(err) == sandbox.KindNotFound {
			return mcp.NewToolResultError("File not found.")
		}
		if err != nil {
			return mcp.NewToolResultError(errorMessage(err))
		}
		return mcp.NewToolResultText(slice.Render())
	}), nil
}

// initMessage maps Initialize failures to client text.
func initMessage(err error) string {
	switch sandbox.KindOf(err) {
	case sandbox.KindNotFound:
		return "Path does not exist."
	case sandbox.KindNotADirectory:
		return "Path is not a directory."
	default:
		return err.Error()
	}
}

// errorMessage maps structure and read failures to client text.
func errorMessage(err error) string {
	se := &sandbox.Error{Kind: sandbox.KindUnexpected, Err: err}
	errors.As(err, &se)

	switch se.Kind {
	case sandbox.KindNotInitialized:
		return notInitialized
	case sandbox.KindPathTraversal:
		return "Invalid path traversal detected."
	case sandbox.KindNotFound:
		return fmt.Sprintf("Path not found: %s", se.Path)
	case sandbox.KindNotADirectory:
		return fmt.Sprintf("Not a directory: %s", se.Path)
	case sandbox.KindTooLarge:
		return fmt.Sprintf("File too large (%d bytes)", se.Size)
	case sandbox.KindInvalidArgument:
		return fmt.Sprintf("Invalid argument: %v", se.Err)
	default:
		return fmt.Sprintf("Unexpected error: %v", err)
	}
}
