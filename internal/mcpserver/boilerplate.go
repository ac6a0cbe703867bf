package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mcpkit-labs/mcpkit/internal/boilerplate"
	"github.com/mcpkit-labs/mcpkit/internal/schema"
	"github.com/mcpkit-labs/mcpkit/internal/session"
)

const boilerplateNotInitialized = "Boilerplate not initialized."

// project is the per-session state of the boilerplate server.
type project struct {
	baseDir string
}

// Boilerplate serves the scaffolding tools.
type Boilerplate struct {
	name     string
	workDir  string
	projects *session.Store[project]
}

// NewBoilerplate returns the tool set writing projects below workDir. An
// empty workDir means the process working directory at call time.
func NewBoilerplate(name, workDir string) *Boilerplate {
	return &Boilerplate{
		name:     name,
		workDir:  workDir,
		projects: session.NewStore[project](),
	}
}

func (b *Boilerplate) tools() []server.ServerTool {
	return []server.ServerTool{
		tool(b.name, "create_boilerplate", "Generate production-ready boilerplate codebase for selected framework", schema.Framework, b.handleCreate),
		tool(b.name, "list_supported_frameworks", "Lists all available frameworks for boilerplate generation", schema.Empty, b.handleList),
		tool(b.name, "get_framework_details", "Shows full boilerplate config for selected framework", schema.Framework, b.handleDetails),
		tool(b.name, "add_feature", "Add a new API feature/module to the boilerplate", schema.AddFeature, b.handleAddFeature),
		tool(b.name, "add_new_queue", "Add a structured background queue for the selected framework", schema.AddNewQueue, b.handleAddQueue),
	}
}

func (b *Boilerplate) register(s *server.MCPServer) {
	s.AddTools(b.tools()...)
	names, _ := boilerplate.Names()
	s.AddPrompt(frameworkPrompt(names), handleScaffoldPrompt)
}

func (b *Boilerplate) dropSession(id string) { b.projects.Drop(id) }

func (b *Boilerplate) workingDir() (string, error) {
	if b.workDir != "" {
		return b.workDir, nil
	}
	return os.Getwd()
}

func (b *Boilerplate) handleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fw, err := boilerplate.Lookup(req.GetString("framework", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dir, err := b.workingDir()
	if err != nil {
		return mcp.NewToolResultError("Error generating boilerplate: " + err.Error()), nil
	}

	var res *mcp.CallToolResult
	b.projects.Do(sessionID(ctx), func(cur *project) *project {
		result, err := boilerplate.Create(fw, dir)
		if err != nil {
			res = mcp.NewToolResultError("Error generating boilerplate: " + err.Error())
			return cur
		}
		msg := fmt.Sprintf("%s boilerplate generated at %s with %d folders/files.", fw.Name, result.BaseDir, result.Total())
		if len(result.Skipped) > 0 {
			msg += fmt.Sprintf(" Skipped %d existing files.", len(result.Skipped))
		}
		res = mcp.NewToolResultText(msg)
		return &project{baseDir: result.BaseDir}
	})
	return res, nil
}

func (b *Boilerplate) handleList(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := boilerplate.Names()
	if err != nil {
		return nil, err
	}
	lines := make([]string, len(names))
	for i, n := range names {
		lines[i] = "- " + n
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (b *Boilerplate) handleDetails(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fw, err := boilerplate.Lookup(req.GetString("framework", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := json.MarshalIndent(fw, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding framework: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (b *Boilerplate) handleAddFeature(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return b.extend(ctx, req.GetString("framework", ""), req.GetString("moduleName", ""), "feature", boilerplate.AddFeature), nil
}

func (b *Boilerplate) handleAddQueue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return b.extend(ctx, req.GetString("framework", ""), req.GetString("queueName", ""), "queue", boilerplate.AddQueue), nil
}

type extendFunc func(fw *boilerplate.Framework, baseDir, name string) (*boilerplate.Result, error)

func (b *Boilerplate) extend(ctx context.Context, framework, name, what string, add extendFunc) *mcp.CallToolResult {
	fw, err := boilerplate.Lookup(framework)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}

	var res *mcp.CallToolResult
	b.projects.Do(sessionID(ctx), func(cur *project) *project {
		if cur == nil {
			res = mcp.NewToolResultError(boilerplateNotInitialized)
			return nil
		}
		result, err := add(fw, cur.baseDir, name)
		if err != nil {
			res = mcp.NewToolResultError(fmt.Sprintf("Error adding %s: %v", what, err))
			return cur
		}
		res = mcp.NewToolResultText(report(result))
		return cur
	})
	return res
}

// report lists created and skipped files, one per line.
func report(r *boilerplate.Result) string {
	lines := make([]string, 0, len(r.Created)+len(r.Skipped))
	for _, p := range r.Created {
		lines = append(lines, "Created: "+p)
	}
	for _, p := range r.Skipped {
		lines = append(lines, "Skipped (already exists): "+p)
	}
	return strings.Join(lines, "\n")
}

func handleScaffoldPrompt(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	framework := req.Params.Arguments["framework"]
	if _, err := boilerplate.Lookup(framework); err != nil {
		return nil, err
	}
	return mcp.NewGetPromptResult(
		"Boilerplate generation starter for "+framework,
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(fmt.Sprintf(scaffoldText, framework))),
		},
	), nil
}
