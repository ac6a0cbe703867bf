package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mcpkit-labs/mcpkit/internal/sandbox"
)

const analysisInstructions = "Browse a local repository safely. Call init_repo first; " +
	"get_repo_structure and read_file only reach paths inside the initialized root."

const boilerplateInstructions = "Scaffold starter projects. Call create_boilerplate first; " +
	"add_feature and add_new_queue write into the project it created."

var analyzePrompt = mcp.NewPrompt("analyze_code_repository",
	mcp.WithPromptDescription("Analyze a code repository and answer questions about it."),
	mcp.WithArgument("codebase_path",
		mcp.ArgumentDescription("Absolute path to the code repository"),
		mcp.RequiredArgument(),
	),
)

const analyzeText = `You are an AI code analysis assistant operating within the MCP server "code-analysis".
The target codebase is at: **%s**
Your task is to analyze it and answer user questions using these tools only:

1. ` + "`init_repo(path)`" + ` - Initialize repo.
2. ` + "`get_repo_info()`" + ` - Verify initialization.
3. ` + "`get_repo_structure(subPath?, depth?, maxChildren?)`" + ` - Explore directory tree.
4. ` + "`read_file(filePath)`" + ` - Read source files.

## Instructions:
- Begin by initializing the repo and verifying it.
- Read files like README, config, or entrypoints for overview.
- Explore directories relevant to the user's query.
- Use ` + "`<investigation_log>`" + ` to track reasoning steps and tool calls.
- Be precise and evidence-based. Avoid guessing.
- Use brief summaries (under 1000 characters) unless asked for detail.
- When ready, ask the user for their specific question.

Do not assume access to any tool not listed above.`

func handleAnalyzePrompt(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	path := req.Params.Arguments["codebase_path"]
	if path == "" {
		return nil, fmt.Errorf("codebase_path is required")
	}
	return mcp.NewGetPromptResult(
		"Codebase analysis starter for "+path,
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(fmt.Sprintf(analyzeText, path))),
		},
	), nil
}

const repoSchemaURI = "schema://main"

var repoSchemaResource = mcp.NewResource(repoSchemaURI, "repo-schema",
	mcp.WithResourceDescription("Directory tree of the initialized repository, five levels deep"),
	mcp.WithMIMEType("text/plain"),
)

func (a *Analysis) handleRepoSchema(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	text := "Repository not initialized."
	a.repos.Do(sessionID(ctx), func(cur *sandbox.Sandbox) *sandbox.Sandbox {
		if cur == nil {
			return nil
		}
		out, err := cur.RenderTree("", sandbox.MaxDepth, a.limits.MaxChildren)
		if err != nil {
			text = errorMessage(err)
		} else {
			text = out
		}
		return cur
	})
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: repoSchemaURI, MIMEType: "text/plain", Text: text},
	}, nil
}

func frameworkPrompt(names []string) mcp.Prompt {
	return mcp.NewPrompt("scaffold_boilerplate",
		mcp.WithPromptDescription("Guide the AI to generate and extend boilerplate projects like NestJS or Spring Boot"),
		mcp.WithArgument("framework",
			mcp.ArgumentDescription(fmt.Sprintf("The framework you want to generate boilerplate for (%v)", names)),
			mcp.RequiredArgument(),
		),
	)
}

const scaffoldText = "You are an expert software architect helping developers scaffold production-ready codebases.\n" +
	"The user wants to work with the **%s** framework. Here's what you should do:\n" +
	"---\n" +
	"Step 1: Use `create_boilerplate` with the selected framework to initialize the base folder structure and core files.\n" +
	"Step 2: Add necessary code into the generated folders and files.\n" +
	"Step 3: Ask the user if they want to:\n" +
	"    - Add new API features (use `add_feature`)\n" +
	"    - Add background queue handlers (use `add_new_queue`)\n" +
	"Step 4: For each addition:\n" +
	"    - Confirm the name of the module or queue.\n" +
	"    - Call the respective tool and confirm success.\n" +
	"Tips:\n" +
	"    - Default path is the server's working directory.\n" +
	"    - Use small kebab-case names for queues/modules (like `user`, `email`, etc.)\n" +
	"    - Confirm after each tool call if the user wants to continue.\n" +
	"---\n" +
	"Once done, prompt the user for the next steps."
