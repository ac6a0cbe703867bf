// Package mcpserver builds the two MCP servers, analysis and boilerplate, on
// top of mark3labs/mcp-go.
//
// Every tool handler is wrapped twice: arguments are validated against the
// tool's embedded JSON Schema first, then the call is timed, logged and
// counted. State is kept per MCP session in a session.Store and dropped when
// the transport unregisters the session. Domain failures are reported as
// tool results with isError set; handlers return a Go error only when the
// protocol layer itself should fail the request.
package mcpserver
