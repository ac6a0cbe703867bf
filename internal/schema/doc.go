// Package schema holds the JSON Schemas of every MCP tool input and validates
// call arguments against them before any handler logic runs.
//
// Each schema lives in schemas/<name>.json, is embedded into the binary, and
// is compiled on first use. The same bytes are advertised to clients as the
// tool's inputSchema, so what clients see is what the server enforces.
package schema
