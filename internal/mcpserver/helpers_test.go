package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"gotest.tools/v3/assert"
)

// fakeSession is a minimal server.ClientSession.
type fakeSession struct {
	id string
	ch chan mcp.JSONRPCNotification
}

func newFakeSession(id string) *fakeSession {
	return &fakeSession{id: id, ch: make(chan mcp.JSONRPCNotification, 8)}
}

func (f *fakeSession) Initialize()                                         {}
func (f *fakeSession) Initialized() bool                                   { return true }
func (f *fakeSession) NotificationChannel() chan<- mcp.JSONRPCNotification { return f.ch }
func (f *fakeSession) SessionID() string                                   { return f.id }

// sessionCtx returns a context bound to a fake session of s.
func sessionCtx(s *server.MCPServer, id string) context.Context {
	return s.WithContext(context.Background(), newFakeSession(id))
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

// call dispatches through the validated, instrumented handler registered
// under name.
func call(t *testing.T, set map[string]server.ServerTool, ctx context.Context, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	st, ok := set[name]
	assert.Assert(t, ok, "tool %s not registered", name)
	res, err := st.Handler(ctx, callRequest(name, args))
	assert.NilError(t, err)
	assert.Assert(t, res != nil)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	assert.Assert(t, len(res.Content) > 0)
	tc, ok := res.Content[0].(mcp.TextContent)
	assert.Assert(t, ok, "content is %T", res.Content[0])
	return tc.Text
}

// rpc sends one JSON-RPC request through s and returns the encoded reply.
func rpc(t *testing.T, s *Server, ctx context.Context, method string, params any) string {
	t.Helper()
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	assert.NilError(t, err)
	reply := s.HandleMessage(ctx, msg)
	out, err := json.Marshal(reply)
	assert.NilError(t, err)
	return string(out)
}

func toolMap(tools []server.ServerTool) map[string]server.ServerTool {
	m := make(map[string]server.ServerTool, len(tools))
	for _, st := range tools {
		m[st.Tool.Name] = st
	}
	return m
}
