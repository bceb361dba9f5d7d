package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/mentor/pkg/adapters/memory"
	"github.com/aretw0/mentor/pkg/domain"
	"github.com/aretw0/mentor/pkg/markdown"
	"github.com/aretw0/mentor/pkg/session"
	"github.com/aretw0/mentor/pkg/tutor"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *memory.ScriptedModel) {
	t.Helper()
	course := &domain.Curriculum{
		Title: "Unreal C++",
		Modules: []domain.Module{
			{ID: "m1", Title: "Basics", Topics: []domain.Topic{
				{ID: "t1", Title: "Pointers", PromptContext: "Explain pointers"},
			}},
		},
	}
	model := memory.NewEchoModel()
	svc := tutor.NewService(tutor.New(model, course), session.NewManager())
	return NewServer(svc), model
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func TestRenderMarkdown(t *testing.T) {
	s, _ := newTestServer(t)

	out, err := s.handleRender(context.Background(), call("render_markdown", nil), map[string]any{
		"text": "See **this**\n```cpp\nint x;\n```",
	})
	require.NoError(t, err)
	require.Len(t, out.Nodes, 2)
	assert.Equal(t, markdown.NodeText, out.Nodes[0].Kind)
	assert.Equal(t, markdown.NodeCode, out.Nodes[1].Kind)
	assert.Equal(t, "cpp", out.Nodes[1].Label)
}

func TestListTopics(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleListTopics(ctx, call("list_topics", nil))
	require.NoError(t, err)
	assert.Contains(t, text(t, res), "  t1     Pointers")

	_, err = s.handleExplainTopic(ctx, call("explain_topic", map[string]any{"topic_id": "t1"}))
	require.NoError(t, err)

	res, err = s.handleListTopics(ctx, call("list_topics", nil))
	require.NoError(t, err)
	assert.Contains(t, text(t, res), "* t1     Pointers")
}

func TestExplainTopic(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleExplainTopic(ctx, call("explain_topic", map[string]any{"topic_id": "t1"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), "Explain pointers")

	res, err = s.handleExplainTopic(ctx, call("explain_topic", map[string]any{"topic_id": "nope"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleExplainTopic(ctx, call("explain_topic", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestAskSharesConversation(t *testing.T) {
	s, model := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleAsk(ctx, call("ask", map[string]any{"question": "first"}))
	require.NoError(t, err)
	assert.Equal(t, "You said: **first**", text(t, res))

	_, err = s.handleAsk(ctx, call("ask", map[string]any{"question": "second"}))
	require.NoError(t, err)

	sessions := 0
	for _, c := range model.Calls() {
		if c.Kind == "session" {
			sessions++
		}
	}
	assert.Equal(t, 1, sessions)

	conv, err := s.current(ctx)
	require.NoError(t, err)
	assert.Len(t, conv.Messages, 5)
}

func TestAskRejectsBadInput(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleAsk(ctx, call("ask", map[string]any{"question": "  "}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "question is required", text(t, res))

	res, err = s.handleAsk(ctx, call("ask", map[string]any{"question": strings.Repeat("x", 5000)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "input rejected")
}

func TestQuiz(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleQuiz(ctx, call("quiz", nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	_, err = s.handleExplainTopic(ctx, call("explain_topic", map[string]any{"topic_id": "t1"}))
	require.NoError(t, err)

	res, err = s.handleQuiz(ctx, call("quiz", nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), "quiz question about Pointers")
}
