package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/mentor/internal/metrics"
	"github.com/aretw0/mentor/pkg/adapters/memory"
	"github.com/aretw0/mentor/pkg/domain"
	"github.com/aretw0/mentor/pkg/markdown"
	"github.com/aretw0/mentor/pkg/session"
	"github.com/aretw0/mentor/pkg/tutor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func course() *domain.Curriculum {
	return &domain.Curriculum{
		Title: "Unreal C++",
		Modules: []domain.Module{
			{ID: "m1", Title: "Basics", Topics: []domain.Topic{
				{ID: "t1", Title: "Pointers", PromptContext: "Explain pointers"},
			}},
		},
	}
}

func newTestServer(t *testing.T, model *memory.ScriptedModel) (*httptest.Server, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	svc := tutor.NewService(tutor.New(model, course(), tutor.WithMetrics(m)), session.NewManager())
	handler, err := NewHandler(svc, WithMetrics(m))
	require.NoError(t, err)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, m
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestLoadSpec(t *testing.T) {
	spec, err := LoadSpec()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", spec.Info.Version)
	assert.NotNil(t, spec.Paths.Find("/conversations/{id}/messages"))
}

func TestServer_Meta(t *testing.T) {
	srv, _ := newTestServer(t, memory.NewEchoModel())

	resp, body := doJSON(t, "GET", srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, body = doJSON(t, "GET", srv.URL+"/info", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var info map[string]string
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(t, "mentor-http", info["app"])
	assert.Equal(t, "1.0.0", info["api_version"])
	assert.NotEmpty(t, info["version"])

	resp, body = doJSON(t, "GET", srv.URL+"/openapi.yaml", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "openapi: 3.0.3")

	resp, _ = doJSON(t, "OPTIONS", srv.URL+"/render", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_Curriculum(t *testing.T) {
	srv, _ := newTestServer(t, memory.NewEchoModel())

	resp, body := doJSON(t, "GET", srv.URL+"/curriculum", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var c domain.Curriculum
	require.NoError(t, json.Unmarshal(body, &c))
	assert.Equal(t, "Pointers", c.Modules[0].Topics[0].Title)

	resp, body = doJSON(t, "GET", srv.URL+"/topics/t1?lesson=true", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var detail topicDetail
	require.NoError(t, json.Unmarshal(body, &detail))
	assert.Equal(t, "m1", detail.ModuleID)
	assert.Contains(t, detail.Lesson, "Explain pointers")
	assert.NotEmpty(t, detail.LessonNodes)

	resp, _ = doJSON(t, "GET", srv.URL+"/topics/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Render(t *testing.T) {
	srv, _ := newTestServer(t, memory.NewEchoModel())

	resp, body := doJSON(t, "POST", srv.URL+"/render", map[string]string{
		"text": "Intro **bold**\n```cpp\nint32 X = 0;\n```\nOutro",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out renderResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Nodes, 3)
	assert.Equal(t, markdown.NodeCode, out.Nodes[1].Kind)
	assert.Equal(t, "int32 X = 0;", out.Nodes[1].Code)
	assert.Equal(t, markdown.Emphasis("bold"), out.Nodes[0].Paragraphs[0][1])

	resp, _ = doJSON(t, "POST", srv.URL+"/render", "not an object")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, "GET", srv.URL+"/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `mentor_render_blocks_total{kind="code"} 1`)
}

func TestServer_ConversationFlow(t *testing.T) {
	srv, _ := newTestServer(t, memory.NewEchoModel())

	resp, body := doJSON(t, "POST", srv.URL+"/conversations", map[string]string{"topic_id": "t1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var conv conversationView
	require.NoError(t, json.Unmarshal(body, &conv))
	assert.True(t, conv.Available)
	assert.Equal(t, domain.ViewLesson, conv.View)
	require.NotNil(t, conv.ActiveTopic)
	assert.NotEmpty(t, conv.LessonNodes)
	require.Len(t, conv.Messages, 1)

	base := srv.URL + "/conversations/" + conv.ID

	resp, body = doJSON(t, "POST", base+"/messages", map[string]string{"text": "what is **nullptr**?"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var msg messageView
	require.NoError(t, json.Unmarshal(body, &msg))
	assert.Equal(t, domain.SenderAI, msg.Sender)
	assert.Equal(t, "You said: **what is **nullptr**?**", msg.Text)
	assert.NotEmpty(t, msg.Nodes)

	resp, body = doJSON(t, "POST", base+"/quiz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &msg))
	assert.Contains(t, msg.Text, "quiz question about Pointers")

	resp, body = doJSON(t, "POST", base+"/view", map[string]string{"view": "LESSON"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var viewed conversationView
	require.NoError(t, json.Unmarshal(body, &viewed))
	assert.Equal(t, domain.ViewLesson, viewed.View)
	assert.Len(t, viewed.Messages, 5)

	resp, body = doJSON(t, "GET", srv.URL+"/conversations", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `["`+conv.ID+`"]`, string(body))

	resp, body = doJSON(t, "POST", base+"/reset", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reset conversationView
	require.NoError(t, json.Unmarshal(body, &reset))
	assert.Equal(t, conv.ID, reset.ID)
	assert.Len(t, reset.Messages, 1)
	assert.Nil(t, reset.ActiveTopic)

	resp, _ = doJSON(t, "DELETE", base, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, "GET", base, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_ConversationErrors(t *testing.T) {
	srv, _ := newTestServer(t, memory.NewEchoModel())

	resp, _ := doJSON(t, "POST", srv.URL+"/conversations", map[string]string{"topic_id": "nope"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := doJSON(t, "POST", srv.URL+"/conversations", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var conv conversationView
	require.NoError(t, json.Unmarshal(body, &conv))
	base := srv.URL + "/conversations/" + conv.ID

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"Blank message", "POST", "/messages", map[string]string{"text": "   "}, http.StatusBadRequest},
		{"Oversized message", "POST", "/messages", map[string]string{"text": strings.Repeat("a", 5000)}, http.StatusBadRequest},
		{"Quiz without topic", "POST", "/quiz", nil, http.StatusConflict},
		{"Missing topic id", "POST", "/topic", map[string]string{}, http.StatusBadRequest},
		{"Unknown topic", "POST", "/topic", map[string]string{"topic_id": "nope"}, http.StatusNotFound},
		{"Bad view", "POST", "/view", map[string]string{"view": "SPLIT"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, tt.method, base+tt.path, tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}

	resp, _ = doJSON(t, "POST", srv.URL+"/conversations/missing/messages", map[string]string{"text": "hi"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_ModelFailure(t *testing.T) {
	model := memory.NewEchoModel()
	srv, _ := newTestServer(t, model)

	_, body := doJSON(t, "POST", srv.URL+"/conversations", nil)
	var conv conversationView
	require.NoError(t, json.Unmarshal(body, &conv))

	model.Err = domain.ErrModelNetwork
	resp, body := doJSON(t, "POST", srv.URL+"/conversations/"+conv.ID+"/messages", map[string]string{"text": "hi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var msg messageView
	require.NoError(t, json.Unmarshal(body, &msg))
	assert.Equal(t, tutor.ChatFailedText, msg.Text)
}

func TestServer_Events(t *testing.T) {
	srv, _ := newTestServer(t, memory.NewEchoModel())

	_, body := doJSON(t, "POST", srv.URL+"/conversations", nil)
	var conv conversationView
	require.NoError(t, json.Unmarshal(body, &conv))
	base := srv.URL + "/conversations/" + conv.ID

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", base+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)
	_, _ = reader.ReadString('\n')
	_, _ = reader.ReadString('\n')

	doJSON(t, "POST", base+"/messages", map[string]string{"text": "hello"})

	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, "data: "), line)
	assert.Contains(t, line, "You said: **hello**")
	assert.Contains(t, line, `"kind":"message"`)

	resp2, _ := doJSON(t, "GET", srv.URL+"/conversations/missing/events", nil)
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestStreamManager(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe("c")
	sm.Broadcast("c", "one")
	sm.Broadcast("other", "ignored")
	assert.Equal(t, "one", <-ch)

	sm.Close("c")
	_, ok := <-ch
	assert.False(t, ok)
	assert.NotPanics(t, cancel)
}
