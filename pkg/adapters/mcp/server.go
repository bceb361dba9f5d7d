package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aretw0/mentor"
	"github.com/aretw0/mentor/internal/logging"
	"github.com/aretw0/mentor/pkg/domain"
	"github.com/aretw0/mentor/pkg/markdown"
	"github.com/aretw0/mentor/pkg/runner"
	"github.com/aretw0/mentor/pkg/tutor"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

const curriculumURI = "mentor://curriculum"

// RenderResponse is the structured result of render_markdown.
type RenderResponse struct {
	Nodes []markdown.Node `json:"nodes" jsonschema_description:"Display blocks in source order"`
}

type renderArgs struct {
	Text string `mapstructure:"text"`
}

type topicArgs struct {
	TopicID string `mapstructure:"topic_id"`
}

type askArgs struct {
	Question string `mapstructure:"question"`
}

// Server exposes a tutor.Service as an MCP server. All tools share one conversation,
// opened on first use.
type Server struct {
	service   *tutor.Service
	logger    *slog.Logger
	mcpServer *server.MCPServer

	mu             sync.Mutex
	conversationID string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(svc *tutor.Service, opts ...Option) *Server {
	s := &Server{
		service: svc,
		logger:  logging.NewNop(),
		mcpServer: server.NewMCPServer("mentor-mcp", mentor.Version,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is canceled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: render_markdown
	renderTool := mcp.NewTool("render_markdown",
		mcp.WithDescription("Split tutor markdown into text and code blocks with bold spans marked."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Markdown text to render")),
		mcp.WithOutputSchema[RenderResponse](),
	)
	s.mcpServer.AddTool(renderTool, mcp.NewStructuredToolHandler(s.handleRender))

	// TOOL: list_topics
	s.mcpServer.AddTool(mcp.NewTool("list_topics",
		mcp.WithDescription("List the curriculum modules and topics."),
	), s.handleListTopics)

	// TOOL: explain_topic
	s.mcpServer.AddTool(mcp.NewTool("explain_topic",
		mcp.WithDescription("Select a topic and return its mini-lesson."),
		mcp.WithString("topic_id", mcp.Required(), mcp.Description("Topic ID, as listed by list_topics")),
	), s.handleExplainTopic)

	// TOOL: ask
	s.mcpServer.AddTool(mcp.NewTool("ask",
		mcp.WithDescription("Ask the tutor a question. The conversation keeps its history between calls."),
		mcp.WithString("question", mcp.Required(), mcp.Description("The question to ask")),
	), s.handleAsk)

	// TOOL: quiz
	s.mcpServer.AddTool(mcp.NewTool("quiz",
		mcp.WithDescription("Ask for a quiz question about the topic selected with explain_topic."),
	), s.handleQuiz)
}

func (s *Server) handleRender(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (RenderResponse, error) {
	var in renderArgs
	if err := mapstructure.Decode(args, &in); err != nil {
		return RenderResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}
	return RenderResponse{Nodes: markdown.RenderNodes(in.Text)}, nil
}

func (s *Server) handleListTopics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var active *domain.Topic
	if conv, err := s.current(ctx); err == nil {
		active = conv.ActiveTopic
	}
	return mcp.NewToolResultText(runner.CurriculumMarkdown(s.service.Tutor().Curriculum(), active)), nil
}

func (s *Server) handleExplainTopic(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in topicArgs
	if err := mapstructure.Decode(request.GetArguments(), &in); err != nil || in.TopicID == "" {
		return mcp.NewToolResultError("topic_id is required"), nil
	}

	id, err := s.conversation(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("conversation unavailable: %v", err)), nil
	}
	conv, err := s.service.SelectTopic(ctx, id, in.TopicID)
	if err != nil {
		if errors.Is(err, domain.ErrTopicNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("unknown topic %q", in.TopicID)), nil
		}
		return nil, err
	}
	return mcp.NewToolResultText(conv.Lesson), nil
}

func (s *Server) handleAsk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in askArgs
	if err := mapstructure.Decode(request.GetArguments(), &in); err != nil {
		return mcp.NewToolResultError("question is required"), nil
	}

	clean, err := runner.CleanQuestion(in.Question)
	if errors.Is(err, runner.ErrBlankQuestion) {
		return mcp.NewToolResultError("question is required"), nil
	}
	if err != nil {
		s.logger.Warn("MCP Ask: Input rejected", "err", err, "size", len(in.Question))
		return mcp.NewToolResultError(fmt.Sprintf("input rejected: %v", err)), nil
	}

	id, err := s.conversation(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("conversation unavailable: %v", err)), nil
	}
	reply, err := s.service.Ask(ctx, id, clean)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyMessage) {
			return mcp.NewToolResultError("question is required"), nil
		}
		return nil, err
	}
	return mcp.NewToolResultText(reply.Text), nil
}

func (s *Server) handleQuiz(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.conversation(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("conversation unavailable: %v", err)), nil
	}
	reply, err := s.service.Quiz(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTopicNotFound) {
			return mcp.NewToolResultError("no active topic: call explain_topic first"), nil
		}
		return nil, err
	}
	return mcp.NewToolResultText(reply.Text), nil
}

// conversation returns the shared conversation ID, opening it when needed.
func (s *Server) conversation(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conversationID != "" {
		return s.conversationID, nil
	}
	conv, err := s.service.Open(ctx, "")
	if err != nil {
		return "", err
	}
	s.logger.Debug("MCP conversation opened", "conversation_id", conv.ID)
	s.conversationID = conv.ID
	return conv.ID, nil
}

func (s *Server) current(ctx context.Context) (domain.Conversation, error) {
	s.mu.Lock()
	id := s.conversationID
	s.mu.Unlock()
	if id == "" {
		return domain.Conversation{}, domain.ErrConversationNotFound
	}
	return s.service.Get(ctx, id)
}

func (s *Server) registerResources() {
	// EXPOSE: mentor://curriculum
	s.mcpServer.AddResource(mcp.NewResource(curriculumURI, "Curriculum",
		mcp.WithResourceDescription("Modules and topics taught by the tutor"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.service.Tutor().Curriculum())
		if err != nil {
			return nil, fmt.Errorf("failed to encode curriculum: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      curriculumURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
