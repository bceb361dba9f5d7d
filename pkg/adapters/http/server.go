package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/mentor"
	"github.com/aretw0/mentor/api"
	"github.com/aretw0/mentor/internal/logging"
	"github.com/aretw0/mentor/internal/metrics"
	"github.com/aretw0/mentor/pkg/domain"
	"github.com/aretw0/mentor/pkg/markdown"
	"github.com/aretw0/mentor/pkg/runner"
	"github.com/aretw0/mentor/pkg/tutor"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
)

// Server exposes a tutor.Service over HTTP.
type Server struct {
	Service *tutor.Service
	Streams *StreamManager
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	spec *openapi3.T
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetrics serves /metrics and counts rendered blocks.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(api.Spec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi spec: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi spec: %w", err)
	}
	return doc, nil
}

// NewHandler creates the HTTP handler for the service.
func NewHandler(svc *tutor.Service, opts ...Option) (http.Handler, error) {
	spec, err := LoadSpec()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Service: svc,
		Streams: NewStreamManager(),
		Logger:  logging.NewNop(),
		spec:    spec,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.Logger

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", s.GetSpec)
	r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())

	r.Get("/curriculum", s.GetCurriculum)
	r.Get("/topics/{id}", s.GetTopic)
	r.Post("/render", s.Render)

	r.Route("/conversations", func(r chi.Router) {
		r.Get("/", s.ListConversations)
		r.Post("/", s.CreateConversation)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetConversation)
			r.Delete("/", s.DeleteConversation)
			r.Post("/topic", s.SelectTopic)
			r.Post("/messages", s.SendMessage)
			r.Post("/quiz", s.Quiz)
			r.Post("/view", s.SetView)
			r.Post("/reset", s.Reset)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "mentor-http",
		"version":     mentor.Version,
		"api_version": apiVersion,
	})
}

// GetSpec serves the embedded OpenAPI document.
func (s *Server) GetSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/yaml")
	w.Write(api.Spec)
}

// GetCurriculum handles the GET /curriculum request.
func (s *Server) GetCurriculum(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Service.Tutor().Curriculum())
}

// GetTopic handles the GET /topics/{id} request. ?lesson=true also generates the lesson.
func (s *Server) GetTopic(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c := s.Service.Tutor().Curriculum()
	topic, ok := c.FindTopic(id)
	if !ok {
		http.Error(w, fmt.Sprintf("topic %q not found", id), http.StatusNotFound)
		return
	}
	module, _ := c.ModuleOf(id)

	resp := topicDetail{Topic: topic, ModuleID: module.ID, ModuleTitle: module.Title}
	if withLesson, _ := strconv.ParseBool(r.URL.Query().Get("lesson")); withLesson {
		lesson, err := s.Service.Lesson(r.Context(), id)
		if err != nil {
			s.fail(w, "GetTopic", err)
			return
		}
		resp.Lesson = lesson
		resp.LessonNodes = s.nodes(lesson)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// Render handles the POST /render request.
func (s *Server) Render(w http.ResponseWriter, r *http.Request) {
	var body renderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Render: Invalid request body", "error", err)
		return
	}
	s.writeJSON(w, http.StatusOK, renderResponse{Nodes: s.nodes(body.Text)})
}

// ListConversations handles the GET /conversations request.
func (s *Server) ListConversations(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Service.List())
}

// CreateConversation handles the POST /conversations request. The body is optional.
func (s *Server) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var body topicRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			s.Logger.Warn("CreateConversation: Invalid request body", "error", err)
			return
		}
	}

	conv, err := s.Service.Open(r.Context(), body.TopicID)
	if err != nil {
		s.fail(w, "CreateConversation", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, s.conversation(conv))
}

// GetConversation handles the GET /conversations/{id} request.
func (s *Server) GetConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := s.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetConversation", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.conversation(conv))
}

// DeleteConversation handles the DELETE /conversations/{id} request.
func (s *Server) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Service.Close(r.Context(), id); err != nil {
		s.fail(w, "DeleteConversation", err)
		return
	}
	s.Streams.Close(id)
	w.WriteHeader(http.StatusNoContent)
}

// SelectTopic handles the POST /conversations/{id}/topic request.
func (s *Server) SelectTopic(w http.ResponseWriter, r *http.Request) {
	var body topicRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.TopicID == "" {
		http.Error(w, "Invalid request body: topic_id is required", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	conv, err := s.Service.SelectTopic(r.Context(), id, body.TopicID)
	if err != nil {
		s.fail(w, "SelectTopic", err)
		return
	}
	s.broadcast(id, runner.Event{Kind: runner.EventLesson, Topic: conv.ActiveTopic, Text: conv.Lesson})
	s.writeJSON(w, http.StatusOK, s.conversation(conv))
}

// SendMessage handles the POST /conversations/{id}/messages request.
func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request) {
	var body messageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("SendMessage: Invalid request body", "error", err)
		return
	}

	text, err := runner.CleanQuestion(body.Text)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		s.Logger.Warn("SendMessage: Input rejected", "error", err, "size", len(body.Text))
		return
	}

	id := chi.URLParam(r, "id")
	reply, err := s.Service.Ask(r.Context(), id, text)
	if err != nil {
		s.fail(w, "SendMessage", err)
		return
	}
	s.broadcast(id, runner.Event{Kind: runner.EventMessage, Message: &reply})
	s.writeJSON(w, http.StatusOK, s.message(reply))
}

// Quiz handles the POST /conversations/{id}/quiz request.
func (s *Server) Quiz(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	reply, err := s.Service.Quiz(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrTopicNotFound) {
			http.Error(w, "No active topic", http.StatusConflict)
			return
		}
		s.fail(w, "Quiz", err)
		return
	}
	s.broadcast(id, runner.Event{Kind: runner.EventMessage, Message: &reply})
	s.writeJSON(w, http.StatusOK, s.message(reply))
}

// SetView handles the POST /conversations/{id}/view request.
func (s *Server) SetView(w http.ResponseWriter, r *http.Request) {
	var body viewRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if body.View != domain.ViewLesson && body.View != domain.ViewChat {
		http.Error(w, fmt.Sprintf("Invalid view %q", body.View), http.StatusBadRequest)
		return
	}

	conv, err := s.Service.SetView(r.Context(), chi.URLParam(r, "id"), body.View)
	if err != nil {
		s.fail(w, "SetView", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.conversation(conv))
}

// Reset handles the POST /conversations/{id}/reset request.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	conv, err := s.Service.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "Reset", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.conversation(conv))
}

// -- Helpers --

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrConversationNotFound), errors.Is(err, domain.ErrTopicNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrEmptyMessage):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, fmt.Sprintf("%s error: %v", op, err), http.StatusInternalServerError)
		s.Logger.Error(op+" failed", "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) broadcast(id string, ev runner.Event) {
	if ev.Message != nil {
		ev.Nodes = markdown.RenderNodes(ev.Message.Text)
	} else {
		ev.Nodes = markdown.RenderNodes(ev.Text)
	}
	if bytes, err := json.Marshal(ev); err == nil {
		s.Streams.Broadcast(id, string(bytes))
	}
}

func (s *Server) nodes(text string) []markdown.Node {
	nodes := markdown.RenderNodes(text)
	for _, n := range nodes {
		s.Metrics.RenderedBlock(string(n.Kind))
	}
	return nodes
}

func (s *Server) message(m domain.Message) messageView {
	return messageView{Message: m, Nodes: s.nodes(m.Text)}
}

func (s *Server) conversation(c domain.Conversation) conversationView {
	v := conversationView{
		ID:            c.ID,
		CreatedAt:     c.CreatedAt,
		Available:     c.Available(),
		View:          c.View,
		ActiveTopic:   c.ActiveTopic,
		Lesson:        c.Lesson,
		LessonLoading: c.LessonLoading,
		ChatLoading:   c.ChatLoading,
		Messages:      make([]messageView, 0, len(c.Messages)),
	}
	if c.Lesson != "" {
		v.LessonNodes = s.nodes(c.Lesson)
	}
	for _, m := range c.Messages {
		v.Messages = append(v.Messages, s.message(m))
	}
	return v
}
