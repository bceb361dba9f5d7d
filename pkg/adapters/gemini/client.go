package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/mentor/internal/logging"
	"github.com/aretw0/mentor/pkg/domain"
	"google.golang.org/genai"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 60 * time.Second
)

// Config holds the explicit settings of a Client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client implements ports.ModelClient on top of the genai SDK.
// It keeps no conversation state; sessions are owned by the caller and replayed on every call.
type Client struct {
	model      string
	genai      *genai.Client
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client (and its timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger configures a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client. It fails with domain.ErrMissingCredentials when no API key is set.
func New(cfg Config, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, domain.ErrMissingCredentials
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    strings.TrimRight(baseURL, "/") + "/",
			APIVersion: "v1beta",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	c.genai = client
	return c, nil
}

// Model returns the model identifier used for requests.
func (c *Client) Model() string {
	return c.model
}

// CreateSession prepares an empty conversation. No request is made until the first message.
func (c *Client) CreateSession(ctx context.Context, systemInstruction string, opts domain.SessionOptions) (*domain.ModelSession, error) {
	return &domain.ModelSession{
		SystemInstruction: systemInstruction,
		Options:           opts,
		History:           []domain.Turn{},
	}, nil
}

// SendMessage sends the session history plus text and appends the exchange on success.
func (c *Client) SendMessage(ctx context.Context, session *domain.ModelSession, text string) (string, error) {
	if session == nil {
		return "", fmt.Errorf("nil session")
	}

	contents := make([]*genai.Content, 0, len(session.History)+1)
	for _, turn := range session.History {
		contents = append(contents, genai.NewContentFromText(turn.Text, genai.Role(turn.Role)))
	}
	contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))

	config := generationConfig(session.Options)
	config.SystemInstruction = instruction(session.SystemInstruction)

	reply, err := c.generate(ctx, contents, config)
	if err != nil {
		return "", err
	}
	session.Append(text, reply)
	return reply, nil
}

// CompleteOnePrompt runs a single-turn request with its own system instruction.
func (c *Client) CompleteOnePrompt(ctx context.Context, prompt string, systemInstruction string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	return c.generate(ctx, contents, &genai.GenerateContentConfig{
		SystemInstruction: instruction(systemInstruction),
	})
}

func (c *Client) generate(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		err = classify(err)
		c.logger.Warn("Model request failed",
			"model", c.model,
			"duration", time.Since(start),
			"err", err,
		)
		return "", err
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		c.logger.Warn("Prompt blocked by model", "model", c.model, "reason", resp.PromptFeedback.BlockReason)
	}

	c.logger.Debug("Model request completed",
		"model", c.model,
		"duration", time.Since(start),
		"candidates", len(resp.Candidates),
	)
	return resp.Text(), nil
}
