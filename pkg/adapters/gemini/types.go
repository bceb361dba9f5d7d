package gemini

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aretw0/mentor/pkg/domain"
	"google.golang.org/genai"
)

func instruction(text string) *genai.Content {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return genai.NewContentFromText(text, "")
}

// generationConfig maps session options onto a request config.
// A zero SessionOptions leaves generation to the provider defaults; otherwise the
// temperature is always sent, so a configured 0 stays 0.
func generationConfig(opts domain.SessionOptions) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if opts == (domain.SessionOptions{}) {
		return cfg
	}
	cfg.Temperature = genai.Ptr(float32(opts.Temperature))
	if opts.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxOutputTokens)
	}
	return cfg
}

// APIError is a non-2xx answer from the API.
// It unwraps to domain.ErrModelAuth for rejected credentials and domain.ErrModelNetwork otherwise.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
	auth       bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini http %d %s: %s", e.StatusCode, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.auth {
		return domain.ErrModelAuth
	}
	return domain.ErrModelNetwork
}

// classify turns SDK failures into domain errors.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.Code,
			Status:     apiErr.Status,
			Message:    apiErr.Message,
			auth:       isAuthFailure(apiErr),
		}
	}
	if errors.Is(err, domain.ErrModelNetwork) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrModelNetwork, err)
}

func isAuthFailure(e genai.APIError) bool {
	switch e.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	case http.StatusBadRequest:
		for _, d := range e.Details {
			if reason, _ := d["reason"].(string); reason == "API_KEY_INVALID" {
				return true
			}
		}
		return strings.Contains(e.Message, "API_KEY_INVALID")
	}
	return false
}

// IsAuth reports whether err was caused by rejected credentials.
func IsAuth(err error) bool {
	return errors.Is(err, domain.ErrModelAuth)
}
