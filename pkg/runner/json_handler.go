package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/mentor/pkg/domain"
	"github.com/aretw0/mentor/pkg/markdown"
)

// JSONHandler implements IOHandler with JSON Lines: one event per output line,
// one input per line (a JSON string or raw text).
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

// Output emits the event with its markdown already split into presentation nodes.
func (h *JSONHandler) Output(ctx context.Context, ev Event) error {
	text := ev.Text
	if ev.Kind == EventMessage && ev.Message != nil {
		text = ev.Message.Text
	}
	ev.Nodes = markdown.RenderNodes(text)
	return h.Encoder.Encode(ev)
}

// Input returns the next question. Blank lines are skipped; rejected lines are
// reported as a system event and reading continues.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := h.Reader.ReadString('\n')
		if err != nil && (err != io.EOF || text == "") {
			return "", err
		}
		text = strings.TrimSpace(text)

		var val string
		if err := json.Unmarshal([]byte(text), &val); err == nil {
			text = val
		}

		clean, err := CleanQuestion(text)
		switch {
		case errors.Is(err, ErrBlankQuestion):
			continue
		case err != nil:
			if err := h.SystemOutput(ctx, fmt.Sprintf("Input rejected: %v", err)); err != nil {
				return "", err
			}
			continue
		}
		return clean, nil
	}
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(Event{
		Kind:    EventMessage,
		Message: &domain.Message{Text: msg, Sender: domain.SenderSystem},
	})
}
