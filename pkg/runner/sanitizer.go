package runner

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxQuestionSize bounds a question in bytes.
	DefaultMaxQuestionSize = 4096
	// EnvMaxQuestionSize overrides DefaultMaxQuestionSize.
	EnvMaxQuestionSize = "MENTOR_MAX_INPUT_SIZE"
)

var (
	ErrBlankQuestion    = errors.New("question is blank")
	ErrQuestionTooLarge = errors.New("question exceeds maximum allowed size")
	ErrInvalidUTF8      = errors.New("question contains invalid UTF-8 sequences")
)

// ansiSequence matches CSI escape sequences such as colour codes pasted from a terminal.
var ansiSequence = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

// CleanQuestion prepares learner text for the tutor: it drops terminal escapes and
// control characters, normalizes line endings and trims surrounding whitespace.
// Oversized or non UTF-8 text is rejected whole; text with nothing left to ask
// is rejected with ErrBlankQuestion.
func CleanQuestion(input string) (string, error) {
	if limit := MaxQuestionSize(); len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrQuestionTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	text := ansiSequence.ReplaceAllString(input, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r == '\r':
			return '\n'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, text)

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrBlankQuestion
	}
	return text, nil
}

// MaxQuestionSize returns the configured question limit in bytes.
func MaxQuestionSize() int {
	if val := os.Getenv(EnvMaxQuestionSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxQuestionSize
}
