package domain

import "errors"

// ErrTopicNotFound is returned when a topic ID is not part of the curriculum.
var ErrTopicNotFound = errors.New("topic not found")

// ErrConversationNotFound is returned when a conversation ID cannot be found.
var ErrConversationNotFound = errors.New("conversation not found")

// ErrMissingCredentials is returned when no API key is configured for the model.
var ErrMissingCredentials = errors.New("model API key not configured")

// ErrCacheMiss is returned by lesson caches when no entry exists for a key.
var ErrCacheMiss = errors.New("lesson not cached")

// ErrEmptyMessage is returned when a blank question is sent.
var ErrEmptyMessage = errors.New("message is empty")

// ErrModelAuth is returned when the model provider rejects the credentials.
var ErrModelAuth = errors.New("model authentication failed")

// ErrModelNetwork is returned when the model provider cannot be reached or answers with an error.
var ErrModelNetwork = errors.New("model request failed")
