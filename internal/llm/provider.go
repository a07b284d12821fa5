// Package llm defines the chat-completion seam used by the DM assistant.
package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when a provider has no API key.
var ErrNotConfigured = errors.New("llm provider not configured")

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Message struct {
	Role    Role
	Content string
}

type Request struct {
	System      string
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

type Response struct {
	Content string
	// FinishReason is vendor specific and informational.
	FinishReason string
}

// Provider sends one completion request and returns the whole reply.
type Provider interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Config holds common configuration for providers.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}
