// Package elevenlabs calls the ElevenLabs text-to-speech API.
package elevenlabs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	DefaultModel   = "eleven_multilingual_v2"
)

var (
	// ErrRateLimited maps the vendor's 429.
	ErrRateLimited = errors.New("elevenlabs rate limit exceeded")
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("elevenlabs not configured")
)

// StatusError carries any other non-200 answer.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("elevenlabs status %d: %s", e.Code, e.Body)
}

// VoiceSettings tune synthesis.
type VoiceSettings struct {
	Stability       float32 `json:"stability"`
	SimilarityBoost float32 `json:"similarity_boost"`
}

// DefaultVoiceSettings are used for every NPC line.
var DefaultVoiceSettings = VoiceSettings{Stability: 0.5, SimilarityBoost: 0.75}

type Client struct {
	client   *resty.Client
	apiKey   string
	model    string
	settings VoiceSettings
}

func New(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &Client{client: c, apiKey: apiKey, model: model, settings: DefaultVoiceSettings}
}

type speechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// Synthesize returns MPEG audio for text spoken by voiceID.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "audio/mpeg").
		SetHeader("xi-api-key", c.apiKey).
		SetPathParam("voiceId", voiceID).
		SetBody(&speechRequest{Text: text, ModelID: c.model, VoiceSettings: c.settings}).
		Post("/v1/text-to-speech/{voiceId}")
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
		return resp.Body(), nil
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, &StatusError{Code: resp.StatusCode(), Body: resp.String()}
	}
}
