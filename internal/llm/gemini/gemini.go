// Package gemini calls the Google Generative Language generateContent API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tablekeep/tablekeep/internal/llm"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// StatusError carries a non-200 answer from the API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gemini status %d: %s", e.Code, e.Body)
}

type Client struct {
	client *resty.Client
	apiKey string
	model  string
}

// New builds a client. An empty APIKey yields a client whose calls fail
// with llm.ErrNotConfigured.
func New(cfg llm.Config, timeout time.Duration) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(base, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &Client{client: c, apiKey: cfg.APIKey, model: cfg.Model}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	SystemInstruction *content         `json:"system_instruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

// Complete implements llm.Provider. A reply with no candidates returns an
// empty Content and no error.
func (c *Client) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", llm.ErrNotConfigured)
	}

	body := generateRequest{
		GenerationConfig: generationConfig{Temperature: req.Temperature, MaxOutputTokens: req.MaxTokens},
	}
	if req.System != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: req.System}}}
	}
	for _, m := range req.Messages {
		role := "user"
		if m.Role == llm.RoleModel {
			role = "model"
		}
		body.Contents = append(body.Contents, content{Role: role, Parts: []part{{Text: m.Content}}})
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("model", c.model).
		SetQueryParam("key", c.apiKey).
		SetBody(&body).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode(), Body: resp.String()}
	}

	var gr generateResponse
	if err := json.Unmarshal(resp.Body(), &gr); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}
	out := &llm.Response{}
	if len(gr.Candidates) > 0 {
		cand := gr.Candidates[0]
		out.FinishReason = cand.FinishReason
		if len(cand.Content.Parts) > 0 {
			out.Content = cand.Content.Parts[0].Text
		}
	}
	return out, nil
}
