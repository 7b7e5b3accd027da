package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Message is a single chat message. Content is either a plain string or a
// list of Part values for multimodal requests.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// Part is one content element of a multimodal message.
type Part struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL wraps an image reference, typically a base64 data URI.
type ImageURL struct {
	URL string `json:"url"`
}

// Text builds a plain text message.
func Text(role, text string) Message {
	return Message{Role: role, Content: text}
}

// UserVision builds a user message carrying a prompt and an image.
func UserVision(prompt, imageURL string) Message {
	return Message{Role: "user", Content: []Part{
		{Type: "text", Text: prompt},
		{Type: "image_url", ImageURL: &ImageURL{URL: imageURL}},
	}}
}

// Request is a non-streaming chat completion request.
type Request struct {
	Model    string
	Messages []Message
}

// Completer is the narrow interface use cases call for external inference.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ClientConfig configures the HTTP inference client.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to an OpenAI-compatible chat completions endpoint. The
// response content is returned as free-form text; callers extract any
// structured payload themselves.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// NewClient builds a client bounded by the configured timeout.
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

type wireRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type wireResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends the request and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(wireRequest{Model: req.Model, Messages: req.Messages})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close() //nolint:errcheck

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}

	var decoded wireResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", fmt.Errorf("decode inference response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := http.StatusText(resp.StatusCode)
		if decoded.Error != nil && decoded.Error.Message != "" {
			msg = decoded.Error.Message
		}
		c.logger.Warn("inference call failed",
			zap.Int("status", resp.StatusCode),
			zap.String("model", req.Model))
		return "", fmt.Errorf("inference service returned %d: %s", resp.StatusCode, msg)
	}

	if len(decoded.Choices) == 0 {
		return "", errors.New("inference response contained no choices")
	}
	content := decoded.Choices[0].Message.Content
	if content == "" {
		return "", errors.New("inference response content is empty")
	}
	return content, nil
}
