package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"MCQ-Quiz-Generator/internal/model"
)

var (
	ErrMissingAPIKey    = errors.New("AI service API key is not configured")
	ErrRequestFailed    = errors.New("AI service request failed")
	ErrUnexpectedStatus = errors.New("AI service returned an error status")
	ErrEmptyChoices     = errors.New("AI service returned no choices")
)

// maxErrorBody bounds how much of a failed response body is logged.
const maxErrorBody = 4 << 10

// ChatClient talks to an OpenAI-compatible chat completions endpoint.
type ChatClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	log        *zap.Logger
}

// NewChatClient builds a client. A timeout of zero means no client-side timeout.
func NewChatClient(baseURL, apiKey string, timeoutSec int, log *zap.Logger) *ChatClient {
	return &ChatClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
		log: log,
	}
}

// Complete sends one chat completion request and returns the content of the
// first choice.
func (c *ChatClient) Complete(ctx context.Context, payload model.AIChatRequest) (string, error) {
	if c.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "encode chat request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(payloadBytes))
	if err != nil {
		return "", errors.Wrap(err, "build chat request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	c.log.Debug("sending chat completion request",
		zap.String("model", payload.Model),
		zap.Int("messages", len(payload.Messages)),
	)
	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", errors.Wrapf(ErrRequestFailed, "%v", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrapf(ErrRequestFailed, "read response body: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("chat completion returned error status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(bodyBytes, maxErrorBody)),
		)
		var apiErr model.AIErrorResponse
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", errors.Wrapf(ErrUnexpectedStatus, "%s: %s", resp.Status, apiErr.Error.Message)
		}
		return "", errors.Wrap(ErrUnexpectedStatus, resp.Status)
	}

	var aiResponse model.AIChatResponse
	if err := json.Unmarshal(bodyBytes, &aiResponse); err != nil {
		c.log.Warn("could not decode chat completion envelope", zap.ByteString("body", truncate(bodyBytes, maxErrorBody)))
		return "", errors.Wrapf(ErrRequestFailed, "decode response: %v", err)
	}
	if len(aiResponse.Choices) == 0 {
		return "", ErrEmptyChoices
	}

	content := aiResponse.Choices[0].Message.Content
	c.log.Debug("received chat completion",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("content_bytes", len(content)),
	)
	return content, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
