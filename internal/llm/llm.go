package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// attemptTimeout bounds the wall-clock time of a single network attempt.
const attemptTimeout = 2 * time.Minute

// maxAttempts is the number of times a prompt is retried before the call
// is reported as failed. Transport errors and unparseable payloads count
// the same.
const maxAttempts = 3

// Config identifies the inference endpoint. It is injected at
// construction; the gateway keeps no other state.
type Config struct {
	Instance string // OpenAI-compatible API base URL
	Model    string
	Token    string
}

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a gateway client for the configured endpoint.
func New(cfg Config) *Client {
	config := openai.DefaultConfig(cfg.Token)
	if cfg.Instance != "" {
		config.BaseURL = cfg.Instance
	}
	config.HTTPClient = &http.Client{Timeout: attemptTimeout}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: cfg.Model,
	}
}

// Complete performs one transport attempt: the prompt is sent as a single
// user turn with JSON output mode and low temperature. An empty string
// with a nil error means the model produced no text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, attemptTimeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.1,
		MaxTokens:   4096,
	})
	if err != nil {
		return "", fmt.Errorf("inference API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// Completer is the transport half of the gateway. It exists so the
// retry/decode layer and every pipeline stage can be tested against a
// scripted oracle.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CallJSON sends prompt through c and decodes the model's text payload
// into T. Each attempt covers both the network call and the decode; a
// failure of either is retried with the same prompt up to maxAttempts
// times before the last error is returned. A successful transport
// response with an empty or literal-null payload yields (nil, nil): the
// oracle had nothing to say, which is not an error.
func CallJSON[T any](ctx context.Context, c Completer, prompt string) (*T, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		raw, err := c.Complete(ctx, prompt)
		if err == nil {
			cleaned := stripCodeFence(raw)
			if cleaned == "" || cleaned == "null" {
				return nil, nil
			}
			v := new(T)
			if err = decodeLenient(cleaned, v); err == nil {
				return v, nil
			}
		}
		lastErr = err
		if attempt < maxAttempts {
			slog.Warn("oracle call failed, retrying", "attempt", attempt, "error", err)
		}
	}
	slog.Error("oracle call failed on every attempt", "attempts", maxAttempts, "error", lastErr)
	return nil, fmt.Errorf("oracle call failed after %d attempts: %w", maxAttempts, lastErr)
}

var (
	codeFenceRe     = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// decodeLenient parses a fence-stripped model payload into v, tolerating
// trailing commas before a closing brace or bracket. Field-name matching
// is case-insensitive courtesy of encoding/json.
func decodeLenient(raw string, v any) error {
	cleaned := trailingCommaRe.ReplaceAllString(raw, "$1")
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("parse oracle response: %w (raw: %s)", err, truncate(cleaned, 200))
	}
	return nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFenceRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
