// Package groq implements the completion client against the Groq
// chat-completions API (OpenAI-compatible surface).
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/soulease/guidance/internal/adapter/ai/tokencount"
	"github.com/soulease/guidance/internal/adapter/observability"
	"github.com/soulease/guidance/internal/config"
	"github.com/soulease/guidance/internal/domain"
)

// Client implements domain.CompletionClient. It is constructed explicitly
// and injected; there is no mutable package-level state. Calls are not
// retried here: rate limits and transport failures surface to the caller as
// retryable sentinels.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a Client with the configured request timeout.
func New(cfg config.Config) *Client {
	return &Client{cfg: cfg, hc: &http.Client{Timeout: cfg.ChatTimeout}}
}

// IsConfigured reports whether an API key is present. Callers must check
// this before invoking Complete.
func (c *Client) IsConfigured() bool { return c.cfg.GroqAPIKey != "" }

type chatRequest struct {
	Model       string           `json:"model"`
	Messages    []domain.Message `json:"messages"`
	MaxTokens   int              `json:"max_tokens"`
	Temperature float64          `json:"temperature"`
	TopP        float64          `json:"top_p"`
	Stream      bool             `json:"stream"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the message sequence and returns the assistant's raw text.
// Sampling uses temperature 0.7 by default, so output is nondeterministic.
func (c *Client) Complete(ctx context.Context, msgs []domain.Message) (string, error) {
	return c.call(ctx, "complete", msgs)
}

func (c *Client) call(ctx context.Context, op string, msgs []domain.Message) (string, error) {
	if !c.IsConfigured() {
		slog.Error("completion API key missing", slog.String("provider", "groq"))
		return "", fmt.Errorf("%w: GROQ_API_KEY missing", domain.ErrNotConfigured)
	}
	if len(msgs) == 0 {
		return "", fmt.Errorf("%w: empty message list", domain.ErrInvalidArgument)
	}

	tracer := otel.Tracer("ai.groq")
	ctx, span := tracer.Start(ctx, "groq."+op)
	defer span.End()

	body := chatRequest{
		Model:       c.cfg.ChatModel,
		Messages:    msgs,
		MaxTokens:   c.cfg.ChatMaxTokens,
		Temperature: c.cfg.ChatTemperature,
		TopP:        c.cfg.ChatTopP,
		Stream:      false,
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", domain.ErrTransport, err)
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GroqBaseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.GroqAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	observability.CompletionRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.CompletionRequestsTotal.WithLabelValues(op, "transport_error").Inc()
		slog.Error("completion request failed", slog.String("provider", "groq"), slog.String("op", op), slog.Any("error", err))
		return "", fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.CompletionRequestsTotal.WithLabelValues(op, "transport_error").Inc()
		slog.Error("completion response read failed", slog.String("provider", "groq"), slog.String("op", op), slog.Any("error", err))
		return "", fmt.Errorf("%w: read body: %v", domain.ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		snippet := string(bodyBytes)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		sentinel, outcome := classifyStatus(resp.StatusCode)
		logLevel := slog.LevelError
		if resp.StatusCode == http.StatusTooManyRequests {
			logLevel = slog.LevelWarn
		}
		slog.Log(ctx, logLevel, "completion provider non-200",
			slog.String("provider", "groq"),
			slog.String("op", op),
			slog.Int("status", resp.StatusCode),
			slog.String("model", c.cfg.ChatModel),
			slog.String("x_request_id", resp.Header.Get("X-Request-Id")),
			slog.String("body", snippet))
		observability.CompletionRequestsTotal.WithLabelValues(op, outcome).Inc()
		return "", fmt.Errorf("%w: status %d", sentinel, resp.StatusCode)
	}

	var out chatResponse
	if err := json.Unmarshal(bodyBytes, &out); err != nil {
		observability.CompletionRequestsTotal.WithLabelValues(op, "decode_error").Inc()
		slog.Error("completion response decode failed", slog.String("provider", "groq"), slog.String("op", op), slog.Any("error", err))
		return "", fmt.Errorf("%w: decode: %v", domain.ErrTransport, err)
	}
	if len(out.Choices) == 0 {
		observability.CompletionRequestsTotal.WithLabelValues(op, "empty_choices").Inc()
		slog.Error("completion returned empty choices", slog.String("provider", "groq"), slog.String("op", op))
		return "", fmt.Errorf("%w: empty choices", domain.ErrTransport)
	}
	content := out.Choices[0].Message.Content

	observability.CompletionRequestsTotal.WithLabelValues(op, "ok").Inc()
	c.recordTokens(msgs, content)
	slog.Info("completion call successful",
		slog.String("provider", "groq"),
		slog.String("op", op),
		slog.String("model", c.cfg.ChatModel),
		slog.Int("reply_length", len(content)))
	return content, nil
}

// classifyStatus maps a provider status code to the sentinel and metric
// outcome. Auth and forbidden are terminal; 429 is retryable by the user.
func classifyStatus(status int) (error, string) {
	switch status {
	case http.StatusUnauthorized:
		return domain.ErrAuth, "auth_error"
	case http.StatusForbidden:
		return domain.ErrForbidden, "forbidden"
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited, "rate_limited"
	default:
		return domain.ErrTransport, "transport_error"
	}
}

// connectionProbe is the minimal prompt used by TestConnection; the reply
// must contain the marker for the key to be considered valid.
const (
	connectionProbe  = `Reply with exactly the word OK and nothing else.`
	connectionMarker = "OK"
)

// TestConnection sends a minimal fixed prompt and checks the reply contains
// the expected marker. It exists for user-facing "is my key valid" feedback
// only and offers no correctness guarantee.
func (c *Client) TestConnection(ctx context.Context) bool {
	if !c.IsConfigured() {
		return false
	}
	reply, err := c.call(ctx, "test_connection", []domain.Message{{Role: "user", Content: connectionProbe}})
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToUpper(reply), connectionMarker)
}

// recordTokens logs and counts approximate token usage for budgeting
// dashboards. Failures here never affect the call result.
func (c *Client) recordTokens(msgs []domain.Message, completion string) {
	usage, err := tokencount.CalculateUsage(msgs, completion, c.cfg.ChatModel)
	if err != nil {
		slog.Debug("token accounting unavailable", slog.Any("error", err))
		return
	}
	observability.CompletionTokensTotal.WithLabelValues("prompt").Add(float64(usage.PromptTokens))
	observability.CompletionTokensTotal.WithLabelValues("completion").Add(float64(usage.CompletionTokens))
	slog.Debug("token usage",
		slog.Int("prompt_tokens", usage.PromptTokens),
		slog.Int("completion_tokens", usage.CompletionTokens),
		slog.String("model", usage.Model))
}
