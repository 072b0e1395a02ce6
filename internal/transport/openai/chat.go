package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/MehrozAli/MetricTesting/internal/domain"
	"github.com/MehrozAli/MetricTesting/internal/domain/answer"
	"github.com/MehrozAli/MetricTesting/internal/metrics"
)

// zeroTemperature stands in for 0.0: go-openai omits a zero Temperature
// field entirely, which would fall back to the provider default instead of
// deterministic sampling.
const zeroTemperature = math.SmallestNonzeroFloat32

// Chat is a chat-completion provider using the OpenAI-compatible API.
type Chat struct {
	client    *openai.Client
	model     string
	maxTokens int
	provider  string
	logger    *zap.Logger
}

// ChatConfig holds the chat-completion provider settings.
type ChatConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Provider  string
	Logger    *zap.Logger
}

// NewChat creates an OpenAI-compatible chat-completion provider.
func NewChat(cfg *ChatConfig) *Chat {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Chat{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		provider:  cfg.Provider,
		logger:    cfg.Logger,
	}
}

func (c *Chat) request(system, user string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: zeroTemperature,
		MaxTokens:   c.maxTokens,
	}
}

// Generate runs a single-shot completion and returns the full answer text.
func (c *Chat) Generate(ctx context.Context, system, user string) (string, error) {
	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, c.request(system, user))

	duration := time.Since(start)

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(c.provider, c.model, "single", "error").Inc()
		return "", parseChatError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.GenerationRequestsTotal.WithLabelValues(c.provider, c.model, "single", "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrGenerationFailed)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(c.provider, c.model, "single", "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues(c.provider, c.model, "single").Observe(duration.Seconds())

	return resp.Choices[0].Message.Content, nil
}

// GenerateStream starts a streaming completion. The returned stream yields
// content deltas until io.EOF; the caller must Close it.
func (c *Chat) GenerateStream(ctx context.Context, system, user string) (answer.Stream, error) {
	req := c.request(system, user)
	req.Stream = true

	start := time.Now()

	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(c.provider, c.model, "stream", "error").Inc()
		return nil, parseChatError(err)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(c.provider, c.model, "stream", "success").Inc()

	return &chatStream{
		inner:    stream,
		start:    start,
		provider: c.provider,
		model:    c.model,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Chat) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// chatStream adapts openai.ChatCompletionStream to domain.AnswerStream.
type chatStream struct {
	inner    *openai.ChatCompletionStream
	start    time.Time
	provider string
	model    string
	done     bool
}

// Recv returns the next non-empty content delta, or io.EOF when the
// completion finishes.
func (s *chatStream) Recv() (string, error) {
	for {
		resp, err := s.inner.Recv()
		if errors.Is(err, io.EOF) {
			if !s.done {
				s.done = true
				metrics.GenerationRequestDuration.
					WithLabelValues(s.provider, s.model, "stream").
					Observe(time.Since(s.start).Seconds())
			}
			return "", io.EOF
		}
		if err != nil {
			return "", parseChatError(err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			return delta, nil
		}
	}
}

func (s *chatStream) Close() {
	_ = s.inner.Close()
}

// parseChatError wraps provider errors with domain.ErrGenerationFailed.
func parseChatError(err error) error {
	wrap := domain.ErrGenerationFailed

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("chat API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("chat API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("chat request failed: %w", wrap)
}
