package deepseek

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	domai "github.com/greenaudit/esg-insight/internal/domain/ai"
	"github.com/greenaudit/esg-insight/internal/infra/ai/prompt"
)

const (
	defaultModel   = "deepseek-chat"
	defaultBaseURL = "https://api.deepseek.com"

	analysisTemperature   = 0.3
	analysisMaxTokens     = 2000
	complianceTemperature = 0.2
	complianceMaxTokens   = 3000
)

// Config for the DeepSeek-backed client. DeepSeek speaks the OpenAI
// chat API, so the standard client is pointed at its base URL.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

type Client struct {
	client     *openai.Client
	model      string
	timeout    time.Duration
	maxRetries int
	logger     *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(baseURL, "/")

	return &Client{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      model,
		timeout:    timeout,
		maxRetries: cfg.MaxRetries,
		logger:     logger.Named("deepseek"),
	}
}

// AnalyzeESG asks the model to score the text and returns the raw
// response body.
func (c *Client) AnalyzeESG(ctx context.Context, text string) (string, error) {
	return c.chat(ctx, prompt.AnalysisSystemPrompt(), prompt.AnalysisUserPrompt(text),
		analysisTemperature, analysisMaxTokens)
}

// CheckCompliance asks the model for per-rule verdicts and returns the
// raw response body.
func (c *Client) CheckCompliance(ctx context.Context, req domai.ComplianceRequest) (string, error) {
	return c.chat(ctx, prompt.ComplianceSystemPrompt(), prompt.ComplianceUserPrompt(req),
		complianceTemperature, complianceMaxTokens)
}

// chat performs one bounded, non-streaming completion. Each attempt
// gets its own timeout; retries stop early when the parent context is
// done or the provider rejected the request outright.
func (c *Client) chat(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Stream:      false,
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		start := time.Now()
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.CreateChatCompletion(callCtx, req)
		cancel()

		if err == nil {
			if len(resp.Choices) == 0 {
				return "", fmt.Errorf("%w: empty choices", domai.ErrUnavailable)
			}
			c.logger.Debug("chat completion ok",
				zap.Int("attempt", attempt),
				zap.Int("prompt_tokens", resp.Usage.PromptTokens),
				zap.Int("completion_tokens", resp.Usage.CompletionTokens),
				zap.Duration("elapsed", time.Since(start)))
			return resp.Choices[0].Message.Content, nil
		}

		lastErr = err
		c.logger.Warn("chat completion failed",
			zap.Int("attempt", attempt),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))

		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %v", domai.ErrQuotaExceeded, err)
		}
		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("%w: %v", domai.ErrUnavailable, lastErr)
}
