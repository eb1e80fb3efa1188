// Package llm wraps the OpenAI-compatible chat-completion endpoint. Any
// provider speaking that protocol (OpenAI, Groq, a local gateway) works
// by pointing LLM_BASE_URL at it.
package llm

import (
	"context"
	"net/http"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"

	"github.com/querypilot/querypilot/core/config"
	"github.com/querypilot/querypilot/core/infrastructure/logging"
	apperrors "github.com/querypilot/querypilot/core/shared/errors"
)

// Options tune a single completion call
type Options struct {
	Temperature float32
	MaxTokens   int
	TopP        float32
}

// ProviderInfo describes the active model and endpoint
type ProviderInfo struct {
	Model              string `json:"model"`
	BaseURL            string `json:"baseUrl"`
	UsingCustomBaseURL bool   `json:"usingCustomBaseUrl"`
	MaxRetries         int    `json:"maxRetries"`
}

// Client defines the interface for completion providers
type Client interface {
	// Complete sends a system/user prompt pair and returns the raw
	// assistant text
	Complete(ctx context.Context, system, user string, opts Options) (string, error)

	// Ping checks that the endpoint is reachable and authorized
	Ping(ctx context.Context) error

	// Info returns the active provider metadata
	Info() ProviderInfo
}

// OpenAIClient implements Client against an OpenAI-compatible endpoint
// with an explicit exponential-backoff retry policy.
type OpenAIClient struct {
	client *openai.Client
	cfg    *config.LLMConfig
	log    logging.Logger
}

// NewOpenAIClient creates a client from the LLM configuration
func NewOpenAIClient(cfg *config.LLMConfig) *OpenAIClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
		log:    logging.New("llm"),
	}
}

// Complete sends one chat completion request, retrying transient
// failures up to the configured maximum
func (c *OpenAIClient) Complete(ctx context.Context, system, user string, opts Options) (string, error) {
	request := openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		TopP:        opts.TopP,
	}

	var content string
	operation := func() error {
		response, err := c.client.CreateChatCompletion(ctx, request)
		if err != nil {
			if !isRetryable(err) {
				return backoff.Permanent(err)
			}
			c.log.Warnf("Completion attempt failed, retrying: %v", err)
			return err
		}
		if len(response.Choices) == 0 {
			return backoff.Permanent(apperrors.NewAppError(apperrors.ErrCodeLLMMalformed,
				"completion response contained no choices", nil))
		}
		content = response.Choices[0].Message.Content
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.cfg.MaxRetries)), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			return "", appErr
		}
		return "", apperrors.WrapError(apperrors.ErrCodeLLMUnavailable,
			"completion endpoint is unavailable", err)
	}

	return content, nil
}

// Ping verifies the completion endpoint is reachable
func (c *OpenAIClient) Ping(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return apperrors.WrapError(apperrors.ErrCodeLLMUnavailable,
			"completion endpoint is unreachable", err)
	}
	return nil
}

// Info returns the active provider metadata
func (c *OpenAIClient) Info() ProviderInfo {
	baseURL := openai.DefaultConfig("").BaseURL
	custom := c.cfg.BaseURL != ""
	if custom {
		baseURL = c.cfg.BaseURL
	}
	return ProviderInfo{
		Model:              c.cfg.Model,
		BaseURL:            baseURL,
		UsingCustomBaseURL: custom,
		MaxRetries:         c.cfg.MaxRetries,
	}
}

// isRetryable reports whether a completion error is worth retrying.
// Client-side mistakes (bad request, bad key) are not; rate limits and
// server errors are.
func isRetryable(err error) bool {
	if apiErr, ok := err.(*openai.APIError); ok {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return true
		}
		return apiErr.HTTPStatusCode >= 500
	}
	// Transport-level failures (timeouts, refused connections)
	return true
}
