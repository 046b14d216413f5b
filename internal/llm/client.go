package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"

	"github.com/Pyrem/talentbase/internal/config"
	errs "github.com/Pyrem/talentbase/pkg/errors"
)

// backend is one provider's single-turn completion call.
type backend interface {
	complete(ctx context.Context, prompt string) (string, error)
}

// Client dispatches completions to the configured provider and retries
// failed or empty calls with doubling backoff.
type Client struct {
	provider   string
	backend    backend
	maxRetries int
	baseWait   time.Duration
	closeFn    func()
}

// New builds the backend for the configured provider; the provider stays
// fixed for the client's lifetime.
func New(cfg *config.Config) (*Client, error) {
	c := &Client{
		provider:   cfg.LLMProvider,
		maxRetries: max(cfg.MaxRetries, 1),
		baseWait:   time.Second,
	}

	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		c.backend = &openaiBackend{
			client:    openai.NewClient(cfg.OpenAIAPIKey),
			model:     cfg.LLMModel,
			maxTokens: cfg.MaxTokensPerCall,
		}
	case config.ProviderAnthropic:
		c.backend = &anthropicBackend{
			client:    anthropic.NewClient(cfg.AnthropicAPIKey),
			model:     cfg.LLMModel,
			maxTokens: cfg.MaxTokensPerCall,
		}
	case config.ProviderGemini:
		client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		c.backend = &geminiBackend{
			client:    client,
			model:     cfg.LLMModel,
			maxTokens: cfg.MaxTokensPerCall,
		}
		c.closeFn = func() { client.Close() }
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLMProvider)
	}

	return c, nil
}

func (c *Client) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// Complete calls the provider, retrying on any error or empty response up
// to the configured attempt count with 2^attempt seconds between attempts.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	logger := slog.With("component", "llm", "provider", c.provider)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		text, err := c.backend.complete(ctx, prompt)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
		if err == nil {
			err = errs.ErrEmptyResponse
		}
		lastErr = err
		logger.Warn("llm call failed",
			"attempt", attempt+1, "max_attempts", c.maxRetries, "error", err)

		if attempt < c.maxRetries-1 {
			wait := c.baseWait << attempt
			logger.Info("retrying llm call", "wait", wait.String())
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return "", fmt.Errorf("llm call failed after %d attempts: %w", c.maxRetries, lastErr)
}
