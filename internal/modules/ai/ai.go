package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	"go.uber.org/zap"

	"github.com/integridad-lab/taller-core/internal/config"
)

// Completer is the surface the analysis and news services depend on, so
// tests can swap in a scripted model.
type Completer interface {
	// Complete sends a plain prompt and returns the model text.
	Complete(ctx context.Context, systemPrompt, prompt string, maxTokens int64) (string, error)
	// CompleteJSON asks the model for JSON and decodes it into out. OpenAI
	// providers get a strict schema; the rest fall back to a prompt contract
	// plus tolerant extraction.
	CompleteJSON(ctx context.Context, req JSONRequest, out interface{}) error
}

// JSONRequest describes one structured completion.
type JSONRequest struct {
	SystemPrompt string
	Prompt       string
	SchemaName   string
	Schema       map[string]interface{}
	MaxTokens    int64
}

// Client routes completions to the configured provider.
type Client struct {
	provider *config.AIProvider
	timeout  time.Duration
	logger   *zap.Logger
}

// ErrNoProvider reports that no enabled provider with an API key exists.
var ErrNoProvider = errors.New("ningún proveedor de IA habilitado")

func New(cfg config.AIConfig, logger *zap.Logger) (*Client, error) {
	provider := config.EnabledProvider(cfg)
	if provider == nil {
		return nil, ErrNoProvider
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	logger.Info("proveedor de IA configurado",
		zap.String("provider", provider.ID),
		zap.String("type", provider.Type),
		zap.String("model", provider.DefaultModel))
	return &Client{provider: provider, timeout: timeout, logger: logger}, nil
}

func (c *Client) Complete(ctx context.Context, systemPrompt, prompt string, maxTokens int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if isOpenAICompatibleProviderType(c.provider.Type) {
		return c.chatCompletions(ctx, systemPrompt, prompt, maxTokens)
	}

	model, err := c.languageModel()
	if err != nil {
		return "", err
	}
	resp, err := jetai.GenerateText(
		ctx,
		buildPromptMessages(systemPrompt, prompt),
		jetai.WithModel(model),
		jetai.WithMaxOutputTokens(int(maxTokens)),
	)
	if err != nil {
		return "", fmt.Errorf("llamada al modelo: %w", err)
	}
	return extractResponseText(resp)
}

func (c *Client) CompleteJSON(ctx context.Context, req JSONRequest, out interface{}) error {
	if isOpenAIProviderType(c.provider.Type) && req.Schema != nil {
		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		return c.completeStructured(ctx, req, out)
	}

	raw, err := c.Complete(ctx, req.SystemPrompt, req.Prompt, req.MaxTokens)
	if err != nil {
		return err
	}
	return UnmarshalLoose(raw, out)
}

func isOpenAIProviderType(raw string) bool {
	return strings.ToLower(strings.TrimSpace(raw)) == "openai"
}

func isAnthropicProviderType(raw string) bool {
	return strings.ToLower(strings.TrimSpace(raw)) == "anthropic"
}

func isOpenAICompatibleProviderType(raw string) bool {
	t := strings.ToLower(strings.TrimSpace(raw))
	return t == "openai-compatible" || t == "openrouter"
}

func buildPromptMessages(systemPrompt, prompt string) []jetapi.Message {
	messages := make([]jetapi.Message, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, &jetapi.SystemMessage{Content: systemPrompt})
	}
	messages = append(messages, &jetapi.UserMessage{Content: jetapi.ContentFromText(prompt)})
	return messages
}

func extractResponseText(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", errors.New("respuesta vacía del modelo")
	}

	var full strings.Builder
	for _, block := range resp.Content {
		textBlock, ok := block.(*jetapi.TextBlock)
		if !ok || textBlock.Text == "" {
			continue
		}
		full.WriteString(textBlock.Text)
	}

	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("respuesta vacía del modelo")
	}
	return text, nil
}
