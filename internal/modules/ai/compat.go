package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// chatCompletions talks to any OpenAI-compatible gateway over the plain
// /v1/chat/completions endpoint.
func (c *Client) chatCompletions(ctx context.Context, systemPrompt, prompt string, maxTokens int64) (string, error) {
	apiKey := strings.TrimSpace(c.provider.APIKey)
	if apiKey == "" {
		return "", errors.New("proveedor de IA sin clave")
	}

	endpoint := normalizeCompatibleEndpoint(c.provider.Endpoint)
	model := strings.TrimSpace(c.provider.DefaultModel)
	if model == "" {
		model = defaultOpenAIModel
	}

	messages := make([]map[string]string, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, map[string]string{"role": "system", "content": systemPrompt})
	}
	messages = append(messages, map[string]string{"role": "user", "content": prompt})

	body, _ := json.Marshal(map[string]interface{}{
		"model":      model,
		"messages":   messages,
		"max_tokens": maxTokens,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("error del proveedor de IA: %s", strings.TrimSpace(string(respBody)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if result.Error != nil && strings.TrimSpace(result.Error.Message) != "" {
		return "", fmt.Errorf("error del proveedor de IA: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("respuesta vacía del modelo")
	}
	return result.Choices[0].Message.Content, nil
}
