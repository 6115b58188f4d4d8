package ai

import (
	"context"
	"fmt"
	"strings"

	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/responses"
)

const defaultOpenAIModel = "gpt-4o-mini"

// completeStructured uses the Responses API with a strict JSON schema, so
// the model cannot return prose around the payload.
func (c *Client) completeStructured(ctx context.Context, req JSONRequest, out interface{}) error {
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(strings.TrimSpace(c.provider.APIKey)),
	}
	if normalized := normalizeOpenAIBaseURL(c.provider.Endpoint); normalized != "" {
		opts = append(opts, openaioption.WithBaseURL(normalized))
	}
	client := openaiclient.NewClient(opts...)

	model := strings.TrimSpace(c.provider.DefaultModel)
	if model == "" {
		model = defaultOpenAIModel
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 900
	}

	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:   req.SchemaName,
			Schema: req.Schema,
			Strict: openaiclient.Bool(true),
			Type:   "json_schema",
		},
	}
	params := responses.ResponseNewParams{
		Model:           model,
		MaxOutputTokens: openaiclient.Int(maxTokens),
		Instructions:    openaiclient.String(req.SystemPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(req.Prompt, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := client.Responses.New(ctx, params)
	if err != nil {
		return fmt.Errorf("llamada al modelo: %w", err)
	}
	return UnmarshalLoose(resp.OutputText(), out)
}
