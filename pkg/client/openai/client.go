// Package openai implements the reference provider on top of the OpenAI
// chat completions API.
package openai

import (
	"context"
	"os"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"github.com/pkg/errors"

	"github.com/restforge/restforge/pkg/llm"
	pkgLogger "github.com/restforge/restforge/pkg/logger"
)

const (
	providerName = "openai"
	defaultModel = "gpt-4o-mini"

	// LLM generation is slow; match the upstream latency rather than a
	// typical HTTP budget.
	callTimeout = 2 * time.Minute
)

var logger = pkgLogger.NewComponentLogger("openai-client")

// Client wraps the OpenAI SDK behind the llm.Provider contract.
type Client struct {
	client *openai.Client
	apiKey string
	model  string
}

// New creates an OpenAI provider. Credentials come from OPENAI_API_KEY; a
// missing key is not a construction error — the provider reports itself
// unavailable instead. OPENAI_BASE_URL overrides the endpoint (Azure etc.).
func New(model string) *Client {
	apiKey := os.Getenv("OPENAI_API_KEY")

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)

	if model == "" {
		model = os.Getenv("OPENAI_MODEL")
	}
	if model == "" {
		model = defaultModel
	}

	return &Client{
		client: &client,
		apiKey: apiKey,
		model:  model,
	}
}

// Name implements llm.Provider.
func (c *Client) Name() string { return providerName }

// IsAvailable reports whether a credential is configured. No probe request
// is made; the API itself rejects bad keys at call time.
func (c *Client) IsAvailable(_ context.Context) bool {
	return c.apiKey != ""
}

// Generate implements llm.Provider via a non-streaming chat completion.
func (c *Client) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if c.apiKey == "" {
		return nil, llm.NewProviderError(providerName, errors.New("OPENAI_API_KEY environment variable not set"))
	}

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	var messages []openai.ChatCompletionMessageParamUnion
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:               shared.ChatModel(c.model),
		Messages:            messages,
		Temperature:         openai.Float(req.EffectiveTemperature()),
		MaxCompletionTokens: openai.Int(int64(req.EffectiveMaxTokens())),
	}

	// Native structured output: pass the schema through as-is.
	if req.Schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "structured_response",
					Schema: req.Schema,
					Strict: openai.Bool(true),
				},
			},
		}
	}

	completion, err := c.client.Chat.Completions.New(callCtx, params)
	if err != nil {
		return nil, llm.NewProviderError(providerName, errors.Wrap(err, "chat completion failed"))
	}

	if len(completion.Choices) == 0 {
		logger.Warn("response carried no choices", "model", c.model)
		return nil, llm.NewProviderError(providerName, errors.New("response carried no choices"))
	}

	content := completion.Choices[0].Message.Content
	if content == "" {
		logger.Warn("response content empty", "model", c.model,
			"finish_reason", completion.Choices[0].FinishReason)
		return nil, llm.NewProviderError(providerName, errors.New("response content empty"))
	}

	return &llm.Response{
		Content:    content,
		Provider:   providerName,
		TokensUsed: int(completion.Usage.TotalTokens),
	}, nil
}
