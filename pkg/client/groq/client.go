// Package groq implements the fast/cheap provider against Groq's
// OpenAI-compatible endpoint.
package groq

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"github.com/pkg/errors"

	"github.com/restforge/restforge/pkg/llm"
	pkgLogger "github.com/restforge/restforge/pkg/logger"
)

const (
	providerName   = "groq"
	defaultModel   = "llama-3.3-70b-versatile"
	defaultBaseURL = "https://api.groq.com/openai/v1"

	callTimeout = 2 * time.Minute
)

var logger = pkgLogger.NewComponentLogger("groq-client")

// Client talks to Groq through the OpenAI SDK with a base-URL override.
// Groq's completions endpoint speaks the OpenAI wire format but does not
// accept json_schema response formats, so structured output goes through
// json_object mode with the schema inlined into the system prompt.
type Client struct {
	client *openai.Client
	apiKey string
	model  string
}

// New creates a Groq provider from GROQ_API_KEY / GROQ_MODEL / GROQ_BASE_URL.
// A missing key makes the provider unavailable, not unconstructable.
func New(model string) *Client {
	apiKey := os.Getenv("GROQ_API_KEY")

	baseURL := os.Getenv("GROQ_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)

	if model == "" {
		model = os.Getenv("GROQ_MODEL")
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

// IsAvailable reports whether a credential is configured.
func (c *Client) IsAvailable(_ context.Context) bool {
	return c.apiKey != ""
}

// Generate implements llm.Provider via a non-streaming chat completion.
func (c *Client) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if c.apiKey == "" {
		return nil, llm.NewProviderError(providerName, errors.New("GROQ_API_KEY environment variable not set"))
	}

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	system := req.SystemPrompt
	if instruction := req.SchemaInstruction(); instruction != "" {
		system = strings.TrimSpace(system + "\n\n" + instruction)
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:               shared.ChatModel(c.model),
		Messages:            messages,
		Temperature:         openai.Float(req.EffectiveTemperature()),
		MaxCompletionTokens: openai.Int(int64(req.EffectiveMaxTokens())),
	}
	if req.Schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
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
