// Package anthropic implements a provider on top of the Anthropic Messages
// API.
package anthropic

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"

	"github.com/restforge/restforge/pkg/llm"
	pkgLogger "github.com/restforge/restforge/pkg/logger"
)

const (
	providerName = "anthropic"
	defaultModel = "claude-3-5-haiku-latest"

	callTimeout = 2 * time.Minute
)

var logger = pkgLogger.NewComponentLogger("anthropic-client")

// Client wraps the Anthropic SDK behind the llm.Provider contract. The
// Messages API has no response-format parameter, so structured output is
// requested through the system prompt.
type Client struct {
	client *anthropic.Client
	apiKey string
	model  string
}

// New creates an Anthropic provider from ANTHROPIC_API_KEY / ANTHROPIC_MODEL.
func New(model string) *Client {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	if model == "" {
		model = os.Getenv("ANTHROPIC_MODEL")
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

// Generate implements llm.Provider via a non-streaming Messages call.
func (c *Client) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if c.apiKey == "" {
		return nil, llm.NewProviderError(providerName, errors.New("ANTHROPIC_API_KEY environment variable not set"))
	}

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(req.EffectiveMaxTokens()),
		Temperature: anthropic.Float(req.EffectiveTemperature()),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}

	system := req.SystemPrompt
	if instruction := req.SchemaInstruction(); instruction != "" {
		system = strings.TrimSpace(system + "\n\n" + instruction)
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := c.client.Messages.New(callCtx, params)
	if err != nil {
		return nil, llm.NewProviderError(providerName, errors.Wrap(err, "messages call failed"))
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}

	content := sb.String()
	if content == "" {
		logger.Warn("response carried no text blocks", "model", c.model,
			"stop_reason", string(msg.StopReason))
		return nil, llm.NewProviderError(providerName, errors.New("response carried no text blocks"))
	}

	return &llm.Response{
		Content:    content,
		Provider:   providerName,
		TokensUsed: int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
	}, nil
}
