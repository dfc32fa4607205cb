// Package gemini implements a provider on top of the Gemini API via the
// google genai SDK.
package gemini

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/restforge/restforge/pkg/llm"
	pkgLogger "github.com/restforge/restforge/pkg/logger"
)

const (
	providerName = "gemini"
	defaultModel = "gemini-2.0-flash"

	callTimeout = 2 * time.Minute
)

var logger = pkgLogger.NewComponentLogger("gemini-client")

// Client wraps the genai SDK behind the llm.Provider contract.
type Client struct {
	client *genai.Client
	apiKey string
	model  string
}

// New creates a Gemini provider from GEMINI_API_KEY / GEMINI_MODEL. Without
// a key the SDK client is not constructed and the provider reports itself
// unavailable.
func New(model string) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")

	if model == "" {
		model = os.Getenv("GEMINI_MODEL")
	}
	if model == "" {
		model = defaultModel
	}

	c := &Client{
		apiKey: apiKey,
		model:  model,
	}

	if apiKey != "" {
		client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create Gemini client")
		}
		c.client = client
	}

	return c, nil
}

// Name implements llm.Provider.
func (c *Client) Name() string { return providerName }

// IsAvailable reports whether a credential is configured.
func (c *Client) IsAvailable(_ context.Context) bool {
	return c.client != nil
}

// Generate implements llm.Provider via a non-streaming GenerateContent call.
// Structured output uses JSON response mode with the schema inlined into the
// system instruction.
func (c *Client) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if c.client == nil {
		return nil, llm.NewProviderError(providerName, errors.New("GEMINI_API_KEY environment variable not set"))
	}

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(req.EffectiveMaxTokens()),
		Temperature:     genai.Ptr(float32(req.EffectiveTemperature())),
	}

	system := req.SystemPrompt
	if instruction := req.SchemaInstruction(); instruction != "" {
		system = strings.TrimSpace(system + "\n\n" + instruction)
		config.ResponseMIMEType = "application/json"
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(callCtx, c.model, contents, config)
	if err != nil {
		return nil, llm.NewProviderError(providerName, errors.Wrap(err, "generate content failed"))
	}

	if len(resp.Candidates) == 0 {
		logger.Warn("response carried no candidates", "model", c.model)
		return nil, llm.NewProviderError(providerName, errors.New("response carried no candidates"))
	}

	content := resp.Text()
	if content == "" {
		logger.Warn("response text empty", "model", c.model)
		return nil, llm.NewProviderError(providerName, errors.New("response text empty"))
	}

	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &llm.Response{
		Content:    content,
		Provider:   providerName,
		TokensUsed: tokens,
	}, nil
}
