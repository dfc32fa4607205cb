// Package ollama implements the local provider over the loopback Ollama
// HTTP API.
package ollama

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/pkg/errors"

	"github.com/restforge/restforge/pkg/llm"
	pkgLogger "github.com/restforge/restforge/pkg/logger"
)

const (
	providerName = "ollama"
	defaultModel = "llama3.2"

	callTimeout = 2 * time.Minute

	// The availability probe hits a local endpoint; keep it short so an
	// absent daemon cannot stall the fallback chain.
	probeTimeout = 2 * time.Second
)

var logger = pkgLogger.NewComponentLogger("ollama-client")

// Client wraps the Ollama API client behind the llm.Provider contract.
type Client struct {
	client *api.Client
	model  string
}

// New creates an Ollama provider. The endpoint comes from OLLAMA_HOST (the
// SDK's convention), the model from the argument or OLLAMA_MODEL.
func New(model string) (*Client, error) {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Ollama client")
	}

	if model == "" {
		model = os.Getenv("OLLAMA_MODEL")
	}
	if model == "" {
		model = defaultModel
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// IsAvailable probes the local daemon's heartbeat endpoint with a short
// timeout. An unreachable daemon answers false, never an error.
func (c *Client) IsAvailable(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := c.client.Heartbeat(probeCtx); err != nil {
		logger.Debug("heartbeat probe failed", "error", err)
		return false
	}
	return true
}

// Name implements llm.Provider.
func (c *Client) Name() string { return providerName }

// Generate implements llm.Provider via a non-streaming chat call. The
// Request schema, when set, is passed through Ollama's format parameter,
// which accepts a JSON Schema directly.
func (c *Client) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	var messages []api.Message
	if req.SystemPrompt != "" {
		messages = append(messages, api.Message{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, api.Message{Role: "user", Content: req.Prompt})

	stream := false
	chatRequest := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": req.EffectiveTemperature(),
			"num_predict": req.EffectiveMaxTokens(),
		},
	}

	if req.Schema != nil {
		raw, err := json.Marshal(req.Schema)
		if err != nil {
			return nil, llm.NewProviderError(providerName, errors.Wrap(err, "failed to encode schema"))
		}
		chatRequest.Format = json.RawMessage(raw)
	}

	var content strings.Builder
	tokens := 0
	err := c.client.Chat(callCtx, chatRequest, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		if resp.Done {
			tokens = resp.PromptEvalCount + resp.EvalCount
		}
		return nil
	})
	if err != nil {
		return nil, llm.NewProviderError(providerName, errors.Wrap(err, "chat call failed"))
	}

	if content.Len() == 0 {
		logger.Warn("response content empty", "model", c.model)
		return nil, llm.NewProviderError(providerName, errors.New("response content empty"))
	}

	return &llm.Response{
		Content:    content.String(),
		Provider:   providerName,
		TokensUsed: tokens,
	}, nil
}
