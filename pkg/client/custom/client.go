// Package custom implements the compatibility provider: an in-house gateway
// that speaks an OpenAI-like chat protocol but wraps the payload in a
// transaction envelope. The envelope is a decoding quirk of this backend
// only; nothing outside this package knows about it.
package custom

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/restforge/restforge/pkg/llm"
	pkgLogger "github.com/restforge/restforge/pkg/logger"
)

const (
	providerName = "custom"
	defaultModel = "default"

	callTimeout = 2 * time.Minute
)

var logger = pkgLogger.NewComponentLogger("custom-client")

// Client talks to the gateway with plain net/http; there is no SDK for this
// protocol.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// New creates a compatibility provider from CUSTOM_LLM_BASE_URL /
// CUSTOM_LLM_API_KEY / CUSTOM_LLM_MODEL. Without a base URL and key the
// provider reports itself unavailable.
func New(model string) *Client {
	if model == "" {
		model = os.Getenv("CUSTOM_LLM_MODEL")
	}
	if model == "" {
		model = defaultModel
	}

	return &Client{
		httpClient: &http.Client{Timeout: callTimeout},
		baseURL:    strings.TrimSuffix(os.Getenv("CUSTOM_LLM_BASE_URL"), "/"),
		apiKey:     os.Getenv("CUSTOM_LLM_API_KEY"),
		model:      model,
	}
}

// Name implements llm.Provider.
func (c *Client) Name() string { return providerName }

// IsAvailable reports whether the gateway endpoint and credential are
// configured.
func (c *Client) IsAvailable(_ context.Context) bool {
	return c.baseURL != "" && c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type generateRequest struct {
	Model       string         `json:"model"`
	Messages    []chatMessage  `json:"messages"`
	Temperature float64        `json:"temperature"`
	MaxTokens   int            `json:"max_tokens"`
	Schema      map[string]any `json:"schema,omitempty"`
}

// envelope mirrors the gateway's response shape: the real payload sits one
// level down, under transaction.response.
type envelope struct {
	Transaction struct {
		Response *generatePayload `json:"response"`
	} `json:"transaction"`
}

type generatePayload struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Generate implements llm.Provider against the gateway's chat endpoint.
func (c *Client) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if c.baseURL == "" {
		return nil, llm.NewProviderError(providerName, errors.New("CUSTOM_LLM_BASE_URL environment variable not set"))
	}
	if c.apiKey == "" {
		return nil, llm.NewProviderError(providerName, errors.New("CUSTOM_LLM_API_KEY environment variable not set"))
	}

	var messages []chatMessage
	if req.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(generateRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.EffectiveTemperature(),
		MaxTokens:   req.EffectiveMaxTokens(),
		Schema:      req.Schema,
	})
	if err != nil {
		return nil, llm.NewProviderError(providerName, errors.Wrap(err, "failed to encode request"))
	}

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, llm.NewProviderError(providerName, errors.Wrap(err, "failed to build request"))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, llm.NewProviderError(providerName, errors.Wrap(err, "request failed"))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, llm.NewProviderError(providerName, errors.Wrap(err, "failed to read response body"))
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, llm.NewProviderError(providerName,
			errors.Errorf("upstream returned status %d: %s", httpResp.StatusCode, truncate(respBody, 200)))
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		logger.Warn("response body is not valid JSON", "error", err)
		return nil, llm.NewProviderError(providerName, errors.Wrap(err, "failed to decode response body"))
	}

	payload := env.Transaction.Response
	if payload == nil || len(payload.Choices) == 0 {
		logger.Warn("response envelope missing transaction.response payload",
			"body", truncate(respBody, 200))
		return nil, llm.NewProviderError(providerName, errors.New("response envelope missing payload"))
	}

	content := payload.Choices[0].Message.Content
	if content == "" {
		logger.Warn("response content empty", "model", c.model)
		return nil, llm.NewProviderError(providerName, errors.New("response content empty"))
	}

	return &llm.Response{
		Content:    content,
		Provider:   providerName,
		TokensUsed: payload.Usage.TotalTokens,
	}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
