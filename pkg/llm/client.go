// pkg/llm/client.go

package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_io"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/httpclient"
)

const (
	DefaultBaseURL   = "https://api.openai.com/v1"
	DefaultModel     = "gpt-4o-mini"
	DefaultMaxTokens = 1500
	DefaultTimeout   = 60 * time.Second
)

// Config holds the completion-service settings. APIKey is the only
// required field; everything else has a default.
type Config struct {
	APIKey       string
	BaseURL      string
	Model        string
	MaxTokens    int
	Timeout      time.Duration
	SystemPrompt string
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	config *Config
	http   *httpclient.Client
}

// NewClient validates the config, applies defaults and builds the
// transport. Completion calls are single-shot: the pipeline carries no
// retry policy, so neither does the client.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = &Config{}
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("completion API key is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = DefaultMaxTokens
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.SystemPrompt == "" {
		config.SystemPrompt = ResolutionSystemPrompt
	}

	httpConfig := httpclient.APIConfig()
	httpConfig.Timeout = config.Timeout
	httpConfig.AuthConfig = &httpclient.AuthConfig{
		Type:  httpclient.AuthTypeBearer,
		Token: config.APIKey,
	}

	transport, err := httpclient.NewClient(httpConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build completion client: %w", err)
	}

	return &Client{config: config, http: transport}, nil
}

// Complete sends one chat-completion request with the given user prompt
// and returns the model's text verbatim.
func (c *Client) Complete(rc *harmonia_io.RuntimeContext, prompt string) (string, error) {
	logger := otelzap.Ctx(rc.Ctx)

	payload := BuildPayload(c.config.SystemPrompt, prompt, c.config.Model, c.config.MaxTokens)
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode completion payload: %w", err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
	logger.Debug("Requesting completion",
		zap.String("url", url),
		zap.String("model", c.config.Model),
		zap.Int("max_tokens", c.config.MaxTokens),
		zap.Int("prompt_bytes", len(prompt)))

	resp, err := c.http.Post(rc.Ctx, url, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		detail := readErrorBody(resp)
		return "", fmt.Errorf("completion API returned status %d: %s", resp.StatusCode, detail)
	}

	text, err := ExtractResponseText(resp)
	if err != nil {
		return "", err
	}

	logger.Debug("Completion received", zap.Int("response_bytes", len(text)))
	return text, nil
}

// Model returns the configured model identifier, for the run report.
func (c *Client) Model() string {
	return c.config.Model
}

// readErrorBody condenses a non-200 response body to a single log-safe line.
func readErrorBody(resp *http.Response) string {
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "unreadable body"
	}
	detail := strings.Join(strings.Fields(string(raw)), " ")
	if detail == "" {
		return "empty body"
	}
	return detail
}
