// pkg/github/client.go

// Package github is the review-platform side of the pipeline: it posts
// the resolution summary as a pull request comment.
package github

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
	DefaultBaseURL = "https://api.github.com"
	DefaultTimeout = 30 * time.Second
)

// Config holds the review-platform settings.
type Config struct {
	Token   string
	BaseURL string
	Timeout time.Duration
}

// Client talks to the GitHub REST API.
type Client struct {
	config *Config
	http   *httpclient.Client
}

// NewClient validates the config and builds the transport. Calls are
// single-shot; a failed comment post is never retried.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = &Config{}
	}
	if config.Token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	httpConfig := httpclient.APIConfig()
	httpConfig.Timeout = config.Timeout
	httpConfig.Headers["Accept"] = "application/vnd.github+json"
	httpConfig.AuthConfig = &httpclient.AuthConfig{
		Type:  httpclient.AuthTypeBearer,
		Token: config.Token,
	}

	transport, err := httpclient.NewClient(httpConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build GitHub client: %w", err)
	}

	return &Client{config: config, http: transport}, nil
}

// PostIssueComment creates one comment on the pull request. PRs are
// issues as far as the comments endpoint is concerned.
func (c *Client) PostIssueComment(rc *harmonia_io.RuntimeContext, repo string, prNumber int, body string) error {
	logger := otelzap.Ctx(rc.Ctx)

	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return fmt.Errorf("failed to encode comment payload: %w", err)
	}

	url := fmt.Sprintf("%s/repos/%s/issues/%d/comments",
		strings.TrimRight(c.config.BaseURL, "/"), repo, prNumber)

	logger.Debug("Posting PR comment",
		zap.String("repo", repo),
		zap.Int("pr", prNumber),
		zap.Int("body_bytes", len(body)))

	resp, err := c.http.Post(rc.Ctx, url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to post PR comment: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		detail := strings.Join(strings.Fields(string(raw)), " ")
		return fmt.Errorf("GitHub API returned status %d: %s", resp.StatusCode, detail)
	}

	logger.Info("✅ PR comment posted",
		zap.String("repo", repo),
		zap.Int("pr", prNumber))
	return nil
}
