// pkg/config/config.go

// Package config builds the single configuration structure for a run.
// Everything environment-derived is resolved here, once, at startup;
// no component reads process-wide state after Load returns.
package config

import (
	"os"
	"strconv"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/github"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/harmonia_io"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/llm"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/xdg"
)

// Environment surface. AI_API_KEY wins over OPENAI_API_KEY; the review
// token chain (GH_TOKEN, GITHUB_TOKEN, gh hosts.yml) lives in pkg/github.
const (
	EnvAIAssist    = "AI_ASSIST"
	EnvAIAPIKey    = "AI_API_KEY"
	EnvOpenAIKey   = "OPENAI_API_KEY"
	EnvAIModel     = "AI_MODEL"
	EnvAIBaseURL   = "AI_BASE_URL"
	EnvAIMaxTokens = "AI_MAX_TOKENS"
	EnvRepository  = "GITHUB_REPOSITORY"
	EnvPRNumber    = "PR_NUMBER"
	EnvDir         = "HARMONIA_DIR"
	EnvConfigFile  = "HARMONIA_CONFIG"
)

// Config is the explicit configuration for one resolution run.
type Config struct {
	// Resolution behavior
	AIAssist  bool
	AIAPIKey  string
	Model     string
	BaseURL   string
	MaxTokens int

	// Review platform
	GitHubToken string
	TokenSource string
	Repository  string
	PRNumber    int

	// Run behavior
	Dir      string
	DryRun   bool
	NoReport bool
}

// fileConfig is the optional YAML file shape. File values sit below the
// environment: they fill in what the environment leaves unset.
type fileConfig struct {
	AIAssist  *bool  `yaml:"ai_assist,omitempty"`
	APIKey    string `yaml:"api_key,omitempty"`
	Model     string `yaml:"model,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	MaxTokens int    `yaml:"max_tokens,omitempty"`
	Dir       string `yaml:"dir,omitempty"`
}

// Path returns the config file location: HARMONIA_CONFIG when set,
// otherwise $XDG_CONFIG_HOME/harmonia/config.yaml.
func Path() string {
	if override := os.Getenv(EnvConfigFile); override != "" {
		return override
	}
	return xdg.XDGConfigPath(shared.HarmoniaID, "config.yaml")
}

// Load resolves the configuration in priority order: built-in defaults,
// then the optional config file, then the environment. A .env file in
// the working directory is folded into the environment first,
// best-effort. Malformed values are collected and returned as one
// aggregate error; command flags are applied by the caller afterwards.
func Load(rc *harmonia_io.RuntimeContext) (*Config, error) {
	logger := otelzap.Ctx(rc.Ctx)

	// godotenv never overrides variables that are already set, so the
	// real environment keeps priority over .env.
	if err := godotenv.Load(); err == nil {
		logger.Debug("Loaded .env from working directory")
	}

	cfg := &Config{
		Model:     llm.DefaultModel,
		BaseURL:   llm.DefaultBaseURL,
		MaxTokens: llm.DefaultMaxTokens,
		Dir:       ".",
	}

	if err := applyFile(rc, cfg); err != nil {
		return nil, err
	}

	var result error

	if raw := os.Getenv(EnvAIAssist); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			result = multierror.Append(result, cerr.Newf("%s must be a boolean, got %q", EnvAIAssist, raw))
		} else {
			cfg.AIAssist = enabled
		}
	}

	if key := firstEnv(EnvAIAPIKey, EnvOpenAIKey); key != "" {
		cfg.AIAPIKey = key
	}
	if v := os.Getenv(EnvAIModel); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv(EnvAIBaseURL); v != "" {
		cfg.BaseURL = v
	}

	if raw := os.Getenv(EnvAIMaxTokens); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			result = multierror.Append(result, cerr.Newf("%s must be an integer, got %q", EnvAIMaxTokens, raw))
		} else {
			cfg.MaxTokens = n
		}
	}

	if v := os.Getenv(EnvRepository); v != "" {
		cfg.Repository = v
	}

	if raw := os.Getenv(EnvPRNumber); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			result = multierror.Append(result, cerr.Newf("%s must be an integer, got %q", EnvPRNumber, raw))
		} else {
			cfg.PRNumber = n
		}
	}

	if v := os.Getenv(EnvDir); v != "" {
		cfg.Dir = v
	}

	if result != nil {
		return nil, result
	}

	if token, err := github.FindToken(); err == nil {
		cfg.GitHubToken = token.Token
		cfg.TokenSource = token.Source
		logger.Debug("Review platform token found", zap.String("source", token.Source))
	}

	return cfg, nil
}

// Validate checks that everything a run needs is present, collecting all
// problems into one aggregate error so a broken CI job surfaces every
// missing variable at once. Must pass before any repository mutation.
func (c *Config) Validate() error {
	var result error

	if c.AIAssist && c.AIAPIKey == "" {
		result = multierror.Append(result, cerr.Newf(
			"AI assist is enabled but no completion API key is set (%s or %s)", EnvAIAPIKey, EnvOpenAIKey))
	}
	if c.MaxTokens <= 0 {
		result = multierror.Append(result, cerr.New("max tokens must be a positive integer"))
	}
	if c.Dir == "" {
		result = multierror.Append(result, cerr.New("repository directory must not be empty"))
	}

	// Review platform settings only matter when a report will be posted.
	if !c.NoReport {
		if c.GitHubToken == "" {
			result = multierror.Append(result, cerr.New(
				"review platform token not found (set GH_TOKEN or GITHUB_TOKEN, or pass --no-report)"))
		}
		switch {
		case c.Repository == "":
			result = multierror.Append(result, cerr.Newf("%s is not set (expected owner/name)", EnvRepository))
		case !validRepository(c.Repository):
			result = multierror.Append(result, cerr.Newf("%s %q is not of the form owner/name", EnvRepository, c.Repository))
		}
		if c.PRNumber <= 0 {
			result = multierror.Append(result, cerr.Newf("%s must be a positive pull request number", EnvPRNumber))
		}
	}

	return result
}

func applyFile(rc *harmonia_io.RuntimeContext, cfg *Config) error {
	path := Path()
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	var fc fileConfig
	if err := harmonia_io.ReadYAML(rc.Ctx, path, &fc); err != nil {
		return cerr.Wrapf(err, "config file %s is unreadable", path)
	}

	if fc.AIAssist != nil {
		cfg.AIAssist = *fc.AIAssist
	}
	if fc.APIKey != "" {
		cfg.AIAPIKey = fc.APIKey
	}
	if fc.Model != "" {
		cfg.Model = fc.Model
	}
	if fc.BaseURL != "" {
		cfg.BaseURL = fc.BaseURL
	}
	if fc.MaxTokens > 0 {
		cfg.MaxTokens = fc.MaxTokens
	}
	if fc.Dir != "" {
		cfg.Dir = fc.Dir
	}

	otelzap.Ctx(rc.Ctx).Debug("Applied config file defaults", zap.String("path", path))
	return nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func validRepository(repo string) bool {
	parts := strings.Split(repo, "/")
	return len(parts) == 2 && parts[0] != "" && parts[1] != ""
}
