// pkg/github/token.go

package github

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenResult holds information about a discovered GitHub token.
type TokenResult struct {
	Token  string
	Source string
}

// FindToken searches for a GitHub token in multiple locations.
// Search order:
//  1. GH_TOKEN environment variable
//  2. GITHUB_TOKEN environment variable
//  3. ~/.config/gh/hosts.yml (or $XDG_CONFIG_HOME/gh/hosts.yml)
//
// A .env file in the working directory is already folded into the
// environment at startup, so the env vars cover it.
func FindToken() (*TokenResult, error) {
	if token := os.Getenv("GH_TOKEN"); token != "" {
		return &TokenResult{Token: token, Source: "GH_TOKEN env var"}, nil
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return &TokenResult{Token: token, Source: "GITHUB_TOKEN env var"}, nil
	}

	ghConfigPath := getGHConfigPath()
	if token, err := parseGHHostsYAML(ghConfigPath); err == nil && token != "" {
		return &TokenResult{Token: token, Source: ghConfigPath}, nil
	}

	return nil, fmt.Errorf("GitHub token not found\n\nSearched:\n" +
		"  • GH_TOKEN environment variable\n" +
		"  • GITHUB_TOKEN environment variable\n" +
		"  • ~/.config/gh/hosts.yml\n\n" +
		"Set one with:\n  export GH_TOKEN=ghp_your_token_here")
}

// getGHConfigPath returns the path to gh CLI config file.
// Checks $XDG_CONFIG_HOME/gh/hosts.yml or ~/.config/gh/hosts.yml.
func getGHConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "gh", "hosts.yml")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "gh", "hosts.yml")
}

// parseGHHostsYAML extracts the oauth_token from gh CLI's hosts.yml file.
// Simple parser that looks for lines like "    oauth_token: ghp_..."
func parseGHHostsYAML(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "oauth_token:") {
			parts := strings.SplitN(line, "oauth_token:", 2)
			if len(parts) == 2 {
				token := strings.TrimSpace(parts[1])
				if token != "" {
					return token, nil
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return "", err
	}

	return "", nil
}
