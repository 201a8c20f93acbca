// pkg/httpclient/httpclient.go

package httpclient

import (
	"fmt"
	"net/http"
	"os"
	"sync"
)

var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

// DefaultClient returns the shared client used across Harmonia when a
// caller has no reason to carry its own configuration.
func DefaultClient() *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultClient == nil {
		client, err := NewClient(defaultClientConfig())
		if err != nil {
			// DefaultConfig is always valid; reaching this means the
			// insecure-TLS override produced a broken config.
			panic(fmt.Sprintf("httpclient: failed to build default client: %v", err))
		}
		defaultClient = client
	}

	return defaultClient
}

// DefaultHTTPClient exposes the underlying net/http client for callers
// that need to hand a *http.Client to another library.
func DefaultHTTPClient() *http.Client {
	return DefaultClient().httpClient
}

// SetDefaultClient replaces the shared client, mainly for tests.
func SetDefaultClient(client *Client) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultClient = client
}

// SetDefaultHTTPClient swaps the transport of the shared client for a
// plain net/http client while keeping the default configuration.
func SetDefaultHTTPClient(client *http.Client) error {
	if client == nil {
		return fmt.Errorf("http client must not be nil")
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultClient = &Client{
		config:     DefaultConfig(),
		httpClient: client,
	}
	return nil
}

// defaultClientConfig allows insecure TLS only when explicitly requested
// through the environment, for development against self-signed services.
func defaultClientConfig() *Config {
	config := DefaultConfig()
	if os.Getenv("HARMONIA_INSECURE_TLS") == "true" || os.Getenv("GO_ENV") == "test" {
		config.TLSConfig.InsecureSkipVerify = true
	}
	return config
}
