// pkg/httpclient/tls_helper.go

package httpclient

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// buildTLSConfig translates the TLSConfig section into a tls.Config.
// Certificate validation stays on unless InsecureSkipVerify is set
// explicitly.
func buildTLSConfig(config *TLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: config.InsecureSkipVerify,
		MinVersion:         config.MinVersion,
		MaxVersion:         config.MaxVersion,
		CipherSuites:       config.CipherSuites,
	}

	if tlsConfig.MinVersion == 0 {
		tlsConfig.MinVersion = tls.VersionTLS12
	}

	if config.RootCAFile != "" {
		caCert, err := os.ReadFile(config.RootCAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate from %s: %w", config.RootCAFile, err)
		}

		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA certificate from %s", config.RootCAFile)
		}

		tlsConfig.RootCAs = caCertPool
	}

	if config.ClientCertFile != "" && config.ClientKeyFile != "" {
		cert, err := tls.LoadX509KeyPair(config.ClientCertFile, config.ClientKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// SecureTLSConfig creates a TLS configuration that validates server
// certificates against the given CA file, or the system pool when the
// path is empty.
func SecureTLSConfig(caCertPath string) (*tls.Config, error) {
	return buildTLSConfig(&TLSConfig{RootCAFile: caCertPath})
}
