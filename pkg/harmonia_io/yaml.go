/* pkg/harmonia_io/yaml.go */

package harmonia_io

import (
	"context"
	"fmt"
	"os"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// WriteYAML writes data to a YAML file with structured logging
func WriteYAML(ctx context.Context, filePath string, in interface{}) error {
	logger := otelzap.Ctx(ctx)
	logger.Debug("📝 Writing YAML file", zap.String("path", filePath))

	data, err := yaml.Marshal(in)
	if err != nil {
		logger.Error("❌ Failed to marshal YAML", zap.Error(err))
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0600); err != nil {
		logger.Error("❌ Failed to write YAML file",
			zap.String("path", filePath),
			zap.Error(err))
		return fmt.Errorf("failed to write YAML file: %w", err)
	}

	logger.Debug("✅ YAML file written successfully",
		zap.String("path", filePath),
		zap.Int("size", len(data)))
	return nil
}

// ReadYAML reads a YAML file into the provided interface with structured logging
func ReadYAML(ctx context.Context, filePath string, out interface{}) error {
	logger := otelzap.Ctx(ctx)
	logger.Debug("📖 Reading YAML file", zap.String("path", filePath))

	data, err := os.ReadFile(filePath)
	if err != nil {
		logger.Error("❌ Failed to read YAML file",
			zap.String("path", filePath),
			zap.Error(err))
		return fmt.Errorf("failed to read YAML file: %w", err)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		logger.Error("❌ Failed to unmarshal YAML",
			zap.String("path", filePath),
			zap.Error(err))
		return fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	logger.Debug("✅ YAML file read successfully",
		zap.String("path", filePath),
		zap.Int("size", len(data)))
	return nil
}
