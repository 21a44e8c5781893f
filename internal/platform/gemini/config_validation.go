package gemini

import (
	"fmt"
	"strings"

	"github.com/phrazzld/newsdesk/internal/config"
	"github.com/phrazzld/newsdesk/internal/generation"
)

// validateDirectConfig checks the settings DirectClient cannot run without.
func validateDirectConfig(cfg config.LLMConfig, profiles map[string]string) error {
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	for ref, instruction := range profiles {
		if strings.TrimSpace(ref) == "" {
			return fmt.Errorf("%w: profile reference cannot be empty", generation.ErrInvalidConfig)
		}
		if strings.TrimSpace(instruction) == "" {
			return fmt.Errorf("%w: profile %s has no instruction", generation.ErrInvalidConfig, ref)
		}
	}
	return nil
}
