// -- internal/llmclient/factory.go --
package llmclient

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
	"github.com/wheelhouse-ai/wheelhouse/internal/config"
)

// ollamaDefaultEndpoint is Ollama's OpenAI compatible API root.
const ollamaDefaultEndpoint = "http://localhost:11434/v1"

// New builds a tier routing LLM client from the router configuration. The
// default fast and powerful model names are resolved against the Models map;
// names without an entry are assumed to be Gemini models.
func New(cfg config.LLMRouterConfig, logger *zap.Logger) (schemas.LLMClient, error) {
	fastCfg := resolveModel(cfg, cfg.DefaultFastModel)
	powerfulCfg := resolveModel(cfg, cfg.DefaultPowerfulModel)

	fastClient, err := newProviderClient(fastCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("building fast tier client %q: %w", cfg.DefaultFastModel, err)
	}

	powerfulClient := fastClient
	if cfg.DefaultPowerfulModel != cfg.DefaultFastModel {
		powerfulClient, err = newProviderClient(powerfulCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("building powerful tier client %q: %w", cfg.DefaultPowerfulModel, err)
		}
	}

	return NewLLMRouter(logger, fastClient, powerfulClient)
}

// resolveModel looks a model name up in the Models map, falling back to a
// bare Gemini config when no entry exists.
func resolveModel(cfg config.LLMRouterConfig, name string) config.LLMModelConfig {
	if mc, ok := cfg.Models[name]; ok {
		if mc.Model == "" {
			mc.Model = name
		}
		return mc
	}
	return config.LLMModelConfig{
		Provider: config.ProviderGemini,
		Model:    name,
	}
}

// newProviderClient creates a single-provider client for the given model.
func newProviderClient(mc config.LLMModelConfig, logger *zap.Logger) (schemas.LLMClient, error) {
	switch mc.Provider {
	case config.ProviderGemini:
		return NewGeminiClient(mc, logger)
	case config.ProviderOpenAI:
		return NewOpenAIClient(mc, logger)
	case config.ProviderOllama:
		// Ollama needs no real key and serves the OpenAI protocol locally.
		if mc.Endpoint == "" {
			mc.Endpoint = ollamaDefaultEndpoint
		}
		if mc.APIKey == "" {
			mc.APIKey = "ollama"
		}
		return NewOpenAIClient(mc, logger)
	default:
		return nil, fmt.Errorf("unknown or unsupported LLM provider configured: %q. Supported: [%s, %s, %s]",
			mc.Provider, config.ProviderGemini, config.ProviderOpenAI, config.ProviderOllama)
	}
}
