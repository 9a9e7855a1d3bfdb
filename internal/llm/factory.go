package llm

import (
	"fmt"

	"invox/internal/config"
	"invox/internal/port"
)

// ProviderFactory is a function that creates a ChatCompleter from an LLM config.
type ProviderFactory func(cfg *config.LLMConfig) (port.ChatCompleter, error)

// registry of chat provider factories, populated via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a chat provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewCompleter creates a ChatCompleter from config using the registered factory.
func NewCompleter(cfg *config.LLMConfig) (port.ChatCompleter, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
