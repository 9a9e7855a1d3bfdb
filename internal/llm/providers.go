package llm

import (
	"invox/internal/config"
	"invox/internal/llm/anthropic"
	"invox/internal/llm/openai"
	"invox/internal/port"
)

func init() {
	RegisterProvider("openai", func(cfg *config.LLMConfig) (port.ChatCompleter, error) {
		return openai.NewClient(cfg), nil
	})
	RegisterProvider("anthropic", func(cfg *config.LLMConfig) (port.ChatCompleter, error) {
		return anthropic.NewClient(cfg), nil
	})
}
