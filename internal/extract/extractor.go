// Package extract turns OCR text into structured invoice data by sending it
// to a chat-completion model with an extraction prompt.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"invox/internal/domain"
	"invox/internal/port"
)

// Extractor sends OCR text to a ChatCompleter and interprets the reply.
type Extractor struct {
	completer port.ChatCompleter
	prompt    string
}

// NewExtractor creates an Extractor with the given extraction prompt.
func NewExtractor(completer port.ChatCompleter, prompt string) *Extractor {
	return &Extractor{completer: completer, prompt: prompt}
}

var _ port.FieldExtractor = (*Extractor)(nil)

// Extract runs one extraction over structuredText. A transport or API error
// is returned to the caller; a reply that is not valid JSON is NOT an error
// and is downgraded to the raw-text fallback.
func (e *Extractor) Extract(ctx context.Context, structuredText string) (*port.Extraction, error) {
	reply, err := e.completer.Complete(ctx, e.prompt, structuredText)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	candidate := StripCodeFence(reply)
	if json.Valid([]byte(candidate)) {
		data := json.RawMessage(candidate)
		ok := ValidateAdvisory(data)
		if !ok {
			log.Printf("extractor: reply does not match advisory invoice schema, keeping as-is")
		}
		return &port.Extraction{Data: data, SchemaOK: ok}, nil
	}

	log.Printf("extractor: reply is not valid JSON, falling back to %s", domain.RawTextKey)
	fallback, err := json.Marshal(map[string]string{domain.RawTextKey: reply})
	if err != nil {
		return nil, fmt.Errorf("marshaling raw-text fallback: %w", err)
	}
	return &port.Extraction{Data: fallback, SchemaOK: false}, nil
}

// StripCodeFence removes a wrapping markdown code fence (``` or ```json)
// from a model reply. Models add these despite being told not to.
func StripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag line (e.g. "json").
		firstLine := strings.TrimSpace(trimmed[:idx])
		if firstLine == "" || isLanguageTag(firstLine) {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
