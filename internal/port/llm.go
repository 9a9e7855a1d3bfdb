package port

import "context"

// ChatCompleter sends one chat-completion request with a system prompt and
// user content and returns the raw text of the model's reply. Exactly one
// attempt is made per call; callers decide what a failure means.
type ChatCompleter interface {
	Complete(ctx context.Context, systemPrompt, userContent string) (string, error)
}
