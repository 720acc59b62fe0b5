package chat

import "context"

// Assistant is the backend's chat endpoint. It answers in plain text.
type Assistant interface {
	Ask(ctx context.Context, prompt string) (string, error)
}
