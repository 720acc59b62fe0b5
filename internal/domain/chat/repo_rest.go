package chat

import (
	"context"
	"strings"

	"github.com/hms/portal/internal/platform/apiclient"
)

type assistantREST struct {
	api *apiclient.Client
}

// NewAssistant returns an Assistant backed by POST /chat.
func NewAssistant(api *apiclient.Client) Assistant {
	return &assistantREST{api: api}
}

func (a *assistantREST) Ask(ctx context.Context, prompt string) (string, error) {
	var reply string
	if err := a.api.Post(ctx, "/chat", Prompt{Prompt: prompt}, &reply); err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}
