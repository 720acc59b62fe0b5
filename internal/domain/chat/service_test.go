package chat

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type mockAssistant struct {
	reply string
	err   error
	got   []string
}

func (m *mockAssistant) Ask(_ context.Context, prompt string) (string, error) {
	m.got = append(m.got, prompt)
	return m.reply, m.err
}

func TestService_Ask(t *testing.T) {
	tests := []struct {
		name    string
		prompt  string
		reply   string
		backend error
		wantErr error
		sent    string
	}{
		{"answers", "  Is fever with chills serious?  ", "See a doctor if it lasts.", nil, nil, "Is fever with chills serious?"},
		{"empty", "   ", "", nil, ErrEmptyPrompt, ""},
		{"too long", strings.Repeat("ä", MaxPromptLength+1), "", nil, ErrPromptTooLong, ""},
		{"at limit", strings.Repeat("ä", MaxPromptLength), "ok", nil, nil, strings.Repeat("ä", MaxPromptLength)},
		{"blank answer", "hello", "", nil, ErrNoAnswer, "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockAssistant{reply: tt.reply, err: tt.backend}
			got, err := NewService(m, zerolog.Nop()).Ask(context.Background(), tt.prompt)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if err == nil && got != tt.reply {
				t.Errorf("expected reply %q, got %q", tt.reply, got)
			}
			if tt.sent == "" && len(m.got) != 0 {
				t.Errorf("invalid prompt must not reach the backend")
			}
			if tt.sent != "" && (len(m.got) != 1 || m.got[0] != tt.sent) {
				t.Errorf("expected %q sent, got %v", tt.sent, m.got)
			}
		})
	}
}

func TestService_Ask_BackendFailureLogged(t *testing.T) {
	var buf bytes.Buffer
	m := &mockAssistant{err: errors.New("connection refused")}
	_, err := NewService(m, zerolog.New(&buf)).Ask(context.Background(), "my private symptoms")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(buf.String(), "chat assistant failed") {
		t.Errorf("expected warning, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "private symptoms") {
		t.Error("prompt text must not be logged")
	}
}
