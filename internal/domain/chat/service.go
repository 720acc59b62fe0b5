package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

var (
	ErrEmptyPrompt   = errors.New("prompt is required")
	ErrPromptTooLong = fmt.Errorf("prompt must be at most %d characters", MaxPromptLength)
	ErrNoAnswer      = errors.New("assistant returned an empty answer")
)

type Service struct {
	assistant Assistant
	logger    zerolog.Logger
}

func NewService(assistant Assistant, logger zerolog.Logger) *Service {
	return &Service{assistant: assistant, logger: logger}
}

// Ask sends prompt to the assistant. The prompt text is never logged.
func (s *Service) Ask(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}
	if utf8.RuneCountInString(prompt) > MaxPromptLength {
		return "", ErrPromptTooLong
	}

	start := time.Now()
	reply, err := s.assistant.Ask(ctx, prompt)
	if err != nil {
		s.logger.Warn().Err(err).Dur("latency", time.Since(start)).Msg("chat assistant failed")
		return "", err
	}
	if reply == "" {
		s.logger.Warn().Dur("latency", time.Since(start)).Msg("chat assistant returned nothing")
		return "", ErrNoAnswer
	}
	s.logger.Debug().
		Int("prompt_len", len(prompt)).
		Int("reply_len", len(reply)).
		Dur("latency", time.Since(start)).
		Msg("chat answered")
	return reply, nil
}
