// Package sender bounds outgoing chat messages before they reach a transport.
package sender

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"lampbot/pkg/logger"
)

const ellipsis = "..."

// Transport delivers a text message to a chat.
type Transport interface {
	Deliver(ctx context.Context, chatID int64, text string) error
}

// Sender truncates text to a maximum length and hands it to a Transport.
// Callers that produce lists should pre-split them; truncation drops
// the tail of the message.
type Sender struct {
	log       *logger.Logger
	transport Transport
	maxLength int
}

// New creates a sender. maxLength is measured in characters.
func New(log *logger.Logger, transport Transport, maxLength int) *Sender {
	return &Sender{
		log:       log,
		transport: transport,
		maxLength: maxLength,
	}
}

// Send truncates text if needed and delivers it.
func (s *Sender) Send(ctx context.Context, chatID int64, text string) error {
	out := Truncate(text, s.maxLength)
	if len(out) != len(text) {
		s.log.Warn("Message too long, truncating",
			zap.Int("length", len([]rune(text))),
			zap.Int("max", s.maxLength))
	}

	s.log.Debug("Sending message",
		zap.Int64("chat_id", chatID),
		zap.Int("length", len([]rune(out))))

	if err := s.transport.Deliver(ctx, chatID, out); err != nil {
		return fmt.Errorf("delivering message: %w", err)
	}
	return nil
}

// Truncate shortens text to maxLength characters, replacing the tail with
// "...". Text within the limit, or a non-positive limit, is returned as is.
func Truncate(text string, maxLength int) string {
	if maxLength <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	if maxLength <= len(ellipsis) {
		return ellipsis[:maxLength]
	}
	return string(runes[:maxLength-len(ellipsis)]) + ellipsis
}
