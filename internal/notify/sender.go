// Package notify delivers customer messages (OTP codes, order confirmations,
// cart reminders). Delivery is fire-and-forget: failures are logged and never
// surface to the operation that triggered them.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Sender delivers a text message to a phone number.
type Sender interface {
	Send(ctx context.Context, phone, text string) error
}

// LogSender writes messages to the log instead of a real channel.
type LogSender struct {
	logger zerolog.Logger
}

// NewLogSender creates a sender that only logs.
func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{
		logger: logger.With().Str("component", "notify").Logger(),
	}
}

// Send logs the delivery without its text, which may carry an OTP.
func (s *LogSender) Send(ctx context.Context, phone, text string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send cancelled: %w", err)
	}

	s.logger.Info().Str("phone", maskPhone(phone)).Int("length", len(text)).Msg("message sent")
	return nil
}

// AsyncSender dispatches each message on its own goroutine with a timeout.
type AsyncSender struct {
	next    Sender
	timeout time.Duration
	logger  zerolog.Logger
}

// NewAsyncSender wraps next so Send returns immediately.
func NewAsyncSender(next Sender, timeout time.Duration, logger zerolog.Logger) *AsyncSender {
	return &AsyncSender{
		next:    next,
		timeout: timeout,
		logger:  logger.With().Str("component", "async-notify").Logger(),
	}
}

// Send hands the message to the wrapped sender in the background and always returns nil.
// The caller's context only contributes its values; its cancellation does not stop delivery.
func (s *AsyncSender) Send(ctx context.Context, phone, text string) error {
	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		if err := s.next.Send(sendCtx, phone, text); err != nil {
			s.logger.Warn().Err(err).Str("phone", maskPhone(phone)).Msg("message delivery failed")
		}
	}()
	return nil
}

// maskPhone keeps the last four digits.
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	masked := make([]byte, len(phone))
	for i := range masked {
		masked[i] = '*'
	}
	copy(masked[len(phone)-4:], phone[len(phone)-4:])
	return string(masked)
}
