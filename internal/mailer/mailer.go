// Package mailer delivers account emails such as verification and password reset links.
package mailer

import (
	"context"
	"log/slog"
)

// Kind identifies the template of an outgoing message.
type Kind string

const (
	KindEmailVerification Kind = "email_verification"
	KindPasswordReset     Kind = "password_reset"
)

// Message is an outgoing account email. Link carries a plain temporary token and must not be logged.
type Message struct {
	To      string
	Subject string
	Kind    Kind
	Link    string
}

// Mailer delivers messages to users.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer records deliveries in the application log instead of sending them.
type LogMailer struct {
	logger *slog.Logger
}

// Send logs the delivery without the link.
func (l *LogMailer) Send(ctx context.Context, msg Message) error {
	l.logger.LogAttrs(ctx, slog.LevelInfo, "email delivered",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("kind", string(msg.Kind)),
	)
	return nil
}

// NewLogMailer creates a LogMailer writing to logger.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}
