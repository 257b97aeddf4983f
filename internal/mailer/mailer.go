package mailer

import (
	"context"
	"log"
)

// Mailer is the outbound-email boundary. Delivery transport lives outside
// this service; handlers only ever see this interface.
type Mailer interface {
	SendAccountConfirmation(ctx context.Context, email, token string) error
	SendPasswordRecovery(ctx context.Context, email, token string) error
}

// DevConsoleMailer logs instead of sending; used in development and tests.
type DevConsoleMailer struct {
	enabled bool
}

func NewDevConsoleMailer(enabled bool) *DevConsoleMailer {
	return &DevConsoleMailer{enabled: enabled}
}

func (m *DevConsoleMailer) SendAccountConfirmation(_ context.Context, email, token string) error {
	if m.enabled {
		log.Printf("[DEV-EMAIL] account confirmation email=%s token=%s", email, token)
	}
	return nil
}

func (m *DevConsoleMailer) SendPasswordRecovery(_ context.Context, email, token string) error {
	if m.enabled {
		log.Printf("[DEV-EMAIL] password recovery email=%s token=%s", email, token)
	}
	return nil
}
