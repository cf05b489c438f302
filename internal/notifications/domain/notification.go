// Package domain defines the outbound messages sent to paged specialists.
package domain

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrRecipientRequired   = errors.New("notification recipient is required")
	ErrNotifierUnavailable = errors.New("notification channel unavailable")
)

// SMS is a text message to one phone number.
type SMS struct {
	PhoneNumber string `json:"phone_number"`
	Body        string `json:"body"`
}

// Validate checks the message can be addressed.
func (s SMS) Validate() error {
	if strings.TrimSpace(s.PhoneNumber) == "" {
		return ErrRecipientRequired
	}
	return nil
}

// Email is an HTML mail with a plain text alternative.
type Email struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Validate checks the message can be addressed.
func (e Email) Validate() error {
	if strings.TrimSpace(e.To) == "" {
		return ErrRecipientRequired
	}
	return nil
}

type SMSSender interface {
	SendSMS(ctx context.Context, msg SMS) error
}

type EmailSender interface {
	SendEmail(ctx context.Context, msg Email) error
}
