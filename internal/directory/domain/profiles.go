// Package domain holds the read-mostly people directories used to enrich
// meeting attendees.
package domain

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrPhoneRequired    = errors.New("phone number is required")
	ErrUsernameRequired = errors.New("username is required")
	ErrProfileExists    = errors.New("profile already exists")
)

// FirstResponder is a field responder keyed by phone number.
type FirstResponder struct {
	PhoneNumber  string `json:"phone_number"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Occupation   string `json:"occupation"`
	Organization string `json:"organization"`
}

// Validate checks the required key.
func (p FirstResponder) Validate() error {
	if strings.TrimSpace(p.PhoneNumber) == "" {
		return ErrPhoneRequired
	}
	return nil
}

// ServiceDeskAgent is a dispatcher keyed by username.
type ServiceDeskAgent struct {
	Username    string `json:"username"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
}

// Validate checks the required key.
func (p ServiceDeskAgent) Validate() error {
	if strings.TrimSpace(p.Username) == "" {
		return ErrUsernameRequired
	}
	return nil
}

// FirstResponderRepository stores first responder profiles. Lookups return
// nil, nil when nothing matches.
type FirstResponderRepository interface {
	Create(ctx context.Context, p FirstResponder) error
	FindByPhone(ctx context.Context, phone string) (*FirstResponder, error)
	List(ctx context.Context) ([]FirstResponder, error)
}

// ServiceDeskRepository stores service desk profiles.
type ServiceDeskRepository interface {
	Create(ctx context.Context, p ServiceDeskAgent) error
	FindByUsername(ctx context.Context, username string) (*ServiceDeskAgent, error)
	List(ctx context.Context) ([]ServiceDeskAgent, error)
}
