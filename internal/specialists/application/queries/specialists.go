// Package queries serves specialist read models.
package queries

import (
	"context"

	"github.com/samber/lo"

	"github.com/UBC-CIC/first-responder-admin/internal/specialists/domain"
)

// SpecialistDTO is the external view of a profile.
type SpecialistDTO struct {
	PhoneNumber  string              `json:"phone_number"`
	FirstName    string              `json:"first_name"`
	LastName     string              `json:"last_name"`
	Email        string              `json:"email,omitempty"`
	Organization string              `json:"organization,omitempty"`
	Occupation   string              `json:"occupation,omitempty"`
	Notes        string              `json:"notes,omitempty"`
	PictureURL   string              `json:"profile_picture,omitempty"`
	Location     *domain.Coordinates `json:"location,omitempty"`
	UserStatus   domain.UserStatus   `json:"user_status"`
	CallStatus   domain.CallStatus   `json:"call_status"`
	Availability domain.Availability `json:"availability"`
}

// ToDTO flattens a profile.
func ToDTO(p *domain.Profile) SpecialistDTO {
	d := p.Details()
	return SpecialistDTO{
		PhoneNumber:  p.PhoneNumber(),
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		Organization: d.Organization,
		Occupation:   d.Occupation,
		Notes:        d.Notes,
		PictureURL:   d.PictureURL,
		Location:     d.Location,
		UserStatus:   p.UserStatus(),
		CallStatus:   p.CallStatus(),
		Availability: p.Availability(),
	}
}

// ListSpecialistsQuery optionally filters by user status.
type ListSpecialistsQuery struct {
	Status domain.UserStatus
}

type ListSpecialistsHandler struct {
	repo domain.Repository
}

func NewListSpecialistsHandler(repo domain.Repository) *ListSpecialistsHandler {
	return &ListSpecialistsHandler{repo: repo}
}

func (h *ListSpecialistsHandler) Handle(ctx context.Context, q ListSpecialistsQuery) ([]SpecialistDTO, error) {
	var (
		profiles []*domain.Profile
		err      error
	)
	if q.Status != "" {
		if !q.Status.IsValid() {
			return nil, domain.ErrInvalidStatus
		}
		profiles, err = h.repo.ListByUserStatus(ctx, q.Status)
	} else {
		profiles, err = h.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	return lo.Map(profiles, func(p *domain.Profile, _ int) SpecialistDTO { return ToDTO(p) }), nil
}

type GetSpecialistHandler struct {
	repo domain.Repository
}

func NewGetSpecialistHandler(repo domain.Repository) *GetSpecialistHandler {
	return &GetSpecialistHandler{repo: repo}
}

// Handle returns ErrProfileNotFound for an unknown phone number.
func (h *GetSpecialistHandler) Handle(ctx context.Context, phone string) (*SpecialistDTO, error) {
	p, err := h.repo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProfileNotFound
	}
	dto := ToDTO(p)
	return &dto, nil
}
