// Package queries serves read models of meetings.
package queries

import (
	"context"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
)

// ListMeetingsQuery filters the meeting list. An empty status lists both
// active and closed meetings, newest first.
type ListMeetingsQuery struct {
	Status domain.Status
	Phone  string
	Limit  int
}

// ListMeetingsHandler handles ListMeetingsQuery.
type ListMeetingsHandler struct {
	repo domain.Repository
}

func NewListMeetingsHandler(repo domain.Repository) *ListMeetingsHandler {
	return &ListMeetingsHandler{repo: repo}
}

func (h *ListMeetingsHandler) Handle(ctx context.Context, q ListMeetingsQuery) ([]domain.Snapshot, error) {
	statuses := []domain.Status{domain.StatusActive, domain.StatusClosed}
	if q.Status != "" {
		if !q.Status.IsValid() {
			return nil, domain.ErrInvalidStatus
		}
		statuses = []domain.Status{q.Status}
	}

	var meetings []*domain.Meeting
	for _, s := range statuses {
		found, err := h.repo.ListByStatus(ctx, s)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, found...)
	}

	if phone := strings.TrimSpace(q.Phone); phone != "" {
		meetings = lo.Filter(meetings, func(m *domain.Meeting, _ int) bool { return m.HasPhone(phone) })
	}
	sort.SliceStable(meetings, func(i, j int) bool {
		return meetings[i].CreatedAt().After(meetings[j].CreatedAt())
	})
	if q.Limit > 0 && len(meetings) > q.Limit {
		meetings = meetings[:q.Limit]
	}
	return lo.Map(meetings, func(m *domain.Meeting, _ int) domain.Snapshot { return m.Snapshot() }), nil
}

// GetMeetingHandler loads one meeting by id or, failing that, by the dial-in
// code of an active meeting.
type GetMeetingHandler struct {
	repo domain.Repository
}

func NewGetMeetingHandler(repo domain.Repository) *GetMeetingHandler {
	return &GetMeetingHandler{repo: repo}
}

func (h *GetMeetingHandler) Handle(ctx context.Context, id string) (*domain.Snapshot, error) {
	m, err := h.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		active, err := h.repo.ListByStatus(ctx, domain.StatusActive)
		if err != nil {
			return nil, err
		}
		var ok bool
		m, ok = lo.Find(active, func(m *domain.Meeting) bool { return m.ExternalID() == id })
		if !ok {
			return nil, domain.ErrMeetingNotFound
		}
	}
	snap := m.Snapshot()
	return &snap, nil
}
