package commands

import (
	"context"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
)

// AnnotateMeetingCommand sets the operator notes of a meeting.
type AnnotateMeetingCommand struct {
	MeetingID string
	Title     string
	Comments  string
}

// AnnotateMeetingHandler handles AnnotateMeetingCommand. Closed meetings can
// still be annotated for the record.
type AnnotateMeetingHandler struct {
	registry Registry
}

func NewAnnotateMeetingHandler(registry Registry) *AnnotateMeetingHandler {
	return &AnnotateMeetingHandler{registry: registry}
}

func (h *AnnotateMeetingHandler) Handle(ctx context.Context, cmd AnnotateMeetingCommand) (*domain.Meeting, error) {
	return h.registry.AnnotateMeeting(ctx, cmd.MeetingID, cmd.Title, cmd.Comments)
}
