package changefeed

import (
	"context"
	"log/slog"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	sharedApplication "github.com/UBC-CIC/first-responder-admin/internal/shared/application"
	sharedDomain "github.com/UBC-CIC/first-responder-admin/internal/shared/domain"
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/outbox"
)

const eventSource = "meeting-registry"

// Config controls which change events are published.
type Config struct {
	// SuppressUpdates drops meetings.meeting.updated events. Creations are
	// always published.
	SuppressUpdates bool
}

// Pipeline turns meeting state transitions into outbox messages. Record must
// be called with the transaction context of the meeting write so the event
// commits or rolls back with it.
type Pipeline struct {
	outboxRepo outbox.Repository
	config     Config
	logger     *slog.Logger
}

// NewPipeline creates a change notification pipeline.
func NewPipeline(outboxRepo outbox.Repository, config Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		outboxRepo: outboxRepo,
		config:     config,
		logger:     logger,
	}
}

// Events classifies a transition. A missing before is a creation, a missing
// after is a deletion and produces nothing.
func (p *Pipeline) Events(before, after *domain.Snapshot) []sharedDomain.DomainEvent {
	switch {
	case after == nil:
		return nil
	case before == nil:
		return []sharedDomain.DomainEvent{domain.NewMeetingCreated(*after)}
	case p.config.SuppressUpdates:
		return nil
	default:
		return []sharedDomain.DomainEvent{domain.NewMeetingUpdated(*before, *after)}
	}
}

// Record writes the events for a transition to the outbox.
func (p *Pipeline) Record(ctx context.Context, before, after *domain.Snapshot) error {
	events := p.Events(before, after)
	if len(events) == 0 {
		return nil
	}

	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, eventSource))

	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	if err := p.outboxRepo.SaveBatch(ctx, msgs); err != nil {
		return err
	}

	p.logger.Debug("meeting change recorded",
		"meeting_id", after.MeetingID,
		"version", after.Version,
		"routing_key", events[0].RoutingKey(),
	)
	return nil
}
