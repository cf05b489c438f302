package subscribers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/UBC-CIC/first-responder-admin/internal/meetings/domain"
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/eventbus"
)

// SnapshotStore keeps the latest snapshot per meeting.
type SnapshotStore interface {
	// Get returns nil, nil for an unknown meeting.
	Get(ctx context.Context, meetingID string) (*domain.Snapshot, error)
	// PutIfNewer stores snap only when its version is higher than the
	// stored one and reports whether it did.
	PutIfNewer(ctx context.Context, snap domain.Snapshot) (bool, error)
}

// MeetingFeed mirrors meeting change events into a snapshot store for
// dashboards. Redeliveries and out-of-order deliveries are dropped by version.
type MeetingFeed struct {
	store  SnapshotStore
	logger *slog.Logger
}

// NewMeetingFeed creates the feed consumer.
func NewMeetingFeed(store SnapshotStore, logger *slog.Logger) *MeetingFeed {
	if logger == nil {
		logger = slog.Default()
	}
	return &MeetingFeed{store: store, logger: logger}
}

// EventTypes returns the routing keys the feed consumes.
func (f *MeetingFeed) EventTypes() []string {
	return []string{
		domain.RoutingKeyMeetingCreated,
		domain.RoutingKeyMeetingUpdated,
	}
}

// Handle stores the snapshot carried by event.
func (f *MeetingFeed) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var snap domain.Snapshot
	if err := json.Unmarshal(event.Payload, &snap); err != nil {
		f.logger.Error("dropping undecodable meeting event",
			"event_id", event.EventID,
			"routing_key", event.RoutingKey,
			"error", err,
		)
		return nil
	}
	if snap.MeetingID == "" {
		snap.MeetingID = event.AggregateID
	}

	stored, err := f.store.PutIfNewer(ctx, snap)
	if err != nil {
		return err
	}
	if !stored {
		f.logger.Debug("stale meeting event ignored",
			"meeting_id", snap.MeetingID,
			"version", snap.Version,
			"event_id", event.EventID,
		)
		return nil
	}

	f.logger.Info("meeting feed updated",
		"meeting_id", snap.MeetingID,
		"version", snap.Version,
		"meeting_status", snap.Status,
		"attendees", len(snap.Attendees),
	)
	return nil
}

// Latest returns the most recent snapshot seen for a meeting.
func (f *MeetingFeed) Latest(ctx context.Context, meetingID string) (*domain.Snapshot, error) {
	return f.store.Get(ctx, meetingID)
}
