package application

import (
	"context"

	"github.com/UBC-CIC/first-responder-admin/internal/shared/domain"
	"github.com/UBC-CIC/first-responder-admin/pkg/observability"
	"github.com/google/uuid"
)

type metadataSetter interface {
	SetMetadata(metadata domain.EventMetadata)
}

// NewEventMetadata builds event metadata from the request context. The
// correlation id of the triggering request is reused when present.
func NewEventMetadata(ctx context.Context, source string) domain.EventMetadata {
	correlationID := observability.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	causationID := observability.RequestIDFromContext(ctx)
	if causationID == "" {
		causationID = uuid.NewString()
	}
	return domain.EventMetadata{
		CorrelationID: correlationID,
		CausationID:   causationID,
		Source:        source,
	}
}

// ApplyEventMetadata sets metadata on all events that support it.
func ApplyEventMetadata(events []domain.DomainEvent, metadata domain.EventMetadata) {
	for _, event := range events {
		if setter, ok := event.(metadataSetter); ok {
			setter.SetMetadata(metadata)
		}
	}
}
