// Package relay hands text messages to an SMS gateway listening on the bus.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/UBC-CIC/first-responder-admin/internal/notifications/domain"
	"github.com/UBC-CIC/first-responder-admin/internal/shared/infrastructure/eventbus"
	"github.com/UBC-CIC/first-responder-admin/pkg/observability"
)

// DefaultRoutingKey is where SMS requests are published.
const DefaultRoutingKey = "notifications.sms.requested"

const aggregateType = "SMS"

// SMSRelay implements domain.SMSSender by publishing a bus envelope.
type SMSRelay struct {
	publisher  eventbus.Publisher
	routingKey string
	logger     *slog.Logger
	metrics    observability.Metrics
	now        func() time.Time
}

// NewSMSRelay creates a relay. An empty routing key selects DefaultRoutingKey.
func NewSMSRelay(publisher eventbus.Publisher, routingKey string, logger *slog.Logger, metrics observability.Metrics) *SMSRelay {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if routingKey == "" {
		routingKey = DefaultRoutingKey
	}
	return &SMSRelay{
		publisher:  publisher,
		routingKey: routingKey,
		logger:     logger.With("component", "sms_relay"),
		metrics:    metrics,
		now:        time.Now,
	}
}

// SendSMS publishes msg. Delivery to the handset is up to the gateway.
func (r *SMSRelay) SendSMS(ctx context.Context, msg domain.SMS) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal sms: %w", err)
	}

	envelope, err := json.Marshal(eventbus.ConsumedEvent{
		EventID:       uuid.New(),
		AggregateID:   msg.PhoneNumber,
		AggregateType: aggregateType,
		RoutingKey:    r.routingKey,
		OccurredAt:    r.now().UTC(),
		Payload:       payload,
		Metadata: eventbus.EventMetadata{
			CorrelationID: observability.CorrelationIDFromContext(ctx),
			Source:        "specialist-paging",
		},
	})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	if err := r.publisher.Publish(ctx, r.routingKey, envelope); err != nil {
		r.metrics.Counter(observability.MetricNotificationsFailed, 1, observability.T("channel", "sms"))
		return fmt.Errorf("%w: publish sms: %v", domain.ErrNotifierUnavailable, err)
	}
	r.metrics.Counter(observability.MetricNotificationsSent, 1, observability.T("channel", "sms"))
	r.logger.Debug("sms published", "routing_key", r.routingKey)
	return nil
}
