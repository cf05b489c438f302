package logsink

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/UBC-CIC/first-responder-admin/internal/notifications/domain"
)

func TestSink(t *testing.T) {
	var buf bytes.Buffer
	sink := New(slog.New(slog.NewTextHandler(&buf, nil)))
	ctx := context.Background()

	assert.NoError(t, sink.SendSMS(ctx, domain.SMS{PhoneNumber: "+1", Body: "page"}))
	assert.NoError(t, sink.SendEmail(ctx, domain.Email{To: "a@b", Subject: "subject line"}))
	assert.ErrorIs(t, sink.SendSMS(ctx, domain.SMS{}), domain.ErrRecipientRequired)

	assert.Contains(t, buf.String(), "body=page")
	assert.Contains(t, buf.String(), `subject="subject line"`)
}
