package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, SMS{PhoneNumber: "+16045550001"}.Validate())
	assert.ErrorIs(t, SMS{PhoneNumber: "  "}.Validate(), ErrRecipientRequired)
	assert.NoError(t, Email{To: "a@example.org"}.Validate())
	assert.ErrorIs(t, Email{}.Validate(), ErrRecipientRequired)
}
