package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_NoHostDisablesMail(t *testing.T) {
	assert.Nil(t, New("", 587, "", "", "noreply@example.com", "VIP Tickets"))
}

func TestNew_WithHost(t *testing.T) {
	m := New("smtp.example.com", 587, "user", "pass", "noreply@example.com", "VIP Tickets")
	assert.NotNil(t, m)
}
