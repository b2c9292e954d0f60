package ident

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistrationCode_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := RegistrationCode()
		assert.True(t, ValidRegistrationCode(code), "bad code %q", code)
	}
}

func TestTicketID_Format(t *testing.T) {
	id := TicketID(42, 7)
	assert.True(t, ValidTicketID(id), "bad ticket id %q", id)
	assert.True(t, strings.Contains(id, "-42-7-"))
}

func TestTicketID_Unique(t *testing.T) {
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		id := TicketID(1, 1)
		assert.False(t, seen[id], "duplicate ticket id %q", id)
		seen[id] = true
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"World Tour 2026", "World_Tour_2026"},
		{"../../etc/passwd", "etcpasswd"},
		{"a/b\\c", "abc"},
		{"  spaced  out  ", "spaced_out"},
		{"dots...", "dots"},
		{"Olivia O'Neil", "Olivia_ONeil"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeFilename(tc.in), "input %q", tc.in)
	}
}

func TestSanitizeFilename_NoTraversal(t *testing.T) {
	out := SanitizeFilename("../../../../secret.pdf")
	assert.NotContains(t, out, "/")
	assert.NotContains(t, out, "..")
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("fan@example.com"))
	assert.True(t, ValidEmail("first.last+tag@sub.example.co.uk"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("missing@tld"))
	assert.False(t, ValidEmail("@example.com"))
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone(""))
	assert.True(t, ValidPhone("1234567890"))
	assert.True(t, ValidPhone("(123) 456-7890"))
	assert.True(t, ValidPhone("+1 234 567 8901"))
	assert.False(t, ValidPhone("12345"))
	assert.False(t, ValidPhone("phone"))
}
