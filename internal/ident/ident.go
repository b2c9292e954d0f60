// Package ident generates the human-facing identifiers used across the
// system: fan registration codes, ticket IDs and safe filenames.
package ident

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	regCodeRe  = regexp.MustCompile(`^VIP-[A-Z0-9]{8}$`)
	ticketRe   = regexp.MustCompile(`^TKT-\d{14}-\d+-\d+-[A-Z0-9]{4}$`)
	phoneCl    = regexp.MustCompile(`[\s\-()+]`)
	phoneRe    = regexp.MustCompile(`^\d{10,15}$`)
	unsafeRe   = regexp.MustCompile(`[^\w\s\-.]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// RegistrationCode returns a code of form VIP-XXXXXXXX. Global uniqueness
// is not guaranteed; callers must check persisted state and re-draw.
func RegistrationCode() string {
	return "VIP-" + randomString(8)
}

// TicketID returns a ticket identifier of form
// TKT-{YYYYMMDDHHMMSS}-{fanID}-{tourID}-{XXXX}. The random suffix keeps
// same-second requests distinct. Ticket IDs are not secrets.
func TicketID(fanID, tourID uint) string {
	timestamp := time.Now().Format("20060102150405")
	return fmt.Sprintf("TKT-%s-%d-%d-%s", timestamp, fanID, tourID, randomString(4))
}

// SanitizeFilename strips everything outside word characters, spaces,
// hyphens and dots, then collapses whitespace runs to underscores. The
// whitelist removes path separators, so the result cannot traverse
// directories.
func SanitizeFilename(name string) string {
	name = unsafeRe.ReplaceAllString(name, "")
	name = whitespace.ReplaceAllString(name, "_")
	return strings.Trim(name, "._")
}

// ValidEmail reports whether the address has a plausible mailbox format.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidPhone accepts common formats like (123) 456-7890 or 1234567890.
// Empty input is valid since phone is optional.
func ValidPhone(phone string) bool {
	if strings.TrimSpace(phone) == "" {
		return true
	}
	cleaned := phoneCl.ReplaceAllString(phone, "")
	return phoneRe.MatchString(cleaned)
}

// ValidRegistrationCode reports whether the code matches VIP-XXXXXXXX.
func ValidRegistrationCode(code string) bool {
	return regCodeRe.MatchString(code)
}

// ValidTicketID reports whether the value has the TicketID shape.
func ValidTicketID(id string) bool {
	return ticketRe.MatchString(id)
}

func randomString(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failure means the process has no usable
			// entropy source; nothing sensible to do but stop.
			panic(fmt.Sprintf("ident: crypto/rand failed: %v", err))
		}
		b[i] = codeAlphabet[idx.Int64()]
	}
	return string(b)
}
