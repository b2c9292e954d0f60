// Package mailer sends outbound notification email over SMTP. Delivery
// is best-effort: failures are logged by callers and never roll back
// the operation that triggered the mail.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type Mailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

// New returns a Mailer, or nil when host is empty so callers can treat
// mail as disabled.
func New(host string, port int, username, password, from, fromName string) *Mailer {
	if host == "" {
		return nil
	}
	return &Mailer{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     from,
		fromName: fromName,
	}
}

func (m *Mailer) send(to, subject, htmlBody, textBody string, attachments ...string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(m.from, m.fromName))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	msg.AddAlternative("text/html", htmlBody)
	for _, path := range attachments {
		msg.Attach(path)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// SendRegistration delivers the welcome mail with the fan's code.
func (m *Mailer) SendRegistration(to, fanName, registrationCode string) error {
	subject := "Welcome to VIP Tickets!"
	html := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<h1 style="color: #D4AF37;">Welcome, %s!</h1>
<p>Thank you for registering for VIP tickets.</p>
<p>Your registration code is: <strong style="color: #D4AF37; font-size: 18px;">%s</strong></p>
<p>Next steps:</p>
<ol>
<li>Select up to 5 tours you'd like to attend</li>
<li>Complete the consent form</li>
<li>Download your VIP tickets</li>
</ol>
<p>We're excited to see you at the shows!</p>
</div></body></html>`, fanName, registrationCode)
	text := fmt.Sprintf(
		"Welcome, %s!\n\nThank you for registering for VIP tickets.\n\nYour registration code is: %s\n\nNext steps:\n1. Select up to 5 tours you'd like to attend\n2. Complete the consent form\n3. Download your VIP tickets\n",
		fanName, registrationCode)
	return m.send(to, subject, html, text)
}

// SendTicket delivers a single ticket PDF.
func (m *Mailer) SendTicket(to, fanName, tourTitle, pdfPath string) error {
	subject := fmt.Sprintf("Your VIP Ticket for %s", tourTitle)
	html := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<h1 style="color: #D4AF37;">Your VIP Ticket is Ready!</h1>
<p>Hi %s,</p>
<p>Your VIP ticket for <strong>%s</strong> is attached to this email.</p>
<ul>
<li>Present this ticket at the venue entrance</li>
<li>The QR code will be scanned for verification</li>
<li>Arrive early to enjoy your VIP experience</li>
</ul>
<p>See you at the show!</p>
</div></body></html>`, fanName, tourTitle)
	text := fmt.Sprintf(
		"Hi %s,\n\nYour VIP ticket for %s is attached to this email.\n\n- Present this ticket at the venue entrance\n- The QR code will be scanned for verification\n- Arrive early to enjoy your VIP experience\n\nSee you at the show!\n",
		fanName, tourTitle)
	return m.send(to, subject, html, text, pdfPath)
}

// SendAllTickets delivers every generated ticket for a fan in one mail.
func (m *Mailer) SendAllTickets(to, fanName string, pdfPaths []string) error {
	n := len(pdfPaths)
	plural, verb := "", "is"
	if n > 1 {
		plural, verb = "s", "are"
	}
	subject := fmt.Sprintf("Your %d VIP Ticket%s", n, plural)
	html := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<h1 style="color: #D4AF37;">Your VIP Tickets are Ready!</h1>
<p>Hi %s,</p>
<p>Your %d VIP ticket%s %s attached to this email.</p>
<ul>
<li>Present each ticket at the respective venue entrance</li>
<li>The QR code will be scanned for verification</li>
</ul>
<p>See you at the shows!</p>
</div></body></html>`, fanName, n, plural, verb)
	text := fmt.Sprintf(
		"Hi %s,\n\nYour %d VIP ticket%s %s attached to this email.\n\nSee you at the shows!\n",
		fanName, n, plural, verb)
	return m.send(to, subject, html, text, pdfPaths...)
}

// SendConsentConfirmation tells the fan their tickets are unlocked.
func (m *Mailer) SendConsentConfirmation(to, fanName string) error {
	subject := "Consent Form Received - Tickets Unlocked!"
	html := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<h1 style="color: #D4AF37;">Consent Form Confirmed!</h1>
<p>Hi %s,</p>
<p>Thank you for completing the consent form.</p>
<p>Your VIP tickets are now unlocked and ready to download!</p>
</div></body></html>`, fanName)
	text := fmt.Sprintf(
		"Hi %s,\n\nThank you for completing the consent form.\n\nYour VIP tickets are now unlocked and ready to download!\n",
		fanName)
	return m.send(to, subject, html, text)
}
