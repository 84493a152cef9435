package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Hood-Codivo/restar-africa/models"
	"github.com/Hood-Codivo/restar-africa/utils"
)

const resendURL = "https://api.resend.com/emails"

var emailClient = &http.Client{Timeout: 15 * time.Second}

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// sendEmail delivers one transactional email through Resend. With no API key
// configured (local development, tests) it is a no-op.
func sendEmail(to, subject, html string) error {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		log.Printf("email: RESEND_API_KEY not set, skipping %q to %s", subject, to)
		return nil
	}

	from := os.Getenv("EMAIL_FROM")
	if from == "" {
		from = "Restar Africa <bookings@restar.africa>"
	}

	payload, err := json.Marshal(resendPayload{
		From:    from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, resendURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := emailClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return errors.New("email: resend returned " + resp.Status)
	}
	return nil
}

func SendBookingCreatedEmail(b *models.Booking, p *models.Property) error {
	subject := "Your booking at " + p.Title
	html := fmt.Sprintf(`
		<h2>Booking received</h2>
		<p>Hi %s,</p>
		<p>Your booking at <strong>%s</strong> from %s to %s (%d night(s), %d guest(s)) has been received and is pending confirmation.</p>
		<p>Payment reference: %s</p>
		<p>Total: %.2f</p>
	`, displayGuestName(b), p.Title, utils.DayString(b.CheckIn), utils.DayString(b.CheckOut), b.TotalNights, b.Guests, b.PaymentRef, b.TotalAmount)
	return sendEmail(b.Email, subject, html)
}

func SendBookingStatusEmail(b *models.Booking) error {
	subject := "Booking update: " + b.BookingStatus
	html := fmt.Sprintf(`
		<h2>Booking %s</h2>
		<p>Hi %s,</p>
		<p>Your booking from %s to %s is now <strong>%s</strong>.</p>
	`, b.BookingStatus, displayGuestName(b), utils.DayString(b.CheckIn), utils.DayString(b.CheckOut), b.BookingStatus)
	return sendEmail(b.Email, subject, html)
}

func SendBookingCancelledEmail(b *models.Booking, refundAmount float64) error {
	refundLine := "<p>This cancellation is not eligible for a refund.</p>"
	if refundAmount > 0 {
		refundLine = fmt.Sprintf("<p>A refund of <strong>%.2f</strong> will be issued to your payment method.</p>", refundAmount)
	}
	html := fmt.Sprintf(`
		<h2>Booking cancelled</h2>
		<p>Hi %s,</p>
		<p>Your booking from %s to %s has been cancelled.</p>
		<p>Reason: %s</p>
		%s
	`, displayGuestName(b), utils.DayString(b.CheckIn), utils.DayString(b.CheckOut), b.CancellationReason, refundLine)
	return sendEmail(b.Email, "Your booking was cancelled", html)
}

func SendBookingCompletedEmail(b *models.Booking) error {
	html := fmt.Sprintf(`
		<h2>Thanks for staying with us</h2>
		<p>Hi %s,</p>
		<p>Your stay from %s to %s is complete. We would love to hear how it went &mdash; leave a review!</p>
	`, displayGuestName(b), utils.DayString(b.CheckIn), utils.DayString(b.CheckOut))
	return sendEmail(b.Email, "How was your stay?", html)
}
