package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"rentonomic-backend/internal/utils"
)

type emailService struct {
	client *sendgrid.Client
	from   string
}

func NewEmailService(apiKey, from string) EmailService {
	return &emailService{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
	}
}

func (s *emailService) SendRentalRequestNotification(ctx context.Context, listerEmail, renterEmail, listingName, startDate, endDate string) error {
	// The renter's address stays obfuscated until payment unlocks messaging.
	body := fmt.Sprintf("Hello,\n\n%s would like to rent your listing '%s' from %s to %s.\n\nLog in to your dashboard to accept or decline the request.\n\nBest regards,\nThe Rentonomic Team",
		utils.MaskEmail(renterEmail), listingName, startDate, endDate)
	return s.send(ctx, listerEmail, fmt.Sprintf("New rental request for %s", listingName), body)
}

func (s *emailService) SendRentalAcceptedNotification(ctx context.Context, renterEmail, listingName, startDate, endDate string) error {
	body := fmt.Sprintf("Hello,\n\nYour request to rent '%s' from %s to %s has been accepted.\n\nLog in to your dashboard to complete payment and unlock messaging.\n\nBest regards,\nThe Rentonomic Team",
		listingName, startDate, endDate)
	return s.send(ctx, renterEmail, fmt.Sprintf("Rental request accepted - %s", listingName), body)
}

func (s *emailService) SendRentalDeclinedNotification(ctx context.Context, toEmail, listingName, reason string) error {
	body := fmt.Sprintf("Hello,\n\nThe rental request for '%s' has been declined.", listingName)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe Rentonomic Team"
	return s.send(ctx, toEmail, fmt.Sprintf("Rental request declined - %s", listingName), body)
}

func (s *emailService) SendPaymentConfirmedNotification(ctx context.Context, toEmail, listingName string, renterTotalPence int64) error {
	body := fmt.Sprintf("Hello,\n\nPayment of £%.2f for '%s' has been confirmed. Messaging for this rental is now unlocked.\n\nBest regards,\nThe Rentonomic Team",
		float64(renterTotalPence)/100, listingName)
	return s.send(ctx, toEmail, fmt.Sprintf("Payment confirmed - %s", listingName), body)
}

func (s *emailService) SendListingRemovedNotification(ctx context.Context, ownerEmail, listingName string) error {
	body := fmt.Sprintf("Hello,\n\nYour listing '%s' has been removed by an administrator. Existing rental records are unaffected.\n\nBest regards,\nThe Rentonomic Team", listingName)
	return s.send(ctx, ownerEmail, fmt.Sprintf("Listing removed - %s", listingName), body)
}

func (s *emailService) send(ctx context.Context, toEmail, subject, body string) error {
	from := mail.NewEmail("Rentonomic", s.from)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmailPlainText(from, subject, to, body)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email via sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected email: status %d", resp.StatusCode)
	}
	return nil
}
