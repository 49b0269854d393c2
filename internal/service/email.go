package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"

	"renthub-backend/internal/config"
	"renthub-backend/internal/otp"
)

// NewEmailService picks the mailer implementation from config.
func NewEmailService(cfg config.EmailConfig) EmailService {
	if cfg.Provider == "sendgrid" {
		return &sendgridEmailService{
			apiKey:   cfg.SendGridAPIKey,
			from:     cfg.From,
			fromName: cfg.FromName,
		}
	}
	return &smtpEmailService{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.From,
	}
}

type smtpEmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func (s *smtpEmailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

func (s *smtpEmailService) SendOTPEmail(ctx context.Context, email, name, code, orderNumber string) error {
	return s.send(email, "Your contract signing code", otpBody(name, code, orderNumber))
}

func (s *smtpEmailService) SendOrderRequestNotification(ctx context.Context, ownerEmail, renterName, productName, orderNumber string) error {
	return s.send(ownerEmail, fmt.Sprintf("New rental request for %s", productName),
		fmt.Sprintf("Hello,\n\n%s requested to rent %s (order %s). Review and confirm the request in your dashboard.\n\nThe RentHub Team", renterName, productName, orderNumber))
}

func (s *smtpEmailService) SendOrderConfirmationNotification(ctx context.Context, renterEmail, productName, orderNumber string) error {
	return s.send(renterEmail, fmt.Sprintf("Your rental of %s is confirmed", productName),
		fmt.Sprintf("Hello,\n\nThe owner confirmed your rental of %s (order %s). You can now proceed to payment.\n\nThe RentHub Team", productName, orderNumber))
}

func (s *smtpEmailService) SendContractReadyNotification(ctx context.Context, email, name, contractNumber string) error {
	return s.send(email, "Rental contract ready for signature",
		fmt.Sprintf("Hello %s,\n\nContract %s is ready for your signature. Both parties must sign before payment can proceed.\n\nThe RentHub Team", name, contractNumber))
}

func (s *smtpEmailService) SendContractSignedNotification(ctx context.Context, email, contractNumber string) error {
	return s.send(email, fmt.Sprintf("Contract %s fully signed", contractNumber),
		fmt.Sprintf("Hello,\n\nContract %s has been signed by both parties and is now binding.\n\nThe RentHub Team", contractNumber))
}

func (s *smtpEmailService) SendPaymentReceiptNotification(ctx context.Context, renterEmail, orderNumber string, amount int64) error {
	return s.send(renterEmail, fmt.Sprintf("Payment received for order %s", orderNumber),
		fmt.Sprintf("Hello,\n\nWe received your payment of %d for order %s. The deposit portion is held and released after the item is returned.\n\nThe RentHub Team", amount, orderNumber))
}

func (s *smtpEmailService) SendReturnReminderNotification(ctx context.Context, renterEmail, productName, orderNumber string, overdueDays int32) error {
	return s.send(renterEmail, fmt.Sprintf("Return reminder for %s", productName),
		fmt.Sprintf("Hello,\n\nYour rental of %s (order %s) is %d day(s) past its planned end date. Overdue days are billed at 1.5x the daily rate.\n\nThe RentHub Team", productName, orderNumber, overdueDays))
}

func (s *smtpEmailService) SendDepositRefundNotification(ctx context.Context, renterEmail, orderNumber string, refund int64) error {
	return s.send(renterEmail, fmt.Sprintf("Deposit refund for order %s", orderNumber),
		fmt.Sprintf("Hello,\n\nYour rental is complete. %d of your deposit for order %s has been returned to your wallet.\n\nThe RentHub Team", refund, orderNumber))
}

func (s *smtpEmailService) SendOrderCancellationNotification(ctx context.Context, email, productName, orderNumber, reason string) error {
	body := fmt.Sprintf("Hello,\n\nThe rental of %s (order %s) has been cancelled.", productName, orderNumber)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nThe RentHub Team"
	return s.send(email, fmt.Sprintf("Order %s cancelled", orderNumber), body)
}

type sendgridEmailService struct {
	apiKey   string
	from     string
	fromName string
}

func (s *sendgridEmailService) send(ctx context.Context, to, subject, body string) error {
	message := sgmail.NewSingleEmail(
		sgmail.NewEmail(s.fromName, s.from), subject,
		sgmail.NewEmail("", to), body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email via sendgrid: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *sendgridEmailService) SendOTPEmail(ctx context.Context, email, name, code, orderNumber string) error {
	return s.send(ctx, email, "Your contract signing code", otpBody(name, code, orderNumber))
}

func (s *sendgridEmailService) SendOrderRequestNotification(ctx context.Context, ownerEmail, renterName, productName, orderNumber string) error {
	return s.send(ctx, ownerEmail, fmt.Sprintf("New rental request for %s", productName),
		fmt.Sprintf("Hello,\n\n%s requested to rent %s (order %s). Review and confirm the request in your dashboard.\n\nThe RentHub Team", renterName, productName, orderNumber))
}

func (s *sendgridEmailService) SendOrderConfirmationNotification(ctx context.Context, renterEmail, productName, orderNumber string) error {
	return s.send(ctx, renterEmail, fmt.Sprintf("Your rental of %s is confirmed", productName),
		fmt.Sprintf("Hello,\n\nThe owner confirmed your rental of %s (order %s). You can now proceed to payment.\n\nThe RentHub Team", productName, orderNumber))
}

func (s *sendgridEmailService) SendContractReadyNotification(ctx context.Context, email, name, contractNumber string) error {
	return s.send(ctx, email, "Rental contract ready for signature",
		fmt.Sprintf("Hello %s,\n\nContract %s is ready for your signature. Both parties must sign before payment can proceed.\n\nThe RentHub Team", name, contractNumber))
}

func (s *sendgridEmailService) SendContractSignedNotification(ctx context.Context, email, contractNumber string) error {
	return s.send(ctx, email, fmt.Sprintf("Contract %s fully signed", contractNumber),
		fmt.Sprintf("Hello,\n\nContract %s has been signed by both parties and is now binding.\n\nThe RentHub Team", contractNumber))
}

func (s *sendgridEmailService) SendPaymentReceiptNotification(ctx context.Context, renterEmail, orderNumber string, amount int64) error {
	return s.send(ctx, renterEmail, fmt.Sprintf("Payment received for order %s", orderNumber),
		fmt.Sprintf("Hello,\n\nWe received your payment of %d for order %s. The deposit portion is held and released after the item is returned.\n\nThe RentHub Team", amount, orderNumber))
}

func (s *sendgridEmailService) SendReturnReminderNotification(ctx context.Context, renterEmail, productName, orderNumber string, overdueDays int32) error {
	return s.send(ctx, renterEmail, fmt.Sprintf("Return reminder for %s", productName),
		fmt.Sprintf("Hello,\n\nYour rental of %s (order %s) is %d day(s) past its planned end date. Overdue days are billed at 1.5x the daily rate.\n\nThe RentHub Team", productName, orderNumber, overdueDays))
}

func (s *sendgridEmailService) SendDepositRefundNotification(ctx context.Context, renterEmail, orderNumber string, refund int64) error {
	return s.send(ctx, renterEmail, fmt.Sprintf("Deposit refund for order %s", orderNumber),
		fmt.Sprintf("Hello,\n\nYour rental is complete. %d of your deposit for order %s has been returned to your wallet.\n\nThe RentHub Team", refund, orderNumber))
}

func (s *sendgridEmailService) SendOrderCancellationNotification(ctx context.Context, email, productName, orderNumber, reason string) error {
	body := fmt.Sprintf("Hello,\n\nThe rental of %s (order %s) has been cancelled.", productName, orderNumber)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nThe RentHub Team"
	return s.send(ctx, email, fmt.Sprintf("Order %s cancelled", orderNumber), body)
}

func otpBody(name, code, orderNumber string) string {
	return fmt.Sprintf("Hello %s,\n\nYour verification code for signing the rental contract (order %s) is:\n\n%s\n\nThe code expires in 5 minutes. If you did not request it, ignore this email.\n\nThe RentHub Team", name, orderNumber, code)
}

// EmailService must satisfy the OTP dispatch interface.
var _ otp.Sender = EmailService(nil)
