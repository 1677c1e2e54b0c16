package webauth

import "log"

// EmailSender is the boundary to outbound mail. Implementations receive the
// raw token and own link building, composition and transport.
type EmailSender interface {
	SendConfirmationEmail(to string, accountID string, confirmationToken string) error
	SendPasswordResetEmail(to string, accountID string, resetToken string) error
}

// ConsoleEmailSender is a development implementation that logs emails to console
type ConsoleEmailSender struct{}

func (c *ConsoleEmailSender) SendConfirmationEmail(to string, accountID string, confirmationToken string) error {
	log.Printf("\n=== EMAIL: Confirmation ===")
	log.Printf("To: %s", to)
	log.Printf("Subject: Confirm your account")
	log.Printf("Body: Confirm account %s with token: %s", accountID, confirmationToken)
	log.Printf("===========================\n")
	return nil
}

func (c *ConsoleEmailSender) SendPasswordResetEmail(to string, accountID string, resetToken string) error {
	log.Printf("\n=== EMAIL: Password Reset ===")
	log.Printf("To: %s", to)
	log.Printf("Subject: Reset your password")
	log.Printf("Body: Reset the password for account %s with token: %s", accountID, resetToken)
	log.Printf("==============================\n")
	return nil
}
