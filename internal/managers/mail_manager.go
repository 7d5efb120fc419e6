// Package managers handles the sending of password reset emails using the Mailgun service
// and the Hermes package for email formatting.
package managers

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"
	log "github.com/sirupsen/logrus"
)

// MailMgr is an interface that outlines the contract for email management.
// It includes a method for sending the password reset link to a user.
type MailMgr interface {
	SendPasswordResetMail(email, name, resetToken string) error
}

// MailManager is a concrete implementation of the MailMgr interface.
// It uses the Mailgun service for sending emails and the Hermes package for formatting emails.
type MailManager struct {
	Hermes      *hermes.Hermes
	Mailgun     *mailgun.MailgunImpl
	From        string
	FrontendURL string
}

var environment string

// SendPasswordResetMail sends an email with a time-boxed password reset link to the user.
// The link embeds the plaintext reset token, which is never persisted server-side.
// The email content is formatted using the Hermes package and sent using the Mailgun service.
func (mm *MailManager) SendPasswordResetMail(email, name, resetToken string) error {
	if environment != "production" {
		log.Info("Skipping password reset mail in development mode")
		return nil
	}

	resetLink := fmt.Sprintf("%s/reset-password/%s", mm.FrontendURL, resetToken)

	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: name,
			Intros: []string{
				"We received a request to reset the password of your account.",
				"If you did not request a password reset, you can safely ignore this email.",
			},
			Outros: []string{
				"The link is valid for 30 minutes and can be used once.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "To choose a new password, click the button below:",
					Button: hermes.Button{
						Text: "Reset your password",
						Link: resetLink,
					},
				},
			},
		},
	}

	emailBody, err := mm.Hermes.GenerateHTML(mailBody)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(2*time.Second))
	defer func() {
		if err := ctx.Err(); err != nil {
			log.Debug("Context error: ", err)
		}
		cancel()
		log.Debug("Context canceled")
	}()

	message := mm.Mailgun.NewMessage(mm.From, "Reset your password", "", email)
	message.SetHtml(emailBody)
	_, _, err = mm.Mailgun.Send(ctx, message)
	if err != nil {
		log.Warning("Error sending password reset mail: " + err.Error())
		return err
	}
	log.Debug("Password reset mail sent to ", email)

	return nil
}

// NewMailManager initializes a new MailManager instance with configured Mailgun and Hermes settings.
// It also checks the runtime environment to determine if emails should be sent.
// This function is used during the initialization phase of the application.
func NewMailManager() MailMgr {
	log.Info("Initializing mail manager")
	// Check if running in production
	environment = os.Getenv("ENVIRONMENT")

	if environment != "production" {
		log.Println("Running in development mode, email will not be sent to users")
	}

	apiKey := os.Getenv("MAILGUN_API_KEY")
	domain := os.Getenv("MAIL_DOMAIN")
	mailgunInstance := mailgun.NewMailgun(domain, apiKey)
	mailgunInstance.SetAPIBase(mailgun.APIBaseEU)

	mm := &MailManager{
		Hermes: &hermes.Hermes{
			Theme:         new(hermes.Default),
			TextDirection: hermes.TDLeftToRight,
			Product: hermes.Product{
				Name:        "Account Service",
				Link:        os.Getenv("FRONTEND_BASE_URL"),
				Copyright:   "© Account Service",
				TroubleText: "If you’re having trouble with the button '{ACTION}', copy and paste the URL below into your web browser.",
			},
		},
		Mailgun:     mailgunInstance,
		From:        os.Getenv("MAIL_FROM"),
		FrontendURL: os.Getenv("FRONTEND_BASE_URL"),
	}
	log.Info("Initialized mail manager")
	return mm
}
