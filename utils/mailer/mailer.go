package mailer

import (
	"fmt"
	"log"
	"os"

	"github.com/matcornic/hermes/v2"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailResponse struct {
	Status   int
	RespBody string
}

// SendResetPassword mails the password-recovery link. When no SendGrid
// key is configured (local dev, tests) the mail is logged and skipped.
func SendResetPassword(toEmail, fromEmail, token, appURL string) (*EmailResponse, error) {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	link := fmt.Sprintf("%s/password/reset?token=%s", appURL, token)

	if apiKey == "" {
		log.Printf("mailer: SENDGRID_API_KEY not set, skipping mail to %s (link: %s)", toEmail, link)
		return &EmailResponse{Status: 200, RespBody: "skipped"}, nil
	}

	h := hermes.Hermes{
		Product: hermes.Product{
			Name: "Yatube",
			Link: appURL,
		},
	}

	email := hermes.Email{
		Body: hermes.Body{
			Intros: []string{
				"You have received this email because a password reset request for your account was received.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "Click the button below to reset your password:",
					Button: hermes.Button{
						Color: "#DC4D2F",
						Text:  "Reset your password",
						Link:  link,
					},
				},
			},
			Outros: []string{
				"If you did not request a password reset, no further action is required on your part.",
			},
		},
	}

	emailBody, err := h.GenerateHTML(email)
	if err != nil {
		return nil, err
	}

	from := mail.NewEmail("Yatube", fromEmail)
	subject := "Reset your password"
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, emailBody, emailBody)
	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		return nil, err
	}
	return &EmailResponse{Status: response.StatusCode, RespBody: response.Body}, nil
}
