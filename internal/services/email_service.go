package services

import (
	"context"
	"fmt"

	"github.com/induso/cobranzas-api/internal/config"
	"github.com/induso/cobranzas-api/internal/models"
	"github.com/induso/cobranzas-api/pkg/logger"
	"github.com/resend/resend-go/v2"
	"github.com/shopspring/decimal"
)

// EmailService sends transactional emails through Resend. When no API key is
// configured every send is a logged no-op so development works offline.
type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

// SendPaymentReceipt mails the client a receipt for a registered payment
func (s *EmailService) SendPaymentReceipt(ctx context.Context, client *models.Client, payment *models.Payment, remaining decimal.Decimal) error {
	if client.Email == nil || *client.Email == "" {
		return nil
	}

	body := fmt.Sprintf(
		`<h2>Recibo de pago</h2>
<p>Estimado/a %s,</p>
<p>Registramos su pago por <strong>$%s</strong> (recibo %s).</p>
<p>Saldo pendiente de la venta: $%s.</p>`,
		client.Name, payment.Amount.StringFixed(2), payment.ReceiptNumber, remaining.StringFixed(2))

	return s.send(*client.Email, "Recibo de pago", body)
}

// SendChequeBounced notifies the operators that a cheque bounced
func (s *EmailService) SendChequeBounced(ctx context.Context, to string, cheque *models.Cheque) error {
	body := fmt.Sprintf(
		`<h2>Cheque rechazado</h2>
<p>El cheque Nº %s de %s por $%s fue marcado como rechazado.</p>
<p>Vencimiento: %s.</p>`,
		cheque.Number, cheque.Issuer, cheque.Amount.StringFixed(2), cheque.DueDate.Format("02/01/2006"))

	return s.send(to, fmt.Sprintf("Cheque rechazado Nº %s", cheque.Number), body)
}

// SendChequesDueSoon mails a digest of cheques nearing their due date
func (s *EmailService) SendChequesDueSoon(ctx context.Context, to string, cheques []models.Cheque) error {
	if len(cheques) == 0 {
		return nil
	}

	rows := ""
	for _, c := range cheques {
		rows += fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>$%s</td><td>%s</td></tr>",
			c.Number, c.Issuer, c.Amount.StringFixed(2), c.DueDate.Format("02/01/2006"))
	}
	body := fmt.Sprintf(
		`<h2>Cheques próximos a vencer</h2>
<table border="1" cellpadding="4"><tr><th>Número</th><th>Emisor</th><th>Monto</th><th>Vencimiento</th></tr>%s</table>`,
		rows)

	return s.send(to, "Cheques próximos a vencer", body)
}

func (s *EmailService) send(to, subject, html string) error {
	if s.config.ResendAPIKey == "" || s.config.FromEmail == "" {
		logger.Info(fmt.Sprintf("📧 [Email Skipped] To: %s | Subject: %s (Resend not configured)", to, subject))
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	if _, err := s.resendClient.Emails.Send(params); err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", to, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: %s", to, subject))
	return nil
}
