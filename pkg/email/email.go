package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// InvoiceEmailData carries the fields rendered into the invoice email
type InvoiceEmailData struct {
	CustomerName     string
	InvoiceNumber    string
	Amount           string
	DueDate          string
	OrganizationName string
	Items            []InvoiceEmailItem
}

// InvoiceEmailItem is a single rendered line item
type InvoiceEmailItem struct {
	Name      string
	Quantity  int
	UnitPrice string
}

// SendInvoiceEmail sends an invoice summary to the customer
func (s *EmailService) SendInvoiceEmail(toEmail string, data InvoiceEmailData) error {
	htmlContent, err := s.renderInvoiceEmail(data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Invoice %s from %s", data.InvoiceNumber, data.OrganizationName)
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)

	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)

	return []byte(headers + htmlBody)
}

// renderInvoiceEmail renders the invoice email template
func (s *EmailService) renderInvoiceEmail(data InvoiceEmailData) (string, error) {
	tmpl, err := template.New("invoice").Parse(invoiceTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// invoiceTemplate is the HTML template for invoice emails
const invoiceTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="width: 100%; border-collapse: collapse;">
        <tr>
            <td style="padding: 40px 0;">
                <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; overflow: hidden;">
                    <tr>
                        <td style="background-color: #1a1a2e; padding: 32px 30px; text-align: center;">
                            <h1 style="color: #ffffff; margin: 0; font-size: 24px; font-weight: 600;">{{.OrganizationName}}</h1>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 32px 30px;">
                            <h2 style="color: #1a1a2e; margin: 0 0 16px 0; font-size: 20px;">Invoice {{.InvoiceNumber}}</h2>
                            <p style="color: #4a5568; font-size: 15px; line-height: 1.6; margin: 0 0 20px 0;">
                                Hello {{.CustomerName}},
                            </p>
                            <p style="color: #4a5568; font-size: 15px; line-height: 1.6; margin: 0 0 20px 0;">
                                Please find your invoice below. Payment is due by <strong>{{.DueDate}}</strong>.
                            </p>
                            <table role="presentation" style="width: 100%; border-collapse: collapse; margin: 0 0 20px 0;">
                                <tr>
                                    <th style="text-align: left; padding: 8px; border-bottom: 2px solid #e2e8f0; color: #718096; font-size: 13px;">Item</th>
                                    <th style="text-align: right; padding: 8px; border-bottom: 2px solid #e2e8f0; color: #718096; font-size: 13px;">Qty</th>
                                    <th style="text-align: right; padding: 8px; border-bottom: 2px solid #e2e8f0; color: #718096; font-size: 13px;">Unit Price</th>
                                </tr>
                                {{range .Items}}
                                <tr>
                                    <td style="padding: 8px; border-bottom: 1px solid #edf2f7; color: #2d3748; font-size: 14px;">{{.Name}}</td>
                                    <td style="padding: 8px; border-bottom: 1px solid #edf2f7; color: #2d3748; font-size: 14px; text-align: right;">{{.Quantity}}</td>
                                    <td style="padding: 8px; border-bottom: 1px solid #edf2f7; color: #2d3748; font-size: 14px; text-align: right;">{{.UnitPrice}}</td>
                                </tr>
                                {{end}}
                            </table>
                            <p style="color: #1a1a2e; font-size: 18px; font-weight: 600; text-align: right; margin: 0;">
                                Total due: {{.Amount}}
                            </p>
                        </td>
                    </tr>
                    <tr>
                        <td style="background-color: #f8fafc; padding: 24px 30px; text-align: center; border-top: 1px solid #e2e8f0;">
                            <p style="color: #a0aec0; font-size: 13px; margin: 0;">
                                This invoice was sent by {{.OrganizationName}}
                            </p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`
