package email

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// InvoiceNotification carries the fields rendered into an invoice email.
type InvoiceNotification struct {
	TenantName  string
	InvoiceSID  string
	Amount      decimal.Decimal
	Plan        string
	DueDate     string
	PeriodStart string
	PeriodEnd   string
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEmailService{
		config: config,
		dialer: dialer,
	}
}

func (s *SMTPEmailService) SendInvoiceEmail(to string, n InvoiceNotification) error {
	subject := fmt.Sprintf("Invoice %s for your %s plan", n.InvoiceSID, n.Plan)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>New Invoice</h2>
			<p>Hi %s,</p>
			<p>A new invoice has been issued for your subscription.</p>
			<ul>
				<li>Invoice: %s</li>
				<li>Plan: %s</li>
				<li>Billing period: %s to %s</li>
				<li>Amount due: $%s</li>
				<li>Due date: %s</li>
			</ul>
			<p>Thank you for using our service.</p>
		</body>
		</html>
	`, n.TenantName, n.InvoiceSID, n.Plan, n.PeriodStart, n.PeriodEnd, n.Amount.StringFixed(2), n.DueDate)

	plainBody := fmt.Sprintf(`
New Invoice

Hi %s,

A new invoice has been issued for your subscription.

Invoice: %s
Plan: %s
Billing period: %s to %s
Amount due: $%s
Due date: %s

Thank you for using our service.
	`, n.TenantName, n.InvoiceSID, n.Plan, n.PeriodStart, n.PeriodEnd, n.Amount.StringFixed(2), n.DueDate)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
