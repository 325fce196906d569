package notify

import (
	"fmt"
	"os"
	"time"

	"github.com/agnar3901/sign-manufacturing-app/internal/invoice"
	"github.com/agnar3901/sign-manufacturing-app/internal/models"

	"gopkg.in/gomail.v2"
)

// sendEmail delivers the confirmation with the invoice attached. Missing
// SMTP configuration or recipient is a soft failure.
func (d *Dispatcher) sendEmail(order *models.Order, pdfPath string) bool {
	if d.cfg.SMTPHost == "" || d.cfg.SMTPUser == "" {
		d.log.Warnw("smtp not configured, skipping email", "invoice_id", order.InvoiceID)
		return false
	}
	if order.EmailAddress == "" {
		d.log.Warnw("no recipient email", "invoice_id", order.InvoiceID)
		return false
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.cfg.SMTPUser)
	m.SetHeader("To", order.EmailAddress)
	m.SetHeader("Subject", fmt.Sprintf("Order Confirmation - %s - %s", order.InvoiceID, d.company.Name))
	m.SetBody("text/plain", d.emailBody(order))

	if pdfPath != "" {
		if _, err := os.Stat(pdfPath); err == nil {
			m.Attach(pdfPath, gomail.Rename(order.InvoiceID+".pdf"))
		}
	}

	if err := d.dialAndSend(m); err != nil {
		d.log.Errorw("failed to send email", "invoice_id", order.InvoiceID, "error", err)
		return false
	}
	d.log.Infow("email sent", "invoice_id", order.InvoiceID, "to", order.EmailAddress)
	return true
}

func (d *Dispatcher) emailBody(order *models.Order) string {
	notes := ""
	if order.Notes != "" {
		notes = fmt.Sprintf("Notes: %s\n\n", order.Notes)
	}

	return fmt.Sprintf(`Dear %s,

Thank you for your order with %s!

ORDER DETAILS:
Invoice ID: %s
Date: %s

Item: %s
Size: %s
Quantity: %d
Rate: %s
Total Amount: %s

Payment Mode: %s
Delivery Type: %s

%sYour invoice is attached to this email. Please keep it for your records.

We will process your order and keep you updated on the progress.

For any queries, please contact us:
Phone: %s
Email: %s
Website: %s

Thank you for choosing %s!

Best regards,
%s Team
`,
		order.CustomerName, d.company.Name,
		order.InvoiceID, time.Now().Format("January 02, 2006"),
		order.ItemType, order.Size, order.Quantity,
		invoice.FormatAmount(order.Rate), invoice.FormatAmount(order.Total),
		order.PaymentMode, order.DeliveryType,
		notes,
		d.company.Phone, d.company.Email, d.company.Website,
		d.company.Name, d.company.Name,
	)
}
