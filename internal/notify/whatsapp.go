package notify

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/agnar3901/sign-manufacturing-app/internal/models"
)

// NormalizePhone converts a free-form phone number to the +91XXXXXXXXXX
// form the WhatsApp gateway expects: non-digits stripped, country code
// forced, last 12 digits kept.
func NormalizePhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	s := digits.String()
	if !strings.HasPrefix(s, "91") {
		if len(s) > 10 {
			s = s[len(s)-10:]
		}
		s = "91" + s
	}
	if len(s) > 12 {
		s = s[len(s)-12:]
	}
	return "+" + s
}

// sendWhatsApp renders a summary image of the order and posts it to the
// Gupshup business-messaging gateway. Any failure is folded into the
// returned result, never raised.
func (d *Dispatcher) sendWhatsApp(order *models.Order) ChannelResult {
	if d.cfg.WhatsappAPIKey == "" || d.cfg.WhatsappAppID == "" || d.cfg.WhatsappSender == "" {
		d.log.Warnw("gupshup not configured, skipping whatsapp", "invoice_id", order.InvoiceID)
		return ChannelResult{Success: false, Error: "gupshup credentials missing"}
	}
	if order.PhoneNumber == "" {
		return ChannelResult{Success: false, Error: "no recipient phone"}
	}

	imagePath, err := GenerateOrderImage(order, d.company)
	if err != nil {
		d.log.Errorw("failed to generate order image", "invoice_id", order.InvoiceID, "error", err)
		return ChannelResult{Success: false, Error: err.Error()}
	}
	defer os.Remove(imagePath)

	message := fmt.Sprintf("Thank you for your order! Here is your invoice from %s. Invoice ID: %s",
		d.company.Name, order.InvoiceID)

	resp, err := d.client.R().
		SetHeader("apikey", d.cfg.WhatsappAPIKey).
		SetFormData(map[string]string{
			"channel":     "whatsapp",
			"source":      d.cfg.WhatsappSender,
			"destination": NormalizePhone(order.PhoneNumber),
			"message":     message,
			"src.name":    d.company.Name,
			"appId":       d.cfg.WhatsappAppID,
		}).
		SetFile("file", imagePath).
		Post(d.whatsappURL)
	if err != nil {
		d.log.Errorw("failed to send whatsapp", "invoice_id", order.InvoiceID, "error", err)
		return ChannelResult{Success: false, Error: err.Error()}
	}
	if resp.StatusCode() != 200 {
		d.log.Errorw("gupshup rejected whatsapp",
			"invoice_id", order.InvoiceID,
			"status", resp.StatusCode(),
			"body", resp.String(),
		)
		return ChannelResult{Success: false, Error: resp.String()}
	}

	d.log.Infow("whatsapp sent", "invoice_id", order.InvoiceID)
	return ChannelResult{Success: true}
}
