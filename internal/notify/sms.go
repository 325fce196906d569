package notify

import (
	"fmt"

	"github.com/agnar3901/sign-manufacturing-app/internal/invoice"
	"github.com/agnar3901/sign-manufacturing-app/internal/models"
)

type msg91Request struct {
	FlowID  string `json:"flow_id"`
	Sender  string `json:"sender"`
	Mobiles string `json:"mobiles"`
	VAR1    string `json:"VAR1"`
	VAR2    string `json:"VAR2"`
}

// sendSMS pushes the confirmation through the MSG91 flow API. Missing API
// key or recipient is a soft failure.
func (d *Dispatcher) sendSMS(order *models.Order) bool {
	if d.cfg.SMSAPIKey == "" {
		d.log.Warnw("msg91 api key missing, skipping sms", "invoice_id", order.InvoiceID)
		return false
	}
	if order.PhoneNumber == "" {
		d.log.Warnw("no recipient phone", "invoice_id", order.InvoiceID)
		return false
	}

	body := msg91Request{
		FlowID:  d.cfg.SMSFlowID,
		Sender:  d.cfg.SMSSenderID,
		Mobiles: order.PhoneNumber,
		VAR1:    order.InvoiceID,
		VAR2:    invoice.FormatAmount(order.Total),
	}

	resp, err := d.client.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("Authkey", d.cfg.SMSAPIKey).
		SetBody(body).
		Post(d.smsURL)
	if err != nil {
		d.log.Errorw("failed to send sms", "invoice_id", order.InvoiceID, "error", err)
		return false
	}
	if resp.StatusCode() != 200 {
		d.log.Errorw("msg91 rejected sms",
			"invoice_id", order.InvoiceID,
			"status", resp.StatusCode(),
			"body", resp.String(),
		)
		return false
	}

	d.log.Infow("sms sent", "invoice_id", order.InvoiceID, "to", order.PhoneNumber)
	return true
}

// SMSMessage is the fixed confirmation template, exposed for the flow
// variables configured on the MSG91 side.
func (d *Dispatcher) SMSMessage(order *models.Order) string {
	return fmt.Sprintf("Order %s confirmed! Total: %s. Thank you for choosing %s. Contact: %s",
		order.InvoiceID, invoice.FormatAmount(order.Total), d.company.Name, d.company.Phone)
}
