package notify

import (
	"sync"
	"time"

	"github.com/agnar3901/sign-manufacturing-app/config"
	"github.com/agnar3901/sign-manufacturing-app/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const (
	ChannelEmail    = "email"
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"

	gatewayTimeout = 15 * time.Second
)

// ChannelResult is the structured outcome of the WhatsApp send.
type ChannelResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Results aggregates per-channel outcomes. The dispatcher never fails as a
// whole: a channel whose prerequisites are missing simply reports false.
type Results struct {
	SMS      bool          `json:"sms"`
	Email    bool          `json:"email"`
	WhatsApp ChannelResult `json:"whatsapp"`
}

// Dispatcher fans an order confirmation out to email, SMS and WhatsApp.
// The three sends are independent: one failing never prevents the others
// from attempting.
type Dispatcher struct {
	cfg     config.NotifyConfig
	company config.CompanyInfo
	log     *zap.SugaredLogger
	client  *resty.Client

	smsURL      string
	whatsappURL string

	// dialAndSend is swapped out in tests.
	dialAndSend func(m *gomail.Message) error
}

func NewDispatcher(cfg config.NotifyConfig, company config.CompanyInfo, log *zap.SugaredLogger) *Dispatcher {
	d := &Dispatcher{
		cfg:         cfg,
		company:     company,
		log:         log,
		client:      resty.New().SetTimeout(gatewayTimeout),
		smsURL:      "https://api.msg91.com/api/v5/flow/",
		whatsappURL: "https://api.gupshup.io/sm/api/v1/msg",
	}
	d.dialAndSend = func(m *gomail.Message) error {
		dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
		dialer.SSL = cfg.SMTPSecure
		return dialer.DialAndSend(m)
	}
	return d
}

// SendAll dispatches the three channels concurrently and joins on all of
// them. The underlying transports carry their own timeouts, so one slow
// channel bounds itself instead of stalling the others sequentially.
func (d *Dispatcher) SendAll(order *models.Order, pdfPath string) Results {
	var results Results
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		results.SMS = d.sendSMS(order)
	}()
	go func() {
		defer wg.Done()
		results.Email = d.sendEmail(order, pdfPath)
	}()
	go func() {
		defer wg.Done()
		results.WhatsApp = d.sendWhatsApp(order)
	}()

	wg.Wait()
	d.log.Infow("notification results",
		"invoice_id", order.InvoiceID,
		"sms", results.SMS,
		"email", results.Email,
		"whatsapp", results.WhatsApp.Success,
	)
	return results
}
