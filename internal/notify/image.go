package notify

import (
	"fmt"
	"image/jpeg"
	"os"

	"github.com/agnar3901/sign-manufacturing-app/config"
	"github.com/agnar3901/sign-manufacturing-app/internal/invoice"
	"github.com/agnar3901/sign-manufacturing-app/internal/models"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	imageWidth  = 600
	imageHeight = 400
	lineSpacing = 28
)

// GenerateOrderImage draws the order summary card sent over WhatsApp: a
// fixed-size white canvas with one line of text per field. Returns the path
// of a temporary JPEG the caller must remove.
func GenerateOrderImage(order *models.Order, company config.CompanyInfo) (string, error) {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(basicfont.Face7x13)

	lines := []string{
		fmt.Sprintf("%s Invoice", company.Name),
		fmt.Sprintf("Invoice ID: %s", order.InvoiceID),
		fmt.Sprintf("Customer: %s", order.CustomerName),
		fmt.Sprintf("Phone: %s", order.PhoneNumber),
		fmt.Sprintf("Email: %s", order.EmailAddress),
		fmt.Sprintf("Item: %s (%s)", order.ItemType, order.Size),
		fmt.Sprintf("Quantity: %d", order.Quantity),
		fmt.Sprintf("Rate: %s", invoice.FormatAmount(order.Rate)),
		fmt.Sprintf("Total: %s", invoice.FormatAmount(order.Total)),
		fmt.Sprintf("Payment: %s", order.PaymentMode),
		fmt.Sprintf("Delivery: %s", order.DeliveryType),
		fmt.Sprintf("Notes: %s", order.Notes),
		"Thank you for your business!",
	}

	y := 20.0
	for _, line := range lines {
		dc.DrawString(line, 20, y)
		y += lineSpacing
	}

	f, err := os.CreateTemp("", "order-*.jpg")
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, dc.Image(), &jpeg.Options{Quality: 90}); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("encode order image: %w", err)
	}
	return f.Name(), nil
}
