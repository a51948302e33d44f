package notify

import (
	"fmt"
	"net/url"
	"strings"

	"veggie-kart/internal/model"

	"github.com/shopspring/decimal"
)

const storeName = "VeggieFresh"

// OTPMessage renders the code delivery text for purpose.
func OTPMessage(purpose model.Purpose, code string) string {
	if purpose == model.PurposeLogin {
		return fmt.Sprintf("Your %s login OTP is: %s. Valid for 2 minutes.", storeName, code)
	}
	return fmt.Sprintf("Your %s verification OTP is: %s. Valid for 2 minutes.", storeName, code)
}

// OrderConfirmation renders the message sent after an order is recorded.
func OrderConfirmation(order *model.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Order Confirmation - %s*\n\n", storeName)
	fmt.Fprintf(&b, "Order ID: %s\n", order.ID)
	fmt.Fprintf(&b, "Date: %s\n", order.CreatedAt.Format("02/01/2006"))
	fmt.Fprintf(&b, "Total: ₹%s\n", Rupees(order.Total))
	fmt.Fprintf(&b, "Payment: %s\n\n", strings.ToUpper(string(order.PaymentMethod)))
	if order.TrackingID != nil {
		fmt.Fprintf(&b, "Tracking ID: %s\n\n", *order.TrackingID)
	}
	b.WriteString("Your order has been confirmed and will be delivered soon.\n")
	fmt.Fprintf(&b, "Thank you for shopping with %s!", storeName)
	return b.String()
}

// AbandonedCartReminder renders the nudge for a cart left untouched.
func AbandonedCartReminder(itemCount int, total decimal.Decimal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Reminder from %s*\n\n", storeName)
	fmt.Fprintf(&b, "You have %d items (₹%s) in your cart.\n", itemCount, Rupees(total))
	b.WriteString("Complete your order now before the fresh stock runs out!")
	return b.String()
}

// OrderRequest is the cart summary a customer forwards to the shop over WhatsApp.
type OrderRequest struct {
	CustomerName string
	Phone        string
	Lines        []model.CartLineView
	Subtotal     decimal.Decimal
	DeliveryFee  decimal.Decimal
	Total        decimal.Decimal
}

// Text renders the order request message.
func (r OrderRequest) Text() string {
	name := r.CustomerName
	if name == "" {
		name = "Guest"
	}
	phone := r.Phone
	if phone == "" {
		phone = "Not provided"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Order Request - %s*\n\n", storeName)
	fmt.Fprintf(&b, "Customer: %s\n", name)
	fmt.Fprintf(&b, "Mobile: %s\n\n", phone)
	b.WriteString("*Order Items:*\n")
	for _, line := range r.Lines {
		fmt.Fprintf(&b, "- %s (%dkg) - ₹%s\n", line.Name, line.Quantity, Rupees(line.LineTotal))
	}
	fmt.Fprintf(&b, "\nSubtotal: ₹%s", Rupees(r.Subtotal))
	if r.DeliveryFee.IsZero() {
		b.WriteString("\nDelivery: FREE")
	} else {
		fmt.Fprintf(&b, "\nDelivery: ₹%s", Rupees(r.DeliveryFee))
	}
	fmt.Fprintf(&b, "\n*Total: ₹%s*\n\n", Rupees(r.Total))
	b.WriteString("Payment Method: COD\n")
	b.WriteString("Please confirm this order and provide delivery address.")
	return b.String()
}

// WhatsAppLink returns the wa.me deep link that opens a chat with shopPhone prefilled with text.
// Spaces are sent as %20, which every WhatsApp client decodes.
func WhatsAppLink(shopPhone, text string) string {
	return "https://wa.me/" + shopPhone + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// Rupees formats an amount without trailing decimals for whole values.
func Rupees(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return d.StringFixed(0)
	}
	return d.StringFixed(2)
}
