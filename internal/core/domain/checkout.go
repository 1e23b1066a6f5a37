package domain

import "strings"

type CheckoutState string

const (
	CheckoutStateForm       CheckoutState = "form"
	CheckoutStateProcessing CheckoutState = "processing"
	CheckoutStateSuccess    CheckoutState = "success"
)

// CheckoutForm holds the fields entered on the checkout page. The card
// number and security code live only as long as the form does.
type CheckoutForm struct {
	TargetAccount string
	CardNumber    string
	CardExpiry    string
	CardCode      string
}

// Validate checks required fields in the order they appear on the page.
func (f *CheckoutForm) Validate(p *Product) error {
	if p.RequiresAccount() && strings.TrimSpace(f.TargetAccount) == "" {
		return &ValidationError{Field: "target_account"}
	}
	if strings.TrimSpace(f.CardNumber) == "" {
		return &ValidationError{Field: "card_number"}
	}
	if strings.TrimSpace(f.CardExpiry) == "" {
		return &ValidationError{Field: "card_expiry"}
	}
	if strings.TrimSpace(f.CardCode) == "" {
		return &ValidationError{Field: "card_code"}
	}
	return nil
}

// AccountLabel is the target account recorded on the order.
func (f *CheckoutForm) AccountLabel(p *Product) string {
	if !p.RequiresAccount() {
		return AccountNotRequired
	}
	return strings.TrimSpace(f.TargetAccount)
}

// Payment drops everything but the last four digits and the expiry.
func (f *CheckoutForm) Payment() PaymentSummary {
	digits := make([]rune, 0, len(f.CardNumber))
	for _, r := range f.CardNumber {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	last4 := string(digits)
	if len(digits) > 4 {
		last4 = string(digits[len(digits)-4:])
	}
	return PaymentSummary{Last4: last4, Expiry: strings.TrimSpace(f.CardExpiry)}
}

// ClientContext is what the transport knows about the caller.
type ClientContext struct {
	UserAgent  string
	RemoteAddr string
}

// Selection picks what a new checkout sells. A positive CustomAmount wins
// over ProductID.
type Selection struct {
	ProductID    int64
	CustomAmount int64
	Currency     Currency
}

// CheckoutView is a snapshot of one checkout.
type CheckoutView struct {
	State    CheckoutState
	Product  Product
	Currency Currency
	Price    Money
	Order    *Order
}
