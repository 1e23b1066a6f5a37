package notify

import (
	"fmt"
	"strings"

	"github.com/ktosdespidoras/roblox/internal/core/domain"
)

// Report is the operator message for one completed order. It carries the
// masked card only.
type Report struct {
	Order   *domain.Order
	Payment domain.PaymentSummary
	Network string
	Device  string
}

func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order #%d\n", r.Order.ID)
	fmt.Fprintf(&b, "Customer: %s\n", r.Order.Owner)
	fmt.Fprintf(&b, "Account: %s\n", r.Order.TargetAccount)
	fmt.Fprintf(&b, "Amount: %d R$\n", r.Order.Amount)
	fmt.Fprintf(&b, "Price: %s\n", r.Order.Price())
	fmt.Fprintf(&b, "Card: %s (exp %s)\n", r.Payment.Masked(), r.Payment.Expiry)
	fmt.Fprintf(&b, "Network: %s\n", r.Network)
	fmt.Fprintf(&b, "Device: %s", r.Device)
	return b.String()
}
