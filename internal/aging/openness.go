package aging

import (
	"time"

	"github.com/ahmetbesiroglu/ramp-aging-report/internal/domain"
)

// paymentDate picks the signal that decides openness: the payment's
// effective date when the API reports one, otherwise the paid_at timestamp.
func paymentDate(b domain.Bill) *time.Time {
	if b.PaymentEffectiveDate != nil {
		return b.PaymentEffectiveDate
	}
	return b.PaidAt
}

// IsOpenAsOf reports whether a bill still counted as open at the cutoff:
// never paid, or paid strictly after it. A bill paid exactly at the cutoff
// instant is closed.
func IsOpenAsOf(b domain.Bill, c Cutoff) bool {
	paid := paymentDate(b)
	if paid == nil {
		return true
	}
	return paid.After(c.Time)
}

// FilterOpenAsOf returns the bills that were open at the cutoff, preserving
// input order.
func FilterOpenAsOf(bills []domain.Bill, c Cutoff) []domain.Bill {
	open := make([]domain.Bill, 0, len(bills))
	for _, b := range bills {
		if IsOpenAsOf(b, c) {
			open = append(open, b)
		}
	}
	return open
}
