package ramp

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahmetbesiroglu/ramp-aging-report/internal/domain"
)

// Date layouts seen in bill payloads. The API documents RFC 3339 but some
// accounting integrations deliver bare dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// normalizeBill maps one wire bill into the fixed internal record, so the
// aging logic never sees the API's variant shapes. Amounts arrive in minor
// units and are scaled to major units here. Unparseable payment dates become
// nil (the bill counts as open); an unparseable due date becomes nil and is
// skipped later with a warning.
func normalizeBill(w wireBill) (domain.Bill, error) {
	amount, err := parseAmount(w.Amount)
	if err != nil {
		return domain.Bill{}, fmt.Errorf("bill %s: %w", w.ID, err)
	}
	vendor, err := parseVendor(w.Vendor)
	if err != nil {
		return domain.Bill{}, fmt.Errorf("bill %s: %w", w.ID, err)
	}

	b := domain.Bill{
		ID:         w.ID,
		VendorName: vendor,
		Amount:     amount,
		IssuedAt:   parseDate(w.IssuedAt),
		DueAt:      parseDate(w.DueAt),
		PaidAt:     parseDate(w.PaidAt),
	}
	if w.Payment != nil {
		b.PaymentEffectiveDate = parseDate(w.Payment.EffectiveDate)
	}
	return b, nil
}

// parseAmount accepts either a bare integer of minor units or an object with
// an "amount" field, and scales to major units.
func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	if len(raw) == 0 {
		return decimal.Decimal{}, fmt.Errorf("missing amount")
	}

	var minor int64
	if err := json.Unmarshal(raw, &minor); err == nil {
		return decimal.NewFromInt(minor).Shift(-2), nil
	}

	var obj struct {
		Amount int64 `json:"amount"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return decimal.Decimal{}, fmt.Errorf("unexpected amount shape %s", raw)
	}
	return decimal.NewFromInt(obj.Amount).Shift(-2), nil
}

// parseVendor accepts either a bare name or an object with a "remote_name"
// field; the name is trimmed either way.
func parseVendor(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("missing vendor")
	}

	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return strings.TrimSpace(name), nil
	}

	var obj struct {
		RemoteName string `json:"remote_name"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("unexpected vendor shape %s", raw)
	}
	return strings.TrimSpace(obj.RemoteName), nil
}

// parseDate tries the known layouts and drops any zone offset, keeping the
// wall-clock reading. Cutoff comparisons are wall-clock against the entity's
// books, not instant-based; converting the instant would move a payment made
// late on the cutoff day into the next day. Anything unparseable is nil.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			u := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
			return &u
		}
	}
	return nil
}
