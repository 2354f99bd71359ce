package aging

import (
	"testing"
	"time"

	"github.com/ahmetbesiroglu/ramp-aging-report/internal/domain"
)

func TestIsOpenAsOf(t *testing.T) {
	c, err := ParseCutoff("31-08-2024")
	if err != nil {
		t.Fatal(err)
	}

	atCutoff := c.Time
	afterCutoff := c.Time.Add(time.Second)
	beforeCutoff := time.Date(2024, 8, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		bill domain.Bill
		want bool
	}{
		{"never paid", domain.Bill{}, true},
		{"paid before cutoff", domain.Bill{PaidAt: &beforeCutoff}, false},
		{"paid exactly at cutoff", domain.Bill{PaidAt: &atCutoff}, false},
		{"paid one second after cutoff", domain.Bill{PaidAt: &afterCutoff}, true},
		{"effective date after cutoff wins over earlier paid_at",
			domain.Bill{PaidAt: &beforeCutoff, PaymentEffectiveDate: &afterCutoff}, true},
		{"effective date before cutoff wins over later paid_at",
			domain.Bill{PaidAt: &afterCutoff, PaymentEffectiveDate: &beforeCutoff}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOpenAsOf(tt.bill, c); got != tt.want {
				t.Errorf("IsOpenAsOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterOpenAsOf(t *testing.T) {
	c, err := ParseCutoff("31-08-2024")
	if err != nil {
		t.Fatal(err)
	}

	closedAt := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	bills := []domain.Bill{
		{ID: "open-1"},
		{ID: "closed-1", PaidAt: &closedAt},
		{ID: "open-2"},
	}

	open := FilterOpenAsOf(bills, c)
	if len(open) != 2 {
		t.Fatalf("FilterOpenAsOf returned %d bills, want 2", len(open))
	}
	if open[0].ID != "open-1" || open[1].ID != "open-2" {
		t.Errorf("FilterOpenAsOf changed input order: %v", open)
	}
}
