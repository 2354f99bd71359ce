package aging

import (
	"errors"
	"testing"
	"time"
)

func TestParseCutoff(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantISO string
		wantErr bool
	}{
		{"valid date", "31-08-2024", "2024-08-31T23:59:59Z", false},
		{"valid leap day", "29-02-2024", "2024-02-29T23:59:59Z", false},
		{"iso order rejected", "2024-08-31", "", true},
		{"slashes rejected", "31/08/2024", "", true},
		{"nonsense", "not-a-date", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseCutoff(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCutoff(%q) expected error", tt.input)
				}
				if !errors.Is(err, ErrInvalidDateFormat) {
					t.Errorf("error = %v, want ErrInvalidDateFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCutoff(%q) error: %v", tt.input, err)
			}
			if got := c.ISO8601(); got != tt.wantISO {
				t.Errorf("ISO8601() = %q, want %q", got, tt.wantISO)
			}
		})
	}
}

func TestCutoff_UserDate(t *testing.T) {
	c, err := ParseCutoff("01-09-2024")
	if err != nil {
		t.Fatal(err)
	}
	if got := c.UserDate(); got != "01-09-2024" {
		t.Errorf("UserDate() = %q, want %q", got, "01-09-2024")
	}
}

func TestCutoff_DeltaDays(t *testing.T) {
	c, err := ParseCutoff("31-08-2024")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		due  time.Time
		want int
	}{
		{"due day after cutoff", time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), -1},
		{"due one second after cutoff", time.Date(2024, 8, 31, 23, 59, 60, 0, time.UTC), -1},
		{"due at cutoff instant", c.Time, 0},
		{"due on cutoff day", time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC), 0},
		{"thirty days before", time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), 30},
		{"ninety days before", time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.DeltaDays(tt.due); got != tt.want {
				t.Errorf("DeltaDays(%v) = %d, want %d", tt.due, got, tt.want)
			}
		})
	}
}

func TestCutoff_BucketLabels(t *testing.T) {
	c, err := ParseCutoff("31-08-2024")
	if err != nil {
		t.Fatal(err)
	}

	want := [5]string{
		"Current",
		"2024-08-02 - 2024-08-31 (30)",
		"2024-07-03 - 2024-08-01 (60)",
		"2024-06-03 - 2024-07-02 (90)",
		"Before 2024-06-02 (>90)",
	}
	if got := c.BucketLabels(); got != want {
		t.Errorf("BucketLabels() = %v, want %v", got, want)
	}
}

func TestCutoff_ColumnNames(t *testing.T) {
	c, err := ParseCutoff("31-08-2024")
	if err != nil {
		t.Fatal(err)
	}

	cols := c.ColumnNames()
	if len(cols) != 7 {
		t.Fatalf("ColumnNames() returned %d columns, want 7", len(cols))
	}
	if cols[0] != "Vendor Name" || cols[6] != "Total" {
		t.Errorf("ColumnNames() = %v, want Vendor Name first and Total last", cols)
	}

	labels := c.BucketLabels()
	for i, label := range labels {
		if cols[i+1] != label {
			t.Errorf("column %d = %q, want bucket label %q", i+1, cols[i+1], label)
		}
	}
}
