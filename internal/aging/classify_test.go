package aging

import (
	"errors"
	"testing"
	"time"

	"github.com/ahmetbesiroglu/ramp-aging-report/internal/domain"
)

func dueOn(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// The bucket ranges must partition every delta with no gap or overlap; the
// interesting deltas are the boundaries 29/30, 59/60, 89/90 and a negative.
func TestClassify_Boundaries(t *testing.T) {
	c, err := ParseCutoff("31-08-2024")
	if err != nil {
		t.Fatal(err)
	}
	labels := c.BucketLabels()

	tests := []struct {
		name  string
		due   *time.Time
		delta int
		want  string
	}{
		{"future due date", dueOn(2024, 9, 1), -1, labels[0]},
		{"due at cutoff day", dueOn(2024, 8, 31), 0, labels[1]},
		{"delta 29", dueOn(2024, 8, 2), 29, labels[1]},
		{"delta 30", dueOn(2024, 8, 1), 30, labels[2]},
		{"delta 59", dueOn(2024, 7, 3), 59, labels[2]},
		{"delta 60", dueOn(2024, 7, 2), 60, labels[3]},
		{"delta 89", dueOn(2024, 6, 3), 89, labels[3]},
		{"delta 90", dueOn(2024, 6, 2), 90, labels[4]},
		{"very old", dueOn(2023, 1, 1), 608, labels[4]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.DeltaDays(*tt.due); got != tt.delta {
				t.Fatalf("DeltaDays = %d, want %d", got, tt.delta)
			}
			got, err := Classify(domain.Bill{ID: "b1", DueAt: tt.due}, c)
			if err != nil {
				t.Fatalf("Classify error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Classifier output and column-name generation must stay byte-identical so
// the pivoted columns of the aggregate line up across reports.
func TestClassify_MatchesColumnLabels(t *testing.T) {
	c, err := ParseCutoff("15-02-2025")
	if err != nil {
		t.Fatal(err)
	}
	labels := c.BucketLabels()

	// One representative due date per bucket range.
	dues := []*time.Time{
		dueOn(2025, 3, 1),  // delta < 0
		dueOn(2025, 2, 1),  // 0 <= delta < 30
		dueOn(2025, 1, 1),  // 30 <= delta < 60
		dueOn(2024, 12, 1), // 60 <= delta < 90
		dueOn(2024, 9, 1),  // delta >= 90
	}

	for i, due := range dues {
		got, err := Classify(domain.Bill{ID: "b", DueAt: due}, c)
		if err != nil {
			t.Fatalf("Classify error: %v", err)
		}
		if got != labels[i] {
			t.Errorf("bucket %d: Classify() = %q, column label %q", i, got, labels[i])
		}
	}
}

func TestClassify_MissingDueDate(t *testing.T) {
	c, err := ParseCutoff("31-08-2024")
	if err != nil {
		t.Fatal(err)
	}

	_, err = Classify(domain.Bill{ID: "bill-42"}, c)
	if !errors.Is(err, ErrMissingDueDate) {
		t.Errorf("error = %v, want ErrMissingDueDate", err)
	}
}
