package aging

import (
	"errors"
	"fmt"

	"github.com/ahmetbesiroglu/ramp-aging-report/internal/domain"
)

// ErrMissingDueDate is returned for bills whose due date could not be
// resolved; such bills cannot be bucketed.
var ErrMissingDueDate = errors.New("bill has no resolvable due date")

// Classify assigns a bill to exactly one of the five aging buckets based on
// how many whole days its due date precedes the cutoff.
func Classify(b domain.Bill, c Cutoff) (string, error) {
	if b.DueAt == nil {
		return "", fmt.Errorf("classify bill %s: %w", b.ID, ErrMissingDueDate)
	}

	labels := c.BucketLabels()
	delta := c.DeltaDays(*b.DueAt)

	switch {
	case delta < 0:
		return labels[0], nil
	case delta < bucket30Days:
		return labels[1], nil
	case delta < bucket60Days:
		return labels[2], nil
	case delta < bucket90Days:
		return labels[3], nil
	default:
		return labels[4], nil
	}
}
