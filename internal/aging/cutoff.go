// Package aging implements the accounts-payable aging rules: the cutoff
// date math, the open-as-of predicate, the five-bucket classifier and the
// vendor aggregation that turns open bills into a report table.
package aging

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidDateFormat is returned when a user-supplied cutoff date does not
// match the expected DD-MM-YYYY pattern.
var ErrInvalidDateFormat = errors.New("invalid date format, expected DD-MM-YYYY")

const (
	userDateFormat = "02-01-2006"
	dayFormat      = "2006-01-02"
)

// Day offsets shared by the classifier and the column-name generator.
// Both must produce byte-identical labels for the pivoted columns to align.
const (
	bucket30Days = 30
	bucket60Days = 60
	bucket90Days = 90
)

// Cutoff is the as-of reference date for a report run: the last instant
// (23:59:59 UTC) of the user-supplied calendar day. Immutable once parsed.
type Cutoff struct {
	Time time.Time
}

// ParseCutoff parses a DD-MM-YYYY date string into a Cutoff fixed at the
// end of that day in UTC.
func ParseCutoff(userDate string) (Cutoff, error) {
	t, err := time.Parse(userDateFormat, userDate)
	if err != nil {
		return Cutoff{}, fmt.Errorf("parse cutoff %q: %w", userDate, ErrInvalidDateFormat)
	}
	return Cutoff{
		Time: time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC),
	}, nil
}

// ISO8601 returns the cutoff as an ISO timestamp, the form the bills API
// expects for its to_issued_date filter.
func (c Cutoff) ISO8601() string {
	return c.Time.Format("2006-01-02T15:04:05Z")
}

// UserDate returns the cutoff in the DD-MM-YYYY form it was supplied in,
// used in output file names.
func (c Cutoff) UserDate() string {
	return c.Time.Format(userDateFormat)
}

// DeltaDays returns the age of a due date relative to the cutoff in whole
// days, floored. A due date even one second past the cutoff is -1 day old.
func (c Cutoff) DeltaDays(due time.Time) int {
	d := c.Time.Sub(due)
	return int(math.Floor(d.Hours() / 24))
}

func (c Cutoff) day(offset int) string {
	return c.Time.AddDate(0, 0, -offset).Format(dayFormat)
}

// BucketLabels returns the five bucket labels in canonical report order.
// Labels are date-dependent strings, generated once per run and threaded
// through classification, aggregation and output.
func (c Cutoff) BucketLabels() [5]string {
	return [5]string{
		"Current",
		fmt.Sprintf("%s - %s (30)", c.day(bucket30Days-1), c.day(0)),
		fmt.Sprintf("%s - %s (60)", c.day(bucket60Days-1), c.day(bucket30Days)),
		fmt.Sprintf("%s - %s (90)", c.day(bucket90Days-1), c.day(bucket60Days)),
		fmt.Sprintf("Before %s (>90)", c.day(bucket90Days)),
	}
}

// ColumnNames returns the full aging-table header: vendor, the five bucket
// labels, and the row total.
func (c Cutoff) ColumnNames() []string {
	labels := c.BucketLabels()
	cols := make([]string, 0, len(labels)+2)
	cols = append(cols, "Vendor Name")
	cols = append(cols, labels[:]...)
	cols = append(cols, "Total")
	return cols
}
