package parse

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Laptime converts the textual lap time encodings found in the source
// files ("1:23.456", "83.456", "1:02:03.456") to seconds. The decimal
// intermediary keeps the millisecond part exact before the final float
// conversion.
func Laptime(s string) (float64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	if s == "" {
		return 0, fmt.Errorf("empty lap time")
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid lap time %q", s)
	}
	total := decimal.Zero
	sixty := decimal.NewFromInt(60)
	for _, p := range parts {
		d, err := decimal.NewFromString(p)
		if err != nil {
			return 0, fmt.Errorf("invalid lap time %q: %w", s, err)
		}
		if d.IsNegative() {
			return 0, fmt.Errorf("negative lap time %q", s)
		}
		total = total.Mul(sixty).Add(d)
	}
	return total.InexactFloat64(), nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
}

// Timestamp parses the ISO-style timestamps of the source files and
// normalizes them to UTC.
func Timestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
