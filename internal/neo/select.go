package neo

import (
	"slices"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// AverageDiameter returns the mean of the estimated minimum and maximum
// diameters without rounding.
func AverageDiameter(lo, hi decimal.Decimal) decimal.Decimal {
	return lo.Add(hi).Div(two)
}

// SelectTop returns up to n records ordered by diameter, largest first.
// Records with equal diameters keep their input order. The input slice is
// not modified and the result is never nil.
func SelectTop(records []Record, n int) []Record {
	if n < 0 {
		n = 0
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	slices.SortStableFunc(sorted, func(a, b Record) int {
		return b.Diameter.Cmp(a.Diameter)
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
