// Package format renders numbers and prices for people. Nothing here feeds
// back into a computation.
package format

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// Number renders an integer with thousands separators: 1234567 -> "1,234,567".
func Number(n int) string {
	return humanize.Comma(int64(n))
}

// Currency renders a dollar amount. Amounts of a cent or more use two
// decimals; smaller non-zero amounts keep six so they do not collapse to
// "$0.00".
func Currency(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = math.Abs(v)
	}
	if v != 0 && v < 0.01 {
		return sign + "$" + humanize.FormatFloat("#,###.######", v)
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", v)
}

// PricePerMillion renders a per-million-token price, e.g. "$2.50/1M".
func PricePerMillion(v float64) string {
	s := humanize.FormatFloat("#,###.####", v)
	// Keep at least two decimals, drop trailing zeros beyond that.
	if i := strings.IndexByte(s, '.'); i >= 0 {
		for len(s) > i+3 && s[len(s)-1] == '0' {
			s = s[:len(s)-1]
		}
	}
	return "$" + s + "/1M"
}

// ContextLength renders a context window compactly: 128000 -> "128K",
// 2000000 -> "2M".
func ContextLength(n int) string {
	switch {
	case n >= 1_000_000 && n%1_000_000 == 0:
		return humanize.Comma(int64(n/1_000_000)) + "M"
	case n >= 1_000 && n%1_000 == 0:
		return humanize.Comma(int64(n/1_000)) + "K"
	}
	return humanize.Comma(int64(n))
}
