// Package format renders report numbers for people: grouped thousands,
// fixed two-decimal money with a currency symbol.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Money formats an amount with exactly 2 decimal places and thousands
// separators, e.g. "$1,234.50". The amount is rounded half away from zero.
func Money(symbol string, d decimal.Decimal) string {
	fixed := d.Round(2).StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		// Beyond int64, skip grouping
		return sign + symbol + fixed
	}
	return sign + symbol + printer.Sprintf("%d", n) + "." + frac
}

// Int formats an integer with thousands separators
func Int(n int64) string {
	return printer.Sprintf("%d", n)
}

// Float formats a float with the given number of decimals. NaN renders as
// "n/a".
func Float(f float64, decimals int) string {
	if math.IsNaN(f) {
		return "n/a"
	}
	return strconv.FormatFloat(f, 'f', decimals, 64)
}

// Hour renders an hour of day as "07:00"
func Hour(h int) string {
	return printer.Sprintf("%02d:00", h)
}
