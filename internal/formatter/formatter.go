// Package formatter renders amounts, percentages, durations and phone numbers
// for display.
package formatter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrencySuffix is appended to formatted currency amounts.
const DefaultCurrencySuffix = "FCFA"

// CountryCode is the dialing prefix used when formatting local phone numbers.
const CountryCode = "237"

var nonDigits = regexp.MustCompile(`\D`)

// Formatter formats values with a fixed currency suffix.
type Formatter struct {
	Suffix string
}

func New(suffix string) Formatter {
	if suffix == "" {
		suffix = DefaultCurrencySuffix
	}
	return Formatter{Suffix: suffix}
}

// Currency rounds v to the whole unit and groups thousands with spaces,
// e.g. 2326752.4 -> "2 326 752 FCFA".
func (f Formatter) Currency(v float64) string {
	return groupThousands(decimal.NewFromFloat(v).Round(0)) + " " + f.Suffix
}

// Currency formats v with the default suffix.
func Currency(v float64) string {
	return New(DefaultCurrencySuffix).Currency(v)
}

func groupThousands(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	digits := d.StringFixed(0)
	var b strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(c)
	}
	return sign + b.String()
}

// Percentage renders v with the given number of decimals, e.g. "15.0 %".
// A negative decimals count uses one decimal.
func Percentage(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 1
	}
	return decimal.NewFromFloat(v).StringFixed(int32(decimals)) + " %"
}

// Duration converts months to years and months, e.g. "2 years 3 months".
func Duration(months int) string {
	if months <= 0 {
		return "0 months"
	}

	years, rest := months/12, months%12
	parts := make([]string, 0, 2)
	if years > 0 {
		parts = append(parts, plural(years, "year"))
	}
	if rest > 0 {
		parts = append(parts, plural(rest, "month"))
	}
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Phone formats a 9-digit local number, optionally prefixed with the country
// code, as "+237 6 99 12 34 56". Anything else is returned unchanged.
func Phone(raw string) string {
	digits := nonDigits.ReplaceAllString(raw, "")
	if len(digits) == 9+len(CountryCode) && strings.HasPrefix(digits, CountryCode) {
		digits = digits[len(CountryCode):]
	}
	if len(digits) != 9 {
		return raw
	}
	return fmt.Sprintf("+%s %s %s %s %s %s", CountryCode,
		digits[0:1], digits[1:3], digits[3:5], digits[5:7], digits[7:9])
}
