// Package normalize turns the raw strings scraped off a product page into
// numbers the dashboard can aggregate. Missing is always nil, never zero.
package normalize

import (
	"math"
	"strconv"
	"strings"
)

// Strings that mean "no numeric value here", checked before any stripping.
var sentinels = map[string]struct{}{
	"":                      {},
	"n/a":                   {},
	"none":                  {},
	"out of stock":          {},
	"currently unavailable": {},
}

// Price converts a locale-formatted currency string ("₹1,23,456.00") into a
// float. Sentinel strings, empty results after stripping and unparsable
// leftovers all yield nil. It never returns an error to the caller.
func Price(s string) *float64 {
	trimmed := strings.TrimSpace(s)
	if _, ok := sentinels[strings.ToLower(trimmed)]; ok {
		return nil
	}

	// Keep digits and the decimal point, drop currency symbols and
	// thousands separators in whatever locale they arrived.
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, trimmed)

	if cleaned == "" {
		return nil
	}

	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &val
}

// Discount returns the percentage saved off the list price, rounded to one
// decimal place. Both operands must be present and the list price strictly
// positive; otherwise there is no discount to report and the result is nil.
func Discount(listPrice, currentPrice *float64) *float64 {
	if listPrice == nil || currentPrice == nil || *listPrice <= 0 {
		return nil
	}
	d := (*listPrice - *currentPrice) / *listPrice * 100
	d = math.Round(d*10) / 10
	return &d
}
