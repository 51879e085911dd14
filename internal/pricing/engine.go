// Package pricing implements the checkout pricing engine: it tallies a
// scanned cart and prices it against a per-call rule table, applying bundle
// and buy-X-get-Y-free promotions. The engine is pure; it holds no state and
// performs no I/O.
package pricing

import (
	"fmt"
	"sort"
)

// Money represents a monetary value stored in minor units.
type Money = int64

// UnknownSKUError reports a cart code missing from the rule table. The whole
// calculation fails; no partial total is produced.
type UnknownSKUError struct {
	Code string
}

func (e *UnknownSKUError) Error() string {
	return fmt.Sprintf("unknown sku: %s", e.Code)
}

// Tally counts the occurrences of each code in a scanned cart. Unrecognised
// codes are counted too; they are rejected later, during pricing, where the
// full rule table is in scope.
func Tally(cart []string) map[string]int {
	tally := make(map[string]int, len(cart))
	for _, code := range cart {
		tally[code]++
	}
	return tally
}

// Total prices a scanned cart against the rule table. The result does not
// depend on scan order.
func Total(cart []string, rules Table) (Money, error) {
	return TotalFromTally(Tally(cart), rules)
}

// TotalFromTally prices a pre-tallied cart against the rule table.
func TotalFromTally(tally map[string]int, rules Table) (Money, error) {
	var total Money
	for code, qty := range tally {
		rule, ok := rules[code]
		if !ok {
			return 0, &UnknownSKUError{Code: code}
		}
		total += rule.Subtotal(qty)
	}
	return total, nil
}

// Line is the priced contribution of one SKU to a quote.
type Line struct {
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
	Subtotal Money  `json:"subtotal"`
}

// Lines prices a tallied cart per SKU, sorted by code. The sum of the line
// subtotals equals TotalFromTally for the same inputs.
func Lines(tally map[string]int, rules Table) ([]Line, error) {
	codes := make([]string, 0, len(tally))
	for code := range tally {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	lines := make([]Line, 0, len(codes))
	for _, code := range codes {
		rule, ok := rules[code]
		if !ok {
			return nil, &UnknownSKUError{Code: code}
		}
		lines = append(lines, Line{
			Code:     code,
			Quantity: tally[code],
			Subtotal: rule.Subtotal(tally[code]),
		})
	}
	return lines, nil
}
