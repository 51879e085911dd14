package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-kasir/internal/pricing"
)

func splitCart(s string) []string {
	cart := make([]string, 0, len(s))
	for _, r := range s {
		cart = append(cart, string(r))
	}
	return cart
}

func TestTally(t *testing.T) {
	tally := pricing.Tally(splitCart("ABAB"))
	require.Equal(t, map[string]int{"A": 2, "B": 2}, tally)

	require.Empty(t, pricing.Tally(nil))
	require.Empty(t, pricing.Tally([]string{}))

	// Unrecognised codes are tallied; pricing rejects them later.
	require.Equal(t, map[string]int{"Z": 1}, pricing.Tally([]string{"Z"}))
}

func TestTotalEmptyCart(t *testing.T) {
	total, err := pricing.Total(nil, pricing.DefaultRules())
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestTotalOrderIndependent(t *testing.T) {
	rules := pricing.DefaultRules()
	carts := []string{"ABCDABCD", "DDCCBBAA", "AABBCCDD"}

	want, err := pricing.Total(splitCart(carts[0]), rules)
	require.NoError(t, err)
	for _, cart := range carts[1:] {
		got, err := pricing.Total(splitCart(cart), rules)
		require.NoError(t, err)
		require.Equal(t, want, got, "cart %q", cart)
	}
}

func TestBundleBoundaries(t *testing.T) {
	rules := pricing.Table{
		"A": {UnitPrice: 50, Promo: pricing.Bundle{Quantity: 3, Price: 130}},
	}
	cases := []struct {
		qty  int
		want pricing.Money
	}{
		{1, 50},
		{2, 100},
		{3, 130},
		{4, 180},
		{6, 260},
	}
	for _, tc := range cases {
		got, err := pricing.TotalFromTally(map[string]int{"A": tc.qty}, rules)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "qty %d", tc.qty)
	}
}

func TestFreebieBoundaries(t *testing.T) {
	rules := pricing.Table{
		"C": {UnitPrice: 20, Promo: pricing.Freebie{Paid: 2, Free: 1}},
	}
	cases := []struct {
		qty  int
		want pricing.Money
	}{
		{1, 20},
		{2, 40},
		{3, 40},
		{4, 60},
		{6, 80},
	}
	for _, tc := range cases {
		got, err := pricing.TotalFromTally(map[string]int{"C": tc.qty}, rules)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "qty %d", tc.qty)
	}
}

// A trailing partial group is charged in full even when the remainder exceeds
// the paid quantity; only complete groups earn free units.
func TestFreebiePartialGroupChargedInFull(t *testing.T) {
	rules := pricing.Table{
		"C": {UnitPrice: 20, Promo: pricing.Freebie{Paid: 2, Free: 1}},
	}
	// 5 = one full group (2 paid) + remainder of 2, both charged.
	got, err := pricing.TotalFromTally(map[string]int{"C": 5}, rules)
	require.NoError(t, err)
	require.Equal(t, pricing.Money(80), got)
}

func TestTotalMixedCart(t *testing.T) {
	total, err := pricing.Total(splitCart("AAAABBCD"), pricing.DefaultRules())
	require.NoError(t, err)
	require.Equal(t, pricing.Money(260), total)
}

func TestTotalUnknownSKU(t *testing.T) {
	_, err := pricing.Total(splitCart("ABX"), pricing.DefaultRules())
	require.Error(t, err)

	var unknown *pricing.UnknownSKUError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "X", unknown.Code)
	require.Equal(t, "unknown sku: X", err.Error())
}

func TestTotalCustomTable(t *testing.T) {
	rules := pricing.Table{
		"KOPI": {UnitPrice: 12000, Promo: pricing.Bundle{Quantity: 2, Price: 20000}},
		"TEH":  {UnitPrice: 8000},
	}
	total, err := pricing.Total([]string{"KOPI", "TEH", "KOPI", "KOPI"}, rules)
	require.NoError(t, err)
	require.Equal(t, pricing.Money(20000+12000+8000), total)
}

func TestTotalIdempotent(t *testing.T) {
	rules := pricing.DefaultRules()
	cart := splitCart("AAABBCD")

	first, err := pricing.Total(cart, rules)
	require.NoError(t, err)
	second, err := pricing.Total(cart, rules)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestLines(t *testing.T) {
	lines, err := pricing.Lines(pricing.Tally(splitCart("DAACBA")), pricing.DefaultRules())
	require.NoError(t, err)
	require.Equal(t, []pricing.Line{
		{Code: "A", Quantity: 3, Subtotal: 130},
		{Code: "B", Quantity: 1, Subtotal: 30},
		{Code: "C", Quantity: 1, Subtotal: 20},
		{Code: "D", Quantity: 1, Subtotal: 15},
	}, lines)

	var total pricing.Money
	for _, line := range lines {
		total += line.Subtotal
	}
	want, err := pricing.Total(splitCart("DAACBA"), pricing.DefaultRules())
	require.NoError(t, err)
	require.Equal(t, want, total)
}

func TestLinesUnknownSKU(t *testing.T) {
	_, err := pricing.Lines(map[string]int{"A": 1, "Q": 2}, pricing.DefaultRules())
	var unknown *pricing.UnknownSKUError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "Q", unknown.Code)
}
