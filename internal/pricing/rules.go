package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrNegativeUnitPrice is returned when a rule carries a negative unit price.
	ErrNegativeUnitPrice = errors.New("pricing: negative unit price")
	// ErrInvalidBundle is returned when a bundle promotion has a non-positive quantity or price.
	ErrInvalidBundle = errors.New("pricing: bundle quantity and price must be positive")
	// ErrInvalidFreebie is returned when a freebie promotion has a non-positive paid or free quantity.
	ErrInvalidFreebie = errors.New("pricing: freebie paid and free quantities must be positive")
)

// Promo is a promotion attached to a pricing rule. Exactly two kinds exist:
// Bundle and Freebie. A rule without a promotion carries a nil Promo.
type Promo interface {
	subtotal(qty int, unit Money) Money
	validate() error
}

// Bundle charges a fixed price for every complete group of Quantity units.
// Units left over below a full group are charged at the rule's unit price.
type Bundle struct {
	Quantity int
	Price    Money
}

func (b Bundle) subtotal(qty int, unit Money) Money {
	if b.Quantity <= 0 {
		return Money(qty) * unit
	}
	groups := qty / b.Quantity
	rest := qty % b.Quantity
	return Money(groups)*b.Price + Money(rest)*unit
}

func (b Bundle) validate() error {
	if b.Quantity <= 0 || b.Price <= 0 {
		return ErrInvalidBundle
	}
	return nil
}

// Freebie charges every complete group of Paid+Free units as Paid units.
// Only complete groups earn the free allotment: units in a trailing partial
// group are charged in full even when they exceed Paid.
type Freebie struct {
	Paid int
	Free int
}

func (f Freebie) subtotal(qty int, unit Money) Money {
	size := f.Paid + f.Free
	if size <= 0 {
		return Money(qty) * unit
	}
	groups := qty / size
	rest := qty % size
	return Money(groups*f.Paid+rest) * unit
}

func (f Freebie) validate() error {
	if f.Paid <= 0 || f.Free <= 0 {
		return ErrInvalidFreebie
	}
	return nil
}

// Rule prices a single SKU: a unit price in minor currency units plus at most
// one promotion.
type Rule struct {
	UnitPrice Money
	Promo     Promo
}

// Subtotal prices qty units under the rule.
func (r Rule) Subtotal(qty int) Money {
	if qty <= 0 {
		return 0
	}
	if r.Promo == nil {
		return Money(qty) * r.UnitPrice
	}
	return r.Promo.subtotal(qty, r.UnitPrice)
}

// Validate checks the rule's numeric constraints.
func (r Rule) Validate() error {
	if r.UnitPrice < 0 {
		return ErrNegativeUnitPrice
	}
	if r.Promo != nil {
		return r.Promo.validate()
	}
	return nil
}

// Table maps SKU codes to pricing rules. Tables are supplied per calculation
// and are never mutated by the engine.
type Table map[string]Rule

// Validate checks every rule in the table, reporting the first offending code.
func (t Table) Validate() error {
	for code, rule := range t {
		if err := rule.Validate(); err != nil {
			return fmt.Errorf("rule %q: %w", code, err)
		}
	}
	return nil
}

// DefaultRules returns the sample catalogue. A fresh table is built on every
// call so callers may freely modify their copy.
func DefaultRules() Table {
	return Table{
		"A": {UnitPrice: 50, Promo: Bundle{Quantity: 3, Price: 130}},
		"B": {UnitPrice: 30, Promo: Bundle{Quantity: 2, Price: 45}},
		"C": {UnitPrice: 20, Promo: Freebie{Paid: 2, Free: 1}},
		"D": {UnitPrice: 15},
	}
}
