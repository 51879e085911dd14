package quote

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/noah-isme/backend-kasir/internal/pricing"
)

// ErrPromoConflict is returned when a rule document carries more than one
// promotion.
var ErrPromoConflict = errors.New("quote: at most one promotion per rule")

// BundleDoc is the wire shape of an N-for-a-fixed-price promotion.
type BundleDoc struct {
	Quantity int           `json:"quantity" validate:"required,min=1"`
	Price    pricing.Money `json:"price" validate:"required,min=1"`
}

// FreebieDoc is the wire shape of a buy-X-get-Y-free promotion.
type FreebieDoc struct {
	Paid int `json:"paid" validate:"required,min=1"`
	Free int `json:"free" validate:"required,min=1"`
}

// RuleDoc is the wire shape of a pricing rule: a unit price plus at most one
// of the promotion keys.
type RuleDoc struct {
	UnitPrice pricing.Money `json:"unit_price" validate:"min=0"`
	Bundle    *BundleDoc    `json:"bundle,omitempty"`
	Freebie   *FreebieDoc   `json:"freebie,omitempty"`
}

// TableDoc is the wire shape of a rule table keyed by SKU code.
type TableDoc map[string]RuleDoc

// Table converts the document into an engine rule table, rejecting documents
// that declare both promotion kinds on one rule.
func (d TableDoc) Table() (pricing.Table, error) {
	table := make(pricing.Table, len(d))
	for code, doc := range d {
		if doc.Bundle != nil && doc.Freebie != nil {
			return nil, fmt.Errorf("rule %q: %w", code, ErrPromoConflict)
		}
		rule := pricing.Rule{UnitPrice: doc.UnitPrice}
		switch {
		case doc.Bundle != nil:
			rule.Promo = pricing.Bundle{Quantity: doc.Bundle.Quantity, Price: doc.Bundle.Price}
		case doc.Freebie != nil:
			rule.Promo = pricing.Freebie{Paid: doc.Freebie.Paid, Free: doc.Freebie.Free}
		}
		table[code] = rule
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// DocFromTable renders an engine rule table as its wire document.
func DocFromTable(table pricing.Table) TableDoc {
	doc := make(TableDoc, len(table))
	for code, rule := range table {
		rd := RuleDoc{UnitPrice: rule.UnitPrice}
		switch promo := rule.Promo.(type) {
		case pricing.Bundle:
			rd.Bundle = &BundleDoc{Quantity: promo.Quantity, Price: promo.Price}
		case pricing.Freebie:
			rd.Freebie = &FreebieDoc{Paid: promo.Paid, Free: promo.Free}
		}
		doc[code] = rd
	}
	return doc
}

// LoadTableFile reads a rule-table document from a JSON file, so deployments
// can replace the built-in catalogue.
func LoadTableFile(path string) (pricing.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	var doc TableDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	table, err := doc.Table()
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return table, nil
}
