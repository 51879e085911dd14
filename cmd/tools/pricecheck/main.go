// Command pricecheck prices a cart from the command line against the default
// catalogue, or the catalogue named by RULES_PATH. Each argument is one SKU
// code; single-character codes may be run together, e.g. "pricecheck AAAB".
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/noah-isme/backend-kasir/internal/pricing"
	"github.com/noah-isme/backend-kasir/internal/quote"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	rules := pricing.DefaultRules()
	if path := os.Getenv("RULES_PATH"); path != "" {
		var err error
		rules, err = quote.LoadTableFile(path)
		if err != nil {
			log.Fatalf("Failed to load rules: %v", err)
		}
	}

	cart := expandArgs(os.Args[1:], rules)
	lines, err := pricing.Lines(pricing.Tally(cart), rules)
	if err != nil {
		log.Fatalf("Failed to price cart: %v", err)
	}

	var total pricing.Money
	for _, line := range lines {
		log.Printf("%-8s x%-3d %8d", line.Code, line.Quantity, line.Subtotal)
		total += line.Subtotal
	}
	log.Printf("Total: %d", total)
}

// expandArgs splits an argument into single-letter codes when the argument
// itself is not a catalogue code but each of its letters is, so carts can be
// given as one run-together string.
func expandArgs(args []string, rules pricing.Table) []string {
	cart := make([]string, 0, len(args))
	for _, arg := range args {
		if _, ok := rules[arg]; ok || len(arg) <= 1 || !splittable(arg, rules) {
			cart = append(cart, arg)
			continue
		}
		for _, r := range arg {
			cart = append(cart, string(r))
		}
	}
	return cart
}

func splittable(arg string, rules pricing.Table) bool {
	for _, r := range arg {
		if _, ok := rules[string(r)]; !ok {
			return false
		}
	}
	return true
}
