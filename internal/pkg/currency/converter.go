// internal/pkg/currency/converter.go
package currency

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrUnsupportedCurrency is returned when a currency has no configured rate
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Default fixed-rate table, quoted per one unit of the base currency
const (
	DefaultBase = "LKR"
	usdPerLKR   = 1.0 / 300.0
)

// DefaultRates returns the built-in rate table
func DefaultRates() map[string]float64 {
	return map[string]float64{
		"LKR": 1,
		"USD": usdPerLKR,
	}
}

// Converter converts base-currency amounts using a fixed rate table
type Converter struct {
	base  string
	rates map[string]float64
}

// NewConverter creates a converter. A nil or empty table falls back to DefaultRates.
func NewConverter(base string, rates map[string]float64) *Converter {
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		base = DefaultBase
	}
	if len(rates) == 0 {
		rates = DefaultRates()
	}

	table := make(map[string]float64, len(rates)+1)
	for code, rate := range rates {
		table[strings.ToUpper(code)] = rate
	}
	table[base] = 1

	return &Converter{base: base, rates: table}
}

// Base returns the base currency code
func (c *Converter) Base() string {
	return c.base
}

// Supports reports whether the currency has a configured rate
func (c *Converter) Supports(code string) bool {
	_, ok := c.rates[strings.ToUpper(code)]
	return ok
}

// Rate returns the rate for one unit of base currency
func (c *Converter) Rate(code string) (float64, error) {
	rate, ok := c.rates[strings.ToUpper(code)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, code)
	}
	return rate, nil
}

// Convert converts a base-currency amount into the target currency, rounded to minor units
func (c *Converter) Convert(amount float64, to string) (float64, error) {
	rate, err := c.Rate(to)
	if err != nil {
		return 0, err
	}
	return Round(amount * rate), nil
}

// Describe renders the rule used for a conversion, e.g. "fixed: 1 LKR = 0.003333 USD"
func (c *Converter) Describe(to string) string {
	rate, err := c.Rate(to)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("fixed: 1 %s = %s %s", c.base, formatRate(rate), strings.ToUpper(to))
}

// Currencies returns the supported currency codes in sorted order
func (c *Converter) Currencies() []string {
	codes := make([]string, 0, len(c.rates))
	for code := range c.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Round rounds to two decimal places
func Round(amount float64) float64 {
	return math.Round(amount*100) / 100
}

func formatRate(rate float64) string {
	s := fmt.Sprintf("%.6f", rate)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
