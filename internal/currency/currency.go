// Package currency centralizes currency symbol lookup and money formatting
// so every surface displays amounts the same way.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCode is used when no currency is configured or the code is unknown.
const DefaultCode = "PHP"

var symbols = map[string]string{
	"PHP": "₱",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

var names = map[string]string{
	"PHP": "Philippine Peso",
	"USD": "United States Dollar",
	"EUR": "Euro",
	"GBP": "British Pound",
	"JPY": "Japanese Yen",
}

// Symbol returns the display symbol for an ISO 4217 currency code,
// falling back to the default currency for unknown or empty codes.
func Symbol(code string) string {
	if s, ok := symbols[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return s
	}
	return symbols[DefaultCode]
}

// Name returns the full currency name for a code.
func Name(code string) string {
	if n, ok := names[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return n
	}
	return names[DefaultCode]
}

// Format renders an amount with its currency symbol and two decimal places.
func Format(amount decimal.Decimal, code string) string {
	return Symbol(code) + amount.StringFixed(2)
}

// Supported returns the set of known currency codes and their symbols.
func Supported() map[string]string {
	out := make(map[string]string, len(symbols))
	for k, v := range symbols {
		out[k] = v
	}
	return out
}
