package terminal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currencies whose minor unit equals the major unit.
var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true,
	"jpy": true, "kmf": true, "krw": true, "mga": true,
	"pyg": true, "rwf": true, "ugx": true, "vnd": true,
	"vuv": true, "xaf": true, "xof": true, "xpf": true,
}

func currencyExponent(currency string) int32 {
	if zeroDecimalCurrencies[strings.ToLower(currency)] {
		return 0
	}
	return 2
}

// MinorUnits converts a major-unit amount like "12.34" into the integer
// minor units the provider expects. Amounts that do not land on a whole
// minor unit are rejected rather than rounded.
func MinorUnits(amount, currency string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("amount must be positive, got %s", d)
	}

	scaled := d.Shift(currencyExponent(currency))
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("amount %s has more precision than %s allows", amount, strings.ToLower(currency))
	}
	if !scaled.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount %s is out of range", amount)
	}
	return scaled.BigInt().Int64(), nil
}

// MajorUnits renders minor units back to the major-unit string used on the
// wire, e.g. 1234 -> "12.34" for two-decimal currencies.
func MajorUnits(minor int64, currency string) string {
	exp := currencyExponent(currency)
	return decimal.New(minor, -exp).StringFixed(exp)
}
