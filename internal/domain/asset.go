package domain

import (
	"fmt"
	"math"
)

// AssetClass represents the instrument classification of an asset.
type AssetClass string

const (
	AssetClassEquity     AssetClass = "equity"
	AssetClassBond       AssetClass = "bond"
	AssetClassCommodity  AssetClass = "commodity"
	AssetClassCurrency   AssetClass = "currency"
	AssetClassDerivative AssetClass = "derivative"
	AssetClassFund       AssetClass = "fund"
	AssetClassIndex      AssetClass = "index"
)

// String returns the string representation of AssetClass.
func (c AssetClass) String() string {
	return string(c)
}

// IsValid checks if the asset class is a recognized value.
func (c AssetClass) IsValid() bool {
	switch c {
	case AssetClassEquity, AssetClassBond, AssetClassCommodity, AssetClassCurrency,
		AssetClassDerivative, AssetClassFund, AssetClassIndex:
		return true
	}
	return false
}

// AssetClasses returns all recognized asset classes in a fixed order.
func AssetClasses() []AssetClass {
	return []AssetClass{
		AssetClassEquity,
		AssetClassBond,
		AssetClassCommodity,
		AssetClassCurrency,
		AssetClassDerivative,
		AssetClassFund,
		AssetClassIndex,
	}
}

// Asset is the canonical record for a tradable instrument.
type Asset struct {
	ID        string     // unique within a graph
	Symbol    string     // ticker symbol
	Name      string     // display name
	Class     AssetClass // closed classification set
	Sector    string     // free-form sector taxonomy
	Currency  string     // ISO 4217 code
	Price     float64    // last known price, must be positive
	MarketCap *float64   // optional market capitalization
}

// Validate checks all asset invariants and collects every violation found.
// Returns nil when the record is valid.
func (a *Asset) Validate() ValidationErrors {
	var errs ValidationErrors

	if a.ID == "" {
		errs = append(errs, &ValidationError{
			Kind:    ValidationMissingField,
			Message: "asset id is required",
		})
	}
	if !a.Class.IsValid() {
		errs = append(errs, &ValidationError{
			Kind:     ValidationInvalidAssetClass,
			RecordID: a.ID,
			Message:  fmt.Sprintf("unrecognized asset class %q", a.Class),
		})
	}
	if a.Price <= 0 || math.IsNaN(a.Price) || math.IsInf(a.Price, 0) {
		errs = append(errs, &ValidationError{
			Kind:     ValidationNonPositivePrice,
			RecordID: a.ID,
			Message:  fmt.Sprintf("price must be positive, got %v", a.Price),
		})
	}
	if !validCurrencyCode(a.Currency) {
		errs = append(errs, &ValidationError{
			Kind:     ValidationUnknownCurrency,
			RecordID: a.ID,
			Message:  fmt.Sprintf("currency %q is not a valid ISO code", a.Currency),
		})
	}
	if a.MarketCap != nil && (*a.MarketCap <= 0 || math.IsNaN(*a.MarketCap)) {
		errs = append(errs, &ValidationError{
			Kind:     ValidationNonPositivePrice,
			RecordID: a.ID,
			Message:  fmt.Sprintf("market cap must be positive when present, got %v", *a.MarketCap),
		})
	}

	return errs
}

// validCurrencyCode checks the ISO 4217 shape: exactly three uppercase letters.
func validCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}
