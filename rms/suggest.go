// suggest.go - Derived price suggestions.
//
// Given one known base-season price for a vehicle, derive a price per
// configured non-base season by applying the coefficient table. Pure
// computation: no side effects, nothing is applied to the grid here. The
// reconciliation engine decides acceptance cell by cell.
package rms

import (
	"github.com/shopspring/decimal"
)

// Suggestions is the result of one derivation: the inputs echoed back for
// display, plus the derived price per non-base season.
type Suggestions struct {
	Vehicle    VehicleID
	BaseSeason SeasonName
	BasePrice  decimal.Decimal
	Prices     map[SeasonName]decimal.Decimal
}

// SuggestionEngine derives prices from the coefficient table.
type SuggestionEngine struct {
	Table *CoefficientTable
}

// Suggest computes applyRounding(basePrice * multiplier) for every
// configured season except the base. The base season is the input, not a
// derived value, so it never appears in the output. A table with no
// seasons besides the base yields an empty map, not an error.
func (e *SuggestionEngine) Suggest(vehicle VehicleID, basePrice decimal.Decimal) (*Suggestions, error) {
	if basePrice.Sign() <= 0 {
		return nil, ErrInvalidBasePrice
	}

	base := e.Table.BaseSeason()
	prices := make(map[SeasonName]decimal.Decimal)
	for _, season := range e.Table.Seasons() {
		if season == base {
			continue
		}
		mult, err := e.Table.MultiplierFor(season)
		if err != nil {
			// Not derivable for this season; skip rather than abort.
			continue
		}
		prices[season] = e.Table.ApplyRounding(basePrice.Mul(mult))
	}

	return &Suggestions{
		Vehicle:    vehicle,
		BaseSeason: base,
		BasePrice:  basePrice,
		Prices:     prices,
	}, nil
}
