/*
coefficients.go - Season-to-season pricing coefficients

PURPOSE:
  Holds the base season, the per-season multipliers, and the calculation
  rules (rounding method, integer flag, minimum value) that shape derived
  prices. The base season's multiplier is fixed at 1 and cannot be edited
  or removed; every other configured season carries a positive multiplier.

ROUNDING:
  ApplyRounding first rounds to an integer when round_to_integer is set
  (round = nearest, half away from zero; floor; ceil), then clamps to
  min_value. The clamp applies whether or not rounding is enabled.

SEE ALSO:
  - suggest.go: The only consumer of MultiplierFor + ApplyRounding
  - persist.go: CoefficientConfig, the wire form
*/
package rms

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// SeasonLookup answers whether a season exists in the catalogue. The
// Catalogue satisfies this; tests can substitute a stub.
type SeasonLookup interface {
	HasSeason(name SeasonName) bool
}

// CoefficientTable holds the live coefficient configuration.
type CoefficientTable struct {
	mu          sync.RWMutex
	base        SeasonName
	multipliers map[SeasonName]decimal.Decimal
	rules       CalculationRules
	catalogue   SeasonLookup
}

// NewCoefficientTable builds a table from its wire form. The base season's
// multiplier is normalized to 1 regardless of the stored value.
func NewCoefficientTable(cfg CoefficientConfig, catalogue SeasonLookup) *CoefficientTable {
	t := &CoefficientTable{catalogue: catalogue}
	t.Load(cfg)
	return t
}

// Load replaces the table contents from a wire document.
func (t *CoefficientTable) Load(cfg CoefficientConfig) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.base = cfg.BaseSeason
	t.multipliers = make(map[SeasonName]decimal.Decimal, len(cfg.Coefficients))
	for season, mult := range cfg.Coefficients {
		t.multipliers[season] = mult
	}
	if t.base != "" {
		t.multipliers[t.base] = decimal.NewFromInt(1)
	}
	t.rules = cfg.CalculationRules
	if !t.rules.RoundMethod.Valid() {
		t.rules.RoundMethod = RoundNearest
	}
}

// Config returns a snapshot in wire form.
func (t *CoefficientTable) Config() CoefficientConfig {
	t.mu.RLock()
	defer t.mu.RUnlock()
	coeffs := make(map[SeasonName]decimal.Decimal, len(t.multipliers))
	for season, mult := range t.multipliers {
		coeffs[season] = mult
	}
	return CoefficientConfig{
		BaseSeason:       t.base,
		Coefficients:     coeffs,
		CalculationRules: t.rules,
	}
}

// =============================================================================
// READS
// =============================================================================

func (t *CoefficientTable) BaseSeason() SeasonName {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.base
}

func (t *CoefficientTable) Rules() CalculationRules {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rules
}

// Seasons returns every configured season (base included), sorted.
func (t *CoefficientTable) Seasons() []SeasonName {
	t.mu.RLock()
	defer t.mu.RUnlock()
	seasons := make([]SeasonName, 0, len(t.multipliers))
	for season := range t.multipliers {
		seasons = append(seasons, season)
	}
	sort.Slice(seasons, func(i, j int) bool { return seasons[i] < seasons[j] })
	return seasons
}

// MultiplierFor returns 1 for the base season and the configured multiplier
// otherwise. An unconfigured season is not derivable: callers should skip
// it, not abort.
func (t *CoefficientTable) MultiplierFor(season SeasonName) (decimal.Decimal, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if season == t.base {
		return decimal.NewFromInt(1), nil
	}
	mult, ok := t.multipliers[season]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: no coefficient for %s", ErrUnknownSeason, season)
	}
	return mult, nil
}

// ApplyRounding shapes a raw derived value per the calculation rules:
// optional integer rounding, then the min-value clamp.
func (t *CoefficientTable) ApplyRounding(raw decimal.Decimal) decimal.Decimal {
	t.mu.RLock()
	rules := t.rules
	t.mu.RUnlock()

	value := raw
	if rules.RoundToInteger {
		switch rules.RoundMethod {
		case RoundFloor:
			value = value.Floor()
		case RoundCeil:
			value = value.Ceil()
		default:
			value = value.Round(0)
		}
	}
	if value.LessThan(rules.MinValue) {
		value = rules.MinValue
	}
	return value
}

// =============================================================================
// MUTATION
// =============================================================================

// SetMultiplier configures a season's multiplier. The base season is
// pinned to 1 and cannot be overridden.
func (t *CoefficientTable) SetMultiplier(season SeasonName, value decimal.Decimal) error {
	if value.Sign() <= 0 {
		return fmt.Errorf("%w: %v for %s", ErrInvalidCoefficient, value, season)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if season == t.base {
		return ErrBaseSeasonLocked
	}
	t.multipliers[season] = value
	return nil
}

// RemoveMultiplier drops a season's coefficient. Removing the base season
// is refused.
func (t *CoefficientTable) RemoveMultiplier(season SeasonName) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if season == t.base {
		return ErrBaseSeasonLocked
	}
	delete(t.multipliers, season)
	return nil
}

// SetBaseSeason changes the reference season. The season must exist in the
// catalogue; its multiplier becomes the pinned 1.
func (t *CoefficientTable) SetBaseSeason(season SeasonName) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.catalogue != nil && !t.catalogue.HasSeason(season) {
		return fmt.Errorf("%w: %s not in catalogue", ErrUnknownSeason, season)
	}
	t.base = season
	t.multipliers[season] = decimal.NewFromInt(1)
	return nil
}

// SetRules replaces the calculation rules.
func (t *CoefficientTable) SetRules(rules CalculationRules) error {
	if rules.RoundToInteger && !rules.RoundMethod.Valid() {
		return fmt.Errorf("unknown round method %q", rules.RoundMethod)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rules = rules
	return nil
}
