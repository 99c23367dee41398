package rms_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/caloops971/ChromeRMS2025/rms"
)

// seasonSet is a SeasonLookup stub for tests that do not need a full
// catalogue.
type seasonSet map[rms.SeasonName]bool

func (s seasonSet) HasSeason(name rms.SeasonName) bool { return s[name] }

func testCoefficientConfig() rms.CoefficientConfig {
	return rms.CoefficientConfig{
		BaseSeason: "Low Season",
		Coefficients: map[rms.SeasonName]decimal.Decimal{
			"Low Season":  d(1),
			"Mid Season":  d(1.2),
			"High Season": d(1.5),
		},
		CalculationRules: rms.CalculationRules{
			RoundToInteger: true,
			RoundMethod:    rms.RoundNearest,
			MinValue:       d(1),
		},
	}
}

// =============================================================================
// LOAD / MULTIPLIERS
// =============================================================================

func TestCoefficients_BaseMultiplierPinnedToOne(t *testing.T) {
	// GIVEN: A stored document claiming the base season has multiplier 2
	// WHEN: Loading it
	// THEN: The base multiplier is normalized to 1

	cfg := testCoefficientConfig()
	cfg.Coefficients["Low Season"] = d(2)

	table := rms.NewCoefficientTable(cfg, nil)

	mult, err := table.MultiplierFor("Low Season")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mult.Equal(d(1)) {
		t.Errorf("expected base multiplier 1, got %v", mult)
	}
}

func TestCoefficients_MultiplierFor_UnknownSeason(t *testing.T) {
	// GIVEN: A loaded table
	// WHEN: Asking for a season with no coefficient
	// THEN: ErrUnknownSeason is reported

	table := rms.NewCoefficientTable(testCoefficientConfig(), nil)

	_, err := table.MultiplierFor("Festive")
	if !errors.Is(err, rms.ErrUnknownSeason) {
		t.Errorf("expected ErrUnknownSeason, got %v", err)
	}
}

func TestCoefficients_Seasons_Sorted(t *testing.T) {
	table := rms.NewCoefficientTable(testCoefficientConfig(), nil)

	got := table.Seasons()
	want := []rms.SeasonName{"High Season", "Low Season", "Mid Season"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// =============================================================================
// MUTATION GUARDS
// =============================================================================

func TestCoefficients_SetMultiplier_RejectsNonPositive(t *testing.T) {
	table := rms.NewCoefficientTable(testCoefficientConfig(), nil)

	for _, value := range []decimal.Decimal{d(0), d(-0.5)} {
		err := table.SetMultiplier("Mid Season", value)
		if !errors.Is(err, rms.ErrInvalidCoefficient) {
			t.Errorf("value %v: expected ErrInvalidCoefficient, got %v", value, err)
		}
	}
}

func TestCoefficients_BaseSeasonLocked(t *testing.T) {
	// GIVEN: A loaded table
	// WHEN: Editing or removing the base season's coefficient
	// THEN: Both are refused

	table := rms.NewCoefficientTable(testCoefficientConfig(), nil)

	if err := table.SetMultiplier("Low Season", d(1.1)); !errors.Is(err, rms.ErrBaseSeasonLocked) {
		t.Errorf("set: expected ErrBaseSeasonLocked, got %v", err)
	}
	if err := table.RemoveMultiplier("Low Season"); !errors.Is(err, rms.ErrBaseSeasonLocked) {
		t.Errorf("remove: expected ErrBaseSeasonLocked, got %v", err)
	}
}

func TestCoefficients_SetBaseSeason_RequiresCatalogueSeason(t *testing.T) {
	// GIVEN: A table bound to a catalogue that only knows two seasons
	// WHEN: Moving the base to a season outside the catalogue
	// THEN: The change is refused

	lookup := seasonSet{"Low Season": true, "High Season": true}
	table := rms.NewCoefficientTable(testCoefficientConfig(), lookup)

	if err := table.SetBaseSeason("Festive"); !errors.Is(err, rms.ErrUnknownSeason) {
		t.Errorf("expected ErrUnknownSeason, got %v", err)
	}

	if err := table.SetBaseSeason("High Season"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := table.BaseSeason(); got != "High Season" {
		t.Errorf("expected base High Season, got %s", got)
	}
	mult, err := table.MultiplierFor("High Season")
	if err != nil || !mult.Equal(d(1)) {
		t.Errorf("new base must be pinned to 1, got %v (%v)", mult, err)
	}
}

func TestCoefficients_SetRules_RejectsUnknownMethod(t *testing.T) {
	table := rms.NewCoefficientTable(testCoefficientConfig(), nil)

	err := table.SetRules(rms.CalculationRules{
		RoundToInteger: true,
		RoundMethod:    "truncate",
	})
	if err == nil {
		t.Error("expected an error for an unknown round method")
	}
}

// =============================================================================
// ROUNDING
// =============================================================================

func TestCoefficients_ApplyRounding(t *testing.T) {
	tests := []struct {
		name  string
		rules rms.CalculationRules
		raw   decimal.Decimal
		want  decimal.Decimal
	}{
		{
			name:  "nearest rounds half away from zero",
			rules: rms.CalculationRules{RoundToInteger: true, RoundMethod: rms.RoundNearest},
			raw:   d(36.5),
			want:  d(37),
		},
		{
			name:  "floor truncates",
			rules: rms.CalculationRules{RoundToInteger: true, RoundMethod: rms.RoundFloor},
			raw:   d(36.9),
			want:  d(36),
		},
		{
			name:  "ceil raises",
			rules: rms.CalculationRules{RoundToInteger: true, RoundMethod: rms.RoundCeil},
			raw:   d(36.1),
			want:  d(37),
		},
		{
			name:  "disabled keeps decimals",
			rules: rms.CalculationRules{RoundToInteger: false, RoundMethod: rms.RoundNearest},
			raw:   d(36.6),
			want:  d(36.6),
		},
		{
			name:  "min value clamps after rounding",
			rules: rms.CalculationRules{RoundToInteger: true, RoundMethod: rms.RoundFloor, MinValue: d(10)},
			raw:   d(9.9),
			want:  d(10),
		},
		{
			name:  "min value applies without rounding",
			rules: rms.CalculationRules{RoundToInteger: false, MinValue: d(10)},
			raw:   d(4.2),
			want:  d(10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testCoefficientConfig()
			cfg.CalculationRules = tt.rules
			table := rms.NewCoefficientTable(cfg, nil)

			got := table.ApplyRounding(tt.raw)
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
