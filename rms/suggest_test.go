package rms_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/caloops971/ChromeRMS2025/rms"
)

func TestSuggest_DerivesEveryNonBaseSeason(t *testing.T) {
	// GIVEN: Coefficients {Low: 1, Mid: 1.2, High: 1.5}, no rounding
	// WHEN: Suggesting from a Low Season price of 30
	// THEN: Mid = 36, High = 45, and the base season is absent

	cfg := testCoefficientConfig()
	cfg.CalculationRules = rms.CalculationRules{}
	engine := &rms.SuggestionEngine{Table: rms.NewCoefficientTable(cfg, nil)}

	result, err := engine.Suggest("ECAR", d(30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.BaseSeason != "Low Season" {
		t.Errorf("expected base Low Season, got %s", result.BaseSeason)
	}
	if _, ok := result.Prices["Low Season"]; ok {
		t.Error("base season must never appear in suggestions")
	}
	if got := result.Prices["Mid Season"]; !got.Equal(d(36)) {
		t.Errorf("Mid Season: expected 36, got %v", got)
	}
	if got := result.Prices["High Season"]; !got.Equal(d(45)) {
		t.Errorf("High Season: expected 45, got %v", got)
	}
}

func TestSuggest_AppliesRoundingAndMinValue(t *testing.T) {
	// GIVEN: Coefficient 1.5 with floor rounding and min value 10
	// WHEN: Suggesting from a base price of 6
	// THEN: 6 * 1.5 = 9, floored to 9, clamped to 10

	cfg := rms.CoefficientConfig{
		BaseSeason: "Low Season",
		Coefficients: map[rms.SeasonName]decimal.Decimal{
			"High Season": d(1.5),
		},
		CalculationRules: rms.CalculationRules{
			RoundToInteger: true,
			RoundMethod:    rms.RoundFloor,
			MinValue:       d(10),
		},
	}
	engine := &rms.SuggestionEngine{Table: rms.NewCoefficientTable(cfg, nil)}

	result, err := engine.Suggest("ECAR", d(6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Prices["High Season"]; !got.Equal(d(10)) {
		t.Errorf("expected clamp to 10, got %v", got)
	}
}

func TestSuggest_RejectsNonPositiveBasePrice(t *testing.T) {
	engine := &rms.SuggestionEngine{Table: rms.NewCoefficientTable(testCoefficientConfig(), nil)}

	for _, price := range []decimal.Decimal{d(0), d(-30)} {
		_, err := engine.Suggest("ECAR", price)
		if !errors.Is(err, rms.ErrInvalidBasePrice) {
			t.Errorf("price %v: expected ErrInvalidBasePrice, got %v", price, err)
		}
	}
}

func TestSuggest_BaseOnlyTableYieldsEmptySet(t *testing.T) {
	// GIVEN: A table configured with nothing but the base season
	// WHEN: Suggesting
	// THEN: An empty suggestion set, not an error

	cfg := rms.CoefficientConfig{
		BaseSeason: "Low Season",
		Coefficients: map[rms.SeasonName]decimal.Decimal{
			"Low Season": d(1),
		},
	}
	engine := &rms.SuggestionEngine{Table: rms.NewCoefficientTable(cfg, nil)}

	result, err := engine.Suggest("ECAR", d(30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Prices) != 0 {
		t.Errorf("expected no suggestions, got %v", result.Prices)
	}
}
