/*
Package dataset bundles the default RMS dataset.

PURPOSE:
  Supplies the initial fleet, seasons, price matrix, rate-code
  configuration, and coefficient table when the persistence store has no
  entry for the corresponding key. The workspace persists whichever
  documents it takes from here, so the defaults are seeds, not a live
  fallback.

CONTENT:
  A Caribbean rental fleet keyed by SIPP code, five seasons (the low and
  mid seasons are discontiguous, spanning two calendar windows each), base
  prices for the AFFA1 daily plan and AFFA7 weekly plan, pickup locations
  for the three brands, and a coefficient table based on the low season.
*/
package dataset

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/caloops971/ChromeRMS2025/rms"
)

// Default implements rms.DefaultDataset with the bundled data.
type Default struct{}

func New() Default { return Default{} }

func (Default) Vehicles() []rms.Vehicle {
	return []rms.Vehicle{
		{SIPP: "MBMR", MakeModel: "Fiat Panda", Category: "Mini", Adults: 4, Children: 0, MinDoors: 4, MaxDoors: 5, LargeSuitcases: 1, SmallSuitcases: 1},
		{SIPP: "ECAR", MakeModel: "Opel Corsa", Category: "Economy", Adults: 4, Children: 1, MinDoors: 4, MaxDoors: 5, LargeSuitcases: 1, SmallSuitcases: 2},
		{SIPP: "EDAR", MakeModel: "Peugeot 208", Category: "Economy", Adults: 4, Children: 1, MinDoors: 4, MaxDoors: 5, LargeSuitcases: 1, SmallSuitcases: 2},
		{SIPP: "CDMR", MakeModel: "Peugeot 308", Category: "Compact", Adults: 5, Children: 0, MinDoors: 4, MaxDoors: 5, LargeSuitcases: 2, SmallSuitcases: 2},
		{SIPP: "CFMR", MakeModel: "Renault Captur", Category: "Compact", Adults: 5, Children: 0, MinDoors: 5, MaxDoors: 5, LargeSuitcases: 2, SmallSuitcases: 2},
		{SIPP: "IFAR", MakeModel: "Peugeot 3008", Category: "Intermediate", Adults: 5, Children: 0, MinDoors: 5, MaxDoors: 5, LargeSuitcases: 3, SmallSuitcases: 2},
		{SIPP: "SFAR", MakeModel: "Peugeot 5008", Category: "Standard", Adults: 7, Children: 0, MinDoors: 5, MaxDoors: 5, LargeSuitcases: 3, SmallSuitcases: 3},
		{SIPP: "FVMR", MakeModel: "Renault Trafic", Category: "Van", Adults: 9, Children: 0, MinDoors: 4, MaxDoors: 5, LargeSuitcases: 5, SmallSuitcases: 4},
	}
}

func (Default) Seasons() []rms.Season {
	return []rms.Season{
		{
			Name: "Low Season",
			Ranges: []rms.DateRange{
				{Start: rms.NewDate(2025, time.January, 8), End: rms.NewDate(2025, time.March, 31)},
				{Start: rms.NewDate(2025, time.November, 1), End: rms.NewDate(2025, time.December, 14)},
			},
		},
		{
			Name: "Mid Season",
			Ranges: []rms.DateRange{
				{Start: rms.NewDate(2025, time.April, 1), End: rms.NewDate(2025, time.June, 14)},
				{Start: rms.NewDate(2025, time.September, 16), End: rms.NewDate(2025, time.October, 31)},
			},
		},
		{
			Name: "High Season",
			Ranges: []rms.DateRange{
				{Start: rms.NewDate(2025, time.June, 15), End: rms.NewDate(2025, time.July, 14)},
				{Start: rms.NewDate(2025, time.August, 16), End: rms.NewDate(2025, time.September, 15)},
			},
		},
		{
			Name: "Very High Season",
			Ranges: []rms.DateRange{
				{Start: rms.NewDate(2025, time.July, 15), End: rms.NewDate(2025, time.August, 15)},
			},
		},
		{
			Name: "Festive",
			Ranges: []rms.DateRange{
				{Start: rms.NewDate(2025, time.December, 15), End: rms.NewDate(2026, time.January, 7)},
			},
		},
	}
}

func (Default) Rates() rms.PriceTable {
	price := func(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }
	return rms.PriceTable{
		"Low Season": {
			"AFFA1": {
				"MBMR": price(24), "ECAR": price(30), "EDAR": price(32),
				"CDMR": price(38), "CFMR": price(40), "IFAR": price(48),
				"SFAR": price(55), "FVMR": price(72),
			},
			"AFFA7": {
				"MBMR": price(21), "ECAR": price(26), "EDAR": price(28),
				"CDMR": price(33), "CFMR": price(35), "IFAR": price(42),
				"SFAR": price(48), "FVMR": price(63),
			},
		},
		"Mid Season": {
			"AFFA1": {
				"MBMR": price(29), "ECAR": price(36), "EDAR": price(38),
				"CDMR": price(46), "CFMR": price(48), "IFAR": price(58),
				"SFAR": price(66), "FVMR": price(86),
			},
		},
		"High Season": {
			"AFFA1": {
				"MBMR": price(36), "ECAR": price(45), "EDAR": price(48),
				"CDMR": price(57), "CFMR": price(60), "IFAR": price(72),
				"SFAR": price(83), "FVMR": price(108),
			},
		},
	}
}

func (Default) RateConfig() rms.RateConfig {
	return rms.RateConfig{
		PickupLocations: []rms.PickupLocation{
			{
				Brand:        "HERTZ",
				LocationName: "PTP AIRPORT",
				Rates: []rms.RatePlan{
					{RateCode: "AFFA1", Type: "Fixed", PlanCode: "D"},
					{RateCode: "AFFA7", Type: "Fixed", PlanCode: "W"},
				},
			},
			{
				Brand:        "DOLLAR",
				LocationName: "PTP AIRPORT",
				Rates: []rms.RatePlan{
					{RateCode: "AFFA1", Type: "Fixed", PlanCode: "D"},
				},
			},
			{
				Brand:        "THRIFTY",
				LocationName: "PTP DOWNTOWN",
				Rates: []rms.RatePlan{
					{RateCode: "AFFA7", Type: "Fixed", PlanCode: "W"},
				},
			},
		},
	}
}

func (Default) Coefficients() rms.CoefficientConfig {
	mult := func(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }
	return rms.CoefficientConfig{
		BaseSeason: "Low Season",
		Coefficients: map[rms.SeasonName]decimal.Decimal{
			"Low Season":       mult(1),
			"Mid Season":       mult(1.2),
			"High Season":      mult(1.5),
			"Very High Season": mult(1.8),
			"Festive":          mult(2.2),
		},
		CalculationRules: rms.CalculationRules{
			RoundToInteger: true,
			RoundMethod:    rms.RoundNearest,
			MinValue:       decimal.NewFromInt(1),
		},
	}
}
