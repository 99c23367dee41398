/*
persist.go - Boundary interfaces for persistence and default data

PURPOSE:
  Defines the interface between the engine and its collaborators: an
  asynchronous key-value store and a provider of bundled default data.
  Different implementations can use SQLite, an in-memory map, or the
  browser extension's storage bridge.

CONTRACT:
  - Get is a multi-key read. A partial result (some keys present, some
    absent) is NORMAL, not an error; the engine falls back to defaults
    per missing key independently.
  - Set replaces the whole document stored under one key. There is no
    transactionality across keys.
  - Both complete exactly once, success or failure, never silently.

STORAGE KEYS:
  The five documents mirror the legacy storage layout, one JSON document
  per key.

SEE ALSO:
  - workspace.go: Loads the five keys at session start
  - store/memory, store/sqlite: Implementations
*/
package rms

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Storage keys, one JSON document each.
const (
	KeyVehicles     = "rms_vehicles"
	KeySeasons      = "rms_seasons"
	KeyRates        = "rms_rates"
	KeyRateConfig   = "rms_rate_config"
	KeyCoefficients = "rms_coefficients"
)

// AllKeys lists every document the engine owns, in load order.
func AllKeys() []string {
	return []string{KeyVehicles, KeySeasons, KeyRates, KeyRateConfig, KeyCoefficients}
}

// Persistence is the opaque key-value store the engine saves into.
// Implementations must treat each key independently.
type Persistence interface {
	// Get returns the stored documents for the requested keys. Missing
	// keys are simply absent from the result map.
	Get(ctx context.Context, keys []string) (map[string]json.RawMessage, error)

	// Set stores value (JSON-marshaled) under key, replacing any previous
	// document.
	Set(ctx context.Context, key string, value any) error
}

// DefaultDataset supplies initial data when the store has no entry for the
// corresponding key. Read-only, fetched once at startup.
type DefaultDataset interface {
	Vehicles() []Vehicle
	Seasons() []Season
	Rates() PriceTable
	RateConfig() RateConfig
	Coefficients() CoefficientConfig
}

// CoefficientConfig is the wire form of the coefficient table.
type CoefficientConfig struct {
	BaseSeason       SeasonName                     `json:"base_season"`
	Coefficients     map[SeasonName]decimal.Decimal `json:"coefficients"`
	CalculationRules CalculationRules               `json:"calculation_rules"`
}
