/*
Package rms provides the core rate-management engine.

PURPOSE:
  This package contains the domain types and algorithms for maintaining a
  seasonal rate grid for a vehicle fleet: the canonical price matrix
  (season -> rate code -> vehicle -> price), the coefficient table that
  derives suggested prices from a base season, and the grid reconciliation
  engine that tracks live edits against the persisted baseline.

KEY CONCEPTS IN THIS FILE (types.go):
  - SeasonName / RateCode / VehicleID: Type-safe identifiers
  - Vehicle: Fleet reference data keyed by SIPP code
  - Season: Named, possibly discontiguous set of date ranges
  - RateConfig: Externally declared rate codes per pickup location
  - CalculationRules: Rounding and clamping rules for derived prices

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for all prices and multipliers
  2. Explicit absence: No price is ever stored as zero; "no price" is a
     deleted entry, never a sentinel value
  3. Type Safety: Strong typing for the three grid dimensions prevents
     mixing seasons, rate codes, and vehicles

SEE ALSO:
  - matrix.go: The canonical price matrix store
  - coefficients.go: Coefficient table and rounding rules
  - suggest.go: Price suggestion derivation
  - grid.go: Per-rate-code edit reconciliation
*/
package rms

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type SeasonName string
type RateCode string

// VehicleID is a SIPP code, the unique identifier of a fleet vehicle.
type VehicleID string

// =============================================================================
// PRICE HELPERS
// =============================================================================

func NewPrice(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

func MustParsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// PriceTable is the canonical nested mapping of the price matrix.
// JSON shape matches the legacy storage documents.
type PriceTable map[SeasonName]map[RateCode]map[VehicleID]decimal.Decimal

// =============================================================================
// VEHICLE - Fleet reference data
// =============================================================================

// Vehicle describes one fleet vehicle. JSON keys match the legacy storage
// documents so persisted datasets remain readable.
type Vehicle struct {
	SIPP           VehicleID `json:"sipp"`
	MakeModel      string    `json:"make_model"`
	Category       string    `json:"categorie"`
	Adults         int       `json:"NumberOfAdults"`
	Children       int       `json:"NumberOfChildren"`
	MinDoors       int       `json:"MinOfDoors"`
	MaxDoors       int       `json:"MaxOfDoors"`
	LargeSuitcases int       `json:"LargeSuitcases"`
	SmallSuitcases int       `json:"SmallSuitcases"`
}

// Label is the display form used by grid rows and exports.
func (v Vehicle) Label() string {
	return fmt.Sprintf("%s - %s (%s)", v.Category, v.MakeModel, v.SIPP)
}

// =============================================================================
// DATE / SEASON
// =============================================================================

const dateLayout = "2006-01-02"

// Date is a calendar day (UTC, day granularity). It marshals as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateRange is one contiguous window of a season.
type DateRange struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

func (r DateRange) Validate() error {
	if r.End.Before(r.Start.Time) {
		return fmt.Errorf("%w: %s after %s", ErrInvalidDateRange, r.Start, r.End)
	}
	return nil
}

func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Start.Time) && !d.After(r.End.Time)
}

// Season is a named set of disjoint date ranges. A season may be
// discontiguous (a low season spanning two calendar windows).
type Season struct {
	Name   SeasonName  `json:"saison"`
	Ranges []DateRange `json:"ranges"`
}

func (s Season) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("season name must not be empty")
	}
	for _, r := range s.Ranges {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("season %q: %w", s.Name, err)
		}
	}
	return nil
}

// Contains reports whether the day falls inside any of the season's ranges.
func (s Season) Contains(d Date) bool {
	for _, r := range s.Ranges {
		if r.Contains(d) {
			return true
		}
	}
	return false
}

// =============================================================================
// RATE CONFIGURATION - Externally declared rate codes
// =============================================================================

// RatePlan declares one rate code offered at a pickup location.
type RatePlan struct {
	RateCode RateCode `json:"rate_code"`
	Type     string   `json:"type"`
	PlanCode string   `json:"plan_code"`
}

// PickupLocation groups the rate plans of one brand at one location.
type PickupLocation struct {
	Brand        string     `json:"brand"`
	LocationName string     `json:"pickup_location_level_name"`
	Rates        []RatePlan `json:"rates"`
}

// RateConfig is the external rate-code configuration. Rate codes declared
// here appear in the grid selector even when the matrix holds no price for
// them yet.
type RateConfig struct {
	PickupLocations []PickupLocation `json:"pickup_locations"`
}

// RateCodes returns every declared rate code, deduplicated and sorted.
func (c RateConfig) RateCodes() []RateCode {
	seen := make(map[RateCode]bool)
	for _, loc := range c.PickupLocations {
		for _, plan := range loc.Rates {
			seen[plan.RateCode] = true
		}
	}
	codes := make([]RateCode, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Brands returns the distinct brand names in the configuration.
func (c RateConfig) Brands() []string {
	seen := make(map[string]bool)
	var brands []string
	for _, loc := range c.PickupLocations {
		if !seen[loc.Brand] {
			seen[loc.Brand] = true
			brands = append(brands, loc.Brand)
		}
	}
	sort.Strings(brands)
	return brands
}

// =============================================================================
// CALCULATION RULES - Rounding and clamping for derived prices
// =============================================================================

type RoundMethod string

const (
	RoundNearest RoundMethod = "round"
	RoundFloor   RoundMethod = "floor"
	RoundCeil    RoundMethod = "ceil"
)

func (m RoundMethod) Valid() bool {
	switch m {
	case RoundNearest, RoundFloor, RoundCeil:
		return true
	}
	return false
}

// CalculationRules controls how suggested prices are shaped after the
// multiplier is applied. Rules apply to derived suggestions only; prices
// typed directly into the grid are taken as-is.
type CalculationRules struct {
	RoundToInteger bool            `json:"round_to_integer"`
	RoundMethod    RoundMethod     `json:"round_method"`
	MinValue       decimal.Decimal `json:"min_value"`
}
