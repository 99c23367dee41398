/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract: the domain
  Vehicle keeps the legacy storage keys, while the API exposes clean
  snake_case fields.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/caloops971/ChromeRMS2025/rms"
)

// =============================================================================
// CATALOGUE
// =============================================================================

// VehicleDTO represents a fleet vehicle in API responses.
type VehicleDTO struct {
	SIPP           string `json:"sipp"`
	MakeModel      string `json:"make_model"`
	Category       string `json:"category"`
	Adults         int    `json:"adults"`
	Children       int    `json:"children"`
	MinDoors       int    `json:"min_doors"`
	MaxDoors       int    `json:"max_doors"`
	LargeSuitcases int    `json:"large_suitcases"`
	SmallSuitcases int    `json:"small_suitcases"`
}

func vehicleDTO(v rms.Vehicle) VehicleDTO {
	return VehicleDTO{
		SIPP:           string(v.SIPP),
		MakeModel:      v.MakeModel,
		Category:       v.Category,
		Adults:         v.Adults,
		Children:       v.Children,
		MinDoors:       v.MinDoors,
		MaxDoors:       v.MaxDoors,
		LargeSuitcases: v.LargeSuitcases,
		SmallSuitcases: v.SmallSuitcases,
	}
}

func (d VehicleDTO) toDomain() rms.Vehicle {
	return rms.Vehicle{
		SIPP:           rms.VehicleID(d.SIPP),
		MakeModel:      d.MakeModel,
		Category:       d.Category,
		Adults:         d.Adults,
		Children:       d.Children,
		MinDoors:       d.MinDoors,
		MaxDoors:       d.MaxDoors,
		LargeSuitcases: d.LargeSuitcases,
		SmallSuitcases: d.SmallSuitcases,
	}
}

// DateRangeDTO is one season window.
type DateRangeDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SeasonDTO represents a season and its date ranges.
type SeasonDTO struct {
	Name   string         `json:"name"`
	Ranges []DateRangeDTO `json:"ranges"`
}

func seasonDTO(s rms.Season) SeasonDTO {
	ranges := make([]DateRangeDTO, len(s.Ranges))
	for i, r := range s.Ranges {
		ranges[i] = DateRangeDTO{Start: r.Start.String(), End: r.End.String()}
	}
	return SeasonDTO{Name: string(s.Name), Ranges: ranges}
}

func (d SeasonDTO) toDomain() (rms.Season, error) {
	season := rms.Season{Name: rms.SeasonName(d.Name)}
	for _, r := range d.Ranges {
		start, err := rms.ParseDate(r.Start)
		if err != nil {
			return rms.Season{}, err
		}
		end, err := rms.ParseDate(r.End)
		if err != nil {
			return rms.Season{}, err
		}
		season.Ranges = append(season.Ranges, rms.DateRange{Start: start, End: end})
	}
	return season, season.Validate()
}

// =============================================================================
// PRICES
// =============================================================================

// PriceRowDTO is one flat matrix entry.
type PriceRowDTO struct {
	Season   string          `json:"season"`
	RateCode string          `json:"rate_code"`
	SIPP     string          `json:"sipp"`
	Price    decimal.Decimal `json:"price"`
}

// SetPriceRequest is the body of a direct price upsert.
type SetPriceRequest struct {
	Price decimal.Decimal `json:"price"`
}

// =============================================================================
// GRID
// =============================================================================

// GridCellDTO is one cell of the rendered grid. Value is null for an
// empty cell.
type GridCellDTO struct {
	Season    string           `json:"season"`
	Value     *decimal.Decimal `json:"value"`
	Dirty     bool             `json:"dirty"`
	Suggested bool             `json:"suggested"`
}

// GridRowDTO is one vehicle row of the grid.
type GridRowDTO struct {
	SIPP  string        `json:"sipp"`
	Label string        `json:"label"`
	Cells []GridCellDTO `json:"cells"`
}

// GridStatsDTO summarizes the grid for the status bar.
type GridStatsDTO struct {
	TotalCells int             `json:"total_cells"`
	DirtyCells int             `json:"dirty_cells"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// GridDTO is the full season x vehicle grid for one rate code, empty
// cells included.
type GridDTO struct {
	RateCode string       `json:"rate_code"`
	State    string       `json:"state"`
	Seasons  []string     `json:"seasons"`
	Rows     []GridRowDTO `json:"rows"`
	Stats    GridStatsDTO `json:"stats"`
}

// GridEdit is one cell edit in a batch.
type GridEdit struct {
	Season    string          `json:"season"`
	SIPP      string          `json:"sipp"`
	Value     decimal.Decimal `json:"value"`
	Suggested bool            `json:"suggested"`
}

// GridEditRequest applies a flat list of edits to a rate code's session.
type GridEditRequest struct {
	Edits []GridEdit `json:"edits"`
}

// SaveGridResponse reports how many cells one save committed.
type SaveGridResponse struct {
	RateCode  string `json:"rate_code"`
	Committed int    `json:"committed"`
	State     string `json:"state"`
}

// =============================================================================
// SUGGESTIONS / COEFFICIENTS
// =============================================================================

// SuggestRequest asks for derived prices from one base-season price.
type SuggestRequest struct {
	SIPP      string          `json:"sipp"`
	BasePrice decimal.Decimal `json:"base_price"`
}

// SuggestResponse carries the derived price per non-base season.
type SuggestResponse struct {
	SIPP        string                     `json:"sipp"`
	BaseSeason  string                     `json:"base_season"`
	BasePrice   decimal.Decimal            `json:"base_price"`
	Suggestions map[string]decimal.Decimal `json:"suggestions"`
}

// UpdateCoefficientsRequest replaces the coefficient configuration.
type UpdateCoefficientsRequest struct {
	BaseSeason       string                     `json:"base_season"`
	Coefficients     map[string]decimal.Decimal `json:"coefficients"`
	CalculationRules rms.CalculationRules       `json:"calculation_rules"`
}

// =============================================================================
// OVERVIEW
// =============================================================================

// OverviewDTO aggregates catalogue counters and per-document data sources.
type OverviewDTO struct {
	Vehicles int               `json:"vehicles"`
	Seasons  int               `json:"seasons"`
	Prices   int               `json:"prices"`
	Brands   int               `json:"brands"`
	Sources  map[string]string `json:"sources"`
}
