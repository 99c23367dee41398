/*
handlers.go - HTTP API handlers for the rate-management engine

PURPOSE:
  Exposes the engine via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to the workspace.

ENDPOINTS:
  Overview:
    GET    /api/overview                     Catalogue counters + data sources

  Catalogue:
    GET    /api/vehicles                     List fleet (sorted)
    POST   /api/vehicles                     Add vehicle
    PUT    /api/vehicles/{sipp}              Update vehicle
    DELETE /api/vehicles/{sipp}              Remove vehicle
    GET    /api/seasons                      List seasons (display order)
    POST   /api/seasons                      Add season
    PUT    /api/seasons/{name}               Update season
    DELETE /api/seasons/{name}               Remove season

  Prices:
    GET    /api/rates                        Flat price list (?season= filter)
    GET    /api/rates/codes                  All rate codes (matrix + config)
    PUT    /api/rates/{season}/{rateCode}/{sipp}  Direct upsert
    DELETE /api/rates/{season}/{rateCode}/{sipp}  Direct delete

  Grid:
    GET    /api/grid/{rateCode}              Full grid incl. empty cells
    POST   /api/grid/{rateCode}/edits        Apply a batch of cell edits
    POST   /api/grid/{rateCode}/save         Commit dirty cells
    POST   /api/grid/{rateCode}/discard      Drop uncommitted edits
    GET    /api/grid/{rateCode}/export       CSV export

  Derivation:
    POST   /api/suggestions                  Derived prices from a base price
    GET    /api/coefficients                 Coefficient configuration
    PUT    /api/coefficients                 Replace configuration

  Admin:
    POST   /api/admin/defaults               Re-seed from bundled defaults

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Unknown season / vehicle / resource
  - 409: Save already in progress for the rate code
  - 502: Persistence failure (edits retained, retry allowed)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/caloops971/ChromeRMS2025/rms"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Workspace *rms.Workspace
}

func NewHandler(ws *rms.Workspace) *Handler {
	return &Handler{Workspace: ws}
}

// =============================================================================
// OVERVIEW
// =============================================================================

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview := h.Workspace.Overview()
	sources := make(map[string]string)
	for key, src := range h.Workspace.Sources() {
		sources[key] = string(src)
	}
	writeJSON(w, http.StatusOK, OverviewDTO{
		Vehicles: overview.Vehicles,
		Seasons:  overview.Seasons,
		Prices:   overview.Prices,
		Brands:   overview.Brands,
		Sources:  sources,
	})
}

// =============================================================================
// VEHICLE HANDLERS
// =============================================================================

func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles := h.Workspace.Catalogue.SortedVehicles()
	dtos := make([]VehicleDTO, len(vehicles))
	for i, v := range vehicles {
		dtos[i] = vehicleDTO(v)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req VehicleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.Workspace.Catalogue.AddVehicle(req.toDomain()); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to add vehicle", err)
		return
	}
	if err := h.Workspace.SaveVehicles(r.Context()); err != nil {
		writeError(w, statusFor(err), "Failed to persist vehicles", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *Handler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	sipp := rms.VehicleID(chi.URLParam(r, "sipp"))
	var req VehicleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.Workspace.Catalogue.UpdateVehicle(sipp, req.toDomain()); err != nil {
		writeError(w, http.StatusNotFound, "Failed to update vehicle", err)
		return
	}
	if err := h.Workspace.SaveVehicles(r.Context()); err != nil {
		writeError(w, statusFor(err), "Failed to persist vehicles", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	sipp := rms.VehicleID(chi.URLParam(r, "sipp"))
	if err := h.Workspace.Catalogue.RemoveVehicle(sipp); err != nil {
		writeError(w, http.StatusNotFound, "Failed to remove vehicle", err)
		return
	}
	if err := h.Workspace.SaveVehicles(r.Context()); err != nil {
		writeError(w, statusFor(err), "Failed to persist vehicles", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": string(sipp)})
}

// =============================================================================
// SEASON HANDLERS
// =============================================================================

func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	seasons := h.Workspace.Catalogue.OrderedSeasons()
	dtos := make([]SeasonDTO, len(seasons))
	for i, s := range seasons {
		dtos[i] = seasonDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateSeason(w http.ResponseWriter, r *http.Request) {
	var req SeasonDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	season, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid season", err)
		return
	}
	if err := h.Workspace.Catalogue.AddSeason(season); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to add season", err)
		return
	}
	if err := h.Workspace.SaveSeasons(r.Context()); err != nil {
		writeError(w, statusFor(err), "Failed to persist seasons", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *Handler) UpdateSeason(w http.ResponseWriter, r *http.Request) {
	name := rms.SeasonName(chi.URLParam(r, "name"))
	var req SeasonDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	season, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid season", err)
		return
	}
	if err := h.Workspace.Catalogue.UpdateSeason(name, season); err != nil {
		writeError(w, statusFor(err), "Failed to update season", err)
		return
	}
	if err := h.Workspace.SaveSeasons(r.Context()); err != nil {
		writeError(w, statusFor(err), "Failed to persist seasons", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *Handler) DeleteSeason(w http.ResponseWriter, r *http.Request) {
	name := rms.SeasonName(chi.URLParam(r, "name"))
	if err := h.Workspace.Catalogue.RemoveSeason(name); err != nil {
		writeError(w, statusFor(err), "Failed to remove season", err)
		return
	}
	if err := h.Workspace.SaveSeasons(r.Context()); err != nil {
		writeError(w, statusFor(err), "Failed to persist seasons", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": string(name)})
}

// =============================================================================
// PRICE HANDLERS
// =============================================================================

func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	seasonFilter := rms.SeasonName(r.URL.Query().Get("season"))
	rows := h.Workspace.Matrix.Rows()
	dtos := make([]PriceRowDTO, 0, len(rows))
	for _, row := range rows {
		if seasonFilter != "" && row.Season != seasonFilter {
			continue
		}
		dtos = append(dtos, PriceRowDTO{
			Season:   string(row.Season),
			RateCode: string(row.RateCode),
			SIPP:     string(row.Vehicle),
			Price:    row.Price,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) ListRateCodes(w http.ResponseWriter, r *http.Request) {
	codes := h.Workspace.Matrix.AllRateCodes()
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	writeJSON(w, http.StatusOK, map[string]any{"rate_codes": out})
}

func (h *Handler) SetRate(w http.ResponseWriter, r *http.Request) {
	season := rms.SeasonName(chi.URLParam(r, "season"))
	code := rms.RateCode(chi.URLParam(r, "rateCode"))
	sipp := rms.VehicleID(chi.URLParam(r, "sipp"))

	var req SetPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.Workspace.SetRate(r.Context(), season, code, sipp, req.Price); err != nil {
		writeError(w, statusFor(err), "Failed to set price", err)
		return
	}
	writeJSON(w, http.StatusOK, PriceRowDTO{
		Season: string(season), RateCode: string(code), SIPP: string(sipp), Price: req.Price,
	})
}

func (h *Handler) DeleteRate(w http.ResponseWriter, r *http.Request) {
	season := rms.SeasonName(chi.URLParam(r, "season"))
	code := rms.RateCode(chi.URLParam(r, "rateCode"))
	sipp := rms.VehicleID(chi.URLParam(r, "sipp"))

	if err := h.Workspace.DeleteRate(r.Context(), season, code, sipp); err != nil {
		writeError(w, statusFor(err), "Failed to delete price", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": fmt.Sprintf("%s/%s/%s", season, code, sipp)})
}

// =============================================================================
// GRID HANDLERS
// =============================================================================

func (h *Handler) GetGrid(w http.ResponseWriter, r *http.Request) {
	code := rms.RateCode(chi.URLParam(r, "rateCode"))
	session := h.Workspace.Grid.Session(code)

	seasons := h.Workspace.Catalogue.OrderedSeasons()
	vehicles := h.Workspace.Catalogue.SortedVehicles()

	seasonNames := make([]string, len(seasons))
	for i, s := range seasons {
		seasonNames[i] = string(s.Name)
	}

	totalValue := decimal.Zero
	rows := make([]GridRowDTO, 0, len(vehicles))
	for _, v := range vehicles {
		row := GridRowDTO{SIPP: string(v.SIPP), Label: v.Label()}
		for _, s := range seasons {
			cell, ok := session.CellValue(s.Name, v.SIPP)
			dto := GridCellDTO{Season: string(s.Name), Dirty: cell.Dirty(), Suggested: cell.Suggested}
			if ok {
				value := *cell.Current
				dto.Value = &value
				totalValue = totalValue.Add(value)
			}
			row.Cells = append(row.Cells, dto)
		}
		rows = append(rows, row)
	}

	writeJSON(w, http.StatusOK, GridDTO{
		RateCode: string(code),
		State:    session.State().String(),
		Seasons:  seasonNames,
		Rows:     rows,
		Stats: GridStatsDTO{
			TotalCells: len(seasons) * len(vehicles),
			DirtyCells: session.DirtyCount(),
			TotalValue: totalValue,
		},
	})
}

func (h *Handler) EditGrid(w http.ResponseWriter, r *http.Request) {
	code := rms.RateCode(chi.URLParam(r, "rateCode"))
	var req GridEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	session := h.Workspace.Grid.Session(code)
	for _, edit := range req.Edits {
		season := rms.SeasonName(edit.Season)
		sipp := rms.VehicleID(edit.SIPP)
		if edit.Suggested {
			session.AcceptSuggestion(season, sipp, edit.Value)
		} else {
			session.EditCell(season, sipp, edit.Value)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"applied": len(req.Edits),
		"state":   session.State().String(),
		"dirty":   session.DirtyCount(),
	})
}

func (h *Handler) SaveGrid(w http.ResponseWriter, r *http.Request) {
	code := rms.RateCode(chi.URLParam(r, "rateCode"))
	session := h.Workspace.Grid.Session(code)

	committed, err := session.Save(r.Context())
	if err != nil {
		writeError(w, statusFor(err), "Failed to save grid", err)
		return
	}
	writeJSON(w, http.StatusOK, SaveGridResponse{
		RateCode:  string(code),
		Committed: committed,
		State:     session.State().String(),
	})
}

func (h *Handler) DiscardGrid(w http.ResponseWriter, r *http.Request) {
	code := rms.RateCode(chi.URLParam(r, "rateCode"))
	session := h.Workspace.Grid.Session(code)
	session.Discard()
	writeJSON(w, http.StatusOK, map[string]any{
		"rate_code": string(code),
		"state":     session.State().String(),
	})
}

func (h *Handler) ExportGrid(w http.ResponseWriter, r *http.Request) {
	code := rms.RateCode(chi.URLParam(r, "rateCode"))
	data, err := rms.ExportGridCSV(h.Workspace.Catalogue, h.Workspace.Matrix, code)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export grid", err)
		return
	}

	filename := fmt.Sprintf("rates-grid-%s-%s.csv", code, time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// =============================================================================
// SUGGESTION / COEFFICIENT HANDLERS
// =============================================================================

func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	suggestions, err := h.Workspace.Suggest(rms.VehicleID(req.SIPP), req.BasePrice)
	if err != nil {
		writeError(w, statusFor(err), "Failed to derive suggestions", err)
		return
	}

	prices := make(map[string]decimal.Decimal, len(suggestions.Prices))
	for season, price := range suggestions.Prices {
		prices[string(season)] = price
	}
	writeJSON(w, http.StatusOK, SuggestResponse{
		SIPP:        string(suggestions.Vehicle),
		BaseSeason:  string(suggestions.BaseSeason),
		BasePrice:   suggestions.BasePrice,
		Suggestions: prices,
	})
}

func (h *Handler) GetCoefficients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Workspace.Coefficients.Config())
}

func (h *Handler) UpdateCoefficients(w http.ResponseWriter, r *http.Request) {
	var req UpdateCoefficientsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	table := h.Workspace.Coefficients
	if req.BaseSeason != "" {
		if err := table.SetBaseSeason(rms.SeasonName(req.BaseSeason)); err != nil {
			writeError(w, statusFor(err), "Failed to set base season", err)
			return
		}
	}
	base := table.BaseSeason()

	// Remove coefficients absent from the request, then apply the rest.
	requested := make(map[rms.SeasonName]bool, len(req.Coefficients))
	for season := range req.Coefficients {
		requested[rms.SeasonName(season)] = true
	}
	for _, season := range table.Seasons() {
		if season != base && !requested[season] {
			if err := table.RemoveMultiplier(season); err != nil {
				writeError(w, statusFor(err), "Failed to remove coefficient", err)
				return
			}
		}
	}
	for season, value := range req.Coefficients {
		name := rms.SeasonName(season)
		if name == base {
			continue
		}
		if err := table.SetMultiplier(name, value); err != nil {
			writeError(w, statusFor(err), "Failed to set coefficient", err)
			return
		}
	}
	if err := table.SetRules(req.CalculationRules); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid calculation rules", err)
		return
	}

	if err := h.Workspace.SaveCoefficients(r.Context()); err != nil {
		writeError(w, statusFor(err), "Failed to persist coefficients", err)
		return
	}
	writeJSON(w, http.StatusOK, table.Config())
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

func (h *Handler) ReloadDefaults(w http.ResponseWriter, r *http.Request) {
	if err := h.Workspace.ReloadDefaults(r.Context()); err != nil {
		writeError(w, statusFor(err), "Failed to reload defaults", err)
		return
	}
	overview := h.Workspace.Overview()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "reloaded",
		"vehicles": overview.Vehicles,
		"seasons":  overview.Seasons,
		"prices":   overview.Prices,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func statusFor(err error) int {
	switch {
	case errors.Is(err, rms.ErrSaveInProgress):
		return http.StatusConflict
	case errors.Is(err, rms.ErrPersistenceFailure):
		return http.StatusBadGateway
	case errors.Is(err, rms.ErrUnknownSeason):
		return http.StatusNotFound
	case rms.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]any{"error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	writeJSON(w, status, body)
}
