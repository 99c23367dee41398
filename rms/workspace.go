/*
workspace.go - Session bootstrap and top-level wiring

PURPOSE:
  A Workspace ties the catalogue, price matrix, coefficient table, and
  grid engine to a persistence store and a default dataset provider.
  It owns the load-at-startup sequence: read the five documents in one
  multi-get, fall back to the bundled defaults for each missing key
  independently, and write those defaults back so the next session finds
  them in storage.

PERSISTENCE DISCIPLINE:
  The engine never auto-persists partial edits. Catalogue maintenance and
  coefficient changes persist their own key explicitly via the Save*
  methods; grid edits persist only through GridSession.Save.

SEE ALSO:
  - persist.go: The Persistence and DefaultDataset contracts
  - dataset/: The bundled default provider
*/
package rms

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// DataSource records where a document came from at load time.
type DataSource string

const (
	SourceStorage DataSource = "storage"
	SourceDefault DataSource = "default"
)

// Workspace is the assembled engine for one editing session.
type Workspace struct {
	store    Persistence
	defaults DefaultDataset

	Catalogue    *Catalogue
	Matrix       *PriceMatrix
	Coefficients *CoefficientTable
	Grid         *GridEngine

	sources map[string]DataSource
}

func NewWorkspace(store Persistence, defaults DefaultDataset) *Workspace {
	matrix := NewPriceMatrix(store)
	catalogue := NewCatalogue(nil, nil)
	return &Workspace{
		store:        store,
		defaults:     defaults,
		Catalogue:    catalogue,
		Matrix:       matrix,
		Coefficients: NewCoefficientTable(CoefficientConfig{}, catalogue),
		Grid:         NewGridEngine(matrix),
		sources:      make(map[string]DataSource),
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the five documents from the store. Each missing key falls
// back to the default dataset independently, and the fallback is written
// back to the store.
func (w *Workspace) Load(ctx context.Context) error {
	stored, err := w.store.Get(ctx, AllKeys())
	if err != nil {
		return &PersistenceError{Key: "multi-get", Err: err}
	}

	var vehicles []Vehicle
	if err := w.loadKey(ctx, stored, KeyVehicles, &vehicles, func() any { return w.defaults.Vehicles() }); err != nil {
		return err
	}
	var seasons []Season
	if err := w.loadKey(ctx, stored, KeySeasons, &seasons, func() any { return w.defaults.Seasons() }); err != nil {
		return err
	}
	rates := make(PriceTable)
	if err := w.loadKey(ctx, stored, KeyRates, &rates, func() any { return w.defaults.Rates() }); err != nil {
		return err
	}
	var rateConfig RateConfig
	if err := w.loadKey(ctx, stored, KeyRateConfig, &rateConfig, func() any { return w.defaults.RateConfig() }); err != nil {
		return err
	}
	var coefficients CoefficientConfig
	if err := w.loadKey(ctx, stored, KeyCoefficients, &coefficients, func() any { return w.defaults.Coefficients() }); err != nil {
		return err
	}

	w.Catalogue.Replace(vehicles, seasons)
	w.Matrix.Replace(rates)
	w.Matrix.SetRateConfig(rateConfig)
	w.Coefficients.Load(coefficients)
	return nil
}

// loadKey unmarshals one stored document into out, or falls back to the
// default value (persisting it back) when the key is absent.
func (w *Workspace) loadKey(ctx context.Context, stored map[string]json.RawMessage, key string, out any, fallback func() any) error {
	if raw, ok := stored[key]; ok {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("corrupt document %q: %w", key, err)
		}
		w.sources[key] = SourceStorage
		return nil
	}

	value := fallback()
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("default document %q: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("default document %q: %w", key, err)
	}
	if err := w.store.Set(ctx, key, value); err != nil {
		return &PersistenceError{Key: key, Err: err}
	}
	w.sources[key] = SourceDefault
	return nil
}

// ReloadDefaults re-seeds every document from the default provider and
// persists the result, discarding stored data.
func (w *Workspace) ReloadDefaults(ctx context.Context) error {
	w.Catalogue.Replace(w.defaults.Vehicles(), w.defaults.Seasons())
	w.Matrix.Replace(w.defaults.Rates())
	w.Matrix.SetRateConfig(w.defaults.RateConfig())
	w.Coefficients.Load(w.defaults.Coefficients())

	if err := w.SaveVehicles(ctx); err != nil {
		return err
	}
	if err := w.SaveSeasons(ctx); err != nil {
		return err
	}
	if err := w.Matrix.Flush(ctx); err != nil {
		return err
	}
	if err := w.SaveRateConfig(ctx); err != nil {
		return err
	}
	if err := w.SaveCoefficients(ctx); err != nil {
		return err
	}
	for _, key := range AllKeys() {
		w.sources[key] = SourceDefault
	}
	return nil
}

// Sources reports where each document came from at load time.
func (w *Workspace) Sources() map[string]DataSource {
	out := make(map[string]DataSource, len(w.sources))
	for k, v := range w.sources {
		out[k] = v
	}
	return out
}

// =============================================================================
// EXPLICIT SAVES (one key each)
// =============================================================================

func (w *Workspace) SaveVehicles(ctx context.Context) error {
	return w.saveKey(ctx, KeyVehicles, w.Catalogue.Vehicles())
}

func (w *Workspace) SaveSeasons(ctx context.Context) error {
	return w.saveKey(ctx, KeySeasons, w.Catalogue.Seasons())
}

func (w *Workspace) SaveCoefficients(ctx context.Context) error {
	return w.saveKey(ctx, KeyCoefficients, w.Coefficients.Config())
}

func (w *Workspace) SaveRateConfig(ctx context.Context) error {
	return w.saveKey(ctx, KeyRateConfig, w.Matrix.RateConfig())
}

func (w *Workspace) saveKey(ctx context.Context, key string, value any) error {
	if err := w.store.Set(ctx, key, value); err != nil {
		return &PersistenceError{Key: key, Err: err}
	}
	return nil
}

// SetRate upserts one price directly (catalogue-style edit, outside any
// grid session) and flushes the matrix.
func (w *Workspace) SetRate(ctx context.Context, season SeasonName, code RateCode, vehicle VehicleID, price decimal.Decimal) error {
	if err := w.Matrix.Set(season, code, vehicle, price); err != nil {
		return err
	}
	return w.Matrix.Flush(ctx)
}

// DeleteRate removes one price directly and flushes the matrix.
func (w *Workspace) DeleteRate(ctx context.Context, season SeasonName, code RateCode, vehicle VehicleID) error {
	w.Matrix.Delete(season, code, vehicle)
	return w.Matrix.Flush(ctx)
}

// =============================================================================
// DERIVATION / STATISTICS
// =============================================================================

// Suggest derives prices for all non-base seasons from one base-season
// price.
func (w *Workspace) Suggest(vehicle VehicleID, basePrice decimal.Decimal) (*Suggestions, error) {
	engine := &SuggestionEngine{Table: w.Coefficients}
	return engine.Suggest(vehicle, basePrice)
}

// Overview aggregates the counters shown on the overview screen.
type Overview struct {
	Vehicles int
	Seasons  int
	Prices   int
	Brands   int
}

func (w *Workspace) Overview() Overview {
	return Overview{
		Vehicles: len(w.Catalogue.Vehicles()),
		Seasons:  len(w.Catalogue.Seasons()),
		Prices:   w.Matrix.TotalPriceCount(),
		Brands:   len(w.Matrix.RateConfig().Brands()),
	}
}
