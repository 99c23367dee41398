/*
matrix.go - Canonical price matrix store

PURPOSE:
  Holds the season -> rate code -> vehicle -> price mapping that every
  other component reads. The matrix is a pure in-memory structure with an
  explicit Flush that hands the whole document to the persistence
  collaborator; it never auto-persists partial edits.

INVARIANTS:
  - No price is ever stored as zero or negative; a delete is the correct
    representation of "no price".
  - Empty leaf mappings are pruned eagerly: deleting the last price for a
    (season, rate code) removes the rate-code entry, and deleting the last
    rate code for a season removes the season entry.

CONCURRENCY:
  RWMutex for thread-safety of in-memory reads. Save serialization is the
  reconciliation engine's job (grid.go); the matrix itself only guarantees
  that a failed flush leaves the in-memory state as it was before the
  batch was applied (snapshot + restore).

SEE ALSO:
  - grid.go: Funnels grid edits into ApplyAndFlush
  - persist.go: The store interface Flush writes to
*/
package rms

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// PriceMatrix is the canonical price store.
type PriceMatrix struct {
	mu     sync.RWMutex
	prices PriceTable
	config RateConfig
	store  Persistence
}

func NewPriceMatrix(store Persistence) *PriceMatrix {
	return &PriceMatrix{
		prices: make(PriceTable),
		store:  store,
	}
}

// =============================================================================
// READS
// =============================================================================

// Get returns the price for a cell, or ok=false when absent.
func (m *PriceMatrix) Get(season SeasonName, code RateCode, vehicle VehicleID) (decimal.Decimal, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	price, ok := m.prices[season][code][vehicle]
	return price, ok
}

// AllRateCodes returns the union of rate codes referenced anywhere in the
// matrix plus those declared in the rate configuration, sorted.
func (m *PriceMatrix) AllRateCodes() []RateCode {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[RateCode]bool)
	for _, code := range m.config.RateCodes() {
		seen[code] = true
	}
	for _, codes := range m.prices {
		for code := range codes {
			seen[code] = true
		}
	}
	all := make([]RateCode, 0, len(seen))
	for code := range seen {
		all = append(all, code)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}

// TotalPriceCount returns the number of leaf entries (overview statistics).
func (m *PriceMatrix) TotalPriceCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, codes := range m.prices {
		for _, vehicles := range codes {
			total += len(vehicles)
		}
	}
	return total
}

// PriceRow is one flat matrix entry, for listings.
type PriceRow struct {
	Season   SeasonName
	RateCode RateCode
	Vehicle  VehicleID
	Price    decimal.Decimal
}

// Rows returns every price as a flat list, sorted by season, rate code,
// vehicle.
func (m *PriceMatrix) Rows() []PriceRow {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rows []PriceRow
	for season, codes := range m.prices {
		for code, vehicles := range codes {
			for vehicle, price := range vehicles {
				rows = append(rows, PriceRow{Season: season, RateCode: code, Vehicle: vehicle, Price: price})
			}
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Season != rows[j].Season {
			return rows[i].Season < rows[j].Season
		}
		if rows[i].RateCode != rows[j].RateCode {
			return rows[i].RateCode < rows[j].RateCode
		}
		return rows[i].Vehicle < rows[j].Vehicle
	})
	return rows
}

// SnapshotRateCode copies the season -> vehicle slice for one rate code.
// Grid sessions use this as their baseline.
func (m *PriceMatrix) SnapshotRateCode(code RateCode) map[SeasonName]map[VehicleID]decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotRateCodeLocked(code)
}

func (m *PriceMatrix) snapshotRateCodeLocked(code RateCode) map[SeasonName]map[VehicleID]decimal.Decimal {
	snapshot := make(map[SeasonName]map[VehicleID]decimal.Decimal)
	for season, codes := range m.prices {
		if vehicles, ok := codes[code]; ok {
			copied := make(map[VehicleID]decimal.Decimal, len(vehicles))
			for vehicle, price := range vehicles {
				copied[vehicle] = price
			}
			snapshot[season] = copied
		}
	}
	return snapshot
}

// =============================================================================
// WRITES
// =============================================================================

// Set stores a price, creating intermediate mappings as needed. A
// non-positive price is rejected; callers must delete instead.
func (m *PriceMatrix) Set(season SeasonName, code RateCode, vehicle VehicleID, price decimal.Decimal) error {
	if price.Sign() <= 0 {
		return &PriceError{Season: season, RateCode: code, Vehicle: vehicle, Price: price}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(season, code, vehicle, price)
	return nil
}

func (m *PriceMatrix) setLocked(season SeasonName, code RateCode, vehicle VehicleID, price decimal.Decimal) {
	codes, ok := m.prices[season]
	if !ok {
		codes = make(map[RateCode]map[VehicleID]decimal.Decimal)
		m.prices[season] = codes
	}
	vehicles, ok := codes[code]
	if !ok {
		vehicles = make(map[VehicleID]decimal.Decimal)
		codes[code] = vehicles
	}
	vehicles[vehicle] = price
}

// Delete removes a price and prunes now-empty rate-code and season entries.
func (m *PriceMatrix) Delete(season SeasonName, code RateCode, vehicle VehicleID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteLocked(season, code, vehicle)
}

func (m *PriceMatrix) deleteLocked(season SeasonName, code RateCode, vehicle VehicleID) {
	vehicles, ok := m.prices[season][code]
	if !ok {
		return
	}
	delete(vehicles, vehicle)
	if len(vehicles) == 0 {
		delete(m.prices[season], code)
	}
	if len(m.prices[season]) == 0 {
		delete(m.prices, season)
	}
}

// Replace swaps the full price table (dataset load, storage refresh).
func (m *PriceMatrix) Replace(prices PriceTable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices = make(PriceTable, len(prices))
	for season, codes := range prices {
		for code, vehicles := range codes {
			for vehicle, price := range vehicles {
				m.setLocked(season, code, vehicle, price)
			}
		}
	}
}

// SetRateConfig installs the external rate-code configuration.
func (m *PriceMatrix) SetRateConfig(config RateConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = config
}

func (m *PriceMatrix) RateConfig() RateConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// Flush hands the whole matrix to the persistence collaborator.
func (m *PriceMatrix) Flush(ctx context.Context) error {
	if err := m.store.Set(ctx, KeyRates, m.snapshotAll()); err != nil {
		return &PersistenceError{Key: KeyRates, Err: err}
	}
	return nil
}

// ApplyAndFlush applies a batch of changes for one rate code (nil value =
// delete) and flushes. All-or-nothing: on flush failure the in-memory
// matrix is restored to its pre-batch state.
func (m *PriceMatrix) ApplyAndFlush(ctx context.Context, code RateCode, changes map[CellKey]*decimal.Decimal) error {
	m.mu.Lock()
	undo := m.snapshotRateCodeLocked(code)
	for key, value := range changes {
		if value == nil {
			m.deleteLocked(key.Season, code, key.Vehicle)
		} else {
			m.setLocked(key.Season, code, key.Vehicle, *value)
		}
	}
	m.mu.Unlock()

	if err := m.store.Set(ctx, KeyRates, m.snapshotAll()); err != nil {
		m.mu.Lock()
		m.restoreRateCodeLocked(code, undo)
		m.mu.Unlock()
		return &PersistenceError{Key: KeyRates, Err: err}
	}
	return nil
}

func (m *PriceMatrix) snapshotAll() PriceTable {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snapshot := make(PriceTable, len(m.prices))
	for season, codes := range m.prices {
		snapshot[season] = make(map[RateCode]map[VehicleID]decimal.Decimal, len(codes))
		for code, vehicles := range codes {
			copied := make(map[VehicleID]decimal.Decimal, len(vehicles))
			for vehicle, price := range vehicles {
				copied[vehicle] = price
			}
			snapshot[season][code] = copied
		}
	}
	return snapshot
}

func (m *PriceMatrix) restoreRateCodeLocked(code RateCode, undo map[SeasonName]map[VehicleID]decimal.Decimal) {
	// Drop every current entry for the rate code, then reinsert the
	// snapshot. Key lists are collected first because deleteLocked mutates
	// the maps being ranged over, and pruning keeps the no-empty-branches
	// invariant intact throughout.
	for _, season := range m.seasonsWithCode(code) {
		for _, vehicle := range vehicleKeys(m.prices[season][code]) {
			m.deleteLocked(season, code, vehicle)
		}
	}
	for season, vehicles := range undo {
		for vehicle, price := range vehicles {
			m.setLocked(season, code, vehicle, price)
		}
	}
}

func (m *PriceMatrix) seasonsWithCode(code RateCode) []SeasonName {
	var seasons []SeasonName
	for season, codes := range m.prices {
		if _, ok := codes[code]; ok {
			seasons = append(seasons, season)
		}
	}
	return seasons
}

func vehicleKeys(vehicles map[VehicleID]decimal.Decimal) []VehicleID {
	keys := make([]VehicleID, 0, len(vehicles))
	for vehicle := range vehicles {
		keys = append(keys, vehicle)
	}
	return keys
}
