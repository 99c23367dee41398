/*
grid.go - Grid reconciliation engine

PURPOSE:
  Mediates between live per-cell edits (typed values and accepted
  suggestions) and the one persisted write per rate code. Each rate code
  gets its own editing session holding the dirty-set of cells whose live
  value differs from the persisted baseline.

STATE MACHINE (per rate code):
  Clean  -> no cell differs from baseline
  Dirty  -> at least one cell differs; back to Clean on save or discard
  Saving -> a save is pending. New edits are still accepted, but a second
            save for the same rate code is rejected until the first
            resolves. Saves for different rate codes are independent.

SAVE SEMANTICS:
  The dirty-set is snapshotted, applied to the price matrix as one batch
  (positive value = upsert, cleared value = delete), and flushed. On
  success exactly the snapshotted values become the new baselines; a cell
  edited again while the flush was pending stays dirty. On flush failure
  nothing is committed and every dirty flag survives for retry.

SEE ALSO:
  - matrix.go: ApplyAndFlush, the atomic batch write
  - suggest.go: Produces the values AcceptSuggestion feeds in
*/
package rms

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CELLS
// =============================================================================

// CellKey addresses one grid cell within a rate code.
type CellKey struct {
	Season  SeasonName
	Vehicle VehicleID
}

// Cell is the reconciliation state of one cell. A nil pointer means
// "no price": cleared when current, never persisted when baseline.
type Cell struct {
	Baseline  *decimal.Decimal
	Current   *decimal.Decimal
	Suggested bool
}

// Dirty reports whether the live value differs from the baseline.
func (c Cell) Dirty() bool {
	switch {
	case c.Baseline == nil && c.Current == nil:
		return false
	case c.Baseline == nil || c.Current == nil:
		return true
	default:
		return !c.Baseline.Equal(*c.Current)
	}
}

// GridState is the session's position in the edit/save cycle.
type GridState int

const (
	GridClean GridState = iota
	GridDirty
	GridSaving
)

func (s GridState) String() string {
	switch s {
	case GridDirty:
		return "dirty"
	case GridSaving:
		return "saving"
	default:
		return "clean"
	}
}

// =============================================================================
// SESSION - One editing session per rate code
// =============================================================================

// GridSession tracks edits for a single rate code.
type GridSession struct {
	mu       sync.Mutex
	rateCode RateCode
	matrix   *PriceMatrix
	cells    map[CellKey]*Cell
	saving   bool
}

func newGridSession(code RateCode, matrix *PriceMatrix) *GridSession {
	return &GridSession{
		rateCode: code,
		matrix:   matrix,
		cells:    make(map[CellKey]*Cell),
	}
}

func (s *GridSession) RateCode() RateCode { return s.rateCode }

// cellLocked returns the tracked cell, creating it with the current
// persisted value as baseline on first touch.
func (s *GridSession) cellLocked(key CellKey) *Cell {
	if c, ok := s.cells[key]; ok {
		return c
	}
	c := &Cell{}
	if price, ok := s.matrix.Get(key.Season, s.rateCode, key.Vehicle); ok {
		baseline := price
		c.Baseline = &baseline
		current := price
		c.Current = &current
	}
	s.cells[key] = c
	return c
}

// EditCell records a live edit. A zero or negative value means "clear":
// the cell becomes a delete on save, mirroring the rule that no price is
// ever stored as zero or negative.
func (s *GridSession) EditCell(season SeasonName, vehicle VehicleID, value decimal.Decimal) {
	s.applyEdit(season, vehicle, value, false)
}

// AcceptSuggestion records an engine-derived value. Identical to EditCell
// for save purposes; the suggestion tag exists for display only.
func (s *GridSession) AcceptSuggestion(season SeasonName, vehicle VehicleID, value decimal.Decimal) {
	s.applyEdit(season, vehicle, value, true)
}

func (s *GridSession) applyEdit(season SeasonName, vehicle VehicleID, value decimal.Decimal, suggested bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cellLocked(CellKey{Season: season, Vehicle: vehicle})
	if value.Sign() <= 0 {
		c.Current = nil
	} else {
		v := value
		c.Current = &v
	}
	c.Suggested = suggested
}

// CellValue returns the live view of a cell: the session value when the
// cell has been touched, otherwise the persisted price.
func (s *GridSession) CellValue(season SeasonName, vehicle VehicleID) (Cell, bool) {
	s.mu.Lock()
	if c, ok := s.cells[CellKey{Season: season, Vehicle: vehicle}]; ok {
		view := *c
		s.mu.Unlock()
		return view, view.Current != nil
	}
	s.mu.Unlock()

	if price, ok := s.matrix.Get(season, s.rateCode, vehicle); ok {
		p := price
		return Cell{Baseline: &p, Current: &p}, true
	}
	return Cell{}, false
}

// DirtyCount returns the number of cells whose value differs from baseline.
func (s *GridSession) DirtyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, c := range s.cells {
		if c.Dirty() {
			count++
		}
	}
	return count
}

// State reports the session's position in the edit/save cycle.
func (s *GridSession) State() GridState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return GridSaving
	}
	for _, c := range s.cells {
		if c.Dirty() {
			return GridDirty
		}
	}
	return GridClean
}

// Save commits every dirty cell to the price matrix and flushes. Returns
// the number of cells committed; zero with no error when already clean.
// A save attempted while another is pending fails with SaveInProgressError.
// On persistence failure no dirty flag is cleared.
func (s *GridSession) Save(ctx context.Context) (int, error) {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return 0, &SaveInProgressError{RateCode: s.rateCode}
	}
	batch := make(map[CellKey]*decimal.Decimal)
	for key, c := range s.cells {
		if !c.Dirty() {
			continue
		}
		if c.Current == nil {
			batch[key] = nil
		} else {
			v := *c.Current
			batch[key] = &v
		}
	}
	if len(batch) == 0 {
		s.mu.Unlock()
		return 0, nil
	}
	s.saving = true
	s.mu.Unlock()

	err := s.matrix.ApplyAndFlush(ctx, s.rateCode, batch)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		return 0, err
	}
	for key, committed := range batch {
		c, ok := s.cells[key]
		if !ok {
			continue
		}
		c.Baseline = committed
		if !c.Dirty() {
			c.Suggested = false
		}
	}
	return len(batch), nil
}

// Discard drops all uncommitted edits. Baselines are re-read from the
// matrix on next touch.
func (s *GridSession) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cells = make(map[CellKey]*Cell)
}

// =============================================================================
// ENGINE - Session registry
// =============================================================================

// GridEngine owns the per-rate-code sessions. All grid mutation funnels
// through the session for its rate code, which is what makes the matrix
// safe without its own save coordination.
type GridEngine struct {
	mu       sync.Mutex
	matrix   *PriceMatrix
	sessions map[RateCode]*GridSession
}

func NewGridEngine(matrix *PriceMatrix) *GridEngine {
	return &GridEngine{
		matrix:   matrix,
		sessions: make(map[RateCode]*GridSession),
	}
}

// Session returns the editing session for a rate code, creating it on
// first use.
func (e *GridEngine) Session(code RateCode) *GridSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.sessions[code]; ok {
		return s
	}
	s := newGridSession(code, e.matrix)
	e.sessions[code] = s
	return s
}
