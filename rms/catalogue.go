// catalogue.go - Vehicle and season reference data.
//
// The catalogue is read-mostly: vehicles and seasons change only through
// explicit maintenance operations, never as a side effect of pricing. The
// two orderings defined here (season display priority, vehicle sort) are
// the single source of truth for grid rendering and exports.
package rms

import (
	"fmt"
	"sort"
	"sync"
)

// seasonPriority is the fixed display order of well-known seasons. Seasons
// absent from this list append afterward in catalogue order.
var seasonPriority = []SeasonName{
	"Low Season",
	"Mid Season",
	"High Season",
	"Very High Season",
	"Festive",
}

// Catalogue holds the fleet and season reference data.
type Catalogue struct {
	mu       sync.RWMutex
	vehicles []Vehicle
	seasons  []Season
}

func NewCatalogue(vehicles []Vehicle, seasons []Season) *Catalogue {
	c := &Catalogue{}
	c.Replace(vehicles, seasons)
	return c
}

// Replace swaps the full reference data set (dataset load, storage refresh).
func (c *Catalogue) Replace(vehicles []Vehicle, seasons []Season) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vehicles = append([]Vehicle(nil), vehicles...)
	c.seasons = append([]Season(nil), seasons...)
}

// =============================================================================
// LOOKUPS
// =============================================================================

func (c *Catalogue) Vehicles() []Vehicle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Vehicle(nil), c.vehicles...)
}

func (c *Catalogue) Seasons() []Season {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Season(nil), c.seasons...)
}

func (c *Catalogue) VehicleBySIPP(id VehicleID) (Vehicle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, v := range c.vehicles {
		if v.SIPP == id {
			return v, true
		}
	}
	return Vehicle{}, false
}

func (c *Catalogue) HasSeason(name SeasonName) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seasonIndex(name) >= 0
}

func (c *Catalogue) seasonIndex(name SeasonName) int {
	for i, s := range c.seasons {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func (c *Catalogue) vehicleIndex(id VehicleID) int {
	for i, v := range c.vehicles {
		if v.SIPP == id {
			return i
		}
	}
	return -1
}

// =============================================================================
// ORDERINGS
// =============================================================================

// OrderedSeasons returns seasons in display order: the fixed priority list
// first, then any remaining seasons in catalogue order.
func (c *Catalogue) OrderedSeasons() []Season {
	c.mu.RLock()
	defer c.mu.RUnlock()

	listed := make(map[SeasonName]bool, len(seasonPriority))
	ordered := make([]Season, 0, len(c.seasons))
	for _, name := range seasonPriority {
		if i := c.seasonIndex(name); i >= 0 {
			ordered = append(ordered, c.seasons[i])
			listed[name] = true
		}
	}
	for _, s := range c.seasons {
		if !listed[s.Name] {
			ordered = append(ordered, s)
		}
	}
	return ordered
}

// SortedVehicles returns vehicles ordered by category then make/model,
// both lexicographic. This is the grid row order.
func (c *Catalogue) SortedVehicles() []Vehicle {
	vehicles := c.Vehicles()
	sort.SliceStable(vehicles, func(i, j int) bool {
		if vehicles[i].Category != vehicles[j].Category {
			return vehicles[i].Category < vehicles[j].Category
		}
		return vehicles[i].MakeModel < vehicles[j].MakeModel
	})
	return vehicles
}

// =============================================================================
// MAINTENANCE
// =============================================================================

func (c *Catalogue) AddVehicle(v Vehicle) error {
	if v.SIPP == "" {
		return fmt.Errorf("vehicle SIPP must not be empty")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.vehicleIndex(v.SIPP) >= 0 {
		return fmt.Errorf("vehicle %s already exists", v.SIPP)
	}
	c.vehicles = append(c.vehicles, v)
	return nil
}

func (c *Catalogue) UpdateVehicle(id VehicleID, v Vehicle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.vehicleIndex(id)
	if i < 0 {
		return fmt.Errorf("vehicle %s not found", id)
	}
	if v.SIPP != id && c.vehicleIndex(v.SIPP) >= 0 {
		return fmt.Errorf("vehicle %s already exists", v.SIPP)
	}
	c.vehicles[i] = v
	return nil
}

func (c *Catalogue) RemoveVehicle(id VehicleID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.vehicleIndex(id)
	if i < 0 {
		return fmt.Errorf("vehicle %s not found", id)
	}
	c.vehicles = append(c.vehicles[:i], c.vehicles[i+1:]...)
	return nil
}

func (c *Catalogue) AddSeason(s Season) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seasonIndex(s.Name) >= 0 {
		return fmt.Errorf("season %q already exists", s.Name)
	}
	c.seasons = append(c.seasons, s)
	return nil
}

func (c *Catalogue) UpdateSeason(name SeasonName, s Season) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.seasonIndex(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSeason, name)
	}
	if s.Name != name && c.seasonIndex(s.Name) >= 0 {
		return fmt.Errorf("season %q already exists", s.Name)
	}
	c.seasons[i] = s
	return nil
}

func (c *Catalogue) RemoveSeason(name SeasonName) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.seasonIndex(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSeason, name)
	}
	c.seasons = append(c.seasons[:i], c.seasons[i+1:]...)
	return nil
}
