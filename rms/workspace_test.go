package rms_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/caloops971/ChromeRMS2025/dataset"
	"github.com/caloops971/ChromeRMS2025/rms"
	"github.com/caloops971/ChromeRMS2025/store/memory"
)

func TestWorkspace_Load_EmptyStoreFallsBackToDefaults(t *testing.T) {
	// GIVEN: An empty store
	// WHEN: Loading the workspace
	// THEN: Every document comes from the default dataset and is written
	//       back so the next session finds it in storage

	store := memory.New()
	w := rms.NewWorkspace(store, dataset.New())

	if err := w.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for key, source := range w.Sources() {
		if source != rms.SourceDefault {
			t.Errorf("key %s: expected default source, got %s", key, source)
		}
	}
	if store.Len() != len(rms.AllKeys()) {
		t.Errorf("expected %d documents written back, got %d", len(rms.AllKeys()), store.Len())
	}
	if len(w.Catalogue.Vehicles()) == 0 {
		t.Error("expected the default fleet to be loaded")
	}
	if w.Coefficients.BaseSeason() != "Low Season" {
		t.Errorf("expected default base season, got %s", w.Coefficients.BaseSeason())
	}
}

func TestWorkspace_Load_StoredDocumentWinsOverDefault(t *testing.T) {
	// GIVEN: A store holding a rates document but nothing else
	// WHEN: Loading the workspace
	// THEN: Rates come from storage, the other documents from defaults

	ctx := context.Background()
	store := memory.New()
	seeded := rms.PriceTable{
		"Low Season": {
			"WALKIN": {"ECAR": decimal.NewFromInt(77)},
		},
	}
	if err := store.Set(ctx, rms.KeyRates, seeded); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := rms.NewWorkspace(store, dataset.New())
	if err := w.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sources := w.Sources()
	if sources[rms.KeyRates] != rms.SourceStorage {
		t.Errorf("rates: expected storage source, got %s", sources[rms.KeyRates])
	}
	if sources[rms.KeyVehicles] != rms.SourceDefault {
		t.Errorf("vehicles: expected default source, got %s", sources[rms.KeyVehicles])
	}

	price, ok := w.Matrix.Get("Low Season", "WALKIN", "ECAR")
	if !ok || !price.Equal(d(77)) {
		t.Errorf("expected seeded 77, got %v (present=%v)", price, ok)
	}
}

func TestWorkspace_SetRate_PersistsImmediately(t *testing.T) {
	// GIVEN: A loaded workspace
	// WHEN: Upserting one price directly
	// THEN: The rates document in the store reflects it on reload

	ctx := context.Background()
	store := memory.New()
	w := rms.NewWorkspace(store, dataset.New())
	if err := w.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := w.SetRate(ctx, "High Season", "AFFA1", "FVMR", d(120)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded := rms.NewWorkspace(store, dataset.New())
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	price, ok := reloaded.Matrix.Get("High Season", "AFFA1", "FVMR")
	if !ok || !price.Equal(d(120)) {
		t.Errorf("expected 120 after reload, got %v (present=%v)", price, ok)
	}
}

func TestWorkspace_ReloadDefaults_DiscardsStoredData(t *testing.T) {
	// GIVEN: A workspace with a custom price persisted
	// WHEN: Re-seeding from defaults
	// THEN: The custom price is gone, in memory and in storage

	ctx := context.Background()
	store := memory.New()
	w := rms.NewWorkspace(store, dataset.New())
	if err := w.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.SetRate(ctx, "Festive", "WALKIN", "ECAR", d(999)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := w.ReloadDefaults(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := w.Matrix.Get("Festive", "WALKIN", "ECAR"); ok {
		t.Error("expected custom price to be discarded")
	}
	reloaded := rms.NewWorkspace(store, dataset.New())
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, ok := reloaded.Matrix.Get("Festive", "WALKIN", "ECAR"); ok {
		t.Error("expected custom price gone from storage too")
	}
}

func TestWorkspace_Overview(t *testing.T) {
	ctx := context.Background()
	w := rms.NewWorkspace(memory.New(), dataset.New())
	if err := w.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	overview := w.Overview()
	if overview.Vehicles != len(w.Catalogue.Vehicles()) {
		t.Errorf("vehicle count mismatch: %d", overview.Vehicles)
	}
	if overview.Seasons != len(w.Catalogue.Seasons()) {
		t.Errorf("season count mismatch: %d", overview.Seasons)
	}
	if overview.Brands == 0 {
		t.Error("expected at least one configured brand")
	}
}
