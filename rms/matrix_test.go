package rms_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/caloops971/ChromeRMS2025/rms"
	"github.com/caloops971/ChromeRMS2025/store/memory"
)

// =============================================================================
// TEST HELPERS
// =============================================================================
// d and the fixture constructors below are shared by the other _test.go
// files in this package.

func d(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func newTestMatrix() (*rms.PriceMatrix, *memory.Store) {
	store := memory.New()
	return rms.NewPriceMatrix(store), store
}

func rateCodeStrings(codes []rms.RateCode) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}

// =============================================================================
// ROUND-TRIP TESTS
// =============================================================================

func TestMatrix_SetGet_RoundTrip(t *testing.T) {
	// GIVEN: An empty matrix
	// WHEN: Setting a price and reading it back
	// THEN: The same price is returned

	m, _ := newTestMatrix()
	if err := m.Set("High Season", "AFFA1", "ECAR", d(45)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	price, ok := m.Get("High Season", "AFFA1", "ECAR")
	if !ok {
		t.Fatal("expected price to be present")
	}
	if !price.Equal(d(45)) {
		t.Errorf("expected 45, got %v", price)
	}
}

func TestMatrix_Set_RejectsNonPositivePrice(t *testing.T) {
	// GIVEN: An empty matrix
	// WHEN: Setting a zero or negative price
	// THEN: The call fails; delete is the representation of "no price"

	m, _ := newTestMatrix()

	for _, price := range []decimal.Decimal{d(0), d(-5)} {
		err := m.Set("High Season", "AFFA1", "ECAR", price)
		if !errors.Is(err, rms.ErrInvalidPrice) {
			t.Errorf("price %v: expected ErrInvalidPrice, got %v", price, err)
		}
	}
	if _, ok := m.Get("High Season", "AFFA1", "ECAR"); ok {
		t.Error("rejected set must not store anything")
	}
}

func TestMatrix_Delete_PrunesEmptyBranches(t *testing.T) {
	// GIVEN: A matrix with a single price under AFFA1
	// WHEN: Deleting it
	// THEN: The rate-code and season branches are pruned and AFFA1 no
	//       longer appears in AllRateCodes

	m, _ := newTestMatrix()
	if err := m.Set("High Season", "AFFA1", "ECAR", d(45)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.Delete("High Season", "AFFA1", "ECAR")

	if _, ok := m.Get("High Season", "AFFA1", "ECAR"); ok {
		t.Error("expected price to be absent after delete")
	}
	if codes := m.AllRateCodes(); len(codes) != 0 {
		t.Errorf("expected no rate codes after prune, got %v", codes)
	}
	if n := m.TotalPriceCount(); n != 0 {
		t.Errorf("expected 0 prices, got %d", n)
	}
}

func TestMatrix_Delete_KeepsSiblings(t *testing.T) {
	// GIVEN: Two vehicles priced under the same season and rate code
	// WHEN: Deleting one
	// THEN: The sibling survives and the branch is not pruned

	m, _ := newTestMatrix()
	m.Set("High Season", "AFFA1", "ECAR", d(45))
	m.Set("High Season", "AFFA1", "CDMR", d(57))

	m.Delete("High Season", "AFFA1", "ECAR")

	if _, ok := m.Get("High Season", "AFFA1", "CDMR"); !ok {
		t.Error("sibling price must survive the delete")
	}
	if got := rateCodeStrings(m.AllRateCodes()); !reflect.DeepEqual(got, []string{"AFFA1"}) {
		t.Errorf("expected [AFFA1], got %v", got)
	}
}

// =============================================================================
// RATE CODE ENUMERATION
// =============================================================================

func TestMatrix_AllRateCodes_IncludesConfiguredCodes(t *testing.T) {
	// GIVEN: An empty matrix with a rate configuration declaring AFFA7
	//        and AFFA1
	// WHEN: Enumerating rate codes
	// THEN: Both declared codes appear, sorted alphabetically

	m, _ := newTestMatrix()
	m.SetRateConfig(rms.RateConfig{
		PickupLocations: []rms.PickupLocation{
			{Brand: "HERTZ", LocationName: "PTP AIRPORT", Rates: []rms.RatePlan{
				{RateCode: "AFFA7", Type: "Fixed", PlanCode: "W"},
				{RateCode: "AFFA1", Type: "Fixed", PlanCode: "D"},
			}},
		},
	})

	got := rateCodeStrings(m.AllRateCodes())
	if !reflect.DeepEqual(got, []string{"AFFA1", "AFFA7"}) {
		t.Errorf("expected [AFFA1 AFFA7], got %v", got)
	}
}

func TestMatrix_AllRateCodes_UnionOfMatrixAndConfig(t *testing.T) {
	// GIVEN: A matrix holding a rate code not in the configuration
	// WHEN: Enumerating rate codes
	// THEN: The union is returned, sorted

	m, _ := newTestMatrix()
	m.SetRateConfig(rms.RateConfig{
		PickupLocations: []rms.PickupLocation{
			{Brand: "HERTZ", Rates: []rms.RatePlan{{RateCode: "AFFA1"}}},
		},
	})
	m.Set("Low Season", "WALKIN", "ECAR", d(30))

	got := rateCodeStrings(m.AllRateCodes())
	if !reflect.DeepEqual(got, []string{"AFFA1", "WALKIN"}) {
		t.Errorf("expected [AFFA1 WALKIN], got %v", got)
	}
}

// =============================================================================
// PERSISTENCE
// =============================================================================

func TestMatrix_Flush_PersistsWholeTable(t *testing.T) {
	// GIVEN: A matrix with prices
	// WHEN: Flushing
	// THEN: The store holds the full document under the rates key

	m, store := newTestMatrix()
	m.Set("Low Season", "AFFA1", "ECAR", d(30))

	if err := m.Flush(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.Raw(rms.KeyRates); !ok {
		t.Error("expected rates document in store after flush")
	}
}

func TestMatrix_Flush_WrapsStoreFailure(t *testing.T) {
	// GIVEN: A store that rejects writes
	// WHEN: Flushing
	// THEN: The error reports a persistence failure

	m, store := newTestMatrix()
	m.Set("Low Season", "AFFA1", "ECAR", d(30))
	store.FailWith(errors.New("disk full"))

	err := m.Flush(context.Background())
	if !errors.Is(err, rms.ErrPersistenceFailure) {
		t.Errorf("expected ErrPersistenceFailure, got %v", err)
	}
}
