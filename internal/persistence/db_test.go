package persistence

import (
	"path/filepath"
	"testing"

	"github.com/talgdenn/burgage/internal/business"
	"github.com/talgdenn/burgage/internal/econ"
	"github.com/talgdenn/burgage/internal/world"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestWorldRoundTrip(t *testing.T) {
	db := openTestDB(t)

	cfg := world.DefaultGenConfig()
	cfg.Seed = 12
	w := world.Generate(cfg)

	// Decorate a lot so the snapshot carries ownership and a building.
	lot := w.Sites[0].Lots[0]
	lot.Owner = "biz-1"
	lot.Building = &econ.Building{Kind: econ.KindClayPit, LaborCap: 6, Employees: 2, Wage: 4}

	if err := db.SaveWorld(w); err != nil {
		t.Fatalf("SaveWorld: %v", err)
	}
	if !db.HasWorldState() {
		t.Fatal("HasWorldState = false after save")
	}

	loaded, err := db.LoadWorld()
	if err != nil {
		t.Fatalf("LoadWorld: %v", err)
	}

	if len(loaded.Sites) != len(w.Sites) || loaded.LotCount() != w.LotCount() {
		t.Fatalf("shape mismatch: %d sites / %d lots", len(loaded.Sites), loaded.LotCount())
	}
	for i, orig := range w.Sites {
		got := loaded.Sites[i]
		if got.Name != orig.Name || got.Employees != orig.Employees || len(got.Neighbors) != len(orig.Neighbors) {
			t.Fatalf("site %d mismatch: %+v vs %+v", i, got, orig)
		}
	}

	gotLot := loaded.Lot(lot.ID)
	if gotLot.Owner != "biz-1" {
		t.Errorf("lot owner = %q, want biz-1", gotLot.Owner)
	}
	if gotLot.Building == nil || gotLot.Building.Kind != econ.KindClayPit || gotLot.Building.Employees != 2 {
		t.Errorf("building not restored: %+v", gotLot.Building)
	}
}

func TestBusinessRoundTrip(t *testing.T) {
	db := openTestDB(t)

	ai := business.NewAI("Kilnford Clayworks", business.StanceAggressive, 4200)
	ai.AddLot(3)
	ai.AddLot(9)
	ai.Ledger.Deposit(1, econ.ResourceClay, 25)
	ai.EnterPanic()

	player := business.NewPlayer("Player", 9000)

	if err := db.SaveBusinesses([]*business.Business{player, ai}); err != nil {
		t.Fatalf("SaveBusinesses: %v", err)
	}

	loaded, err := db.LoadBusinesses()
	if err != nil {
		t.Fatalf("LoadBusinesses: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d businesses, want 2", len(loaded))
	}
	if loaded[0].Kind != business.KindPlayer {
		t.Error("insertion order not preserved")
	}

	got := loaded[1]
	if got.ID != ai.ID || got.Stance != business.StanceAggressive {
		t.Errorf("identity mismatch: %+v", got)
	}
	if !got.InPanic || got.SavedBaseWage != business.PolicyFor(business.StanceAggressive).BaseWage {
		t.Errorf("panic state not restored: %+v", got)
	}
	if got.Ledger.Currency != 4200 || got.Ledger.TotalOf(econ.ResourceClay) != 25 {
		t.Errorf("ledger not restored: %+v", got.Ledger)
	}
	if len(got.Lots) != 2 || got.Lots[0] != 3 {
		t.Errorf("lots not restored: %v", got.Lots)
	}
}

func TestMetaRoundTrip(t *testing.T) {
	db := openTestDB(t)

	if err := db.SetMeta("last_tick", "480"); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}
	if err := db.SetMeta("last_tick", "484"); err != nil {
		t.Fatalf("SetMeta upsert: %v", err)
	}

	got, err := db.GetMeta("last_tick")
	if err != nil || got != "484" {
		t.Fatalf("GetMeta = %q, %v; want 484", got, err)
	}
}
