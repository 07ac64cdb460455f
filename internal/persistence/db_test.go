package persistence

import (
	"math/rand"
	"path/filepath"
	"slices"
	"testing"

	"github.com/PixelGuys/Stella-Dei/internal/life"
	"github.com/PixelGuys/Stella-Dei/internal/planet"
	"github.com/PixelGuys/Stella-Dei/internal/sim"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.db")
	db, err := Open(path, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("opening snapshot db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := openTestDB(t)

	cfg := planet.SmallTestConfig()
	p := planet.Generate(cfg)
	s := sim.New(p, 1)

	if _, err := s.PlaceLifeform(life.KindRabbit, p.SurfacePosition(4), 0); err != nil {
		t.Fatal(err)
	}
	if _, err := s.PlaceLifeform(life.KindRabbit, p.SurfacePosition(9), 0); err != nil {
		t.Fatal(err)
	}
	gestating := s.Lifeforms()[1]
	gestating.State = life.State{Kind: life.StateGestating, GestationStart: 12}

	if db.HasSnapshot() {
		t.Fatal("fresh database reports a snapshot")
	}
	if err := db.Save(s); err != nil {
		t.Fatalf("saving snapshot: %v", err)
	}
	if !db.HasSnapshot() {
		t.Fatal("saved database reports no snapshot")
	}

	// Restore onto a planet regenerated from the same config.
	restored := planet.Generate(cfg)
	if err := db.LoadSurface(restored); err != nil {
		t.Fatalf("loading surface: %v", err)
	}
	if !slices.Equal(restored.Elevation(), p.Elevation()) {
		t.Fatal("elevation did not survive the round trip")
	}
	if !slices.Equal(restored.WaterElevation(), p.WaterElevation()) {
		t.Fatal("water did not survive the round trip")
	}
	if !slices.Equal(restored.Temperature(), p.Temperature()) {
		t.Fatal("temperature did not survive the round trip")
	}

	population, err := db.LoadLifeforms()
	if err != nil {
		t.Fatalf("loading lifeforms: %v", err)
	}
	if len(population) != 2 {
		t.Fatalf("restored %d lifeforms, want 2", len(population))
	}
	byID := map[string]*life.Lifeform{}
	for _, l := range population {
		byID[l.ID.String()] = l
	}
	got, ok := byID[gestating.ID.String()]
	if !ok {
		t.Fatal("gestating lifeform missing from restore")
	}
	if got.State.Kind != life.StateGestating || got.State.GestationStart != 12 {
		t.Fatalf("gestating state lost: %+v", got.State)
	}
	if got.Position != gestating.Position {
		t.Fatal("lifeform position lost")
	}
}

func TestMetaRoundTrip(t *testing.T) {
	db := openTestDB(t)

	if err := db.SaveMeta("game_time", "123.5"); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveMeta("tick", "77"); err != nil {
		t.Fatal(err)
	}

	if got := db.GameTime(); got != 123.5 {
		t.Fatalf("game_time = %f, want 123.5", got)
	}
	if got := db.Tick(); got != 77 {
		t.Fatalf("tick = %d, want 77", got)
	}

	// Absent keys fall back to zero.
	fresh := openTestDB(t)
	if fresh.GameTime() != 0 || fresh.Tick() != 0 {
		t.Fatal("missing metadata should read as zero")
	}
}
