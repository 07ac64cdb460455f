// Command planetsim runs the Stella Dei planet simulation headless:
// climate, hydrology, and lifeforms ticking on a generated icosphere world.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/PixelGuys/Stella-Dei/internal/config"
	"github.com/PixelGuys/Stella-Dei/internal/life"
	"github.com/PixelGuys/Stella-Dei/internal/persistence"
	"github.com/PixelGuys/Stella-Dei/internal/planet"
	"github.com/PixelGuys/Stella-Dei/internal/sim"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("Stella Dei — planet simulation",
		"subdivision_depth", cfg.Planet.SubdivisionDepth,
		"radius_km", cfg.Planet.Radius,
		"seed", cfg.Planet.Seed,
	)

	// ── Snapshot store ────────────────────────────────────────────────
	if dir := filepath.Dir(cfg.Snapshot.Path); dir != "." {
		os.MkdirAll(dir, 0o755)
	}
	seeds := rand.New(rand.NewSource(cfg.Simulation.LifeSeed))
	db, err := persistence.Open(cfg.Snapshot.Path, seeds)
	if err != nil {
		slog.Error("failed to open snapshot database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("snapshot database opened", "path", cfg.Snapshot.Path)

	// ── Planet (always regenerated — deterministic from seed) ─────────
	slog.Info("generating planet...")
	p := planet.Generate(planet.GenConfig{
		SubdivisionDepth: cfg.Planet.SubdivisionDepth,
		Radius:           cfg.Planet.Radius,
		Seed:             cfg.Planet.Seed,
		SeaLevel:         cfg.Planet.SeaLevel,
		MaxElevation:     cfg.Planet.MaxElevation,
	})
	slog.Info("planet ready",
		"vertices", p.NumVertices(),
		"mean_spacing_km", p.MeanSpacing(),
	)

	s := sim.New(p, cfg.Simulation.LifeSeed)

	// ── Load or seed world state ──────────────────────────────────────
	if db.HasSnapshot() {
		slog.Info("found snapshot, restoring...")
		if err := db.LoadSurface(p); err != nil {
			slog.Error("failed to restore surface", "error", err)
			os.Exit(1)
		}
		population, err := db.LoadLifeforms()
		if err != nil {
			slog.Error("failed to restore lifeforms", "error", err)
			os.Exit(1)
		}
		s.Restore(population, db.GameTime(), db.Tick())
		slog.Info("snapshot restored",
			"tick", db.Tick(),
			"game_time", db.GameTime(),
			"lifeforms", len(population),
		)
	} else {
		for i := 0; i < cfg.Simulation.InitialLifeforms; i++ {
			vertex := uint32(seeds.Intn(p.NumVertices()))
			if p.WaterElevation()[vertex] > 0 {
				continue // no point drowning a newborn
			}
			if _, err := s.PlaceLifeform(life.KindRabbit, p.SurfacePosition(vertex), 0); err != nil {
				slog.Warn("initial placement failed", "error", err)
			}
		}
		slog.Info("fresh world seeded", "lifeforms", len(s.Lifeforms()))
	}

	// ── Loop ──────────────────────────────────────────────────────────
	loop := &sim.Loop{
		Sim:           s,
		Interval:      cfg.Simulation.TickInterval,
		Speed:         cfg.Simulation.Speed,
		SolarConstant: cfg.Simulation.SolarConstant,
		Conductivity:  cfg.Simulation.Conductivity,
		TimeScale:     cfg.Simulation.TimeScale,
		DayLength:     cfg.Simulation.DayLength,
	}
	if cfg.Snapshot.EveryTicks > 0 {
		loop.OnTick = func(tick uint64) {
			if tick%cfg.Snapshot.EveryTicks == 0 {
				if err := db.Save(s); err != nil {
					slog.Error("periodic save failed", "error", err)
				}
			}
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		loop.Stop()
	}()

	fmt.Printf("Stella Dei is alive: %s vertices, %s lifeforms.\n",
		humanize.Comma(int64(p.NumVertices())),
		humanize.Comma(int64(len(s.Lifeforms()))))
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	loop.Run()

	// Final save on shutdown.
	slog.Info("final save...")
	if err := db.Save(s); err != nil {
		slog.Error("final save failed", "error", err)
	}

	st := s.Snapshot()
	fmt.Printf("Simulation stopped at tick %s: %s lifeforms, mean surface %.1f K.\n",
		humanize.Comma(int64(st.Tick)),
		humanize.Comma(int64(st.Population)),
		st.MeanTemperature)
}
