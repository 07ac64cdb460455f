// Package persistence provides SQLite-based snapshot storage for the
// planet simulation: the per-vertex surface fields, the lifeform
// population, and run metadata.
package persistence

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/PixelGuys/Stella-Dei/internal/geom"
	"github.com/PixelGuys/Stella-Dei/internal/life"
	"github.com/PixelGuys/Stella-Dei/internal/planet"
	"github.com/PixelGuys/Stella-Dei/internal/sim"
)

// DB wraps a SQLite connection holding simulation snapshots.
type DB struct {
	conn *sqlx.DB
	rng  seedSource
}

// seedSource hands out per-lifeform random stream seeds on restore; the
// original streams are not persisted.
type seedSource interface{ Int63() int64 }

// Open opens or creates a snapshot database at the given path.
func Open(path string, seeds seedSource) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn, rng: seeds}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS surface (
		vertex_id INTEGER PRIMARY KEY,
		elevation REAL NOT NULL,
		water REAL NOT NULL,
		temperature REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS lifeforms (
		id TEXT PRIMARY KEY,
		kind INTEGER NOT NULL,
		pos_x REAL NOT NULL,
		pos_y REAL NOT NULL,
		pos_z REAL NOT NULL,
		vel_x REAL NOT NULL,
		vel_y REAL NOT NULL,
		vel_z REAL NOT NULL,
		state INTEGER NOT NULL,
		target_vertex INTEGER NOT NULL,
		gestation_start REAL NOT NULL,
		born_at REAL NOT NULL,
		threshold REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// HasSnapshot reports whether a prior save exists.
func (db *DB) HasSnapshot() bool {
	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM meta"); err != nil {
		return false
	}
	return count > 0
}

// Save writes a full snapshot of the simulation, replacing any prior one.
func (db *DB) Save(s *sim.Simulation) error {
	st := s.Snapshot()
	slog.Info("saving snapshot", "tick", st.Tick, "population", st.Population)

	if err := db.saveSurface(s.Planet()); err != nil {
		return fmt.Errorf("save surface: %w", err)
	}
	if err := db.saveLifeforms(s.Lifeforms()); err != nil {
		return fmt.Errorf("save lifeforms: %w", err)
	}
	if err := db.SaveMeta("game_time", strconv.FormatFloat(float64(st.GameTime), 'g', -1, 32)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	if err := db.SaveMeta("tick", strconv.FormatUint(st.Tick, 10)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	return nil
}

func (db *DB) saveSurface(p *planet.Planet) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM surface"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(
		"INSERT INTO surface (vertex_id, elevation, water, temperature) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	elevation := p.Elevation()
	water := p.WaterElevation()
	temperature := p.Temperature()
	for i := 0; i < p.NumVertices(); i++ {
		if _, err := stmt.Exec(i, elevation[i], water[i], temperature[i]); err != nil {
			return fmt.Errorf("insert vertex %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (db *DB) saveLifeforms(population []*life.Lifeform) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM lifeforms"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO lifeforms
		(id, kind, pos_x, pos_y, pos_z, vel_x, vel_y, vel_z,
		 state, target_vertex, gestation_start, born_at, threshold)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, l := range population {
		_, err := stmt.Exec(
			l.ID.String(), l.Kind,
			l.Position.X, l.Position.Y, l.Position.Z,
			l.Velocity.X, l.Velocity.Y, l.Velocity.Z,
			l.State.Kind, l.State.TargetVertex, l.State.GestationStart,
			l.BornAt, l.Threshold,
		)
		if err != nil {
			return fmt.Errorf("insert lifeform %s: %w", l.ID, err)
		}
	}

	return tx.Commit()
}

// LoadSurface applies a saved snapshot's surface fields onto a freshly
// generated planet. The mesh itself is deterministic from the config, so
// only the scalar fields are stored.
func (db *DB) LoadSurface(p *planet.Planet) error {
	rows := []struct {
		VertexID    int     `db:"vertex_id"`
		Elevation   float32 `db:"elevation"`
		Water       float32 `db:"water"`
		Temperature float32 `db:"temperature"`
	}{}
	if err := db.conn.Select(&rows, "SELECT vertex_id, elevation, water, temperature FROM surface"); err != nil {
		return fmt.Errorf("load surface: %w", err)
	}
	if len(rows) != p.NumVertices() {
		return fmt.Errorf("snapshot has %d vertices, planet has %d", len(rows), p.NumVertices())
	}

	for _, r := range rows {
		id := uint32(r.VertexID)
		p.SetElevation(id, r.Elevation)
		p.SetWaterElevation(id, r.Water)
		p.SetTemperature(id, r.Temperature)
	}
	return nil
}

// LoadLifeforms rebuilds the population from a snapshot. Random streams
// are reseeded; everything else restores exactly.
func (db *DB) LoadLifeforms() ([]*life.Lifeform, error) {
	rows := []struct {
		ID             string  `db:"id"`
		Kind           uint8   `db:"kind"`
		PosX           float32 `db:"pos_x"`
		PosY           float32 `db:"pos_y"`
		PosZ           float32 `db:"pos_z"`
		VelX           float32 `db:"vel_x"`
		VelY           float32 `db:"vel_y"`
		VelZ           float32 `db:"vel_z"`
		State          uint8   `db:"state"`
		TargetVertex   uint32  `db:"target_vertex"`
		GestationStart float32 `db:"gestation_start"`
		BornAt         float32 `db:"born_at"`
		Threshold      float32 `db:"threshold"`
	}{}
	if err := db.conn.Select(&rows,
		`SELECT id, kind, pos_x, pos_y, pos_z, vel_x, vel_y, vel_z,
		        state, target_vertex, gestation_start, born_at, threshold
		 FROM lifeforms`); err != nil {
		return nil, fmt.Errorf("load lifeforms: %w", err)
	}

	population := make([]*life.Lifeform, 0, len(rows))
	for _, r := range rows {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, fmt.Errorf("lifeform id %q: %w", r.ID, err)
		}

		l := life.New(life.Kind(r.Kind), geom.V3(r.PosX, r.PosY, r.PosZ), r.BornAt, db.rng.Int63())
		l.ID = id
		l.Velocity = geom.V3(r.VelX, r.VelY, r.VelZ)
		l.State = life.State{
			Kind:           life.StateKind(r.State),
			TargetVertex:   r.TargetVertex,
			GestationStart: r.GestationStart,
		}
		l.Threshold = r.Threshold
		population = append(population, l)
	}
	return population, nil
}

// SaveMeta stores a key-value pair of run metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}

// GameTime reads the saved game clock, 0 if absent.
func (db *DB) GameTime() float32 {
	raw, err := db.GetMeta("game_time")
	if err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0
	}
	return float32(v)
}

// Tick reads the saved tick counter, 0 if absent.
func (db *DB) Tick() uint64 {
	raw, err := db.GetMeta("tick")
	if err != nil {
		return 0
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
