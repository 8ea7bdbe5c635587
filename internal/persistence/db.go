// Package persistence provides SQLite-based world state storage.
package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgdenn/burgage/internal/business"
	"github.com/talgdenn/burgage/internal/econ"
	"github.com/talgdenn/burgage/internal/engine"
	"github.com/talgdenn/burgage/internal/world"
)

// DB wraps a SQLite connection for world snapshots.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
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
	CREATE TABLE IF NOT EXISTS sites (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		color TEXT NOT NULL,
		rows INTEGER NOT NULL,
		cols INTEGER NOT NULL,
		employees INTEGER NOT NULL,
		neighbors_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS lots (
		id INTEGER PRIMARY KEY,
		site_id INTEGER NOT NULL,
		owner TEXT NOT NULL,
		resource INTEGER NOT NULL,
		has_resource INTEGER NOT NULL,
		building_json TEXT
	);

	CREATE TABLE IF NOT EXISTS businesses (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		kind INTEGER NOT NULL,
		stance INTEGER NOT NULL,
		in_panic INTEGER NOT NULL,
		saved_base_wage INTEGER NOT NULL,
		saved_labor_cap_pct REAL NOT NULL,
		policy_json TEXT NOT NULL,
		ledger_json TEXT NOT NULL,
		lots_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_lots_site ON lots(site_id);
	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// HasWorldState reports whether a snapshot exists to resume from.
func (db *DB) HasWorldState() bool {
	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM sites"); err != nil {
		return false
	}
	return count > 0
}

// SaveWorld writes the full world snapshot (full replace).
func (db *DB) SaveWorld(w *world.World) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sites"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM lots"); err != nil {
		return err
	}

	lotStmt, err := tx.Preparex(`INSERT INTO lots
		(id, site_id, owner, resource, has_resource, building_json)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer lotStmt.Close()

	for _, s := range w.Sites {
		neighborsJSON, _ := json.Marshal(s.Neighbors)
		_, err := tx.Exec(`INSERT INTO sites
			(id, name, color, rows, cols, employees, neighbors_json)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.ID, s.Name, s.Color, s.Rows, s.Cols, s.Employees, string(neighborsJSON),
		)
		if err != nil {
			return fmt.Errorf("insert site %d: %w", s.ID, err)
		}

		for _, lot := range s.Lots {
			var buildingJSON *string
			if lot.Building != nil {
				raw, _ := json.Marshal(lot.Building)
				str := string(raw)
				buildingJSON = &str
			}
			hasRes := 0
			if lot.HasResource {
				hasRes = 1
			}
			if _, err := lotStmt.Exec(lot.ID, lot.SiteID, lot.Owner, lot.Resource, hasRes, buildingJSON); err != nil {
				return fmt.Errorf("insert lot %d: %w", lot.ID, err)
			}
		}
	}

	return tx.Commit()
}

// LoadWorld reconstructs the world from the last snapshot.
func (db *DB) LoadWorld() (*world.World, error) {
	w := world.NewWorld()

	siteRows, err := db.conn.Queryx("SELECT id, name, color, rows, cols, employees, neighbors_json FROM sites ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer siteRows.Close()

	for siteRows.Next() {
		var (
			s             world.Site
			neighborsJSON string
		)
		if err := siteRows.Scan(&s.ID, &s.Name, &s.Color, &s.Rows, &s.Cols, &s.Employees, &neighborsJSON); err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		if err := json.Unmarshal([]byte(neighborsJSON), &s.Neighbors); err != nil {
			return nil, fmt.Errorf("site %d neighbors: %w", s.ID, err)
		}

		lotRows, err := db.conn.Queryx(
			"SELECT id, owner, resource, has_resource, building_json FROM lots WHERE site_id = ? ORDER BY id", s.ID)
		if err != nil {
			return nil, err
		}
		for lotRows.Next() {
			var (
				lot          world.Lot
				hasRes       int
				buildingJSON *string
			)
			if err := lotRows.Scan(&lot.ID, &lot.Owner, &lot.Resource, &hasRes, &buildingJSON); err != nil {
				lotRows.Close()
				return nil, fmt.Errorf("scan lot: %w", err)
			}
			lot.SiteID = s.ID
			lot.HasResource = hasRes != 0
			if buildingJSON != nil {
				var b econ.Building
				if err := json.Unmarshal([]byte(*buildingJSON), &b); err != nil {
					lotRows.Close()
					return nil, fmt.Errorf("lot %d building: %w", lot.ID, err)
				}
				lot.Building = &b
			}
			s.Lots = append(s.Lots, &lot)
		}
		lotRows.Close()

		site := s
		w.AddSite(&site)
	}

	return w, nil
}

// SaveBusinesses writes all businesses (full replace).
func (db *DB) SaveBusinesses(list []*business.Business) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM businesses"); err != nil {
		return err
	}

	for _, b := range list {
		policyJSON, _ := json.Marshal(b.Policy)
		ledgerJSON, _ := json.Marshal(b.Ledger)
		lotsJSON, _ := json.Marshal(b.Lots)

		inPanic := 0
		if b.InPanic {
			inPanic = 1
		}

		_, err := tx.Exec(`INSERT INTO businesses
			(id, name, kind, stance, in_panic, saved_base_wage, saved_labor_cap_pct,
			 policy_json, ledger_json, lots_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, b.Name, b.Kind, b.Stance, inPanic,
			b.SavedBaseWage, b.SavedLaborCapPercent,
			string(policyJSON), string(ledgerJSON), string(lotsJSON),
		)
		if err != nil {
			return fmt.Errorf("insert business %s: %w", b.Name, err)
		}
	}

	return tx.Commit()
}

// LoadBusinesses reads all businesses in insertion order.
func (db *DB) LoadBusinesses() ([]*business.Business, error) {
	rows, err := db.conn.Queryx(`SELECT id, name, kind, stance, in_panic,
		saved_base_wage, saved_labor_cap_pct, policy_json, ledger_json, lots_json
		FROM businesses ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*business.Business
	for rows.Next() {
		var (
			b          business.Business
			inPanic    int
			policyJSON string
			ledgerJSON string
			lotsJSON   string
		)
		if err := rows.Scan(&b.ID, &b.Name, &b.Kind, &b.Stance, &inPanic,
			&b.SavedBaseWage, &b.SavedLaborCapPercent,
			&policyJSON, &ledgerJSON, &lotsJSON); err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		b.InPanic = inPanic != 0
		if err := json.Unmarshal([]byte(policyJSON), &b.Policy); err != nil {
			return nil, fmt.Errorf("business %s policy: %w", b.Name, err)
		}
		if err := json.Unmarshal([]byte(ledgerJSON), &b.Ledger); err != nil {
			return nil, fmt.Errorf("business %s ledger: %w", b.Name, err)
		}
		if err := json.Unmarshal([]byte(lotsJSON), &b.Lots); err != nil {
			return nil, fmt.Errorf("business %s lots: %w", b.Name, err)
		}
		list = append(list, &b)
	}
	return list, nil
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		if _, err := tx.Exec(
			"INSERT INTO events (tick, description, category) VALUES (?, ?, ?)",
			e.Tick, e.Description, e.Category,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetMeta reads a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}

// SetMeta writes a metadata value.
func (db *DB) SetMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}
