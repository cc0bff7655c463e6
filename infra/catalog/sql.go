// Package catalog stores vehicle catalogs in SQL databases. SQLite is served by
// modernc.org/sqlite and PostgreSQL by the pgx stdlib driver.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/kilianp07/agvfleet/core/model"
)

// Dialect selects the driver and placeholder style.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

func (d Dialect) driver() (string, error) {
	switch d {
	case SQLite:
		return "sqlite", nil
	case Postgres:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported sql dialect %q", d)
	}
}

// bind rewrites ? placeholders for the dialect.
func (d Dialect) bind(q string) string {
	if d != Postgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS vehicle_types (
        code TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        max_payload DOUBLE PRECISION NOT NULL,
        max_speed DOUBLE PRECISION NOT NULL,
        acceleration DOUBLE PRECISION NOT NULL,
        deceleration DOUBLE PRECISION NOT NULL,
        turn_time DOUBLE PRECISION NOT NULL,
        battery_capacity DOUBLE PRECISION NOT NULL,
        nominal_amp_draw DOUBLE PRECISION NOT NULL,
        charge_rate DOUBLE PRECISION NOT NULL,
        mast_lift_time_per_meter DOUBLE PRECISION NOT NULL DEFAULT 0,
        mast_amp_draw_per_meter DOUBLE PRECISION NOT NULL DEFAULT 0
    )`,
	`CREATE TABLE IF NOT EXISTS accessories (
        vehicle_code TEXT NOT NULL REFERENCES vehicle_types(code) ON DELETE CASCADE,
        position INTEGER NOT NULL,
        name TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        base_time DOUBLE PRECISION NOT NULL,
        amp_draw DOUBLE PRECISION NOT NULL,
        PRIMARY KEY(vehicle_code, position)
    )`,
}

// SQLSource reads the catalog from the vehicle_types and accessories tables.
type SQLSource struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQL opens dsn with the driver of dialect and checks the connection.
func OpenSQL(ctx context.Context, dialect Dialect, dsn string) (*SQLSource, error) {
	driver, err := dialect.driver()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s catalog: %w", dialect, err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open %s catalog: verify connection: %w", dialect, err)
	}
	return NewSQLSource(db, dialect), nil
}

// NewSQLSource wraps an existing database handle.
func NewSQLSource(db *sql.DB, dialect Dialect) *SQLSource {
	return &SQLSource{db: db, dialect: dialect}
}

// EnsureSchema creates the catalog tables when missing.
func (s *SQLSource) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure catalog schema: %w", err)
		}
	}
	return nil
}

// Save upserts every vehicle of cat and replaces its accessories.
func (s *SQLSource) Save(ctx context.Context, cat model.Catalog) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save catalog: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	upsert := s.dialect.bind(`INSERT INTO vehicle_types (code, name, description, max_payload, max_speed,
            acceleration, deceleration, turn_time, battery_capacity, nominal_amp_draw, charge_rate,
            mast_lift_time_per_meter, mast_amp_draw_per_meter)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(code) DO UPDATE SET
            name = excluded.name,
            description = excluded.description,
            max_payload = excluded.max_payload,
            max_speed = excluded.max_speed,
            acceleration = excluded.acceleration,
            deceleration = excluded.deceleration,
            turn_time = excluded.turn_time,
            battery_capacity = excluded.battery_capacity,
            nominal_amp_draw = excluded.nominal_amp_draw,
            charge_rate = excluded.charge_rate,
            mast_lift_time_per_meter = excluded.mast_lift_time_per_meter,
            mast_amp_draw_per_meter = excluded.mast_amp_draw_per_meter`)
	clearAcc := s.dialect.bind(`DELETE FROM accessories WHERE vehicle_code = ?`)
	insertAcc := s.dialect.bind(`INSERT INTO accessories (vehicle_code, position, name, description, base_time, amp_draw)
        VALUES (?, ?, ?, ?, ?, ?)`)

	for _, code := range cat.Codes() {
		v := cat[code]
		if _, err = tx.ExecContext(ctx, upsert, code, v.Name, v.Description, v.MaxPayload, v.MaxSpeed,
			v.Acceleration, v.Deceleration, v.TurnTime, v.BatteryCapacity, v.NominalAmpDraw, v.ChargeRate,
			v.MastLiftTimePerMeter, v.MastAmpDrawPerMeter); err != nil {
			return fmt.Errorf("save catalog: vehicle %s: %w", code, err)
		}
		if _, err = tx.ExecContext(ctx, clearAcc, code); err != nil {
			return fmt.Errorf("save catalog: clear accessories of %s: %w", code, err)
		}
		for i, acc := range v.Accessories {
			if _, err = tx.ExecContext(ctx, insertAcc, code, i, acc.Name, acc.Description, acc.BaseTime, acc.AmpDraw); err != nil {
				return fmt.Errorf("save catalog: accessory %s/%s: %w", code, acc.Name, err)
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("save catalog: commit: %w", err)
	}
	return nil
}

// Load reads the whole catalog.
func (s *SQLSource) Load(ctx context.Context) (model.Catalog, error) {
	if s.db == nil {
		return nil, errors.New("sql catalog: db is nil")
	}
	rows, err := s.db.QueryContext(ctx, `SELECT code, name, description, max_payload, max_speed,
            acceleration, deceleration, turn_time, battery_capacity, nominal_amp_draw, charge_rate,
            mast_lift_time_per_meter, mast_amp_draw_per_meter
        FROM vehicle_types ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("load catalog: query vehicle_types: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cat := model.Catalog{}
	for rows.Next() {
		var v model.VehicleType
		if err := rows.Scan(&v.Code, &v.Name, &v.Description, &v.MaxPayload, &v.MaxSpeed,
			&v.Acceleration, &v.Deceleration, &v.TurnTime, &v.BatteryCapacity, &v.NominalAmpDraw,
			&v.ChargeRate, &v.MastLiftTimePerMeter, &v.MastAmpDrawPerMeter); err != nil {
			return nil, fmt.Errorf("load catalog: scan vehicle: %w", err)
		}
		cat[v.Code] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load catalog: vehicle rows: %w", err)
	}

	accRows, err := s.db.QueryContext(ctx, `SELECT vehicle_code, name, description, base_time, amp_draw
        FROM accessories ORDER BY vehicle_code, position`)
	if err != nil {
		return nil, fmt.Errorf("load catalog: query accessories: %w", err)
	}
	defer func() { _ = accRows.Close() }()
	for accRows.Next() {
		var code string
		var acc model.Accessory
		if err := accRows.Scan(&code, &acc.Name, &acc.Description, &acc.BaseTime, &acc.AmpDraw); err != nil {
			return nil, fmt.Errorf("load catalog: scan accessory: %w", err)
		}
		v, ok := cat[code]
		if !ok {
			continue
		}
		v.Accessories = append(v.Accessories, acc)
		cat[code] = v
	}
	if err := accRows.Err(); err != nil {
		return nil, fmt.Errorf("load catalog: accessory rows: %w", err)
	}
	return cat, nil
}

// Close closes the underlying database.
func (s *SQLSource) Close() error { return s.db.Close() }
