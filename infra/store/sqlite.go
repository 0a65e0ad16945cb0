package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/helmside/boatclub/core/fleet"
	"github.com/helmside/boatclub/core/model"
)

// Config defines the SQLite store location.
type Config struct {
	Path string `json:"path"`
}

// SetDefaults applies the default database file.
func (c *Config) SetDefaults() {
	if c.Path == "" {
		c.Path = "boatclub.db"
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    admin INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS cruise_periods (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    start_ts INTEGER NOT NULL,
    end_ts INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS time_slots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    period_id INTEGER NOT NULL REFERENCES cruise_periods(id),
    date_ts INTEGER NOT NULL,
    start_ts INTEGER NOT NULL,
    end_ts INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS boats (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    personal_name TEXT NOT NULL,
    available INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS batteries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    boat_id INTEGER NOT NULL REFERENCES boats(id),
    type TEXT NOT NULL,
    mentor_id INTEGER NOT NULL REFERENCES users(id),
    usage_count INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS reservations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    boat_id INTEGER NOT NULL REFERENCES boats(id),
    user_id INTEGER NOT NULL REFERENCES users(id),
    time_slot_id INTEGER NOT NULL REFERENCES time_slots(id),
    battery_id INTEGER NOT NULL DEFAULT 0,
    previous_holder_id INTEGER NOT NULL DEFAULT 0,
    deleted INTEGER NOT NULL DEFAULT 0
);
`

// Store is the SQLite-backed persistence layer for the fleet aggregate and
// the booking entry points.
type Store struct {
	db *sql.DB
}

// New opens or creates the database at cfg.Path and ensures the schema.
func New(cfg Config) (*Store, error) {
	cfg.SetDefaults()
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error { return s.db.Close() }

// LoadFleet builds the in-memory arena from the database, with reservations
// in insertion order so index ordering is reproducible.
func (s *Store) LoadFleet(ctx context.Context) (*fleet.Fleet, error) {
	f := fleet.New()

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email, admin FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var u model.User
		var admin int
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &admin); err != nil {
			_ = rows.Close()
			return nil, err
		}
		u.Admin = admin != 0
		f.AddUser(u)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT id, start_ts, end_ts FROM cruise_periods ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var p model.CruisePeriod
		var start, end int64
		if err := rows.Scan(&p.ID, &start, &end); err != nil {
			_ = rows.Close()
			return nil, err
		}
		p.Start, p.End = time.Unix(start, 0), time.Unix(end, 0)
		if err := f.AddPeriod(p); err != nil {
			_ = rows.Close()
			return nil, err
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT id, personal_name, available FROM boats ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var b model.Boat
		var avail int
		if err := rows.Scan(&b.ID, &b.PersonalName, &avail); err != nil {
			_ = rows.Close()
			return nil, err
		}
		b.Available = avail != 0
		if err := f.AddBoat(b); err != nil {
			_ = rows.Close()
			return nil, err
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT id, boat_id, type, mentor_id, usage_count FROM batteries ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var b model.Battery
		if err := rows.Scan(&b.ID, &b.BoatID, &b.Type, &b.MentorID, &b.UsageCount); err != nil {
			_ = rows.Close()
			return nil, err
		}
		if err := f.AddBattery(b); err != nil {
			_ = rows.Close()
			return nil, err
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	const resQuery = `
SELECT r.id, r.boat_id, r.user_id, r.battery_id, r.previous_holder_id, r.deleted,
       t.id, t.period_id, t.date_ts, t.start_ts, t.end_ts
FROM reservations r JOIN time_slots t ON t.id = r.time_slot_id
ORDER BY r.id`
	rows, err = s.db.QueryContext(ctx, resQuery)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var r model.Reservation
		var deleted int
		var date, start, end int64
		if err := rows.Scan(&r.ID, &r.BoatID, &r.UserID, &r.BatteryID, &r.PreviousHolderID, &deleted,
			&r.Slot.ID, &r.Slot.PeriodID, &date, &start, &end); err != nil {
			_ = rows.Close()
			return nil, err
		}
		r.Deleted = deleted != 0
		r.Slot.Date, r.Slot.Start, r.Slot.End = time.Unix(date, 0), time.Unix(start, 0), time.Unix(end, 0)
		if err := f.AddReservation(r); err != nil {
			_ = rows.Close()
			return nil, err
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	return f, nil
}

// SaveSweep persists the changed reservations and the usage counters of
// every battery in one transaction.
func (s *Store) SaveSweep(ctx context.Context, f *fleet.Fleet, changed []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, id := range changed {
		r, ok := f.Reservation(id)
		if !ok {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE reservations SET battery_id = ?, previous_holder_id = ? WHERE id = ?`,
			r.BatteryID, r.PreviousHolderID, r.ID); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	for _, boatID := range f.BoatIDs() {
		for _, b := range f.Batteries(boatID) {
			if _, err := tx.ExecContext(ctx,
				`UPDATE batteries SET usage_count = ? WHERE id = ?`, b.UsageCount, b.ID); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
	}
	return tx.Commit()
}

// TimeSlot returns one slot by id.
func (s *Store) TimeSlot(ctx context.Context, id int64) (model.TimeSlot, error) {
	var slot model.TimeSlot
	var date, start, end int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, period_id, date_ts, start_ts, end_ts FROM time_slots WHERE id = ?`, id).
		Scan(&slot.ID, &slot.PeriodID, &date, &start, &end)
	if err == sql.ErrNoRows {
		return model.TimeSlot{}, fleet.NotFoundError{Kind: "time slot", ID: id}
	}
	if err != nil {
		return model.TimeSlot{}, err
	}
	slot.Date, slot.Start, slot.End = time.Unix(date, 0), time.Unix(start, 0), time.Unix(end, 0)
	return slot, nil
}

// InsertReservation creates the reservation row and fills in the new id.
func (s *Store) InsertReservation(ctx context.Context, r *model.Reservation) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reservations (boat_id, user_id, time_slot_id, battery_id, previous_holder_id, deleted)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.BoatID, r.UserID, r.Slot.ID, r.BatteryID, r.PreviousHolderID, boolToInt(r.Deleted))
	if err != nil {
		return err
	}
	r.ID, err = res.LastInsertId()
	return err
}

// UpdateReservation persists the mutable reservation fields.
func (s *Store) UpdateReservation(ctx context.Context, r model.Reservation) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE reservations SET battery_id = ?, previous_holder_id = ?, deleted = ? WHERE id = ?`,
		r.BatteryID, r.PreviousHolderID, boolToInt(r.Deleted), r.ID)
	return err
}

// InsertBattery creates the battery row and fills in the new id.
func (s *Store) InsertBattery(ctx context.Context, b *model.Battery) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO batteries (boat_id, type, mentor_id, usage_count) VALUES (?, ?, ?, ?)`,
		b.BoatID, b.Type, b.MentorID, b.UsageCount)
	if err != nil {
		return err
	}
	b.ID, err = res.LastInsertId()
	return err
}

// SetBoatAvailability flips the manual availability toggle.
func (s *Store) SetBoatAvailability(ctx context.Context, boatID int64, available bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE boats SET available = ? WHERE id = ?`, boolToInt(available), boatID)
	return err
}

// InsertUser creates a user row, for seeding and tests.
func (s *Store) InsertUser(ctx context.Context, u *model.User) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, email, admin) VALUES (?, ?, ?)`, u.Name, u.Email, boolToInt(u.Admin))
	if err != nil {
		return err
	}
	u.ID, err = res.LastInsertId()
	return err
}

// InsertBoat creates a boat row, for seeding and tests.
func (s *Store) InsertBoat(ctx context.Context, b *model.Boat) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO boats (personal_name, available) VALUES (?, ?)`, b.PersonalName, boolToInt(b.Available))
	if err != nil {
		return err
	}
	b.ID, err = res.LastInsertId()
	return err
}

// InsertPeriod creates a cruise period row, for seeding and tests.
func (s *Store) InsertPeriod(ctx context.Context, p *model.CruisePeriod) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO cruise_periods (start_ts, end_ts) VALUES (?, ?)`, p.Start.Unix(), p.End.Unix())
	if err != nil {
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

// InsertTimeSlot creates a time slot row, for seeding and tests.
func (s *Store) InsertTimeSlot(ctx context.Context, slot *model.TimeSlot) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO time_slots (period_id, date_ts, start_ts, end_ts) VALUES (?, ?, ?, ?)`,
		slot.PeriodID, slot.Date.Unix(), slot.Start.Unix(), slot.End.Unix())
	if err != nil {
		return err
	}
	slot.ID, err = res.LastInsertId()
	return err
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	return rows.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
