package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the daemon writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stake_events (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			staked_units    INTEGER,
			quote_out_units INTEGER,
			output_decimals INTEGER,
			mint_units      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stake_ts ON stake_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS claim_events (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			wallet        TEXT,
			kind          TEXT,
			requested_usd REAL,
			paid_usd      REAL,
			user_units    INTEGER,
			fee_units     INTEGER,
			fee_recipient TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_claim_ts ON claim_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS entitlement_snapshots (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			wallet          TEXT,
			held_units      INTEGER,
			entitlement_usd REAL,
			per_day_usd     REAL,
			days            INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entitlement_ts ON entitlement_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS reserve_checks (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			balance_units INTEGER,
			balance_usd   REAL,
			low           INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reserve_ts ON reserve_checks(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordStake(evt *StakeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO stake_events
		(timestamp, staked_units, quote_out_units, output_decimals, mint_units)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), evt.StakedUnits, evt.QuoteOutUnits, evt.OutputDecimals, evt.MintUnits,
	)
	return err
}

func (r *SQLiteRecorder) RecordClaim(evt *ClaimEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO claim_events
		(timestamp, wallet, kind, requested_usd, paid_usd, user_units, fee_units, fee_recipient)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Wallet, evt.Kind, evt.RequestedUSD, evt.PaidUSD,
		evt.UserUnits, evt.FeeUnits, evt.FeeRecipient,
	)
	return err
}

func (r *SQLiteRecorder) RecordEntitlement(snap *EntitlementSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO entitlement_snapshots
		(timestamp, wallet, held_units, entitlement_usd, per_day_usd, days)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), snap.Wallet, snap.HeldUnits,
		snap.EntitlementUSD, snap.PerDayUSD, snap.Days,
	)
	return err
}

func (r *SQLiteRecorder) RecordReserveCheck(evt *ReserveCheck) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	low := 0
	if evt.Low {
		low = 1
	}
	_, err := r.db.Exec(`INSERT INTO reserve_checks
		(timestamp, balance_units, balance_usd, low)
		VALUES (?,?,?,?)`,
		time.Now().Unix(), evt.BalanceUnits, evt.BalanceUSD, low,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
