package recorder

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"HotelSim/internal/model"
)

// SQLiteRecorder persists rounds and the decision sheets behind them to SQLite.
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

	// WAL mode so dashboards can read while rounds are written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logrus.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rounds (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at           INTEGER NOT NULL,
			team                  TEXT NOT NULL,
			generation            INTEGER NOT NULL DEFAULT 0,
			round                 INTEGER NOT NULL,
			season                TEXT NOT NULL,
			revenue               REAL,
			costs                 REAL,
			profit                REAL,
			occupancy             REAL,
			customer_satisfaction REAL,
			employee_satisfaction REAL,
			market_share          REAL,
			share_price           REAL,
			cash                  REAL,
			rooms                 INTEGER,
			room_condition        REAL,
			staff_competence      REAL,
			nights_sold           REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_team ON rounds(team, id)`,

		`CREATE TABLE IF NOT EXISTS decisions (
			id                     INTEGER PRIMARY KEY AUTOINCREMENT,
			round_id               INTEGER NOT NULL REFERENCES rounds(id),
			walk_in_rate           REAL,
			advance_1_rooms        INTEGER,
			advance_2_rooms        INTEGER,
			permanent_staff_change INTEGER,
			temporary_staff        INTEGER,
			staff_salary           REAL,
			training_budget        REAL,
			new_room_batches       INTEGER,
			renovation_budget      REAL,
			maintenance_budget     REAL,
			marketing_budget       REAL,
			cost_saving_operations REAL,
			cost_saving_admin      REAL,
			loan_change            REAL,
			credit_term            INTEGER,
			dividend_payout        REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_round ON decisions(round_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}

	// Databases created before resets were tracked lack the generation column.
	has, err := r.hasColumn("rounds", "generation")
	if err != nil {
		return err
	}
	if !has {
		if _, err := r.db.Exec(`ALTER TABLE rounds ADD COLUMN generation INTEGER NOT NULL DEFAULT 0`); err != nil {
			return fmt.Errorf("add generation column: %w", err)
		}
		logrus.Info("sqlite recorder: added rounds.generation")
	}
	if _, err := r.db.Exec(`CREATE INDEX IF NOT EXISTS idx_rounds_game ON rounds(team, generation, id)`); err != nil {
		return fmt.Errorf("create game index: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) hasColumn(table, column string) (bool, error) {
	rows, err := r.db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return false, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, fmt.Errorf("scan table info: %w", err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// RecordRound writes the round and its decision sheet in one transaction.
func (r *SQLiteRecorder) RecordRound(snap *RoundSnapshot) error {
	if snap == nil || snap.Outcome == nil {
		return errors.New("record round: missing outcome")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	st := snap.Outcome.State
	res, err := tx.Exec(`INSERT INTO rounds
		(recorded_at, team, generation, round, season, revenue, costs, profit, occupancy,
		 customer_satisfaction, employee_satisfaction, market_share, share_price,
		 cash, rooms, room_condition, staff_competence, nights_sold)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), snap.Team, snap.Generation, snap.Calendar.Round, string(snap.Calendar.Season),
		st.TotalRevenue, st.TotalCosts, st.NetProfit, st.OccupancyRate,
		st.CustomerSatisfaction, st.EmployeeSatisfaction, st.MarketShare, st.SharePrice,
		st.Cash, st.Rooms, st.RoomCondition, st.StaffCompetence,
		snap.Outcome.Breakdown.NightsSold,
	)
	if err != nil {
		return fmt.Errorf("insert round: %w", err)
	}
	roundID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("round id: %w", err)
	}

	d := snap.Decisions
	_, err = tx.Exec(`INSERT INTO decisions
		(round_id, walk_in_rate, advance_1_rooms, advance_2_rooms, permanent_staff_change,
		 temporary_staff, staff_salary, training_budget, new_room_batches, renovation_budget,
		 maintenance_budget, marketing_budget, cost_saving_operations, cost_saving_admin,
		 loan_change, credit_term, dividend_payout)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		roundID, d.WalkInRate, d.Advance1Rooms, d.Advance2Rooms, d.PermanentStaffChange,
		d.TemporaryStaff, d.StaffSalary, d.TrainingBudget, d.NewRoomBatches, d.RenovationBudget,
		d.MaintenanceBudget, d.MarketingBudget, d.CostSavingOperations, d.CostSavingAdmin,
		d.LoanChange, d.CreditTerm, d.DividendPayout,
	)
	if err != nil {
		return fmt.Errorf("insert decisions: %w", err)
	}

	return tx.Commit()
}

// ListRounds returns the team's recorded rounds across all generations in the
// order they were played.
func (r *SQLiteRecorder) ListRounds(team string) ([]RoundRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT
		team, generation, round, season, revenue, costs, profit, occupancy,
		customer_satisfaction, employee_satisfaction, market_share, share_price,
		cash, rooms, room_condition, staff_competence, nights_sold, recorded_at
		FROM rounds WHERE team = ? ORDER BY id`, team)
	if err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	defer rows.Close()

	var out []RoundRow
	for rows.Next() {
		var row RoundRow
		var season string
		if err := rows.Scan(
			&row.Team, &row.Generation, &row.Round, &season, &row.Revenue, &row.Costs, &row.Profit, &row.Occupancy,
			&row.CustomerSatisfaction, &row.EmployeeSatisfaction, &row.MarketShare, &row.SharePrice,
			&row.Cash, &row.Rooms, &row.RoomCondition, &row.StaffCompetence, &row.NightsSold,
			&row.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		row.Season = model.Season(season)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	logrus.Info("closing sqlite recorder")
	return r.db.Close()
}
