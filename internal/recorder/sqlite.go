package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"DrawSentinel/internal/logging"
	"DrawSentinel/internal/model"
)

const dateLayout = "2006-01-02"

// SQLiteRecorder persists history and results to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so the web server can read while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logging.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS draws (
			draw_date  TEXT PRIMARY KEY,
			n1         INTEGER NOT NULL,
			n2         INTEGER NOT NULL,
			n3         INTEGER NOT NULL,
			n4         INTEGER NOT NULL,
			n5         INTEGER NOT NULL,
			b1         INTEGER NOT NULL,
			b2         INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS predictions (
			id           TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			based_on     TEXT NOT NULL,
			history_size INTEGER,
			main         TEXT NOT NULL,
			bonus        TEXT NOT NULL,
			weighted     INTEGER,
			skipped      INTEGER,
			evaluated_on TEXT,
			main_hits    INTEGER,
			bonus_hits   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_ts ON predictions(timestamp)`,

		`CREATE TABLE IF NOT EXISTS backtest_runs (
			id                 TEXT PRIMARY KEY,
			timestamp          INTEGER NOT NULL,
			window_size        INTEGER,
			tests              INTEGER,
			baseline_main      REAL,
			baseline_bonus     REAL,
			ensemble_avg_main  REAL,
			ensemble_avg_bonus REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_backtest_ts ON backtest_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS backtest_rows (
			run_id     TEXT NOT NULL,
			algorithm  TEXT NOT NULL,
			family     TEXT,
			tests      INTEGER,
			main_hits  INTEGER,
			bonus_hits INTEGER,
			avg_main   REAL,
			avg_bonus  REAL,
			best_main  INTEGER,
			lift       REAL,
			PRIMARY KEY (run_id, algorithm)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// SaveDraws upserts draws keyed by date.
func (r *SQLiteRecorder) SaveDraws(draws []model.Draw) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO draws
		(draw_date, n1, n2, n3, n4, n5, b1, b2, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?)
		ON CONFLICT(draw_date) DO UPDATE SET
			n1=excluded.n1, n2=excluded.n2, n3=excluded.n3, n4=excluded.n4, n5=excluded.n5,
			b1=excluded.b1, b2=excluded.b2, updated_at=excluded.updated_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, d := range draws {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("save draw %s: %w", d.Date.Format(dateLayout), err)
		}
		d = d.Normalize()
		if _, err := stmt.Exec(d.Date.Format(dateLayout),
			d.Main[0], d.Main[1], d.Main[2], d.Main[3], d.Main[4],
			d.Bonus[0], d.Bonus[1], now); err != nil {
			return fmt.Errorf("save draw %s: %w", d.Date.Format(dateLayout), err)
		}
	}
	return tx.Commit()
}

// LoadDraws returns every cached draw oldest first.
func (r *SQLiteRecorder) LoadDraws() ([]model.Draw, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT draw_date, n1, n2, n3, n4, n5, b1, b2 FROM draws ORDER BY draw_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var draws []model.Draw
	for rows.Next() {
		var date string
		main := make([]int, 5)
		bonus := make([]int, 2)
		if err := rows.Scan(&date, &main[0], &main[1], &main[2], &main[3], &main[4], &bonus[0], &bonus[1]); err != nil {
			return nil, err
		}
		t, err := time.Parse(dateLayout, date)
		if err != nil {
			logging.Warnf("cached draw has bad date %q: %v", date, err)
			continue
		}
		draws = append(draws, model.Draw{Date: t, Main: main, Bonus: bonus})
	}
	return draws, rows.Err()
}

func (r *SQLiteRecorder) RecordPrediction(p *model.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	main, err := json.Marshal(model.CandidateNumbers(p.Main))
	if err != nil {
		return err
	}
	bonus, err := json.Marshal(model.CandidateNumbers(p.Bonus))
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`INSERT INTO predictions
		(id, timestamp, based_on, history_size, main, bonus, weighted, skipped)
		VALUES (?,?,?,?,?,?,?,?)`,
		p.ID, p.GeneratedAt.Unix(), p.BasedOn.Format(dateLayout), p.HistorySize,
		string(main), string(bonus), p.Weighted, len(p.Skipped),
	)
	return err
}

func (r *SQLiteRecorder) RecordBacktest(rep *model.BacktestReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO backtest_runs
		(id, timestamp, window_size, tests, baseline_main, baseline_bonus, ensemble_avg_main, ensemble_avg_bonus)
		VALUES (?,?,?,?,?,?,?,?)`,
		rep.ID, rep.RunAt.Unix(), rep.Window, rep.Tests,
		rep.BaselineMain, rep.BaselineBonus, rep.Ensemble.AvgMain, rep.Ensemble.AvgBonus,
	); err != nil {
		return err
	}
	for _, row := range rep.Rows {
		if _, err := tx.Exec(`INSERT INTO backtest_rows
			(run_id, algorithm, family, tests, main_hits, bonus_hits, avg_main, avg_bonus, best_main, lift)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
			rep.ID, row.Algorithm, row.Family, row.Tests, row.MainHits, row.BonusHits,
			row.AvgMain, row.AvgBonus, row.BestMain, row.Lift,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RecentPredictions returns up to n predictions, newest first.
func (r *SQLiteRecorder) RecentPredictions(n int) ([]PredictionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, based_on, history_size, main, bonus, weighted,
		evaluated_on, main_hits, bonus_hits
		FROM predictions ORDER BY timestamp DESC, rowid DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PredictionRecord
	for rows.Next() {
		var (
			rec                 PredictionRecord
			ts                  int64
			basedOn, main, bons string
			evaluatedOn         sql.NullString
			mainHits, bonusHits sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &ts, &basedOn, &rec.HistorySize, &main, &bons,
			&rec.Weighted, &evaluatedOn, &mainHits, &bonusHits); err != nil {
			return nil, err
		}
		rec.GeneratedAt = time.Unix(ts, 0)
		rec.BasedOn, _ = time.Parse(dateLayout, basedOn)
		if err := json.Unmarshal([]byte(main), &rec.Main); err != nil {
			return nil, fmt.Errorf("prediction %s main: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(bons), &rec.Bonus); err != nil {
			return nil, fmt.Errorf("prediction %s bonus: %w", rec.ID, err)
		}
		if evaluatedOn.Valid {
			rec.Evaluated = true
			rec.EvaluatedOn, _ = time.Parse(dateLayout, evaluatedOn.String)
			rec.MainHits = int(mainHits.Int64)
			rec.BonusHits = int(bonusHits.Int64)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ScorePrediction stores the hits a prediction achieved against the draw on date against.
func (r *SQLiteRecorder) ScorePrediction(id string, against time.Time, mainHits, bonusHits int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`UPDATE predictions SET evaluated_on = ?, main_hits = ?, bonus_hits = ? WHERE id = ?`,
		against.Format(dateLayout), mainHits, bonusHits, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("prediction %s not found", id)
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	logging.Infof("closing sqlite recorder")
	return r.db.Close()
}
