package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/abrezinsky/rosterdraw/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with single connection; :memory: requires it
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS draw_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			participant_id TEXT NOT NULL,
			participant_name TEXT NOT NULL,
			allow_repeat BOOLEAN NOT NULL DEFAULT 0,
			drawn_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS group_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			group_size INTEGER NOT NULL,
			group_count INTEGER NOT NULL,
			fell_back BOOLEAN NOT NULL DEFAULT 0,
			generated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS group_members (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL,
			group_id TEXT NOT NULL,
			group_index INTEGER NOT NULL,
			group_name TEXT NOT NULL,
			motto TEXT NOT NULL,
			member_index INTEGER NOT NULL,
			participant_id TEXT NOT NULL,
			participant_name TEXT NOT NULL,
			FOREIGN KEY (run_id) REFERENCES group_runs(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_group_members_run ON group_members(run_id)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// ==================== Draw Results ====================

// RecordDraw archives a committed winner
func (r *Repository) RecordDraw(ctx context.Context, winner models.Participant, allowRepeat bool) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO draw_results (participant_id, participant_name, allow_repeat, drawn_at)
		VALUES (?, ?, ?, ?)
	`, winner.ID, winner.Name, allowRepeat, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// ListDrawResults returns archived winners, newest first. limit <= 0 means all.
func (r *Repository) ListDrawResults(ctx context.Context, limit int) ([]models.DrawRecord, error) {
	query := `SELECT id, participant_id, participant_name, allow_repeat, drawn_at
		FROM draw_results ORDER BY id DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.DrawRecord{}
	for rows.Next() {
		var rec models.DrawRecord
		if err := rows.Scan(&rec.ID, &rec.ParticipantID, &rec.ParticipantName, &rec.AllowRepeat, &rec.DrawnAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountDrawResults returns the number of archived winners
func (r *Repository) CountDrawResults(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM draw_results`).Scan(&count)
	return count, err
}

// ==================== Group Runs ====================

// SaveGroupRun archives a partition run and its members in one transaction
func (r *Repository) SaveGroupRun(ctx context.Context, set models.GroupSet) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	generatedAt := set.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO group_runs (group_size, group_count, fell_back, generated_at)
		VALUES (?, ?, ?, ?)
	`, set.GroupSize, len(set.Groups), set.FellBack, generatedAt.UTC())
	if err != nil {
		return 0, err
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO group_members (run_id, group_id, group_index, group_name, motto, member_index, participant_id, participant_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for gi, g := range set.Groups {
		for mi, m := range g.Members {
			if _, err := stmt.ExecContext(ctx, runID, g.ID, gi, g.Name, g.Motto, mi, m.ID, m.Name); err != nil {
				return 0, fmt.Errorf("insert member %q: %w", m.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// ListGroupRuns returns run headers, newest first
func (r *Repository) ListGroupRuns(ctx context.Context) ([]models.GroupRun, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, group_size, group_count, fell_back, generated_at
		FROM group_runs ORDER BY id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []models.GroupRun{}
	for rows.Next() {
		var run models.GroupRun
		if err := rows.Scan(&run.ID, &run.GroupSize, &run.GroupCount, &run.FellBack, &run.GeneratedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetGroupRun returns one run with its groups rebuilt in original order
func (r *Repository) GetGroupRun(ctx context.Context, id int64) (*models.GroupRun, error) {
	var run models.GroupRun
	err := r.db.QueryRowContext(ctx, `
		SELECT id, group_size, group_count, fell_back, generated_at
		FROM group_runs WHERE id = ?
	`, id).Scan(&run.ID, &run.GroupSize, &run.GroupCount, &run.FellBack, &run.GeneratedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT group_id, group_index, group_name, motto, participant_id, participant_name
		FROM group_members WHERE run_id = ?
		ORDER BY group_index, member_index
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lastIndex := -1
	for rows.Next() {
		var (
			groupID, name, motto string
			index                int
			member               models.Participant
		)
		if err := rows.Scan(&groupID, &index, &name, &motto, &member.ID, &member.Name); err != nil {
			return nil, err
		}
		if index != lastIndex {
			run.Groups = append(run.Groups, models.Group{ID: groupID, Name: name, Motto: motto})
			lastIndex = index
		}
		g := &run.Groups[len(run.Groups)-1]
		g.Members = append(g.Members, member)
	}
	return &run, rows.Err()
}

// ==================== Settings ====================

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting saves a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}
