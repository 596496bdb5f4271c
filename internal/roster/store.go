// Package roster provides the worker roster: a SQLite-backed store of
// monitored subjects and a generator for fresh baseline profiles.
//
// The simulation loop reads workers through the store and writes back the
// simulated fields after each tick; the store itself never mutates vitals.
package roster

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nvandessel/heatwatch/internal/models"
)

// Store is a SQLite-backed worker roster. Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	dbPath string
}

// NewStore opens (or creates) the roster database under dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating roster directory: %w", err)
	}

	dbPath := filepath.Join(dir, "heatwatch.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening roster database: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Add inserts a new worker. The worker's ID and Name must be set and unique.
func (s *Store) Add(ctx context.Context, w models.Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w.ID == "" {
		return fmt.Errorf("worker ID is required")
	}
	if w.Name == "" {
		return fmt.Errorf("worker name is required")
	}

	now := time.Now().UTC()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now

	vitalsJSON, riskJSON, err := encodeWorker(w)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO workers (id, name, age, gender, weight_kg, height_cm, risk_tier, vitals, risk, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Name, w.Age, w.Gender, w.WeightKG, w.HeightCM, w.RiskTier,
		vitalsJSON, riskJSON, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting worker %s: %w", w.ID, err)
	}
	return nil
}

// Update overwrites an existing worker row with w.
func (s *Store) Update(ctx context.Context, w models.Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vitalsJSON, riskJSON, err := encodeWorker(w)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE workers
		SET name = ?, age = ?, gender = ?, weight_kg = ?, height_cm = ?, risk_tier = ?,
		    vitals = ?, risk = ?, updated_at = ?
		WHERE id = ?`,
		w.Name, w.Age, w.Gender, w.WeightKG, w.HeightCM, w.RiskTier,
		vitalsJSON, riskJSON, time.Now().UTC(), w.ID)
	if err != nil {
		return fmt.Errorf("updating worker %s: %w", w.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating worker %s: %w", w.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("worker not found: %s", w.ID)
	}
	return nil
}

// FindByIdentity resolves a worker by ID or, failing that, by name.
// Returns (nil, nil) when no worker matches.
func (s *Store) FindByIdentity(ctx context.Context, idOrName string) (*models.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, age, gender, weight_kg, height_cm, risk_tier, vitals, risk, created_at, updated_at
		FROM workers WHERE id = ? OR name = ?
		LIMIT 1`, idOrName, idOrName)

	w, err := scanWorker(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolving worker %q: %w", idOrName, err)
	}
	return w, nil
}

// List returns all workers ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, age, gender, weight_kg, height_cm, risk_tier, vitals, risk, created_at, updated_at
		FROM workers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing workers: %w", err)
	}
	defer rows.Close()

	var workers []models.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning worker: %w", err)
		}
		workers = append(workers, *w)
	}
	return workers, rows.Err()
}

// Delete removes a worker by ID. Deleting an absent worker is an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM workers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting worker %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting worker %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("worker not found: %s", id)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanWorker(sc scanner) (*models.Worker, error) {
	var w models.Worker
	var vitalsJSON string
	var riskJSON sql.NullString

	err := sc.Scan(&w.ID, &w.Name, &w.Age, &w.Gender, &w.WeightKG, &w.HeightCM,
		&w.RiskTier, &vitalsJSON, &riskJSON, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(vitalsJSON), &w.Vitals); err != nil {
		return nil, fmt.Errorf("decoding vitals for %s: %w", w.ID, err)
	}
	if riskJSON.Valid && riskJSON.String != "" {
		var risk models.RiskAnnotation
		if err := json.Unmarshal([]byte(riskJSON.String), &risk); err != nil {
			return nil, fmt.Errorf("decoding risk for %s: %w", w.ID, err)
		}
		w.Risk = &risk
	}
	return &w, nil
}

func encodeWorker(w models.Worker) (vitalsJSON string, riskJSON any, err error) {
	vb, err := json.Marshal(w.Vitals)
	if err != nil {
		return "", nil, fmt.Errorf("encoding vitals for %s: %w", w.ID, err)
	}
	if w.Risk == nil {
		return string(vb), nil, nil
	}
	rb, err := json.Marshal(w.Risk)
	if err != nil {
		return "", nil, fmt.Errorf("encoding risk for %s: %w", w.ID, err)
	}
	return string(vb), string(rb), nil
}
