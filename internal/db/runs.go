package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/articulation/internal/dataset"
	"github.com/banshee-data/articulation/internal/vectorize"
)

// ErrRunNotFound is returned when a run ID has no stored run.
var ErrRunNotFound = errors.New("run not found")

// Run describes one stored batch.
type Run struct {
	ID             string           `json:"run_id"`
	CreatedAt      time.Time        `json:"created_at"`
	Seed           uint64           `json:"seed"`
	Randomizations int              `json:"randomizations"`
	Jitter         vectorize.Jitter `json:"jitter"`
	Size           int              `json:"batch_size"`
	Lines          int              `json:"lines"`
	Samples        int              `json:"samples"`
	MaxLength      int              `json:"max_length"`
	ConfigJSON     string           `json:"config_json"`
}

// SampleInfo is the stored metadata of one batch row.
type SampleInfo struct {
	Recording  string `json:"recording"`
	Label      string `json:"label"`
	Pass       int    `json:"pass"`
	FrameCount int    `json:"frame_count"`
}

// SaveRun stores batch b, whose rows were assembled from set in order,
// under a new run ID. Seed, Randomizations, Jitter and ConfigJSON are
// taken from run; ID, CreatedAt and the shape fields are filled in and
// returned.
func (db *DB) SaveRun(run Run, set *dataset.Set, b *vectorize.Batch) (*Run, error) {
	if set.Len() != b.Size {
		return nil, fmt.Errorf("%w: set has %d samples but batch has %d rows", vectorize.ErrShape, set.Len(), b.Size)
	}

	run.ID = uuid.NewString()
	run.CreatedAt = db.clock.Now().UTC()
	run.Size, run.Lines, run.Samples, run.MaxLength = b.Size, b.Lines, b.Samples, b.MaxLength
	if run.ConfigJSON == "" {
		run.ConfigJSON = "{}"
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO vector_runs (
			run_id, created_at, seed, randomizations, max_offset, max_rotation_degrees,
			batch_size, lines, samples, max_length, config_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UnixNano(), int64(run.Seed), run.Randomizations,
		run.Jitter.MaxOffset, run.Jitter.MaxRotationDegrees,
		run.Size, run.Lines, run.Samples, run.MaxLength, run.ConfigJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO vector_samples (run_id, idx, recording, label, pass, frame_count, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range set.Samples {
		blob, err := b.Matrix(i).MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("failed to encode row %d: %w", i, err)
		}
		if _, err := stmt.Exec(run.ID, i, s.Recording, s.Label, s.Pass, b.FrameCounts[i], blob); err != nil {
			return nil, fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit run: %w", err)
	}
	return &run, nil
}

const runColumns = `run_id, created_at, seed, randomizations, max_offset, max_rotation_degrees,
	batch_size, lines, samples, max_length, config_json`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	var createdAt, seed int64
	if err := row.Scan(&r.ID, &createdAt, &seed, &r.Randomizations,
		&r.Jitter.MaxOffset, &r.Jitter.MaxRotationDegrees,
		&r.Size, &r.Lines, &r.Samples, &r.MaxLength, &r.ConfigJSON); err != nil {
		return nil, err
	}
	r.CreatedAt = time.Unix(0, createdAt).UTC()
	r.Seed = uint64(seed)
	return &r, nil
}

// ListRuns returns every stored run, oldest first.
func (db *DB) ListRuns() ([]Run, error) {
	rows, err := db.Query(`SELECT ` + runColumns + ` FROM vector_runs ORDER BY created_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetRun returns the run with the given ID.
func (db *DB) GetRun(id string) (*Run, error) {
	r, err := scanRun(db.QueryRow(`SELECT `+runColumns+` FROM vector_runs WHERE run_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return r, nil
}

// LoadBatch rebuilds the stored batch of a run along with its per-row
// metadata.
func (db *DB) LoadBatch(id string) (*vectorize.Batch, []SampleInfo, error) {
	run, err := db.GetRun(id)
	if err != nil {
		return nil, nil, err
	}

	rows, err := db.Query(`
		SELECT recording, label, pass, frame_count, data
		FROM vector_samples WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var (
		infos    []SampleInfo
		matrices []*mat.Dense
		counts   []int
	)
	for rows.Next() {
		var info SampleInfo
		var blob []byte
		if err := rows.Scan(&info.Recording, &info.Label, &info.Pass, &info.FrameCount, &blob); err != nil {
			return nil, nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		var m mat.Dense
		if err := m.UnmarshalBinary(blob); err != nil {
			return nil, nil, fmt.Errorf("failed to decode sample %d: %w", len(infos), err)
		}
		infos = append(infos, info)
		matrices = append(matrices, &m)
		counts = append(counts, info.FrameCount)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	if len(matrices) != run.Size {
		return nil, nil, fmt.Errorf("%w: run %s has %d stored rows, expected %d", vectorize.ErrShape, id, len(matrices), run.Size)
	}

	b, err := vectorize.FromMatrices(matrices, run.Samples, run.MaxLength, counts)
	if err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", id, err)
	}
	return b, infos, nil
}

// DeleteRun removes a run and its samples.
func (db *DB) DeleteRun(id string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM vector_samples WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete samples: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM vector_runs WHERE run_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return tx.Commit()
}
