// Package export stores evaluated frames in SQLite: one run per export, with
// the JSON snapshot and a PNG rendering of every frame that carries a capture
// tag.
package export

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"apviz/internal/frame"
	"apviz/internal/render"
)

// Schema creates the export tables.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	frame_count INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS frames (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	idx INTEGER NOT NULL,
	tag TEXT,
	name TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	data TEXT NOT NULL,
	png BLOB,
	PRIMARY KEY (run_id, idx)
);
CREATE INDEX IF NOT EXISTS idx_frames_tag ON frames(run_id, tag) WHERE tag IS NOT NULL;
`

// Run is one export.
type Run struct {
	ID         string
	Source     string
	FrameCount int
	CreatedAt  time.Time
}

// Record is one stored frame.
type Record struct {
	RunID       string
	Index       int
	Tag         string
	Tagged      bool
	Name        string
	Description string
	Data        json.RawMessage
	PNG         []byte
}

// Options selects what Export writes.
type Options struct {
	// All stores every frame instead of only tagged ones.
	All    bool
	Render render.Options
}

// Store persists exports.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewStore wraps an open database. Call Init before use.
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{db: db, logger: logger, now: time.Now}
}

// Open opens or creates the database at path and initialises the schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("export: open %s: %w", path, err)
	}
	for _, pragma := range []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=10000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("export: %s: %w", pragma, err)
		}
	}
	s := NewStore(db, logger)
	if err := s.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Init creates the tables.
func (s *Store) Init() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("export: init schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Export evaluates every frame of c and writes the selected ones in a single
// transaction. Any evaluation error aborts the whole run.
func (s *Store) Export(ctx context.Context, source string, c *frame.Collection, opts Options) (Run, error) {
	run := Run{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Source:    source,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}
	var records []Record
	for i := range c.Len() {
		f := c.ByIndex(i)
		snap, err := f.Data()
		if err != nil {
			return Run{}, fmt.Errorf("export: %w", err)
		}
		tag, tagged := snap.Tag()
		if !tagged && !opts.All {
			continue
		}
		data, err := json.Marshal(snap)
		if err != nil {
			return Run{}, fmt.Errorf("export: frame %d: %w", i, err)
		}
		var img bytes.Buffer
		if !opts.Render.Bounds(snap).Empty() {
			if err := render.EncodePNG(&img, snap, opts.Render); err != nil {
				return Run{}, fmt.Errorf("export: frame %d: %w", i, err)
			}
		}
		records = append(records, Record{
			RunID:       run.ID,
			Index:       i,
			Tag:         tag,
			Tagged:      tagged,
			Name:        f.Name(),
			Description: f.Description(),
			Data:        data,
			PNG:         img.Bytes(),
		})
	}
	run.FrameCount = len(records)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("export: begin: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, source, frame_count, created_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Source, run.FrameCount, run.CreatedAt.Unix()); err != nil {
		return Run{}, fmt.Errorf("export: insert run: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO frames (run_id, idx, tag, name, description, data, png) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("export: prepare: %w", err)
	}
	defer stmt.Close()
	for _, r := range records {
		var tag sql.NullString
		if r.Tagged {
			tag = sql.NullString{String: r.Tag, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, r.RunID, r.Index, tag, r.Name, r.Description, string(r.Data), r.PNG); err != nil {
			return Run{}, fmt.Errorf("export: insert frame %d: %w", r.Index, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("export: commit: %w", err)
	}
	s.logger.Info("export stored", "run", run.ID, "source", source, "frames", run.FrameCount)
	return run, nil
}

// Runs lists every stored run, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, frame_count, created_at FROM runs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("export: list runs: %w", err)
	}
	defer rows.Close()
	var out []Run
	for rows.Next() {
		var r Run
		var created int64
		if err := rows.Scan(&r.ID, &r.Source, &r.FrameCount, &created); err != nil {
			return nil, fmt.Errorf("export: scan run: %w", err)
		}
		r.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// Frames returns the frames of one run in index order.
func (s *Store) Frames(ctx context.Context, runID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, tag, name, description, data, png FROM frames WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("export: list frames: %w", err)
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		r := Record{RunID: runID}
		var tag sql.NullString
		var data string
		if err := rows.Scan(&r.Index, &tag, &r.Name, &r.Description, &data, &r.PNG); err != nil {
			return nil, fmt.Errorf("export: scan frame: %w", err)
		}
		r.Tag, r.Tagged = tag.String, tag.Valid
		r.Data = json.RawMessage(data)
		out = append(out, r)
	}
	return out, rows.Err()
}
