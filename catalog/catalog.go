// Package catalog resolves dataset names to input files and keeps the
// per-run centrality calibrations and the job records.
package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/decibelcooper/hfeflow/source"
)

//go:embed schema.sql
var schemaSQL string

var (
	ErrDatasetNotFound     = errors.New("catalog: dataset not found")
	ErrCalibrationNotFound = errors.New("catalog: no centrality calibration")
)

type Dataset struct {
	Name        string         `db:"name"`
	Run         int            `db:"run"`
	Version     string         `db:"version"`
	Description sql.NullString `db:"description"`
}

type File struct {
	Dataset string `db:"dataset"`
	Index   int    `db:"idx"`
	Path    string `db:"path"`
	Events  int    `db:"events"`
}

// Job is the record of one batch job.
type Job struct {
	ID             string `db:"id"`
	Dataset        string `db:"dataset"`
	Version        string `db:"version"`
	Output         string `db:"output"`
	EventsRead     int64  `db:"events_read"`
	EventsAccepted int64  `db:"events_accepted"`
	StartedAt      int64  `db:"started_at"`
	FinishedAt     int64  `db:"finished_at"`
	Status         string `db:"status"`
}

func (j *Job) Duration() time.Duration {
	return time.Duration(j.FinishedAt-j.StartedAt) * time.Second
}

type Catalog struct {
	db *sqlx.DB
}

// Open connects to the catalog database and creates missing tables.
// driver is "sqlite3" (dsn is a file path) or "mysql".
func Open(driver, dsn string) (*Catalog, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: could not connect: %w", err)
	}
	if driver == "sqlite3" {
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("catalog: %w", err)
		}
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Catalog{db: db}, nil
}

func applySchema(db *sqlx.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if strings.TrimSpace(stripComments(stmt)) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("catalog: applying schema: %w", err)
		}
	}
	return nil
}

func stripComments(stmt string) string {
	var b strings.Builder
	for _, line := range strings.Split(stmt, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// AddDataset registers a dataset and its files, replacing any previous
// definition with the same name.
func (c *Catalog) AddDataset(ctx context.Context, ds Dataset, paths []string, events []int) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM files WHERE dataset = ?", ds.Name); err != nil {
		return fmt.Errorf("catalog: removing files of %s: %w", ds.Name, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM datasets WHERE name = ?", ds.Name); err != nil {
		return fmt.Errorf("catalog: removing %s: %w", ds.Name, err)
	}
	if _, err := tx.NamedExecContext(ctx,
		"INSERT INTO datasets (name, run, version, description) VALUES (:name, :run, :version, :description)",
		ds,
	); err != nil {
		return fmt.Errorf("catalog: adding %s: %w", ds.Name, err)
	}
	for i, p := range paths {
		f := File{Dataset: ds.Name, Index: i, Path: p}
		if i < len(events) {
			f.Events = events[i]
		}
		if _, err := tx.NamedExecContext(ctx,
			"INSERT INTO files (dataset, idx, path, events) VALUES (:dataset, :idx, :path, :events)",
			f,
		); err != nil {
			return fmt.Errorf("catalog: adding file %s: %w", p, err)
		}
	}
	return tx.Commit()
}

func (c *Catalog) Dataset(ctx context.Context, name string) (*Dataset, error) {
	var ds Dataset
	err := c.db.GetContext(ctx, &ds, "SELECT name, run, version, description FROM datasets WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return &ds, nil
}

func (c *Catalog) Datasets(ctx context.Context) ([]Dataset, error) {
	var out []Dataset
	if err := c.db.SelectContext(ctx, &out, "SELECT name, run, version, description FROM datasets ORDER BY name"); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return out, nil
}

// Files returns the files of a dataset in registration order.
func (c *Catalog) Files(ctx context.Context, name string) ([]File, error) {
	if _, err := c.Dataset(ctx, name); err != nil {
		return nil, err
	}
	var out []File
	if err := c.db.SelectContext(ctx, &out,
		"SELECT dataset, idx, path, events FROM files WHERE dataset = ? ORDER BY idx", name,
	); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return out, nil
}

// PutCalibration stores the centrality calibration of a run, replacing
// the previous one.
func (c *Catalog) PutCalibration(ctx context.Context, calib *source.Calibration) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM centrality WHERE run = ?", calib.Run); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	for _, p := range calib.Points {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO centrality (run, mult, percentile) VALUES (?, ?, ?)",
			calib.Run, p.Mult, p.Percentile,
		); err != nil {
			return fmt.Errorf("catalog: storing calibration of run %d: %w", calib.Run, err)
		}
	}
	return tx.Commit()
}

func (c *Catalog) Calibration(ctx context.Context, run int) (*source.Calibration, error) {
	calib := &source.Calibration{Run: run}
	if err := c.db.SelectContext(ctx, &calib.Points,
		"SELECT mult, percentile FROM centrality WHERE run = ? ORDER BY mult, percentile", run,
	); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if len(calib.Points) == 0 {
		return nil, fmt.Errorf("%w: run %d", ErrCalibrationNotFound, run)
	}
	return calib, nil
}

func (c *Catalog) RecordJob(ctx context.Context, j Job) error {
	_, err := c.db.NamedExecContext(ctx, `INSERT INTO jobs
		(id, dataset, version, output, events_read, events_accepted, started_at, finished_at, status)
		VALUES (:id, :dataset, :version, :output, :events_read, :events_accepted, :started_at, :finished_at, :status)`,
		j,
	)
	if err != nil {
		return fmt.Errorf("catalog: recording job %s: %w", j.ID, err)
	}
	return nil
}

// Jobs returns the jobs run on a dataset, most recent first.
func (c *Catalog) Jobs(ctx context.Context, dataset string) ([]Job, error) {
	var out []Job
	if err := c.db.SelectContext(ctx, &out,
		"SELECT * FROM jobs WHERE dataset = ? ORDER BY started_at DESC, id", dataset,
	); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return out, nil
}
