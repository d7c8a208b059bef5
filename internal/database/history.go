package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/csphash/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "csphash.db"

// ErrRunNotFound is returned when no run matches a lookup.
var ErrRunNotFound = errors.New("run not found")

// HistoryDB stores csphash runs in SQLite.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		directory TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		algorithm TEXT NOT NULL,
		digest_count INTEGER NOT NULL,
		digests_json TEXT NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_directory ON runs(directory);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// Run is a stored scan summary.
type Run struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// Directory is the scanned static directory.
	Directory string

	// Timestamp is when the scan was performed.
	Timestamp time.Time

	// Algorithm is the hash algorithm of Digests.
	Algorithm model.Algorithm

	// Digests is the sorted list of unique digests.
	Digests []string
}

// SaveRun stores a finished scan report and returns the new run ID.
func (hdb *HistoryDB) SaveRun(ctx context.Context, report *model.ScanReport) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	digests := report.Digests
	if digests == nil {
		digests = []string{}
	}
	digestsJSON, err := json.Marshal(digests)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize digests: %w", err)
	}

	query := `
	INSERT INTO runs (directory, timestamp, algorithm, digest_count, digests_json, report_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := hdb.db.ExecContext(ctx, query,
		report.Directory,
		report.DateScanned.UTC().Format(time.RFC3339Nano),
		report.Algorithm.String(),
		len(digests),
		string(digestsJSON),
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	return res.LastInsertId()
}

// ListRuns returns up to limit runs for directory, newest first.
// A limit of zero or less returns every run.
func (hdb *HistoryDB) ListRuns(ctx context.Context, directory string, limit int) ([]Run, error) {
	query := `
	SELECT id, directory, timestamp, algorithm, digests_json
	FROM runs
	WHERE directory = ?
	ORDER BY id DESC
	`
	args := []any{directory}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// ListDirectories returns every directory that has stored runs.
func (hdb *HistoryDB) ListDirectories(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT directory FROM runs
	ORDER BY directory
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list directories: %w", err)
	}
	defer rows.Close()

	var dirs []string
	for rows.Next() {
		var dir string
		if err := rows.Scan(&dir); err != nil {
			return nil, fmt.Errorf("failed to scan directory: %w", err)
		}
		dirs = append(dirs, dir)
	}

	return dirs, rows.Err()
}

// GetRun retrieves a run by its database ID.
func (hdb *HistoryDB) GetRun(ctx context.Context, id int64) (*Run, error) {
	query := `
	SELECT id, directory, timestamp, algorithm, digests_json
	FROM runs
	WHERE id = ?
	`

	run, err := scanRun(hdb.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetReport retrieves the full report stored with a run.
func (hdb *HistoryDB) GetReport(ctx context.Context, id int64) (*model.ScanReport, error) {
	query := `
	SELECT report_json FROM runs
	WHERE id = ?
	`

	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report model.ScanReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// Diff is the change in digests between two runs.
type Diff struct {
	// From is the older run.
	From Run

	// To is the newer run.
	To Run

	// Added are digests present in To but not in From.
	Added []string

	// Removed are digests present in From but not in To.
	Removed []string
}

// Changed reports whether the digest sets differ.
func (d Diff) Changed() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}

// DiffRuns compares two runs.
func DiffRuns(from, to Run) Diff {
	d := Diff{From: from, To: to}
	for _, digest := range to.Digests {
		if !slices.Contains(from.Digests, digest) {
			d.Added = append(d.Added, digest)
		}
	}
	for _, digest := range from.Digests {
		if !slices.Contains(to.Digests, digest) {
			d.Removed = append(d.Removed, digest)
		}
	}
	slices.Sort(d.Added)
	slices.Sort(d.Removed)
	return d
}

// DiffLatest compares the two newest runs for directory.
// It returns ErrRunNotFound when fewer than two runs exist.
func (hdb *HistoryDB) DiffLatest(ctx context.Context, directory string) (Diff, error) {
	runs, err := hdb.ListRuns(ctx, directory, 2)
	if err != nil {
		return Diff{}, err
	}
	if len(runs) < 2 {
		return Diff{}, fmt.Errorf("%w: need two runs for %s, have %d", ErrRunNotFound, directory, len(runs))
	}
	return DiffRuns(runs[1], runs[0]), nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var timestamp, algorithm, digestsJSON string

	if err := row.Scan(&run.ID, &run.Directory, &timestamp, &algorithm, &digestsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return run, err
		}
		return run, fmt.Errorf("failed to scan run: %w", err)
	}

	run.Timestamp = parseTimestamp(timestamp)
	run.Algorithm = model.Algorithm(algorithm)
	if err := json.Unmarshal([]byte(digestsJSON), &run.Digests); err != nil {
		return run, fmt.Errorf("failed to parse digests of run %d: %w", run.ID, err)
	}
	return run, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
