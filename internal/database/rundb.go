package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/sybilglass/internal/model"
)

// dbFileName is the SQLite file created inside the data directory.
const dbFileName = "sybilglass.db"

// RunDB provides SQLite-based storage for analysis run history.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all sources rather
// than one file per input list. This keeps cross-list queries (and backup)
// trivial, and the source column scopes every lookup.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RunDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single pooled connection avoids
	// SQLITE_BUSY on concurrent saves.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	-- One row per analysis run. Headline aggregates are columns so the
	-- list and compare commands never parse report_json.
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		total_input INTEGER NOT NULL,
		unique_addresses INTEGER NOT NULL,
		duplicate_entries INTEGER NOT NULL,
		invalid_entries INTEGER NOT NULL,
		cluster_count INTEGER NOT NULL,
		max_cluster_size INTEGER NOT NULL,
		near_pair_count INTEGER NOT NULL,
		high_vanity_count INTEGER NOT NULL,
		health_index REAL NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a completed report and returns its run ID.
func (rdb *RunDB) SaveRun(ctx context.Context, report *model.Report) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO runs (
		source, total_input, unique_addresses, duplicate_entries,
		invalid_entries, cluster_count, max_cluster_size,
		near_pair_count, high_vanity_count, health_index, report_json
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	s := report.Summary
	result, err := rdb.db.ExecContext(ctx, query,
		report.Source,
		s.TotalInput,
		s.UniqueAddresses,
		s.DuplicateEntries,
		s.InvalidEntries,
		s.ClusterCount,
		s.MaxClusterSize,
		s.NearPairCount,
		s.HighVanityCount,
		s.HealthIndex,
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	return result.LastInsertId()
}

// RunMetadata contains summary information about a stored run.
// This is used for displaying run history without loading the full report.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// Source is the analyzed input list label.
	Source string

	// Timestamp is when the run was saved.
	Timestamp time.Time

	// Summary holds the headline aggregates of the run.
	Summary model.Summary
}

// ListRuns retrieves run metadata, newest first. An empty source lists
// runs across all sources.
func (rdb *RunDB) ListRuns(ctx context.Context, source string) ([]RunMetadata, error) {
	query := `
	SELECT id, source, timestamp, total_input, unique_addresses,
	       duplicate_entries, invalid_entries, cluster_count,
	       max_cluster_size, near_pair_count, high_vanity_count, health_index
	FROM runs
	`
	args := make([]any, 0, 1)
	if source != "" {
		query += " WHERE source = ?"
		args = append(args, source)
	}
	query += " ORDER BY timestamp DESC, id DESC"

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var timestamp string

		if err := rows.Scan(
			&meta.ID,
			&meta.Source,
			&timestamp,
			&meta.Summary.TotalInput,
			&meta.Summary.UniqueAddresses,
			&meta.Summary.DuplicateEntries,
			&meta.Summary.InvalidEntries,
			&meta.Summary.ClusterCount,
			&meta.Summary.MaxClusterSize,
			&meta.Summary.NearPairCount,
			&meta.Summary.HighVanityCount,
			&meta.Summary.HealthIndex,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetRun retrieves a full report by its run ID.
// Returns nil without error when the ID is unknown.
func (rdb *RunDB) GetRun(ctx context.Context, id int64) (*model.Report, error) {
	query := `SELECT report_json FROM runs WHERE id = ?`

	var reportJSON string
	err := rdb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// LatestRuns retrieves the n most recent full reports, newest first.
// An empty source spans all sources. Used by the compare command, which
// diffs the latest two runs.
func (rdb *RunDB) LatestRuns(ctx context.Context, source string, n int) ([]*model.Report, error) {
	query := `SELECT report_json FROM runs`
	args := make([]any, 0, 2)
	if source != "" {
		query += " WHERE source = ?"
		args = append(args, source)
	}
	query += " ORDER BY timestamp DESC, id DESC LIMIT ?"
	args = append(args, n)

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var reports []*model.Report
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		var report model.Report
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			return nil, fmt.Errorf("failed to parse report: %w", err)
		}
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
