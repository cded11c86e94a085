package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Manager persists scan history
type Manager struct {
	db *sql.DB
}

// ScanRecord represents a single completed (or failed) scan
type ScanRecord struct {
	ID             int64
	CatalogPath    string
	StartTime      time.Time
	EndTime        time.Time
	Status         string // "success" or "failed"
	FilesFound     int
	FoldersVisited int
	DocsSkipped    int
	PathsTruncated int
	BytesSeen      int64
	Error          string
}

// NewManager creates a new state manager
func NewManager(dataDir string) (*Manager, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "drivecat.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Limit connection pool to prevent "database is locked" errors
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// Enable WAL mode for better concurrency and set busy timeout
	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode and busy timeout: %w", err)
	}

	manager := &Manager{db: db}

	if err := manager.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return manager, nil
}

// initSchema creates the database schema
func (m *Manager) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		catalog_path TEXT NOT NULL,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NOT NULL,
		status TEXT NOT NULL,
		files_found INTEGER DEFAULT 0,
		folders_visited INTEGER DEFAULT 0,
		docs_skipped INTEGER DEFAULT 0,
		paths_truncated INTEGER DEFAULT 0,
		bytes_seen INTEGER DEFAULT 0,
		error TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_scans_catalog_time ON scans(catalog_path, start_time DESC);
	CREATE INDEX IF NOT EXISTS idx_scans_status ON scans(status);
	`

	_, err := m.db.Exec(schema)
	return err
}

// SaveScan records a scan run
func (m *Manager) SaveScan(record ScanRecord) error {
	if record.Status != "success" && record.Status != "failed" {
		return fmt.Errorf("invalid status: %s (must be 'success' or 'failed')", record.Status)
	}

	query := `
		INSERT INTO scans (catalog_path, start_time, end_time, status,
			files_found, folders_visited, docs_skipped, paths_truncated, bytes_seen, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := m.db.Exec(query,
		record.CatalogPath,
		record.StartTime,
		record.EndTime,
		record.Status,
		record.FilesFound,
		record.FoldersVisited,
		record.DocsSkipped,
		record.PathsTruncated,
		record.BytesSeen,
		record.Error,
	)

	if err != nil {
		return fmt.Errorf("failed to save scan record: %w", err)
	}

	return nil
}

const scanColumns = `id, catalog_path, start_time, end_time, status,
	files_found, folders_visited, docs_skipped, paths_truncated, bytes_seen, error`

func scanRow(rows interface{ Scan(...any) error }) (ScanRecord, error) {
	var record ScanRecord
	err := rows.Scan(
		&record.ID,
		&record.CatalogPath,
		&record.StartTime,
		&record.EndTime,
		&record.Status,
		&record.FilesFound,
		&record.FoldersVisited,
		&record.DocsSkipped,
		&record.PathsTruncated,
		&record.BytesSeen,
		&record.Error,
	)
	return record, err
}

// History retrieves the most recent scans, newest first
func (m *Manager) History(limit int) ([]ScanRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM scans
		ORDER BY start_time DESC
		LIMIT ?
	`, scanColumns)

	rows, err := m.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []ScanRecord
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// LastSuccess retrieves the last successful scan for a catalog
func (m *Manager) LastSuccess(catalogPath string) (*ScanRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM scans
		WHERE catalog_path = ? AND status = 'success'
		ORDER BY start_time DESC
		LIMIT 1
	`, scanColumns)

	record, err := scanRow(m.db.QueryRow(query, catalogPath))
	if err == sql.ErrNoRows {
		return nil, nil // no successful scan yet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last success: %w", err)
	}

	return &record, nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
