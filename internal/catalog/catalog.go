package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

// FileName is the name of the database file inside the catalog directory.
const FileName = "profilereport.db"

// ErrPageNotFound is returned when no page has the requested id.
var ErrPageNotFound = errors.New("page not found")

// Catalog stores records of written dataset pages.
type Catalog struct {
	db     *sql.DB
	dbPath string
}

// Options configures Open.
type Options struct {
	// CreateIfNotExists creates the directory and database file when missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns options that create the database on first use.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// DefaultDir returns the catalog directory under the XDG data home.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, "profilereport")
}

// Open opens or creates the catalog in dir.
func Open(dir string, opts Options) (*Catalog, error) {
	dbPath := filepath.Join(dir, FileName)

	mode := "rw"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create catalog directory: %w", err)
		}
		mode = "rwc"
	} else if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("catalog not found at %s: %w", dbPath, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?mode="+mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	c := &Catalog{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := c.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return c, nil
}

// Path returns the database file path.
func (c *Catalog) Path() string {
	return c.dbPath
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_id TEXT NOT NULL,
		name TEXT NOT NULL,
		path TEXT NOT NULL,
		lineage TEXT,
		datasets_json TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_pages_name ON pages(name);
	CREATE INDEX IF NOT EXISTS idx_pages_created ON pages(created_at);
	`

	_, err := c.db.ExecContext(context.Background(), schema)
	return err
}

// DataSetEntry summarises one dataset of a page.
type DataSetEntry struct {
	Name    string   `json:"name"`
	ID      string   `json:"id"`
	Reports []string `json:"reports"`
}

// PageRecord is one written dataset page.
type PageRecord struct {
	ID        int64          `json:"id"`
	ReportID  string         `json:"report_id"`
	Name      string         `json:"name"`
	Path      string         `json:"path"`
	Lineage   string         `json:"lineage,omitempty"`
	DataSets  []DataSetEntry `json:"datasets"`
	CreatedAt time.Time      `json:"created_at"`
}

// RecordPage stores rec and returns its row id.
func (c *Catalog) RecordPage(ctx context.Context, rec *PageRecord) (int64, error) {
	datasets := rec.DataSets
	if datasets == nil {
		datasets = []DataSetEntry{}
	}
	datasetsJSON, err := json.Marshal(datasets)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize datasets: %w", err)
	}

	result, err := c.db.ExecContext(ctx, `
	INSERT INTO pages (report_id, name, path, lineage, datasets_json)
	VALUES (?, ?, ?, ?, ?)
	`, rec.ReportID, rec.Name, rec.Path, rec.Lineage, string(datasetsJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to record page: %w", err)
	}
	return result.LastInsertId()
}

const selectPages = `
	SELECT id, report_id, name, path, COALESCE(lineage, ''), datasets_json, created_at
	FROM pages
`

// ListPages returns the most recent pages first. A limit of zero or less
// returns all pages.
func (c *Catalog) ListPages(ctx context.Context, limit int) ([]PageRecord, error) {
	query := selectPages + " ORDER BY created_at DESC, id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return c.queryPages(ctx, query, args...)
}

// PagesByName returns the pages written under name, most recent first.
func (c *Catalog) PagesByName(ctx context.Context, name string) ([]PageRecord, error) {
	return c.queryPages(ctx, selectPages+" WHERE name = ? ORDER BY created_at DESC, id DESC", name)
}

// GetPage returns the page with the given row id.
func (c *Catalog) GetPage(ctx context.Context, id int64) (*PageRecord, error) {
	pages, err := c.queryPages(ctx, selectPages+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrPageNotFound, id)
	}
	return &pages[0], nil
}

func (c *Catalog) queryPages(ctx context.Context, query string, args ...any) ([]PageRecord, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var pages []PageRecord
	for rows.Next() {
		var rec PageRecord
		var datasetsJSON, created string
		if err := rows.Scan(&rec.ID, &rec.ReportID, &rec.Name, &rec.Path, &rec.Lineage, &datasetsJSON, &created); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		if err := json.Unmarshal([]byte(datasetsJSON), &rec.DataSets); err != nil {
			return nil, fmt.Errorf("failed to parse datasets of page %d: %w", rec.ID, err)
		}
		rec.CreatedAt = parseTimestamp(created)
		pages = append(pages, rec)
	}
	return pages, rows.Err()
}

// timestampFormats are the layouts SQLite may return for created_at.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp returns the zero time when s matches no known layout.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
