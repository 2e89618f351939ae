package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/rankwatch/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/rankwatch/internal/core/domain"
	"github.com/custodia-labs/rankwatch/internal/core/ports/driven"
)

// DatabaseFile is the database file name inside the data directory.
const DatabaseFile = "rankwatch.db"

// Settings keys.
const (
	settingAutoCheck = "auto_check_enabled"
	settingInterval  = "interval_minutes"
)

// Store is a SQLite-backed TrackedStore and CheckHistoryStore.
type Store struct {
	db   *sql.DB
	path string
}

var (
	_ driven.TrackedStore      = (*Store)(nil)
	_ driven.CheckHistoryStore = (*Store)(nil)
)

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.rankwatch/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".rankwatch", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// WAL lets the daemon and CLI commands read while the other writes
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Tracked Store ====================

// Load returns all tracked domains in insertion order and the settings.
func (s *Store) Load(ctx context.Context) (*domain.TrackerState, error) {
	state := domain.NewTrackerState()

	rows, err := s.db.QueryContext(ctx, `
		SELECT domain, keywords, added_at, updated_at, last_checked_at, check_count
		FROM tracked_domains
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying tracked domains: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		d, err := scanTrackedDomain(rows)
		if err != nil {
			return nil, err
		}
		state.Domains = append(state.Domains, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tracked domains: %w", err)
	}

	settings, err := s.loadSettings(ctx)
	if err != nil {
		return nil, err
	}
	state.Settings = settings

	return state, nil
}

// SaveDomain creates or replaces a domain record. Check stats are only
// written on insert; UpdateCheckStats owns them afterwards.
func (s *Store) SaveDomain(ctx context.Context, d domain.TrackedDomain) error {
	keywords, err := json.Marshal(d.Keywords)
	if err != nil {
		return fmt.Errorf("marshalling keywords: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tracked_domains (domain, keywords, added_at, updated_at, last_checked_at, check_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(domain) DO UPDATE SET
			keywords = excluded.keywords,
			updated_at = excluded.updated_at
	`, d.Domain, string(keywords), formatTime(d.AddedAt), formatNullableTime(d.UpdatedAt),
		formatNullableTime(d.LastCheckedAt), d.CheckCount)
	if err != nil {
		return fmt.Errorf("saving tracked domain: %w", err)
	}
	return nil
}

// UpdateCheckStats sets the check stats of an existing domain.
func (s *Store) UpdateCheckStats(ctx context.Context, name string, lastChecked time.Time, count int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tracked_domains SET last_checked_at = ?, check_count = ? WHERE domain = ?",
		formatNullableTime(lastChecked), count, name)
	if err != nil {
		return fmt.Errorf("updating check stats: %w", err)
	}
	return requireAffected(res, name)
}

// DeleteDomain removes a domain.
func (s *Store) DeleteDomain(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tracked_domains WHERE domain = ?", name)
	if err != nil {
		return fmt.Errorf("deleting tracked domain: %w", err)
	}
	return requireAffected(res, name)
}

// SaveSettings replaces the stored settings in one transaction.
func (s *Store) SaveSettings(ctx context.Context, settings domain.Settings) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	values := map[string]string{
		settingAutoCheck: strconv.FormatBool(settings.AutoCheckEnabled),
		settingInterval:  strconv.Itoa(settings.IntervalMinutes),
	}
	for key, value := range values {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
			key, value); err != nil {
			return fmt.Errorf("saving setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing settings: %w", err)
	}
	return nil
}

func (s *Store) loadSettings(ctx context.Context) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return settings, fmt.Errorf("querying settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return settings, fmt.Errorf("scanning setting: %w", err)
		}
		switch key {
		case settingAutoCheck:
			if b, err := strconv.ParseBool(value); err == nil {
				settings.AutoCheckEnabled = b
			}
		case settingInterval:
			if n, err := strconv.Atoi(value); err == nil {
				settings.IntervalMinutes = n
			}
		}
	}
	if err := rows.Err(); err != nil {
		return settings, fmt.Errorf("iterating settings: %w", err)
	}
	return settings, nil
}

// ==================== Helper Functions ====================

func scanTrackedDomain(rows *sql.Rows) (*domain.TrackedDomain, error) {
	var d domain.TrackedDomain
	var keywords, addedAt string
	var updatedAt, lastChecked sql.NullString

	if err := rows.Scan(&d.Domain, &keywords, &addedAt, &updatedAt, &lastChecked, &d.CheckCount); err != nil {
		return nil, fmt.Errorf("scanning tracked domain: %w", err)
	}
	if err := json.Unmarshal([]byte(keywords), &d.Keywords); err != nil {
		return nil, fmt.Errorf("unmarshalling keywords for %s: %w", d.Domain, err)
	}
	d.AddedAt = parseNullableTime(sql.NullString{String: addedAt, Valid: true})
	d.UpdatedAt = parseNullableTime(updatedAt)
	d.LastCheckedAt = parseNullableTime(lastChecked)
	return &d, nil
}

func requireAffected(res sql.Result, name string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("domain %s: %w", name, domain.ErrNotFound)
	}
	return nil
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// formatNullableTime formats a time for storage, returning nil for zero time.
func formatNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

// parseNullableTime parses a nullable RFC3339 string to time.Time.
// Returns zero time if the string is empty or invalid.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
