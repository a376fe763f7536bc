package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/hammamikhairi/ottomeasure/internal/density"
	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// SQLiteStore keeps the density catalog in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	log  *logger.Logger
}

// OpenSQLite opens or creates the database at path and applies pending
// migrations. The parent directory is created when missing.
func OpenSQLite(ctx context.Context, path string, log *logger.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = logger.Nop()
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &SQLiteStore{db: db, path: path, log: log}
	if err := store.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug("opened density database %s", path)
	return store, nil
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Upsert stores an entry, replacing any entry with the same name. A name
// or alias already claimed by another entry is rejected with
// domain.ErrAlreadyExists.
func (s *SQLiteStore) Upsert(ctx context.Context, entry domain.DensityEntry) error {
	entry, err := normalizeEntry(entry)
	if err != nil {
		return err
	}
	existing, err := s.List(ctx)
	if err != nil {
		return err
	}
	if err := checkClaims(existing, entry); err != nil {
		return err
	}
	aliases, err := json.Marshal(entry.Aliases)
	if err != nil {
		return fmt.Errorf("encode aliases: %w", err)
	}

	const q = `INSERT INTO densities (name_key, name, grams_per_cup, dry, aliases, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(name_key) DO UPDATE SET
	name = excluded.name,
	grams_per_cup = excluded.grams_per_cup,
	dry = excluded.dry,
	aliases = excluded.aliases,
	updated_at = excluded.updated_at`

	err = retryOnBusy(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx, q,
			nameKey(entry.Name), entry.Name, entry.GramsPerCup, boolToInt(entry.Dry), string(aliases),
			time.Now().UTC().Format(time.RFC3339))
		return execErr
	})
	if err != nil {
		return fmt.Errorf("upsert density %q: %w", entry.Name, err)
	}
	s.log.Debug("upserted density %s", entry.Name)
	return nil
}

// Get retrieves an entry by name. Names compare case-insensitively.
func (s *SQLiteStore) Get(ctx context.Context, name string) (*domain.DensityEntry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT name, grams_per_cup, dry, aliases FROM densities WHERE name_key = ?", nameKey(name))
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get density %q: %w", name, err)
	}
	return &e, nil
}

// List returns all entries sorted by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.DensityEntry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, grams_per_cup, dry, aliases FROM densities")
	if err != nil {
		return nil, fmt.Errorf("list densities: %w", err)
	}
	defer rows.Close()

	var out []domain.DensityEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan density: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate densities: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes an entry by name.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, "DELETE FROM densities WHERE name_key = ?", nameKey(name))
		return execErr
	})
	if err != nil {
		return fmt.Errorf("delete density %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete density %q: %w", name, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	s.log.Debug("deleted density %s", name)
	return nil
}

// Count returns the number of stored entries.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM densities").Scan(&n); err != nil {
		return 0, fmt.Errorf("count densities: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (domain.DensityEntry, error) {
	var (
		e       domain.DensityEntry
		dry     int
		aliases string
	)
	if err := row.Scan(&e.Name, &e.GramsPerCup, &dry, &aliases); err != nil {
		return domain.DensityEntry{}, err
	}
	e.Dry = dry != 0
	if aliases != "" {
		if err := json.Unmarshal([]byte(aliases), &e.Aliases); err != nil {
			return domain.DensityEntry{}, fmt.Errorf("decode aliases for %q: %w", e.Name, err)
		}
	}
	return e, nil
}

type migration struct {
	version string
	sql     string
}

func loadMigrations() ([]migration, error) {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	out := make([]migration, 0, len(names))
	for _, name := range names {
		data, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		out = append(out, migration{version: strings.TrimSuffix(name, ".sql"), sql: string(data)})
	}
	return out, nil
}

func (s *SQLiteStore) applyMigrations(ctx context.Context) error {
	migrations, err := loadMigrations()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)"); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_migrations WHERE version = ?", m.version).Scan(&count); err != nil {
			return fmt.Errorf("scan migration version: %w", err)
		}
		if count > 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("record migration %s: %w", m.version, err)
		}
		s.log.Debug("applied migration %s", m.version)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// normalizeEntry trims the name and aliases, drops blank or repeated aliases
// and validates the result.
func normalizeEntry(e domain.DensityEntry) (domain.DensityEntry, error) {
	e.Name = strings.TrimSpace(e.Name)
	if err := density.Validate(e); err != nil {
		return domain.DensityEntry{}, err
	}
	seen := map[string]bool{nameKey(e.Name): true}
	var aliases []string
	for _, a := range e.Aliases {
		a = strings.TrimSpace(a)
		if a == "" || seen[nameKey(a)] {
			continue
		}
		seen[nameKey(a)] = true
		aliases = append(aliases, a)
	}
	e.Aliases = aliases
	return e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
