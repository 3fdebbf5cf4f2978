package iostore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/annolab/pivot/internal/contract"
	"github.com/annolab/pivot/schema"
	_ "github.com/go-sql-driver/mysql"   // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib"   // PostgreSQL driver
	_ "modernc.org/sqlite"               // SQLite driver (pure Go)
)

// resultsTableName holds the raw annotation results, the largest table by
// far; the lookup tables keep their literal names.
const resultsTableName = "annotation_results"

// SQLResultStore handles durable storage using various database backends.
type SQLResultStore struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
	location   string
}

var _ contract.ResultStore = &SQLResultStore{} // Compile-time check

// NewResultStore initializes and returns a ResultStore for the backend.
// NoneBackend yields an in-memory store scoped to the process.
func NewResultStore(backend schema.DatabaseBackend, connStr string) (contract.ResultStore, error) {
	var db *sql.DB
	var err error
	var driverName, location string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetDBFilePath()
		}
		location = dbPath
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		driverName = "mysql"
		location = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL store: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=secret dbname=pivot
		driverName = "pgx"
		location = "postgresql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL store: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unsupported store backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	store := &SQLResultStore{
		db:         db,
		backend:    backend,
		driverName: driverName,
		connStr:    connStr,
		location:   location,
	}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// ensureSchema creates the store tables when missing. Versioned changes on
// top of this baseline go through Migrate.
func (s *SQLResultStore) ensureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS annotation_results (
			id BIGINT PRIMARY KEY,
			asset_id BIGINT NOT NULL,
			schema_id BIGINT NOT NULL,
			run_id BIGINT NOT NULL DEFAULT 0,
			value TEXT NOT NULL,
			status VARCHAR(16) NOT NULL,
			ts BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS annotation_schemas (
			id BIGINT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			output_contract TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS assets (
			id BIGINT PRIMARY KEY,
			title TEXT NOT NULL,
			source_id BIGINT NOT NULL DEFAULT 0,
			event_ts BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS sources (
			id BIGINT PRIMARY KEY,
			name VARCHAR(255) NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create store schema: %w", err)
		}
	}
	return nil
}

// placeholders renders n parameter markers in the backend's dialect.
func (s *SQLResultStore) placeholders(n int) []string {
	out := make([]string, n)
	for i := range out {
		if s.backend == schema.PostgreSQLBackend {
			out[i] = fmt.Sprintf("$%d", i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}

// upsertQuery builds an idempotent insert for the backend's dialect.
// Imports replay whole pages, so collisions on id are routine.
func (s *SQLResultStore) upsertQuery(table string, cols []string) string {
	ph := s.placeholders(len(cols))
	colList := ""
	phList := ""
	setList := ""
	for i, col := range cols {
		if i > 0 {
			colList += ", "
			phList += ", "
		}
		colList += col
		phList += ph[i]
		if i > 0 {
			if setList != "" {
				setList += ", "
			}
			if s.backend == schema.MySQLBackend {
				setList += fmt.Sprintf("%s=VALUES(%s)", col, col)
			} else {
				setList += fmt.Sprintf("%s=excluded.%s", col, col)
			}
		}
	}
	if s.backend == schema.MySQLBackend {
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s", table, colList, phList, setList)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s", table, colList, phList, setList)
}

// SaveResults upserts results in a single transaction.
func (s *SQLResultStore) SaveResults(results []schema.AnnotationResult) error {
	query := s.upsertQuery(resultsTableName, []string{"id", "asset_id", "schema_id", "run_id", "value", "status", "ts"})
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range results {
		value, err := json.Marshal(r.Value)
		if err != nil {
			return fmt.Errorf("failed to encode result %d value: %w", r.ID, err)
		}
		var ts int64
		if !r.Timestamp.IsZero() {
			ts = r.Timestamp.UTC().Unix()
		}
		if _, err := tx.Exec(query, r.ID, r.AssetID, r.SchemaID, r.RunID, string(value), string(r.Status), ts); err != nil {
			return fmt.Errorf("failed to save result %d: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// SaveSchemas upserts annotation schemas.
func (s *SQLResultStore) SaveSchemas(schemas []schema.AnnotationSchema) error {
	query := s.upsertQuery("annotation_schemas", []string{"id", "name", "output_contract"})
	for _, sc := range schemas {
		contract, err := json.Marshal(sc.OutputContract)
		if err != nil {
			return fmt.Errorf("failed to encode schema %d contract: %w", sc.ID, err)
		}
		if _, err := s.db.Exec(query, sc.ID, sc.Name, string(contract)); err != nil {
			return fmt.Errorf("failed to save schema %d: %w", sc.ID, err)
		}
	}
	return nil
}

// SaveAssets upserts assets.
func (s *SQLResultStore) SaveAssets(assets []schema.Asset) error {
	query := s.upsertQuery("assets", []string{"id", "title", "source_id", "event_ts"})
	for _, a := range assets {
		var ts int64
		if !a.EventTimestamp.IsZero() {
			ts = a.EventTimestamp.UTC().Unix()
		}
		if _, err := s.db.Exec(query, a.ID, a.Title, a.SourceID, ts); err != nil {
			return fmt.Errorf("failed to save asset %d: %w", a.ID, err)
		}
	}
	return nil
}

// SaveSources upserts sources.
func (s *SQLResultStore) SaveSources(sources []schema.Source) error {
	query := s.upsertQuery("sources", []string{"id", "name"})
	for _, src := range sources {
		if _, err := s.db.Exec(query, src.ID, src.Name); err != nil {
			return fmt.Errorf("failed to save source %d: %w", src.ID, err)
		}
	}
	return nil
}

// LoadResults returns stored results, optionally restricted to one run.
func (s *SQLResultStore) LoadResults(runID int64) ([]schema.AnnotationResult, error) {
	query := "SELECT id, asset_id, schema_id, run_id, value, status, ts FROM " + resultsTableName
	var args []any
	if runID != 0 {
		query += " WHERE run_id = " + s.placeholders(1)[0]
		args = append(args, runID)
	}
	query += " ORDER BY id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AnnotationResult
	for rows.Next() {
		var r schema.AnnotationResult
		var value, status string
		var ts int64
		if err := rows.Scan(&r.ID, &r.AssetID, &r.SchemaID, &r.RunID, &value, &status, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		if err := json.Unmarshal([]byte(value), &r.Value); err != nil {
			// Tolerate rows with corrupt values; the engine degrades them
			// to N/A categories.
			r.Value = nil
		}
		r.Status = schema.ResultStatus(status)
		if ts > 0 {
			r.Timestamp = time.Unix(ts, 0).UTC()
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// LoadSchemas returns all stored annotation schemas.
func (s *SQLResultStore) LoadSchemas() ([]schema.AnnotationSchema, error) {
	rows, err := s.db.Query("SELECT id, name, output_contract FROM annotation_schemas ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to load schemas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var schemas []schema.AnnotationSchema
	for rows.Next() {
		var sc schema.AnnotationSchema
		var contract string
		if err := rows.Scan(&sc.ID, &sc.Name, &contract); err != nil {
			return nil, fmt.Errorf("failed to scan schema: %w", err)
		}
		if err := json.Unmarshal([]byte(contract), &sc.OutputContract); err != nil {
			sc.OutputContract = nil
		}
		schemas = append(schemas, sc)
	}
	return schemas, rows.Err()
}

// LoadAssets returns all stored assets.
func (s *SQLResultStore) LoadAssets() ([]schema.Asset, error) {
	rows, err := s.db.Query("SELECT id, title, source_id, event_ts FROM assets ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var assets []schema.Asset
	for rows.Next() {
		var a schema.Asset
		var ts int64
		if err := rows.Scan(&a.ID, &a.Title, &a.SourceID, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		if ts > 0 {
			a.EventTimestamp = time.Unix(ts, 0).UTC()
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// LoadSources returns all stored sources.
func (s *SQLResultStore) LoadSources() ([]schema.Source, error) {
	rows, err := s.db.Query("SELECT id, name FROM sources ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sources []schema.Source
	for rows.Next() {
		var src schema.Source
		if err := rows.Scan(&src.ID, &src.Name); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// GetStatus reports row counts and result timestamp bounds.
func (s *SQLResultStore) GetStatus() (contract.StoreStatus, error) {
	status := contract.StoreStatus{
		Backend:  s.backend,
		Location: s.location,
	}
	if err := s.db.Ping(); err != nil {
		return status, nil
	}
	status.Connected = true

	counts := map[string]*int64{
		resultsTableName:     &status.Results,
		"annotation_schemas": &status.Schemas,
		"assets":             &status.Assets,
		"sources":            &status.Sources,
	}
	for table, dest := range counts {
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(dest); err != nil {
			return status, fmt.Errorf("failed to count %s: %w", table, err)
		}
	}

	var oldest, newest sql.NullInt64
	if err := s.db.QueryRow("SELECT MIN(ts), MAX(ts) FROM " + resultsTableName + " WHERE ts > 0").Scan(&oldest, &newest); err == nil {
		if oldest.Valid {
			status.Oldest = time.Unix(oldest.Int64, 0).UTC()
		}
		if newest.Valid {
			status.Newest = time.Unix(newest.Int64, 0).UTC()
		}
	}
	return status, nil
}

// Clear removes all stored rows while keeping the schema.
func (s *SQLResultStore) Clear() error {
	for _, table := range []string{resultsTableName, "annotation_schemas", "assets", "sources"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// Close releases the database handle.
func (s *SQLResultStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
