package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/avicola-labs/avisearch-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is the SQLite-backed ordered chunk list of one index.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the document database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	// WAL mode for concurrent readers during serving.
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

// Append adds chunks at the end of the store. Positions are assigned
// from the current count, preserving the vector pairing.
func (s *Store) Append(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	row := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(position), -1) + 1 FROM documents")
	if err := row.Scan(&next); err != nil {
		return fmt.Errorf("getting next position: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (position, id, text, metadata)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, chunk := range chunks {
		metaJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, next+i, chunk.ID, chunk.Text, string(metaJSON)); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", next+i, err)
		}
	}

	return tx.Commit()
}

// Get returns the chunk at the given position.
func (s *Store) Get(ctx context.Context, position int) (domain.Chunk, error) {
	var (
		chunk    domain.Chunk
		metaJSON string
	)

	row := s.db.QueryRowContext(ctx, `
		SELECT id, text, metadata FROM documents WHERE position = ?
	`, position)
	if err := row.Scan(&chunk.ID, &chunk.Text, &metaJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Chunk{}, fmt.Errorf("%w: position %d", domain.ErrNotFound, position)
		}
		return domain.Chunk{}, fmt.Errorf("getting chunk: %w", err)
	}

	if err := json.Unmarshal([]byte(metaJSON), &chunk.Metadata); err != nil {
		return domain.Chunk{}, fmt.Errorf("unmarshalling metadata: %w", err)
	}
	return chunk, nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
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
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
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
