package source

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteSource serves rule sets from a SQLite blob store. It suits
// deployments that distribute code databases as a single file instead of
// a directory tree of rule sets.
type SQLiteSource struct {
	db     *sql.DB
	logger *slog.Logger

	loadStmt *sql.Stmt
	putStmt  *sql.Stmt
	listStmt *sql.Stmt
}

// NewSQLiteSource opens (or creates) a rule-set store at dbPath.
func NewSQLiteSource(dbPath string, logger *slog.Logger) (*SQLiteSource, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d", dbPath, int((5 * time.Second).Milliseconds()))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteSource{db: db, logger: logger}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteSource) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rule_sets (
		ref TEXT PRIMARY KEY,
		content BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteSource) prepareStatements() error {
	var err error

	s.loadStmt, err = s.db.Prepare(`SELECT content FROM rule_sets WHERE ref = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare load statement: %w", err)
	}

	s.putStmt, err = s.db.Prepare(`
		INSERT INTO rule_sets (ref, content, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (ref) DO UPDATE SET
			content = excluded.content,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare put statement: %w", err)
	}

	s.listStmt, err = s.db.Prepare(`SELECT ref FROM rule_sets ORDER BY ref`)
	if err != nil {
		return fmt.Errorf("failed to prepare list statement: %w", err)
	}

	return nil
}

// Load returns the rule set stored under ref.
func (s *SQLiteSource) Load(ctx context.Context, ref string) ([]byte, error) {
	var content []byte
	err := s.loadStmt.QueryRowContext(ctx, ref).Scan(&content)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("rule set not found: %q", ref)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rule set %q: %w", ref, err)
	}
	return content, nil
}

// Put stores a rule set under ref, replacing any previous content.
func (s *SQLiteSource) Put(ctx context.Context, ref string, content []byte) error {
	_, err := s.putStmt.ExecContext(ctx, ref, content, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to store rule set %q: %w", ref, err)
	}
	s.logger.Debug("stored rule set", "ref", ref, "bytes", len(content))
	return nil
}

// List returns all stored references in lexical order.
func (s *SQLiteSource) List(ctx context.Context) ([]string, error) {
	rows, err := s.listStmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rule sets: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteSource) Close() error {
	for _, stmt := range []*sql.Stmt{s.loadStmt, s.putStmt, s.listStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}
