package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/wikiforge/requestwiki/pkg/identity"
	"github.com/wikiforge/requestwiki/pkg/request"
)

// SQLite persists requests in a local sqlite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite creates or opens the request database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		dbname TEXT NOT NULL,
		sitename TEXT NOT NULL,
		subdomain TEXT NOT NULL,
		language TEXT NOT NULL,
		description TEXT NOT NULL,
		public_description TEXT NOT NULL DEFAULT '',
		purpose TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		private INTEGER NOT NULL DEFAULT 0,
		bio INTEGER NOT NULL DEFAULT 0,
		migration INTEGER NOT NULL DEFAULT 0,
		migration_location TEXT NOT NULL DEFAULT '',
		migration_type TEXT NOT NULL DEFAULT '',
		migration_details TEXT NOT NULL DEFAULT '',
		requester_id INTEGER NOT NULL,
		requester_name TEXT NOT NULL,
		status TEXT NOT NULL,
		visibility INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_requests_dbname ON requests(dbname);
	CREATE INDEX IF NOT EXISTS idx_requests_status ON requests(status);

	CREATE TABLE IF NOT EXISTS comments (
		id TEXT PRIMARY KEY,
		request_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		author_id INTEGER NOT NULL,
		author_name TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		text TEXT NOT NULL,
		FOREIGN KEY (request_id) REFERENCES requests(id)
	);
	CREATE INDEX IF NOT EXISTS idx_comments_request ON comments(request_id, position);

	CREATE TABLE IF NOT EXISTS wikis (
		dbname TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Create inserts the request and its comments, returning the new id.
func (s *SQLite) Create(ctx context.Context, req *request.WikiRequest) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO requests (
			dbname, sitename, subdomain, language, description,
			public_description, purpose, category, private, bio,
			migration, migration_location, migration_type, migration_details,
			requester_id, requester_name, status, visibility, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.DBName, req.Sitename, req.Subdomain, req.Language, req.Description,
		req.PublicDescription, req.Purpose, req.Category, req.Private, req.Bio,
		req.Migration, req.MigrationLocation, string(req.MigrationType), req.MigrationDetails,
		req.Requester.ID, req.Requester.Name, string(req.Status), int(req.Visibility), req.Timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("insert request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := insertComments(ctx, tx, id, 0, req.Comments); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// Get loads the request and its comment thread.
func (s *SQLite) Get(ctx context.Context, id int64) (*request.WikiRequest, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, dbname, sitename, subdomain, language, description,
			public_description, purpose, category, private, bio,
			migration, migration_location, migration_type, migration_details,
			requester_id, requester_name, status, visibility, created_at
		FROM requests WHERE id = ?`, id)

	req := &request.WikiRequest{}
	var status, migrationType string
	var visibility int
	err := row.Scan(
		&req.ID, &req.DBName, &req.Sitename, &req.Subdomain, &req.Language, &req.Description,
		&req.PublicDescription, &req.Purpose, &req.Category, &req.Private, &req.Bio,
		&req.Migration, &req.MigrationLocation, &migrationType, &req.MigrationDetails,
		&req.Requester.ID, &req.Requester.Name, &status, &visibility, &req.Timestamp,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load request %d: %w", id, err)
	}
	req.Status = request.Status(status)
	req.MigrationType = request.MigrationType(migrationType)
	req.Visibility = request.Visibility(visibility)

	rows, err := s.db.QueryContext(ctx, `
		SELECT author_id, author_name, created_at, text
		FROM comments WHERE request_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load comments for %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var comment request.Comment
		var author identity.Ref
		if err := rows.Scan(&author.ID, &author.Name, &comment.Timestamp, &comment.Text); err != nil {
			return nil, err
		}
		comment.Author = author
		req.Comments = append(req.Comments, comment)
	}
	return req, rows.Err()
}

// Update overwrites the request row and appends any new comments. The
// thread is append-only, so only the tail past the stored count is
// inserted.
func (s *SQLite) Update(ctx context.Context, req *request.WikiRequest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE requests SET
			dbname = ?, sitename = ?, subdomain = ?, language = ?, description = ?,
			public_description = ?, purpose = ?, category = ?, private = ?, bio = ?,
			migration = ?, migration_location = ?, migration_type = ?, migration_details = ?,
			status = ?, visibility = ?
		WHERE id = ?`,
		req.DBName, req.Sitename, req.Subdomain, req.Language, req.Description,
		req.PublicDescription, req.Purpose, req.Category, req.Private, req.Bio,
		req.Migration, req.MigrationLocation, string(req.MigrationType), req.MigrationDetails,
		string(req.Status), int(req.Visibility), req.ID,
	)
	if err != nil {
		return fmt.Errorf("update request %d: %w", req.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	var stored int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE request_id = ?`, req.ID).Scan(&stored); err != nil {
		return err
	}
	if stored < len(req.Comments) {
		if err := insertComments(ctx, tx, req.ID, stored, req.Comments[stored:]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SubdomainExists checks the created-wikis table.
func (s *SQLite) SubdomainExists(ctx context.Context, dbname string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM wikis WHERE dbname = ?`, dbname).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddWiki registers a created wiki's database name.
func (s *SQLite) AddWiki(ctx context.Context, dbname string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wikis (dbname, created_at) VALUES (?, ?)
		ON CONFLICT (dbname) DO NOTHING`, dbname, time.Now().UTC())
	return err
}

func insertComments(ctx context.Context, tx *sql.Tx, requestID int64, offset int, comments []request.Comment) error {
	for i, comment := range comments {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO comments (id, request_id, position, author_id, author_name, created_at, text)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), requestID, offset+i,
			comment.Author.ID, comment.Author.Name, comment.Timestamp, comment.Text,
		)
		if err != nil {
			return fmt.Errorf("insert comment %d for request %d: %w", offset+i, requestID, err)
		}
	}
	return nil
}
