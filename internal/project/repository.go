package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for project persistence.
// This abstraction allows different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]Project, error)
	Create(ctx context.Context, p *Project) error
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id string) error

	// GetDefault returns the single working layout, creating an empty one
	// on first access.
	GetDefault(ctx context.Context) (*Project, error)
	// SetDefault replaces the working layout wholesale.
	SetDefault(ctx context.Context, p *Project) error
}

// DefaultProjectID is the fixed id of the single working layout.
const DefaultProjectID = "default"

// projectColumns is the SELECT column list for project queries.
const projectColumns = `id, name, schema_version, pages, created_at, updated_at`

// SQLiteRepository implements Repository using SQLite. Pages are stored as
// one JSON document per project; the designer always loads and saves whole
// layouts, so per-widget columns would buy nothing.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetByID retrieves a project by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying project by id: %w", err)
	}
	return p, nil
}

// List retrieves all projects ordered by name. The default working layout
// is excluded; it is reachable only through GetDefault.
func (r *SQLiteRepository) List(ctx context.Context) ([]Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id != ? ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, DefaultProjectID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

// Create inserts a new project.
func (r *SQLiteRepository) Create(ctx context.Context, p *Project) error {
	if err := CheckSchemaVersion(p.SchemaVersion); err != nil {
		return err
	}
	pagesJSON, err := json.Marshal(p.Pages)
	if err != nil {
		return fmt.Errorf("marshalling pages: %w", err)
	}

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	query := `
		INSERT INTO projects (id, name, schema_version, pages, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.SchemaVersion, string(pagesJSON),
		p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrExists
		}
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

// Update replaces an existing project's name and pages.
func (r *SQLiteRepository) Update(ctx context.Context, p *Project) error {
	if err := CheckSchemaVersion(p.SchemaVersion); err != nil {
		return err
	}
	pagesJSON, err := json.Marshal(p.Pages)
	if err != nil {
		return fmt.Errorf("marshalling pages: %w", err)
	}

	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE projects
		SET name = ?, schema_version = ?, pages = ?, updated_at = ?
		WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query,
		p.Name, p.SchemaVersion, string(pagesJSON),
		p.UpdatedAt.Format(time.RFC3339), p.ID)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a project. The default working layout cannot be deleted.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if id == DefaultProjectID {
		return fmt.Errorf("%w: default layout cannot be deleted", ErrInvalidName)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetDefault returns the working layout, creating an empty one on first use.
func (r *SQLiteRepository) GetDefault(ctx context.Context) (*Project, error) {
	p, err := r.GetByID(ctx, DefaultProjectID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	p = New("Layout")
	p.ID = DefaultProjectID
	if err := r.Create(ctx, p); err != nil && !errors.Is(err, ErrExists) {
		return nil, err
	}
	return r.GetByID(ctx, DefaultProjectID)
}

// SetDefault replaces the working layout wholesale.
func (r *SQLiteRepository) SetDefault(ctx context.Context, p *Project) error {
	p.ID = DefaultProjectID
	if _, err := r.GetDefault(ctx); err != nil {
		return err
	}
	return r.Update(ctx, p)
}

// rowScanner abstracts sql.Row and sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*Project, error) {
	var (
		p         Project
		pagesJSON string
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.SchemaVersion, &pagesJSON, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := CheckSchemaVersion(p.SchemaVersion); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(pagesJSON), &p.Pages); err != nil {
		return nil, fmt.Errorf("unmarshalling pages: %w", err)
	}

	var err error
	if p.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &p, nil
}

// isUniqueViolation detects a SQLite primary-key conflict without binding
// the repository to driver-specific error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
