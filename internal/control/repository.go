package control

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/esphome-dash/designer-core/internal/binding"
)

// Repository defines the interface for custom control persistence.
// This abstraction allows different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Definition, error)
	List(ctx context.Context) ([]Definition, error)
	Create(ctx context.Context, d *Definition) error
	Update(ctx context.Context, d *Definition) error
	Delete(ctx context.Context, id string) error
}

// controlColumns is the SELECT column list for custom control queries.
const controlColumns = `id, name, category, description, parameters, template,
			default_width, default_height, created_at, updated_at`

// SQLiteRepository implements Repository using SQLite. Parameters and the
// template are stored as JSON documents.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetByID retrieves a custom control by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Definition, error) {
	query := `SELECT ` + controlColumns + ` FROM custom_controls WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	d, err := scanDefinition(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying control by id: %w", err)
	}
	return d, nil
}

// List retrieves all custom controls ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]Definition, error) {
	query := `SELECT ` + controlColumns + ` FROM custom_controls ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing controls: %w", err)
	}
	defer rows.Close()

	var defs []Definition
	for rows.Next() {
		d, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning control: %w", err)
		}
		defs = append(defs, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating controls: %w", err)
	}
	return defs, nil
}

// Create inserts a new custom control.
func (r *SQLiteRepository) Create(ctx context.Context, d *Definition) error {
	paramsJSON, templateJSON, err := marshalDefinition(d)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO custom_controls (
			id, name, category, description, parameters, template,
			default_width, default_height, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		d.ID, d.Name, d.Category, d.Description, paramsJSON, templateJSON,
		d.DefaultSize.Width, d.DefaultSize.Height,
		d.CreatedAt.Format(time.RFC3339), d.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrExists
		}
		return fmt.Errorf("inserting control: %w", err)
	}
	return nil
}

// Update replaces an existing custom control.
func (r *SQLiteRepository) Update(ctx context.Context, d *Definition) error {
	paramsJSON, templateJSON, err := marshalDefinition(d)
	if err != nil {
		return err
	}

	query := `
		UPDATE custom_controls
		SET name = ?, category = ?, description = ?, parameters = ?, template = ?,
		    default_width = ?, default_height = ?, updated_at = ?
		WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query,
		d.Name, d.Category, d.Description, paramsJSON, templateJSON,
		d.DefaultSize.Width, d.DefaultSize.Height,
		d.UpdatedAt.Format(time.RFC3339), d.ID)
	if err != nil {
		return fmt.Errorf("updating control: %w", err)
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

// Delete removes a custom control.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM custom_controls WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting control: %w", err)
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

func marshalDefinition(d *Definition) (params, template string, err error) {
	paramsJSON, err := json.Marshal(d.Parameters)
	if err != nil {
		return "", "", fmt.Errorf("marshalling parameters: %w", err)
	}
	templateJSON, err := json.Marshal(d.Template)
	if err != nil {
		return "", "", fmt.Errorf("marshalling template: %w", err)
	}
	return string(paramsJSON), string(templateJSON), nil
}

// rowScanner abstracts sql.Row and sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDefinition(row rowScanner) (*Definition, error) {
	var (
		d            Definition
		paramsJSON   string
		templateJSON string
		createdAt    string
		updatedAt    string
	)
	if err := row.Scan(&d.ID, &d.Name, &d.Category, &d.Description,
		&paramsJSON, &templateJSON,
		&d.DefaultSize.Width, &d.DefaultSize.Height,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(paramsJSON), &d.Parameters); err != nil {
		return nil, fmt.Errorf("unmarshalling parameters: %w", err)
	}
	if err := json.Unmarshal([]byte(templateJSON), &d.Template); err != nil {
		return nil, fmt.Errorf("unmarshalling template: %w", err)
	}
	if d.Parameters == nil {
		d.Parameters = []binding.ControlParameter{}
	}

	var err error
	if d.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if d.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &d, nil
}
