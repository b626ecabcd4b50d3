package preset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/lib/pq"

	"starmap-server/internal/shared/database"
)

// ErrDuplicateName is returned when a preset with the same name already exists.
var ErrDuplicateName = errors.New("preset name already exists")

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

// Store persists presets. Get returns nil, nil when the preset does not exist.
type Store interface {
	Create(ctx context.Context, p *Preset) (*Preset, error)
	Get(ctx context.Context, id int) (*Preset, error)
	List(ctx context.Context) ([]Preset, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type Repository struct {
	db     database.Executor
	logger *slog.Logger
}

func NewRepository(db database.Executor, logger *slog.Logger) *Repository {
	logger.Debug("Initializing preset repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) Create(ctx context.Context, p *Preset) (*Preset, error) {
	logger := r.logger.With("component", "preset_repository", "operation", "create_preset", "name", p.Name)
	logger.Info("Creating preset")

	queryJSON, err := json.Marshal(p.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preset query: %w", err)
	}

	query := `
		INSERT INTO search_presets (name, description, query, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	created := *p
	err = r.db.QueryRowContext(ctx, query, p.Name, p.Description, queryJSON, p.CreatedBy).Scan(
		&created.ID,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			logger.Debug("Preset name taken")
			return nil, ErrDuplicateName
		}
		logger.Error("Failed to create preset", "error", err)
		return nil, fmt.Errorf("failed to create preset: %w", err)
	}

	logger.Info("Preset created successfully", "preset_id", created.ID)
	return &created, nil
}

func (r *Repository) Get(ctx context.Context, id int) (*Preset, error) {
	logger := r.logger.With("component", "preset_repository", "operation", "get_preset", "preset_id", id)
	logger.Debug("Getting preset by ID")

	query := `
		SELECT id, name, description, query, created_by, created_at, updated_at
		FROM search_presets
		WHERE id = $1
	`

	p, err := scanPreset(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Debug("Preset not found")
			return nil, nil
		}
		logger.Error("Database error getting preset", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	return p, nil
}

func (r *Repository) List(ctx context.Context) ([]Preset, error) {
	logger := r.logger.With("component", "preset_repository", "operation", "list_presets")
	logger.Debug("Listing presets")

	query := `
		SELECT id, name, description, query, created_by, created_at, updated_at
		FROM search_presets
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("Failed to query presets", "error", err)
		return nil, fmt.Errorf("failed to query presets: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	presets := []Preset{}
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			logger.Error("Failed to scan preset", "error", err)
			return nil, fmt.Errorf("failed to scan preset: %w", err)
		}
		presets = append(presets, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate presets: %w", err)
	}

	logger.Debug("Presets retrieved", "count", len(presets))
	return presets, nil
}

func (r *Repository) Delete(ctx context.Context, id int) (bool, error) {
	logger := r.logger.With("component", "preset_repository", "operation", "delete_preset", "preset_id", id)
	logger.Info("Deleting preset")

	result, err := r.db.ExecContext(ctx, `DELETE FROM search_presets WHERE id = $1`, id)
	if err != nil {
		logger.Error("Failed to delete preset", "error", err)
		return false, fmt.Errorf("failed to delete preset: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPreset(row scanner) (*Preset, error) {
	var p Preset
	var queryJSON []byte
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &queryJSON, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(queryJSON, &p.Query); err != nil {
		return nil, fmt.Errorf("failed to decode preset %d query: %w", p.ID, err)
	}
	return &p, nil
}
