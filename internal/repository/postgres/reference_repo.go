package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lennonalatorre/claimflow/internal/domain"
	"github.com/lennonalatorre/claimflow/internal/port"
)

type counselorRepo struct {
	db *sqlx.DB
}

// NewCounselorRepo creates a new PostgreSQL-backed CounselorRepository.
func NewCounselorRepo(db *sqlx.DB) port.CounselorRepository {
	return &counselorRepo{db: db}
}

func (r *counselorRepo) Create(ctx context.Context, counselor *domain.Counselor) error {
	counselor.ID = uuid.New()
	counselor.CreatedAt = time.Now().UTC()

	query := `INSERT INTO counselors (id, name, is_active, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		counselor.ID, counselor.Name, counselor.IsActive, counselor.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("counselorRepo.Create: %w", err)
	}
	return nil
}

func (r *counselorRepo) GetByName(ctx context.Context, name string) (*domain.Counselor, error) {
	var counselor domain.Counselor
	err := r.db.GetContext(ctx, &counselor,
		"SELECT * FROM counselors WHERE LOWER(name) = LOWER($1)", name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("counselorRepo.GetByName: %w", err)
	}
	return &counselor, nil
}

func (r *counselorRepo) ListActive(ctx context.Context) ([]domain.Counselor, error) {
	var counselors []domain.Counselor
	err := r.db.SelectContext(ctx, &counselors,
		"SELECT * FROM counselors WHERE is_active ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("counselorRepo.ListActive: %w", err)
	}
	return counselors, nil
}

func (r *counselorRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE counselors SET is_active = FALSE WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("counselorRepo.Deactivate: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("counselorRepo.Deactivate rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type insurerRepo struct {
	db *sqlx.DB
}

// NewInsurerRepo creates a new PostgreSQL-backed InsurerRepository.
func NewInsurerRepo(db *sqlx.DB) port.InsurerRepository {
	return &insurerRepo{db: db}
}

func (r *insurerRepo) Create(ctx context.Context, insurer *domain.Insurer) error {
	insurer.ID = uuid.New()
	insurer.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO insurers (id, name, created_at) VALUES ($1, $2, $3)",
		insurer.ID, insurer.Name, insurer.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("insurerRepo.Create: %w", err)
	}
	return nil
}

func (r *insurerRepo) List(ctx context.Context) ([]domain.Insurer, error) {
	var insurers []domain.Insurer
	err := r.db.SelectContext(ctx, &insurers, "SELECT * FROM insurers ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("insurerRepo.List: %w", err)
	}
	return insurers, nil
}

func (r *insurerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM insurers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("insurerRepo.Delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insurerRepo.Delete rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
