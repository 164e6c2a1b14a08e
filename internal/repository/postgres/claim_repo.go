package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lennonalatorre/claimflow/internal/domain"
	"github.com/lennonalatorre/claimflow/internal/port"
)

type claimRepo struct {
	db *sqlx.DB
}

// NewClaimRepo creates a new PostgreSQL-backed ClaimRepository.
func NewClaimRepo(db *sqlx.DB) port.ClaimRepository {
	return &claimRepo{db: db}
}

func (r *claimRepo) Create(ctx context.Context, record *domain.ClaimRecord) error {
	record.ID = uuid.New()
	record.CreatedAt = time.Now().UTC()

	query := `INSERT INTO claims (
		id, counselor, client, insurance, service_date,
		copay, deductible, insurance_payment, contracted_rate,
		counselor_share_65, payout_to_counselor, org_share_35,
		patient_owes, classification, codes_found, remarks, warnings,
		image_bucket, image_key, created_at
	) VALUES (
		:id, :counselor, :client, :insurance, :service_date,
		:copay, :deductible, :insurance_payment, :contracted_rate,
		:counselor_share_65, :payout_to_counselor, :org_share_35,
		:patient_owes, :classification, :codes_found, :remarks, :warnings,
		:image_bucket, :image_key, :created_at
	)`

	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("claimRepo.Create: %w", err)
	}
	return nil
}

func (r *claimRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClaimRecord, error) {
	var record domain.ClaimRecord
	err := r.db.GetContext(ctx, &record, "SELECT * FROM claims WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("claimRepo.GetByID: %w", err)
	}
	return &record, nil
}

func (r *claimRepo) ListByCounselor(ctx context.Context, counselor string, offset, limit int) ([]domain.ClaimRecord, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM claims WHERE counselor = $1", counselor)
	if err != nil {
		return nil, 0, fmt.Errorf("claimRepo.ListByCounselor count: %w", err)
	}

	var records []domain.ClaimRecord
	err = r.db.SelectContext(ctx, &records,
		"SELECT * FROM claims WHERE counselor = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		counselor, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("claimRepo.ListByCounselor: %w", err)
	}
	return records, total, nil
}

func (r *claimRepo) List(ctx context.Context, offset, limit int) ([]domain.ClaimRecord, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM claims"); err != nil {
		return nil, 0, fmt.Errorf("claimRepo.List count: %w", err)
	}

	var records []domain.ClaimRecord
	err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM claims ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("claimRepo.List: %w", err)
	}
	return records, total, nil
}

func (r *claimRepo) CounselorTotals(ctx context.Context) ([]domain.CounselorTotal, error) {
	var totals []domain.CounselorTotal
	err := r.db.SelectContext(ctx, &totals, `
		SELECT counselor,
		       COUNT(*) AS claim_count,
		       COALESCE(SUM(payout_to_counselor), 0) AS total_payout
		FROM claims
		GROUP BY counselor
		ORDER BY counselor`)
	if err != nil {
		return nil, fmt.Errorf("claimRepo.CounselorTotals: %w", err)
	}
	return totals, nil
}

func (r *claimRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM claims WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("claimRepo.Delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("claimRepo.Delete rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
