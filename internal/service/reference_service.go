package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lennonalatorre/claimflow/internal/domain"
	"github.com/lennonalatorre/claimflow/internal/port"
)

// ReferenceService manages the counselor and insurer reference lists and
// resolves which counselor an ERA belongs to.
type ReferenceService interface {
	CreateCounselor(ctx context.Context, name string) (*domain.Counselor, error)
	ListCounselors(ctx context.Context) ([]domain.Counselor, error)
	DeactivateCounselor(ctx context.Context, id uuid.UUID) error
	ResolveCounselor(ctx context.Context, requested string, claim *domain.RawClaim) (string, error)

	CreateInsurer(ctx context.Context, name string) (*domain.Insurer, error)
	ListInsurers(ctx context.Context) ([]domain.Insurer, error)
	DeleteInsurer(ctx context.Context, id uuid.UUID) error
}

type referenceService struct {
	counselors port.CounselorRepository
	insurers   port.InsurerRepository
}

// NewReferenceService creates a new ReferenceService implementation.
func NewReferenceService(counselors port.CounselorRepository, insurers port.InsurerRepository) ReferenceService {
	return &referenceService{counselors: counselors, insurers: insurers}
}

func (s *referenceService) CreateCounselor(ctx context.Context, name string) (*domain.Counselor, error) {
	counselor := &domain.Counselor{Name: strings.TrimSpace(name), IsActive: true}
	if counselor.Name == "" {
		return nil, domain.ErrCounselorRequired
	}
	if err := s.counselors.Create(ctx, counselor); err != nil {
		return nil, fmt.Errorf("referenceService.CreateCounselor: %w", err)
	}
	return counselor, nil
}

func (s *referenceService) ListCounselors(ctx context.Context) ([]domain.Counselor, error) {
	return s.counselors.ListActive(ctx)
}

func (s *referenceService) DeactivateCounselor(ctx context.Context, id uuid.UUID) error {
	return s.counselors.Deactivate(ctx, id)
}

// ResolveCounselor returns the counselor a claim should be booked under.
// An explicit request wins after verification against the reference list;
// otherwise the claim text is scanned for a known counselor name.
func (s *referenceService) ResolveCounselor(ctx context.Context, requested string, claim *domain.RawClaim) (string, error) {
	if requested = strings.TrimSpace(requested); requested != "" {
		counselor, err := s.counselors.GetByName(ctx, requested)
		if err != nil {
			return "", domain.ErrUnknownCounselor
		}
		return counselor.Name, nil
	}

	active, err := s.counselors.ListActive(ctx)
	if err != nil {
		return "", fmt.Errorf("referenceService.ResolveCounselor: %w", err)
	}
	if name := detectCounselor(claim, active); name != "" {
		return name, nil
	}
	return "", domain.ErrCounselorRequired
}

// detectCounselor scans the claim's text fields for a known counselor name.
// Honorifics are dropped so "Dr Jordan Reyes" still matches a plain entry.
func detectCounselor(claim *domain.RawClaim, counselors []domain.Counselor) string {
	blob := strings.ToLower(strings.Join([]string{
		claim.Client.Value,
		claim.Insurance.Value,
		claim.Remarks.Value,
		claim.RawText,
	}, " "))

	for _, c := range counselors {
		name := strings.ToLower(c.Name)
		short := name
		for _, h := range []string{"dr. ", "dr "} {
			short = strings.TrimPrefix(short, h)
		}
		if strings.Contains(blob, name) || (short != name && strings.Contains(blob, short)) {
			return c.Name
		}
	}
	return ""
}

func (s *referenceService) CreateInsurer(ctx context.Context, name string) (*domain.Insurer, error) {
	insurer := &domain.Insurer{Name: strings.TrimSpace(name)}
	if insurer.Name == "" {
		return nil, fmt.Errorf("referenceService.CreateInsurer: empty name")
	}
	if err := s.insurers.Create(ctx, insurer); err != nil {
		return nil, fmt.Errorf("referenceService.CreateInsurer: %w", err)
	}
	return insurer, nil
}

func (s *referenceService) ListInsurers(ctx context.Context) ([]domain.Insurer, error) {
	return s.insurers.List(ctx)
}

func (s *referenceService) DeleteInsurer(ctx context.Context, id uuid.UUID) error {
	return s.insurers.Delete(ctx, id)
}
