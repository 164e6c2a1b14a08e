package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/lennonalatorre/claimflow/internal/domain"
	"github.com/lennonalatorre/claimflow/internal/enhance"
	"github.com/lennonalatorre/claimflow/internal/pipeline"
	"github.com/lennonalatorre/claimflow/internal/port"
	"github.com/lennonalatorre/claimflow/internal/recognition"
)

// ProcessInput is the DTO for a single claim processing request.
type ProcessInput struct {
	ImagePath string
	Counselor string
	Insurance string
	Overrides pipeline.Overrides
}

// ProcessOutput bundles the pipeline result with its persisted audit row.
type ProcessOutput struct {
	Claim  domain.ProcessedClaim `json:"claim"`
	Record domain.ClaimRecord    `json:"record"`
}

// ClaimService runs the full claim pipeline: recognition, enhancement,
// classification, validation, calculation, persistence and ledger append.
type ClaimService interface {
	Process(ctx context.Context, input ProcessInput) (*ProcessOutput, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.ClaimRecord, error)
	List(ctx context.Context, counselor string, offset, limit int) ([]domain.ClaimRecord, int, error)
	CounselorTotals(ctx context.Context) ([]domain.CounselorTotal, error)
	ImageURL(ctx context.Context, id uuid.UUID) (string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type claimService struct {
	engine        port.RecognitionEngine
	enhancer      port.NameEnhancer
	refs          ReferenceService
	claims        port.ClaimRepository
	ledger        port.LedgerWriter
	storage       port.ObjectStorage
	bucket        string
	presignExpiry int64
}

// NewClaimService creates a new ClaimService implementation. storage may be
// nil, which disables the image archive.
func NewClaimService(
	engine port.RecognitionEngine,
	enhancer port.NameEnhancer,
	refs ReferenceService,
	claims port.ClaimRepository,
	ledger port.LedgerWriter,
	storage port.ObjectStorage,
	bucket string,
	presignExpiry int64,
) ClaimService {
	return &claimService{
		engine:        engine,
		enhancer:      enhancer,
		refs:          refs,
		claims:        claims,
		ledger:        ledger,
		storage:       storage,
		bucket:        bucket,
		presignExpiry: presignExpiry,
	}
}

func (s *claimService) Process(ctx context.Context, input ProcessInput) (*ProcessOutput, error) {
	text, err := s.engine.Recognize(ctx, input.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("claimService.Process: %w", err)
	}

	raw := recognition.ParseERAText(text, "")

	if enhance.NeedsEnhancement(raw.Client.Or("")) {
		name, err := s.enhancer.ExtractClientName(ctx, input.ImagePath)
		if err != nil {
			log.Printf("claimService: name enhancement failed (%s): %v", s.enhancer.Name(), err)
		} else if name != "" {
			raw.Client = domain.NewField(name)
		}
	}

	counselor, err := s.refs.ResolveCounselor(ctx, input.Counselor, &raw)
	if err != nil {
		return nil, fmt.Errorf("claimService.Process: %w", err)
	}
	if input.Insurance != "" {
		raw.Insurance = domain.NewField(input.Insurance)
	}

	processed := pipeline.Assemble(raw, input.Overrides)

	record, err := s.buildRecord(counselor, &processed)
	if err != nil {
		return nil, fmt.Errorf("claimService.Process: %w", err)
	}

	s.archiveImage(ctx, input.ImagePath, record)

	if err := s.claims.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("claimService.Process: %w", err)
	}

	if err := s.ledger.Append(ctx, counselor, &processed); err != nil {
		return nil, fmt.Errorf("claimService.Process: %w: %v", domain.ErrLedgerWrite, err)
	}

	log.Printf("claimService: processed claim %s for %s (payout $%.2f, valid=%v)",
		record.ID, counselor, processed.Calculation.PayoutToCounselor, processed.Calculation.Valid)

	return &ProcessOutput{Claim: processed, Record: *record}, nil
}

func (s *claimService) buildRecord(counselor string, processed *domain.ProcessedClaim) (*domain.ClaimRecord, error) {
	warnings := append([]string{}, processed.Report.Warnings...)
	warnings = append(warnings, processed.Calculation.Warnings...)
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return nil, fmt.Errorf("marshal warnings: %w", err)
	}

	nums := &processed.Report.Normalized
	return &domain.ClaimRecord{
		Counselor:         counselor,
		Client:            processed.Raw.Client.Or(""),
		Insurance:         processed.Raw.Insurance.Or(""),
		ServiceDate:       processed.Raw.Date.Or(""),
		Copay:             nums.Copay.Or(0),
		Deductible:        nums.Deductible.Or(0),
		InsurancePayment:  nums.InsurancePayment.Or(0),
		ContractedRate:    processed.Calculation.ContractedRate,
		CounselorShare65:  processed.Calculation.CounselorShare65,
		PayoutToCounselor: processed.Calculation.PayoutToCounselor,
		OrgShare35:        processed.Calculation.OrgShare35,
		PatientOwes:       processed.Classification.PatientOwes,
		Classification:    processed.Classification.Label,
		CodesFound:        strings.Join(processed.Classification.CodeStrings(), " "),
		Remarks:           processed.Raw.Remarks.Or(""),
		Warnings:          warningsJSON,
	}, nil
}

// archiveImage uploads the screenshot for audit. Best effort: a failed
// upload is logged but never blocks the payout pipeline.
func (s *claimService) archiveImage(ctx context.Context, path string, record *domain.ClaimRecord) {
	if s.storage == nil {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		log.Printf("claimService: archive open %s: %v", path, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		log.Printf("claimService: archive stat %s: %v", path, err)
		return
	}

	key := fmt.Sprintf("claims/%s/%s", uuid.New(), filepath.Base(path))
	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        f,
		ContentType: contentTypeFor(path),
		Size:        info.Size(),
	})
	if err != nil {
		log.Printf("claimService: archive upload %s: %v", path, err)
		return
	}
	record.ImageBucket = s.bucket
	record.ImageKey = key
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

func (s *claimService) Get(ctx context.Context, id uuid.UUID) (*domain.ClaimRecord, error) {
	return s.claims.GetByID(ctx, id)
}

func (s *claimService) List(ctx context.Context, counselor string, offset, limit int) ([]domain.ClaimRecord, int, error) {
	if counselor != "" {
		return s.claims.ListByCounselor(ctx, counselor, offset, limit)
	}
	return s.claims.List(ctx, offset, limit)
}

func (s *claimService) CounselorTotals(ctx context.Context) ([]domain.CounselorTotal, error) {
	return s.claims.CounselorTotals(ctx)
}

// ImageURL presigns the archived screenshot for a claim.
func (s *claimService) ImageURL(ctx context.Context, id uuid.UUID) (string, error) {
	record, err := s.claims.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if s.storage == nil || record.ImageKey == "" {
		return "", domain.ErrNotFound
	}
	url, err := s.storage.GetPresignedURL(ctx, record.ImageBucket, record.ImageKey, s.presignExpiry)
	if err != nil {
		return "", fmt.Errorf("claimService.ImageURL: %w", err)
	}
	return url, nil
}

func (s *claimService) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := s.claims.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.claims.Delete(ctx, id); err != nil {
		return err
	}
	if s.storage != nil && record.ImageKey != "" {
		if err := s.storage.Delete(ctx, record.ImageBucket, record.ImageKey); err != nil {
			log.Printf("claimService: delete archived image %s: %v", record.ImageKey, err)
		}
	}
	return nil
}
