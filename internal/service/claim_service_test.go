package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lennonalatorre/claimflow/internal/domain"
	"github.com/lennonalatorre/claimflow/internal/port"
	"github.com/lennonalatorre/claimflow/internal/service"
	"github.com/lennonalatorre/claimflow/mocks"
)

// Copay, deductible and payment sum to the charged rate so the pipeline
// produces no warnings.
const eraText = `EXPLANATION OF REMITTANCE - PRIMARY PROCESSED
Patient: DOE JANE - 0042
Claim # 2026061501
Service Date Service Code Charged Rate Patient Amount Adjustments Paid Amount
06/15/2026 90837 $107.01 $15.00 $42.99 $92.01
PR-3: Copay
CO-45: Charges exceed fee schedule
Claim Totals $107.01 $15.00 $42.99 $92.01`

type claimServiceMocks struct {
	engine   *mocks.MockRecognitionEngine
	enhancer *mocks.MockNameEnhancer
	refs     *mocks.MockReferenceService
	claims   *mocks.MockClaimRepository
	ledger   *mocks.MockLedgerWriter
	storage  *mocks.MockObjectStorage
}

func newClaimService(withStorage bool) (service.ClaimService, *claimServiceMocks) {
	m := &claimServiceMocks{
		engine:   new(mocks.MockRecognitionEngine),
		enhancer: new(mocks.MockNameEnhancer),
		refs:     new(mocks.MockReferenceService),
		claims:   new(mocks.MockClaimRepository),
		ledger:   new(mocks.MockLedgerWriter),
	}
	var storage port.ObjectStorage
	if withStorage {
		m.storage = new(mocks.MockObjectStorage)
		storage = m.storage
	}
	svc := service.NewClaimService(m.engine, m.enhancer, m.refs, m.claims, m.ledger, storage, "era-archive", 3600)
	return svc, m
}

func TestClaimService_ProcessHappyPath(t *testing.T) {
	svc, m := newClaimService(false)

	m.engine.On("Recognize", mock.Anything, "/tmp/era.png").Return(eraText, nil)
	m.refs.On("ResolveCounselor", mock.Anything, "Jordan Reyes", mock.AnythingOfType("*domain.RawClaim")).
		Return("Jordan Reyes", nil)
	m.claims.On("Create", mock.Anything, mock.AnythingOfType("*domain.ClaimRecord")).Return(nil)
	m.ledger.On("Append", mock.Anything, "Jordan Reyes", mock.AnythingOfType("*domain.ProcessedClaim")).Return(nil)

	out, err := svc.Process(context.Background(), service.ProcessInput{
		ImagePath: "/tmp/era.png",
		Counselor: "Jordan Reyes",
	})
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, "Jordan Reyes", out.Record.Counselor)
	assert.Equal(t, "DOE JANE", out.Record.Client)
	assert.Equal(t, "06/15/2026", out.Record.ServiceDate)
	assert.InDelta(t, 15.00, out.Record.Copay, 0.001)
	assert.InDelta(t, 0.00, out.Record.Deductible, 0.001)
	assert.InDelta(t, 92.01, out.Record.InsurancePayment, 0.001)
	assert.InDelta(t, 107.01, out.Record.ContractedRate, 0.001)
	assert.InDelta(t, 77.01, out.Record.PayoutToCounselor, 0.001)
	assert.True(t, out.Record.PatientOwes)
	assert.Equal(t, "PR-3 CO-45", out.Record.CodesFound)
	assert.Contains(t, out.Record.Classification, "Copay (PR-3)")

	var warnings []string
	require.NoError(t, json.Unmarshal(out.Record.Warnings, &warnings))
	assert.Empty(t, warnings)

	assert.True(t, out.Claim.Calculation.Valid)

	// A clean OCR name never reaches the enhancer.
	m.enhancer.AssertNotCalled(t, "ExtractClientName", mock.Anything, mock.Anything)
	m.claims.AssertExpectations(t)
	m.ledger.AssertExpectations(t)
}

func TestClaimService_ProcessEnhancesMissingName(t *testing.T) {
	svc, m := newClaimService(false)

	// No Patient line, so the client name must come from the enhancer.
	text := `06/15/2026 90837 $107.01 $15.00 $42.99 $92.01
PR-3: Copay`

	m.engine.On("Recognize", mock.Anything, "/tmp/era.png").Return(text, nil)
	m.enhancer.On("ExtractClientName", mock.Anything, "/tmp/era.png").Return("Anna Smith", nil)
	m.refs.On("ResolveCounselor", mock.Anything, "", mock.AnythingOfType("*domain.RawClaim")).
		Return("Jordan Reyes", nil)
	m.claims.On("Create", mock.Anything, mock.AnythingOfType("*domain.ClaimRecord")).Return(nil)
	m.ledger.On("Append", mock.Anything, "Jordan Reyes", mock.Anything).Return(nil)

	out, err := svc.Process(context.Background(), service.ProcessInput{ImagePath: "/tmp/era.png"})
	require.NoError(t, err)

	assert.Equal(t, "Anna Smith", out.Record.Client)
	m.enhancer.AssertExpectations(t)
}

func TestClaimService_ProcessEnhancerFailureIsNonFatal(t *testing.T) {
	svc, m := newClaimService(false)

	text := `06/15/2026 90837 $107.01 $15.00 $42.99 $92.01`

	m.engine.On("Recognize", mock.Anything, mock.Anything).Return(text, nil)
	m.enhancer.On("ExtractClientName", mock.Anything, mock.Anything).Return("", errors.New("model unavailable"))
	m.enhancer.On("Name").Return("ollama").Maybe()
	m.refs.On("ResolveCounselor", mock.Anything, "", mock.Anything).Return("Jordan Reyes", nil)
	m.claims.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.ledger.On("Append", mock.Anything, "Jordan Reyes", mock.Anything).Return(nil)

	out, err := svc.Process(context.Background(), service.ProcessInput{ImagePath: "/tmp/era.png"})
	require.NoError(t, err)
	assert.Equal(t, "", out.Record.Client)
}

func TestClaimService_ProcessRecognitionError(t *testing.T) {
	svc, m := newClaimService(false)

	m.engine.On("Recognize", mock.Anything, mock.Anything).
		Return("", domain.ErrRecognitionFailed)

	_, err := svc.Process(context.Background(), service.ProcessInput{ImagePath: "/tmp/era.png"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRecognitionFailed)
	m.claims.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestClaimService_ProcessUnknownCounselor(t *testing.T) {
	svc, m := newClaimService(false)

	m.engine.On("Recognize", mock.Anything, mock.Anything).Return(eraText, nil)
	m.refs.On("ResolveCounselor", mock.Anything, "Nobody", mock.Anything).
		Return("", domain.ErrUnknownCounselor)

	_, err := svc.Process(context.Background(), service.ProcessInput{
		ImagePath: "/tmp/era.png",
		Counselor: "Nobody",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownCounselor)
	m.claims.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything)
}

func TestClaimService_ProcessLedgerFailure(t *testing.T) {
	svc, m := newClaimService(false)

	m.engine.On("Recognize", mock.Anything, mock.Anything).Return(eraText, nil)
	m.refs.On("ResolveCounselor", mock.Anything, mock.Anything, mock.Anything).Return("Jordan Reyes", nil)
	m.claims.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.ledger.On("Append", mock.Anything, "Jordan Reyes", mock.Anything).
		Return(errors.New("workbook locked"))

	_, err := svc.Process(context.Background(), service.ProcessInput{
		ImagePath: "/tmp/era.png",
		Counselor: "Jordan Reyes",
	})
	assert.ErrorIs(t, err, domain.ErrLedgerWrite)
	m.claims.AssertCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestClaimService_ProcessInsuranceOverride(t *testing.T) {
	svc, m := newClaimService(false)

	m.engine.On("Recognize", mock.Anything, mock.Anything).Return(eraText, nil)
	m.refs.On("ResolveCounselor", mock.Anything, mock.Anything, mock.Anything).Return("Jordan Reyes", nil)
	m.claims.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.ledger.On("Append", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	out, err := svc.Process(context.Background(), service.ProcessInput{
		ImagePath: "/tmp/era.png",
		Counselor: "Jordan Reyes",
		Insurance: "Aetna",
	})
	require.NoError(t, err)
	assert.Equal(t, "Aetna", out.Record.Insurance)
}

func TestClaimService_ProcessArchivesImage(t *testing.T) {
	svc, m := newClaimService(true)

	path := filepath.Join(t.TempDir(), "era.png")
	require.NoError(t, os.WriteFile(path, []byte("fake image bytes"), 0o644))

	m.engine.On("Recognize", mock.Anything, path).Return(eraText, nil)
	m.refs.On("ResolveCounselor", mock.Anything, mock.Anything, mock.Anything).Return("Jordan Reyes", nil)
	m.storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{Location: "s3://era-archive/claims/x"}, nil)
	m.claims.On("Create", mock.Anything, mock.AnythingOfType("*domain.ClaimRecord")).Return(nil)
	m.ledger.On("Append", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	out, err := svc.Process(context.Background(), service.ProcessInput{
		ImagePath: path,
		Counselor: "Jordan Reyes",
	})
	require.NoError(t, err)

	assert.Equal(t, "era-archive", out.Record.ImageBucket)
	assert.NotEmpty(t, out.Record.ImageKey)
	assert.Contains(t, out.Record.ImageKey, "claims/")

	upload := m.storage.Calls[0].Arguments.Get(1).(port.UploadInput)
	assert.Equal(t, "image/png", upload.ContentType)
	assert.Equal(t, int64(len("fake image bytes")), upload.Size)
}

func TestClaimService_ProcessUploadFailureIsNonFatal(t *testing.T) {
	svc, m := newClaimService(true)

	path := filepath.Join(t.TempDir(), "era.png")
	require.NoError(t, os.WriteFile(path, []byte("fake image bytes"), 0o644))

	m.engine.On("Recognize", mock.Anything, path).Return(eraText, nil)
	m.refs.On("ResolveCounselor", mock.Anything, mock.Anything, mock.Anything).Return("Jordan Reyes", nil)
	m.storage.On("Upload", mock.Anything, mock.Anything).
		Return(nil, errors.New("bucket unreachable"))
	m.claims.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.ledger.On("Append", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	out, err := svc.Process(context.Background(), service.ProcessInput{
		ImagePath: path,
		Counselor: "Jordan Reyes",
	})
	require.NoError(t, err)
	assert.Empty(t, out.Record.ImageKey)
}

func TestClaimService_DeleteRemovesArchivedImage(t *testing.T) {
	svc, m := newClaimService(true)

	id := uuid.New()
	record := &domain.ClaimRecord{ID: id, ImageBucket: "era-archive", ImageKey: "claims/abc/era.png"}

	m.claims.On("GetByID", mock.Anything, id).Return(record, nil)
	m.claims.On("Delete", mock.Anything, id).Return(nil)
	m.storage.On("Delete", mock.Anything, "era-archive", "claims/abc/era.png").Return(nil)

	require.NoError(t, svc.Delete(context.Background(), id))
	m.storage.AssertExpectations(t)
}

func TestClaimService_ImageURLPresigns(t *testing.T) {
	svc, m := newClaimService(true)

	id := uuid.New()
	record := &domain.ClaimRecord{ID: id, ImageBucket: "era-archive", ImageKey: "claims/abc/era.png"}

	m.claims.On("GetByID", mock.Anything, id).Return(record, nil)
	m.storage.On("GetPresignedURL", mock.Anything, "era-archive", "claims/abc/era.png", int64(3600)).
		Return("https://signed.example/era.png", nil)

	url, err := svc.ImageURL(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/era.png", url)
}

func TestClaimService_ImageURLNoArchive(t *testing.T) {
	svc, m := newClaimService(true)

	id := uuid.New()
	m.claims.On("GetByID", mock.Anything, id).Return(&domain.ClaimRecord{ID: id}, nil)

	_, err := svc.ImageURL(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClaimService_ListFiltersByCounselor(t *testing.T) {
	svc, m := newClaimService(false)

	m.claims.On("ListByCounselor", mock.Anything, "Jordan Reyes", 0, 20).
		Return([]domain.ClaimRecord{{Counselor: "Jordan Reyes"}}, 1, nil)

	records, total, err := svc.List(context.Background(), "Jordan Reyes", 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, records, 1)
	m.claims.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}
