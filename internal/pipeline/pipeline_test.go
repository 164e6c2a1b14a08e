package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lennonalatorre/claimflow/internal/domain"
	"github.com/lennonalatorre/claimflow/internal/pipeline"
)

func rawERA() domain.RawClaim {
	return domain.RawClaim{
		Client:           domain.NewField("DOE, JANE"),
		Insurance:        domain.NewField("Aetna"),
		Date:             domain.NewField("06/15/2026"),
		InsurancePayment: domain.NewField("92.01"),
		ContractedRate:   domain.NewField("107.01"),
		PaidAmount:       domain.NewField("92.01"),
		PatientAmount:    domain.NewField("($15.00)"),
		Remarks:          domain.NewField("PR-3"),
	}
}

func TestAssembleCopayClaim(t *testing.T) {
	out := pipeline.Assemble(rawERA(), pipeline.Overrides{})

	assert.Equal(t, "15.00", out.Raw.Copay.Value)
	assert.True(t, out.Classification.PatientOwes)
	assert.Equal(t, "Copay (PR-3)", out.Classification.Label)

	require.True(t, out.Calculation.Valid)
	assert.InDelta(t, 107.01, out.Calculation.ContractedRate, 0.0001)
	assert.InDelta(t, 77.01, out.Calculation.PayoutToCounselor, 0.0001)
	assert.InDelta(t, 69.5565, out.Calculation.CounselorShare65, 0.0001)
	assert.InDelta(t, 37.4535, out.Calculation.OrgShare35, 0.0001)

	assert.Empty(t, out.Report.Warnings)
	assert.Equal(t, domain.CheckMatch, out.Report.ContractedRateCheck)
}

func TestAssembleSingleBucketApplied(t *testing.T) {
	raw := rawERA()
	raw.Remarks = domain.NewField("PR-3 PR-1")
	raw.ContractedRate = domain.NewField("107.01")

	out := pipeline.Assemble(raw, pipeline.Overrides{})

	// The shared patient amount lands in copay only; applying the deductible
	// bucket as well would double-count it.
	assert.Equal(t, "15.00", out.Raw.Copay.Value)
	assert.Equal(t, "0", out.Raw.Deductible.Value)
	assert.InDelta(t, 15.00, out.Report.Normalized.Copay.Or(0), 0.0001)
	assert.InDelta(t, 0, out.Report.Normalized.Deductible.Or(0), 0.0001)
}

func TestAssembleDeductibleClaim(t *testing.T) {
	raw := rawERA()
	raw.Remarks = domain.NewField("PR-1")
	raw.PatientAmount = domain.NewField("$80.00")
	raw.InsurancePayment = domain.NewField("27.01")
	raw.PaidAmount = domain.NewField("27.01")

	out := pipeline.Assemble(raw, pipeline.Overrides{})

	assert.Equal(t, "80.00", out.Raw.Deductible.Value)
	assert.Equal(t, "0", out.Raw.Copay.Value)
	assert.InDelta(t, 107.01, out.Calculation.ContractedRate, 0.0001)
	assert.InDelta(t, -52.99, out.Calculation.PayoutToCounselor, 0.0001)
}

func TestAssembleCoinsuranceLandsInCopay(t *testing.T) {
	raw := rawERA()
	raw.Remarks = domain.NewField("PR-2")
	raw.PatientAmount = domain.NewField("$15.00")

	out := pipeline.Assemble(raw, pipeline.Overrides{})

	assert.Equal(t, "15.00", out.Raw.Copay.Value)
	assert.True(t, out.Classification.PatientOwes)
}

func TestAssembleOverridesBeatClassifier(t *testing.T) {
	out := pipeline.Assemble(rawERA(), pipeline.Overrides{
		Copay:     domain.NewField("20.00"),
		Insurance: domain.NewField("87.01"),
	})

	assert.Equal(t, "20.00", out.Raw.Copay.Value)
	assert.InDelta(t, 87.01, out.Report.Normalized.InsurancePayment.Or(0), 0.0001)
	assert.InDelta(t, 107.01, out.Calculation.ContractedRate, 0.0001)
}

func TestAssembleWriteOffNeverOwedByPatient(t *testing.T) {
	raw := rawERA()
	raw.Remarks = domain.NewField("CO-45")
	raw.PatientAmount = domain.NewField("$0.00")
	raw.AdjustmentsAmount = domain.NewField("$55.00")
	raw.InsurancePayment = domain.NewField("107.01")
	raw.PaidAmount = domain.NewField("107.01")

	out := pipeline.Assemble(raw, pipeline.Overrides{})

	assert.False(t, out.Classification.PatientOwes)
	assert.Equal(t, "0", out.Raw.Copay.Value)
	assert.Equal(t, "55.00", out.Raw.ProviderAdjustment.Value)
	assert.InDelta(t, 107.01, out.Calculation.PayoutToCounselor, 0.0001)
}

func TestAssembleMissingPaymentInvalid(t *testing.T) {
	raw := rawERA()
	raw.InsurancePayment = domain.NewField("0")
	raw.PaidAmount = domain.NewField("0")
	raw.ContractedRate = domain.NewField("15.00")

	out := pipeline.Assemble(raw, pipeline.Overrides{})

	assert.False(t, out.Calculation.Valid)
	assert.Equal(t, []string{"Insurance Payment"}, out.Calculation.MissingFields)
	assert.Contains(t, out.Calculation.Warnings,
		"Missing insurance payment - cannot calculate payout")
}

func TestAssembleDoesNotMutateInput(t *testing.T) {
	raw := rawERA()
	_ = pipeline.Assemble(raw, pipeline.Overrides{})

	assert.False(t, raw.Copay.Present, "caller's claim must be left untouched")
}
