package claim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lennonalatorre/claimflow/internal/domain"
	"github.com/lennonalatorre/claimflow/internal/validator/claim"
)

func consistentClaim() domain.RawClaim {
	return domain.RawClaim{
		Copay:            domain.NewField("15.00"),
		Deductible:       domain.NewField("0"),
		InsurancePayment: domain.NewField("92.01"),
		ContractedRate:   domain.NewField("107.01"),
		PaidAmount:       domain.NewField("92.01"),
		Remarks:          domain.NewField("PR-3"),
	}
}

func TestValidateConsistentClaim(t *testing.T) {
	report := claim.Validate(consistentClaim())

	assert.Empty(t, report.Warnings)
	assert.Equal(t, domain.CheckMatch, report.ContractedRateCheck)
	require.True(t, report.CounselorPayout.Present)
	assert.InDelta(t, 77.01, report.CounselorPayout.Value, 0.0001)
	assert.InDelta(t, 15.00, report.Normalized.Copay.Or(0), 0.0001)
}

func TestValidateContractedRateMismatch(t *testing.T) {
	raw := consistentClaim()
	raw.ContractedRate = domain.NewField("200.00")

	report := claim.Validate(raw)

	assert.Equal(t, domain.CheckMismatch, report.ContractedRateCheck)
	assert.Contains(t, report.Warnings,
		"Contracted Rate ($200.00) does not equal Copay + Deductible + Insurance Payment ($107.01)")
}

func TestValidateMissingInsurancePayment(t *testing.T) {
	raw := consistentClaim()
	raw.InsurancePayment = domain.Field{}
	raw.PaidAmount = domain.Field{}

	report := claim.Validate(raw)

	// A missing payment counts as zero against the stated rate.
	assert.Equal(t, domain.CheckMismatch, report.ContractedRateCheck)
	assert.False(t, report.CounselorPayout.Present)
	assert.Contains(t, report.Warnings,
		"Cannot calculate Counselor Payout: Insurance Payment missing")
}

func TestValidateRateCheckedAgainstZeroWhenPaymentMissing(t *testing.T) {
	raw := domain.RawClaim{
		Copay:          domain.NewField("15.00"),
		ContractedRate: domain.NewField("200.00"),
	}

	report := claim.Validate(raw)

	assert.Equal(t, domain.CheckMismatch, report.ContractedRateCheck)
	assert.Contains(t, report.Warnings,
		"Contracted Rate ($200.00) does not equal Copay + Deductible + Insurance Payment ($15.00)")
}

func TestValidateRateCheckMatchesWithoutPayment(t *testing.T) {
	raw := domain.RawClaim{
		Copay:          domain.NewField("15.00"),
		Deductible:     domain.NewField("5.00"),
		ContractedRate: domain.NewField("20.00"),
	}

	report := claim.Validate(raw)

	assert.Equal(t, domain.CheckMatch, report.ContractedRateCheck)
}

func TestValidateWarningsOnlyAccumulate(t *testing.T) {
	// Each step introduces one more defect without touching the fields
	// earlier warnings were derived from, so every warning already
	// reported must survive into the next report.
	defects := []func(*domain.RawClaim){
		func(r *domain.RawClaim) { r.ContractedRate = domain.NewField("200.00") },
		func(r *domain.RawClaim) { r.PaidAmount = domain.NewField("50.00") },
		func(r *domain.RawClaim) { r.Deductible = domain.NewField("abc") },
	}

	raw := consistentClaim()
	prev := claim.Validate(raw).Warnings
	for _, apply := range defects {
		apply(&raw)
		report := claim.Validate(raw)
		for _, w := range prev {
			assert.Contains(t, report.Warnings, w)
		}
		assert.Greater(t, len(report.Warnings), len(prev))
		prev = report.Warnings
	}
}

func TestValidateMissingContractedRateIsIndeterminate(t *testing.T) {
	raw := consistentClaim()
	raw.ContractedRate = domain.Field{}

	report := claim.Validate(raw)

	assert.Equal(t, domain.CheckIndeterminate, report.ContractedRateCheck)
	assert.Contains(t, report.Warnings, "Contracted Rate is missing")
}

func TestValidatePaymentPaidMismatch(t *testing.T) {
	raw := consistentClaim()
	raw.PaidAmount = domain.NewField("90.00")

	report := claim.Validate(raw)

	assert.Contains(t, report.Warnings,
		"Insurance Payment ($92.01) does not match Paid Amount ($90.00)")
}

func TestValidateNegativePayout(t *testing.T) {
	raw := consistentClaim()
	raw.Copay = domain.NewField("60.00")
	raw.Deductible = domain.NewField("50.00")
	raw.InsurancePayment = domain.NewField("40.00")
	raw.PaidAmount = domain.NewField("40.00")
	raw.ContractedRate = domain.NewField("150.00")
	raw.Remarks = domain.NewField("PR-3 PR-1")

	report := claim.Validate(raw)

	require.True(t, report.CounselorPayout.Present)
	assert.InDelta(t, -70, report.CounselorPayout.Value, 0.0001)
	assert.Contains(t, report.Warnings,
		"Counselor Payout is negative: $-70.00 (Insurance Payment $40.00 - Patient Responsibility $110.00)")
}

func TestValidateUnparsableRequiredField(t *testing.T) {
	raw := consistentClaim()
	raw.Copay = domain.NewField("abc")

	report := claim.Validate(raw)

	assert.Contains(t, report.Warnings, "Copay: invalid numeric value: abc")
}

func TestValidateUnparsableOptionalFieldOnlyWhenPresent(t *testing.T) {
	raw := consistentClaim()
	raw.PatientAmount = domain.NewField("??")

	report := claim.Validate(raw)
	assert.Contains(t, report.Warnings, "Patient Amount: invalid numeric value: ??")

	raw.PatientAmount = domain.Field{}
	report = claim.Validate(raw)
	for _, w := range report.Warnings {
		assert.NotContains(t, w, "Patient Amount")
	}
}

func TestValidatePR3WithZeroCopay(t *testing.T) {
	raw := consistentClaim()
	raw.Copay = domain.NewField("0")
	raw.ContractedRate = domain.NewField("92.01")

	report := claim.Validate(raw)

	assert.Contains(t, report.Warnings,
		"PR-3 (Copay) present but Copay is missing or zero")
	assert.Contains(t, report.Warnings,
		"Patient Responsibility (PR) codes present but both Copay and Deductible are zero")
}

func TestValidatePR1WithZeroDeductible(t *testing.T) {
	raw := consistentClaim()
	raw.Remarks = domain.NewField("PR-1")

	report := claim.Validate(raw)

	assert.Contains(t, report.Warnings,
		"PR-1 (Deductible) present but Deductible is missing or zero")
}

func TestValidatePR140DoesNotTriggerPR1Rule(t *testing.T) {
	raw := consistentClaim()
	raw.Remarks = domain.NewField("PR-140")

	report := claim.Validate(raw)

	for _, w := range report.Warnings {
		assert.NotContains(t, w, "PR-1 (Deductible)")
	}
}

func TestValidateCOOnlyWithPatientResponsibility(t *testing.T) {
	raw := consistentClaim()
	raw.Remarks = domain.NewField("CO-45")

	report := claim.Validate(raw)

	assert.Contains(t, report.Warnings,
		"Only CO (Contractual Obligation) codes present, but patient responsibility amounts are nonzero. "+
			"Patient should not be charged for contractual adjustments.")
}

func TestValidateOAWithoutPRIsAmbiguous(t *testing.T) {
	raw := consistentClaim()
	raw.Remarks = domain.NewField("OA-23")

	report := claim.Validate(raw)

	assert.Contains(t, report.Warnings,
		"OA/PI codes present with patient amounts but no PR codes. "+
			"Patient responsibility is unclear - verify if patient should be charged.")
}

func TestValidateNeverShortCircuits(t *testing.T) {
	raw := domain.RawClaim{
		Copay:            domain.NewField("-5.00"),
		Deductible:       domain.NewField("0"),
		InsurancePayment: domain.NewField("10.00"),
		ContractedRate:   domain.NewField("500.00"),
		PaidAmount:       domain.NewField("99.00"),
		Remarks:          domain.NewField("CO-45"),
	}

	report := claim.Validate(raw)

	// Every rule family contributes independently.
	assert.Contains(t, report.Warnings, "Copay is negative: $-5.00")
	assert.Contains(t, report.Warnings,
		"Insurance Payment ($10.00) does not match Paid Amount ($99.00)")
	assert.Equal(t, domain.CheckMismatch, report.ContractedRateCheck)
	assert.GreaterOrEqual(t, len(report.Warnings), 3)
}

func TestValidateResultsCoverEveryRule(t *testing.T) {
	report := claim.Validate(consistentClaim())

	// 7 numeric parse results plus one entry per rule check.
	require.NotEmpty(t, report.Results)
	keys := map[string]bool{}
	for _, res := range report.Results {
		keys[res.RuleKey] = true
	}
	for _, key := range []string{
		"numeric.copay", "numeric.insurance_payment",
		"financial.payment_match", "financial.contracted_rate",
		"remark.pr3_copay", "remark.co_only",
	} {
		assert.True(t, keys[key], "missing rule key %s", key)
	}
}
