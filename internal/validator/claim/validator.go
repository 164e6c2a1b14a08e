package claim

import (
	"github.com/lennonalatorre/claimflow/internal/domain"
)

// AllRules returns every built-in rule in evaluation order.
func AllRules() []*Rule {
	rules := FinancialRules()
	rules = append(rules, RemarkRules()...)
	return rules
}

// Validate runs normalization and every rule against a single claim and
// returns the aggregated report. Validation is additive: every rule always
// runs, a failing rule contributes a warning and never aborts the pass.
func Validate(raw domain.RawClaim) domain.ValidationReport {
	nums, results := Normalize(&raw)

	ctx := &Context{Raw: &raw, Nums: &nums}
	for _, rule := range AllRules() {
		results = append(results, rule.Check(ctx)...)
	}

	report := domain.ValidationReport{
		Warnings:            []string{},
		ContractedRateCheck: contractedRateCheck(&nums),
		Normalized:          nums,
		Results:             results,
	}
	if nums.InsurancePayment.Present {
		payout := nums.InsurancePayment.Value - (nums.Copay.Or(0) + nums.Deductible.Or(0))
		report.CounselorPayout = domain.SomeAmount(payout)
	}
	for _, res := range results {
		if !res.Passed {
			report.Warnings = append(report.Warnings, res.Message)
		}
	}
	return report
}

// contractedRateCheck re-derives the contracted rate from its components,
// treating absent amounts as zero so it mirrors the financial rule's
// comparison. Indeterminate only when no stated rate exists to check.
func contractedRateCheck(nums *domain.NormalizedClaim) domain.CheckState {
	if !nums.ContractedRate.Present {
		return domain.CheckIndeterminate
	}
	expected := nums.Copay.Or(0) + nums.Deductible.Or(0) + nums.InsurancePayment.Or(0)
	if approxEqual(nums.ContractedRate.Value, expected) {
		return domain.CheckMatch
	}
	return domain.CheckMismatch
}
