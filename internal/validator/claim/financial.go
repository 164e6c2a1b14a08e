package claim

import (
	"fmt"

	"github.com/lennonalatorre/claimflow/internal/domain"
)

// FinancialRules returns the arithmetic cross-check rules.
//
// The contracted rate negotiated with the insurer must equal
// Copay + Deductible + Insurance Payment, and the counselor receives the
// insurance payment minus patient responsibility. Insurance Payment and
// Paid Amount are the same figure reported twice upstream.
func FinancialRules() []*Rule {
	return []*Rule{
		newRule("financial.payment_match", "Financial: Insurance Payment vs Paid Amount",
			domain.SeverityWarning,
			func(r *Rule, ctx *Context) []domain.RuleResult {
				ip := ctx.Nums.InsurancePayment.Or(0)
				paid := ctx.Nums.PaidAmount.Or(0)
				if ip != 0 && paid != 0 && !approxEqual(ip, paid) {
					return []domain.RuleResult{r.result(false, fmt.Sprintf(
						"Insurance Payment ($%.2f) does not match Paid Amount ($%.2f)", ip, paid))}
				}
				return []domain.RuleResult{r.result(true, "Insurance Payment matches Paid Amount")}
			}),

		newRule("financial.non_negative", "Financial: Non-Negative Amounts",
			domain.SeverityWarning,
			func(r *Rule, ctx *Context) []domain.RuleResult {
				var results []domain.RuleResult
				for _, f := range []struct {
					name  string
					value float64
				}{
					{"Copay", ctx.Nums.Copay.Or(0)},
					{"Deductible", ctx.Nums.Deductible.Or(0)},
					{"Insurance Payment", ctx.Nums.InsurancePayment.Or(0)},
				} {
					if f.value < 0 {
						results = append(results, r.result(false,
							fmt.Sprintf("%s is negative: $%.2f", f.name, f.value)))
					}
				}
				if results == nil {
					results = append(results, r.result(true, "no negative amounts"))
				}
				return results
			}),

		newRule("financial.contracted_rate", "Financial: Contracted Rate Cross-Check",
			domain.SeverityWarning,
			func(r *Rule, ctx *Context) []domain.RuleResult {
				if !ctx.Nums.ContractedRate.Present {
					return []domain.RuleResult{r.result(false, "Contracted Rate is missing")}
				}
				expected := ctx.Nums.Copay.Or(0) + ctx.Nums.Deductible.Or(0) + ctx.Nums.InsurancePayment.Or(0)
				actual := ctx.Nums.ContractedRate.Value
				if !approxEqual(actual, expected) {
					return []domain.RuleResult{r.result(false, fmt.Sprintf(
						"Contracted Rate ($%.2f) does not equal Copay + Deductible + Insurance Payment ($%.2f)",
						actual, expected))}
				}
				return []domain.RuleResult{r.result(true, "Contracted Rate matches computed total")}
			}),

		newRule("financial.counselor_payout", "Financial: Counselor Payout",
			domain.SeverityWarning,
			func(r *Rule, ctx *Context) []domain.RuleResult {
				if !ctx.Nums.InsurancePayment.Present {
					return []domain.RuleResult{r.result(false,
						"Cannot calculate Counselor Payout: Insurance Payment missing")}
				}
				ip := ctx.Nums.InsurancePayment.Value
				patientResp := ctx.Nums.Copay.Or(0) + ctx.Nums.Deductible.Or(0)
				payout := ip - patientResp
				if payout < -tolerance {
					return []domain.RuleResult{r.result(false, fmt.Sprintf(
						"Counselor Payout is negative: $%.2f (Insurance Payment $%.2f - Patient Responsibility $%.2f)",
						payout, ip, patientResp))}
				}
				return []domain.RuleResult{r.result(true, "Counselor Payout is non-negative")}
			}),
	}
}
