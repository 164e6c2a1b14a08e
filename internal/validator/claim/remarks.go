package claim

import (
	"regexp"
	"strings"

	"github.com/lennonalatorre/claimflow/internal/domain"
)

var remarkCodeRe = regexp.MustCompile(`\b(PR|CO|OA|PI)-?(\d+)\b`)

// remarkProfile summarizes which code types appear in the remarks text.
type remarkProfile struct {
	hasPR1   bool
	hasPR2   bool
	hasPR3   bool
	hasAnyPR bool
	hasAnyCO bool
	onlyCO   bool
	hasOAPI  bool
}

func profileRemarks(remarks string) remarkProfile {
	matches := remarkCodeRe.FindAllStringSubmatch(strings.ToUpper(remarks), -1)

	var p remarkProfile
	p.onlyCO = len(matches) > 0
	for _, m := range matches {
		cat, num := m[1], m[2]
		if cat != string(domain.RemarkCO) {
			p.onlyCO = false
		}
		switch cat {
		case string(domain.RemarkPR):
			p.hasAnyPR = true
			switch num {
			case "1", "01":
				p.hasPR1 = true
			case "2", "02":
				p.hasPR2 = true
			case "3", "03":
				p.hasPR3 = true
			}
		case string(domain.RemarkCO):
			p.hasAnyCO = true
		case string(domain.RemarkOA), string(domain.RemarkPI):
			p.hasOAPI = true
		}
	}
	return p
}

// RemarkRules returns the code-vs-amount consistency rules.
//
// Remark codes indicate the TYPE of responsibility, not amounts; these rules
// flag claims where the code story and the dollar story disagree. PR codes
// should come with patient responsibility, CO-only claims should carry none,
// and OA/PI without PR leaves responsibility ambiguous.
func RemarkRules() []*Rule {
	return []*Rule{
		newRule("remark.pr1_deductible", "Remark: PR-1 Requires Deductible",
			domain.SeverityWarning,
			func(r *Rule, ctx *Context) []domain.RuleResult {
				p := profileRemarks(ctx.Raw.Remarks.Value)
				if p.hasPR1 && approxZero(ctx.Nums.Deductible.Or(0)) {
					return []domain.RuleResult{r.result(false,
						"PR-1 (Deductible) present but Deductible is missing or zero")}
				}
				return []domain.RuleResult{r.result(true, "PR-1 consistent with Deductible")}
			}),

		newRule("remark.pr2_responsibility", "Remark: PR-2 Requires Patient Responsibility",
			domain.SeverityWarning,
			func(r *Rule, ctx *Context) []domain.RuleResult {
				p := profileRemarks(ctx.Raw.Remarks.Value)
				if p.hasPR2 && approxZero(ctx.Nums.Copay.Or(0)) && approxZero(ctx.Nums.Deductible.Or(0)) {
					return []domain.RuleResult{r.result(false,
						"PR-2 (Coinsurance) present but both Copay and Deductible are zero")}
				}
				return []domain.RuleResult{r.result(true, "PR-2 consistent with patient responsibility")}
			}),

		newRule("remark.pr3_copay", "Remark: PR-3 Requires Copay",
			domain.SeverityWarning,
			func(r *Rule, ctx *Context) []domain.RuleResult {
				p := profileRemarks(ctx.Raw.Remarks.Value)
				if p.hasPR3 && approxZero(ctx.Nums.Copay.Or(0)) {
					return []domain.RuleResult{r.result(false,
						"PR-3 (Copay) present but Copay is missing or zero")}
				}
				return []domain.RuleResult{r.result(true, "PR-3 consistent with Copay")}
			}),

		newRule("remark.pr_any", "Remark: PR Codes Require Patient Responsibility",
			domain.SeverityWarning,
			func(r *Rule, ctx *Context) []domain.RuleResult {
				p := profileRemarks(ctx.Raw.Remarks.Value)
				if p.hasAnyPR && approxZero(ctx.Nums.Copay.Or(0)) && approxZero(ctx.Nums.Deductible.Or(0)) {
					return []domain.RuleResult{r.result(false,
						"Patient Responsibility (PR) codes present but both Copay and Deductible are zero")}
				}
				return []domain.RuleResult{r.result(true, "PR codes consistent with patient responsibility")}
			}),

		newRule("remark.co_only", "Remark: CO-Only Claims Owe Nothing",
			domain.SeverityWarning,
			func(r *Rule, ctx *Context) []domain.RuleResult {
				p := profileRemarks(ctx.Raw.Remarks.Value)
				nonzero := !approxZero(ctx.Nums.Copay.Or(0)) || !approxZero(ctx.Nums.Deductible.Or(0))
				if p.onlyCO && nonzero {
					return []domain.RuleResult{r.result(false,
						"Only CO (Contractual Obligation) codes present, but patient responsibility amounts are nonzero. "+
							"Patient should not be charged for contractual adjustments.")}
				}
				return []domain.RuleResult{r.result(true, "CO-only claim carries no patient responsibility")}
			}),

		newRule("remark.oa_pi_ambiguous", "Remark: OA/PI Without PR Is Ambiguous",
			domain.SeverityWarning,
			func(r *Rule, ctx *Context) []domain.RuleResult {
				p := profileRemarks(ctx.Raw.Remarks.Value)
				nonzero := !approxZero(ctx.Nums.Copay.Or(0)) || !approxZero(ctx.Nums.Deductible.Or(0))
				if p.hasOAPI && !p.hasAnyPR && nonzero {
					return []domain.RuleResult{r.result(false,
						"OA/PI codes present with patient amounts but no PR codes. "+
							"Patient responsibility is unclear - verify if patient should be charged.")}
				}
				return []domain.RuleResult{r.result(true, "no ambiguous OA/PI attribution")}
			}),
	}
}
