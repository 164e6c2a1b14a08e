// Package claim validates OCR-extracted ERA claim data against insurance
// billing rules. Rules only flag issues; nothing is auto-filled and no input
// is mutated. All rules are additive and independent: the validator runs
// every rule and aggregates every triggered warning, never short-circuiting.
package claim

import (
	"math"

	"github.com/lennonalatorre/claimflow/internal/domain"
)

// tolerance for floating-point dollar comparison.
const tolerance = 0.01

// Context carries one claim's raw fields plus the pre-parsed numeric
// snapshot shared by every rule.
type Context struct {
	Raw  *domain.RawClaim
	Nums *domain.NormalizedClaim
}

// Rule checks one billing invariant over a claim.
type Rule struct {
	key      string
	name     string
	severity domain.ValidationSeverity
	check    func(*Context) []domain.RuleResult
}

func (r *Rule) RuleKey() string                      { return r.key }
func (r *Rule) RuleName() string                     { return r.name }
func (r *Rule) Severity() domain.ValidationSeverity  { return r.severity }
func (r *Rule) Check(ctx *Context) []domain.RuleResult {
	return r.check(ctx)
}

func approxZero(v float64) bool {
	return math.Abs(v) < tolerance
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func (r *Rule) result(passed bool, msg string) domain.RuleResult {
	return domain.RuleResult{
		RuleKey:  r.key,
		RuleName: r.name,
		Severity: r.severity,
		Passed:   passed,
		Message:  msg,
	}
}

// newRule wires a check function to its own rule so results carry the
// rule's metadata.
func newRule(key, name string, sev domain.ValidationSeverity, check func(*Rule, *Context) []domain.RuleResult) *Rule {
	r := &Rule{key: key, name: name, severity: sev}
	r.check = func(ctx *Context) []domain.RuleResult { return check(r, ctx) }
	return r
}
