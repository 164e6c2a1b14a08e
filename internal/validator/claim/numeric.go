package claim

import (
	"fmt"

	"github.com/lennonalatorre/claimflow/internal/domain"
	"github.com/lennonalatorre/claimflow/internal/era"
)

// numericField binds a claim field name to its raw accessor and normalized slot.
type numericField struct {
	name     string
	required bool
	get      func(*domain.RawClaim) domain.Field
	set      func(*domain.NormalizedClaim, domain.Amount)
}

// numericFields lists the dollar fields the validator normalizes. Parse
// failures on required fields always warn; optional fields warn only when a
// value was actually present, since absence is a valid state for them.
var numericFields = []numericField{
	{"Copay", true,
		func(r *domain.RawClaim) domain.Field { return r.Copay },
		func(n *domain.NormalizedClaim, a domain.Amount) { n.Copay = a }},
	{"Deductible", true,
		func(r *domain.RawClaim) domain.Field { return r.Deductible },
		func(n *domain.NormalizedClaim, a domain.Amount) { n.Deductible = a }},
	{"Insurance Payment", true,
		func(r *domain.RawClaim) domain.Field { return r.InsurancePayment },
		func(n *domain.NormalizedClaim, a domain.Amount) { n.InsurancePayment = a }},
	{"Contracted Rate", true,
		func(r *domain.RawClaim) domain.Field { return r.ContractedRate },
		func(n *domain.NormalizedClaim, a domain.Amount) { n.ContractedRate = a }},
	{"Paid Amount", true,
		func(r *domain.RawClaim) domain.Field { return r.PaidAmount },
		func(n *domain.NormalizedClaim, a domain.Amount) { n.PaidAmount = a }},
	{"Patient Amount", false,
		func(r *domain.RawClaim) domain.Field { return r.PatientAmount },
		func(n *domain.NormalizedClaim, a domain.Amount) { n.PatientAmount = a }},
	{"Adjustments Amount", false,
		func(r *domain.RawClaim) domain.Field { return r.AdjustmentsAmount },
		func(n *domain.NormalizedClaim, a domain.Amount) { n.AdjustmentsAmount = a }},
}

// Normalize parses every numeric field of the claim, returning the snapshot
// and one parse result per flagged field.
func Normalize(raw *domain.RawClaim) (domain.NormalizedClaim, []domain.RuleResult) {
	var nums domain.NormalizedClaim
	var results []domain.RuleResult

	for _, f := range numericFields {
		field := f.get(raw)
		amount, warning := era.ParseAmount(field)
		f.set(&nums, amount)

		rule := &Rule{
			key:      "numeric." + slug(f.name),
			name:     "Numeric: " + f.name,
			severity: domain.SeverityWarning,
		}
		switch {
		case warning != "" && (f.required || field.Present):
			results = append(results, rule.result(false, fmt.Sprintf("%s: %s", f.name, warning)))
		default:
			results = append(results, rule.result(true, fmt.Sprintf("%s parsed", f.name)))
		}
	}
	return nums, results
}

func slug(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'A' && c <= 'Z':
			out = append(out, c+'a'-'A')
		case c == ' ':
			out = append(out, '_')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
