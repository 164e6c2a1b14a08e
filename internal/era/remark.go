package era

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lennonalatorre/claimflow/internal/domain"
)

// remarkCodeRe matches adjustment reason codes like "PR-3", "CO45" or "OA-23".
var remarkCodeRe = regexp.MustCompile(`\b(PR|CO|OA|PI)-?(\d+)\b`)

// Classify parses an ERA remarks string for adjustment reason codes and maps
// them, together with the two raw amount columns, into financial buckets.
//
// PR codes draw from the patient amount column and mark the claim as
// patient-owed; CO and OA codes draw from the adjustments column and never
// do. A bucket is written at most once per call, by the first code that
// targets it. The output depends only on the three inputs.
func Classify(remarks, patientAmountRaw, adjustmentAmountRaw string) domain.Classification {
	remarks = strings.ToUpper(strings.TrimSpace(remarks))
	patientClean := CleanAmount(patientAmountRaw)
	adjustmentClean := CleanAmount(adjustmentAmountRaw)

	var (
		out       domain.Classification
		fragments []string
		prCodes   []string
		coCodes   []string
		oaSeen    bool
		piSeen    bool
	)

	for _, m := range remarkCodeRe.FindAllStringSubmatch(remarks, -1) {
		code := domain.RemarkCode{Category: domain.RemarkCategory(m[1]), Number: m[2]}
		out.CodesFound = append(out.CodesFound, code)
		switch code.Category {
		case domain.RemarkPR:
			prCodes = append(prCodes, code.Number)
		case domain.RemarkCO:
			coCodes = append(coCodes, code.Number)
		case domain.RemarkOA:
			oaSeen = true
		case domain.RemarkPI:
			piSeen = true
		}
	}

	// PR codes first: they consume the patient amount column.
	if len(prCodes) > 0 {
		out.PatientOwes = true

		for _, num := range prCodes {
			switch num {
			case "3", "03":
				if patientClean != "" && out.Copay == "" {
					out.Copay = patientClean
					fragments = append(fragments, "Copay (PR-3)")
				}
			case "1", "01":
				if patientClean != "" && out.Deductible == "" {
					out.Deductible = patientClean
					fragments = append(fragments, "Deductible (PR-1)")
				}
			case "2", "02":
				if patientClean != "" && out.Coinsurance == "" {
					out.Coinsurance = patientClean
					fragments = append(fragments, "Coinsurance (PR-2)")
				}
			case "140":
				// PR-140 denial: patient responsible for the full amount.
				if patientClean != "" && out.Deductible == "" {
					out.Deductible = patientClean
					fragments = append(fragments, "Denial (PR-140)")
				}
			default:
				if patientClean != "" && out.Copay == "" && out.Deductible == "" {
					out.Copay = patientClean
					fragments = append(fragments, fmt.Sprintf("Patient Responsibility (PR-%s)", num))
				}
			}
		}
	}

	// CO codes always consume the adjustments column, never the patient amount.
	if len(coCodes) > 0 {
		if adjustmentClean != "" {
			out.ProviderAdjustment = adjustmentClean
			for _, num := range coCodes {
				fragments = append(fragments, fmt.Sprintf("Provider Write-Off (CO-%s)", num))
			}
		} else {
			fragments = append(fragments, "Provider Write-Off (CO - amount missing)")
		}
	}

	// OA codes are administrative write-offs, not patient responsibility.
	if oaSeen {
		if adjustmentClean != "" && out.ProviderAdjustment == "" {
			out.ProviderAdjustment = adjustmentClean
		}
		fragments = append(fragments, "Administrative Adjustment (OA)")
	}

	// PI codes may or may not be patient responsibility. With no PR code to
	// claim the patient amount, treat it as a reviewable copay.
	if piSeen && len(prCodes) == 0 && patientClean != "" {
		out.Copay = patientClean
		out.PatientOwes = true
		fragments = append(fragments, "Payer-Initiated Reduction (PI)")
	}

	// No codes at all: nonzero amounts still get bucketed, flagged unclassified.
	if len(out.CodesFound) == 0 {
		if patientClean != "" {
			out.Copay = patientClean
			out.PatientOwes = true
			fragments = append(fragments, "Unclassified Patient Amount")
		}
		if adjustmentClean != "" {
			out.ProviderAdjustment = adjustmentClean
			fragments = append(fragments, "Unclassified Adjustment")
		}
	}

	if len(fragments) > 0 {
		out.Label = strings.Join(fragments, " + ")
	} else {
		out.Label = "No Adjustments"
	}
	return out
}
