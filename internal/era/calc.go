package era

import (
	"fmt"

	"github.com/lennonalatorre/claimflow/internal/domain"
)

const (
	counselorShare = 0.65
	orgShare       = 0.35

	// Contracted rates below this are suspicious for a therapy claim.
	lowRateThreshold = 50
)

// Calculate applies the fixed payout formula to the resolved copay,
// deductible and insurance payment figures (absent inputs arrive as 0):
//
//	G contracted rate   = D + E + F
//	H counselor 65%     = G * 0.65
//	I payout            = F - (D + E)
//	J organization 35%  = G * 0.35
//
// H and J are always a 65/35 split of G, independent of I. The result is
// invalid without a positive insurance payment, but the numbers are still
// returned so the record can be written with its warnings.
func Calculate(copay, deductible, insurancePayment float64) domain.Calculation {
	contractedRate := copay + deductible + insurancePayment
	patientResp := copay + deductible
	payout := insurancePayment - patientResp

	result := domain.Calculation{
		ContractedRate:        contractedRate,
		CounselorShare65:      contractedRate * counselorShare,
		PayoutToCounselor:     payout,
		OrgShare35:            contractedRate * orgShare,
		PatientResponsibility: patientResp,
		Valid:                 insurancePayment > 0,
	}

	if insurancePayment == 0 {
		result.MissingFields = append(result.MissingFields, "Insurance Payment")
		result.Warnings = append(result.Warnings, "Missing insurance payment - cannot calculate payout")
	}

	if payout < 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"Negative payout: $%.2f (Insurance $%.2f - Patient Responsibility $%.2f)",
			payout, insurancePayment, patientResp))
	}

	if contractedRate > 0 && contractedRate < lowRateThreshold {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"Contracted rate seems low: $%.2f - verify amounts", contractedRate))
	}

	if patientResp > insurancePayment && insurancePayment > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"Patient responsibility ($%.2f) exceeds insurance payment ($%.2f)",
			patientResp, insurancePayment))
	}

	return result
}
