// Package pipeline assembles one processed claim from raw extracted fields:
// classify the remarks, resolve the patient-responsibility buckets into the
// copay/deductible fields, validate, then run the payout calculation.
package pipeline

import (
	"github.com/lennonalatorre/claimflow/internal/domain"
	"github.com/lennonalatorre/claimflow/internal/era"
	"github.com/lennonalatorre/claimflow/internal/validator/claim"
)

// Overrides are operator-supplied corrections applied before validation.
// A present field beats both the extracted value and the classifier.
type Overrides struct {
	Copay      domain.Field
	Deductible domain.Field
	Insurance  domain.Field
}

// Assemble runs the full per-claim pipeline and returns the processed claim.
// The input is copied; callers can reuse raw across calls.
func Assemble(raw domain.RawClaim, ov Overrides) domain.ProcessedClaim {
	cls := era.Classify(raw.Remarks.Value, raw.PatientAmount.Value, raw.AdjustmentsAmount.Value)

	resolveBuckets(&raw, &cls, ov)

	report := claim.Validate(raw)
	calc := era.Calculate(
		report.Normalized.Copay.Or(0),
		report.Normalized.Deductible.Or(0),
		report.Normalized.InsurancePayment.Or(0),
	)

	return domain.ProcessedClaim{
		Raw:            raw,
		Classification: cls,
		Report:         report,
		Calculation:    calc,
	}
}

// resolveBuckets folds the classifier's buckets and the operator overrides
// into the claim's copay and deductible fields.
//
// Only one classifier bucket is applied, in priority order copay, deductible,
// coinsurance (which lands in copay). All three buckets were filled from the
// same patient-amount column, so applying more than one would double-count
// that single figure. Overrides are independent of each other and of the
// classifier.
func resolveBuckets(raw *domain.RawClaim, cls *domain.Classification, ov Overrides) {
	if !raw.Copay.Present {
		raw.Copay = domain.NewField("0")
	}
	if !raw.Deductible.Present {
		raw.Deductible = domain.NewField("0")
	}

	switch {
	case cls.Copay != "":
		raw.Copay = domain.NewField(cls.Copay)
	case cls.Deductible != "":
		raw.Deductible = domain.NewField(cls.Deductible)
	case cls.Coinsurance != "":
		raw.Copay = domain.NewField(cls.Coinsurance)
	}

	if ov.Copay.Present {
		raw.Copay = ov.Copay
	}
	if ov.Deductible.Present {
		raw.Deductible = ov.Deductible
	}
	if ov.Insurance.Present {
		raw.InsurancePayment = ov.Insurance
	}

	if cls.ProviderAdjustment != "" {
		raw.ProviderAdjustment = domain.NewField(cls.ProviderAdjustment)
	}
}
