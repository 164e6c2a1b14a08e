package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Field is a raw string value produced by the recognition engine.
// Present reports whether the engine found the field at all; recognition
// sentinels ("NOTFOUND", "N/A") are translated to an absent Field at the
// boundary so no magic strings leak into the core.
type Field struct {
	Value   string `json:"value"`
	Present bool   `json:"present"`
}

// NewField returns a present Field holding v.
func NewField(v string) Field {
	return Field{Value: v, Present: true}
}

// Or returns the field's value, or def when the field is absent.
func (f Field) Or(def string) string {
	if !f.Present {
		return def
	}
	return f.Value
}

// RawClaim holds the untyped field mapping produced by the recognition
// engine for a single ERA screenshot. Any field may be absent or hold an
// unparsable string; the core never rejects a RawClaim.
type RawClaim struct {
	Client             Field  `json:"client"`
	Insurance          Field  `json:"insurance"`
	Date               Field  `json:"date"`
	ServiceCode        Field  `json:"service_code"`
	ClaimNumber        Field  `json:"claim_number"`
	Copay              Field  `json:"copay"`
	Deductible         Field  `json:"deductible"`
	InsurancePayment   Field  `json:"insurance_payment"`
	PatientAmount      Field  `json:"patient_amount"`
	AdjustmentsAmount  Field  `json:"adjustments_amount"`
	Remarks            Field  `json:"remarks"`
	ChargedRate        Field  `json:"charged_rate"`
	ContractedRate     Field  `json:"contracted_rate"`
	PaidAmount         Field  `json:"paid_amount"`
	ProviderAdjustment Field  `json:"provider_adjustment"`
	RawText            string `json:"-"`
}

// Amount is an optional dollar value. Present distinguishes a genuine zero
// from an absent field.
type Amount struct {
	Value   float64 `json:"value"`
	Present bool    `json:"present"`
}

// SomeAmount returns a present Amount holding v.
func SomeAmount(v float64) Amount {
	return Amount{Value: v, Present: true}
}

// Or returns the amount's value, or def when the amount is absent.
func (a Amount) Or(def float64) float64 {
	if !a.Present {
		return def
	}
	return a.Value
}

// RemarkCategory is the group of an ERA adjustment reason code.
type RemarkCategory string

const (
	RemarkPR RemarkCategory = "PR" // patient responsibility
	RemarkCO RemarkCategory = "CO" // contractual obligation (provider write-off)
	RemarkOA RemarkCategory = "OA" // other adjustment
	RemarkPI RemarkCategory = "PI" // payer-initiated
)

// RemarkCode is a single adjustment reason code. Number is kept as a string
// so leading zeros and unmapped codes survive verbatim.
type RemarkCode struct {
	Category RemarkCategory `json:"category"`
	Number   string         `json:"number"`
}

func (c RemarkCode) String() string {
	return string(c.Category) + "-" + c.Number
}

// Classification is the outcome of mapping one claim's remark codes and the
// two raw amount columns into financial buckets. Bucket values are cleaned
// amount strings ("15.00") or "" when the bucket is unset.
type Classification struct {
	Copay              string       `json:"copay"`
	Deductible         string       `json:"deductible"`
	Coinsurance        string       `json:"coinsurance"`
	ProviderAdjustment string       `json:"provider_adjustment"`
	Label              string       `json:"classification"`
	PatientOwes        bool         `json:"patient_owes"`
	CodesFound         []RemarkCode `json:"codes_found"`
}

// CodeStrings returns the detected codes as "PR-3"-style strings in
// first-seen order.
func (c *Classification) CodeStrings() []string {
	out := make([]string, len(c.CodesFound))
	for i, code := range c.CodesFound {
		out[i] = code.String()
	}
	return out
}

// Calculation holds the payout formula outputs for one claim.
//
// Ledger columns: G = D+E+F, H = G*0.65, I = F-(D+E), J = G*0.35.
type Calculation struct {
	ContractedRate        float64  `json:"contracted_rate"`
	CounselorShare65      float64  `json:"counselor_share_65"`
	PayoutToCounselor     float64  `json:"payout_to_counselor"`
	OrgShare35            float64  `json:"org_share_35"`
	PatientResponsibility float64  `json:"patient_responsibility"`
	Valid                 bool     `json:"calculations_valid"`
	MissingFields         []string `json:"missing_fields,omitempty"`
	Warnings              []string `json:"warnings,omitempty"`
}

// NormalizedClaim is the validator's snapshot of parsed numeric fields.
type NormalizedClaim struct {
	Copay             Amount `json:"copay"`
	Deductible        Amount `json:"deductible"`
	InsurancePayment  Amount `json:"insurance_payment"`
	ContractedRate    Amount `json:"contracted_rate"`
	PaidAmount        Amount `json:"paid_amount"`
	PatientAmount     Amount `json:"patient_amount"`
	AdjustmentsAmount Amount `json:"adjustments_amount"`
}

// RuleResult is the outcome of a single validation rule.
type RuleResult struct {
	RuleKey  string             `json:"rule_key"`
	RuleName string             `json:"rule_name"`
	Severity ValidationSeverity `json:"severity"`
	Passed   bool               `json:"passed"`
	Message  string             `json:"message"`
}

// ValidationReport aggregates every triggered warning plus the independently
// re-derived cross-checks for one claim. Produced fresh per claim; the
// validator never mutates its input.
type ValidationReport struct {
	Warnings            []string        `json:"warnings"`
	ContractedRateCheck CheckState      `json:"contracted_rate_check"`
	CounselorPayout     Amount          `json:"counselor_payout"`
	Normalized          NormalizedClaim `json:"normalized"`
	Results             []RuleResult    `json:"results,omitempty"`
}

// ProcessedClaim is one fully-resolved claim record: the raw fields with
// copay/deductible resolved, plus classifier, validator and calculator output.
type ProcessedClaim struct {
	Raw            RawClaim         `json:"raw"`
	Classification Classification   `json:"classification"`
	Report         ValidationReport `json:"validation"`
	Calculation    Calculation      `json:"calculation"`
}

// ClaimRecord is the persisted audit row for a processed claim.
type ClaimRecord struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	Counselor         string          `db:"counselor" json:"counselor"`
	Client            string          `db:"client" json:"client"`
	Insurance         string          `db:"insurance" json:"insurance"`
	ServiceDate       string          `db:"service_date" json:"service_date"`
	Copay             float64         `db:"copay" json:"copay"`
	Deductible        float64         `db:"deductible" json:"deductible"`
	InsurancePayment  float64         `db:"insurance_payment" json:"insurance_payment"`
	ContractedRate    float64         `db:"contracted_rate" json:"contracted_rate"`
	CounselorShare65  float64         `db:"counselor_share_65" json:"counselor_share_65"`
	PayoutToCounselor float64         `db:"payout_to_counselor" json:"payout_to_counselor"`
	OrgShare35        float64         `db:"org_share_35" json:"org_share_35"`
	PatientOwes       bool            `db:"patient_owes" json:"patient_owes"`
	Classification    string          `db:"classification" json:"classification"`
	CodesFound        string          `db:"codes_found" json:"codes_found"`
	Remarks           string          `db:"remarks" json:"remarks"`
	Warnings          json.RawMessage `db:"warnings" json:"warnings"`
	ImageBucket       string          `db:"image_bucket" json:"image_bucket"`
	ImageKey          string          `db:"image_key" json:"image_key"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
}

// CounselorTotal is the running payout sum for one counselor.
type CounselorTotal struct {
	Counselor   string  `db:"counselor" json:"counselor"`
	ClaimCount  int     `db:"claim_count" json:"claim_count"`
	TotalPayout float64 `db:"total_payout" json:"total_payout"`
}

// Counselor is a service provider whose claims are tracked in a ledger.
type Counselor struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Insurer is a known insurance company name used for overrides.
type Insurer struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
