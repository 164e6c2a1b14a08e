// Package recognition turns OCR text from ERA screenshots into structured
// claim fields. Extraction is best-effort: a field the text does not show
// stays absent, and downstream validation decides what that means.
package recognition

import (
	"regexp"
	"strings"

	"github.com/lennonalatorre/claimflow/internal/domain"
)

var (
	claimNumberRes = []*regexp.Regexp{
		regexp.MustCompile(`CLAIM\s*#?\s*(\d{6,})`),
		regexp.MustCompile(`CLAIM\s*NO\.?\s*(\d{6,})`),
		regexp.MustCompile(`CLM\s*#?\s*(\d{6,})`),
	}
	patientNameRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)PATIENT[:\s]+([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+){1,3})(\s*[-\d]|\s*$)`),
		regexp.MustCompile(`(?i)PATIENT[:\s]+([A-Z][a-zA-Z\s]{4,40})\s+\d`),
		regexp.MustCompile(`(?i)PT[:\s]+([A-Z][a-zA-Z\s]{4,40})\s+\d`),
	}
	dateRes = []*regexp.Regexp{
		regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`),
		regexp.MustCompile(`\d{1,2}-\d{1,2}-\d{4}`),
		regexp.MustCompile(`\d{4}-\d{1,2}-\d{1,2}`),
	}

	// CPT codes for psychotherapy sit in the 90xxx block.
	serviceCodeRe = regexp.MustCompile(`\b(9\d{4})\b`)

	dollarAmountRe = regexp.MustCompile(`\$\s*(\d{1,3}(?:,\d{3})*\.\d{2})`)
	parenAmountRe  = regexp.MustCompile(`\(\$?\s*(\d{1,3}(?:,\d{3})*\.\d{2})\)`)
	lineDateRe     = regexp.MustCompile(`\d{1,2}[/\-]\d{1,2}[/\-]\d{4}`)
	whitespaceRe   = regexp.MustCompile(`\s+`)

	remarkWithDescRe = regexp.MustCompile(`(PR|CO|OA|PI)-?\s?(\d+)[:\s]*([^$\n]{0,60})`)

	// Tesseract reliably misreads "CO-" as "60-" on ERA screenshots, and
	// drops the hyphen inside codes.
	ocrSixtyRe    = regexp.MustCompile(`\b60-`)
	ocrNoHyphenRe = regexp.MustCompile(`\b(PR|CO|OA|PI)(\d)`)
)

// ParseERAText extracts structured claim fields from raw OCR output.
// rawText should be the best single OCR pass; searchText may concatenate
// several passes for better recall and falls back to rawText when empty.
func ParseERAText(rawText, searchText string) domain.RawClaim {
	claim := domain.RawClaim{RawText: rawText}
	if rawText == "" {
		return claim
	}
	if searchText == "" {
		searchText = rawText
	}
	upper := strings.ToUpper(searchText)

	for _, re := range claimNumberRes {
		if m := re.FindStringSubmatch(upper); m != nil {
			claim.ClaimNumber = domain.NewField(m[1])
			break
		}
	}

	for _, re := range patientNameRes {
		if m := re.FindStringSubmatch(searchText); m != nil {
			name := whitespaceRe.ReplaceAllString(strings.TrimSpace(m[1]), " ")
			if len(strings.Fields(name)) >= 2 && len(name) >= 4 {
				claim.Client = domain.NewField(name)
				break
			}
		}
	}

	for _, re := range dateRes {
		if m := re.FindString(searchText); m != "" {
			claim.Date = domain.NewField(m)
			break
		}
	}

	if m := serviceCodeRe.FindStringSubmatch(searchText); m != nil {
		claim.ServiceCode = domain.NewField(m[1])
	}

	extractAmounts(searchText, &claim)

	if remarks := extractRemarkCodes(upper); remarks != "" {
		claim.Remarks = domain.NewField(remarks)
	}

	crossCheck(&claim)
	return claim
}

// extractAmounts locates the claim data row: the line carrying the service
// date or CPT code plus at least four dollar figures, in the standard ERA
// column order charged, patient, adjustments, paid. Header and remark lines
// are skipped so their numbers cannot be mistaken for the data row. When no
// data row is found the "Claim Totals" summary row is used instead.
func extractAmounts(text string, claim *domain.RawClaim) {
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		upper := strings.ToUpper(line)
		if strings.Contains(upper, "CHARGED RATE") || strings.Contains(upper, "PATIENT AMOUNT") {
			continue
		}
		if containsAny(upper, "PR-", "CO-", "OA-", "PI-", "CLAIM TOTAL") {
			continue
		}

		hasDate := lineDateRe.MatchString(line)
		hasCode := serviceCodeRe.MatchString(line)
		amounts := lineAmounts(line)

		if (hasDate || hasCode) && len(amounts) >= 4 {
			assignAmountColumns(claim, amounts)
			return
		}
	}

	for _, line := range lines {
		if !strings.Contains(strings.ToUpper(line), "CLAIM TOTAL") {
			continue
		}
		if amounts := lineAmounts(line); len(amounts) >= 4 {
			assignAmountColumns(claim, amounts)
			return
		}
	}
}

// lineAmounts returns the dollar figures on one line, plain amounts first
// and parenthesized ones after, matching the visual column order of ERAs.
func lineAmounts(line string) []string {
	var out []string
	for _, m := range dollarAmountRe.FindAllStringSubmatch(line, -1) {
		out = append(out, strings.ReplaceAll(m[1], ",", ""))
	}
	for _, m := range parenAmountRe.FindAllStringSubmatch(line, -1) {
		out = append(out, strings.ReplaceAll(m[1], ",", ""))
	}
	return out
}

func assignAmountColumns(claim *domain.RawClaim, amounts []string) {
	claim.ChargedRate = domain.NewField(amounts[0])
	claim.PatientAmount = domain.NewField(amounts[1])
	claim.AdjustmentsAmount = domain.NewField(amounts[2])
	claim.InsurancePayment = domain.NewField(amounts[3])
	claim.PaidAmount = domain.NewField(amounts[3])
}

// extractRemarkCodes repairs common OCR misreads, then collects adjustment
// reason codes with their trailing descriptions joined " | ".
func extractRemarkCodes(upper string) string {
	fixed := ocrSixtyRe.ReplaceAllString(upper, "CO-")
	fixed = ocrNoHyphenRe.ReplaceAllString(fixed, "$1-$2")

	matches := remarkWithDescRe.FindAllStringSubmatch(fixed, -1)
	if len(matches) == 0 {
		return ""
	}

	remarks := make([]string, 0, len(matches))
	for _, m := range matches {
		code, num, desc := m[1], m[2], strings.TrimSpace(m[3])
		if len(desc) > 50 {
			desc = desc[:50]
		}
		if desc != "" {
			remarks = append(remarks, code+"-"+num+": "+desc)
		} else {
			remarks = append(remarks, code+"-"+num)
		}
	}
	return strings.Join(remarks, " | ")
}

// crossCheck reconciles the doubly-reported payment figure. The Paid Amount
// column is printed in the totals row and survives OCR more reliably, so it
// wins over Insurance Payment when the two disagree.
func crossCheck(claim *domain.RawClaim) {
	if claim.InsurancePayment.Present && claim.PaidAmount.Present &&
		claim.InsurancePayment.Value != claim.PaidAmount.Value {
		claim.InsurancePayment = claim.PaidAmount
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
