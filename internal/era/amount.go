// Package era implements the financial core for Explanation-of-Remittance
// processing: amount normalization, remark code classification, and the
// counselor payout formula. Every function in this package is total and
// pure; problems surface as warnings, never as panics or errors.
package era

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lennonalatorre/claimflow/internal/domain"
)

// ParseAmount parses a currency-like raw field into an optional dollar value.
//
// Absent fields and empty strings parse to an absent Amount with no warning:
// a missing optional figure is a valid business state, not an error. A
// non-empty string that survives cleaning but fails to parse also yields an
// absent Amount, distinguished only by the returned warning so the caller
// decides materiality.
func ParseAmount(f domain.Field) (domain.Amount, string) {
	if !f.Present {
		return domain.Amount{}, ""
	}
	raw := strings.TrimSpace(f.Value)
	if raw == "" {
		return domain.Amount{}, ""
	}

	cleaned := stripCurrency(raw)
	if cleaned == "" {
		return domain.Amount{}, ""
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return domain.Amount{}, fmt.Sprintf("invalid numeric value: %s", f.Value)
	}
	return domain.SomeAmount(v), ""
}

// CleanAmount applies the classifier's amount-cleaning rule: currency
// formatting is stripped and the cleaned string is returned, but a value of
// exactly zero (or anything unparsable) comes back as "". A remark code
// carrying a $0 amount must not manufacture patient responsibility, so zero
// means "no amount" here, unlike ParseAmount's general absence handling.
func CleanAmount(raw string) string {
	cleaned := stripCurrency(strings.TrimSpace(raw))
	if cleaned == "" {
		return ""
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v <= 0 {
		return ""
	}
	return cleaned
}

// stripCurrency removes the dollar sign, thousands separators, enclosing
// parentheses and whitespace. Parentheses are treated as formatting only;
// the accounting convention that they denote a negative is deliberately
// discarded here (upstream ERAs report magnitudes parenthesized).
func stripCurrency(s string) string {
	r := strings.NewReplacer("$", "", ",", "", "(", "", ")", "", " ", "")
	return r.Replace(s)
}

// FormatCurrency renders a value as "$1,234.56" for ledgers and reports.
// The round trip through ParseAmount preserves the value within a cent.
func FormatCurrency(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	whole, frac := s[:dot], s[dot:]
	for i := len(whole) - 3; i > 0; i -= 3 {
		whole = whole[:i] + "," + whole[i:]
	}
	if neg {
		return "-$" + whole + frac
	}
	return "$" + whole + frac
}
