package ledger

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lennonalatorre/claimflow/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// exportColumns defines the CSV header row for claim exports.
var exportColumns = []string{
	"Counselor",
	"Client Name",
	"Client Insurance",
	"Date of Service",
	"Client Copay",
	"Deductible being met",
	"Insurance Paid",
	"Insurance Contract Amount",
	"65% Counselor Contracted rate",
	"Amount to Counselor",
	"35% Amount Paid to Org",
	"Patient Owes",
	"Classification",
	"Remark Codes",
	"Remarks",
	"Warnings",
	"Processed At",
}

// ExportWriter wraps csv.Writer for exporting claim records as CSV.
type ExportWriter struct {
	csv *csv.Writer
}

// NewExportWriter creates an ExportWriter that writes CSV to w.
func NewExportWriter(w io.Writer) *ExportWriter {
	return &ExportWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *ExportWriter) WriteHeader() error {
	return w.csv.Write(exportColumns)
}

// WriteRecords converts a batch of claim records to CSV rows and writes them.
func (w *ExportWriter) WriteRecords(records []domain.ClaimRecord) error {
	for i := range records {
		if err := w.csv.Write(recordToRow(&records[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *ExportWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *ExportWriter) Error() error {
	return w.csv.Error()
}

func recordToRow(rec *domain.ClaimRecord) []string {
	row := make([]string, len(exportColumns))
	row[0] = rec.Counselor
	row[1] = rec.Client
	row[2] = rec.Insurance
	row[3] = rec.ServiceDate
	row[4] = formatMoney(rec.Copay)
	row[5] = formatMoney(rec.Deductible)
	row[6] = formatMoney(rec.InsurancePayment)
	row[7] = formatMoney(rec.ContractedRate)
	row[8] = formatMoney(rec.CounselorShare65)
	row[9] = formatMoney(rec.PayoutToCounselor)
	row[10] = formatMoney(rec.OrgShare35)
	row[11] = formatBool(rec.PatientOwes)
	row[12] = rec.Classification
	row[13] = rec.CodesFound
	row[14] = rec.Remarks
	row[15] = joinWarnings(rec.Warnings)
	row[16] = rec.CreatedAt.Format(time.RFC3339)
	return row
}

// joinWarnings flattens the stored JSON warning array into one cell.
func joinWarnings(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var warnings []string
	if err := json.Unmarshal(raw, &warnings); err != nil {
		return string(raw)
	}
	return strings.Join(warnings, " | ")
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a counselor name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {prefix}_{sanitized_name}_{YYYY-MM-DD}.csv
func BuildFilename(prefix, name string) string {
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s_%s.csv", prefix, SanitizeFilename(name), date)
}
