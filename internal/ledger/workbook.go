// Package ledger maintains the per-counselor payout workbooks and their CSV
// export. One workbook per counselor, one row per claim, with the running
// payout total carried in a spreadsheet formula so manual corrections in
// Excel propagate.
package ledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/lennonalatorre/claimflow/internal/config"
	"github.com/lennonalatorre/claimflow/internal/domain"
	"github.com/lennonalatorre/claimflow/internal/port"
)

// headers are the twelve ledger columns. Columns D-F are inputs, G-K the
// payout formula outputs, K a running sum of I.
var headers = []string{
	"Client Name",
	"Client Insurance",
	"Date of Service",
	"Client Copay",
	"Deductible being met",
	"Insurance Paid",
	"Insurance Contract Amount",
	"65% Counselor Contracted rate",
	"Amount to Counselor (copay and deductible subtracted)",
	"35% Amount Paid to Org per claim",
	"Total payout to Counselor",
	"Remarks",
}

var colWidths = []float64{20, 18, 15, 12, 12, 14, 18, 18, 20, 18, 18, 40}

const currencyFormat = "$#,##0.00"

// Workbook appends processed claims to counselor xlsx files. Safe for
// concurrent use; appends to the same directory are serialized.
type Workbook struct {
	mu        sync.Mutex
	dir       string
	sheetName string
}

// NewWorkbook creates a workbook writer rooted at cfg.Dir, creating the
// directory if needed.
func NewWorkbook(cfg *config.LedgerConfig) (*Workbook, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("ledger: create dir %s: %w", cfg.Dir, err)
	}
	sheet := cfg.SheetName
	if sheet == "" {
		sheet = "Payouts"
	}
	return &Workbook{dir: cfg.Dir, sheetName: sheet}, nil
}

var _ port.LedgerWriter = (*Workbook)(nil)

// WorkbookPath returns the xlsx path for a counselor.
func (w *Workbook) WorkbookPath(counselor string) string {
	return filepath.Join(w.dir, sanitizeName(counselor)+".xlsx")
}

// Append writes one claim row to the counselor's workbook, creating the file
// with a styled header when it does not exist yet.
func (w *Workbook) Append(ctx context.Context, counselor string, claim *domain.ProcessedClaim) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	path := w.WorkbookPath(counselor)
	f, err := w.loadOrCreate(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(w.sheetName)
	if err != nil {
		return fmt.Errorf("ledger: read %s: %w", path, err)
	}
	row := len(rows) + 1

	if err := w.writeClaimRow(f, row, claim); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("ledger: %w: save %s: %v", domain.ErrLedgerWrite, path, err)
	}
	return nil
}

func (w *Workbook) loadOrCreate(path string) (*excelize.File, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("ledger: open %s: %w", path, err)
		}
		return f, nil
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", w.sheetName); err != nil {
		return nil, fmt.Errorf("ledger: rename sheet: %w", err)
	}
	if err := w.writeHeaders(f); err != nil {
		return nil, err
	}
	return f, nil
}

func (w *Workbook) writeHeaders(f *excelize.File) error {
	cells := make([]interface{}, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	if err := f.SetSheetRow(w.sheetName, "A1", &cells); err != nil {
		return fmt.Errorf("ledger: write headers: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("ledger: header style: %w", err)
	}
	if err := f.SetCellStyle(w.sheetName, "A1", "L1", style); err != nil {
		return fmt.Errorf("ledger: apply header style: %w", err)
	}

	for i, width := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(w.sheetName, col, col, width); err != nil {
			return fmt.Errorf("ledger: column width: %w", err)
		}
	}
	return nil
}

func (w *Workbook) writeClaimRow(f *excelize.File, row int, claim *domain.ProcessedClaim) error {
	calc := &claim.Calculation
	nums := &claim.Report.Normalized

	cells := []interface{}{
		claim.Raw.Client.Or("UNKNOWN"),
		claim.Raw.Insurance.Or("UNKNOWN"),
		claim.Raw.Date.Or(""),
		nums.Copay.Or(0),
		nums.Deductible.Or(0),
		nums.InsurancePayment.Or(0),
		calc.ContractedRate,
		calc.CounselorShare65,
		calc.PayoutToCounselor,
		calc.OrgShare35,
	}
	anchor, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(w.sheetName, anchor, &cells); err != nil {
		return fmt.Errorf("ledger: write row %d: %w", row, err)
	}

	// K carries the running total: first data row is plain, later rows
	// reference the previous K so edits in Excel recalculate downstream.
	kCell := fmt.Sprintf("K%d", row)
	if row == 2 {
		if err := f.SetCellValue(w.sheetName, kCell, calc.PayoutToCounselor); err != nil {
			return fmt.Errorf("ledger: write running total: %w", err)
		}
	} else {
		formula := fmt.Sprintf("K%d+I%d", row-1, row)
		if err := f.SetCellFormula(w.sheetName, kCell, formula); err != nil {
			return fmt.Errorf("ledger: write running total formula: %w", err)
		}
	}

	if err := f.SetCellValue(w.sheetName, fmt.Sprintf("L%d", row), claim.Raw.Remarks.Or("")); err != nil {
		return fmt.Errorf("ledger: write remarks: %w", err)
	}

	return w.formatRow(f, row, claim)
}

// formatRow applies the currency format to the money columns and, when the
// claim carries warnings, attaches them as a comment and highlights the row.
func (w *Workbook) formatRow(f *excelize.File, row int, claim *domain.ProcessedClaim) error {
	currency := currencyFormat
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &currency})
	if err != nil {
		return fmt.Errorf("ledger: money style: %w", err)
	}
	if err := f.SetCellStyle(w.sheetName,
		fmt.Sprintf("D%d", row), fmt.Sprintf("K%d", row), moneyStyle); err != nil {
		return fmt.Errorf("ledger: apply money style: %w", err)
	}

	warnings := rowWarnings(claim)
	if len(warnings) == 0 {
		return nil
	}

	if err := f.AddComment(w.sheetName, excelize.Comment{
		Cell:      fmt.Sprintf("A%d", row),
		Author:    "claimflow",
		Paragraph: []excelize.RichTextRun{{Text: strings.Join(warnings, "\n")}},
	}); err != nil {
		return fmt.Errorf("ledger: add warning comment: %w", err)
	}

	highlight, err := f.NewStyle(&excelize.Style{
		Fill:         excelize.Fill{Type: "pattern", Color: []string{"FFF9C4"}, Pattern: 1},
		CustomNumFmt: &currency,
	})
	if err != nil {
		return fmt.Errorf("ledger: highlight style: %w", err)
	}
	if err := f.SetCellStyle(w.sheetName,
		fmt.Sprintf("A%d", row), fmt.Sprintf("L%d", row), highlight); err != nil {
		return fmt.Errorf("ledger: apply highlight: %w", err)
	}
	return nil
}

// rowWarnings collects everything worth flagging on the row: calculator and
// validator warnings plus missing critical fields.
func rowWarnings(claim *domain.ProcessedClaim) []string {
	var warnings []string
	warnings = append(warnings, claim.Calculation.Warnings...)
	warnings = append(warnings, claim.Report.Warnings...)

	if !claim.Calculation.Valid {
		warnings = append(warnings, "Calculations may be incomplete - check values")
	}
	if !claim.Raw.Client.Present {
		warnings = append(warnings, "Client name not found")
	}
	if !claim.Raw.InsurancePayment.Present {
		warnings = append(warnings, "Insurance payment not found")
	}
	return warnings
}

// TotalPayoutCell returns the K cell holding the newest running total, or ""
// for an empty workbook. Used by reporting to show the counselor total
// without recomputing it.
func (w *Workbook) TotalPayoutCell(counselor string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	path := w.WorkbookPath(counselor)
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("ledger: open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(w.sheetName)
	if err != nil {
		return "", fmt.Errorf("ledger: read %s: %w", path, err)
	}
	if len(rows) < 2 {
		return "", nil
	}
	return fmt.Sprintf("K%d", len(rows)), nil
}

// sanitizeName cleans a counselor name for use as a filename.
func sanitizeName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, strings.TrimSpace(name))
	if mapped == "" {
		return "unknown"
	}
	return mapped
}
