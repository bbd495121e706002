package report

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/dana-cli/internal/analysis"
)

// SummarySheet is the only sheet of the spreadsheet report.
const SummarySheet = "Sheet1"

// Row labels of the spreadsheet report, rows 2 through 5 of column A.
var summaryRows = []string{"var_type", "values_number", "most_frequent_value", "less_frequent_value"}

// ExcelOptions controls WriteExcel.
type ExcelOptions struct {
	CategoricalColor string
	NumericalColor   string
	// RunID is stored as the document identifier.
	RunID string
}

// WriteExcel writes one column per dataset column with its kind, distinct count, most and
// least frequent value. Non-blank cells are filled with the color of the column kind.
func WriteExcel(path string, rep *analysis.Report, opt ExcelOptions) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close xlsx: %w", cerr)
		}
	}()

	for i, label := range summaryRows {
		if err := f.SetCellValue(SummarySheet, fmt.Sprintf("A%d", i+2), label); err != nil {
			return fmt.Errorf("write row label: %w", err)
		}
	}
	if err := f.SetColWidth(SummarySheet, "A", "A", 22); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	fills := map[analysis.ColumnKind]int{}
	for kind, color := range map[analysis.ColumnKind]string{
		analysis.Categorical: opt.CategoricalColor,
		analysis.Numerical:   opt.NumericalColor,
	} {
		id, err := f.NewConditionalStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("create %s fill: %w", kind, err)
		}
		fills[kind] = id
	}

	for j, t := range rep.Tables {
		col, err := excelize.ColumnNumberToName(j + 2)
		if err != nil {
			return fmt.Errorf("column %d: %w", j, err)
		}
		values := []any{
			t.Column,
			t.Kind.String(),
			t.Distinct(),
			cellValue(t.Kind, t.MostFrequent),
			cellValue(t.Kind, t.LeastFrequent),
		}
		for r, v := range values {
			if err := f.SetCellValue(SummarySheet, fmt.Sprintf("%s%d", col, r+1), v); err != nil {
				return fmt.Errorf("write %s: %w", t.Column, err)
			}
		}
		id := fills[t.Kind]
		rng := fmt.Sprintf("%s2:%s%d", col, col, len(summaryRows)+1)
		if err := f.SetConditionalFormat(SummarySheet, rng, []excelize.ConditionalFormatOptions{
			{Type: "no_blanks", Format: &id},
		}); err != nil {
			return fmt.Errorf("format %s: %w", t.Column, err)
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:     "dana",
		Title:       "Dataset summary",
		Description: rep.Name,
		Identifier:  opt.RunID,
	}); err != nil {
		return fmt.Errorf("set doc properties: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// cellValue stores numerical values as numbers so the spreadsheet can compute with them.
func cellValue(kind analysis.ColumnKind, v string) any {
	if kind == analysis.Numerical {
		if x, err := strconv.ParseFloat(v, 64); err == nil {
			return x
		}
	}
	return v
}
