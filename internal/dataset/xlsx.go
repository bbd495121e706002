package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/dana-cli/internal/common"
	"github.com/xuri/excelize/v2"
)

// loadXLSX reads the selected sheet of a workbook. The first non-empty row is the header.
// If sheet is empty, the first sheet of the workbook is used.
func loadXLSX(path, sheet string) (*Dataset, error) {
	const op = "dataset.Load"
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, common.Wrap(common.ErrFormat, op, err, "open xlsx %s", filepath.Base(path))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, common.E(common.ErrFormat, op, "workbook %s has no sheets", filepath.Base(path))
	}
	target := sheets[0]
	if sheet != "" {
		target = ""
		for _, s := range sheets {
			if strings.EqualFold(s, sheet) {
				target = s
				break
			}
		}
		if target == "" {
			return nil, common.E(common.ErrNotFound, op, "sheet '%s' not found in workbook '%s'. Available sheets: %s",
				sheet, filepath.Base(path), strings.Join(sheets, ", "))
		}
	}

	raw, err := f.GetRows(target)
	if err != nil {
		return nil, common.Wrap(common.ErrFormat, op, err, "read sheet %s", target)
	}
	var header []string
	var rows [][]string
	for i, r := range raw {
		if blankRow(r) {
			continue
		}
		if header == nil {
			header = r
			continue
		}
		if len(r) > len(header) {
			return nil, common.E(common.ErrFormat, op, "sheet %s row %d has %d cells, header has %d", target, i+1, len(r), len(header))
		}
		// excelize drops trailing empty cells
		if len(r) < len(header) {
			tmp := make([]string, len(header))
			copy(tmp, r)
			r = tmp
		}
		rows = append(rows, r)
	}
	if header == nil {
		return nil, common.E(common.ErrFormat, op, "sheet %s is empty", target)
	}
	ds, err := FromRows(header, rows)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", target, err)
	}
	return ds, nil
}

func blankRow(r []string) bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
