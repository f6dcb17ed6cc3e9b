package spreadsheet

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Snapshot is the parsed form of the shared workbook: the header row retained
// verbatim plus the flat, ungrouped data rows.
type Snapshot struct {
	Sheet  string
	Header Row
	Rows   []Row
}

// Parse reads the first sheet of an xlsx blob into a Snapshot.
func Parse(data []byte) (*Snapshot, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseFile(f)
}

func parseFile(f *excelize.File) (*Snapshot, error) {
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}
	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Sheet: sheet}
	if len(raw) == 0 {
		snap.Header = pad(append(Row{}, Header...))
		return snap, nil
	}
	snap.Header = pad(Row(raw[0]))
	for _, r := range raw[1:] {
		snap.Rows = append(snap.Rows, pad(Row(r)))
	}
	return snap, nil
}

// numeric columns: the six sub-scores plus the composite score
func isNumericCol(col int) bool {
	return col >= 5 && col <= scoreCol
}

// rewriteBody replaces the sheet's body with rows and reapplies the workbook's
// visual conventions: center-aligned header cells and the thick-bordered,
// centered "Total Score" block on each summary row. The header values are
// written back verbatim.
func rewriteBody(f *excelize.File, snap *Snapshot, rows []Row) error {
	sheet := snap.Sheet

	existing, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	// Remove existing body rows bottom-up so indices stay valid.
	for i := len(existing); i >= 2; i-- {
		if err := f.RemoveRow(sheet, i); err != nil {
			return err
		}
	}

	centered, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 5},
			{Type: "top", Color: "000000", Style: 5},
			{Type: "bottom", Color: "000000", Style: 5},
		},
	})
	if err != nil {
		return err
	}
	avgStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "right", Color: "000000", Style: 5},
			{Type: "top", Color: "000000", Style: 5},
			{Type: "bottom", Color: "000000", Style: 5},
		},
	})
	if err != nil {
		return err
	}

	headerValues := make([]interface{}, len(snap.Header))
	for i, cell := range snap.Header {
		headerValues[i] = cell
	}
	if err := f.SetSheetRow(sheet, "A1", &headerValues); err != nil {
		return err
	}

	for i, row := range rows {
		rowNo := i + 2
		values := make([]interface{}, len(row))
		for j, cell := range row {
			if isNumericCol(j) && cell != "" {
				if v, perr := strconv.ParseFloat(cell, 64); perr == nil {
					values[j] = v
					continue
				}
			}
			values[j] = cell
		}

		cellRef, err := excelize.CoordinatesToCellName(1, rowNo)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cellRef, &values); err != nil {
			return err
		}

		if row.IsSummary() {
			labelRef, err := excelize.CoordinatesToCellName(labelCol+1, rowNo)
			if err != nil {
				return err
			}
			avgRef, err := excelize.CoordinatesToCellName(scoreCol+1, rowNo)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, labelRef, labelRef, labelStyle); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, avgRef, avgRef, avgStyle); err != nil {
				return err
			}
		}
	}

	headerLast, err := excelize.CoordinatesToCellName(NumColumns, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", headerLast, centered)
}
