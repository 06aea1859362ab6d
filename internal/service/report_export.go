package service

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const reportSheet = "Nightly Numbers"

// WriteReportXLSX renders the report as a two-column workbook.
func WriteReportXLSX(w io.Writer, rep Report) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(reportSheet)
	if err != nil {
		return err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := fmt.Sprintf("%s • Closer: %s • %s", rep.Date, rep.Closer, rep.GeneratedAt)
	_ = f.SetCellValue(reportSheet, "A1", header)
	_ = f.MergeCell(reportSheet, "A1", "B1")
	_ = f.SetCellValue(reportSheet, "A2", "Status")
	_ = f.SetCellValue(reportSheet, "B2", rep.Status)

	zeroStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#DC2626"},
	})
	valueStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	shade, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFF8D1"}, Pattern: 1},
	})

	for i, line := range rep.Lines {
		row := i + 4
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		_ = f.SetCellValue(reportSheet, labelCell, line.Label)
		_ = f.SetCellValue(reportSheet, valueCell, line.Value)
		if i%2 == 0 {
			_ = f.SetCellStyle(reportSheet, labelCell, labelCell, shade)
		}
		if line.Zero {
			_ = f.SetCellStyle(reportSheet, valueCell, valueCell, zeroStyle)
		} else {
			_ = f.SetCellStyle(reportSheet, valueCell, valueCell, valueStyle)
		}
	}

	_ = f.SetColWidth(reportSheet, "A", "A", 32)
	_ = f.SetColWidth(reportSheet, "B", "B", 14)

	_, err = f.WriteTo(w)
	return err
}
