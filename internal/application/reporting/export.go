package reporting

import (
	"io"
	"time"

	"github.com/tealeg/xlsx/v2"

	"github.com/turtacn/PatentVault/internal/domain/patent"
	"github.com/turtacn/PatentVault/pkg/errors"
)

// ExportSheetName is the worksheet that holds the exported portfolio.
const ExportSheetName = "專利清單"

// ExportColumns is the header row of an export, in column order.
var ExportColumns = []string{"專利名稱", "專利權人", "申請國家", "狀態", "類型", "申請號", "公告號", "年費到期日"}

// ExportContentType is the MIME type of an export.
const ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportFileName names an export taken at now, e.g. Patent_Export_2024-05-01.xlsx.
// The date is the UTC calendar date.
func ExportFileName(now time.Time) string {
	return "Patent_Export_" + now.UTC().Format(patent.DateLayout) + ".xlsx"
}

// exportRow returns the cells of p in ExportColumns order.
func exportRow(p *patent.Patent) []string {
	return []string{
		p.Name,
		p.Patentee,
		string(p.Country),
		string(p.Status),
		string(p.Type),
		p.AppNumber,
		p.PubNumber,
		p.AnnuityDate,
	}
}

// ExportXLSX writes ps as a single-sheet workbook.
func ExportXLSX(w io.Writer, ps []*patent.Patent) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(ExportSheetName)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "adding export sheet")
	}
	addRow(sheet, ExportColumns)
	for _, p := range ps {
		addRow(sheet, exportRow(p))
	}
	if err := f.Write(w); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "writing workbook")
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

//Personal.AI order the ending
