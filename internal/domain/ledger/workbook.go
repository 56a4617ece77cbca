package ledger

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/categorization"
)

// Sheet column headers, in order.
const (
	HeaderDate        = "Date"
	HeaderDescription = "Description"
	HeaderAmount      = "Amount"
	HeaderType        = "Type"
	HeaderAccount     = "Account"
	HeaderFriendSplit = "Friend Split"
	HeaderAmountBorne = "Amount Borne"
	HeaderNotes       = "Notes"
)

// HeaderRow is the first row of every monthly sheet.
var HeaderRow = []string{
	HeaderDate, HeaderDescription, HeaderAmount, HeaderType,
	HeaderAccount, HeaderFriendSplit, HeaderAmountBorne, HeaderNotes,
}

// Column widths in pixels, keyed by header.
var headerWidths = map[string]int{
	HeaderDate:        100,
	HeaderDescription: 250,
	HeaderAmount:      100,
	HeaderType:        120,
	HeaderAccount:     150,
	HeaderFriendSplit: 120,
	HeaderAmountBorne: 120,
	HeaderNotes:       200,
}

// validationRows is how far down the Type dropdown reaches.
const validationRows = 1000

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// columnOf returns the column letter of a header, e.g. "C" for Amount.
func columnOf(header string) string {
	for i, h := range HeaderRow {
		if h == header {
			name, _ := excelize.ColumnNumberToName(i + 1)
			return name
		}
	}
	return ""
}

// pixelsToWidth converts a pixel width to Excel character units for the
// default 11pt font.
func pixelsToWidth(px int) float64 {
	return float64(px) / 7
}

// amountBorneFormula is the Amount Borne cell formula for a sheet row.
func amountBorneFormula(row int) string {
	a, f := columnOf(HeaderAmount), columnOf(HeaderFriendSplit)
	return fmt.Sprintf("IF(AND(%s%d>0,%s%d>=0),%s%d-%s%d,%s%d)", a, row, f, row, a, row, f, row, a, row)
}

// WriteWorkbook renders the month as an xlsx workbook with one sheet named
// after the month.
func WriteWorkbook(w io.Writer, month Month, entries []Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := month.String()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeHeader(f, sheet); err != nil {
		return err
	}
	if err := addTypeDropdown(f, sheet); err != nil {
		return err
	}

	typeStyles := make(map[categorization.Category]int)
	typeCol := columnOf(HeaderType)

	for i, e := range entries {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []interface{}{
			e.OccurredAt.Format("2006-01-02"),
			e.Description,
			e.Amount.ToDecimal().InexactFloat64(),
			string(e.Category),
			e.Account,
			e.FriendSplit.ToDecimal().InexactFloat64(),
			nil,
			e.Notes,
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}

		borneCell := fmt.Sprintf("%s%d", columnOf(HeaderAmountBorne), row)
		if err := f.SetCellFormula(sheet, borneCell, amountBorneFormula(row)); err != nil {
			return fmt.Errorf("failed to write formula for row %d: %w", row, err)
		}

		style, ok := typeStyles[e.Category]
		if !ok {
			var err error
			style, err = f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{e.Category.Color()}},
			})
			if err != nil {
				return fmt.Errorf("failed to create type style: %w", err)
			}
			typeStyles[e.Category] = style
		}
		typeCell := fmt.Sprintf("%s%d", typeCol, row)
		if err := f.SetCellStyle(sheet, typeCell, typeCell, style); err != nil {
			return fmt.Errorf("failed to style row %d: %w", row, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string) error {
	if err := f.SetSheetRow(sheet, "A1", &HeaderRow); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, h := range HeaderRow {
		col := columnOf(h)
		if err := f.SetColWidth(sheet, col, col, pixelsToWidth(headerWidths[h])); err != nil {
			return fmt.Errorf("failed to set width of %s: %w", h, err)
		}
	}

	last := columnOf(HeaderRow[len(HeaderRow)-1])
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E6E6E6"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	if err := f.AutoFilter(sheet, "A1:"+last+"1", nil); err != nil {
		return fmt.Errorf("failed to add filter: %w", err)
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func addTypeDropdown(f *excelize.File, sheet string) error {
	options := make([]string, 0, len(categorization.Categories()))
	for _, c := range categorization.Categories() {
		options = append(options, string(c))
	}

	col := columnOf(HeaderType)
	dv := excelize.NewDataValidation(true)
	dv.Sqref = fmt.Sprintf("%s2:%s%d", col, col, validationRows)
	if err := dv.SetDropList(options); err != nil {
		return fmt.Errorf("failed to build type dropdown: %w", err)
	}
	if err := f.AddDataValidation(sheet, dv); err != nil {
		return fmt.Errorf("failed to add type dropdown: %w", err)
	}
	return nil
}

type csvRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Type        string `csv:"Type"`
	Account     string `csv:"Account"`
	FriendSplit string `csv:"Friend Split"`
	AmountBorne string `csv:"Amount Borne"`
	Notes       string `csv:"Notes"`
}

// WriteCSV renders the month as CSV with the sheet's columns. Amount Borne
// is written as a value rather than a formula.
func WriteCSV(w io.Writer, entries []Entry) error {
	rows := make([]*csvRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, &csvRow{
			Date:        e.OccurredAt.Format("2006-01-02"),
			Description: e.Description,
			Amount:      e.Amount.String(),
			Type:        string(e.Category),
			Account:     e.Account,
			FriendSplit: e.FriendSplit.String(),
			AmountBorne: e.AmountBorne().String(),
			Notes:       e.Notes,
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
