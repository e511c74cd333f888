// Package export renders billing data as xlsx workbooks for download.
package export

import (
	"bytes"
	"fmt"

	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	"github.com/harborlaw/legal_billing_app/internal/utils"
	"github.com/xuri/excelize/v2"
)

// InvoiceWorkbook renders one invoice as a single-sheet workbook: a header
// block, one row per line item, and the totals ladder beneath.
func InvoiceWorkbook(invoice *domain.Invoice, client *domain.Client) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Invoice"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	set := func(cell string, value interface{}) error {
		return f.SetCellValue(sheet, cell, value)
	}

	headerRows := [][2]interface{}{
		{"Invoice", invoice.Number},
		{"Status", string(invoice.Status)},
		{"Client", client.Name},
		{"Issue date", invoice.IssueDate.Format("2006-01-02")},
	}
	row := 1
	for _, hr := range headerRows {
		if err := set(fmt.Sprintf("A%d", row), hr[0]); err != nil {
			return nil, err
		}
		if err := set(fmt.Sprintf("B%d", row), hr[1]); err != nil {
			return nil, err
		}
		row++
	}
	if invoice.DueDate != nil {
		if err := set(fmt.Sprintf("A%d", row), "Due date"); err != nil {
			return nil, err
		}
		if err := set(fmt.Sprintf("B%d", row), invoice.DueDate.Format("2006-01-02")); err != nil {
			return nil, err
		}
		row++
	}
	row++

	columns := []string{"Date", "Description", "Hours", "Rate", "Qty", "Unit price", "Amount"}
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		if err := set(cell, col); err != nil {
			return nil, err
		}
	}
	if err := f.SetRowStyle(sheet, row, row, bold); err != nil {
		return nil, fmt.Errorf("style header row: %w", err)
	}
	row++

	for _, line := range invoice.LineItems {
		values := make([]interface{}, len(columns))
		values[1] = line.Description
		values[6] = utils.FormatMoney(line.Amount)
		switch line.Kind {
		case domain.LineItemTime:
			if line.WorkDate != nil {
				values[0] = line.WorkDate.Format("2006-01-02")
			}
			values[2] = utils.FormatHours(line.Hours)
			values[3] = utils.FormatMoney(line.Rate)
		case domain.LineItemManual:
			values[4] = line.Quantity.String()
			values[5] = utils.FormatMoney(line.UnitPrice)
		}
		for i, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := set(cell, v); err != nil {
				return nil, err
			}
		}
		row++
	}
	row++

	totals := [][2]string{
		{"Original total", utils.FormatMoney(invoice.OriginalTotal)},
		{"Time total", utils.FormatMoney(invoice.TotalTimeAmount)},
		{"Total hours", utils.FormatHours(invoice.TotalHours)},
		{"Final total", utils.FormatMoney(invoice.FinalTotal)},
		{"Discount", utils.FormatMoney(invoice.Discount)},
		{"Manual items", utils.FormatMoney(invoice.ManualItemsTotal)},
		{"Grand total", utils.FormatMoney(invoice.GrandTotal)},
	}
	for _, t := range totals {
		if err := set(fmt.Sprintf("F%d", row), t[0]); err != nil {
			return nil, err
		}
		if err := set(fmt.Sprintf("G%d", row), t[1]); err != nil {
			return nil, err
		}
		row++
	}
	if err := f.SetRowStyle(sheet, row-1, row-1, bold); err != nil {
		return nil, fmt.Errorf("style grand total row: %w", err)
	}

	if err := f.SetColWidth(sheet, "B", "B", 40); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// SummaryWorkbook renders a client's unbilled summary: one sheet with a row
// per case group and the client rollup at the bottom.
func SummaryWorkbook(summary *domain.ClientSummary, client *domain.Client) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Unbilled"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	set := func(cell string, value interface{}) error {
		return f.SetCellValue(sheet, cell, value)
	}

	if err := set("A1", "Client"); err != nil {
		return nil, err
	}
	if err := set("B1", client.Name); err != nil {
		return nil, err
	}

	columns := []string{"Case", "Title", "Entries", "Hours", "Amount"}
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		if err := set(cell, col); err != nil {
			return nil, err
		}
	}
	if err := f.SetRowStyle(sheet, 3, 3, bold); err != nil {
		return nil, fmt.Errorf("style header row: %w", err)
	}

	row := 4
	for _, g := range summary.Cases {
		number := g.CaseNumber
		if g.CaseID == domain.NoCaseKey {
			number = "(no case)"
		}
		values := []interface{}{
			number,
			g.CaseTitle,
			g.EntryCount,
			utils.FormatHours(g.TotalHours),
			utils.FormatMoney(g.TotalAmount),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := set(cell, v); err != nil {
				return nil, err
			}
		}
		row++
	}

	row++
	totals := []interface{}{
		"Total",
		"",
		summary.EntryCount,
		utils.FormatHours(summary.TotalHours),
		utils.FormatMoney(summary.TotalAmount),
	}
	for i, v := range totals {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		if err := set(cell, v); err != nil {
			return nil, err
		}
	}
	if err := f.SetRowStyle(sheet, row, row, bold); err != nil {
		return nil, fmt.Errorf("style total row: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
