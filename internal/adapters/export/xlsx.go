package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"inviteticketing/internal/domain"
)

const sheetName = "Tickets"

var header = []any{"Ticket code", "Holder", "Email", "Issued at", "Redeemed at", "Delivered at"}

type xlsxExporter struct{}

// NewXLSXExporter returns a TicketExporter writing one row per ticket into an .xlsx workbook.
func NewXLSXExporter() domain.TicketExporter {
	return &xlsxExporter{}
}

func (e *xlsxExporter) Export(event *domain.Event, tickets []*domain.TicketWithHolder) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 40)
	_ = f.SetColWidth(sheetName, "B", "C", 28)
	_ = f.SetColWidth(sheetName, "D", "F", 22)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	title := "Tickets"
	if event != nil {
		title = event.Name
		if event.DateTime != nil {
			title += " (" + event.DateTime.Format("2006-01-02 15:04") + ")"
		}
	}
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return nil, err
	}
	_ = f.MergeCell(sheetName, "A1", "F1")
	_ = f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	if err := f.SetSheetRow(sheetName, "A2", &header); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(sheetName, "A2", "F2", headerStyle)

	for i, t := range tickets {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return nil, err
		}
		row := []any{
			t.TicketCode,
			t.HolderName,
			t.HolderEmail,
			formatTime(&t.IssuedAt),
			formatTime(t.RedeemedAt),
			formatTime(t.DeliveredAt),
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
