// Package export renders PMS data as spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/ukydev/marine-pms/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	HoursSheet     = "Running Hours"
	EquipmentSheet = "Equipment"

	// ContentType is the MIME type of xlsx workbooks.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// HoursHeader is the first row of the running-hours sheet.
var HoursHeader = []string{"Date", "Daily Hours", "Total Hours", "Note"}

// RunningHoursWorkbook builds a workbook with one row per record, in the
// order given, and an equipment summary sheet. The caller closes the
// returned file.
func RunningHoursWorkbook(eq models.Equipment, records []models.RunningHours) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", HoursSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeHours(f, records); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeEquipment(f, eq); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeHours(f *excelize.File, records []models.RunningHours) error {
	header := make([]interface{}, len(HoursHeader))
	for i, h := range HoursHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(HoursSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetCellStyle(HoursSheet, "A1", "D1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			rec.RecordedDate.Format(models.DateLayout),
			rec.DailyHours,
			rec.TotalHours,
			rec.Note,
		}
		if err := f.SetSheetRow(HoursSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(HoursSheet, "A", "C", 14); err != nil {
		return err
	}
	return f.SetColWidth(HoursSheet, "D", "D", 40)
}

func writeEquipment(f *excelize.File, eq models.Equipment) error {
	if _, err := f.NewSheet(EquipmentSheet); err != nil {
		return fmt.Errorf("create equipment sheet: %w", err)
	}
	interval := ""
	if eq.OverhaulIntervalHours != nil {
		interval = fmt.Sprintf("%g", *eq.OverhaulIntervalHours)
	}
	rows := [][]interface{}{
		{"Code", eq.EquipmentCode},
		{"Name", eq.Name},
		{"Category", eq.Category},
		{"Maker", eq.Maker},
		{"Model", eq.Model},
		{"Current Running Hours", eq.CurrentRunningHours},
		{"Overhaul Interval Hours", interval},
		{"Status", string(eq.Status)},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(EquipmentSheet, cell, &row); err != nil {
			return fmt.Errorf("write equipment row: %w", err)
		}
	}
	return f.SetColWidth(EquipmentSheet, "A", "A", 26)
}

// WriteRunningHours streams the workbook for eq and records to w.
func WriteRunningHours(w io.Writer, eq models.Equipment, records []models.RunningHours) error {
	f, err := RunningHoursWorkbook(eq, records)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// FileName is the download name of the running-hours export of eq.
func FileName(eq models.Equipment) string {
	code := eq.EquipmentCode
	if code == "" {
		code = eq.ID.Hex()
	}
	return fmt.Sprintf("running-hours-%s.xlsx", code)
}
