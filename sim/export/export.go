// Package export writes a finished run to disk: a JSON document for tooling and
// an XLSX workbook for ward planners.
package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/ward-sim/ward-sim/sim"
)

// Sheet names of the exported workbook.
const (
	SheetOccupancy = "Occupancy"
	SheetPatients  = "Patients"
	SheetSummary   = "Summary"
)

// Report is the JSON document written by SaveResults.
type Report struct {
	RunID    string                `json:"run_id"`
	Summary  *sim.Summary          `json:"summary"`
	Samples  []sim.OccupancySample `json:"samples"`
	Patients []sim.PatientRecord   `json:"patients"`
}

// SaveResults writes the run and its summary as indented JSON to path.
func SaveResults(path string, r *sim.Result, s *sim.Summary) error {
	report := Report{RunID: r.RunID, Summary: s, Samples: r.Samples, Patients: r.Patients}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing results to %s: %w", path, err)
	}
	logrus.Infof("Results written to %s", path)
	return nil
}

var patientHeaders = []string{
	"Patient ID", "Type", "Arrival Time", "Length of Stay", "NMCR Delay", "Total LOS",
	"Admission Time", "Wait Time", "Discharge Time", "NMCR Reason", "Bed",
}

// WriteWorkbook writes Occupancy, Patients and Summary sheets to an XLSX file at path.
func WriteWorkbook(path string, r *sim.Result, s *sim.Summary) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Warnf("closing workbook: %v", err)
		}
	}()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeOccupancy(f, headerStyle, r.Samples); err != nil {
		return err
	}
	if err := writePatients(f, headerStyle, r.Patients); err != nil {
		return err
	}
	if err := writeSummary(f, headerStyle, r, s); err != nil {
		return err
	}

	// the default sheet is replaced by the three above
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(SheetOccupancy)
	if err != nil {
		return fmt.Errorf("failed to find sheet %s: %w", SheetOccupancy, err)
	}
	f.SetActiveSheet(idx)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	logrus.Infof("Workbook written to %s", path)
	return nil
}

func writeOccupancy(f *excelize.File, style int, samples []sim.OccupancySample) error {
	if err := newSheet(f, SheetOccupancy, style, []string{"Time", "Occupancy"}); err != nil {
		return err
	}
	for i, smp := range samples {
		if err := setRow(f, SheetOccupancy, i+2, []any{smp.Time, smp.Occupied}); err != nil {
			return err
		}
	}
	return nil
}

func writePatients(f *excelize.File, style int, patients []sim.PatientRecord) error {
	if err := newSheet(f, SheetPatients, style, patientHeaders); err != nil {
		return err
	}
	for i, p := range patients {
		row := []any{
			p.ID, string(p.Type), p.ArrivalTime, p.BaseLOS, p.NMCRDelay, p.TotalLOS,
			p.AdmissionTime, p.WaitTime, p.DischargeTime, string(p.NMCRReason), p.Bed,
		}
		if err := setRow(f, SheetPatients, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, style int, r *sim.Result, s *sim.Summary) error {
	if err := newSheet(f, SheetSummary, style, []string{"Metric", "Value"}); err != nil {
		return err
	}
	rows := [][]any{
		{"Run ID", r.RunID},
		{"Seed", r.Seed},
		{"Horizon (days)", r.Horizon},
		{"Base Capacity", r.BaseCapacity},
		{"Extra Capacity", r.ExtraCapacity},
		{"Boarding Enabled", r.BoardingEnabled},
		{"Average Occupancy", s.AverageOccupancy},
		{"Maximum Occupancy", s.MaxOccupancy},
		{"Overflow Events", s.OverflowEvents},
		{"Total Patients", s.TotalPatients},
		{"Boarded Patients", s.BoardedPatients},
		{"Queued Patients", s.QueuedPatients},
		{"Mean Wait Time", s.MeanWaitTime},
		{"Patients with NMCR Delays", s.NMCRPatients},
		{"NMCR Percent", s.NMCRPercent},
		{"Average NMCR Delay", s.MeanNMCRDelay},
		{"Internal Reasons", s.NMCRInternal},
		{"External Reasons", s.NMCRExternal},
		{"Waiting at Horizon", s.WaitingAtEnd},
		{"Occupying at Horizon", s.OccupyingAtEnd},
	}
	for i, row := range rows {
		if err := setRow(f, SheetSummary, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetSummary, "A", "A", 28)
}

// newSheet creates sheet with a bold header row frozen at the top.
func newSheet(f *excelize.File, sheet string, style int, headers []string) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes on %s: %w", sheet, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
