package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ward-sim/ward-sim/sim"
)

func smallRun(t *testing.T) (*sim.Result, *sim.Summary) {
	t.Helper()
	cfg := sim.DefaultConfig()
	cfg.Horizon = 30
	cfg.BaseCapacity = 20
	r, err := sim.Run(cfg)
	require.NoError(t, err)
	require.NotEmpty(t, r.Patients)
	return r, sim.Summarize(r)
}

func TestSaveResults_WritesReport(t *testing.T) {
	// GIVEN a finished run
	r, s := smallRun(t)
	path := filepath.Join(t.TempDir(), "results.json")

	// WHEN saved
	require.NoError(t, SaveResults(path, r, s))

	// THEN the file decodes back into the same report
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, r.RunID, got.RunID)
	assert.Len(t, got.Samples, len(r.Samples))
	assert.Len(t, got.Patients, len(r.Patients))
	assert.Equal(t, s.TotalPatients, got.Summary.TotalPatients)

	// THEN field names follow the patient log columns
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	first := raw["patients"].([]any)[0].(map[string]any)
	for _, key := range []string{"patient_id", "type", "arrival_time", "length_of_stay", "nmcr_delay", "total_los", "discharge_time", "nmcr_reason"} {
		assert.Contains(t, first, key)
	}
}

func TestSaveResults_BadPath(t *testing.T) {
	r, s := smallRun(t)
	err := SaveResults(filepath.Join(t.TempDir(), "missing", "results.json"), r, s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing results")
}

func TestWriteWorkbook_ThreeSheets(t *testing.T) {
	// GIVEN a finished run
	r, s := smallRun(t)
	path := filepath.Join(t.TempDir(), "ward.xlsx")

	// WHEN exported
	require.NoError(t, WriteWorkbook(path, r, s))

	// THEN the workbook has the three sheets with headers and one row per record
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetOccupancy, SheetPatients, SheetSummary}, f.GetSheetList())

	header, err := f.GetCellValue(SheetOccupancy, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Occupancy", header)

	rows, err := f.GetRows(SheetOccupancy)
	require.NoError(t, err)
	assert.Len(t, rows, len(r.Samples)+1)

	rows, err = f.GetRows(SheetPatients)
	require.NoError(t, err)
	require.Len(t, rows, len(r.Patients)+1)
	assert.Equal(t, patientHeaders, rows[0])
	assert.Equal(t, string(r.Patients[0].Type), rows[1][1])
	assert.Equal(t, r.Patients[0].Bed, rows[1][10])

	runID, err := f.GetCellValue(SheetSummary, "B2")
	require.NoError(t, err)
	assert.Equal(t, r.RunID, runID)
}
