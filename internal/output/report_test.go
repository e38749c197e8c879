package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpgo/wealthsim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixReportClock(t *testing.T) {
	t.Helper()
	SetNowFunc(func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) })
	t.Cleanup(func() { SetNowFunc(time.Now) })
}

func TestGenerateReportAll(t *testing.T) {
	fixReportClock(t)
	dir := filepath.Join(t.TempDir(), "results")

	files, err := GenerateReport(buildTestReport(), "all", dir)
	require.NoError(t, err)
	require.Len(t, files, 5)

	want := []string{
		"simulation_20260102_030405_console.txt",
		"simulation_20260102_030405_csv.csv",
		"simulation_20260102_030405_distribution-csv.csv",
		"simulation_20260102_030405_json.json",
		"simulation_20260102_030405_parameters.txt",
	}
	for i, name := range want {
		assert.Equal(t, filepath.Join(dir, name), files[i])
		info, err := os.Stat(files[i])
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestGenerateReportSingleFormat(t *testing.T) {
	fixReportClock(t)
	dir := t.TempDir()

	files, err := GenerateReport(buildTestReport(), "json-pretty", dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "simulation_20260102_030405_json.json")}, files)
}

func TestGenerateReportUnknownFormat(t *testing.T) {
	_, err := GenerateReport(buildTestReport(), "html", t.TempDir())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWriteFormattedFormatterError(t *testing.T) {
	failing := FormatterFunc{ID: "broken", Ext: "txt", F: func(*domain.SimulationReport) ([]byte, error) { return nil, os.ErrInvalid }}
	_, err := WriteFormatted(failing, buildTestReport(), t.TempDir())
	assert.ErrorIs(t, err, os.ErrInvalid)
	assert.Contains(t, err.Error(), "format broken")
}
