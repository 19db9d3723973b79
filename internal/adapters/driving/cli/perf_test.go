package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
)

func TestPerfCmd_RequiresAge(t *testing.T) {
	cleanup := setupTestServices(nil, nil, nil, &cliMockPerf{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"perf", "cobb 500"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--age is required")
}

func TestPerfCmd_PrintsRow(t *testing.T) {
	perf := &cliMockPerf{exact: &domain.PerformanceRecord{
		Line:      "cobb500",
		Sex:       domain.SexAsHatched,
		Unit:      domain.UnitMetric,
		AgeDays:   21,
		WeightG:   980,
		CumFCR:    1.39,
		SourceDoc: "cobb500-supplement.pdf",
		Page:      7,
	}}
	cleanup := setupTestServices(nil, nil, nil, perf)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"perf", "Cobb 500", "--age", "21"})
	defer func() {
		rootCmd.SetArgs(nil)
		perfAgeDays = -1
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "cobb500, as_hatched, metric, 21 days")
	assert.Contains(t, out, "980 g")
	assert.Contains(t, out, "1.39")
	assert.Contains(t, out, "cobb500-supplement.pdf p.7")
}

func TestPerfCmd_MissWithoutNearest(t *testing.T) {
	cleanup := setupTestServices(nil, nil, nil, &cliMockPerf{
		nearest: &domain.PerformanceRecord{AgeDays: 20},
	})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"perf", "cobb 500", "--age", "23"})
	defer func() {
		rootCmd.SetArgs(nil)
		perfAgeDays = -1
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No target published")
}

func TestPerfCmd_NearestFallback(t *testing.T) {
	perf := &cliMockPerf{nearest: &domain.PerformanceRecord{
		Line:    "ross308",
		Sex:     domain.SexAsHatched,
		Unit:    domain.UnitMetric,
		AgeDays: 28,
		WeightG: 1550,
	}}
	cleanup := setupTestServices(nil, nil, nil, perf)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"perf", "ross 308", "--age", "26", "--nearest"})
	defer func() {
		rootCmd.SetArgs(nil)
		perfAgeDays = -1
		perfNearest = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "1550 g")
	assert.Contains(t, out, "no target published at 26 days, showing 28 days")
}
