package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driving"
)

func TestIndexBuildCmd_ReportsCounts(t *testing.T) {
	index := &cliMockIndex{report: &driving.BuildReport{
		FilesSeen:     4,
		ChunksKept:    120,
		ChunksDropped: 2,
	}}
	cleanup := setupTestServices(nil, nil, index, nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", "build", "/data/docs", "--species", "broiler"})
	defer func() {
		rootCmd.SetArgs(nil)
		indexSpecies = "global"
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Indexed 120 chunks from 4 files into the broiler index.")
	assert.Contains(t, buf.String(), "Dropped 2 short chunks.")
	assert.Equal(t, "/data/docs", index.lastOpts.SourceDir)
	assert.Equal(t, domain.SpeciesBroiler, index.lastOpts.Species)
}

func TestIndexBuildCmd_ListsFailedFiles(t *testing.T) {
	index := &cliMockIndex{report: &driving.BuildReport{
		FilesSeen:   2,
		FilesFailed: 1,
		ChunksKept:  30,
		Errors:      map[string]string{"/data/docs/bad.pdf": "encrypted"},
	}}
	cleanup := setupTestServices(nil, nil, index, nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", "build", "/data/docs"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "1 file(s) failed")
	assert.Contains(t, buf.String(), "/data/docs/bad.pdf: encrypted")
}

func TestIndexBuildCmd_RejectsUnknownSpecies(t *testing.T) {
	cleanup := setupTestServices(nil, nil, &cliMockIndex{}, nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index", "build", "/data/docs", "--species", "goat"})
	defer func() {
		rootCmd.SetArgs(nil)
		indexSpecies = "global"
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown species")
}

func TestIndexBuildCmd_BuildErrorSurfaces(t *testing.T) {
	index := &cliMockIndex{err: errors.New("embedding service unreachable")}
	cleanup := setupTestServices(nil, nil, index, nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index", "build", "/data/docs"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding service unreachable")
}

func TestVersionCmd(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "avisearch version")
}
