package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
}

func TestSearchCmd_PrintsHits(t *testing.T) {
	search := &cliMockSearch{hits: []domain.SearchHit{
		{
			Text:  "Maintain 34C at placement.",
			Score: 0.91,
			Metadata: domain.ChunkMetadata{
				Source:  "brooding.pdf",
				Page:    3,
				Species: domain.SpeciesBroiler,
			},
		},
	}}
	cleanup := setupTestServices(search, nil, nil, nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "temperature demarrage"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "brooding.pdf p.3")
	assert.Contains(t, buf.String(), "0.91")
	assert.Contains(t, buf.String(), "Maintain 34C at placement.")
	assert.Equal(t, "temperature demarrage", search.lastQuery)
}

func TestSearchCmd_PassesSpeciesAndLimit(t *testing.T) {
	search := &cliMockSearch{}
	cleanup := setupTestServices(search, nil, nil, nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "-n", "3", "--species", "layer", "aliment ponte"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchLimit = 0
		searchSpecies = ""
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, 3, search.lastOpts.K)
	assert.Equal(t, domain.SpeciesLayer, search.lastOpts.Species)
	assert.Contains(t, buf.String(), "No results found.")
}

func TestSearchCmd_RejectsUnknownSpecies(t *testing.T) {
	cleanup := setupTestServices(&cliMockSearch{}, nil, nil, nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", "--species", "goat", "whatever"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchSpecies = ""
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown species")
}

func TestSearchCmd_NilServiceErrors(t *testing.T) {
	cleanup := setupTestServices(nil, nil, nil, nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
}
