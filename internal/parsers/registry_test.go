package parsers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
)

type fakeParser struct {
	name     string
	score    float64
	priority int
	segments []domain.Segment
	err      error
	panics   bool
	calls    int
}

func (f *fakeParser) Name() string { return f.name }

func (f *fakeParser) CanParse(string) float64 { return f.score }

func (f *fakeParser) Priority() int { return f.priority }

func (f *fakeParser) Parse(context.Context, string) ([]domain.Segment, error) {
	f.calls++
	if f.panics {
		panic("broken extractor")
	}
	return f.segments, f.err
}

func seg(text string) []domain.Segment {
	return []domain.Segment{{Text: text, ChunkType: domain.ChunkTypeText}}
}

func TestRankOrdersByScoreThenPriority(t *testing.T) {
	low := &fakeParser{name: "low", score: 0.5, priority: 90}
	high := &fakeParser{name: "high", score: 1.0, priority: 10}
	peer := &fakeParser{name: "peer", score: 1.0, priority: 80}
	out := &fakeParser{name: "out", score: 0}

	r := &Registry{timeout: DefaultParseTimeout}
	r.Register(low)
	r.Register(high)
	r.Register(peer)
	r.Register(out)

	ranked := r.rank("doc.txt")
	require.Len(t, ranked, 3)
	assert.Equal(t, "peer", ranked[0].Name())
	assert.Equal(t, "high", ranked[1].Name())
	assert.Equal(t, "low", ranked[2].Name())
}

func TestCascadeStopsAtFirstNonEmpty(t *testing.T) {
	first := &fakeParser{name: "first", score: 1.0, priority: 90, segments: seg("hit")}
	second := &fakeParser{name: "second", score: 1.0, priority: 10, segments: seg("never")}

	r := &Registry{timeout: DefaultParseTimeout}
	r.Register(first)
	r.Register(second)

	segments, err := r.Parse(context.Background(), "doc.txt")
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "hit", segments[0].Text)
	assert.Zero(t, second.calls)
}

func TestCascadeReturnsLastError(t *testing.T) {
	errA := errors.New("parser a broke")
	errB := errors.New("parser b broke")
	a := &fakeParser{name: "a", score: 1.0, priority: 90, err: errA}
	b := &fakeParser{name: "b", score: 1.0, priority: 10, err: errB}

	r := &Registry{timeout: DefaultParseTimeout}
	r.Register(a)
	r.Register(b)

	segments, err := r.Parse(context.Background(), "doc.txt")
	assert.Nil(t, segments)
	assert.ErrorIs(t, err, errB)
}

func TestAggregateConcatenatesPDFParsers(t *testing.T) {
	text := &fakeParser{name: "text", score: 1.0, priority: 60, segments: seg("prose")}
	table := &fakeParser{name: "table", score: 1.0, priority: 70, segments: seg("table")}
	failing := &fakeParser{name: "bad", score: 1.0, priority: 99, err: errors.New("nope")}

	r := &Registry{timeout: DefaultParseTimeout}
	r.Register(text)
	r.Register(table)
	r.Register(failing)

	segments, err := r.Parse(context.Background(), "doc.pdf")
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, "table", segments[0].Text)
	assert.Equal(t, "prose", segments[1].Text)
}

func TestParsePanicDoesNotAbortCascade(t *testing.T) {
	broken := &fakeParser{name: "broken", score: 1.0, priority: 90, panics: true}
	fallback := &fakeParser{name: "fallback", score: 1.0, priority: 10, segments: seg("rescued")}

	r := &Registry{timeout: DefaultParseTimeout}
	r.Register(broken)
	r.Register(fallback)

	segments, err := r.Parse(context.Background(), "doc.txt")
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "rescued", segments[0].Text)
}

func TestAggregateReturnsErrorWhenAllParsersFail(t *testing.T) {
	errText := errors.New("text extraction broke")
	errTable := errors.New("table extraction broke")
	text := &fakeParser{name: "text", score: 1.0, priority: 60, err: errText}
	table := &fakeParser{name: "table", score: 1.0, priority: 70, err: errTable}

	r := &Registry{timeout: DefaultParseTimeout}
	r.Register(text)
	r.Register(table)

	segments, err := r.Parse(context.Background(), "doc.pdf")
	assert.Nil(t, segments)
	assert.ErrorIs(t, err, errText)
}

func TestAggregatePartialFailureStillSucceeds(t *testing.T) {
	working := &fakeParser{name: "text", score: 1.0, priority: 60, segments: seg("prose")}
	failing := &fakeParser{name: "table", score: 1.0, priority: 70, err: errors.New("nope")}

	r := &Registry{timeout: DefaultParseTimeout}
	r.Register(working)
	r.Register(failing)

	segments, err := r.Parse(context.Background(), "doc.pdf")
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "prose", segments[0].Text)
}

func TestParseUnclaimedFile(t *testing.T) {
	r := NewRegistry(DefaultCapabilities())
	segments, err := r.Parse(context.Background(), "archive.zip")
	assert.Nil(t, segments)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestDefaultRegistryParsesPlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("broiler feed conversion notes"), 0o644))

	r := NewRegistry(DefaultCapabilities())
	segments, err := r.Parse(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "broiler feed conversion notes", segments[0].Text)
}
