package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kpaulsen/itemforge/internal/itemgen"
	"github.com/kpaulsen/itemforge/internal/memo"
	"github.com/kpaulsen/itemforge/internal/refmat"
)

// fakeGenerator appends canned batches, or fails after appending a
// partial prefix.
type fakeGenerator struct {
	batches []string
	err     error
	calls   int
}

func (g *fakeGenerator) Generate(_ context.Context, _ itemgen.Request, _ refmat.Bundle, sink itemgen.Sink) error {
	g.calls++
	for _, b := range g.batches {
		sink.Append(b)
	}
	return g.err
}

type staticRefs struct {
	bundle refmat.Bundle
}

func (r staticRefs) Load(_, _ string) refmat.Bundle { return r.bundle }

func serviceRequest() itemgen.Request {
	return itemgen.Request{
		Grade:     "Grade 6",
		Unit:      "Unit 2",
		ItemType:  itemgen.TypeMultipleChoice,
		Count:     3,
		Standards: "MS-LS1-6",
		WillDo:    "Construct an explanation of photosynthesis.",
	}
}

func TestGenerateBuildsResult(t *testing.T) {
	gen := &fakeGenerator{batches: []string{"Item 1: a\nAnswer: A", "Item 2: b\nAnswer: B"}}
	svc := NewService(gen, staticRefs{}, nil)

	res, cached, err := svc.Generate(context.Background(), serviceRequest())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "Item 1: a\nAnswer: A\n\nItem 2: b\nAnswer: B\n\n", res.Text)
	assert.Equal(t, "Grade 6 Unit 2 Multiple Choice Item Types.docx", res.FileName)
	assert.NotEmpty(t, res.Docx)
}

func TestGenerateServesCacheForIdenticalRequest(t *testing.T) {
	gen := &fakeGenerator{batches: []string{"Item 1: a"}}
	svc := NewService(gen, staticRefs{}, nil)

	first, cached, err := svc.Generate(context.Background(), serviceRequest())
	require.NoError(t, err)
	require.False(t, cached)

	second, cached, err := svc.Generate(context.Background(), serviceRequest())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Same(t, first, second)
	assert.Equal(t, 1, gen.calls)
}

func TestGenerateChangedRequestRegenerates(t *testing.T) {
	gen := &fakeGenerator{batches: []string{"Item 1: a"}}
	svc := NewService(gen, staticRefs{}, nil)

	_, _, err := svc.Generate(context.Background(), serviceRequest())
	require.NoError(t, err)

	changed := serviceRequest()
	changed.Count = 4
	_, cached, err := svc.Generate(context.Background(), changed)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, gen.calls)
}

func TestGenerateFailureLeavesNothingCached(t *testing.T) {
	gen := &fakeGenerator{batches: []string{"Item 1: a"}}
	svc := NewService(gen, staticRefs{}, nil)

	req := serviceRequest()
	_, _, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)

	failing := serviceRequest()
	failing.Count = 5
	gen.batches = []string{"Item 1: partial"}
	gen.err = errors.New("provider down")

	res, _, err := svc.Generate(context.Background(), failing)
	require.Error(t, err)
	assert.Nil(t, res)

	// The fresh trigger evicted the earlier result before the failure,
	// so nothing is served from cache afterwards.
	gen.err = nil
	gen.batches = []string{"Item 1: regenerated"}
	regen, cached, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Contains(t, regen.Text, "Item 1: regenerated")

	// The failed request itself was never cached either.
	_, cached, err = svc.Generate(context.Background(), failing)
	require.NoError(t, err)
	assert.False(t, cached)
}

func TestGenerateRejectsInvalidRequest(t *testing.T) {
	gen := &fakeGenerator{}
	svc := NewService(gen, staticRefs{}, nil)

	req := serviceRequest()
	req.Grade = ""
	_, _, err := svc.Generate(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, 0, gen.calls)
}

func TestClearCacheForcesRegeneration(t *testing.T) {
	gen := &fakeGenerator{batches: []string{"Item 1: a"}}
	svc := NewService(gen, staticRefs{}, nil)

	_, _, err := svc.Generate(context.Background(), serviceRequest())
	require.NoError(t, err)

	svc.ClearCache()

	_, cached, err := svc.Generate(context.Background(), serviceRequest())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, gen.calls)
}

func TestSaveResult(t *testing.T) {
	dir := t.TempDir()
	res := &memo.Result{FileName: "Grade 6 Unit 2 Multiple Choice Item Types.docx", Docx: []byte("PK\x03\x04")}

	path, err := SaveResult(res, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, res.FileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, res.Docx, data)
}
