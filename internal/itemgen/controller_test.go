package itemgen

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kpaulsen/itemforge/internal/llm"
	"github.com/kpaulsen/itemforge/internal/refmat"
)

// recordingBuilder renders a trivial prompt and remembers every
// sub-batch it was asked to cover.
type recordingBuilder struct {
	subs []SubBatch
}

func (b *recordingBuilder) Build(req Request, _ refmat.Bundle, sub SubBatch) (string, error) {
	b.subs = append(b.subs, sub)
	return fmt.Sprintf("generate %s items %d-%d", sub.ItemType, sub.Start, sub.End), nil
}

// collectSink accumulates appended batches.
type collectSink struct {
	batches []string
}

func (s *collectSink) Append(text string) {
	s.batches = append(s.batches, text)
}

func labeledItems(start, end int) string {
	out := ""
	for i := start; i <= end; i++ {
		out += fmt.Sprintf("Item %d: stem\nAnswer: A\n\n", i)
	}
	return out
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PickN = func(n int) int { return 0 }
	return cfg
}

func uniformRequest(count int) Request {
	return Request{
		Grade:     "Grade 6",
		Unit:      "Unit 2",
		ItemType:  TypeMultipleChoice,
		Count:     count,
		Standards: "MS-LS1-6",
		WillDo:    "Construct an explanation of photosynthesis.",
	}
}

func TestGenerateSingleBatch(t *testing.T) {
	builder := &recordingBuilder{}
	mock := llm.NewMockProvider(llm.MockResponse{Text: labeledItems(1, 5)})
	ctrl := NewController(builder, mock, testConfig(), nil)

	sink := &collectSink{}
	err := ctrl.Generate(context.Background(), uniformRequest(5), refmat.Bundle{}, sink)
	require.NoError(t, err)

	require.Len(t, builder.subs, 1)
	assert.Equal(t, SubBatch{ItemType: TypeMultipleChoice, Start: 1, End: 5}, builder.subs[0])
	require.Len(t, sink.batches, 1)
	assert.Contains(t, sink.batches[0], "Item 5:")
}

func TestGenerateSplitsAtPerCallLimit(t *testing.T) {
	builder := &recordingBuilder{}
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: labeledItems(1, 3)},
		llm.MockResponse{Text: labeledItems(4, 6)},
		llm.MockResponse{Text: labeledItems(7, 8)},
	)
	cfg := testConfig()
	cfg.PerCallLimit = 3
	ctrl := NewController(builder, mock, cfg, nil)

	sink := &collectSink{}
	err := ctrl.Generate(context.Background(), uniformRequest(8), refmat.Bundle{}, sink)
	require.NoError(t, err)

	want := []SubBatch{
		{ItemType: TypeMultipleChoice, Start: 1, End: 3},
		{ItemType: TypeMultipleChoice, Start: 4, End: 6},
		{ItemType: TypeMultipleChoice, Start: 7, End: 8},
	}
	assert.Equal(t, want, builder.subs)
	assert.Len(t, sink.batches, 3)
}

func TestGenerateResumesAfterTruncatedResponse(t *testing.T) {
	builder := &recordingBuilder{}
	// First response stops at item 4 despite being asked for 1-6.
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: labeledItems(1, 4)},
		llm.MockResponse{Text: labeledItems(5, 6)},
	)
	ctrl := NewController(builder, mock, testConfig(), nil)

	sink := &collectSink{}
	err := ctrl.Generate(context.Background(), uniformRequest(6), refmat.Bundle{}, sink)
	require.NoError(t, err)

	require.Len(t, builder.subs, 2)
	assert.Equal(t, SubBatch{ItemType: TypeMultipleChoice, Start: 1, End: 6}, builder.subs[0])
	assert.Equal(t, SubBatch{ItemType: TypeMultipleChoice, Start: 5, End: 6}, builder.subs[1])
	assert.Len(t, sink.batches, 2)
}

func TestGenerateUnlabeledResponseAssumedComplete(t *testing.T) {
	builder := &recordingBuilder{}
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "Three items about erosion, unnumbered."},
	)
	ctrl := NewController(builder, mock, testConfig(), nil)

	sink := &collectSink{}
	err := ctrl.Generate(context.Background(), uniformRequest(3), refmat.Bundle{}, sink)
	require.NoError(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestGenerateStaleLabelsDoNotStallCursor(t *testing.T) {
	builder := &recordingBuilder{}
	// Second response relabels from 1; the range, not the labels, must
	// advance the cursor or the loop would never terminate.
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: labeledItems(1, 3)},
		llm.MockResponse{Text: labeledItems(1, 2)},
	)
	cfg := testConfig()
	cfg.PerCallLimit = 3
	ctrl := NewController(builder, mock, cfg, nil)

	sink := &collectSink{}
	err := ctrl.Generate(context.Background(), uniformRequest(5), refmat.Bundle{}, sink)
	require.NoError(t, err)

	require.Len(t, builder.subs, 2)
	assert.Equal(t, SubBatch{ItemType: TypeMultipleChoice, Start: 4, End: 5}, builder.subs[1])
}

func TestGenerateEvidenceBasedOneSetPerCall(t *testing.T) {
	builder := &recordingBuilder{}
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: labeledItems(1, 1)},
		llm.MockResponse{Text: labeledItems(2, 2)},
		llm.MockResponse{Text: labeledItems(3, 3)},
	)
	ctrl := NewController(builder, mock, testConfig(), nil)

	req := uniformRequest(3)
	req.ItemType = TypeEvidenceBased

	sink := &collectSink{}
	err := ctrl.Generate(context.Background(), req, refmat.Bundle{}, sink)
	require.NoError(t, err)

	want := []SubBatch{
		{ItemType: TypeEvidenceBased, Start: 1, End: 1},
		{ItemType: TypeEvidenceBased, Start: 2, End: 2},
		{ItemType: TypeEvidenceBased, Start: 3, End: 3},
	}
	assert.Equal(t, want, builder.subs)
}

func TestGenerateMixedSingleCallThenResume(t *testing.T) {
	builder := &recordingBuilder{}
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: labeledItems(1, 40)},
		llm.MockResponse{Text: labeledItems(41, 53)},
	)
	ctrl := NewController(builder, mock, testConfig(), nil)

	req := uniformRequest(0)
	req.ItemType = TypeMixed

	sink := &collectSink{}
	err := ctrl.Generate(context.Background(), req, refmat.Bundle{}, sink)
	require.NoError(t, err)

	require.Len(t, builder.subs, 2)
	assert.Equal(t, SubBatch{ItemType: TypeMixed, Start: 1, End: 53}, builder.subs[0])
	assert.Equal(t, SubBatch{ItemType: TypeMixed, Start: 41, End: 53}, builder.subs[1])
}

func TestGenerateClusterPlan(t *testing.T) {
	builder := &recordingBuilder{}
	mock := llm.NewMockProvider()
	for i := 0; i < 6; i++ {
		mock.AddResponse(llm.MockResponse{Text: "Item: stub"})
	}

	// PickN draws: slot 7 type, slot 8 type, slot 8 TE subtype.
	picks := []int{1, 2, 3}
	cfg := testConfig()
	cfg.PickN = func(n int) int {
		pick := picks[0]
		picks = picks[1:]
		return pick % n
	}
	ctrl := NewController(builder, mock, cfg, nil)

	req := uniformRequest(1)
	req.ItemType = TypeCluster

	sink := &collectSink{}
	err := ctrl.Generate(context.Background(), req, refmat.Bundle{}, sink)
	require.NoError(t, err)

	want := []SubBatch{
		{ItemType: TypeMultipleChoice, Start: 1, End: 2},
		{ItemType: TypeMultipleSelect, Start: 3, End: 4},
		{ItemType: TypeTechEnhanced, Subtype: SubtypeDragAndDrop, Start: 5, End: 5},
		{ItemType: TypeTechEnhanced, Subtype: SubtypeHotSpot, Start: 6, End: 6},
		{ItemType: TypeMultipleSelect, Start: 7, End: 7},
		{ItemType: TypeTechEnhanced, Subtype: SubtypeGraphing, Start: 8, End: 8},
	}
	assert.Equal(t, want, builder.subs)
	assert.Len(t, sink.batches, 6)
}

func TestGenerateSecondClusterOffsetsItemNumbers(t *testing.T) {
	builder := &recordingBuilder{}
	mock := llm.NewMockProvider()
	for i := 0; i < 12; i++ {
		mock.AddResponse(llm.MockResponse{Text: "Item: stub"})
	}
	ctrl := NewController(builder, mock, testConfig(), nil)

	req := uniformRequest(2)
	req.ItemType = TypeCluster

	sink := &collectSink{}
	err := ctrl.Generate(context.Background(), req, refmat.Bundle{}, sink)
	require.NoError(t, err)

	require.Len(t, builder.subs, 12)
	assert.Equal(t, SubBatch{ItemType: TypeMultipleChoice, Start: 9, End: 10}, builder.subs[6])
	assert.Equal(t, SubBatch{ItemType: TypeTechEnhanced, Subtype: SubtypeHotSpot, Start: 14, End: 14}, builder.subs[9])
}

func TestGenerateProviderErrorKeepsPartialBatches(t *testing.T) {
	builder := &recordingBuilder{}
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: labeledItems(1, 3)},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
	)
	cfg := testConfig()
	cfg.PerCallLimit = 3
	ctrl := NewController(builder, mock, cfg, nil)

	sink := &collectSink{}
	err := ctrl.Generate(context.Background(), uniformRequest(6), refmat.Bundle{}, sink)
	require.Error(t, err)

	var unavailable *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)
	assert.Len(t, sink.batches, 1)
}

func TestGenerateRejectsInvalidRequest(t *testing.T) {
	ctrl := NewController(&recordingBuilder{}, llm.NewMockProvider(), testConfig(), nil)

	err := ctrl.Generate(context.Background(), uniformRequest(1), refmat.Bundle{}, &collectSink{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count must be 3-10")
}

func TestGenerateSendsSystemPromptAndLimits(t *testing.T) {
	builder := &recordingBuilder{}
	mock := llm.NewMockProvider(llm.MockResponse{Text: labeledItems(1, 3)})
	cfg := testConfig()
	cfg.MaxTokens = 2048
	cfg.Temperature = 0.5
	ctrl := NewController(builder, mock, cfg, nil)

	err := ctrl.Generate(context.Background(), uniformRequest(3), refmat.Bundle{}, &collectSink{})
	require.NoError(t, err)

	require.Len(t, mock.Calls, 1)
	call := mock.Calls[0]
	assert.Equal(t, systemPrompt, call.System)
	assert.Equal(t, 2048, call.MaxTokens)
	assert.Equal(t, 0.5, call.Temperature)
	require.Len(t, call.Messages, 1)
	assert.Equal(t, llm.RoleUser, call.Messages[0].Role)
}
