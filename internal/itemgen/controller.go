// Package itemgen plans and drives batched item generation against a
// completion provider. Large requests are decomposed into bounded
// sub-batches; the controller scans each response for item labels to
// decide where the next call should resume.
package itemgen

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kpaulsen/itemforge/internal/llm"
	"github.com/kpaulsen/itemforge/internal/refmat"
)

// systemPrompt frames every completion call. Kept short and absolute:
// the per-batch instruction already forbids meta-commentary, and the
// marker scan depends on the model emitting nothing but labeled items.
const systemPrompt = "You are a science assessment writer who exactly replicates official state assessment style and format. Output ONLY the questions and their solutions."

// PromptBuilder renders the completion prompt for one sub-batch.
type PromptBuilder interface {
	Build(req Request, refs refmat.Bundle, sub SubBatch) (string, error)
}

// Sink receives each raw response batch in generation order.
type Sink interface {
	Append(text string)
}

// Controller executes generation requests batch by batch.
type Controller struct {
	builder  PromptBuilder
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

// NewController returns a controller using the given prompt builder and
// completion provider. A nil logger disables logging.
func NewController(builder PromptBuilder, provider llm.Provider, cfg Config, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.PickN == nil {
		cfg.PickN = DefaultConfig().PickN
	}
	return &Controller{builder: builder, provider: provider, cfg: cfg, log: log}
}

// Generate runs the full generation loop for one request, appending each
// response batch to sink in order. On error the sink may hold a partial
// prefix of batches; callers decide whether to keep or discard it.
func (c *Controller) Generate(ctx context.Context, req Request, refs refmat.Bundle, sink Sink) error {
	if err := req.Validate(); err != nil {
		return err
	}

	switch req.ItemType {
	case TypeCluster:
		return c.generateClusters(ctx, req, refs, sink)
	case TypeMixed:
		mixed := req
		mixed.Count = c.cfg.MixedTotal
		return c.generateAdaptive(llm.WithPurpose(ctx, "mixed-document"), mixed, refs, sink)
	default:
		return c.generateAdaptive(llm.WithPurpose(ctx, "item-batch"), req, refs, sink)
	}
}

// generateAdaptive covers item range [1, req.Count] with bounded calls,
// resuming after each response at the position its item labels indicate.
// A response with no labels is assumed complete for its range.
func (c *Controller) generateAdaptive(ctx context.Context, req Request, refs refmat.Bundle, sink Sink) error {
	limit := c.cfg.perCallLimit(req.ItemType)
	cursor := 1
	for cursor <= req.Count {
		end := cursor + limit - 1
		if end > req.Count {
			end = req.Count
		}
		sub := SubBatch{ItemType: req.ItemType, Subtype: req.SubtypeHint, Start: cursor, End: end}

		text, err := c.call(ctx, req, refs, sub)
		if err != nil {
			return err
		}
		sink.Append(text)

		next := sub.End + 1
		if m, ok := HighestMarker(text); ok {
			if m >= cursor {
				next = m + 1
			} else {
				// Labels below the requested range mean the model ignored
				// the numbering instruction. Trust the range, not the
				// labels, or the cursor would never advance.
				c.log.Warn("stale item labels in response",
					zap.Int("highest_label", m),
					zap.Int("cursor", cursor))
			}
		}
		c.log.Debug("batch complete",
			zap.String("item_type", string(req.ItemType)),
			zap.Int("start", sub.Start),
			zap.Int("end", sub.End),
			zap.Int("next", next))
		cursor = next
	}
	return nil
}

// generateClusters runs the fixed six-call plan for each requested
// cluster of eight items. The plan is positional, so responses are not
// rescanned for resume points.
func (c *Controller) generateClusters(ctx context.Context, req Request, refs refmat.Bundle, sink Sink) error {
	ctx = llm.WithPurpose(ctx, "cluster-item")
	for i := 0; i < req.Count; i++ {
		base := i * clusterSize
		for _, sub := range c.clusterPlan(base) {
			text, err := c.call(ctx, req, refs, sub)
			if err != nil {
				return fmt.Errorf("cluster %d: %w", i+1, err)
			}
			sink.Append(text)
		}
	}
	return nil
}

// clusterSize is the number of items in one cluster.
const clusterSize = 8

// clusterComponentTypes are the candidate types for the randomized
// cluster slots.
var clusterComponentTypes = []ItemType{TypeMultipleChoice, TypeMultipleSelect, TypeTechEnhanced}

// clusterSubtypes are the candidate TE interactions for randomized
// slots; the fixed TE slots always use the first two.
var clusterSubtypes = []string{SubtypeDragAndDrop, SubtypeHotSpot, SubtypeInlineChoice, SubtypeGraphing}

// clusterPlan returns the six sub-batches covering one cluster's eight
// items at the given base offset: two multiple choice, two multiple
// select, a Drag-and-Drop TE, a Hot-Spot TE, then two single items of
// randomized type.
func (c *Controller) clusterPlan(base int) []SubBatch {
	plan := []SubBatch{
		{ItemType: TypeMultipleChoice, Start: base + 1, End: base + 2},
		{ItemType: TypeMultipleSelect, Start: base + 3, End: base + 4},
		{ItemType: TypeTechEnhanced, Subtype: SubtypeDragAndDrop, Start: base + 5, End: base + 5},
		{ItemType: TypeTechEnhanced, Subtype: SubtypeHotSpot, Start: base + 6, End: base + 6},
	}
	for _, idx := range []int{base + 7, base + 8} {
		sub := SubBatch{
			ItemType: clusterComponentTypes[c.cfg.PickN(len(clusterComponentTypes))],
			Start:    idx,
			End:      idx,
		}
		if sub.ItemType == TypeTechEnhanced {
			sub.Subtype = clusterSubtypes[c.cfg.PickN(len(clusterSubtypes))]
		}
		plan = append(plan, sub)
	}
	return plan
}

// call renders and issues one completion call.
func (c *Controller) call(ctx context.Context, req Request, refs refmat.Bundle, sub SubBatch) (string, error) {
	prompt, err := c.builder.Build(req, refs, sub)
	if err != nil {
		return "", err
	}

	resp, err := c.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("items %d-%d: %w", sub.Start, sub.End, err)
	}
	if resp.StopReason == llm.StopMaxTokens {
		c.log.Warn("response hit token limit",
			zap.Int("start", sub.Start),
			zap.Int("end", sub.End))
	}
	return resp.Text, nil
}
