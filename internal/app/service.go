// Package app orchestrates a generation request end to end: reference
// loading, batched generation, result assembly, and the single-slot
// result cache.
package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kpaulsen/itemforge/internal/assemble"
	"github.com/kpaulsen/itemforge/internal/itemgen"
	"github.com/kpaulsen/itemforge/internal/memo"
	"github.com/kpaulsen/itemforge/internal/refmat"
)

// Generator runs the batched generation loop for one request.
type Generator interface {
	Generate(ctx context.Context, req itemgen.Request, refs refmat.Bundle, sink itemgen.Sink) error
}

// RefLoader supplies reference material for a grade and unit.
type RefLoader interface {
	Load(grade, unit string) refmat.Bundle
}

// Service ties the generation pipeline together behind the result
// cache.
type Service struct {
	gen   Generator
	refs  RefLoader
	cache *memo.Cache
	log   *zap.Logger
}

// NewService creates a Service. A nil logger disables logging.
func NewService(gen Generator, refs RefLoader, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{gen: gen, refs: refs, cache: &memo.Cache{}, log: log}
}

// Generate returns the result for req, serving from cache when an
// identical request was the last one completed. The boolean reports a
// cache hit. A fresh request clears the slot before generating; on
// failure nothing is cached and any partial batches are discarded.
func (s *Service) Generate(ctx context.Context, req itemgen.Request) (*memo.Result, bool, error) {
	if err := req.Validate(); err != nil {
		return nil, false, err
	}

	if res, ok := s.cache.Get(req); ok {
		s.log.Info("serving cached result",
			zap.String("item_type", string(req.ItemType)),
			zap.String("file", res.FileName))
		return res, true, nil
	}

	// A fresh trigger empties the slot before generating, so a failed
	// run leaves no result behind at all.
	s.cache.Clear()

	refs := s.refs.Load(req.Grade, req.Unit)
	asm := assemble.New()

	if err := s.gen.Generate(ctx, req, refs, asm); err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := asm.WriteDocx(&buf); err != nil {
		return nil, false, err
	}

	res := &memo.Result{
		Text:     asm.Text(),
		FileName: assemble.FileName(req),
		Docx:     buf.Bytes(),
	}
	s.cache.Put(req, res)

	s.log.Info("generation complete",
		zap.String("item_type", string(req.ItemType)),
		zap.Int("count", req.Count),
		zap.String("file", res.FileName),
		zap.Int("chars", len(res.Text)))
	return res, false, nil
}

// ClearCache empties the result cache.
func (s *Service) ClearCache() {
	s.cache.Clear()
}

// SaveResult writes the result document into dir and returns the full
// path.
func SaveResult(res *memo.Result, dir string) (string, error) {
	path := filepath.Join(dir, res.FileName)
	if err := os.WriteFile(path, res.Docx, 0o644); err != nil {
		return "", fmt.Errorf("writing result document: %w", err)
	}
	return path, nil
}
