// Package assemble collects generated item batches into the combined
// result text and a Word document.
package assemble

import (
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/kpaulsen/itemforge/internal/itemgen"
)

// AssemblyError indicates the result document could not be produced.
type AssemblyError struct {
	Err error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assembling result document: %v", e.Err)
}

func (e *AssemblyError) Unwrap() error { return e.Err }

// Assembler accumulates response batches in arrival order. Each batch
// is appended to the combined text with a blank-line separator and to
// the document one paragraph per line, with an empty paragraph between
// batches. Batches are never reordered or deduplicated.
type Assembler struct {
	doc        *docx.Docx
	text       strings.Builder
	paragraphs int
}

// New returns an empty Assembler.
func New() *Assembler {
	return &Assembler{doc: docx.New().WithDefaultTheme()}
}

// Append adds one response batch. Satisfies the generation sink.
func (a *Assembler) Append(batch string) {
	a.text.WriteString(batch)
	a.text.WriteString("\n\n")

	for _, line := range strings.Split(batch, "\n") {
		a.doc.AddParagraph().AddText(line)
		a.paragraphs++
	}
	a.doc.AddParagraph()
	a.paragraphs++
}

// Text returns the combined result text.
func (a *Assembler) Text() string {
	return a.text.String()
}

// ParagraphCount returns the number of paragraphs added so far.
func (a *Assembler) ParagraphCount() int {
	return a.paragraphs
}

// WriteDocx serializes the assembled document to w.
func (a *Assembler) WriteDocx(w io.Writer) error {
	if _, err := a.doc.WriteTo(w); err != nil {
		return &AssemblyError{Err: err}
	}
	return nil
}

// FileName derives the download file name for a request. The suffix
// names what the document contains: whole items for clusters and
// constructed response, two-part sets for evidence-based items.
func FileName(req itemgen.Request) string {
	var suffix string
	switch req.ItemType {
	case itemgen.TypeCluster, itemgen.TypeConstructedResponse:
		suffix = "Items"
	case itemgen.TypeEvidenceBased:
		suffix = "Sets"
	default:
		suffix = "Item Types"
	}

	parts := make([]string, 0, 4)
	for _, p := range []string{req.Grade, req.Unit, string(req.ItemType), suffix} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ") + ".docx"
}
