// Package prompt renders the per-item-type generation prompts.
// Templates are static files embedded at build time, selected by item
// type; substitution is literal and no prompt content is synthesized
// at runtime beyond the sub-batch range instruction.
package prompt

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/kpaulsen/itemforge/internal/itemgen"
	"github.com/kpaulsen/itemforge/internal/refmat"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// templateFiles maps each item type to its template resource.
var templateFiles = map[itemgen.ItemType]string{
	itemgen.TypeMultipleChoice:      "templates/multiple_choice.tmpl",
	itemgen.TypeMultipleSelect:      "templates/multiple_select.tmpl",
	itemgen.TypeTechEnhanced:        "templates/tech_enhanced.tmpl",
	itemgen.TypeEvidenceBased:       "templates/evidence_based.tmpl",
	itemgen.TypeConstructedResponse: "templates/constructed_response.tmpl",
	itemgen.TypeMixed:               "templates/mixed_document.tmpl",
}

// TemplateError indicates the template resource for an item type is
// absent or unrenderable. Fatal for the enclosing sub-batch attempt;
// never retried.
type TemplateError struct {
	ItemType itemgen.ItemType
	Err      error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("prompt template for %s: %v", e.ItemType, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// Builder renders prompts from the embedded template set.
type Builder struct {
	templates map[itemgen.ItemType]*template.Template
}

// NewBuilder parses the embedded templates. Parse failures surface here
// rather than mid-generation.
func NewBuilder() (*Builder, error) {
	templates := make(map[itemgen.ItemType]*template.Template, len(templateFiles))
	for itemType, file := range templateFiles {
		raw, err := templateFS.ReadFile(file)
		if err != nil {
			return nil, &TemplateError{ItemType: itemType, Err: err}
		}
		tmpl, err := template.New(file).Parse(string(raw))
		if err != nil {
			return nil, &TemplateError{ItemType: itemType, Err: err}
		}
		templates[itemType] = tmpl
	}
	return &Builder{templates: templates}, nil
}

// templateData is the substitution context for one sub-batch prompt.
type templateData struct {
	Grade        string
	Unit         string
	ItemType     string
	Subtype      string
	Count        int
	Start        int
	End          int
	Standards    string
	WillDo       string
	UnitOverview string
	Framework    string
	DOK          string

	// BatchInstruction names the exact inclusive index range to produce
	// and forbids meta-commentary.
	BatchInstruction string
}

// Build renders the prompt for one sub-batch. The template is selected
// by the sub-batch's effective item type (for Cluster requests that is
// the component type, never Cluster itself).
func (b *Builder) Build(req itemgen.Request, refs refmat.Bundle, sub itemgen.SubBatch) (string, error) {
	tmpl, ok := b.templates[sub.ItemType]
	if !ok {
		return "", &TemplateError{ItemType: sub.ItemType, Err: fmt.Errorf("no template registered")}
	}

	data := templateData{
		Grade:            req.Grade,
		Unit:             req.Unit,
		ItemType:         string(sub.ItemType),
		Subtype:          sub.Subtype,
		Count:            sub.Size(),
		Start:            sub.Start,
		End:              sub.End,
		Standards:        req.Standards,
		WillDo:           req.WillDo,
		UnitOverview:     req.UnitOverview,
		Framework:        refs.Framework,
		DOK:              refs.DOK,
		BatchInstruction: batchInstruction(sub),
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", &TemplateError{ItemType: sub.ItemType, Err: err}
	}
	return sb.String(), nil
}

// batchInstruction tells the model exactly which item numbers to emit.
// The "Item N:" labels it demands are what the batch controller scans
// for when deciding where to resume.
func batchInstruction(sub itemgen.SubBatch) string {
	var sb strings.Builder
	if sub.Start == sub.End {
		fmt.Fprintf(&sb, "Produce exactly one item, labeled \"Item %d:\".", sub.Start)
	} else {
		fmt.Fprintf(&sb, "Produce items %d through %d inclusive, labeled \"Item %d:\" through \"Item %d:\" with no gaps in numbering.",
			sub.Start, sub.End, sub.Start, sub.End)
	}
	sb.WriteString(" Output ONLY the items and their solutions.")
	sb.WriteString(" Do not include introductions, summaries, meta-commentary, or offers to continue.")
	return sb.String()
}
