package itemgen

import "fmt"

// ItemType is the closed set of assessment item types a request can ask for.
type ItemType string

const (
	TypeMultipleChoice      ItemType = "Multiple Choice"
	TypeMultipleSelect      ItemType = "Multiple Select"
	TypeTechEnhanced        ItemType = "Technology Enhanced"
	TypeCluster             ItemType = "Cluster"
	TypeEvidenceBased       ItemType = "Evidence-Based"
	TypeConstructedResponse ItemType = "Constructed Response"

	// TypeMixed produces one full practice document with a fixed
	// mixture of all item types described in the mega-prompt itself.
	TypeMixed ItemType = "Mixed"
)

// ItemTypes lists all selectable item types in display order.
var ItemTypes = []ItemType{
	TypeMultipleChoice,
	TypeMultipleSelect,
	TypeTechEnhanced,
	TypeCluster,
	TypeEvidenceBased,
	TypeConstructedResponse,
	TypeMixed,
}

// ParseItemType resolves a display name or short code to an ItemType.
func ParseItemType(s string) (ItemType, error) {
	switch s {
	case "MC", string(TypeMultipleChoice):
		return TypeMultipleChoice, nil
	case "MS", string(TypeMultipleSelect):
		return TypeMultipleSelect, nil
	case "TE", string(TypeTechEnhanced):
		return TypeTechEnhanced, nil
	case string(TypeCluster):
		return TypeCluster, nil
	case "EBSR", string(TypeEvidenceBased):
		return TypeEvidenceBased, nil
	case "CR", string(TypeConstructedResponse):
		return TypeConstructedResponse, nil
	case string(TypeMixed):
		return TypeMixed, nil
	}
	return "", fmt.Errorf("unknown item type: %q", s)
}

// TE interaction subtypes. The first two rotate through every cluster;
// all four are candidates for the randomized cluster slots.
const (
	SubtypeDragAndDrop  = "Drag-and-Drop"
	SubtypeHotSpot      = "Hot-Spot"
	SubtypeInlineChoice = "Inline-Choice"
	SubtypeGraphing     = "Graphing"
)

// Request is one user-level generation request. Immutable once issued.
type Request struct {
	// Grade is the grade level or course, e.g. "Grade 6" or "Biology".
	Grade string

	// Unit is the curriculum unit, e.g. "Unit 3". May be empty.
	Unit string

	// ItemType selects the generation policy and prompt template.
	ItemType ItemType

	// Count is the number of items (or clusters/sets) requested.
	// Ignored for TypeMixed, whose total is fixed by the mega-prompt.
	Count int

	// Standards is the standards text, free-form or copied from the
	// standards workbook.
	Standards string

	// WillDo describes what students will do or figure out.
	WillDo string

	// UnitOverview is an optional unit summary folded into the Mixed
	// mega-prompt.
	UnitOverview string

	// SubtypeHint optionally pins the TE interaction subtype.
	SubtypeHint string
}

// Validate checks the request against the per-type count bounds:
// 1-3 for Cluster, Evidence-Based, and Constructed Response; 3-10 for
// the uniform item types. Mixed ignores Count.
func (r Request) Validate() error {
	if r.Grade == "" {
		return fmt.Errorf("grade is required")
	}
	if _, err := ParseItemType(string(r.ItemType)); err != nil {
		return err
	}

	switch r.ItemType {
	case TypeMixed:
		return nil
	case TypeCluster, TypeEvidenceBased, TypeConstructedResponse:
		if r.Count < 1 || r.Count > 3 {
			return fmt.Errorf("%s count must be 1-3, got %d", r.ItemType, r.Count)
		}
	default:
		if r.Count < 3 || r.Count > 10 {
			return fmt.Errorf("%s count must be 3-10, got %d", r.ItemType, r.Count)
		}
	}
	return nil
}

// SubBatch is one bounded-size call to the completion provider covering
// a contiguous inclusive range of item numbers.
type SubBatch struct {
	// ItemType is the effective type for this call. For Cluster
	// requests this is the component type (MC/MS/TE), not Cluster.
	ItemType ItemType

	// Subtype is the TE interaction subtype, empty if none.
	Subtype string

	// Start and End are the inclusive item index range to produce.
	Start int
	End   int
}

// Size returns the number of items this sub-batch requests.
func (b SubBatch) Size() int {
	return b.End - b.Start + 1
}
