package itemgen

import (
	"regexp"
	"strconv"
)

// markerPattern matches the item labels the prompts instruct the model
// to emit: "Item N:" or "Question N:". This is a heuristic over
// free-form text: the model is not guaranteed to emit structured
// output, so scanning for these labels is the only way to detect where
// a truncated response actually stopped.
var markerPattern = regexp.MustCompile(`(?:Item|Question)\s+(\d+):`)

// HighestMarker returns the highest item index labeled in text and
// whether any marker was found at all. Duplicate and out-of-order
// markers are tolerated; only the maximum matters.
func HighestMarker(text string) (int, bool) {
	matches := markerPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return 0, false
	}

	highest := 0
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			// Unreachable with the \d+ group, but don't trust it.
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest, true
}
