package itemgen

import "math/rand/v2"

// Config controls the behavior of the batch controller.
type Config struct {
	// PerCallLimit is the maximum number of items requested in a single
	// completion call for the uniform item types. The provider's output
	// ceiling makes larger requests likely to truncate.
	PerCallLimit int

	// MixedTotal is the fixed item count of the Mixed mega-prompt
	// document (5 MC + 5 MS + 12 TE + 24 Cluster + 15 EBSR + 2 CR).
	// The mixture is described to the model in the prompt text, not
	// enforced programmatically.
	MixedTotal int

	// MaxTokens is the output token budget per completion call.
	MaxTokens int

	// Temperature controls completion randomness.
	Temperature float64

	// PickN returns a uniform random integer in [0, n). Injected so
	// tests can assert deterministic cluster sequences.
	PickN func(n int) int
}

// DefaultConfig returns a Config with the standard limits.
func DefaultConfig() Config {
	return Config{
		PerCallLimit: 10,
		MixedTotal:   53,
		MaxTokens:    4000,
		Temperature:  0.7,
		PickN:        rand.IntN,
	}
}

// perCallLimit returns the sub-batch size ceiling for an item type.
// Evidence-Based sets and Constructed Response items are generated one
// per call; the Mixed document is requested in a single call and only
// resumed if markers show it stopped early.
func (c Config) perCallLimit(t ItemType) int {
	switch t {
	case TypeEvidenceBased, TypeConstructedResponse:
		return 1
	case TypeMixed:
		return c.MixedTotal
	default:
		return c.PerCallLimit
	}
}
