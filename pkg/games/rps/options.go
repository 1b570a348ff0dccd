package rps

import "math/rand/v2"

// Option is one entry of the choice select menu
type Option struct {
	Label       string
	Value       Choice
	Description string
}

var descriptions = map[Choice]string{
	Rock:     "sedimentary, igneous, or perhaps even metamorphic",
	Paper:    "versatile and iconic",
	Scissors: "careful ! sharp ! edges !!",
}

// ShuffledOptions returns the three choices in a random order
func ShuffledOptions() []Option {
	options := baseOptions()
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// ShuffledOptionsWith shuffles with the given source. r must not be shared
// across goroutines.
func ShuffledOptionsWith(r *rand.Rand) []Option {
	options := baseOptions()
	r.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

func baseOptions() []Option {
	options := make([]Option, 0, len(Choices))
	for _, c := range Choices {
		options = append(options, Option{Label: c.Label(), Value: c, Description: descriptions[c]})
	}
	return options
}
