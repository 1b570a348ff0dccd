// Package rps holds the rock-paper-scissors rules: the three choices, who
// beats whom, and the order they are offered in a select menu.
package rps

import (
	"fmt"
	"strings"

	"github.com/fadedpez/leetbot/internal/types"
)

// Choice is one of the three objects a player can throw
type Choice string

const (
	Rock     Choice = "rock"
	Paper    Choice = "paper"
	Scissors Choice = "scissors"
)

// Choices lists every valid choice in a fixed order
var Choices = []Choice{Rock, Paper, Scissors}

// beats maps a choice to the one it defeats and the verb describing how
var beats = map[Choice]struct {
	victim Choice
	verb   string
}{
	Rock:     {victim: Scissors, verb: "crushes"},
	Paper:    {victim: Rock, verb: "covers"},
	Scissors: {victim: Paper, verb: "cuts"},
}

// ParseChoice validates a raw option value
func ParseChoice(value string) (Choice, error) {
	c := Choice(strings.ToLower(strings.TrimSpace(value)))
	if !c.Valid() {
		return "", types.NewGameError(types.ErrInvalidChoice, fmt.Sprintf("%q is not rock, paper or scissors", value))
	}
	return c, nil
}

// Valid reports whether c is one of the three choices
func (c Choice) Valid() bool {
	_, ok := beats[c]
	return ok
}

// Beats reports whether c defeats other
func (c Choice) Beats(other Choice) bool {
	b, ok := beats[c]
	return ok && b.victim == other
}

// Label is the capitalized display name
func (c Choice) Label() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

func (c Choice) String() string {
	return string(c)
}
