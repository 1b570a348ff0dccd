package rps

import "fmt"

// Player is one side of a match
type Player struct {
	UserID string
	Choice Choice
}

// Outcome of a single throw, seen from the first player
type Outcome int

const (
	Tie Outcome = iota
	FirstWins
	SecondWins
)

func (o Outcome) String() string {
	switch o {
	case FirstWins:
		return "first_wins"
	case SecondWins:
		return "second_wins"
	default:
		return "tie"
	}
}

// Result is the resolved throw between two players
type Result struct {
	First   Player
	Second  Player
	Outcome Outcome
}

// Resolve decides a throw. Both choices are expected to be valid; anything
// that beats neither way is reported as a tie.
func Resolve(first, second Player) Result {
	r := Result{First: first, Second: second, Outcome: Tie}
	switch {
	case first.Choice.Beats(second.Choice):
		r.Outcome = FirstWins
	case second.Choice.Beats(first.Choice):
		r.Outcome = SecondWins
	}
	return r
}

// IsTie reports whether nobody won
func (r Result) IsTie() bool {
	return r.Outcome == Tie
}

// Winner returns the winning player, false on a tie
func (r Result) Winner() (Player, bool) {
	switch r.Outcome {
	case FirstWins:
		return r.First, true
	case SecondWins:
		return r.Second, true
	}
	return Player{}, false
}

// Loser returns the losing player, false on a tie
func (r Result) Loser() (Player, bool) {
	switch r.Outcome {
	case FirstWins:
		return r.Second, true
	case SecondWins:
		return r.First, true
	}
	return Player{}, false
}

// Description is the channel message announcing the result
func (r Result) Description() string {
	winner, ok := r.Winner()
	if !ok {
		return fmt.Sprintf("<@%s> and <@%s> draw with **%s**", r.First.UserID, r.Second.UserID, r.First.Choice)
	}
	loser, _ := r.Loser()
	return fmt.Sprintf("<@%s>'s **%s** %s <@%s>'s **%s**",
		winner.UserID, winner.Choice, beats[winner.Choice].verb, loser.UserID, loser.Choice)
}
