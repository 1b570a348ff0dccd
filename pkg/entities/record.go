package entities

// PlayerRecord is a player's win/loss/tie tally
type PlayerRecord struct {
	PlayerID string
	Wins     int
	Losses   int
	Ties     int
}

// Played returns the number of matches counted in the record
func (r *PlayerRecord) Played() int {
	return r.Wins + r.Losses + r.Ties
}

// Add counts one match from the player's point of view
func (r *PlayerRecord) Add(m *Match) {
	switch {
	case !m.Involves(r.PlayerID):
	case m.Tie:
		r.Ties++
	case m.WinnerID == r.PlayerID:
		r.Wins++
	default:
		r.Losses++
	}
}
