package games

import (
	"time"

	"github.com/fadedpez/leetbot/pkg/games/rps"
)

// Game is one rock-paper-scissors challenge waiting for an opponent
type Game struct {
	ID         string
	Challenger rps.Player
	// Opponent stays nil while the game is in the registry; resolved games are removed.
	Opponent  *rps.Player
	CreatedAt time.Time
}
