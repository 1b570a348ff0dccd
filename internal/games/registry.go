package games

import (
	"fmt"
	"sync"
	"time"

	"github.com/fadedpez/leetbot/internal/types"
	"github.com/fadedpez/leetbot/pkg/games/rps"
)

// Registry owns every active game. A game enters on Create and leaves exactly
// once, either resolved by ResolveAndRemove or expired by Sweep.
type Registry struct {
	games map[string]*Game
	mu    sync.Mutex
	now   func() time.Time
}

// NewRegistry creates a new game registry
func NewRegistry() *Registry {
	return &Registry{
		games: make(map[string]*Game),
		now:   time.Now,
	}
}

// Create stores a new challenge. An existing id is left untouched and
// reported as GAME_IN_PROGRESS.
func (r *Registry) Create(gameID string, challenger rps.Player) error {
	if gameID == "" {
		return types.NewGameError(types.ErrInvalidArgument, "game id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.games[gameID]; exists {
		return types.NewGameError(types.ErrGameInProgress, fmt.Sprintf("Game %s is already waiting for an opponent", gameID))
	}

	r.games[gameID] = &Game{
		ID:         gameID,
		Challenger: challenger,
		CreatedAt:  r.now(),
	}
	return nil
}

// Get returns a copy of the game. A missing game is not an error.
func (r *Registry) Get(gameID string) (Game, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	game, exists := r.games[gameID]
	if !exists {
		return Game{}, false
	}
	return *game, true
}

// ResolveAndRemove plays the opponent against the stored challenger and
// deletes the game in the same critical section, so only the first caller
// for a given id gets a result.
func (r *Registry) ResolveAndRemove(gameID string, opponent rps.Player) (rps.Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	game, exists := r.games[gameID]
	if !exists {
		return rps.Result{}, false
	}
	delete(r.games, gameID)

	return rps.Resolve(game.Challenger, opponent), true
}

// Len returns the number of games waiting for an opponent
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.games)
}

// Sweep drops games created more than maxAge ago and returns how many were
// removed. A non-positive maxAge keeps everything.
func (r *Registry) Sweep(maxAge time.Duration) int {
	if maxAge <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxAge)
	removed := 0
	for id, game := range r.games {
		if game.CreatedAt.Before(cutoff) {
			delete(r.games, id)
			removed++
		}
	}
	return removed
}
