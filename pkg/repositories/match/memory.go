package match

import (
	"context"
	"sync"

	"github.com/fadedpez/leetbot/pkg/entities"
)

// MemoryRepository implements Repository interface with in-memory storage
type MemoryRepository struct {
	mu sync.RWMutex
	// Map of playerID to matches, oldest first
	playerMatches map[string][]*entities.Match
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		playerMatches: make(map[string][]*entities.Match),
	}
}

// SaveMatch adds the match to both players' histories
func (r *MemoryRepository) SaveMatch(ctx context.Context, match *entities.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.playerMatches[match.Challenger.UserID] = append(r.playerMatches[match.Challenger.UserID], match)
	if match.Opponent.UserID != match.Challenger.UserID {
		r.playerMatches[match.Opponent.UserID] = append(r.playerMatches[match.Opponent.UserID], match)
	}
	return nil
}

// GetPlayerMatches retrieves a player's matches, newest first
func (r *MemoryRepository) GetPlayerMatches(ctx context.Context, playerID string, limit int) ([]*entities.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.playerMatches[playerID]
	n := len(history)
	if limit > 0 && limit < n {
		n = limit
	}

	results := make([]*entities.Match, 0, n)
	for i := len(history) - 1; i >= 0 && len(results) < n; i-- {
		results = append(results, history[i])
	}
	return results, nil
}

// Close is a no-op for memory repository since there are no resources to close
func (r *MemoryRepository) Close() error {
	return nil
}
