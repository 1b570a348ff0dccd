package match

import (
	"context"

	"github.com/fadedpez/leetbot/pkg/entities"
)

// Repository stores resolved matches
type Repository interface {
	// SaveMatch records a resolved match
	SaveMatch(ctx context.Context, match *entities.Match) error

	// GetPlayerMatches returns the player's matches, newest first. A limit of
	// zero or less returns all of them.
	GetPlayerMatches(ctx context.Context, playerID string, limit int) ([]*entities.Match, error)

	// Close closes any resources used by the repository
	Close() error
}
