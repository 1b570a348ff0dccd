package stats

import (
	"context"
	"time"

	"github.com/fadedpez/leetbot/internal/types"
	"github.com/fadedpez/leetbot/pkg/entities"
	"github.com/fadedpez/leetbot/pkg/games/rps"
	"github.com/fadedpez/leetbot/pkg/repositories/match"
	"github.com/google/uuid"
)

// MatchMeta is where a game was played
type MatchMeta struct {
	GameID    string
	GuildID   string
	ChannelID string
}

// Service records resolved games and answers questions about player records
type Service struct {
	repository match.Repository
	now        func() time.Time
	newID      func() string
}

// NewService creates a new stats service
func NewService(repository match.Repository) *Service {
	return &Service{
		repository: repository,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// RecordResult stores a resolved game and returns the saved match
func (s *Service) RecordResult(ctx context.Context, meta MatchMeta, result rps.Result) (*entities.Match, error) {
	if meta.GameID == "" {
		return nil, types.NewGameError(types.ErrInvalidArgument, "game id is required")
	}

	m := &entities.Match{
		ID:         s.newID(),
		GameID:     meta.GameID,
		GuildID:    meta.GuildID,
		ChannelID:  meta.ChannelID,
		Challenger: entities.Pick{UserID: result.First.UserID, Choice: string(result.First.Choice)},
		Opponent:   entities.Pick{UserID: result.Second.UserID, Choice: string(result.Second.Choice)},
		Tie:        result.IsTie(),
		ResolvedAt: s.now().UTC(),
	}
	if winner, ok := result.Winner(); ok {
		m.WinnerID = winner.UserID
	}

	if err := s.repository.SaveMatch(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// PlayerRecord tallies every match the player took part in
func (s *Service) PlayerRecord(ctx context.Context, userID string) (*entities.PlayerRecord, error) {
	if userID == "" {
		return nil, types.NewGameError(types.ErrInvalidArgument, "user id is required")
	}

	matches, err := s.repository.GetPlayerMatches(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	record := &entities.PlayerRecord{PlayerID: userID}
	for _, m := range matches {
		record.Add(m)
	}
	return record, nil
}

// RecentMatches returns up to limit of the player's latest matches
func (s *Service) RecentMatches(ctx context.Context, userID string, limit int) ([]*entities.Match, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.repository.GetPlayerMatches(ctx, userID, limit)
}
