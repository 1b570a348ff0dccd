package match

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fadedpez/leetbot/internal/logging"
	"github.com/fadedpez/leetbot/internal/types"
	"github.com/fadedpez/leetbot/pkg/db/migrations"
	"github.com/fadedpez/leetbot/pkg/entities"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteRepository implements the Repository interface using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) the database at dbPath and applies
// the embedded migrations
func NewSQLiteRepository(dbPath string, logger *logging.Logger) (*SQLiteRepository, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	migrator, err := migrations.NewEmbeddedMigrator(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	if _, err := migrator.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// SaveMatch stores a resolved match
func (r *SQLiteRepository) SaveMatch(ctx context.Context, match *entities.Match) error {
	query := `
		INSERT INTO matches (
			id, game_id, guild_id, channel_id,
			challenger_id, challenger_choice, opponent_id, opponent_choice,
			winner_id, tie, resolved_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		match.ID,
		match.GameID,
		match.GuildID,
		match.ChannelID,
		match.Challenger.UserID,
		match.Challenger.Choice,
		match.Opponent.UserID,
		match.Opponent.Choice,
		nullString(match.WinnerID),
		match.Tie,
		match.ResolvedAt.UTC(),
	)
	if err != nil {
		return types.WrapError(types.ErrDatabaseError, "error saving match", err)
	}
	return nil
}

// GetPlayerMatches retrieves a player's matches, newest first
func (r *SQLiteRepository) GetPlayerMatches(ctx context.Context, playerID string, limit int) ([]*entities.Match, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative limit as no limit
	}

	query := `
		SELECT id, game_id, guild_id, channel_id,
			challenger_id, challenger_choice, opponent_id, opponent_choice,
			winner_id, tie, resolved_at
		FROM matches
		WHERE challenger_id = ? OR opponent_id = ?
		ORDER BY resolved_at DESC, rowid DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, playerID, playerID, limit)
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "error querying matches", err)
	}
	defer rows.Close()

	var results []*entities.Match
	for rows.Next() {
		var (
			m                  entities.Match
			guildID, channelID sql.NullString
			winnerID           sql.NullString
		)
		err := rows.Scan(
			&m.ID, &m.GameID, &guildID, &channelID,
			&m.Challenger.UserID, &m.Challenger.Choice, &m.Opponent.UserID, &m.Opponent.Choice,
			&winnerID, &m.Tie, &m.ResolvedAt,
		)
		if err != nil {
			return nil, types.WrapError(types.ErrDatabaseError, "error scanning match", err)
		}
		m.GuildID = guildID.String
		m.ChannelID = channelID.String
		m.WinnerID = winnerID.String
		results = append(results, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "error reading matches", err)
	}
	return results, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
