package entities

import "time"

// Pick is what one player threw
type Pick struct {
	UserID string `json:"user_id"`
	Choice string `json:"choice"`
}

// Match is a resolved rock-paper-scissors game
type Match struct {
	ID         string    `json:"id"`
	GameID     string    `json:"game_id"`
	GuildID    string    `json:"guild_id,omitempty"`
	ChannelID  string    `json:"channel_id,omitempty"`
	Challenger Pick      `json:"challenger"`
	Opponent   Pick      `json:"opponent"`
	WinnerID   string    `json:"winner_id,omitempty"` // empty on a tie
	Tie        bool      `json:"tie"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// Involves reports whether the user played in the match
func (m *Match) Involves(userID string) bool {
	return m.Challenger.UserID == userID || m.Opponent.UserID == userID
}
