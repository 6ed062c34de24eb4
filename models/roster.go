package models

import "time"

type RosterEntry struct {
	ID        int       `json:"id" db:"id"`
	GameID    int       `json:"game_id" db:"game_id"`
	ClubID    int       `json:"club_id" db:"club_id"`
	PlayerID  int       `json:"player_id" db:"player_id"`
	IsCaptain bool      `json:"is_captain" db:"is_captain"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Player *Player `json:"player,omitempty" db:"-"`
}

// IneligiblePlayer names one player that blocked a roster submission.
// Field names match the wire format of the 403 response.
type IneligiblePlayer struct {
	PlayerID int    `json:"playerId"`
	Reason   string `json:"reason"`
}
