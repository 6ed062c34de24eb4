package models

import "time"

type GameStatus string

const (
	GameStatusScheduled GameStatus = "scheduled"
	GameStatusPlayed    GameStatus = "played"
	GameStatusCanceled  GameStatus = "canceled"
)

type Game struct {
	ID            int        `json:"id" db:"id"`
	HomeClubID    int        `json:"home_club_id" db:"home_club_id"`
	AwayClubID    int        `json:"away_club_id" db:"away_club_id"`
	CompetitionID *int       `json:"competition_id,omitempty" db:"competition_id"`
	GameTime      time.Time  `json:"game_time" db:"game_time"`
	Location      *string    `json:"location,omitempty" db:"location"`
	Status        GameStatus `json:"status" db:"status"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`

	HomeClub    *Club         `json:"home_club,omitempty" db:"-"`
	AwayClub    *Club         `json:"away_club,omitempty" db:"-"`
	Competition *Competition  `json:"competition,omitempty" db:"-"`
	Roster      []RosterEntry `json:"roster,omitempty" db:"-"`
}
