package models

import "time"

// Player.Registered is a cached projection of the player's Twizzit
// registrations: true iff at least one TwizzitRegistration row exists.
// It is maintained exclusively by the registration service; no other
// write path may touch it.
type Player struct {
	ID         int        `json:"id" db:"id"`
	ClubID     int        `json:"club_id" db:"club_id"`
	TeamID     *int       `json:"team_id,omitempty" db:"team_id"`
	FirstName  string     `json:"first_name" db:"first_name"`
	LastName   string     `json:"last_name" db:"last_name"`
	Number     int        `json:"number" db:"number"`
	Registered bool       `json:"registered" db:"registered"`
	VerifiedAt *time.Time `json:"verified_at,omitempty" db:"verified_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`

	Club          *Club                 `json:"club,omitempty" db:"-"`
	Team          *Team                 `json:"team,omitempty" db:"-"`
	Registrations []TwizzitRegistration `json:"registrations,omitempty" db:"-"`
}

func (p Player) FullName() string {
	return p.FirstName + " " + p.LastName
}
