package models

import "time"

// Competition is a division (reeks) a game can belong to. Official
// competitions are the ones governed by the Twizzit registration rule.
type Competition struct {
	ID         int       `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Season     string    `json:"season" db:"season"`
	IsOfficial bool      `json:"is_official" db:"is_official"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
