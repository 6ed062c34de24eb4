package models

import "time"

type Club struct {
	ID             int       `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	TwizzitGroupID *string   `json:"twizzit_group_id,omitempty" db:"twizzit_group_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`

	Teams []Team `json:"teams,omitempty" db:"-"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}
