package models

import "time"

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleCoach UserRole = "coach"
	RoleUser  UserRole = "user"
)

type User struct {
	ID           int       `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
