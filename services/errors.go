package services

import "errors"

// Shared errors used across services and the HTTP mapping layer.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business-rule errors
	ErrValidationFailed   = errors.New("validation failed")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("invalid user role")
	ErrClubNameRequired   = errors.New("club name is required")
	ErrTeamNameRequired   = errors.New("team name is required")
	ErrPlayerNameRequired = errors.New("player first and last name are required")
	ErrSameClubGame       = errors.New("home and away club must differ")
	ErrEmptyRoster        = errors.New("roster must contain at least one player")

	// A roster entry referenced a player record that does not exist.
	// Deliberately distinct from the eligibility rejection: "unknown
	// player" is a data error, "not registered" is a business outcome.
	ErrRosterPlayerUnknown = errors.New("roster entry references an unknown player")

	// Conflict errors
	ErrUserEmailConflict        = errors.New("email address is already in use")
	ErrClubNameConflict         = errors.New("club name is already in use")
	ErrTeamNameConflict         = errors.New("team name is already in use")
	ErrCompetitionNameConflict  = errors.New("competition name is already in use")
	ErrTemplateNameConflict     = errors.New("export template name is already in use")
	ErrRegistrationConflict     = errors.New("twizzit registration is already linked to a player")
	ErrPlayerHasRosterEntries   = errors.New("player is referenced by one or more game rosters")
	ErrRosterDuplicateConflict  = errors.New("player appears on this game roster more than once")

	// Authentication and authorization errors
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// Entity-specific not-found errors
	ErrUserNotFound         = errors.New("user not found")
	ErrClubNotFound         = errors.New("club not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrCompetitionNotFound  = errors.New("competition not found")
	ErrGameNotFound         = errors.New("game not found")
	ErrRegistrationNotFound = errors.New("twizzit registration not found")
	ErrTemplateNotFound     = errors.New("export template not found")
)
