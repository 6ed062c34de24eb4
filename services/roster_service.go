package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/korfside/club-system/db"
	"github.com/korfside/club-system/live"
	"github.com/korfside/club-system/models"
	"github.com/korfside/club-system/repositories"
)

const (
	// Reason attached to every ineligible entry in a 403 response.
	ineligibleReason = "player not registered in Twizzit"

	eligibilityDetails = "All players must have an active Twizzit registration before they can appear on an official match roster."
)

// EligibilityError rejects a roster submission for an official game. It
// always carries the complete list of offending players, never just the
// first, so the caller can fix the whole batch at once.
type EligibilityError struct {
	GameID     int
	Ineligible []models.IneligiblePlayer
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("%d player(s) not eligible for this official match", len(e.Ineligible))
}

// Details names the external system for the HTTP response body.
func (e *EligibilityError) Details() string {
	return eligibilityDetails
}

type RosterService interface {
	SubmitRoster(ctx context.Context, gameID int, input SubmitRosterInput) ([]*models.RosterEntry, error)
	ListGameRoster(ctx context.Context, gameID int) ([]*models.RosterEntry, error)
}

type SubmitRosterInput struct {
	Players []RosterEntryInput `json:"players"`
}

type RosterEntryInput struct {
	ClubID    int  `json:"club_id"`
	PlayerID  int  `json:"player_id"`
	IsCaptain bool `json:"is_captain"`
}

type rosterService struct {
	rosterRepo      repositories.RosterRepository
	gameRepo        repositories.GameRepository
	competitionRepo repositories.CompetitionRepository
	playerRepo      repositories.PlayerRepository
	txManager       db.TxManager
	hub             *live.Hub
}

func NewRosterService(
	rosterRepo repositories.RosterRepository,
	gameRepo repositories.GameRepository,
	competitionRepo repositories.CompetitionRepository,
	playerRepo repositories.PlayerRepository,
	txManager db.TxManager,
	hub *live.Hub,
) RosterService {
	return &rosterService{
		rosterRepo:      rosterRepo,
		gameRepo:        gameRepo,
		competitionRepo: competitionRepo,
		playerRepo:      playerRepo,
		txManager:       txManager,
		hub:             hub,
	}
}

// SubmitRoster validates a batch of roster entries against the official
// match rule and, when allowed, replaces the submitting clubs' previous
// entries for the game in one transaction. An official game with even one
// unregistered player refuses the entire batch.
func (s *rosterService) SubmitRoster(ctx context.Context, gameID int, input SubmitRosterInput) ([]*models.RosterEntry, error) {
	if len(input.Players) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, ErrEmptyRoster)
	}

	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to load game %d: %w", gameID, err)
	}

	official, err := s.isOfficial(ctx, game)
	if err != nil {
		return nil, err
	}

	players, err := s.resolvePlayers(ctx, input.Players)
	if err != nil {
		return nil, err
	}

	if official {
		if ineligible := collectIneligible(input.Players, players); len(ineligible) > 0 {
			return nil, &EligibilityError{GameID: gameID, Ineligible: ineligible}
		}
	}

	entries := buildEntries(gameID, input.Players)

	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, clubID := range distinctClubs(entries) {
			if err := s.rosterRepo.DeleteByGameAndClub(ctx, exec, gameID, clubID); err != nil {
				return err
			}
		}
		return s.rosterRepo.CreateBatch(ctx, exec, entries)
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrRosterEntryConflict):
			return nil, ErrRosterDuplicateConflict
		case errors.Is(err, repositories.ErrRosterEntryPlayerInvalid):
			return nil, ErrRosterPlayerUnknown
		case errors.Is(err, repositories.ErrRosterEntryGameInvalid):
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to store roster for game %d: %w", gameID, err)
	}

	if s.hub != nil {
		for _, clubID := range distinctClubs(entries) {
			s.hub.BroadcastToClub(clubID, live.MessageRosterSubmitted, map[string]interface{}{
				"game_id": gameID,
				"entries": len(entries),
			})
		}
	}
	return entries, nil
}

func (s *rosterService) ListGameRoster(ctx context.Context, gameID int) ([]*models.RosterEntry, error) {
	if _, err := s.gameRepo.GetByID(ctx, gameID); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to load game %d: %w", gameID, err)
	}
	return s.rosterRepo.ListByGame(ctx, gameID)
}

// isOfficial resolves whether the registration rule governs this game:
// only games in a competition flagged official. Everything else is a
// friendly and exempt.
func (s *rosterService) isOfficial(ctx context.Context, game *models.Game) (bool, error) {
	if game.CompetitionID == nil {
		return false, nil
	}
	competition, err := s.competitionRepo.GetByID(ctx, *game.CompetitionID)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return false, ErrCompetitionNotFound
		}
		return false, fmt.Errorf("failed to load competition %d: %w", *game.CompetitionID, err)
	}
	return competition.IsOfficial, nil
}

// resolvePlayers loads every referenced player. An unknown player id is a
// reference error, not an eligibility outcome.
func (s *rosterService) resolvePlayers(ctx context.Context, inputs []RosterEntryInput) (map[int]*models.Player, error) {
	ids := make([]int, 0, len(inputs))
	seen := make(map[int]bool, len(inputs))
	for _, in := range inputs {
		if !seen[in.PlayerID] {
			seen[in.PlayerID] = true
			ids = append(ids, in.PlayerID)
		}
	}

	players, err := s.playerRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster players: %w", err)
	}

	byID := make(map[int]*models.Player, len(players))
	for _, player := range players {
		byID[player.ID] = player
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("%w: player %d", ErrRosterPlayerUnknown, id)
		}
	}
	return byID, nil
}

// collectIneligible walks every entry and records each unregistered player
// exactly once. The whole batch is always evaluated; short-circuiting on
// the first offender would hide the rest from the caller.
func collectIneligible(inputs []RosterEntryInput, players map[int]*models.Player) []models.IneligiblePlayer {
	ineligible := make([]models.IneligiblePlayer, 0)
	reported := make(map[int]bool)
	for _, in := range inputs {
		player := players[in.PlayerID]
		if player.Registered || reported[player.ID] {
			continue
		}
		reported[player.ID] = true
		ineligible = append(ineligible, models.IneligiblePlayer{
			PlayerID: player.ID,
			Reason:   ineligibleReason,
		})
	}
	return ineligible
}

// buildEntries converts the input batch, collapsing duplicate player ids
// (the first occurrence wins).
func buildEntries(gameID int, inputs []RosterEntryInput) []*models.RosterEntry {
	entries := make([]*models.RosterEntry, 0, len(inputs))
	seen := make(map[int]bool, len(inputs))
	for _, in := range inputs {
		if seen[in.PlayerID] {
			continue
		}
		seen[in.PlayerID] = true
		entries = append(entries, &models.RosterEntry{
			GameID:    gameID,
			ClubID:    in.ClubID,
			PlayerID:  in.PlayerID,
			IsCaptain: in.IsCaptain,
		})
	}
	return entries
}

func distinctClubs(entries []*models.RosterEntry) []int {
	clubs := make([]int, 0, 2)
	seen := make(map[int]bool, 2)
	for _, entry := range entries {
		if !seen[entry.ClubID] {
			seen[entry.ClubID] = true
			clubs = append(clubs, entry.ClubID)
		}
	}
	return clubs
}
