package twizzit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/korfside/club-system/live"
	"github.com/korfside/club-system/models"
	"github.com/korfside/club-system/repositories"
	"github.com/korfside/club-system/services"
)

// RegistrationLister is the slice of the API client the sync job needs.
type RegistrationLister interface {
	ListRegistrations(ctx context.Context, groupID string) ([]Registration, error)
}

// SyncJob reconciles local mapping rows against what Twizzit reports for
// each club that has a Twizzit group configured. All writes go through the
// registration service so the player flag projection stays consistent.
type SyncJob struct {
	client           RegistrationLister
	clubRepo         repositories.ClubRepository
	playerRepo       repositories.PlayerRepository
	registrationRepo repositories.TwizzitRegistrationRepository
	registrations    services.RegistrationService
	hub              *live.Hub
	logger           *slog.Logger
}

type SyncSummary struct {
	Linked    int `json:"linked"`
	Unlinked  int `json:"unlinked"`
	Confirmed int `json:"confirmed"`
	Failed    int `json:"failed"`
	Unmatched int `json:"unmatched"`
}

func NewSyncJob(
	client RegistrationLister,
	clubRepo repositories.ClubRepository,
	playerRepo repositories.PlayerRepository,
	registrationRepo repositories.TwizzitRegistrationRepository,
	registrations services.RegistrationService,
	hub *live.Hub,
	logger *slog.Logger,
) *SyncJob {
	return &SyncJob{
		client:           client,
		clubRepo:         clubRepo,
		playerRepo:       playerRepo,
		registrationRepo: registrationRepo,
		registrations:    registrations,
		hub:              hub,
		logger:           logger,
	}
}

// Run syncs every club with a configured Twizzit group. A club whose fetch
// fails is skipped and logged; the remaining clubs still sync.
func (j *SyncJob) Run(ctx context.Context) (SyncSummary, error) {
	var summary SyncSummary

	clubs, err := j.clubRepo.List(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list clubs for twizzit sync: %w", err)
	}

	for _, club := range clubs {
		if club.TwizzitGroupID == nil || *club.TwizzitGroupID == "" {
			continue
		}
		clubSummary, err := j.syncClub(ctx, club)
		if err != nil {
			j.logger.Error("twizzit sync failed for club",
				slog.Int("club_id", club.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		summary.Linked += clubSummary.Linked
		summary.Unlinked += clubSummary.Unlinked
		summary.Confirmed += clubSummary.Confirmed
		summary.Failed += clubSummary.Failed
		summary.Unmatched += clubSummary.Unmatched

		if j.hub != nil {
			j.hub.BroadcastToClub(club.ID, live.MessageSyncCompleted, clubSummary)
		}
	}

	j.logger.Info("twizzit sync completed",
		slog.Int("linked", summary.Linked),
		slog.Int("unlinked", summary.Unlinked),
		slog.Int("confirmed", summary.Confirmed),
		slog.Int("failed", summary.Failed),
		slog.Int("unmatched", summary.Unmatched),
	)
	return summary, nil
}

func (j *SyncJob) syncClub(ctx context.Context, club *models.Club) (SyncSummary, error) {
	var summary SyncSummary

	remote, err := j.client.ListRegistrations(ctx, *club.TwizzitGroupID)
	if err != nil {
		return summary, err
	}

	local, err := j.registrationRepo.ListByClub(ctx, club.ID)
	if err != nil {
		return summary, fmt.Errorf("failed to list local registrations: %w", err)
	}
	localByTwizzitID := make(map[string]*models.TwizzitRegistration, len(local))
	for _, registration := range local {
		localByTwizzitID[registration.TwizzitID] = registration
	}

	players, err := j.playerRepo.ListByClub(ctx, club.ID)
	if err != nil {
		return summary, fmt.Errorf("failed to list players: %w", err)
	}
	playersByName := indexPlayersByName(players)

	remoteIDs := make(map[string]bool, len(remote))
	for _, registration := range remote {
		remoteIDs[registration.ID] = true

		if existing, ok := localByTwizzitID[registration.ID]; ok {
			if existing.SyncStatus != models.SyncStatusSuccess {
				if err := j.registrations.MarkSyncStatus(ctx, existing.ID, models.SyncStatusSuccess); err != nil {
					return summary, err
				}
			}
			summary.Confirmed++
			continue
		}

		playerID, ok := matchPlayer(playersByName, registration.FullName())
		if !ok {
			summary.Unmatched++
			j.logger.Warn("twizzit registration matches no player",
				slog.Int("club_id", club.ID),
				slog.String("twizzit_id", registration.ID),
				slog.String("name", registration.FullName()),
			)
			continue
		}

		_, err := j.registrations.LinkPlayer(ctx, services.LinkPlayerInput{
			PlayerID:    playerID,
			TwizzitID:   registration.ID,
			TwizzitName: registration.FullName(),
			SyncStatus:  models.SyncStatusSuccess,
		})
		if err != nil {
			if errors.Is(err, services.ErrRegistrationConflict) {
				// Linked to a player in another club; nothing to do here.
				continue
			}
			return summary, err
		}
		summary.Linked++
	}

	for _, registration := range local {
		if remoteIDs[registration.TwizzitID] {
			continue
		}
		switch registration.SyncStatus {
		case models.SyncStatusSuccess:
			// Twizzit no longer reports it, so the mapping goes away and the
			// player flag follows.
			if err := j.registrations.UnlinkPlayer(ctx, registration.ID); err != nil {
				return summary, err
			}
			summary.Unlinked++
		case models.SyncStatusPending:
			// Manually entered id that Twizzit does not know. Keep the row so
			// someone can correct it, but flag the failure.
			if err := j.registrations.MarkSyncStatus(ctx, registration.ID, models.SyncStatusFailed); err != nil {
				return summary, err
			}
			summary.Failed++
		}
	}
	return summary, nil
}

// indexPlayersByName maps normalized full names to player ids. A name shared
// by two players is dropped from the index; an ambiguous match is worse than
// no match.
func indexPlayersByName(players []*models.Player) map[string]int {
	index := make(map[string]int, len(players))
	ambiguous := make(map[string]bool)
	for _, player := range players {
		name := normalizeName(player.FullName())
		if ambiguous[name] {
			continue
		}
		if _, ok := index[name]; ok {
			delete(index, name)
			ambiguous[name] = true
			continue
		}
		index[name] = player.ID
	}
	return index
}

func matchPlayer(index map[string]int, fullName string) (int, bool) {
	id, ok := index[normalizeName(fullName)]
	return id, ok
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
