package twizzit

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/korfside/club-system/models"
	"github.com/korfside/club-system/repositories"
	"github.com/korfside/club-system/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncWorld is the in-memory state behind the sync job fakes: clubs,
// players, mapping rows, and the remote registrations Twizzit would
// report per group.
type syncWorld struct {
	clubs         []*models.Club
	players       map[int]*models.Player
	registrations map[int]*models.TwizzitRegistration
	remote        map[string][]Registration
	nextID        int
}

func newSyncWorld() *syncWorld {
	return &syncWorld{
		players:       make(map[int]*models.Player),
		registrations: make(map[int]*models.TwizzitRegistration),
		remote:        make(map[string][]Registration),
		nextID:        1,
	}
}

func (w *syncWorld) id() int {
	id := w.nextID
	w.nextID++
	return id
}

func (w *syncWorld) addClub(groupID string) *models.Club {
	club := &models.Club{ID: w.id(), Name: "Club", TwizzitGroupID: &groupID}
	w.clubs = append(w.clubs, club)
	return club
}

func (w *syncWorld) addPlayer(clubID int, first, last string) *models.Player {
	player := &models.Player{ID: w.id(), ClubID: clubID, FirstName: first, LastName: last}
	w.players[player.ID] = player
	return player
}

func (w *syncWorld) addMapping(playerID int, twizzitID string, status models.RegistrationSyncStatus) *models.TwizzitRegistration {
	registration := &models.TwizzitRegistration{
		ID:         w.id(),
		PlayerID:   playerID,
		TwizzitID:  twizzitID,
		SyncStatus: status,
	}
	w.registrations[registration.ID] = registration
	if status != "" {
		w.players[playerID].Registered = true
	}
	return registration
}

type fakeLister struct{ world *syncWorld }

func (f *fakeLister) ListRegistrations(ctx context.Context, groupID string) ([]Registration, error) {
	return f.world.remote[groupID], nil
}

type fakeClubRepo struct{ world *syncWorld }

func (f *fakeClubRepo) Create(ctx context.Context, club *models.Club) error { return nil }
func (f *fakeClubRepo) GetByID(ctx context.Context, id int) (*models.Club, error) {
	for _, club := range f.world.clubs {
		if club.ID == id {
			return club, nil
		}
	}
	return nil, repositories.ErrClubNotFound
}
func (f *fakeClubRepo) List(ctx context.Context) ([]*models.Club, error) { return f.world.clubs, nil }
func (f *fakeClubRepo) Update(ctx context.Context, club *models.Club) error {
	return nil
}
func (f *fakeClubRepo) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	return nil
}
func (f *fakeClubRepo) Delete(ctx context.Context, id int) error { return nil }

type fakePlayerRepo struct{ world *syncWorld }

func (f *fakePlayerRepo) Create(ctx context.Context, player *models.Player) error { return nil }
func (f *fakePlayerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, ok := f.world.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return player, nil
}
func (f *fakePlayerRepo) ListByIDs(ctx context.Context, ids []int) ([]*models.Player, error) {
	return nil, nil
}
func (f *fakePlayerRepo) ListByClub(ctx context.Context, clubID int) ([]*models.Player, error) {
	players := make([]*models.Player, 0)
	for _, player := range f.world.players {
		if player.ClubID == clubID {
			players = append(players, player)
		}
	}
	return players, nil
}
func (f *fakePlayerRepo) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	return nil, nil
}
func (f *fakePlayerRepo) Update(ctx context.Context, player *models.Player) error { return nil }
func (f *fakePlayerRepo) Delete(ctx context.Context, id int) error                { return nil }
func (f *fakePlayerRepo) Count(ctx context.Context, registered *bool) (int, error) {
	return len(f.world.players), nil
}
func (f *fakePlayerRepo) UpdateRegistrationStatus(ctx context.Context, exec repositories.SQLExecutor, playerID int, registered bool, verifiedAt *time.Time) error {
	player, ok := f.world.players[playerID]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	player.Registered = registered
	player.VerifiedAt = verifiedAt
	return nil
}

type fakeRegistrationRepo struct{ world *syncWorld }

func (f *fakeRegistrationRepo) Create(ctx context.Context, exec repositories.SQLExecutor, registration *models.TwizzitRegistration) error {
	for _, existing := range f.world.registrations {
		if existing.TwizzitID == registration.TwizzitID {
			return repositories.ErrRegistrationIDConflict
		}
	}
	registration.ID = f.world.id()
	f.world.registrations[registration.ID] = registration
	return nil
}
func (f *fakeRegistrationRepo) GetByID(ctx context.Context, id int) (*models.TwizzitRegistration, error) {
	registration, ok := f.world.registrations[id]
	if !ok {
		return nil, repositories.ErrRegistrationNotFound
	}
	return registration, nil
}
func (f *fakeRegistrationRepo) GetByTwizzitID(ctx context.Context, twizzitID string) (*models.TwizzitRegistration, error) {
	for _, registration := range f.world.registrations {
		if registration.TwizzitID == twizzitID {
			return registration, nil
		}
	}
	return nil, repositories.ErrRegistrationNotFound
}
func (f *fakeRegistrationRepo) ListByPlayer(ctx context.Context, playerID int) ([]*models.TwizzitRegistration, error) {
	registrations := make([]*models.TwizzitRegistration, 0)
	for _, registration := range f.world.registrations {
		if registration.PlayerID == playerID {
			registrations = append(registrations, registration)
		}
	}
	return registrations, nil
}
func (f *fakeRegistrationRepo) ListByClub(ctx context.Context, clubID int) ([]*models.TwizzitRegistration, error) {
	registrations := make([]*models.TwizzitRegistration, 0)
	for _, registration := range f.world.registrations {
		player, ok := f.world.players[registration.PlayerID]
		if ok && player.ClubID == clubID {
			registrations = append(registrations, registration)
		}
	}
	return registrations, nil
}
func (f *fakeRegistrationRepo) CountByPlayer(ctx context.Context, exec repositories.SQLExecutor, playerID int) (int, error) {
	count := 0
	for _, registration := range f.world.registrations {
		if registration.PlayerID == playerID {
			count++
		}
	}
	return count, nil
}
func (f *fakeRegistrationRepo) UpdateSyncStatus(ctx context.Context, id int, status models.RegistrationSyncStatus) error {
	registration, ok := f.world.registrations[id]
	if !ok {
		return repositories.ErrRegistrationNotFound
	}
	registration.SyncStatus = status
	return nil
}
func (f *fakeRegistrationRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := f.world.registrations[id]; !ok {
		return repositories.ErrRegistrationNotFound
	}
	delete(f.world.registrations, id)
	return nil
}

type noopTxManager struct{}

func (noopTxManager) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

func newSyncJob(world *syncWorld) *SyncJob {
	registrationRepo := &fakeRegistrationRepo{world: world}
	playerRepo := &fakePlayerRepo{world: world}
	registrationService := services.NewRegistrationService(registrationRepo, playerRepo, noopTxManager{}, nil)
	return NewSyncJob(
		&fakeLister{world: world},
		&fakeClubRepo{world: world},
		playerRepo,
		registrationRepo,
		registrationService,
		nil,
		slog.Default(),
	)
}

func TestSyncLinksMatchedRegistrations(t *testing.T) {
	world := newSyncWorld()
	club := world.addClub("group-1")
	player := world.addPlayer(club.ID, "An", "Peeters")
	world.remote["group-1"] = []Registration{
		{ID: "TW-1", FirstName: "An", LastName: "Peeters", GroupID: "group-1"},
		{ID: "TW-2", FirstName: "No", LastName: "Body", GroupID: "group-1"},
	}

	summary, err := newSyncJob(world).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Linked)
	assert.Equal(t, 1, summary.Unmatched)
	assert.True(t, world.players[player.ID].Registered)

	// The sync-created mapping arrives already confirmed.
	require.Len(t, world.registrations, 1)
	for _, registration := range world.registrations {
		assert.Equal(t, models.SyncStatusSuccess, registration.SyncStatus)
	}
}

func TestSyncMatchesNameCaseInsensitively(t *testing.T) {
	world := newSyncWorld()
	club := world.addClub("group-1")
	player := world.addPlayer(club.ID, "Jef", "Claes")
	world.remote["group-1"] = []Registration{
		{ID: "TW-1", FirstName: "JEF", LastName: "claes", GroupID: "group-1"},
	}

	summary, err := newSyncJob(world).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Linked)
	assert.True(t, world.players[player.ID].Registered)
}

func TestSyncUnlinksStaleConfirmedMappings(t *testing.T) {
	world := newSyncWorld()
	club := world.addClub("group-1")
	player := world.addPlayer(club.ID, "An", "Peeters")
	world.addMapping(player.ID, "TW-GONE", models.SyncStatusSuccess)
	world.remote["group-1"] = nil

	summary, err := newSyncJob(world).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Unlinked)
	assert.Empty(t, world.registrations)
	assert.False(t, world.players[player.ID].Registered)
}

func TestSyncFlagsUnknownManualMapping(t *testing.T) {
	world := newSyncWorld()
	club := world.addClub("group-1")
	player := world.addPlayer(club.ID, "An", "Peeters")
	mapping := world.addMapping(player.ID, "TW-TYPO", models.SyncStatusPending)
	world.remote["group-1"] = nil

	summary, err := newSyncJob(world).Run(context.Background())
	require.NoError(t, err)

	// The row stays for correction, the player keeps the flag, but the
	// failure is recorded.
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, models.SyncStatusFailed, world.registrations[mapping.ID].SyncStatus)
	assert.True(t, world.players[player.ID].Registered)
}

func TestSyncRerunIsIdempotent(t *testing.T) {
	world := newSyncWorld()
	club := world.addClub("group-1")
	world.addPlayer(club.ID, "An", "Peeters")
	world.remote["group-1"] = []Registration{
		{ID: "TW-1", FirstName: "An", LastName: "Peeters", GroupID: "group-1"},
	}

	job := newSyncJob(world)

	first, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Linked)

	second, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Linked)
	assert.Equal(t, 1, second.Confirmed)
	assert.Len(t, world.registrations, 1)
}

func TestSyncSkipsClubsWithoutGroup(t *testing.T) {
	world := newSyncWorld()
	world.clubs = append(world.clubs, &models.Club{ID: world.id(), Name: "Unlinked club"})

	summary, err := newSyncJob(world).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Linked+summary.Unlinked+summary.Confirmed+summary.Failed+summary.Unmatched)
}
