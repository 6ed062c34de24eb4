package services

import (
	"context"
	"time"

	"github.com/korfside/club-system/models"
	"github.com/korfside/club-system/repositories"
)

// fakeStore is shared in-memory state behind the fake repositories. The
// fake transaction manager snapshots it before the callback and restores
// it when the callback fails, mirroring a rollback.
type fakeStore struct {
	players       map[int]*models.Player
	registrations map[int]*models.TwizzitRegistration
	rosters       map[int]*models.RosterEntry
	games         map[int]*models.Game
	competitions  map[int]*models.Competition
	nextID        int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		players:       make(map[int]*models.Player),
		registrations: make(map[int]*models.TwizzitRegistration),
		rosters:       make(map[int]*models.RosterEntry),
		games:         make(map[int]*models.Game),
		competitions:  make(map[int]*models.Competition),
		nextID:        1,
	}
}

func (s *fakeStore) id() int {
	id := s.nextID
	s.nextID++
	return id
}

func (s *fakeStore) addPlayer(clubID int, registered bool) *models.Player {
	player := &models.Player{
		ID:         s.id(),
		ClubID:     clubID,
		FirstName:  "Test",
		LastName:   "Player",
		Registered: registered,
	}
	if registered {
		now := time.Now().UTC()
		player.VerifiedAt = &now
	}
	s.players[player.ID] = player
	return player
}

func (s *fakeStore) addCompetition(isOfficial bool) *models.Competition {
	competition := &models.Competition{
		ID:         s.id(),
		Name:       "Competition",
		Season:     "2026-2027",
		IsOfficial: isOfficial,
	}
	s.competitions[competition.ID] = competition
	return competition
}

func (s *fakeStore) addGame(homeClubID, awayClubID int, competitionID *int) *models.Game {
	game := &models.Game{
		ID:            s.id(),
		HomeClubID:    homeClubID,
		AwayClubID:    awayClubID,
		CompetitionID: competitionID,
		GameTime:      time.Now().Add(48 * time.Hour),
		Status:        models.GameStatusScheduled,
	}
	s.games[game.ID] = game
	return game
}

func (s *fakeStore) addRegistration(playerID int, twizzitID string, status models.RegistrationSyncStatus) *models.TwizzitRegistration {
	registration := &models.TwizzitRegistration{
		ID:         s.id(),
		PlayerID:   playerID,
		TwizzitID:  twizzitID,
		SyncStatus: status,
		CreatedAt:  time.Now().UTC(),
	}
	s.registrations[registration.ID] = registration
	return registration
}

func copyPlayer(p *models.Player) *models.Player {
	cp := *p
	if p.VerifiedAt != nil {
		t := *p.VerifiedAt
		cp.VerifiedAt = &t
	}
	return &cp
}

func (s *fakeStore) snapshot() *fakeStore {
	snap := newFakeStore()
	snap.nextID = s.nextID
	for id, p := range s.players {
		snap.players[id] = copyPlayer(p)
	}
	for id, r := range s.registrations {
		cp := *r
		snap.registrations[id] = &cp
	}
	for id, e := range s.rosters {
		cp := *e
		snap.rosters[id] = &cp
	}
	for id, g := range s.games {
		cp := *g
		snap.games[id] = &cp
	}
	for id, c := range s.competitions {
		cp := *c
		snap.competitions[id] = &cp
	}
	return snap
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.players = snap.players
	s.registrations = snap.registrations
	s.rosters = snap.rosters
	s.games = snap.games
	s.competitions = snap.competitions
	s.nextID = snap.nextID
}

type fakeTxManager struct {
	store *fakeStore
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	snap := m.store.snapshot()
	if err := fn(nil); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

type fakePlayerRepo struct {
	store *fakeStore

	updateStatusErr error
}

func (r *fakePlayerRepo) Create(ctx context.Context, player *models.Player) error {
	player.ID = r.store.id()
	r.store.players[player.ID] = copyPlayer(player)
	return nil
}

func (r *fakePlayerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, ok := r.store.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return copyPlayer(player), nil
}

func (r *fakePlayerRepo) ListByIDs(ctx context.Context, ids []int) ([]*models.Player, error) {
	players := make([]*models.Player, 0, len(ids))
	for _, id := range ids {
		if player, ok := r.store.players[id]; ok {
			players = append(players, copyPlayer(player))
		}
	}
	return players, nil
}

func (r *fakePlayerRepo) ListByClub(ctx context.Context, clubID int) ([]*models.Player, error) {
	players := make([]*models.Player, 0)
	for _, player := range r.store.players {
		if player.ClubID == clubID {
			players = append(players, copyPlayer(player))
		}
	}
	return players, nil
}

func (r *fakePlayerRepo) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	players := make([]*models.Player, 0)
	for _, player := range r.store.players {
		if player.TeamID != nil && *player.TeamID == teamID {
			players = append(players, copyPlayer(player))
		}
	}
	return players, nil
}

func (r *fakePlayerRepo) Update(ctx context.Context, player *models.Player) error {
	stored, ok := r.store.players[player.ID]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	stored.TeamID = player.TeamID
	stored.FirstName = player.FirstName
	stored.LastName = player.LastName
	stored.Number = player.Number
	return nil
}

func (r *fakePlayerRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.store.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	for _, entry := range r.store.rosters {
		if entry.PlayerID == id {
			return repositories.ErrPlayerInUse
		}
	}
	delete(r.store.players, id)
	return nil
}

func (r *fakePlayerRepo) Count(ctx context.Context, registered *bool) (int, error) {
	count := 0
	for _, player := range r.store.players {
		if registered == nil || player.Registered == *registered {
			count++
		}
	}
	return count, nil
}

func (r *fakePlayerRepo) UpdateRegistrationStatus(ctx context.Context, exec repositories.SQLExecutor, playerID int, registered bool, verifiedAt *time.Time) error {
	if r.updateStatusErr != nil {
		return r.updateStatusErr
	}
	player, ok := r.store.players[playerID]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	player.Registered = registered
	player.VerifiedAt = verifiedAt
	return nil
}

type fakeRegistrationRepo struct {
	store *fakeStore

	createErr error
}

func (r *fakeRegistrationRepo) Create(ctx context.Context, exec repositories.SQLExecutor, registration *models.TwizzitRegistration) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.store.registrations {
		if existing.TwizzitID == registration.TwizzitID {
			return repositories.ErrRegistrationIDConflict
		}
	}
	if _, ok := r.store.players[registration.PlayerID]; !ok {
		return repositories.ErrRegistrationPlayerInvalid
	}
	registration.ID = r.store.id()
	registration.CreatedAt = time.Now().UTC()
	cp := *registration
	r.store.registrations[registration.ID] = &cp
	return nil
}

func (r *fakeRegistrationRepo) GetByID(ctx context.Context, id int) (*models.TwizzitRegistration, error) {
	registration, ok := r.store.registrations[id]
	if !ok {
		return nil, repositories.ErrRegistrationNotFound
	}
	cp := *registration
	return &cp, nil
}

func (r *fakeRegistrationRepo) GetByTwizzitID(ctx context.Context, twizzitID string) (*models.TwizzitRegistration, error) {
	for _, registration := range r.store.registrations {
		if registration.TwizzitID == twizzitID {
			cp := *registration
			return &cp, nil
		}
	}
	return nil, repositories.ErrRegistrationNotFound
}

func (r *fakeRegistrationRepo) ListByPlayer(ctx context.Context, playerID int) ([]*models.TwizzitRegistration, error) {
	registrations := make([]*models.TwizzitRegistration, 0)
	for _, registration := range r.store.registrations {
		if registration.PlayerID == playerID {
			cp := *registration
			registrations = append(registrations, &cp)
		}
	}
	return registrations, nil
}

func (r *fakeRegistrationRepo) ListByClub(ctx context.Context, clubID int) ([]*models.TwizzitRegistration, error) {
	registrations := make([]*models.TwizzitRegistration, 0)
	for _, registration := range r.store.registrations {
		player, ok := r.store.players[registration.PlayerID]
		if ok && player.ClubID == clubID {
			cp := *registration
			registrations = append(registrations, &cp)
		}
	}
	return registrations, nil
}

func (r *fakeRegistrationRepo) CountByPlayer(ctx context.Context, exec repositories.SQLExecutor, playerID int) (int, error) {
	count := 0
	for _, registration := range r.store.registrations {
		if registration.PlayerID == playerID {
			count++
		}
	}
	return count, nil
}

func (r *fakeRegistrationRepo) UpdateSyncStatus(ctx context.Context, id int, status models.RegistrationSyncStatus) error {
	registration, ok := r.store.registrations[id]
	if !ok {
		return repositories.ErrRegistrationNotFound
	}
	registration.SyncStatus = status
	return nil
}

func (r *fakeRegistrationRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.store.registrations[id]; !ok {
		return repositories.ErrRegistrationNotFound
	}
	delete(r.store.registrations, id)
	return nil
}

type fakeGameRepo struct {
	store *fakeStore
}

func (r *fakeGameRepo) Create(ctx context.Context, game *models.Game) error {
	game.ID = r.store.id()
	cp := *game
	r.store.games[game.ID] = &cp
	return nil
}

func (r *fakeGameRepo) GetByID(ctx context.Context, id int) (*models.Game, error) {
	game, ok := r.store.games[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	cp := *game
	return &cp, nil
}

func (r *fakeGameRepo) List(ctx context.Context, filter repositories.GameFilter) ([]*models.Game, error) {
	games := make([]*models.Game, 0)
	for _, game := range r.store.games {
		cp := *game
		games = append(games, &cp)
	}
	return games, nil
}

func (r *fakeGameRepo) Update(ctx context.Context, game *models.Game) error {
	if _, ok := r.store.games[game.ID]; !ok {
		return repositories.ErrGameNotFound
	}
	cp := *game
	r.store.games[game.ID] = &cp
	return nil
}

func (r *fakeGameRepo) UpdateStatus(ctx context.Context, id int, status models.GameStatus) error {
	game, ok := r.store.games[id]
	if !ok {
		return repositories.ErrGameNotFound
	}
	game.Status = status
	return nil
}

func (r *fakeGameRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.store.games[id]; !ok {
		return repositories.ErrGameNotFound
	}
	delete(r.store.games, id)
	return nil
}

func (r *fakeGameRepo) Count(ctx context.Context) (int, error) {
	return len(r.store.games), nil
}

func (r *fakeGameRepo) CountUpcoming(ctx context.Context) (int, error) {
	count := 0
	for _, game := range r.store.games {
		if game.Status == models.GameStatusScheduled && game.GameTime.After(time.Now()) {
			count++
		}
	}
	return count, nil
}

func (r *fakeGameRepo) CountOfficial(ctx context.Context) (int, error) {
	count := 0
	for _, game := range r.store.games {
		if game.CompetitionID == nil {
			continue
		}
		competition, ok := r.store.competitions[*game.CompetitionID]
		if ok && competition.IsOfficial {
			count++
		}
	}
	return count, nil
}

type fakeCompetitionRepo struct {
	store *fakeStore
}

func (r *fakeCompetitionRepo) Create(ctx context.Context, competition *models.Competition) error {
	competition.ID = r.store.id()
	cp := *competition
	r.store.competitions[competition.ID] = &cp
	return nil
}

func (r *fakeCompetitionRepo) GetByID(ctx context.Context, id int) (*models.Competition, error) {
	competition, ok := r.store.competitions[id]
	if !ok {
		return nil, repositories.ErrCompetitionNotFound
	}
	cp := *competition
	return &cp, nil
}

func (r *fakeCompetitionRepo) List(ctx context.Context) ([]*models.Competition, error) {
	competitions := make([]*models.Competition, 0)
	for _, competition := range r.store.competitions {
		cp := *competition
		competitions = append(competitions, &cp)
	}
	return competitions, nil
}

func (r *fakeCompetitionRepo) Update(ctx context.Context, competition *models.Competition) error {
	if _, ok := r.store.competitions[competition.ID]; !ok {
		return repositories.ErrCompetitionNotFound
	}
	cp := *competition
	r.store.competitions[competition.ID] = &cp
	return nil
}

func (r *fakeCompetitionRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.store.competitions[id]; !ok {
		return repositories.ErrCompetitionNotFound
	}
	delete(r.store.competitions, id)
	return nil
}

func (r *fakeCompetitionRepo) Count(ctx context.Context) (int, error) {
	return len(r.store.competitions), nil
}

type fakeTeamRepo struct {
	store *fakeStore
	teams int
}

func (r *fakeTeamRepo) Create(ctx context.Context, team *models.Team) error {
	team.ID = r.store.id()
	r.teams++
	return nil
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) ListByClub(ctx context.Context, clubID int) ([]*models.Team, error) {
	return nil, nil
}

func (r *fakeTeamRepo) Update(ctx context.Context, team *models.Team) error {
	return repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) Delete(ctx context.Context, id int) error {
	return repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) Count(ctx context.Context) (int, error) {
	return r.teams, nil
}

type fakeRosterRepo struct {
	store *fakeStore

	createBatchErr error
}

func (r *fakeRosterRepo) CreateBatch(ctx context.Context, exec repositories.SQLExecutor, entries []*models.RosterEntry) error {
	if r.createBatchErr != nil {
		return r.createBatchErr
	}
	for _, entry := range entries {
		for _, existing := range r.store.rosters {
			if existing.GameID == entry.GameID && existing.PlayerID == entry.PlayerID {
				return repositories.ErrRosterEntryConflict
			}
		}
		entry.ID = r.store.id()
		entry.CreatedAt = time.Now().UTC()
		cp := *entry
		r.store.rosters[entry.ID] = &cp
	}
	return nil
}

func (r *fakeRosterRepo) ListByGame(ctx context.Context, gameID int) ([]*models.RosterEntry, error) {
	entries := make([]*models.RosterEntry, 0)
	for _, entry := range r.store.rosters {
		if entry.GameID == gameID {
			cp := *entry
			entries = append(entries, &cp)
		}
	}
	return entries, nil
}

func (r *fakeRosterRepo) ListByPlayer(ctx context.Context, playerID int) ([]*models.RosterEntry, error) {
	entries := make([]*models.RosterEntry, 0)
	for _, entry := range r.store.rosters {
		if entry.PlayerID == playerID {
			cp := *entry
			entries = append(entries, &cp)
		}
	}
	return entries, nil
}

func (r *fakeRosterRepo) DeleteByGameAndClub(ctx context.Context, exec repositories.SQLExecutor, gameID, clubID int) error {
	for id, entry := range r.store.rosters {
		if entry.GameID == gameID && entry.ClubID == clubID {
			delete(r.store.rosters, id)
		}
	}
	return nil
}
