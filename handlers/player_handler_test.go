package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/korfside/club-system/models"
	"github.com/korfside/club-system/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlayerService struct {
	player *models.Player
	err    error
}

func (s *stubPlayerService) CreatePlayer(ctx context.Context, input services.PlayerInput) (*models.Player, error) {
	return s.player, s.err
}

func (s *stubPlayerService) GetPlayerByID(ctx context.Context, id int) (*models.Player, error) {
	return s.player, s.err
}

func (s *stubPlayerService) ListPlayersByClub(ctx context.Context, clubID int) ([]*models.Player, error) {
	return []*models.Player{s.player}, s.err
}

func (s *stubPlayerService) UpdatePlayer(ctx context.Context, id int, input services.PlayerInput) (*models.Player, error) {
	return s.player, s.err
}

func (s *stubPlayerService) DeletePlayer(ctx context.Context, id int) error {
	return s.err
}

type stubRegistrationService struct {
	registration *models.TwizzitRegistration
	err          error
}

func (s *stubRegistrationService) LinkPlayer(ctx context.Context, input services.LinkPlayerInput) (*models.TwizzitRegistration, error) {
	return s.registration, s.err
}

func (s *stubRegistrationService) UnlinkPlayer(ctx context.Context, registrationID int) error {
	return s.err
}

func (s *stubRegistrationService) ListPlayerRegistrations(ctx context.Context, playerID int) ([]*models.TwizzitRegistration, error) {
	if s.registration == nil {
		return nil, s.err
	}
	return []*models.TwizzitRegistration{s.registration}, s.err
}

func (s *stubRegistrationService) MarkSyncStatus(ctx context.Context, registrationID int, status models.RegistrationSyncStatus) error {
	return s.err
}

func newPlayerRouter(playerService services.PlayerService, registrationService services.RegistrationService) *chi.Mux {
	handler := NewPlayerHandler(playerService, registrationService)
	router := chi.NewRouter()
	router.Post("/players", handler.Create)
	router.Get("/players/{playerID}/registrations", handler.ListRegistrations)
	router.Post("/players/{playerID}/registrations", handler.LinkRegistration)
	router.Delete("/registrations/{id}", handler.UnlinkRegistration)
	return router
}

// A new player is never registered; the response says so explicitly.
func TestCreatePlayerReturnsTwizzitNotice(t *testing.T) {
	playerService := &stubPlayerService{
		player: &models.Player{ID: 3, ClubID: 1, FirstName: "An", LastName: "Peeters"},
	}
	router := newPlayerRouter(playerService, &stubRegistrationService{})

	body := `{"club_id":1,"first_name":"An","last_name":"Peeters","number":4}`
	req := httptest.NewRequest(http.MethodPost, "/players", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var response struct {
		Player models.Player `json:"player"`
		Notice string        `json:"notice"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.Equal(t, 3, response.Player.ID)
	assert.False(t, response.Player.Registered)
	assert.Contains(t, response.Notice, "Twizzit")
}

func TestLinkRegistration(t *testing.T) {
	registrationService := &stubRegistrationService{
		registration: &models.TwizzitRegistration{ID: 10, PlayerID: 3, TwizzitID: "TW-1"},
	}
	router := newPlayerRouter(&stubPlayerService{}, registrationService)

	body := `{"twizzit_id":"TW-1","twizzit_name":"An Peeters"}`
	req := httptest.NewRequest(http.MethodPost, "/players/3/registrations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var response struct {
		Registration models.TwizzitRegistration `json:"registration"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "TW-1", response.Registration.TwizzitID)
}

func TestLinkRegistrationConflict(t *testing.T) {
	registrationService := &stubRegistrationService{err: services.ErrRegistrationConflict}
	router := newPlayerRouter(&stubPlayerService{}, registrationService)

	body := `{"twizzit_id":"TW-1"}`
	req := httptest.NewRequest(http.MethodPost, "/players/3/registrations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUnlinkRegistration(t *testing.T) {
	router := newPlayerRouter(&stubPlayerService{}, &stubRegistrationService{})

	req := httptest.NewRequest(http.MethodDelete, "/registrations/10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

// Deleting a player still on a roster surfaces as a conflict, not a 500.
func TestDeletePlayerWithRosterEntries(t *testing.T) {
	playerService := &stubPlayerService{err: services.ErrPlayerHasRosterEntries}
	handler := NewPlayerHandler(playerService, &stubRegistrationService{})
	router := chi.NewRouter()
	router.Delete("/players/{id}", handler.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/players/3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
