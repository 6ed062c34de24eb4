package handlers

import (
	"net/http"

	"github.com/korfside/club-system/services"
)

type RosterHandler struct {
	rosterService services.RosterService
}

func NewRosterHandler(rosterService services.RosterService) *RosterHandler {
	return &RosterHandler{rosterService: rosterService}
}

// Submit replaces the submitting clubs' roster for a game. For a game in
// an official competition, a single unregistered player rejects the whole
// batch with a 403 listing every offender.
func (h *RosterHandler) Submit(w http.ResponseWriter, r *http.Request) {
	gameID, err := readIDParam(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SubmitRosterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.rosterService.SubmitRoster(r.Context(), gameID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"roster": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RosterHandler) ListByGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := readIDParam(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.rosterService.ListGameRoster(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"roster": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
