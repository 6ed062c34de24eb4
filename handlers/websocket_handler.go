package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/korfside/club-system/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the dashboard origin once the frontend domain
		// is settled.
		return true
	},
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeWs subscribes a connection to a club's live feed at
// /ws/clubs/{clubID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	clubID, err := readIDParam(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade websocket connection",
			slog.Int("club_id", clubID),
			slog.String("error", err.Error()),
		)
		return
	}

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: live.ClubRoom(clubID),
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
