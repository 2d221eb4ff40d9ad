package websocket

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Les invités se connectent depuis le QR code, sans origine connue
		return true
	},
}

// Handler gère les connexions WebSocket
type Handler struct {
	hub *Hub
}

// NewHandler crée un nouveau handler WebSocket
func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// ServeWS gère les requêtes WebSocket.
// Aucune authentification : les invités n'ont pas de compte, la connexion
// ne donne accès qu'aux diffusions des rooms rejointes via join_event.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan interface{}, 256),
		ID:   uuid.NewString(),
	}

	// Envoyer l'identifiant de connexion au client
	_ = conn.WriteJSON(map[string]interface{}{
		"type":          "connected",
		"connection_id": client.ID,
	})

	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}
