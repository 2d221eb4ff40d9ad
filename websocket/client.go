package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// Temps maximum pour l'écriture d'un message
	writeWait = 10 * time.Second

	// Temps maximum pour la lecture d'un pong
	pongWait = 60 * time.Second

	// Intervalle des pings
	pingPeriod = (pongWait * 9) / 10

	// Taille maximale des messages
	maxMessageSize = 4096
)

// Client représente une connexion WebSocket.
// ID est un identifiant de connexion généré côté serveur : les invités
// n'ont pas de compte, on ne peut donc pas indexer par utilisateur.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan interface{}
	ID   string
}

// readPump pompe les messages de la connexion WebSocket vers le hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("❌ Erreur WebSocket: %v", err)
			}
			break
		}

		// Parser le message JSON
		var msg map[string]interface{}
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("❌ Erreur parsing message: %v", err)
			continue
		}

		msgType, ok := msg["type"].(string)
		if !ok {
			continue
		}

		switch msgType {
		case "join_event":
			eventID, ok := msg["event_id"].(string)
			if !ok || eventID == "" {
				log.Printf("⚠️  Événement join_event sans event_id")
				continue
			}
			if _, err := primitive.ObjectIDFromHex(eventID); err != nil {
				log.Printf("❌ EventID invalide: %s", eventID)
				continue
			}
			c.hub.JoinEvent(c.ID, eventID)
			// Confirmer au client via le hub : l'envoi direct sur c.send
			// pourrait bloquer la boucle de lecture sur un canal plein, ou
			// paniquer si Shutdown ferme le canal au même moment
			c.hub.SendToClient(c.ID, map[string]interface{}{
				"type":     "joined_event",
				"event_id": eventID,
			})

		case "leave_event":
			if eventID, ok := msg["event_id"].(string); ok {
				c.hub.LeaveEvent(c.ID, eventID)
			}

		default:
			log.Printf("⚠️  Type de message inconnu: %s", msgType)
		}
	}
}

// writePump pompe les messages du hub vers la connexion WebSocket
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Le hub a fermé le canal
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				log.Printf("❌ Erreur écriture WebSocket: %v", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
