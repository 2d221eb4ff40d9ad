package websocket

import (
	"log"
	"sync"
)

// Hub gère les connexions WebSocket actives et les rooms d'événements.
// Chaque mariage a sa room, identifiée par l'ObjectID hexadécimal de
// l'événement. Les invités n'ayant pas de compte, les connexions sont
// identifiées par un ID de connexion généré côté serveur.
type Hub struct {
	// Connexions actives par connection_id
	connections map[string]*Client

	// Rooms d'événements (event_id -> [connection_id])
	rooms map[string]map[string]bool

	// Mutex pour sécuriser les accès concurrents
	mu sync.RWMutex

	// Canal pour enregistrer les clients
	register chan *Client

	// Canal pour désenregistrer les clients
	unregister chan *Client
}

// NewHub crée un nouveau hub WebSocket
func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*Client),
		rooms:       make(map[string]map[string]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
	}
}

// Run démarre la boucle principale du hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.connections[client.ID] = client
			total := len(h.connections)
			h.mu.Unlock()
			log.Printf("🔌 Client connecté: %s (total: %d)", client.ID, total)

		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// removeClient ferme le canal d'envoi et retire le client de toutes ses rooms.
// Le retrait des rooms est systématique : une connexion fermée ne doit jamais
// rester comptée comme spectateur d'un événement.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.connections[client.ID]; ok {
		delete(h.connections, client.ID)
		close(client.send)

		for eventID, members := range h.rooms {
			delete(members, client.ID)
			if len(members) == 0 {
				delete(h.rooms, eventID)
			}
		}
	}
	total := len(h.connections)
	h.mu.Unlock()
	log.Printf("👋 Client déconnecté: %s (total: %d)", client.ID, total)
}

// JoinEvent ajoute une connexion à la room d'un événement.
// L'opération est idempotente : rejoindre deux fois la même room ne crée
// pas de doublon et ne provoque pas de double réception.
func (h *Hub) JoinEvent(connID, eventID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.connections[connID]; !ok {
		log.Printf("⚠️  Connexion %s inconnue - join ignoré", connID)
		return
	}

	if h.rooms[eventID] == nil {
		h.rooms[eventID] = make(map[string]bool)
	}
	h.rooms[eventID][connID] = true
	log.Printf("✅ Connexion %s a rejoint l'événement %s", connID, eventID)
}

// LeaveEvent retire une connexion de la room d'un événement
func (h *Hub) LeaveEvent(connID, eventID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[eventID]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, eventID)
		}
		log.Printf("👋 Connexion %s a quitté l'événement %s", connID, eventID)
	}
}

// MembersOf retourne les IDs des connexions dans la room d'un événement
func (h *Hub) MembersOf(eventID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := make([]string, 0, len(h.rooms[eventID]))
	for connID := range h.rooms[eventID] {
		members = append(members, connID)
	}
	return members
}

// CountConnections retourne le nombre total de connexions actives
func (h *Hub) CountConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.connections)
}

// Publish diffuse un événement à tous les membres de la room.
// L'envoi est best-effort : si le canal d'un client est plein, le message
// est abandonné pour ce client plutôt que de bloquer toute la diffusion.
// L'ordre de publication est préservé pour chaque room.
func (h *Hub) Publish(eventID string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members, ok := h.rooms[eventID]
	if !ok {
		return // Personne n'écoute cet événement
	}

	sent := 0
	for connID := range members {
		client, ok := h.connections[connID]
		if !ok {
			continue
		}
		select {
		case client.send <- payload:
			sent++
		default:
			log.Printf("❌ Canal plein pour %s - message abandonné", connID)
		}
	}

	log.Printf("📡 Broadcast événement %s: %d/%d clients", eventID, sent, len(members))
}

// SendToClient envoie un message à une connexion spécifique
func (h *Hub) SendToClient(connID string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, ok := h.connections[connID]; ok {
		select {
		case client.send <- payload:
		default:
			log.Printf("❌ Canal plein pour %s", connID)
		}
	}
}

// Shutdown ferme toutes les connexions actives
func (h *Hub) Shutdown() {
	log.Printf("🔄 Arrêt du hub WebSocket...")

	h.mu.Lock()
	for connID, client := range h.connections {
		close(client.send)
		if client.conn != nil {
			client.conn.Close()
		}
		log.Printf("🔌 Connexion fermée pour %s", connID)
	}
	h.connections = make(map[string]*Client)
	h.rooms = make(map[string]map[string]bool)
	h.mu.Unlock()

	log.Printf("✅ Hub WebSocket arrêté")
}
