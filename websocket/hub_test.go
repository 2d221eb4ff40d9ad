package websocket

import (
	"testing"
)

// addTestClient insère une connexion directement dans le hub, sans passer
// par la boucle Run ni par une vraie connexion réseau.
func addTestClient(h *Hub, id string, buffer int) *Client {
	client := &Client{
		hub:  h,
		send: make(chan interface{}, buffer),
		ID:   id,
	}
	h.mu.Lock()
	h.connections[client.ID] = client
	h.mu.Unlock()
	return client
}

// received vide le canal d'un client et retourne les messages reçus
func received(c *Client) []interface{} {
	var messages []interface{}
	for {
		select {
		case msg := <-c.send:
			messages = append(messages, msg)
		default:
			return messages
		}
	}
}

func TestHub_JoinEvent(t *testing.T) {
	t.Run("rejoindre une room", func(t *testing.T) {
		hub := NewHub()
		addTestClient(hub, "conn-1", 8)

		hub.JoinEvent("conn-1", "event-a")

		if got := len(hub.MembersOf("event-a")); got != 1 {
			t.Errorf("MembersOf = %d, attendu 1", got)
		}
	})

	t.Run("rejoindre deux fois est idempotent", func(t *testing.T) {
		hub := NewHub()
		client := addTestClient(hub, "conn-1", 8)

		hub.JoinEvent("conn-1", "event-a")
		hub.JoinEvent("conn-1", "event-a")

		if got := len(hub.MembersOf("event-a")); got != 1 {
			t.Errorf("MembersOf = %d, attendu 1", got)
		}

		// Pas de double réception non plus
		hub.Publish("event-a", "bonjour")
		if got := len(received(client)); got != 1 {
			t.Errorf("messages reçus = %d, attendu 1", got)
		}
	})

	t.Run("connexion inconnue ignorée", func(t *testing.T) {
		hub := NewHub()

		hub.JoinEvent("fantome", "event-a")

		if got := len(hub.MembersOf("event-a")); got != 0 {
			t.Errorf("MembersOf = %d, attendu 0", got)
		}
	})

	t.Run("une connexion peut suivre plusieurs événements", func(t *testing.T) {
		hub := NewHub()
		client := addTestClient(hub, "conn-1", 8)

		hub.JoinEvent("conn-1", "event-a")
		hub.JoinEvent("conn-1", "event-b")

		hub.Publish("event-a", "a")
		hub.Publish("event-b", "b")

		if got := len(received(client)); got != 2 {
			t.Errorf("messages reçus = %d, attendu 2", got)
		}
	})
}

func TestHub_Publish(t *testing.T) {
	t.Run("isolation des rooms", func(t *testing.T) {
		hub := NewHub()
		alice := addTestClient(hub, "alice", 8)
		bob := addTestClient(hub, "bob", 8)

		hub.JoinEvent("alice", "mariage-dupont")
		hub.JoinEvent("bob", "mariage-martin")

		hub.Publish("mariage-dupont", "photo")

		if got := len(received(alice)); got != 1 {
			t.Errorf("alice a reçu %d messages, attendu 1", got)
		}
		if got := len(received(bob)); got != 0 {
			t.Errorf("bob a reçu %d messages, attendu 0", got)
		}
	})

	t.Run("pas de replay pour les retardataires", func(t *testing.T) {
		hub := NewHub()
		addTestClient(hub, "alice", 8)
		late := addTestClient(hub, "late", 8)

		hub.JoinEvent("alice", "event-a")
		hub.Publish("event-a", "avant")

		hub.JoinEvent("late", "event-a")
		hub.Publish("event-a", "après")

		msgs := received(late)
		if len(msgs) != 1 {
			t.Fatalf("late a reçu %d messages, attendu 1", len(msgs))
		}
		if msgs[0] != "après" {
			t.Errorf("late a reçu %v, attendu 'après'", msgs[0])
		}
	})

	t.Run("ordre de publication préservé", func(t *testing.T) {
		hub := NewHub()
		client := addTestClient(hub, "conn-1", 8)
		hub.JoinEvent("conn-1", "event-a")

		hub.Publish("event-a", "un")
		hub.Publish("event-a", "deux")
		hub.Publish("event-a", "trois")

		msgs := received(client)
		attendu := []string{"un", "deux", "trois"}
		if len(msgs) != len(attendu) {
			t.Fatalf("reçu %d messages, attendu %d", len(msgs), len(attendu))
		}
		for i, want := range attendu {
			if msgs[i] != want {
				t.Errorf("message %d = %v, attendu %s", i, msgs[i], want)
			}
		}
	})

	t.Run("canal plein abandonne sans bloquer", func(t *testing.T) {
		hub := NewHub()
		lent := addTestClient(hub, "lent", 1)
		rapide := addTestClient(hub, "rapide", 8)
		hub.JoinEvent("lent", "event-a")
		hub.JoinEvent("rapide", "event-a")

		hub.Publish("event-a", "un")
		hub.Publish("event-a", "deux") // le canal de "lent" est plein

		if got := len(received(rapide)); got != 2 {
			t.Errorf("rapide a reçu %d messages, attendu 2", got)
		}
		if got := len(received(lent)); got != 1 {
			t.Errorf("lent a reçu %d messages, attendu 1", got)
		}

		// Le client lent reste connecté et dans la room
		if got := len(hub.MembersOf("event-a")); got != 2 {
			t.Errorf("MembersOf = %d, attendu 2", got)
		}
	})

	t.Run("room vide ne fait rien", func(t *testing.T) {
		hub := NewHub()
		hub.Publish("inexistant", "rien") // ne doit pas paniquer
	})
}

func TestHub_LeaveEvent(t *testing.T) {
	t.Run("quitter une room", func(t *testing.T) {
		hub := NewHub()
		client := addTestClient(hub, "conn-1", 8)
		hub.JoinEvent("conn-1", "event-a")

		hub.LeaveEvent("conn-1", "event-a")

		if got := len(hub.MembersOf("event-a")); got != 0 {
			t.Errorf("MembersOf = %d, attendu 0", got)
		}

		hub.Publish("event-a", "photo")
		if got := len(received(client)); got != 0 {
			t.Errorf("messages reçus après départ = %d, attendu 0", got)
		}
	})

	t.Run("quitter une room jamais rejointe", func(t *testing.T) {
		hub := NewHub()
		addTestClient(hub, "conn-1", 8)
		hub.LeaveEvent("conn-1", "event-a") // ne doit pas paniquer
	})
}

func TestHub_RemoveClient(t *testing.T) {
	t.Run("déconnexion retire de toutes les rooms", func(t *testing.T) {
		hub := NewHub()
		client := addTestClient(hub, "conn-1", 8)
		addTestClient(hub, "conn-2", 8)

		hub.JoinEvent("conn-1", "event-a")
		hub.JoinEvent("conn-1", "event-b")
		hub.JoinEvent("conn-2", "event-a")

		hub.removeClient(client)

		if got := hub.CountConnections(); got != 1 {
			t.Errorf("CountConnections = %d, attendu 1", got)
		}
		if got := len(hub.MembersOf("event-a")); got != 1 {
			t.Errorf("MembersOf(event-a) = %d, attendu 1", got)
		}
		if got := len(hub.MembersOf("event-b")); got != 0 {
			t.Errorf("MembersOf(event-b) = %d, attendu 0", got)
		}

		// Le canal est fermé
		if _, ok := <-client.send; ok {
			t.Error("le canal send devrait être fermé")
		}
	})

	t.Run("double désenregistrement sans panique", func(t *testing.T) {
		hub := NewHub()
		client := addTestClient(hub, "conn-1", 8)

		hub.removeClient(client)
		hub.removeClient(client) // ne doit pas fermer deux fois le canal
	})
}

func TestHub_MembersOf(t *testing.T) {
	t.Run("retourne les IDs des connexions de la room", func(t *testing.T) {
		hub := NewHub()
		addTestClient(hub, "conn-1", 8)
		addTestClient(hub, "conn-2", 8)

		hub.JoinEvent("conn-1", "event-a")
		hub.JoinEvent("conn-2", "event-a")

		members := hub.MembersOf("event-a")
		if len(members) != 2 {
			t.Fatalf("MembersOf = %v, attendu 2 membres", members)
		}
		seen := map[string]bool{}
		for _, id := range members {
			seen[id] = true
		}
		if !seen["conn-1"] || !seen["conn-2"] {
			t.Errorf("MembersOf = %v, attendu conn-1 et conn-2", members)
		}
	})

	t.Run("room inexistante retourne une liste vide", func(t *testing.T) {
		hub := NewHub()
		if got := hub.MembersOf("event-z"); len(got) != 0 {
			t.Errorf("MembersOf = %v, attendu vide", got)
		}
	})
}

func TestHub_SendToClient(t *testing.T) {
	t.Run("envoi à une connexion existante", func(t *testing.T) {
		hub := NewHub()
		client := addTestClient(hub, "conn-1", 8)

		hub.SendToClient("conn-1", "coucou")

		msgs := received(client)
		if len(msgs) != 1 || msgs[0] != "coucou" {
			t.Errorf("messages reçus = %v, attendu [coucou]", msgs)
		}
	})

	t.Run("connexion inconnue ignorée", func(t *testing.T) {
		hub := NewHub()
		hub.SendToClient("fantome", "coucou") // ne doit pas paniquer
	})

	t.Run("connexion retirée ignorée sans panique", func(t *testing.T) {
		hub := NewHub()
		client := addTestClient(hub, "conn-1", 8)
		hub.removeClient(client)

		// Le canal est fermé : l'envoi doit être ignoré, pas paniquer
		hub.SendToClient("conn-1", "coucou")
	})

	t.Run("canal plein ne bloque pas", func(t *testing.T) {
		hub := NewHub()
		client := addTestClient(hub, "conn-1", 1)

		hub.SendToClient("conn-1", "un")
		hub.SendToClient("conn-1", "deux") // abandonné, pas de blocage

		msgs := received(client)
		if len(msgs) != 1 || msgs[0] != "un" {
			t.Errorf("messages reçus = %v, attendu [un]", msgs)
		}
	})
}
