package websocket

import (
	"jour-j-backend/models"
)

// Types d'événements diffusés dans les rooms.
// Les clients d'une room reçoivent tout ce qui concerne leur événement :
// le front filtre ensuite selon ce qu'il affiche.
const (
	TypeNewMedia          = "new-media"
	TypeNewGuestbookEntry = "new-guestbook-entry"
	TypeMediaLiked        = "media-liked"
	TypeGuestbookLiked    = "guestbook-liked"
	TypeNewComment        = "new-comment"
	TypeNewGuestbookReply = "new-guestbook-reply"
	TypeMediaApproved     = "media-approved"
	TypeGuestbookApproved = "guestbook-approved"
	TypeMediaDeleted      = "media-deleted"
	TypeGuestbookDeleted  = "guestbook-deleted"
)

// Event est l'enveloppe JSON envoyée aux clients WebSocket
type Event struct {
	Type    string      `json:"type"`
	EventID string      `json:"event_id"`
	Data    interface{} `json:"data,omitempty"`
}

// NewMediaEvent est diffusé quand un souvenir devient visible à l'upload
func NewMediaEvent(media *models.Media) *Event {
	return &Event{
		Type:    TypeNewMedia,
		EventID: media.EventID.Hex(),
		Data:    media,
	}
}

// NewGuestbookEntryEvent est diffusé quand un mot du livre d'or devient visible
func NewGuestbookEntryEvent(entry *models.GuestbookEntry) *Event {
	return &Event{
		Type:    TypeNewGuestbookEntry,
		EventID: entry.EventID.Hex(),
		Data:    entry,
	}
}

// MediaLikedEvent est diffusé quand un invité aime un souvenir
func MediaLikedEvent(eventID, mediaID, guestName string, likeCount int) *Event {
	return &Event{
		Type:    TypeMediaLiked,
		EventID: eventID,
		Data: map[string]interface{}{
			"media_id":   mediaID,
			"guest_name": guestName,
			"like_count": likeCount,
		},
	}
}

// GuestbookLikedEvent est diffusé quand un invité aime un mot du livre d'or
func GuestbookLikedEvent(eventID, entryID, guestName string, likeCount int) *Event {
	return &Event{
		Type:    TypeGuestbookLiked,
		EventID: eventID,
		Data: map[string]interface{}{
			"entry_id":   entryID,
			"guest_name": guestName,
			"like_count": likeCount,
		},
	}
}

// NewCommentEvent est diffusé quand un commentaire approuvé est ajouté
func NewCommentEvent(eventID, mediaID string, comment *models.Comment) *Event {
	return &Event{
		Type:    TypeNewComment,
		EventID: eventID,
		Data: map[string]interface{}{
			"media_id": mediaID,
			"comment":  comment,
		},
	}
}

// NewGuestbookReplyEvent est diffusé quand une réponse approuvée est ajoutée
func NewGuestbookReplyEvent(eventID, entryID string, reply *models.Comment) *Event {
	return &Event{
		Type:    TypeNewGuestbookReply,
		EventID: eventID,
		Data: map[string]interface{}{
			"entry_id": entryID,
			"reply":    reply,
		},
	}
}

// MediaApprovedEvent est diffusé quand un souvenir en attente est approuvé
func MediaApprovedEvent(media *models.Media) *Event {
	return &Event{
		Type:    TypeMediaApproved,
		EventID: media.EventID.Hex(),
		Data:    media,
	}
}

// GuestbookApprovedEvent est diffusé quand un mot en attente est approuvé
func GuestbookApprovedEvent(entry *models.GuestbookEntry) *Event {
	return &Event{
		Type:    TypeGuestbookApproved,
		EventID: entry.EventID.Hex(),
		Data:    entry,
	}
}

// MediaDeletedEvent est diffusé quand un souvenir est supprimé
func MediaDeletedEvent(eventID, mediaID string) *Event {
	return &Event{
		Type:    TypeMediaDeleted,
		EventID: eventID,
		Data: map[string]interface{}{
			"media_id": mediaID,
		},
	}
}

// GuestbookDeletedEvent est diffusé quand un mot du livre d'or est supprimé
func GuestbookDeletedEvent(eventID, entryID string) *Event {
	return &Event{
		Type:    TypeGuestbookDeleted,
		EventID: eventID,
		Data: map[string]interface{}{
			"entry_id": entryID,
		},
	}
}
