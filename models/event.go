package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventPolicy regroupe les réglages de l'événement qui gouvernent
// la modération et les interactions des invités
type EventPolicy struct {
	ModerateUploads     bool `json:"moderate_uploads" bson:"moderate_uploads"`
	EnableGuestbook     bool `json:"enable_guestbook" bson:"enable_guestbook"`
	EnableAudioMessages bool `json:"enable_audio_messages" bson:"enable_audio_messages"`
	AllowComments       bool `json:"allow_comments" bson:"allow_comments"`
	AllowLikes          bool `json:"allow_likes" bson:"allow_likes"`
	AllowDownloads      bool `json:"allow_downloads" bson:"allow_downloads"`
}

// DefaultEventPolicy retourne la politique appliquée aux nouveaux événements :
// tout est ouvert, sans modération préalable
func DefaultEventPolicy() EventPolicy {
	return EventPolicy{
		ModerateUploads:     false,
		EnableGuestbook:     true,
		EnableAudioMessages: true,
		AllowComments:       true,
		AllowLikes:          true,
		AllowDownloads:      true,
	}
}

// EventStats contient les compteurs agrégés d'un événement.
// Recalculés à la demande et par le cron : ils peuvent être légèrement en retard
// sur le contenu réellement approuvé.
type EventStats struct {
	TotalPhotos           int       `json:"total_photos" bson:"total_photos"`
	TotalVideos           int       `json:"total_videos" bson:"total_videos"`
	TotalGuestbookEntries int       `json:"total_guestbook_entries" bson:"total_guestbook_entries"`
	TotalLikes            int       `json:"total_likes" bson:"total_likes"`
	TotalComments         int       `json:"total_comments" bson:"total_comments"`
	ComputedAt            time.Time `json:"computed_at" bson:"computed_at"`
}

// Event représente un mariage dans le système. C'est l'unité de cloisonnement :
// tous les contenus et toutes les rooms temps réel sont rattachés à un événement.
type Event struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	HostID        primitive.ObjectID   `json:"host_id" bson:"host_id"`
	Photographers []primitive.ObjectID `json:"photographers,omitempty" bson:"photographers,omitempty"`
	Titre         string               `json:"titre" bson:"titre"`
	Date          time.Time            `json:"date" bson:"date"`
	Lieu          string               `json:"lieu" bson:"lieu"`
	Description   string               `json:"description" bson:"description"`
	Code          string               `json:"code" bson:"code"` // Code de partage pour les invités (imprimé en QR côté front)
	Policy        EventPolicy          `json:"policy" bson:"policy"`
	Stats         EventStats           `json:"stats" bson:"stats"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at" bson:"updated_at"`
}

// IsOwnedBy vérifie si l'utilisateur est le marié ou un photographe de l'événement
func (e *Event) IsOwnedBy(userID primitive.ObjectID) bool {
	if e.HostID == userID {
		return true
	}
	for _, p := range e.Photographers {
		if p == userID {
			return true
		}
	}
	return false
}

// CreateEventRequest représente la requête de création d'événement
type CreateEventRequest struct {
	Titre       string       `json:"titre"`
	Date        time.Time    `json:"date"`
	Lieu        string       `json:"lieu"`
	Description string       `json:"description"`
	Code        string       `json:"code,omitempty"`
	Policy      *EventPolicy `json:"policy,omitempty"`
}

// UpdateEventRequest représente la requête de modification d'événement
type UpdateEventRequest struct {
	Titre       string       `json:"titre,omitempty"`
	Date        *time.Time   `json:"date,omitempty"`
	Lieu        string       `json:"lieu,omitempty"`
	Description string       `json:"description,omitempty"`
	Policy      *EventPolicy `json:"policy,omitempty"`
}
