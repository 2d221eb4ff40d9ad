package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GuestbookEntry représente une entrée du livre d'or d'un événement :
// un message texte, un message audio, ou les deux.
type GuestbookEntry struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EventID    primitive.ObjectID `json:"event_id" bson:"event_id"`
	Author     Author             `json:"author" bson:"author"`
	Kind       ContentKind        `json:"kind" bson:"kind"` // "text", "audio" ou "mixed"
	Message    string             `json:"message" bson:"message"`
	AudioURL   string             `json:"audio_url,omitempty" bson:"audio_url,omitempty"`
	AudioPath  string             `json:"audio_path,omitempty" bson:"audio_path,omitempty"`
	Status     ModerationStatus   `json:"status" bson:"status"`
	Visibility VisibilityFlags    `json:"visibility" bson:"visibility"`
	Likes      []Like             `json:"likes" bson:"likes"`
	Replies    []Comment          `json:"replies" bson:"replies"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// LikeCount retourne le nombre de "j'aime"
func (e *GuestbookEntry) LikeCount() int {
	return len(e.Likes)
}

// ResolveKind détermine le type d'entrée selon les champs renseignés
func (e *GuestbookEntry) ResolveKind() ContentKind {
	switch {
	case e.Message != "" && e.AudioURL != "":
		return KindMixed
	case e.AudioURL != "":
		return KindAudio
	default:
		return KindText
	}
}

// CreateGuestbookEntryRequest représente la requête de signature du livre d'or
type CreateGuestbookEntryRequest struct {
	Message    string `json:"message"`
	AudioURL   string `json:"audio_url,omitempty"`
	AudioPath  string `json:"audio_path,omitempty"`
	GuestName  string `json:"guest_name,omitempty"`
	GuestEmail string `json:"guest_email,omitempty"`
}

// GuestbookResponse représente la réponse de liste des entrées du livre d'or
type GuestbookResponse struct {
	EventID      string           `json:"event_id"`
	TotalEntries int              `json:"total_entries"`
	Entries      []GuestbookEntry `json:"entries"`
}
