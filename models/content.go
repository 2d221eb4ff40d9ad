package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ModerationStatus représente le statut de modération d'un contenu
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
)

// IsValid vérifie que le statut fait partie des valeurs connues
func (s ModerationStatus) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// ContentKind représente le type de contenu d'un item
type ContentKind string

const (
	KindPhoto ContentKind = "photo"
	KindVideo ContentKind = "video"
	KindAudio ContentKind = "audio"
	KindText  ContentKind = "text"
	KindMixed ContentKind = "mixed" // texte + audio dans le livre d'or
)

// Like représente un "j'aime" laissé par un invité.
// Dédupliqué par nom d'invité : un même nom ne compte qu'une fois.
type Like struct {
	GuestName string    `json:"guest_name" bson:"guest_name"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Comment représente un commentaire ou une réponse sur un contenu.
// IsApproved est décidé au moment de l'ajout, indépendamment du statut du parent.
type Comment struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	Author     Author             `json:"author" bson:"author"`
	Text       string             `json:"text" bson:"text"`
	IsApproved bool               `json:"is_approved" bson:"is_approved"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// VisibilityFlags regroupe les drapeaux de curation, indépendants du statut
// de modération. IsHidden masque un contenu même approuvé.
type VisibilityFlags struct {
	IsHidden   bool `json:"is_hidden" bson:"is_hidden"`
	IsFeatured bool `json:"is_featured" bson:"is_featured"`
	IsPinned   bool `json:"is_pinned" bson:"is_pinned"`
}
