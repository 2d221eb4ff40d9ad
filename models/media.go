package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Media représente un média (photo, vidéo ou message audio) uploadé pour un événement.
// Le backend ne manipule jamais les octets : URL et StoragePath référencent
// le fichier stocké côté Cloudinary.
type Media struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EventID     primitive.ObjectID `json:"event_id" bson:"event_id"`
	Author      Author             `json:"author" bson:"author"`
	Kind        ContentKind        `json:"kind" bson:"kind"` // "photo", "video" ou "audio"
	URL         string             `json:"url" bson:"url"`
	StoragePath string             `json:"storage_path" bson:"storage_path"`
	Filename    string             `json:"filename" bson:"filename"`
	Size        int64              `json:"size" bson:"size"`
	Status      ModerationStatus   `json:"status" bson:"status"`
	Visibility  VisibilityFlags    `json:"visibility" bson:"visibility"`
	Likes       []Like             `json:"likes" bson:"likes"`
	Comments    []Comment          `json:"comments" bson:"comments"`
	Views       int64              `json:"views" bson:"views"`
	Downloads   int64              `json:"downloads" bson:"downloads"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// LikeCount retourne le nombre de "j'aime"
func (m *Media) LikeCount() int {
	return len(m.Likes)
}

// CreateMediaRequest représente la requête d'ajout d'un média après upload
type CreateMediaRequest struct {
	Kind        ContentKind `json:"kind"`
	URL         string      `json:"url"`
	StoragePath string      `json:"storage_path"`
	Filename    string      `json:"filename"`
	Size        int64       `json:"size"`
	GuestName   string      `json:"guest_name,omitempty"`
	GuestEmail  string      `json:"guest_email,omitempty"`
}

// LikeRequest représente la requête de "j'aime" d'un invité
type LikeRequest struct {
	GuestName string `json:"guest_name"`
}

// CommentRequest représente la requête d'ajout d'un commentaire ou d'une réponse
type CommentRequest struct {
	Text       string `json:"text"`
	GuestName  string `json:"guest_name,omitempty"`
	GuestEmail string `json:"guest_email,omitempty"`
}

// MediasResponse représente la réponse de liste des médias d'un événement
type MediasResponse struct {
	EventID     string  `json:"event_id"`
	TotalMedias int     `json:"total_medias"`
	TotalPhotos int     `json:"total_photos"`
	TotalVideos int     `json:"total_videos"`
	Medias      []Media `json:"medias"`
}
