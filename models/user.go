package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User représente un utilisateur avec compte : marié(e) ou photographe.
// Les invités n'ont pas de compte, ils sont représentés par Author.
type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Firstname string             `json:"firstname" bson:"firstname"`
	Lastname  string             `json:"lastname" bson:"lastname"`
	Email     string             `json:"email" bson:"email"`
	Phone     string             `json:"phone" bson:"phone"`
	Password  string             `json:"-" bson:"password"` // Le "-" empêche la sérialisation du mot de passe
	Role      AuthorRole         `json:"role" bson:"role"`  // "host" ou "photographer"
	Admin     int                `json:"admin" bson:"admin"` // 0 = utilisateur normal, 1 = admin plateforme
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// FullName retourne le nom complet de l'utilisateur
func (u *User) FullName() string {
	return u.Firstname + " " + u.Lastname
}

// RegisterRequest représente la requête d'inscription d'un marié ou photographe
type RegisterRequest struct {
	Firstname string `json:"prenom"`
	Lastname  string `json:"nom"`
	Email     string `json:"email"`
	Phone     string `json:"telephone"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"` // "host" par défaut
}

// LoginRequest représente la requête de connexion
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse représente la réponse d'authentification
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ErrorResponse représente une réponse d'erreur
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse représente une réponse de succès générique
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
