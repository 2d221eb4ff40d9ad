package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthorRole identifie le type d'auteur d'un contenu
type AuthorRole string

const (
	RoleGuest        AuthorRole = "guest"        // Invité sans compte (nom libre)
	RoleHost         AuthorRole = "host"         // Marié(e) authentifié(e)
	RolePhotographer AuthorRole = "photographer" // Photographe authentifié
	RoleAdmin        AuthorRole = "admin"        // Administrateur plateforme
)

// Author représente l'auteur d'un média, d'une entrée de livre d'or ou d'un commentaire.
// Un seul des deux groupes de champs est renseigné selon le rôle :
// UserID pour les auteurs authentifiés, GuestName/GuestEmail pour les invités.
// L'identité des invités est auto-déclarée, sans aucune garantie.
type Author struct {
	Role       AuthorRole         `json:"role" bson:"role"`
	UserID     primitive.ObjectID `json:"user_id,omitempty" bson:"user_id,omitempty"`
	UserName   string             `json:"user_name,omitempty" bson:"user_name,omitempty"`
	GuestName  string             `json:"guest_name,omitempty" bson:"guest_name,omitempty"`
	GuestEmail string             `json:"guest_email,omitempty" bson:"guest_email,omitempty"`
}

// GuestAuthor construit un auteur invité (identité auto-déclarée)
func GuestAuthor(name, email string) Author {
	return Author{
		Role:       RoleGuest,
		GuestName:  strings.TrimSpace(name),
		GuestEmail: strings.TrimSpace(email),
	}
}

// HostAuthor construit un auteur marié authentifié
func HostAuthor(userID primitive.ObjectID, userName string) Author {
	return Author{
		Role:     RoleHost,
		UserID:   userID,
		UserName: userName,
	}
}

// PhotographerAuthor construit un auteur photographe authentifié
func PhotographerAuthor(userID primitive.ObjectID, userName string) Author {
	return Author{
		Role:     RolePhotographer,
		UserID:   userID,
		UserName: userName,
	}
}

// IsAuthenticated indique si l'auteur est un utilisateur avec compte
// (les contenus de ces auteurs ne passent jamais par la modération)
func (a Author) IsAuthenticated() bool {
	return a.Role == RoleHost || a.Role == RolePhotographer || a.Role == RoleAdmin
}

// DisplayName retourne le nom à afficher pour cet auteur
func (a Author) DisplayName() string {
	if a.IsAuthenticated() {
		return a.UserName
	}
	return a.GuestName
}
