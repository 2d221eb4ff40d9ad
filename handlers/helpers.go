package handlers

import (
	"net/http"

	"jour-j-backend/constants"
	"jour-j-backend/database"
	"jour-j-backend/middleware"
	"jour-j-backend/models"
	"jour-j-backend/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Broadcaster pousse un événement temps réel vers la room d'un événement.
// Satisfait par *websocket.Hub.
type Broadcaster interface {
	Publish(eventID string, payload interface{})
}

// RequireMethod vérifie que la méthode HTTP est correcte. Retourne false et écrit l'erreur si non.
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return false
	}
	return true
}

// ParseEventID extrait et valide event_id depuis les vars de l'URL.
func ParseEventID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	vars := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(vars["event_id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidEventID)
		return primitive.NilObjectID, false
	}
	return id, true
}

// ParseObjectIDVar extrait et valide un ObjectID depuis les vars (clé configurable, msg d'erreur configurable).
func ParseObjectIDVar(w http.ResponseWriter, vars map[string]string, key, errMsg string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(vars[key])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, errMsg)
		return primitive.NilObjectID, false
	}
	return id, true
}

// ResolveAuthor détermine l'auteur d'une soumission.
// Avec un token valide dans le contexte, l'auteur est l'utilisateur
// authentifié (son nom vient de la base, pas de la requête). Sans token,
// c'est un invité au nom auto-déclaré, validé mais jamais vérifié.
func ResolveAuthor(r *http.Request, userRepo *database.UserRepository, guestName, guestEmail string) (models.Author, error) {
	claims := middleware.GetUserFromContext(r.Context())

	if claims != nil {
		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return models.Author{}, utils.ValidationError{Field: "token", Message: constants.ErrInvalidToken}
		}
		user, err := userRepo.FindByID(userID)
		if err != nil || user == nil {
			return models.Author{}, utils.ValidationError{Field: "token", Message: constants.ErrUserNotFound}
		}

		switch user.Role {
		case models.RolePhotographer:
			return models.PhotographerAuthor(user.ID, user.FullName()), nil
		default:
			return models.HostAuthor(user.ID, user.FullName()), nil
		}
	}

	if err := utils.ValidateGuestName(guestName); err != nil {
		return models.Author{}, err
	}
	return models.GuestAuthor(guestName, guestEmail), nil
}

// canModerate vérifie que l'utilisateur du contexte est propriétaire de
// l'événement (marié ou photographe). Écrit la réponse d'erreur si non.
func canModerate(w http.ResponseWriter, r *http.Request, event *models.Event) bool {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrNotAuthenticated)
		return false
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrInvalidToken)
		return false
	}

	if !event.IsOwnedBy(userID) {
		utils.RespondError(w, http.StatusForbidden, constants.ErrNotEventOwner)
		return false
	}
	return true
}

// isEventOwner indique si le contexte porte un utilisateur propriétaire de
// l'événement, sans écrire de réponse. Utilisé pour choisir entre la vue
// publique et la vue complète de la galerie.
func isEventOwner(r *http.Request, event *models.Event) bool {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		return false
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return false
	}
	return event.IsOwnedBy(userID)
}
