package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"jour-j-backend/constants"
	"jour-j-backend/database"
	"jour-j-backend/models"
	"jour-j-backend/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// FCMHandler gère l'enregistrement des tokens Firebase Cloud Messaging
type FCMHandler struct {
	tokenRepo *database.FCMTokenRepository
}

// NewFCMHandler crée une nouvelle instance de FCMHandler
func NewFCMHandler(db *mongo.Database) *FCMHandler {
	return &FCMHandler{
		tokenRepo: database.NewFCMTokenRepository(db),
	}
}

// Subscribe enregistre un token FCM pour un utilisateur
func (h *FCMHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.FCMSubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if req.UserID == "" || req.FCMToken == "" {
		utils.RespondError(w, http.StatusBadRequest, "user_id et fcm_token sont requis")
		return
	}

	token := &models.FCMToken{
		UserID: req.UserID,
		Token:  req.FCMToken,
		Device: req.Device,
	}

	if err := h.tokenRepo.Upsert(token); err != nil {
		log.Printf("Erreur lors de l'enregistrement du token FCM: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Println("✓ Token FCM enregistré")
	utils.RespondSuccess(w, "Abonnement FCM réussi", token)
}

// Unsubscribe supprime un token FCM
func (h *FCMHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		FCMToken string `json:"fcm_token"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if req.FCMToken == "" {
		utils.RespondError(w, http.StatusBadRequest, "fcm_token est requis")
		return
	}

	if err := h.tokenRepo.DeleteByToken(req.FCMToken); err != nil {
		log.Printf("Erreur lors de la suppression du token: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Println("✓ Token FCM supprimé")
	utils.RespondSuccess(w, "Désabonnement réussi", nil)
}
