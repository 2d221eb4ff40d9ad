package handlers

import (
	"crypto/rand"
	"encoding/json"
	"log"
	"math/big"
	"net/http"
	"strings"
	"time"

	"jour-j-backend/constants"
	"jour-j-backend/database"
	"jour-j-backend/middleware"
	"jour-j-backend/models"
	"jour-j-backend/services"
	"jour-j-backend/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Alphabet des codes de partage : pas de O/0 ni I/1, les invités les
// recopient à la main depuis un faire-part
const shareCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// EventHandler gère les événements (mariages)
type EventHandler struct {
	eventRepo     *database.EventRepository
	mediaRepo     *database.MediaRepository
	guestbookRepo *database.GuestbookRepository
	storage       *services.StorageService
}

// NewEventHandler crée une nouvelle instance de EventHandler
func NewEventHandler(db *mongo.Database, storage *services.StorageService) *EventHandler {
	return &EventHandler{
		eventRepo:     database.NewEventRepository(db),
		mediaRepo:     database.NewMediaRepository(db),
		guestbookRepo: database.NewGuestbookRepository(db),
		storage:       storage,
	}
}

// generateShareCode génère un code de partage aléatoire de 6 caractères
func generateShareCode() (string, error) {
	code := make([]byte, 6)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(shareCodeAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = shareCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// CreateEvent crée un nouvel événement pour le marié authentifié
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrNotAuthenticated)
		return
	}

	hostID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrInvalidToken)
		return
	}

	var req models.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if err := utils.ValidateRequired("titre", req.Titre); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		code, err = generateShareCode()
		if err != nil {
			log.Printf("Erreur lors de la génération du code: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
			return
		}
	} else if err := utils.ValidateShareCode(code); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	policy := models.DefaultEventPolicy()
	if req.Policy != nil {
		policy = *req.Policy
	}

	event := &models.Event{
		HostID:      hostID,
		Titre:       req.Titre,
		Date:        req.Date,
		Lieu:        req.Lieu,
		Description: req.Description,
		Code:        code,
		Policy:      policy,
	}

	if err := h.eventRepo.Create(event); err != nil {
		log.Printf("Erreur lors de la création de l'événement: %v", err)
		if strings.Contains(err.Error(), "déjà utilisé") {
			utils.RespondError(w, http.StatusConflict, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "Erreur lors de la création de l'événement")
		return
	}

	log.Printf("✓ Événement créé: %s (code: %s)", event.Titre, event.Code)

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":   true,
		"evenement": event,
	})
}

// GetEvent retourne les détails d'un événement (PUBLIC)
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	eventID, ok := ParseEventID(w, r)
	if !ok {
		return
	}

	event, err := h.eventRepo.FindByID(eventID)
	if err != nil {
		log.Printf("Erreur lors de la récupération de l'événement: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if event == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrEventNotFound)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"evenement": event,
	})
}

// GetEventByCode retourne un événement par son code de partage (PUBLIC).
// C'est la porte d'entrée des invités : le QR du faire-part contient ce code.
func (h *EventHandler) GetEventByCode(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	vars := mux.Vars(r)
	code := strings.ToUpper(strings.TrimSpace(vars["code"]))
	if err := utils.ValidateShareCode(code); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.eventRepo.FindByCode(code)
	if err != nil {
		log.Printf("Erreur lors de la recherche par code: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if event == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrEventNotFound)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"evenement": event,
	})
}

// GetMyEvents retourne les événements du marié ou photographe authentifié
func (h *EventHandler) GetMyEvents(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrNotAuthenticated)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrInvalidToken)
		return
	}

	events, err := h.eventRepo.FindByHost(userID)
	if err != nil {
		log.Printf("Erreur lors de la récupération des événements: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if events == nil {
		events = []models.Event{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"evenements": events,
	})
}

// UpdateEvent modifie un événement (propriétaire uniquement).
// La politique de modération peut être changée à tout moment : le nouveau
// réglage ne s'applique qu'aux soumissions futures, jamais rétroactivement.
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	eventID, ok := ParseEventID(w, r)
	if !ok {
		return
	}

	event, err := h.eventRepo.FindByID(eventID)
	if err != nil || event == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrEventNotFound)
		return
	}

	if !canModerate(w, r, event) {
		return
	}

	var req models.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	update := bson.M{}
	if req.Titre != "" {
		update["titre"] = req.Titre
	}
	if req.Date != nil {
		update["date"] = *req.Date
	}
	if req.Lieu != "" {
		update["lieu"] = req.Lieu
	}
	if req.Description != "" {
		update["description"] = req.Description
	}
	if req.Policy != nil {
		update["policy"] = *req.Policy
	}

	if len(update) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "Aucun champ à modifier")
		return
	}
	update["updated_at"] = time.Now()

	if err := h.eventRepo.Update(eventID, update); err != nil {
		log.Printf("Erreur lors de la modification de l'événement: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	updated, err := h.eventRepo.FindByID(eventID)
	if err != nil || updated == nil {
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondSuccess(w, "Événement modifié avec succès", updated)
}

// DeleteEvent supprime un événement et tout son contenu (propriétaire uniquement)
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	eventID, ok := ParseEventID(w, r)
	if !ok {
		return
	}

	event, err := h.eventRepo.FindByID(eventID)
	if err != nil || event == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrEventNotFound)
		return
	}

	if !canModerate(w, r, event) {
		return
	}

	// Charger les chemins de fichiers avant de vider la base, puis nettoyer
	// Cloudinary en best-effort : un fichier orphelin sur le CDN vaut mieux
	// qu'un enregistrement orphelin en base
	medias, _ := h.mediaRepo.FindByEvent(eventID, false)
	entries, _ := h.guestbookRepo.FindByEvent(eventID, false)
	go h.cleanupEventAssets(medias, entries)

	if err := h.mediaRepo.DeleteByEvent(eventID); err != nil {
		log.Printf("Erreur lors de la suppression des médias: %v", err)
	}
	if err := h.guestbookRepo.DeleteByEvent(eventID); err != nil {
		log.Printf("Erreur lors de la suppression du livre d'or: %v", err)
	}

	if err := h.eventRepo.Delete(eventID); err != nil {
		log.Printf("Erreur lors de la suppression de l'événement: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("🗑️  Événement supprimé: %s", event.Titre)

	utils.RespondSuccess(w, "Événement supprimé avec succès", map[string]string{
		"event_id": eventID.Hex(),
	})
}

// cleanupEventAssets supprime les fichiers Cloudinary de tout l'événement
func (h *EventHandler) cleanupEventAssets(medias []models.Media, entries []models.GuestbookEntry) {
	for _, media := range medias {
		if err := h.storage.DeleteAsset(media.StoragePath, media.Kind); err != nil {
			log.Printf("⚠️  Fichier non supprimé (%s): %v", media.StoragePath, err)
		}
	}

	for _, entry := range entries {
		if entry.AudioPath != "" {
			if err := h.storage.DeleteAsset(entry.AudioPath, models.KindAudio); err != nil {
				log.Printf("⚠️  Audio non supprimé (%s): %v", entry.AudioPath, err)
			}
		}
	}
}
