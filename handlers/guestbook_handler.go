package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"jour-j-backend/constants"
	"jour-j-backend/database"
	"jour-j-backend/models"
	"jour-j-backend/services"
	"jour-j-backend/utils"
	"jour-j-backend/websocket"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GuestbookHandler gère le livre d'or d'un événement : messages écrits
// et messages audio laissés par les invités.
type GuestbookHandler struct {
	guestbookRepo *database.GuestbookRepository
	eventRepo     *database.EventRepository
	userRepo      *database.UserRepository
	gate          *services.ModerationGate
	hub           Broadcaster
	push          *services.PushService
	storage       *services.StorageService
}

// NewGuestbookHandler crée une nouvelle instance
func NewGuestbookHandler(db *mongo.Database, hub Broadcaster, push *services.PushService, storage *services.StorageService) *GuestbookHandler {
	return &GuestbookHandler{
		guestbookRepo: database.NewGuestbookRepository(db),
		eventRepo:     database.NewEventRepository(db),
		userRepo:      database.NewUserRepository(db),
		gate:          services.NewModerationGate(),
		hub:           hub,
		push:          push,
		storage:       storage,
	}
}

func (h *GuestbookHandler) loadEvent(w http.ResponseWriter, eventID primitive.ObjectID) *models.Event {
	event, err := h.eventRepo.FindByID(eventID)
	if err != nil {
		log.Printf("Erreur lors de la récupération de l'événement: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return nil
	}
	if event == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrEventNotFound)
		return nil
	}
	return event
}

func (h *GuestbookHandler) loadEntry(w http.ResponseWriter, eventID primitive.ObjectID, vars map[string]string) *models.GuestbookEntry {
	entryID, ok := ParseObjectIDVar(w, vars, "entry_id", constants.ErrInvalidEntryID)
	if !ok {
		return nil
	}

	entry, err := h.guestbookRepo.FindByID(entryID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de l'entrée: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return nil
	}
	if entry == nil || entry.EventID != eventID {
		utils.RespondError(w, http.StatusNotFound, constants.ErrEntryNotFound)
		return nil
	}
	return entry
}

// GetEntries retourne le livre d'or d'un événement.
// Même règle de visibilité que la galerie : les invités ne voient que
// l'approuvé non masqué, le propriétaire voit tout.
func (h *GuestbookHandler) GetEntries(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	eventID, ok := ParseEventID(w, r)
	if !ok {
		return
	}
	event := h.loadEvent(w, eventID)
	if event == nil {
		return
	}

	if !event.Policy.EnableGuestbook {
		utils.RespondError(w, http.StatusForbidden, constants.ErrGuestbookDisabled)
		return
	}

	publicOnly := !isEventOwner(r, event)

	entries, err := h.guestbookRepo.FindByEvent(eventID, publicOnly)
	if err != nil {
		log.Printf("Erreur lors de la récupération du livre d'or: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if entries == nil {
		entries = []models.GuestbookEntry{}
	}

	utils.RespondJSON(w, http.StatusOK, models.GuestbookResponse{
		EventID:      eventID.Hex(),
		TotalEntries: len(entries),
		Entries:      entries,
	})
}

// CreateEntry signe le livre d'or : message écrit, audio, ou les deux
func (h *GuestbookHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	eventID, ok := ParseEventID(w, r)
	if !ok {
		return
	}
	event := h.loadEvent(w, eventID)
	if event == nil {
		return
	}

	if !event.Policy.EnableGuestbook {
		utils.RespondError(w, http.StatusForbidden, constants.ErrGuestbookDisabled)
		return
	}

	var req models.CreateGuestbookEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" && req.AudioURL == "" {
		utils.RespondError(w, http.StatusBadRequest, "Un message ou un audio est requis")
		return
	}
	if message != "" {
		if err := utils.ValidateMessage("message", message); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.AudioURL != "" && !event.Policy.EnableAudioMessages {
		utils.RespondError(w, http.StatusForbidden, constants.ErrAudioDisabled)
		return
	}

	author, err := ResolveAuthor(r, h.userRepo, req.GuestName, req.GuestEmail)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry := &models.GuestbookEntry{
		EventID:   eventID,
		Author:    author,
		Message:   message,
		AudioURL:  req.AudioURL,
		AudioPath: req.AudioPath,
		Status:    h.gate.DecideInitialStatus(event.Policy, author),
	}
	entry.Kind = entry.ResolveKind()

	if err := h.guestbookRepo.Create(entry); err != nil {
		log.Printf("Erreur lors de la signature du livre d'or: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("📖 Livre d'or signé par %s (%s, statut: %s)", author.DisplayName(), entry.Kind, entry.Status)

	if entry.Status == models.StatusApproved {
		h.hub.Publish(eventID.Hex(), websocket.NewGuestbookEntryEvent(entry))
	} else {
		go h.notifyPendingEntry(event, author, entry.Kind)
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Livre d'or signé avec succès",
		"entry":   entry,
	})
}

// LikeEntry ajoute le "j'aime" d'un invité sur une entrée du livre d'or
func (h *GuestbookHandler) LikeEntry(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	eventID, ok := ParseEventID(w, r)
	if !ok {
		return
	}
	event := h.loadEvent(w, eventID)
	if event == nil {
		return
	}

	if !event.Policy.AllowLikes {
		utils.RespondError(w, http.StatusForbidden, constants.ErrLikesDisabled)
		return
	}

	entry := h.loadEntry(w, eventID, mux.Vars(r))
	if entry == nil {
		return
	}

	var req models.LikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}
	if err := utils.ValidateGuestName(req.GuestName); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	guestName := strings.TrimSpace(req.GuestName)
	added, err := h.guestbookRepo.AddLike(entry.ID, models.Like{
		GuestName: guestName,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Printf("Erreur lors de l'ajout du j'aime: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	likeCount := entry.LikeCount()
	if added {
		likeCount++
		// Relire le document : deux j'aime simultanés diffuseraient sinon
		// le même compteur calculé sur le même instantané
		if fresh, err := h.guestbookRepo.FindByID(entry.ID); err == nil && fresh != nil {
			likeCount = fresh.LikeCount()
			if fresh.Status == models.StatusApproved && !fresh.Visibility.IsHidden {
				h.hub.Publish(eventID.Hex(), websocket.GuestbookLikedEvent(eventID.Hex(), entry.ID.Hex(), guestName, likeCount))
			}
		}
	}

	utils.RespondSuccess(w, "J'aime enregistré", map[string]interface{}{
		"entry_id":   entry.ID.Hex(),
		"added":      added,
		"like_count": likeCount,
	})
}

// ReplyEntry ajoute une réponse sous une entrée du livre d'or
func (h *GuestbookHandler) ReplyEntry(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	eventID, ok := ParseEventID(w, r)
	if !ok {
		return
	}
	event := h.loadEvent(w, eventID)
	if event == nil {
		return
	}

	if !event.Policy.AllowComments {
		utils.RespondError(w, http.StatusForbidden, constants.ErrCommentsDisabled)
		return
	}

	entry := h.loadEntry(w, eventID, mux.Vars(r))
	if entry == nil {
		return
	}

	var req models.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}
	if err := utils.ValidateMessage("text", req.Text); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	author, err := ResolveAuthor(r, h.userRepo, req.GuestName, req.GuestEmail)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply := models.Comment{
		ID:         primitive.NewObjectID(),
		Author:     author,
		Text:       strings.TrimSpace(req.Text),
		IsApproved: h.gate.DecideCommentApproval(event.Policy, author),
		CreatedAt:  time.Now(),
	}

	if err := h.guestbookRepo.AddReply(entry.ID, reply); err != nil {
		log.Printf("Erreur lors de l'ajout de la réponse: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if reply.IsApproved && entry.Status == models.StatusApproved && !entry.Visibility.IsHidden {
		h.hub.Publish(eventID.Hex(), websocket.NewGuestbookReplyEvent(eventID.Hex(), entry.ID.Hex(), &reply))
	}

	utils.RespondSuccess(w, "Réponse ajoutée", reply)
}

// DeleteEntry supprime une entrée du livre d'or (propriétaire uniquement)
func (h *GuestbookHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	eventID, ok := ParseEventID(w, r)
	if !ok {
		return
	}
	event := h.loadEvent(w, eventID)
	if event == nil {
		return
	}

	if !canModerate(w, r, event) {
		return
	}

	entry := h.loadEntry(w, eventID, mux.Vars(r))
	if entry == nil {
		return
	}

	if entry.AudioPath != "" {
		if err := h.storage.DeleteAsset(entry.AudioPath, models.KindAudio); err != nil {
			log.Printf("⚠️  Audio Cloudinary non supprimé: %v", err)
		}
	}

	if err := h.guestbookRepo.Delete(entry.ID); err != nil {
		log.Printf("Erreur lors de la suppression de l'entrée: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("🗑️  Entrée du livre d'or supprimée: %s", entry.ID.Hex())

	h.hub.Publish(eventID.Hex(), websocket.GuestbookDeletedEvent(eventID.Hex(), entry.ID.Hex()))

	utils.RespondSuccess(w, "Entrée supprimée avec succès", map[string]string{
		"entry_id": entry.ID.Hex(),
	})
}

func (h *GuestbookHandler) notifyPendingEntry(event *models.Event, author models.Author, kind models.ContentKind) {
	host, err := h.userRepo.FindByID(event.HostID)
	if err != nil || host == nil {
		log.Printf("❌ Marié introuvable pour la notification: %v", err)
		return
	}
	h.push.NotifyPendingUpload(host.Email, event, author, kind)
}
