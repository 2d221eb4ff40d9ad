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

// MediaHandler gère la galerie de souvenirs d'un événement : photos, vidéos
// et messages audio déposés par les invités et les mariés.
type MediaHandler struct {
	mediaRepo *database.MediaRepository
	eventRepo *database.EventRepository
	userRepo  *database.UserRepository
	gate      *services.ModerationGate
	hub       Broadcaster
	push      *services.PushService
	storage   *services.StorageService
}

// NewMediaHandler crée une nouvelle instance
func NewMediaHandler(db *mongo.Database, hub Broadcaster, push *services.PushService, storage *services.StorageService) *MediaHandler {
	return &MediaHandler{
		mediaRepo: database.NewMediaRepository(db),
		eventRepo: database.NewEventRepository(db),
		userRepo:  database.NewUserRepository(db),
		gate:      services.NewModerationGate(),
		hub:       hub,
		push:      push,
		storage:   storage,
	}
}

// loadEvent récupère l'événement ou écrit la réponse d'erreur
func (h *MediaHandler) loadEvent(w http.ResponseWriter, eventID primitive.ObjectID) *models.Event {
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

// loadMedia récupère un média et vérifie son rattachement à l'événement
func (h *MediaHandler) loadMedia(w http.ResponseWriter, eventID primitive.ObjectID, vars map[string]string) *models.Media {
	mediaID, ok := ParseObjectIDVar(w, vars, "media_id", constants.ErrInvalidMediaID)
	if !ok {
		return nil
	}

	media, err := h.mediaRepo.FindByID(mediaID)
	if err != nil {
		log.Printf("Erreur lors de la recherche du média: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return nil
	}
	if media == nil || media.EventID != eventID {
		utils.RespondError(w, http.StatusNotFound, constants.ErrMediaNotFound)
		return nil
	}
	return media
}

// GetMedias retourne la galerie d'un événement.
// Les invités ne voient que les contenus approuvés et non masqués ; le
// propriétaire authentifié voit tout, y compris la file de modération.
func (h *MediaHandler) GetMedias(w http.ResponseWriter, r *http.Request) {
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

	publicOnly := !isEventOwner(r, event)

	medias, err := h.mediaRepo.FindByEvent(eventID, publicOnly)
	if err != nil {
		log.Printf("Erreur lors de la récupération des médias: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if medias == nil {
		medias = []models.Media{}
	}

	totalPhotos := 0
	totalVideos := 0
	for _, media := range medias {
		switch media.Kind {
		case models.KindPhoto:
			totalPhotos++
		case models.KindVideo:
			totalVideos++
		}
	}

	utils.RespondJSON(w, http.StatusOK, models.MediasResponse{
		EventID:     eventID.Hex(),
		TotalMedias: len(medias),
		TotalPhotos: totalPhotos,
		TotalVideos: totalVideos,
		Medias:      medias,
	})
}

// CreateMedia enregistre un média après upload Cloudinary.
// Le statut initial vient de la porte de modération : un contenu approuvé
// est diffusé immédiatement dans la room, un contenu en attente déclenche
// une notification push vers les mariés.
func (h *MediaHandler) CreateMedia(w http.ResponseWriter, r *http.Request) {
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

	var req models.CreateMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if req.Kind != models.KindPhoto && req.Kind != models.KindVideo && req.Kind != models.KindAudio {
		utils.RespondError(w, http.StatusBadRequest, "Type de média invalide. Utilisez 'photo', 'video' ou 'audio'.")
		return
	}

	if req.Kind == models.KindAudio && !event.Policy.EnableAudioMessages {
		utils.RespondError(w, http.StatusForbidden, constants.ErrAudioDisabled)
		return
	}

	if req.URL == "" {
		utils.RespondError(w, http.StatusBadRequest, "URL du média requise")
		return
	}
	if !strings.Contains(req.URL, "cloudinary.com") {
		utils.RespondError(w, http.StatusBadRequest, "URL de média invalide")
		return
	}
	if req.Filename == "" {
		utils.RespondError(w, http.StatusBadRequest, "Nom de fichier requis")
		return
	}

	author, err := ResolveAuthor(r, h.userRepo, req.GuestName, req.GuestEmail)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	status := h.gate.DecideInitialStatus(event.Policy, author)

	media := &models.Media{
		EventID:     eventID,
		Author:      author,
		Kind:        req.Kind,
		URL:         req.URL,
		StoragePath: req.StoragePath,
		Filename:    req.Filename,
		Size:        req.Size,
		Status:      status,
	}

	if err := h.mediaRepo.Create(media); err != nil {
		log.Printf("Erreur lors de la création du média: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Erreur lors de l'ajout du média")
		return
	}

	log.Printf("📸 Média ajouté: %s (%s, statut: %s)", media.Filename, media.Kind, media.Status)

	if status == models.StatusApproved {
		// Visible immédiatement : on prévient la room
		h.hub.Publish(eventID.Hex(), websocket.NewMediaEvent(media))
	} else {
		// En attente : on prévient les mariés qu'il y a de la modération
		go h.notifyPendingUpload(event, author, media.Kind)
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Média ajouté avec succès",
		"media":   media,
	})
}

// LikeMedia ajoute le "j'aime" d'un invité sur un média.
// Dédupliqué par nom : revoter avec le même nom est un no-op silencieux.
func (h *MediaHandler) LikeMedia(w http.ResponseWriter, r *http.Request) {
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

	media := h.loadMedia(w, eventID, mux.Vars(r))
	if media == nil {
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
	added, err := h.mediaRepo.AddLike(media.ID, models.Like{
		GuestName: guestName,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Printf("Erreur lors de l'ajout du j'aime: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	likeCount := media.LikeCount()
	if added {
		likeCount++
		// Relire le document : deux j'aime simultanés diffuseraient sinon
		// le même compteur calculé sur le même instantané
		if fresh, err := h.mediaRepo.FindByID(media.ID); err == nil && fresh != nil {
			likeCount = fresh.LikeCount()
			if fresh.Status == models.StatusApproved && !fresh.Visibility.IsHidden {
				h.hub.Publish(eventID.Hex(), websocket.MediaLikedEvent(eventID.Hex(), media.ID.Hex(), guestName, likeCount))
			}
		}
	}

	utils.RespondSuccess(w, "J'aime enregistré", map[string]interface{}{
		"media_id":   media.ID.Hex(),
		"added":      added,
		"like_count": likeCount,
	})
}

// CommentMedia ajoute un commentaire sur un média.
// L'approbation du commentaire suit la même règle que les soumissions, mais
// ne touche jamais le statut du média parent.
func (h *MediaHandler) CommentMedia(w http.ResponseWriter, r *http.Request) {
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

	media := h.loadMedia(w, eventID, mux.Vars(r))
	if media == nil {
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

	comment := models.Comment{
		ID:         primitive.NewObjectID(),
		Author:     author,
		Text:       strings.TrimSpace(req.Text),
		IsApproved: h.gate.DecideCommentApproval(event.Policy, author),
		CreatedAt:  time.Now(),
	}

	if err := h.mediaRepo.AddComment(media.ID, comment); err != nil {
		log.Printf("Erreur lors de l'ajout du commentaire: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if comment.IsApproved && media.Status == models.StatusApproved && !media.Visibility.IsHidden {
		h.hub.Publish(eventID.Hex(), websocket.NewCommentEvent(eventID.Hex(), media.ID.Hex(), &comment))
	}

	utils.RespondSuccess(w, "Commentaire ajouté", comment)
}

// RecordView incrémente le compteur de vues d'un média
func (h *MediaHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	eventID, ok := ParseEventID(w, r)
	if !ok {
		return
	}
	media := h.loadMedia(w, eventID, mux.Vars(r))
	if media == nil {
		return
	}

	if err := h.mediaRepo.IncrementViews(media.ID); err != nil {
		log.Printf("Erreur lors de l'incrément des vues: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondSuccess(w, "Vue enregistrée", nil)
}

// RecordDownload incrémente le compteur de téléchargements d'un média
func (h *MediaHandler) RecordDownload(w http.ResponseWriter, r *http.Request) {
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

	if !event.Policy.AllowDownloads {
		utils.RespondError(w, http.StatusForbidden, constants.ErrDownloadsDisabled)
		return
	}

	media := h.loadMedia(w, eventID, mux.Vars(r))
	if media == nil {
		return
	}

	if err := h.mediaRepo.IncrementDownloads(media.ID); err != nil {
		log.Printf("Erreur lors de l'incrément des téléchargements: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondSuccess(w, "Téléchargement enregistré", nil)
}

// DeleteMedia supprime un média (propriétaire de l'événement uniquement).
// Le fichier Cloudinary est supprimé en best-effort avant l'enregistrement.
func (h *MediaHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
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

	media := h.loadMedia(w, eventID, mux.Vars(r))
	if media == nil {
		return
	}

	if err := h.storage.DeleteAsset(media.StoragePath, media.Kind); err != nil {
		log.Printf("⚠️  Fichier Cloudinary non supprimé: %v", err)
	}

	if err := h.mediaRepo.Delete(media.ID); err != nil {
		log.Printf("Erreur lors de la suppression du média: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Erreur lors de la suppression")
		return
	}

	log.Printf("🗑️  Média supprimé: %s", media.Filename)

	// Les clients retirent le média de leur galerie, quel que soit son statut
	h.hub.Publish(eventID.Hex(), websocket.MediaDeletedEvent(eventID.Hex(), media.ID.Hex()))

	utils.RespondSuccess(w, "Média supprimé avec succès", map[string]string{
		"media_id": media.ID.Hex(),
	})
}

// notifyPendingUpload prévient le marié qu'un contenu attend sa modération
func (h *MediaHandler) notifyPendingUpload(event *models.Event, author models.Author, kind models.ContentKind) {
	host, err := h.userRepo.FindByID(event.HostID)
	if err != nil || host == nil {
		log.Printf("❌ Marié introuvable pour la notification: %v", err)
		return
	}
	h.push.NotifyPendingUpload(host.Email, event, author, kind)
}
