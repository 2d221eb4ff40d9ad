package handlers

import (
	"encoding/json"
	"log"
	"net/http"

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

// ModerationHandler gère la file de modération d'un événement.
// Toutes les routes exigent un propriétaire authentifié (marié ou
// photographe), vérifié contre l'événement de l'URL.
type ModerationHandler struct {
	mediaRepo     *database.MediaRepository
	guestbookRepo *database.GuestbookRepository
	eventRepo     *database.EventRepository
	gate          *services.ModerationGate
	hub           Broadcaster
}

// NewModerationHandler crée une nouvelle instance
func NewModerationHandler(db *mongo.Database, hub Broadcaster) *ModerationHandler {
	return &ModerationHandler{
		mediaRepo:     database.NewMediaRepository(db),
		guestbookRepo: database.NewGuestbookRepository(db),
		eventRepo:     database.NewEventRepository(db),
		gate:          services.NewModerationGate(),
		hub:           hub,
	}
}

// loadOwnedEvent charge l'événement et vérifie que l'appelant le modère
func (h *ModerationHandler) loadOwnedEvent(w http.ResponseWriter, r *http.Request) *models.Event {
	eventID, ok := ParseEventID(w, r)
	if !ok {
		return nil
	}

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

	if !canModerate(w, r, event) {
		return nil
	}
	return event
}

// ListPending retourne tous les contenus en attente de modération
func (h *ModerationHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	event := h.loadOwnedEvent(w, r)
	if event == nil {
		return
	}

	medias, err := h.mediaRepo.FindByEventAndStatus(event.ID, models.StatusPending)
	if err != nil {
		log.Printf("Erreur lors de la récupération des médias en attente: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	entries, err := h.guestbookRepo.FindByEventAndStatus(event.ID, models.StatusPending)
	if err != nil {
		log.Printf("Erreur lors de la récupération du livre d'or en attente: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if medias == nil {
		medias = []models.Media{}
	}
	if entries == nil {
		entries = []models.GuestbookEntry{}
	}

	utils.RespondJSON(w, http.StatusOK, models.PendingContentResponse{
		EventID:          event.ID.Hex(),
		TotalPending:     len(medias) + len(entries),
		Medias:           medias,
		GuestbookEntries: entries,
	})
}

// ModerateMedia approuve ou rejette un média.
// Le broadcast media-approved ne part que si le statut a réellement changé :
// le signal vient du filtre MongoDB, pas d'une relecture, donc deux
// modérateurs qui approuvent en même temps ne produisent qu'une diffusion.
func (h *ModerationHandler) ModerateMedia(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	event := h.loadOwnedEvent(w, r)
	if event == nil {
		return
	}

	mediaID, ok := ParseObjectIDVar(w, mux.Vars(r), "media_id", constants.ErrInvalidMediaID)
	if !ok {
		return
	}

	media, err := h.mediaRepo.FindByID(mediaID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if media == nil || media.EventID != event.ID {
		utils.RespondError(w, http.StatusNotFound, constants.ErrMediaNotFound)
		return
	}

	action, ok := h.parseAction(w, r)
	if !ok {
		return
	}

	// becameVisible prédit sur le statut chargé est ignoré : sous
	// concurrence, seul le filtre MongoDB (ModifiedCount) fait foi
	target, _, err := h.gate.ApplyAction(media.Status, action)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	changed, err := h.mediaRepo.SetStatus(mediaID, target)
	if err != nil {
		log.Printf("Erreur lors de la modération du média: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if changed && target == models.StatusApproved {
		if fresh, err := h.mediaRepo.FindByID(mediaID); err == nil && fresh != nil {
			h.hub.Publish(event.ID.Hex(), websocket.MediaApprovedEvent(fresh))
		}
	}

	log.Printf("⚖️  Média %s: %s (changé: %v)", mediaID.Hex(), target, changed)

	utils.RespondSuccess(w, "Modération appliquée", map[string]interface{}{
		"media_id": mediaID.Hex(),
		"status":   target,
		"changed":  changed,
	})
}

// ModerateMediasBulk applique une action à plusieurs médias d'un coup.
// Les IDs qui n'appartiennent pas à l'événement sont ignorés sans faire
// échouer le reste du lot.
func (h *ModerationHandler) ModerateMediasBulk(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	event := h.loadOwnedEvent(w, r)
	if event == nil {
		return
	}

	ids, action, ok := h.parseBulkRequest(w, r)
	if !ok {
		return
	}

	target, err := h.gate.StatusFor(action)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if target == models.StatusApproved {
		// Approbation item par item : chaque vrai changement de statut
		// déclenche sa propre diffusion, sans doublon
		changedCount := 0
		for _, id := range ids {
			changed, err := h.approveMedia(event, id)
			if err != nil {
				log.Printf("⚠️  Média %s non modéré: %v", id.Hex(), err)
				continue
			}
			if changed {
				changedCount++
			}
		}
		utils.RespondSuccess(w, "Modération appliquée", map[string]interface{}{
			"requested": len(ids),
			"changed":   changedCount,
		})
		return
	}

	// Rejet en masse : pas de diffusion, un seul UpdateMany filtré par
	// événement suffit
	modified, err := h.mediaRepo.SetStatusBulk(event.ID, ids, target)
	if err != nil {
		log.Printf("Erreur lors de la modération en masse: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondSuccess(w, "Modération appliquée", map[string]interface{}{
		"requested": len(ids),
		"changed":   modified,
	})
}

// approveMedia approuve un média du lot et diffuse s'il devient visible
func (h *ModerationHandler) approveMedia(event *models.Event, id primitive.ObjectID) (bool, error) {
	media, err := h.mediaRepo.FindByID(id)
	if err != nil {
		return false, err
	}
	if media == nil || media.EventID != event.ID {
		return false, nil // ID étranger à l'événement : ignoré
	}

	changed, err := h.mediaRepo.SetStatus(id, models.StatusApproved)
	if err != nil {
		return false, err
	}
	if changed {
		if fresh, err := h.mediaRepo.FindByID(id); err == nil && fresh != nil {
			h.hub.Publish(event.ID.Hex(), websocket.MediaApprovedEvent(fresh))
		}
	}
	return changed, nil
}

// ModerateEntry approuve ou rejette une entrée du livre d'or
func (h *ModerationHandler) ModerateEntry(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	event := h.loadOwnedEvent(w, r)
	if event == nil {
		return
	}

	entryID, ok := ParseObjectIDVar(w, mux.Vars(r), "entry_id", constants.ErrInvalidEntryID)
	if !ok {
		return
	}

	entry, err := h.guestbookRepo.FindByID(entryID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if entry == nil || entry.EventID != event.ID {
		utils.RespondError(w, http.StatusNotFound, constants.ErrEntryNotFound)
		return
	}

	action, ok := h.parseAction(w, r)
	if !ok {
		return
	}

	target, _, err := h.gate.ApplyAction(entry.Status, action)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	changed, err := h.guestbookRepo.SetStatus(entryID, target)
	if err != nil {
		log.Printf("Erreur lors de la modération de l'entrée: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if changed && target == models.StatusApproved {
		if fresh, err := h.guestbookRepo.FindByID(entryID); err == nil && fresh != nil {
			h.hub.Publish(event.ID.Hex(), websocket.GuestbookApprovedEvent(fresh))
		}
	}

	log.Printf("⚖️  Entrée %s: %s (changé: %v)", entryID.Hex(), target, changed)

	utils.RespondSuccess(w, "Modération appliquée", map[string]interface{}{
		"entry_id": entryID.Hex(),
		"status":   target,
		"changed":  changed,
	})
}

// ModerateEntriesBulk applique une action à plusieurs entrées du livre d'or
func (h *ModerationHandler) ModerateEntriesBulk(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	event := h.loadOwnedEvent(w, r)
	if event == nil {
		return
	}

	ids, action, ok := h.parseBulkRequest(w, r)
	if !ok {
		return
	}

	target, err := h.gate.StatusFor(action)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if target == models.StatusApproved {
		changedCount := 0
		for _, id := range ids {
			changed, err := h.approveEntry(event, id)
			if err != nil {
				log.Printf("⚠️  Entrée %s non modérée: %v", id.Hex(), err)
				continue
			}
			if changed {
				changedCount++
			}
		}
		utils.RespondSuccess(w, "Modération appliquée", map[string]interface{}{
			"requested": len(ids),
			"changed":   changedCount,
		})
		return
	}

	modified, err := h.guestbookRepo.SetStatusBulk(event.ID, ids, target)
	if err != nil {
		log.Printf("Erreur lors de la modération en masse: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondSuccess(w, "Modération appliquée", map[string]interface{}{
		"requested": len(ids),
		"changed":   modified,
	})
}

func (h *ModerationHandler) approveEntry(event *models.Event, id primitive.ObjectID) (bool, error) {
	entry, err := h.guestbookRepo.FindByID(id)
	if err != nil {
		return false, err
	}
	if entry == nil || entry.EventID != event.ID {
		return false, nil
	}

	changed, err := h.guestbookRepo.SetStatus(id, models.StatusApproved)
	if err != nil {
		return false, err
	}
	if changed {
		if fresh, err := h.guestbookRepo.FindByID(id); err == nil && fresh != nil {
			h.hub.Publish(event.ID.Hex(), websocket.GuestbookApprovedEvent(fresh))
		}
	}
	return changed, nil
}

// SetMediaVisibility met à jour les drapeaux de curation d'un média.
// Indépendant du statut de modération : masquer n'est pas rejeter.
func (h *ModerationHandler) SetMediaVisibility(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	event := h.loadOwnedEvent(w, r)
	if event == nil {
		return
	}

	mediaID, ok := ParseObjectIDVar(w, mux.Vars(r), "media_id", constants.ErrInvalidMediaID)
	if !ok {
		return
	}

	media, err := h.mediaRepo.FindByID(mediaID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if media == nil || media.EventID != event.ID {
		utils.RespondError(w, http.StatusNotFound, constants.ErrMediaNotFound)
		return
	}

	flags, ok := h.parseVisibility(w, r)
	if !ok {
		return
	}

	if err := h.mediaRepo.SetVisibility(mediaID, flags); err != nil {
		log.Printf("Erreur lors de la mise à jour de la visibilité: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondSuccess(w, "Visibilité mise à jour", map[string]interface{}{
		"media_id":   mediaID.Hex(),
		"visibility": flags,
	})
}

// SetEntryVisibility met à jour les drapeaux de curation d'une entrée
func (h *ModerationHandler) SetEntryVisibility(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	event := h.loadOwnedEvent(w, r)
	if event == nil {
		return
	}

	entryID, ok := ParseObjectIDVar(w, mux.Vars(r), "entry_id", constants.ErrInvalidEntryID)
	if !ok {
		return
	}

	entry, err := h.guestbookRepo.FindByID(entryID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if entry == nil || entry.EventID != event.ID {
		utils.RespondError(w, http.StatusNotFound, constants.ErrEntryNotFound)
		return
	}

	flags, ok := h.parseVisibility(w, r)
	if !ok {
		return
	}

	if err := h.guestbookRepo.SetVisibility(entryID, flags); err != nil {
		log.Printf("Erreur lors de la mise à jour de la visibilité: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondSuccess(w, "Visibilité mise à jour", map[string]interface{}{
		"entry_id":   entryID.Hex(),
		"visibility": flags,
	})
}

// parseAction décode et valide l'action de modération du corps de requête
func (h *ModerationHandler) parseAction(w http.ResponseWriter, r *http.Request) (services.ModerationAction, bool) {
	var req models.ModerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return "", false
	}

	action := services.ModerationAction(req.Action)
	if action != services.ActionApprove && action != services.ActionReject {
		utils.RespondError(w, http.StatusBadRequest, "Action invalide. Utilisez 'approve' ou 'reject'.")
		return "", false
	}
	return action, true
}

// parseBulkRequest décode la requête en masse et convertit les IDs.
// Les IDs mal formés font échouer toute la requête : c'est une erreur
// d'appel, pas un contenu étranger.
func (h *ModerationHandler) parseBulkRequest(w http.ResponseWriter, r *http.Request) ([]primitive.ObjectID, services.ModerationAction, bool) {
	var req models.BulkModerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return nil, "", false
	}

	if len(req.IDs) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "Aucun ID fourni")
		return nil, "", false
	}

	action := services.ModerationAction(req.Action)
	if action != services.ActionApprove && action != services.ActionReject {
		utils.RespondError(w, http.StatusBadRequest, "Action invalide. Utilisez 'approve' ou 'reject'.")
		return nil, "", false
	}

	ids := make([]primitive.ObjectID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "ID invalide: "+raw)
			return nil, "", false
		}
		ids = append(ids, id)
	}
	return ids, action, true
}

func (h *ModerationHandler) parseVisibility(w http.ResponseWriter, r *http.Request) (models.VisibilityFlags, bool) {
	var req models.VisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return models.VisibilityFlags{}, false
	}
	return models.VisibilityFlags{
		IsHidden:   req.IsHidden,
		IsFeatured: req.IsFeatured,
		IsPinned:   req.IsPinned,
	}, true
}
