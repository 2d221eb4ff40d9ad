package handlers

import (
	"log"
	"net/http"

	"jour-j-backend/constants"
	"jour-j-backend/database"
	"jour-j-backend/services"
	"jour-j-backend/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// StatsHandler expose les compteurs agrégés d'un événement
type StatsHandler struct {
	eventRepo *database.EventRepository
	stats     *services.StatsService
}

// NewStatsHandler crée une nouvelle instance
func NewStatsHandler(db *mongo.Database, stats *services.StatsService) *StatsHandler {
	return &StatsHandler{
		eventRepo: database.NewEventRepository(db),
		stats:     stats,
	}
}

// GetStats recalcule et retourne les statistiques d'un événement.
// Le recalcul est fait à la demande : les compteurs stockés servent de
// cache pour les lectures qui passent par l'événement lui-même.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
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

	// Les compteurs détaillés (et le recalcul qu'ils déclenchent) sont
	// réservés aux propriétaires de l'événement
	if !canModerate(w, r, event) {
		return
	}

	stats, err := h.stats.Recompute(eventID)
	if err != nil {
		log.Printf("Erreur lors du calcul des statistiques: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"event_id": eventID.Hex(),
		"stats":    stats,
	})
}
