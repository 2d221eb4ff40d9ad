package services

import (
	"fmt"
	"jour-j-backend/database"
	"jour-j-backend/models"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// StatsService recalcule les compteurs agrégés d'un événement à partir des
// contenus approuvés. Exécuté à la demande et par le cron : les compteurs
// peuvent être légèrement en retard, c'est assumé.
type StatsService struct {
	eventRepo     *database.EventRepository
	mediaRepo     *database.MediaRepository
	guestbookRepo *database.GuestbookRepository
}

// NewStatsService crée une nouvelle instance
func NewStatsService(db *mongo.Database) *StatsService {
	return &StatsService{
		eventRepo:     database.NewEventRepository(db),
		mediaRepo:     database.NewMediaRepository(db),
		guestbookRepo: database.NewGuestbookRepository(db),
	}
}

// Recompute recalcule et persiste les statistiques d'un événement.
// Seuls les contenus approuvés comptent ; les j'aime et commentaires sont
// sommés sur les listes des contenus approuvés.
func (s *StatsService) Recompute(eventID primitive.ObjectID) (*models.EventStats, error) {
	totalPhotos, err := s.mediaRepo.CountByEventKindStatus(eventID, models.KindPhoto, models.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("erreur lors du comptage des photos: %w", err)
	}

	totalVideos, err := s.mediaRepo.CountByEventKindStatus(eventID, models.KindVideo, models.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("erreur lors du comptage des vidéos: %w", err)
	}

	totalEntries, err := s.guestbookRepo.CountByEventAndStatus(eventID, models.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("erreur lors du comptage des entrées: %w", err)
	}

	totalLikes := 0
	totalComments := 0

	medias, err := s.mediaRepo.FindByEventAndStatus(eventID, models.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la récupération des médias: %w", err)
	}
	for _, media := range medias {
		totalLikes += len(media.Likes)
		totalComments += len(media.Comments)
	}

	entries, err := s.guestbookRepo.FindByEventAndStatus(eventID, models.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la récupération des entrées: %w", err)
	}
	for _, entry := range entries {
		totalLikes += len(entry.Likes)
		totalComments += len(entry.Replies)
	}

	stats := models.EventStats{
		TotalPhotos:           int(totalPhotos),
		TotalVideos:           int(totalVideos),
		TotalGuestbookEntries: int(totalEntries),
		TotalLikes:            totalLikes,
		TotalComments:         totalComments,
		ComputedAt:            time.Now(),
	}

	if err := s.eventRepo.UpdateStats(eventID, stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

// Seuil au-delà duquel la file de modération d'un événement déclenche une
// alerte Slack. Un hôte qui laisse traîner autant de contenus en attente a
// probablement oublié d'activer la modération automatique ou abandonné l'app.
const pendingAlertThreshold = 25

// AlertModerationBacklogs contrôle la file de modération de chaque événement
// et prévient sur Slack quand elle dépasse le seuil (cron horaire).
func (s *StatsService) AlertModerationBacklogs(slack *SlackService) {
	events, err := s.eventRepo.FindAll()
	if err != nil {
		log.Printf("❌ Erreur récupération événements pour le contrôle de modération: %v", err)
		return
	}

	for _, event := range events {
		pendingMedias, err := s.mediaRepo.CountPendingByEvent(event.ID)
		if err != nil {
			log.Printf("❌ Erreur comptage médias en attente événement %s: %v", event.ID.Hex(), err)
			continue
		}

		pendingEntries, err := s.guestbookRepo.CountByEventAndStatus(event.ID, models.StatusPending)
		if err != nil {
			log.Printf("❌ Erreur comptage entrées en attente événement %s: %v", event.ID.Hex(), err)
			continue
		}

		pending := pendingMedias + pendingEntries
		if pending >= pendingAlertThreshold {
			log.Printf("⚖️ File de modération chargée pour %s: %d contenus en attente", event.Titre, pending)
			slack.SendModerationBacklogAlert(event.Titre, pending)
		}
	}
}

// RecomputeAll recalcule les statistiques de tous les événements (cron)
func (s *StatsService) RecomputeAll() {
	events, err := s.eventRepo.FindAll()
	if err != nil {
		log.Printf("❌ Erreur récupération événements pour les stats: %v", err)
		return
	}

	for _, event := range events {
		if _, err := s.Recompute(event.ID); err != nil {
			log.Printf("❌ Erreur recalcul stats événement %s: %v", event.ID.Hex(), err)
		}
	}

	log.Printf("📊 Statistiques recalculées pour %d événements", len(events))
}
