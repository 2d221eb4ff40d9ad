package services

import (
	"log"

	"github.com/robfig/cron/v3"
)

// StatsCron rafraîchit périodiquement les compteurs agrégés des événements.
// Les compteurs sont aussi recalculés à la demande via l'API ; le cron
// rattrape simplement le retard accumulé entre deux consultations.
type StatsCron struct {
	statsService *StatsService
	slackService *SlackService
	cron         *cron.Cron
}

// NewStatsCron crée une nouvelle instance
func NewStatsCron(statsService *StatsService, slackService *SlackService) *StatsCron {
	return &StatsCron{
		statsService: statsService,
		slackService: slackService,
		cron:         cron.New(),
	}
}

// Start démarre les cron jobs
func (sc *StatsCron) Start() {
	sc.cron.AddFunc("@every 5m", sc.statsService.RecomputeAll)
	sc.cron.AddFunc("@every 1h", func() {
		sc.statsService.AlertModerationBacklogs(sc.slackService)
	})
	sc.cron.Start()
	log.Println("✓ Cron statistiques démarré (recalcul toutes les 5 minutes)")
}

// Stop arrête le cron job
func (sc *StatsCron) Stop() {
	sc.cron.Stop()
}
