package services

import (
	"encoding/json"
	"fmt"
	"jour-j-backend/database"
	"jour-j-backend/models"
	"log"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// PushService envoie des notifications push aux appareils d'un utilisateur,
// via Web Push (VAPID) et FCM. Utilisé pour prévenir les mariés quand un
// invité dépose un souvenir en attente de modération.
type PushService struct {
	subscriptionRepo *database.SubscriptionRepository
	fcmTokenRepo     *database.FCMTokenRepository
	fcmService       FCMSender
	vapidPublicKey   string
	vapidPrivateKey  string
	vapidSubject     string
}

// NewPushService crée une nouvelle instance de PushService
func NewPushService(subscriptionRepo *database.SubscriptionRepository, fcmTokenRepo *database.FCMTokenRepository, fcmService FCMSender, vapidPublicKey, vapidPrivateKey, vapidSubject string) *PushService {
	return &PushService{
		subscriptionRepo: subscriptionRepo,
		fcmTokenRepo:     fcmTokenRepo,
		fcmService:       fcmService,
		vapidPublicKey:   vapidPublicKey,
		vapidPrivateKey:  vapidPrivateKey,
		vapidSubject:     vapidSubject,
	}
}

// NotifyUser envoie une notification à tous les appareils d'un utilisateur.
// Best-effort : les échecs sont loggés, jamais remontés à l'appelant.
func (s *PushService) NotifyUser(userID, title, body string, data map[string]string) {
	s.sendWebPush(userID, title, body, data)
	s.sendFCM(userID, title, body, data)
}

// NotifyPendingUpload prévient un marié qu'un souvenir attend sa modération
func (s *PushService) NotifyPendingUpload(hostID string, event *models.Event, author models.Author, kind models.ContentKind) {
	var label string
	switch kind {
	case models.KindVideo:
		label = "une vidéo"
	case models.KindAudio:
		label = "un message audio"
	case models.KindText:
		label = "un mot dans le livre d'or"
	default:
		label = "une photo"
	}

	title := fmt.Sprintf("📸 %s", event.Titre)
	body := fmt.Sprintf("%s a déposé %s en attente de modération", author.DisplayName(), label)

	s.NotifyUser(hostID, title, body, map[string]string{
		"event_id": event.ID.Hex(),
		"type":     "pending-upload",
	})
}

func (s *PushService) sendWebPush(userID, title, body string, data map[string]string) {
	if s.vapidPrivateKey == "" {
		return // VAPID non configuré
	}

	subscriptions, err := s.subscriptionRepo.FindByUserID(userID)
	if err != nil {
		log.Printf("❌ Erreur lors de la récupération des abonnements de %s: %v", userID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload := models.NotificationPayload{
		Title: title,
		Body:  body,
		Icon:  "/icon-192x192.png",
		Badge: "/badge-72x72.png",
		Data:  data,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		log.Printf("❌ Erreur lors de la création du payload: %v", err)
		return
	}

	sent := 0
	for _, sub := range subscriptions {
		target := &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.Keys.P256dh,
				Auth:   sub.Keys.Auth,
			},
		}

		resp, err := webpush.SendNotification(payloadBytes, target, &webpush.Options{
			Subscriber:      s.vapidSubject,
			VAPIDPublicKey:  s.vapidPublicKey,
			VAPIDPrivateKey: s.vapidPrivateKey,
			TTL:             86400, // 24 heures
			Urgency:         webpush.UrgencyHigh,
		})

		if err != nil {
			log.Printf("❌ Erreur lors de l'envoi de la notification à %s: %v", userID, err)
			// Si l'endpoint n'est plus valide (410 Gone), supprimer l'abonnement
			if resp != nil && resp.StatusCode == 410 {
				log.Printf("🗑️  Suppression de l'abonnement invalide: %s", sub.Endpoint)
				_ = s.subscriptionRepo.Delete(sub.Endpoint)
			}
		} else if resp.StatusCode == 200 || resp.StatusCode == 201 {
			sent++
		} else {
			log.Printf("⚠️  Réponse inattendue pour %s: %d", userID, resp.StatusCode)
		}

		if resp != nil {
			resp.Body.Close()
		}
	}

	if sent > 0 {
		log.Printf("📊 Web Push envoyés à %s: %d/%d", userID, sent, len(subscriptions))
	}
}

func (s *PushService) sendFCM(userID, title, body string, data map[string]string) {
	if s.fcmService == nil || s.fcmTokenRepo == nil {
		return
	}

	tokens, err := s.fcmTokenRepo.FindByUserID(userID)
	if err != nil {
		log.Printf("❌ Erreur lors de la récupération des tokens FCM de %s: %v", userID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	tokenStrings := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	success, failed, failedTokens := s.fcmService.SendToAll(tokenStrings, title, body, data)
	if failed > 0 {
		log.Printf("⚠️  FCM pour %s: %d envoyés, %d échecs", userID, success, failed)
		// Les tokens définitivement invalides sont purgés
		for _, token := range failedTokens {
			_ = s.fcmTokenRepo.DeleteByToken(token)
		}
	}
}
