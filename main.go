package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jour-j-backend/config"
	"jour-j-backend/database"
	"jour-j-backend/handlers"
	"jour-j-backend/middleware"
	"jour-j-backend/services"
	"jour-j-backend/utils"
	"jour-j-backend/websocket"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
)

func main() {
	// Charger la configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Erreur lors du chargement de la configuration: %v", err)
	}

	// Connexion à MongoDB
	if err := database.Connect(cfg.MongoURI, cfg.MongoDB); err != nil {
		log.Fatalf("❌ Erreur de connexion à MongoDB: %v", err)
	}
	defer database.Close()

	// Initialiser Firebase Cloud Messaging (optionnel)
	var fcmService services.FCMSender
	fcmService, err = services.NewFCMService(cfg.FirebaseCredentialsFile)
	if err != nil {
		log.Printf("⚠️  Erreur d'initialisation Firebase: %v", err)
		log.Println("⚠️  Le serveur démarre SANS notifications FCM")
		fcmService = services.NewDisabledFCMService()
	} else {
		log.Println("✓ Firebase Cloud Messaging initialisé")
	}

	// Client Redis pour le rate limiting des invités (optionnel)
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("⚠️  Redis injoignable (%v), rate limiting désactivé", err)
			redisClient = nil
		} else {
			log.Println("✓ Redis connecté, rate limiting actif")
		}
		cancel()
	} else {
		log.Println("⚠️  REDIS_ADDR non défini, rate limiting désactivé")
	}

	// Services transverses
	slackService := services.NewSlackService(cfg.SlackWebhookURL)
	storageService := services.NewStorageService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	pushService := services.NewPushService(
		database.NewSubscriptionRepository(database.DB),
		database.NewFCMTokenRepository(database.DB),
		fcmService,
		cfg.VAPIDPublicKey,
		cfg.VAPIDPrivateKey,
		cfg.VAPIDSubject,
	)

	// Statistiques : recalcul périodique + surveillance de la file de modération
	statsService := services.NewStatsService(database.DB)
	statsCron := services.NewStatsCron(statsService, slackService)
	statsCron.Start()

	// Hub WebSocket : une salle de diffusion par événement
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ Hub WebSocket initialisé et en cours d'exécution")

	// Créer les handlers
	healthHandler := handlers.NewHealthHandler(cfg.Environment)
	authHandler := handlers.NewAuthHandler(database.DB, cfg.JWTSecret)
	eventHandler := handlers.NewEventHandler(database.DB, storageService)
	mediaHandler := handlers.NewMediaHandler(database.DB, wsHub, pushService, storageService)
	guestbookHandler := handlers.NewGuestbookHandler(database.DB, wsHub, pushService, storageService)
	moderationHandler := handlers.NewModerationHandler(database.DB, wsHub)
	statsHandler := handlers.NewStatsHandler(database.DB, statsService)
	notificationHandler := handlers.NewNotificationHandler(database.DB, cfg.VAPIDPublicKey)
	fcmHandler := handlers.NewFCMHandler(database.DB)
	wsHandler := websocket.NewHandler(wsHub)

	// Créer le routeur
	router := mux.NewRouter()

	// Routeur sans middleware pour le WebSocket (pas de wrapping du ResponseWriter)
	rawRouter := mux.NewRouter()
	rawRouter.HandleFunc("/ws", wsHandler.ServeWS).Methods("GET")

	// Middlewares globaux (SAUF pour le WebSocket)
	router.Use(middleware.Logging(slackService))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	// Middlewares réutilisables
	guestMiddleware := middleware.Guest(cfg.JWTSecret)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)
	rateLimit := middleware.RateLimit(redisClient, cfg.RateLimitMax, cfg.RateLimitWin)

	// guestRoute : routes d'écriture ouvertes aux invités. L'auth reste
	// optionnelle (un hôte connecté garde son identité) et le rate limiting
	// protège contre les abus des invités anonymes.
	guestRoute := func(h http.HandlerFunc) http.Handler {
		return optionalAuth(rateLimit(h))
	}

	// Route de santé (health check)
	router.HandleFunc("/api/health", healthHandler.Health).Methods("GET")

	// Authentification des hôtes et photographes
	router.Handle("/api/inscription", guestMiddleware(http.HandlerFunc(authHandler.Register))).Methods("POST", "OPTIONS")
	router.Handle("/api/connexion", guestMiddleware(http.HandlerFunc(authHandler.Login))).Methods("POST", "OPTIONS")
	router.Handle("/api/auth/register", guestMiddleware(http.HandlerFunc(authHandler.Register))).Methods("POST", "OPTIONS")
	router.Handle("/api/auth/login", guestMiddleware(http.HandlerFunc(authHandler.Login))).Methods("POST", "OPTIONS")

	// Accès invité aux événements (par identifiant ou par code de partage)
	router.HandleFunc("/api/evenements/code/{code}", eventHandler.GetEventByCode).Methods("GET", "OPTIONS")
	router.Handle("/api/evenements/{event_id}", optionalAuth(http.HandlerFunc(eventHandler.GetEvent))).Methods("GET", "OPTIONS")

	// Galerie médias : lecture publique, écriture invitée rate-limitée
	router.Handle("/api/evenements/{event_id}/medias", optionalAuth(http.HandlerFunc(mediaHandler.GetMedias))).Methods("GET", "OPTIONS")
	router.Handle("/api/evenements/{event_id}/medias", guestRoute(mediaHandler.CreateMedia)).Methods("POST", "OPTIONS")
	router.Handle("/api/evenements/{event_id}/medias/{media_id}/like", guestRoute(mediaHandler.LikeMedia)).Methods("POST", "OPTIONS")
	router.Handle("/api/evenements/{event_id}/medias/{media_id}/commentaires", guestRoute(mediaHandler.CommentMedia)).Methods("POST", "OPTIONS")
	router.Handle("/api/evenements/{event_id}/medias/{media_id}/vue", guestRoute(mediaHandler.RecordView)).Methods("POST", "OPTIONS")
	router.Handle("/api/evenements/{event_id}/medias/{media_id}/telechargement", guestRoute(mediaHandler.RecordDownload)).Methods("POST", "OPTIONS")

	// Livre d'or : lecture publique, écriture invitée rate-limitée
	router.Handle("/api/evenements/{event_id}/livre-or", optionalAuth(http.HandlerFunc(guestbookHandler.GetEntries))).Methods("GET", "OPTIONS")
	router.Handle("/api/evenements/{event_id}/livre-or", guestRoute(guestbookHandler.CreateEntry)).Methods("POST", "OPTIONS")
	router.Handle("/api/evenements/{event_id}/livre-or/{entry_id}/like", guestRoute(guestbookHandler.LikeEntry)).Methods("POST", "OPTIONS")
	router.Handle("/api/evenements/{event_id}/livre-or/{entry_id}/reponses", guestRoute(guestbookHandler.ReplyEntry)).Methods("POST", "OPTIONS")

	// Notifications push (publiques, comme le front invité n'a pas de compte)
	router.HandleFunc("/api/notifications/vapid-public-key", notificationHandler.GetVAPIDPublicKey).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/notifications/subscribe", notificationHandler.Subscribe).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/notifications/unsubscribe", notificationHandler.Unsubscribe).Methods("POST", "OPTIONS")

	// Firebase Cloud Messaging
	router.HandleFunc("/api/fcm/vapid-key", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"vapidKey": cfg.FCMVAPIDKey,
		})
	}).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/fcm/subscribe", fcmHandler.Subscribe).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/fcm/unsubscribe", fcmHandler.Unsubscribe).Methods("POST", "OPTIONS")

	// Routes protégées (hôtes et photographes authentifiés)
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.Auth(cfg.JWTSecret))

	// Gestion des événements
	protected.HandleFunc("/mes-evenements", eventHandler.GetMyEvents).Methods("GET", "OPTIONS")
	protected.HandleFunc("/evenements", eventHandler.CreateEvent).Methods("POST", "OPTIONS")
	protected.HandleFunc("/evenements/{event_id}", eventHandler.UpdateEvent).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/evenements/{event_id}", eventHandler.DeleteEvent).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/evenements/{event_id}/stats", statsHandler.GetStats).Methods("GET", "OPTIONS")

	// Suppression de contenu (hôte ou photographe de l'événement)
	protected.HandleFunc("/evenements/{event_id}/medias/{media_id}", mediaHandler.DeleteMedia).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/evenements/{event_id}/livre-or/{entry_id}", guestbookHandler.DeleteEntry).Methods("DELETE", "OPTIONS")

	// Modération (hôte de l'événement uniquement)
	protected.HandleFunc("/evenements/{event_id}/moderation/en-attente", moderationHandler.ListPending).Methods("GET", "OPTIONS")
	protected.HandleFunc("/evenements/{event_id}/moderation/medias/{media_id}", moderationHandler.ModerateMedia).Methods("POST", "OPTIONS")
	protected.HandleFunc("/evenements/{event_id}/moderation/medias", moderationHandler.ModerateMediasBulk).Methods("POST", "OPTIONS")
	protected.HandleFunc("/evenements/{event_id}/moderation/livre-or/{entry_id}", moderationHandler.ModerateEntry).Methods("POST", "OPTIONS")
	protected.HandleFunc("/evenements/{event_id}/moderation/livre-or", moderationHandler.ModerateEntriesBulk).Methods("POST", "OPTIONS")
	protected.HandleFunc("/evenements/{event_id}/medias/{media_id}/visibilite", moderationHandler.SetMediaVisibility).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/evenements/{event_id}/livre-or/{entry_id}/visibilite", moderationHandler.SetEntryVisibility).Methods("PUT", "OPTIONS")

	// Routes Admin plateforme (admin=1 requis)
	adminRouter := protected.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.RequireAdmin(database.DB))
	adminRouter.HandleFunc("/stats/recalculer", func(w http.ResponseWriter, r *http.Request) {
		statsService.RecomputeAll()
		utils.RespondSuccess(w, "Statistiques recalculées", nil)
	}).Methods("POST", "OPTIONS")

	// Multiplexeur : le WebSocket contourne les middlewares HTTP
	mainHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" {
			rawRouter.ServeHTTP(w, r)
		} else {
			router.ServeHTTP(w, r)
		}
	})

	// Démarrer le serveur
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: mainHandler,
	}

	go func() {
		log.Printf("🚀 Serveur démarré sur http://%s", addr)
		log.Printf("📝 Environnement: %s", cfg.Environment)
		log.Printf("🗄️  Base de données: MongoDB")
		log.Println("📋 Routes disponibles:")
		log.Println("   GET    /api/health                                  - Health check")
		log.Println("   POST   /api/inscription                             - Inscription hôte/photographe")
		log.Println("   POST   /api/connexion                               - Connexion")
		log.Println("   GET    /api/evenements/code/{code}                  - Événement par code de partage")
		log.Println("   GET    /api/evenements/{id}                         - Détails événement")
		log.Println("")
		log.Println("   📸 Galerie médias (invité, sans compte):")
		log.Println("   GET    /api/evenements/{id}/medias                  - Liste des médias")
		log.Println("   POST   /api/evenements/{id}/medias                  - Déposer photo/vidéo/audio")
		log.Println("   POST   /api/evenements/{id}/medias/{mid}/like       - Aimer un média")
		log.Println("   POST   /api/evenements/{id}/medias/{mid}/commentaires - Commenter")
		log.Println("")
		log.Println("   📖 Livre d'or (invité, sans compte):")
		log.Println("   GET    /api/evenements/{id}/livre-or                - Lire le livre d'or")
		log.Println("   POST   /api/evenements/{id}/livre-or                - Signer le livre d'or")
		log.Println("")
		log.Println("   🔒 Routes protégées (hôtes):")
		log.Println("   GET    /api/mes-evenements                          - Mes événements")
		log.Println("   POST   /api/evenements                              - Créer un événement")
		log.Println("   GET    /api/evenements/{id}/moderation/en-attente   - File de modération")
		log.Println("   POST   /api/evenements/{id}/moderation/medias/{mid} - Approuver/rejeter un média")
		log.Println("")
		log.Println("   🔌 WebSocket:")
		log.Println("   GET    /ws                                          - Diffusion temps réel par événement")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Erreur du serveur: %v", err)
		}
	}()

	// Arrêt gracieux
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("👋 Arrêt du serveur en cours...")

	statsCron.Stop()
	wsHub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Erreur lors de l'arrêt du serveur: %v", err)
	}

	if redisClient != nil {
		redisClient.Close()
	}

	log.Println("✓ Serveur arrêté proprement")
}
