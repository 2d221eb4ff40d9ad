package middleware

import (
	"jour-j-backend/services"
	"log"
	"net/http"
	"strconv"
	"time"
)

// responseWriter wrapper pour capturer le code de statut
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logging enregistre les requêtes HTTP et envoie une notification Slack
// pour les erreurs serveur. Les erreurs 4xx (mauvais mot de passe, ID
// invalide...) sont loggées mais ne déclenchent pas d'alerte.
func Logging(slackService *services.SlackService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			statusCode := rw.statusCode

			if statusCode >= http.StatusBadRequest {
				log.Printf(
					"⚠️ %s %s -> %d (%s)",
					r.Method,
					r.RequestURI,
					statusCode,
					duration,
				)

				if statusCode >= http.StatusInternalServerError && slackService != nil {
					slackService.SendCriticalError(
						r.Method,
						r.RequestURI,
						strconv.Itoa(statusCode),
						http.StatusText(statusCode),
						r.Header.Get("Origin"),
						r.Header.Get("User-Agent"),
					)
				}
			}
		})
	}
}
