package middleware

import (
	"fmt"
	"jour-j-backend/constants"
	"jour-j-backend/utils"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// clientIP extrait l'adresse IP du client, en tenant compte du reverse proxy
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit limite le nombre de requêtes par IP sur une fenêtre glissante.
// La fenêtre est un sorted set Redis : les timestamps hors fenêtre sont
// purgés à chaque passage, le cardinal donne le compteur courant.
// Un client Redis nil désactive complètement la limitation.
func RateLimit(client *redis.Client, max int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := fmt.Sprintf("ratelimit:%s", clientIP(r))
			now := time.Now().UnixMilli()
			windowStart := now - window.Milliseconds()

			pipe := client.TxPipeline()
			pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
			countCmd := pipe.ZCard(ctx, key)
			if _, err := pipe.Exec(ctx); err != nil {
				// Redis indisponible : on laisse passer plutôt que de bloquer le site
				log.Printf("⚠️  Rate limit indisponible: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			if countCmd.Val() >= int64(max) {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				utils.RespondError(w, http.StatusTooManyRequests, constants.ErrTooManyRequests)
				return
			}

			pipe = client.TxPipeline()
			// Membre en nanosecondes : deux requêtes dans la même milliseconde
			// ne doivent pas s'écraser dans le sorted set
			pipe.ZAdd(ctx, key, &redis.Z{Score: float64(now), Member: time.Now().UnixNano()})
			pipe.Expire(ctx, key, window)
			if _, err := pipe.Exec(ctx); err != nil {
				log.Printf("⚠️  Erreur lors de l'enregistrement du rate limit: %v", err)
			}

			next.ServeHTTP(w, r)
		})
	}
}
