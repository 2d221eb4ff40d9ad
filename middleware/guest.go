package middleware

import (
	"jour-j-backend/utils"
	"net/http"
	"strings"
)

// Guest vérifie que l'utilisateur n'est PAS connecté.
// Utilisé sur les routes d'inscription et de connexion.
func Guest(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")

			// Pas de header Authorization : utilisateur non connecté
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				next.ServeHTTP(w, r)
				return
			}

			_, err := utils.ValidateToken(parts[1], jwtSecret)
			if err == nil {
				// Token valide = utilisateur déjà connecté
				utils.RespondError(w, http.StatusForbidden, "Vous êtes déjà connecté")
				return
			}

			// Token invalide ou expiré : normal pour une nouvelle connexion
			next.ServeHTTP(w, r)
		})
	}
}
