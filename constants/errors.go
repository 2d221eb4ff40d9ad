package constants

// Messages d'erreur HTTP courants
const (
	ErrMethodNotAllowed  = "Méthode non autorisée"
	ErrServerError       = "Erreur serveur"
	ErrInvalidData       = "Données invalides"
	ErrNotAuthenticated  = "Non authentifié"
	ErrInvalidToken      = "Token invalide ou expiré"
	ErrInvalidEventID    = "ID événement invalide"
	ErrEventNotFound     = "Événement non trouvé"
	ErrInvalidMediaID    = "ID média invalide"
	ErrMediaNotFound     = "Média non trouvé"
	ErrInvalidEntryID    = "ID d'entrée invalide"
	ErrEntryNotFound     = "Entrée du livre d'or non trouvée"
	ErrUserNotFound      = "Utilisateur introuvable"
	ErrNotEventOwner     = "Vous n'êtes pas propriétaire de cet événement"
	ErrAdminOnly         = "Accès refusé. Admin uniquement"
	ErrGuestbookDisabled = "Le livre d'or est désactivé pour cet événement"
	ErrAudioDisabled     = "Les messages audio sont désactivés pour cet événement"
	ErrCommentsDisabled  = "Les commentaires sont désactivés pour cet événement"
	ErrLikesDisabled     = "Les \"j'aime\" sont désactivés pour cet événement"
	ErrDownloadsDisabled = "Les téléchargements sont désactivés pour cet événement"
	ErrTooManyRequests   = "Trop de requêtes, réessayez dans un instant"
)

// En-têtes HTTP
const (
	HeaderContentType     = "Content-Type"
	HeaderAuthorization   = "Authorization"
	HeaderApplicationJSON = "application/json"
)
