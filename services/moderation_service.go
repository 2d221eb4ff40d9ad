package services

import (
	"fmt"
	"jour-j-backend/models"
)

// ModerationAction représente une action de modération d'un marié/photographe
type ModerationAction string

const (
	ActionApprove ModerationAction = "approve"
	ActionReject  ModerationAction = "reject"
)

// ModerationGate centralise toutes les décisions de statut de modération.
// Chaque point d'entrée (upload, commentaire, action admin, action en masse)
// passe par ici : le signal becameVisible est calculé à un seul endroit, et
// c'est lui qui déclenche (ou non) le broadcast temps réel.
// Aucune E/S : logique pure sur des données déjà chargées.
type ModerationGate struct{}

// NewModerationGate crée une nouvelle instance
func NewModerationGate() *ModerationGate {
	return &ModerationGate{}
}

// DecideInitialStatus détermine le statut d'une nouvelle soumission.
// Les mariés et photographes authentifiés sont toujours approuvés d'office ;
// les invités dépendent de la politique de modération de l'événement.
func (g *ModerationGate) DecideInitialStatus(policy models.EventPolicy, author models.Author) models.ModerationStatus {
	if author.IsAuthenticated() {
		return models.StatusApproved
	}
	if policy.ModerateUploads {
		return models.StatusPending
	}
	return models.StatusApproved
}

// DecideCommentApproval détermine si un commentaire/réponse est approuvé dès
// l'ajout. Même règle que les soumissions, mais le résultat ne touche jamais
// le statut du contenu parent.
func (g *ModerationGate) DecideCommentApproval(policy models.EventPolicy, author models.Author) bool {
	return g.DecideInitialStatus(policy, author) == models.StatusApproved
}

// ApplyAction applique une action de modération sur un statut courant.
// Retourne le nouveau statut et becameVisible, vrai uniquement quand le
// contenu passe de non-approuvé à approuvé (le seul moment où il faut
// diffuser aux connexions de la room). Une action déjà satisfaite est un
// no-op, pas une erreur.
func (g *ModerationGate) ApplyAction(current models.ModerationStatus, action ModerationAction) (models.ModerationStatus, bool, error) {
	switch action {
	case ActionApprove:
		becameVisible := current != models.StatusApproved
		return models.StatusApproved, becameVisible, nil
	case ActionReject:
		return models.StatusRejected, false, nil
	default:
		return current, false, fmt.Errorf("action de modération inconnue: %s", action)
	}
}

// StatusFor retourne le statut cible d'une action (utilisé par les mises à
// jour en masse, où le filtre MongoDB décide item par item du vrai changement)
func (g *ModerationGate) StatusFor(action ModerationAction) (models.ModerationStatus, error) {
	switch action {
	case ActionApprove:
		return models.StatusApproved, nil
	case ActionReject:
		return models.StatusRejected, nil
	default:
		return "", fmt.Errorf("action de modération inconnue: %s", action)
	}
}
