package services

import (
	"jour-j-backend/models"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDecideInitialStatus(t *testing.T) {
	gate := NewModerationGate()

	t.Run("invité avec modération activée -> pending", func(t *testing.T) {
		policy := models.EventPolicy{ModerateUploads: true}
		status := gate.DecideInitialStatus(policy, models.GuestAuthor("Alice", ""))
		if status != models.StatusPending {
			t.Errorf("statut = %v, attendu pending", status)
		}
	})

	t.Run("invité sans modération -> approved", func(t *testing.T) {
		policy := models.EventPolicy{ModerateUploads: false}
		status := gate.DecideInitialStatus(policy, models.GuestAuthor("Alice", ""))
		if status != models.StatusApproved {
			t.Errorf("statut = %v, attendu approved", status)
		}
	})

	t.Run("marié toujours approved même avec modération", func(t *testing.T) {
		policy := models.EventPolicy{ModerateUploads: true}
		author := models.HostAuthor(primitive.NewObjectID(), "Jean Dupont")
		status := gate.DecideInitialStatus(policy, author)
		if status != models.StatusApproved {
			t.Errorf("statut = %v, attendu approved", status)
		}
	})

	t.Run("photographe toujours approved même avec modération", func(t *testing.T) {
		policy := models.EventPolicy{ModerateUploads: true}
		author := models.PhotographerAuthor(primitive.NewObjectID(), "Studio Photo")
		status := gate.DecideInitialStatus(policy, author)
		if status != models.StatusApproved {
			t.Errorf("statut = %v, attendu approved", status)
		}
	})
}

func TestDecideCommentApproval(t *testing.T) {
	gate := NewModerationGate()

	t.Run("commentaire invité modéré -> non approuvé", func(t *testing.T) {
		policy := models.EventPolicy{ModerateUploads: true}
		if gate.DecideCommentApproval(policy, models.GuestAuthor("Bob", "")) {
			t.Error("le commentaire invité devrait être en attente")
		}
	})

	t.Run("commentaire invité non modéré -> approuvé", func(t *testing.T) {
		policy := models.EventPolicy{ModerateUploads: false}
		if !gate.DecideCommentApproval(policy, models.GuestAuthor("Bob", "")) {
			t.Error("le commentaire invité devrait être approuvé")
		}
	})

	t.Run("commentaire marié toujours approuvé", func(t *testing.T) {
		policy := models.EventPolicy{ModerateUploads: true}
		author := models.HostAuthor(primitive.NewObjectID(), "Jean Dupont")
		if !gate.DecideCommentApproval(policy, author) {
			t.Error("le commentaire du marié devrait être approuvé")
		}
	})
}

func TestApplyAction(t *testing.T) {
	gate := NewModerationGate()

	t.Run("approve sur pending -> approved, becameVisible", func(t *testing.T) {
		status, becameVisible, err := gate.ApplyAction(models.StatusPending, ActionApprove)
		if err != nil {
			t.Fatalf("ApplyAction() erreur = %v", err)
		}
		if status != models.StatusApproved {
			t.Errorf("statut = %v, attendu approved", status)
		}
		if !becameVisible {
			t.Error("becameVisible devrait être vrai")
		}
	})

	t.Run("approve sur approved -> no-op, pas de re-diffusion", func(t *testing.T) {
		status, becameVisible, err := gate.ApplyAction(models.StatusApproved, ActionApprove)
		if err != nil {
			t.Fatalf("ApplyAction() erreur = %v", err)
		}
		if status != models.StatusApproved {
			t.Errorf("statut = %v, attendu approved", status)
		}
		if becameVisible {
			t.Error("becameVisible devrait être faux sur un no-op")
		}
	})

	t.Run("approve sur rejected -> approved, becameVisible", func(t *testing.T) {
		status, becameVisible, err := gate.ApplyAction(models.StatusRejected, ActionApprove)
		if err != nil {
			t.Fatalf("ApplyAction() erreur = %v", err)
		}
		if status != models.StatusApproved || !becameVisible {
			t.Errorf("statut = %v, becameVisible = %v", status, becameVisible)
		}
	})

	t.Run("reject sur pending -> rejected, jamais visible", func(t *testing.T) {
		status, becameVisible, err := gate.ApplyAction(models.StatusPending, ActionReject)
		if err != nil {
			t.Fatalf("ApplyAction() erreur = %v", err)
		}
		if status != models.StatusRejected {
			t.Errorf("statut = %v, attendu rejected", status)
		}
		if becameVisible {
			t.Error("becameVisible devrait être faux pour un rejet")
		}
	})

	t.Run("reject sur approved -> rejected", func(t *testing.T) {
		status, _, err := gate.ApplyAction(models.StatusApproved, ActionReject)
		if err != nil {
			t.Fatalf("ApplyAction() erreur = %v", err)
		}
		if status != models.StatusRejected {
			t.Errorf("statut = %v, attendu rejected", status)
		}
	})

	t.Run("action inconnue -> erreur", func(t *testing.T) {
		_, _, err := gate.ApplyAction(models.StatusPending, ModerationAction("publish"))
		if err == nil {
			t.Error("une action inconnue devrait retourner une erreur")
		}
	})
}

func TestStatusFor(t *testing.T) {
	gate := NewModerationGate()

	status, err := gate.StatusFor(ActionApprove)
	if err != nil || status != models.StatusApproved {
		t.Errorf("StatusFor(approve) = %v, %v", status, err)
	}

	status, err = gate.StatusFor(ActionReject)
	if err != nil || status != models.StatusRejected {
		t.Errorf("StatusFor(reject) = %v, %v", status, err)
	}

	if _, err = gate.StatusFor(ModerationAction("hide")); err == nil {
		t.Error("StatusFor devrait échouer sur une action inconnue")
	}
}
