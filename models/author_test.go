package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGuestAuthor(t *testing.T) {
	author := GuestAuthor("  Marie  ", " marie@example.com ")

	if author.Role != RoleGuest {
		t.Errorf("Role = %v, attendu %v", author.Role, RoleGuest)
	}
	if author.GuestName != "Marie" {
		t.Errorf("GuestName = %q, les espaces devraient être retirés", author.GuestName)
	}
	if author.GuestEmail != "marie@example.com" {
		t.Errorf("GuestEmail = %q, les espaces devraient être retirés", author.GuestEmail)
	}
	if author.IsAuthenticated() {
		t.Error("un invité ne devrait pas être considéré comme authentifié")
	}
}

func TestAuthor_IsAuthenticated(t *testing.T) {
	userID := primitive.NewObjectID()

	tests := []struct {
		name   string
		author Author
		want   bool
	}{
		{"invité", GuestAuthor("Paul", ""), false},
		{"hôte", HostAuthor(userID, "Julie"), true},
		{"photographe", PhotographerAuthor(userID, "Studio Lumière"), true},
		{"admin", Author{Role: RoleAdmin, UserID: userID}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.author.IsAuthenticated(); got != tt.want {
				t.Errorf("IsAuthenticated() = %v, attendu %v", got, tt.want)
			}
		})
	}
}

func TestAuthor_DisplayName(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("invité affiche son nom déclaré", func(t *testing.T) {
		author := GuestAuthor("Tonton Bernard", "")
		if got := author.DisplayName(); got != "Tonton Bernard" {
			t.Errorf("DisplayName() = %q", got)
		}
	})

	t.Run("hôte affiche son nom de compte", func(t *testing.T) {
		author := HostAuthor(userID, "Julie")
		if got := author.DisplayName(); got != "Julie" {
			t.Errorf("DisplayName() = %q", got)
		}
	})
}
