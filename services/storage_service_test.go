package services

import (
	"testing"

	"jour-j-backend/models"
)

func TestResourceType(t *testing.T) {
	tests := []struct {
		kind models.ContentKind
		want string
	}{
		{models.KindPhoto, "image"},
		{models.KindVideo, "video"},
		{models.KindAudio, "video"}, // Cloudinary range l'audio sous "video"
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := resourceType(tt.kind); got != tt.want {
				t.Errorf("resourceType(%v) = %q, attendu %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestDeleteAsset_sansConfiguration(t *testing.T) {
	// Sans secret API, la suppression est un no-op silencieux
	service := NewStorageService("", "", "")
	if err := service.DeleteAsset("evenements/abc/photo1", models.KindPhoto); err != nil {
		t.Errorf("DeleteAsset() sans configuration devrait réussir, erreur: %v", err)
	}
}

func TestDeleteAsset_cheminVide(t *testing.T) {
	service := NewStorageService("demo", "key", "secret")
	if err := service.DeleteAsset("", models.KindPhoto); err != nil {
		t.Errorf("DeleteAsset() avec chemin vide devrait réussir, erreur: %v", err)
	}
}
