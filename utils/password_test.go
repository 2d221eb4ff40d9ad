package utils

import (
	"testing"
)

func TestHashPassword(t *testing.T) {
	password := "motdepasse123"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() erreur = %v", err)
	}
	if hash == "" {
		t.Error("HashPassword() ne doit pas retourner un hash vide")
	}
	if hash == password {
		t.Error("HashPassword() ne doit pas retourner le mot de passe en clair")
	}
}

func TestCheckPassword(t *testing.T) {
	password := "motdepasse123"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() erreur = %v", err)
	}

	if !CheckPassword(hash, password) {
		t.Error("CheckPassword() devrait retourner true pour le bon mot de passe")
	}
	if CheckPassword(hash, "mauvais") {
		t.Error("CheckPassword() devrait retourner false pour un mauvais mot de passe")
	}
	if CheckPassword(hash, "") {
		t.Error("CheckPassword() devrait retourner false pour un mot de passe vide")
	}
}
