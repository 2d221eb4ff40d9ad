package services

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"jour-j-backend/models"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StorageService gère la suppression des fichiers sur Cloudinary.
// Le backend ne touche jamais aux octets : les uploads se font directement
// depuis le front (upload preset non signé), seul le nettoyage passe par ici.
type StorageService struct {
	cloudName string
	apiKey    string
	apiSecret string
	client    *http.Client
}

// NewStorageService crée une nouvelle instance de StorageService
func NewStorageService(cloudName, apiKey, apiSecret string) *StorageService {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		log.Println("⚠️  Cloudinary non configuré - suppression des fichiers désactivée")
	}
	return &StorageService{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// resourceType mappe le type de contenu vers le resource_type Cloudinary
func resourceType(kind models.ContentKind) string {
	switch kind {
	case models.KindVideo, models.KindAudio:
		// Cloudinary range l'audio sous "video"
		return "video"
	default:
		return "image"
	}
}

// DeleteAsset supprime un fichier sur Cloudinary (best-effort).
// L'appelant ignore l'erreur retournée et supprime ensuite l'enregistrement
// en base quoi qu'il arrive : mieux vaut un fichier orphelin sur le CDN
// qu'un enregistrement orphelin en base.
func (s *StorageService) DeleteAsset(storagePath string, kind models.ContentKind) error {
	if s.apiSecret == "" || storagePath == "" {
		return nil // Rien à faire
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	// Signature Cloudinary : SHA1 des paramètres triés + secret
	toSign := fmt.Sprintf("public_id=%s&timestamp=%s%s", storagePath, timestamp, s.apiSecret)
	digest := sha1.Sum([]byte(toSign))
	signature := hex.EncodeToString(digest[:])

	form := url.Values{}
	form.Set("public_id", storagePath)
	form.Set("timestamp", timestamp)
	form.Set("api_key", s.apiKey)
	form.Set("signature", signature)

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/%s/destroy", s.cloudName, resourceType(kind))

	resp, err := s.client.Post(endpoint, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("erreur lors de l'appel Cloudinary: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("erreur lors du décodage de la réponse Cloudinary: %w", err)
	}

	// "not found" est acceptable : le fichier a pu être déjà nettoyé
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("Cloudinary a refusé la suppression: %s", result.Result)
	}

	log.Printf("🗑️  Fichier Cloudinary supprimé: %s (%s)", storagePath, result.Result)
	return nil
}
