package models

// ModerationRequest représente une action de modération sur un contenu
type ModerationRequest struct {
	Action string `json:"action"` // "approve" ou "reject"
}

// BulkModerationRequest représente une action de modération en masse
type BulkModerationRequest struct {
	IDs    []string `json:"ids"`
	Action string   `json:"action"`
}

// VisibilityRequest représente la mise à jour des drapeaux de curation
type VisibilityRequest struct {
	IsHidden   bool `json:"is_hidden"`
	IsFeatured bool `json:"is_featured"`
	IsPinned   bool `json:"is_pinned"`
}

// PendingContentResponse représente la file de modération d'un événement
type PendingContentResponse struct {
	EventID          string           `json:"event_id"`
	TotalPending     int              `json:"total_pending"`
	Medias           []Media          `json:"medias"`
	GuestbookEntries []GuestbookEntry `json:"guestbook_entries"`
}
