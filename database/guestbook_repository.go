package database

import (
	"context"
	"fmt"
	"jour-j-backend/models"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GuestbookRepository gère les opérations sur les entrées du livre d'or
type GuestbookRepository struct {
	collection *mongo.Collection
}

// NewGuestbookRepository crée une nouvelle instance de GuestbookRepository
func NewGuestbookRepository(db *mongo.Database) *GuestbookRepository {
	return &GuestbookRepository{
		collection: db.Collection("guestbook_entries"),
	}
}

// Create crée une nouvelle entrée du livre d'or
func (r *GuestbookRepository) Create(entry *models.GuestbookEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	if entry.Likes == nil {
		entry.Likes = []models.Like{}
	}
	if entry.Replies == nil {
		entry.Replies = []models.Comment{}
	}

	_, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("erreur lors de la création de l'entrée du livre d'or: %w", err)
	}

	return nil
}

// FindByID recherche une entrée par ID
func (r *GuestbookRepository) FindByID(id primitive.ObjectID) (*models.GuestbookEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var entry models.GuestbookEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de l'entrée: %w", err)
	}

	return &entry, nil
}

// FindByEvent retourne les entrées du livre d'or d'un événement.
// publicOnly limite aux entrées approuvées et non masquées (vue invité).
func (r *GuestbookRepository) FindByEvent(eventID primitive.ObjectID, publicOnly bool) ([]models.GuestbookEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"event_id": eventID}
	if publicOnly {
		filter["status"] = models.StatusApproved
		filter["visibility.is_hidden"] = false
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "visibility.is_pinned", Value: -1},
		{Key: "created_at", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des entrées: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.GuestbookEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des entrées: %w", err)
	}

	return entries, nil
}

// FindByEventAndStatus retourne les entrées d'un événement avec un statut donné
func (r *GuestbookRepository) FindByEventAndStatus(eventID primitive.ObjectID, status models.ModerationStatus) ([]models.GuestbookEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"event_id": eventID, "status": status}, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des entrées: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.GuestbookEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des entrées: %w", err)
	}

	return entries, nil
}

// AddLike ajoute un "j'aime" atomique dédupliqué par nom d'invité (doublon = no-op)
func (r *GuestbookRepository) AddLike(id primitive.ObjectID, like models.Like) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"_id":             id,
		"likes.guest_name": bson.M{"$ne": like.GuestName},
	}
	update := bson.M{
		"$push": bson.M{"likes": like},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("erreur lors de l'ajout du j'aime: %w", err)
	}

	return result.ModifiedCount > 0, nil
}

// AddReply ajoute une réponse en fin de liste (atomique, $push)
func (r *GuestbookRepository) AddReply(id primitive.ObjectID, reply models.Comment) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"replies": reply},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("erreur lors de l'ajout de la réponse: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("entrée non trouvée")
	}

	return nil
}

// SetStatus change le statut de modération d'une entrée.
// Retourne true uniquement sur un vrai changement (voir MediaRepository.SetStatus).
func (r *GuestbookRepository) SetStatus(id primitive.ObjectID, status models.ModerationStatus) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": id, "status": bson.M{"$ne": status}}
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("erreur lors du changement de statut: %w", err)
	}

	return result.ModifiedCount > 0, nil
}

// SetStatusBulk applique le même statut à plusieurs entrées d'un même événement,
// en excluant silencieusement les IDs d'autres événements
func (r *GuestbookRepository) SetStatusBulk(eventID primitive.ObjectID, ids []primitive.ObjectID, status models.ModerationStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"_id":      bson.M{"$in": ids},
		"event_id": eventID,
		"status":   bson.M{"$ne": status},
	}
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("erreur lors du changement de statut en masse: %w", err)
	}

	return result.ModifiedCount, nil
}

// SetVisibility met à jour les drapeaux de curation
func (r *GuestbookRepository) SetVisibility(id primitive.ObjectID, flags models.VisibilityFlags) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"visibility": flags, "updated_at": time.Now()}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour de la visibilité: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("entrée non trouvée")
	}

	return nil
}

// Delete supprime une entrée
func (r *GuestbookRepository) Delete(id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("erreur lors de la suppression de l'entrée: %w", err)
	}

	return nil
}

// DeleteByEvent supprime toutes les entrées d'un événement (cascade)
func (r *GuestbookRepository) DeleteByEvent(eventID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.collection.DeleteMany(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return fmt.Errorf("erreur lors de la suppression des entrées de l'événement: %w", err)
	}

	return nil
}

// CountByEventAndStatus compte les entrées d'un événement par statut
func (r *GuestbookRepository) CountByEventAndStatus(eventID primitive.ObjectID, status models.ModerationStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"event_id": eventID,
		"status":   status,
	})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des entrées: %w", err)
	}

	return count, nil
}
