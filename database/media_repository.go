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

// MediaRepository gère les opérations sur les médias
type MediaRepository struct {
	collection *mongo.Collection
}

// NewMediaRepository crée une nouvelle instance de MediaRepository
func NewMediaRepository(db *mongo.Database) *MediaRepository {
	return &MediaRepository{
		collection: db.Collection("medias"),
	}
}

// Create crée un nouveau média
func (r *MediaRepository) Create(media *models.Media) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	media.ID = primitive.NewObjectID()
	media.CreatedAt = time.Now()
	media.UpdatedAt = media.CreatedAt
	if media.Likes == nil {
		media.Likes = []models.Like{}
	}
	if media.Comments == nil {
		media.Comments = []models.Comment{}
	}

	_, err := r.collection.InsertOne(ctx, media)
	if err != nil {
		return fmt.Errorf("erreur lors de la création du média: %w", err)
	}

	return nil
}

// FindByID recherche un média par ID
func (r *MediaRepository) FindByID(id primitive.ObjectID) (*models.Media, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var media models.Media
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&media)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche du média: %w", err)
	}

	return &media, nil
}

// FindByEvent retourne les médias d'un événement.
// publicOnly limite aux médias approuvés et non masqués (vue invité) ;
// sinon tout est retourné (vue marié/photographe).
func (r *MediaRepository) FindByEvent(eventID primitive.ObjectID, publicOnly bool) ([]models.Media, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"event_id": eventID}
	if publicOnly {
		filter["status"] = models.StatusApproved
		filter["visibility.is_hidden"] = false
	}

	// Épinglés d'abord, puis du plus récent au plus ancien
	opts := options.Find().SetSort(bson.D{
		{Key: "visibility.is_pinned", Value: -1},
		{Key: "created_at", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des médias: %w", err)
	}
	defer cursor.Close(ctx)

	var medias []models.Media
	if err = cursor.All(ctx, &medias); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des médias: %w", err)
	}

	return medias, nil
}

// FindByEventAndStatus retourne les médias d'un événement avec un statut donné
func (r *MediaRepository) FindByEventAndStatus(eventID primitive.ObjectID, status models.ModerationStatus) ([]models.Media, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"event_id": eventID, "status": status}, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des médias: %w", err)
	}
	defer cursor.Close(ctx)

	var medias []models.Media
	if err = cursor.All(ctx, &medias); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des médias: %w", err)
	}

	return medias, nil
}

// AddLike ajoute un "j'aime" de façon atomique, dédupliqué par nom d'invité.
// Le filtre exclut les documents contenant déjà ce nom : deux requêtes
// concurrentes avec le même nom ne produisent qu'une seule entrée, et un
// doublon est un no-op (retourne false, pas une erreur).
func (r *MediaRepository) AddLike(id primitive.ObjectID, like models.Like) (bool, error) {
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

// AddComment ajoute un commentaire en fin de liste (atomique, $push)
func (r *MediaRepository) AddComment(id primitive.ObjectID, comment models.Comment) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("erreur lors de l'ajout du commentaire: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("média non trouvé")
	}

	return nil
}

// SetStatus change le statut de modération d'un média.
// Le filtre sur l'ancien statut rend l'opération idempotente : retourne true
// uniquement si le document a réellement changé de statut, ce qui sert de
// signal unique pour le broadcast (pas de double diffusion possible).
func (r *MediaRepository) SetStatus(id primitive.ObjectID, status models.ModerationStatus) (bool, error) {
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

// SetStatusBulk applique le même statut à plusieurs médias d'un même événement.
// Les IDs n'appartenant pas à l'événement sont exclus par le filtre : ils ne
// sont jamais modifiés et ne font pas échouer les autres.
func (r *MediaRepository) SetStatusBulk(eventID primitive.ObjectID, ids []primitive.ObjectID, status models.ModerationStatus) (int64, error) {
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

// SetVisibility met à jour les drapeaux de curation (masqué/mis en avant/épinglé)
func (r *MediaRepository) SetVisibility(id primitive.ObjectID, flags models.VisibilityFlags) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"visibility": flags, "updated_at": time.Now()}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour de la visibilité: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("média non trouvé")
	}

	return nil
}

// IncrementViews incrémente le compteur de vues
func (r *MediaRepository) IncrementViews(id primitive.ObjectID) error {
	return r.increment(id, "views")
}

// IncrementDownloads incrémente le compteur de téléchargements
func (r *MediaRepository) IncrementDownloads(id primitive.ObjectID) error {
	return r.increment(id, "downloads")
}

func (r *MediaRepository) increment(id primitive.ObjectID, field string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{field: 1}})
	if err != nil {
		return fmt.Errorf("erreur lors de l'incrémentation du compteur %s: %w", field, err)
	}

	return nil
}

// Delete supprime un média
func (r *MediaRepository) Delete(id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("erreur lors de la suppression du média: %w", err)
	}

	return nil
}

// DeleteByEvent supprime tous les médias d'un événement (cascade)
func (r *MediaRepository) DeleteByEvent(eventID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.collection.DeleteMany(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return fmt.Errorf("erreur lors de la suppression des médias de l'événement: %w", err)
	}

	return nil
}

// CountByEventKindStatus compte les médias d'un événement par type et statut
func (r *MediaRepository) CountByEventKindStatus(eventID primitive.ObjectID, kind models.ContentKind, status models.ModerationStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"event_id": eventID,
		"kind":     kind,
		"status":   status,
	})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des médias: %w", err)
	}

	return count, nil
}

// CountPendingByEvent compte les médias en attente de modération
func (r *MediaRepository) CountPendingByEvent(eventID primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"event_id": eventID,
		"status":   models.StatusPending,
	})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des médias en attente: %w", err)
	}

	return count, nil
}
