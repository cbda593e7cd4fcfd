// internal/repository/mongo/catalog_repo.go
package mongo

import (
	"context"
	"errors"
	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const catalogCollectionName = "catalog_items"

// mongoCatalogRepository implements repository.CatalogRepository
type mongoCatalogRepository struct {
	collection *mongo.Collection
}

// NewMongoCatalogRepository creates a new CatalogItem repository backed by MongoDB.
func NewMongoCatalogRepository(db *mongo.Database) repository.CatalogRepository {
	return &mongoCatalogRepository{
		collection: db.Collection(catalogCollectionName),
	}
}

// Create inserts a new catalog item into the database.
func (r *mongoCatalogRepository) Create(ctx context.Context, item *domain.CatalogItem) (primitive.ObjectID, error) {
	if item.Name == "" || item.CoachID == primitive.NilObjectID || item.Kind == "" {
		return primitive.NilObjectID, errors.New("catalog item name, coach ID, and kind are required")
	}

	item.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a catalog item by its ID.
func (r *mongoCatalogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CatalogItem, error) {
	var item domain.CatalogItem
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetByIDs retrieves all catalog items matching the given ids. Missing ids
// are simply absent from the result; the read path degrades gracefully.
func (r *mongoCatalogRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.CatalogItem, error) {
	if len(ids) == 0 {
		return []domain.CatalogItem{}, nil
	}

	var items []domain.CatalogItem
	filter := bson.M{"_id": bson.M{"$in": ids}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ListByCoach retrieves catalog items owned by a coach, optionally filtered
// by kind. Draft items are excluded unless includeDrafts is set.
func (r *mongoCatalogRepository) ListByCoach(ctx context.Context, coachID primitive.ObjectID, kind domain.CatalogKind, includeDrafts bool) ([]domain.CatalogItem, error) {
	var items []domain.CatalogItem
	filter := bson.M{"coachId": coachID}
	if kind != "" {
		filter["kind"] = kind
	}
	if !includeDrafts {
		filter["isDraft"] = false
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}) // Newest first

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update modifies an existing catalog item. The CoachID is never changed by
// an update; referencing programs pick the new field values up live.
func (r *mongoCatalogRepository) Update(ctx context.Context, item *domain.CatalogItem) error {
	if item.ID == primitive.NilObjectID {
		return errors.New("catalog item ID is required for update")
	}
	if item.Name == "" {
		return errors.New("catalog item name cannot be empty")
	}

	filter := bson.M{"_id": item.ID}
	update := bson.M{
		"$set": bson.M{
			"name":        item.Name,
			"description": item.Description,
			"isDraft":     item.IsDraft,
			"imageUrl":    item.ImageURL,
			"videoUrl":    item.VideoURL,
			"muscleGroup": item.MuscleGroup,
			"difficulty":  item.Difficulty,
			"equipment":   item.Equipment,
			"ingredients": item.Ingredients,
			"calories":    item.Calories,
			"prepMinutes": item.PrepMinutes,
			"audioUrl":    item.AudioURL,
			"durationMin": item.DurationMin,
			"updatedAt":   time.Now().UTC(),
			// Note: we specifically DO NOT set coachId or kind here
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a catalog item, ensuring the coach owns it. Referencing
// blocks are left untouched; their display degrades to inline data.
func (r *mongoCatalogRepository) Delete(ctx context.Context, id primitive.ObjectID, coachID primitive.ObjectID) error {
	if id == primitive.NilObjectID || coachID == primitive.NilObjectID {
		return errors.New("catalog item ID and coach ID are required for deletion")
	}

	filter := bson.M{
		"_id":     id,
		"coachId": coachID,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCatalogIndexes creates necessary indexes. Call during startup.
func EnsureCatalogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Main query pattern: a coach listing their items by kind
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "kind", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "isDraft", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
