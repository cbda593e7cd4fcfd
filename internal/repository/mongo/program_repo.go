// internal/repository/mongo/program_repo.go
package mongo

import (
	"context"
	"errors"
	"fmt"
	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	programCollectionName     = "programs"
	programTreeCollectionName = "program_weeks"
)

// mongoProgramRepository implements repository.ProgramRepository. Program
// documents and their week/day/block trees live in separate collections;
// the tree is always written wholesale (see ReplaceTree).
type mongoProgramRepository struct {
	programs *mongo.Collection
	weeks    *mongo.Collection
}

// NewMongoProgramRepository creates a new Program repository backed by MongoDB.
func NewMongoProgramRepository(db *mongo.Database) repository.ProgramRepository {
	return &mongoProgramRepository{
		programs: db.Collection(programCollectionName),
		weeks:    db.Collection(programTreeCollectionName),
	}
}

// Create inserts a new program document. The tree is persisted separately
// via ReplaceTree.
func (r *mongoProgramRepository) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	if program.Title == "" || program.CoachID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("program title and coach ID are required")
	}
	if program.State == "" {
		return primitive.NilObjectID, errors.New("program state is required")
	}

	program.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now

	result, err := r.programs.InsertOne(ctx, program)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single program document by its ID (without the tree).
func (r *mongoProgramRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	var program domain.Program
	filter := bson.M{"_id": id}

	err := r.programs.FindOne(ctx, filter).Decode(&program)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

// GetByCoachID retrieves all programs owned by a coach, newest first.
func (r *mongoProgramRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Program, error) {
	return r.find(ctx, bson.M{"coachId": coachID})
}

// GetByClientID retrieves all programs currently assigned to a client.
func (r *mongoProgramRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Program, error) {
	return r.find(ctx, bson.M{"clientId": clientID, "state": domain.ProgramStateAssigned})
}

func (r *mongoProgramRepository) find(ctx context.Context, filter bson.M) ([]domain.Program, error) {
	var programs []domain.Program
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.programs.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &programs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return programs, nil
}

// Update overwrites the mutable fields of a program document. Lifecycle
// fields are written exactly as carried on the struct: the service layer is
// responsible for merging them first (an editing save must never strip
// assignment or listing data). Nil optional fields are unset.
func (r *mongoProgramRepository) Update(ctx context.Context, program *domain.Program) error {
	if program.ID == primitive.NilObjectID {
		return errors.New("program ID is required for update")
	}
	if program.Title == "" {
		return errors.New("program title cannot be empty")
	}

	set := bson.M{
		"title":         program.Title,
		"description":   program.Description,
		"category":      program.Category,
		"tags":          program.Tags,
		"headerImage":   program.HeaderImage,
		"guidanceText":  program.GuidanceText,
		"proTip":        program.ProTip,
		"avoidanceText": program.AvoidanceText,
		"state":         program.State,
		"updatedAt":     time.Now().UTC(),
		// Note: we specifically DO NOT set coachId or createdAt here
	}
	unset := bson.M{}

	setOrUnset := func(key string, present bool, value interface{}) {
		if present {
			set[key] = value
		} else {
			unset[key] = ""
		}
	}
	setOrUnset("clientId", program.ClientID != nil, program.ClientID)
	setOrUnset("assignedAt", program.AssignedAt != nil, program.AssignedAt)
	setOrUnset("personalMessage", program.PersonalMessage != "", program.PersonalMessage)
	setOrUnset("shopPrice", program.ShopPrice != nil, program.ShopPrice)
	setOrUnset("shopListedAt", program.ShopListedAt != nil, program.ShopListedAt)

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	result, err := r.programs.UpdateOne(ctx, bson.M{"_id": program.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a program document, ensuring the coach owns it. The
// lifecycle guard (draft/saved only) is enforced by the service layer.
func (r *mongoProgramRepository) Delete(ctx context.Context, id primitive.ObjectID, coachID primitive.ObjectID) error {
	if id == primitive.NilObjectID || coachID == primitive.NilObjectID {
		return errors.New("program ID and coach ID are required for deletion")
	}

	filter := bson.M{
		"_id":     id,
		"coachId": coachID,
	}

	result, err := r.programs.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ReplaceTree discards the stored week/day/block tree for the program and
// writes the submitted tree in full, preserving declared order. The replace
// is multi-step: a failure after the delete leaves no (or a partial) tree
// behind and is surfaced as ErrPartialWrite. There is no automatic
// rollback; the caller re-saves to recover.
func (r *mongoProgramRepository) ReplaceTree(ctx context.Context, programID primitive.ObjectID, weeks []domain.Week) error {
	if programID == primitive.NilObjectID {
		return errors.New("program ID is required to replace a tree")
	}

	if _, err := r.weeks.DeleteMany(ctx, bson.M{"programId": programID}); err != nil {
		return err
	}

	if len(weeks) == 0 {
		return nil // Zero weeks is a valid tree
	}

	docs := make([]interface{}, len(weeks))
	for i := range weeks {
		week := weeks[i]
		week.ProgramID = programID
		if week.ID == primitive.NilObjectID {
			week.ID = primitive.NewObjectID()
		}
		for di := range week.Days {
			if week.Days[di].ID == primitive.NilObjectID {
				week.Days[di].ID = primitive.NewObjectID()
			}
			for bi := range week.Days[di].Blocks {
				if week.Days[di].Blocks[bi].ID == primitive.NilObjectID {
					week.Days[di].Blocks[bi].ID = primitive.NewObjectID()
				}
			}
		}
		docs[i] = week
	}

	// Ordered insert: an error aborts mid-write, so the old tree is already
	// gone and only a prefix of the new one may exist.
	_, err := r.weeks.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrPartialWrite, err)
	}
	return nil
}

// GetTree reconstructs the stored tree for a program in week order. Days
// and blocks are embedded in their week documents and come back exactly as
// submitted.
func (r *mongoProgramRepository) GetTree(ctx context.Context, programID primitive.ObjectID) ([]domain.Week, error) {
	var weeks []domain.Week
	filter := bson.M{"programId": programID}
	findOptions := options.Find().SetSort(bson.D{{Key: "weekNumber", Value: 1}})

	cursor, err := r.weeks.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &weeks); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	if weeks == nil {
		weeks = []domain.Week{}
	}
	return weeks, nil
}

// DeleteTree removes all stored weeks for a program.
func (r *mongoProgramRepository) DeleteTree(ctx context.Context, programID primitive.ObjectID) error {
	_, err := r.weeks.DeleteMany(ctx, bson.M{"programId": programID})
	return err
}

// CountWeeks returns the stored week count per program for the given ids.
// Programs with no weeks are simply absent from the map.
func (r *mongoProgramRepository) CountWeeks(ctx context.Context, programIDs []primitive.ObjectID) (map[primitive.ObjectID]int, error) {
	counts := make(map[primitive.ObjectID]int, len(programIDs))
	if len(programIDs) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"programId": bson.M{"$in": programIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$programId", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.weeks.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ProgramID primitive.ObjectID `bson:"_id"`
		Count     int                `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ProgramID] = row.Count
	}
	return counts, nil
}

// EnsureProgramIndexes creates necessary indexes. Call during startup.
func EnsureProgramIndexes(ctx context.Context, programs, weeks *mongo.Collection) {
	programIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "state", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index().SetSparse(true), // Only assigned programs carry clientId
		},
	}
	if _, err := programs.Indexes().CreateMany(ctx, programIndexes); err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", programs.Name(), err)
	}

	weekIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "programId", Value: 1}, {Key: "weekNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := weeks.Indexes().CreateMany(ctx, weekIndexes); err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", weeks.Name(), err)
	}
}
