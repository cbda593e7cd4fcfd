// internal/domain/catalog.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogKind type for the reusable content unit categories
type CatalogKind string

const (
	KindExercise       CatalogKind = "exercise"
	KindRecipe         CatalogKind = "recipe"
	KindMentalExercise CatalogKind = "mental_exercise"
)

// CatalogItem represents a reusable knowledge-hub unit authored by a coach
// independently of any program. Program blocks reference items by id; edits
// to an item are reflected live wherever it is referenced.
type CatalogItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID     primitive.ObjectID `bson:"coachId" json:"coachId"` // Owning coach
	Kind        CatalogKind        `bson:"kind" json:"kind"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	IsDraft     bool               `bson:"isDraft" json:"isDraft"` // Draft items are hidden from block pickers

	// Media shared by all kinds.
	ImageURL string `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	VideoURL string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`

	// Exercise-specific.
	MuscleGroup string `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"` // e.g. "Chest", "Legs"
	Difficulty  string `bson:"difficulty,omitempty" json:"difficulty,omitempty"`   // e.g. "Novice", "Medium", "Advanced"
	Equipment   string `bson:"equipment,omitempty" json:"equipment,omitempty"`     // e.g. "None", "Dumbbells"

	// Recipe-specific.
	Ingredients []string `bson:"ingredients,omitempty" json:"ingredients,omitempty"`
	Calories    int      `bson:"calories,omitempty" json:"calories,omitempty"`
	PrepMinutes int      `bson:"prepMinutes,omitempty" json:"prepMinutes,omitempty"`

	// Mental-exercise-specific.
	AudioURL    string `bson:"audioUrl,omitempty" json:"audioUrl,omitempty"`
	DurationMin int    `bson:"durationMin,omitempty" json:"durationMin,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
