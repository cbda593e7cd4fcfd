// internal/domain/program.go
package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramState type for the program lifecycle
type ProgramState string

const (
	ProgramStateDraft    ProgramState = "draft"
	ProgramStateSaved    ProgramState = "saved"
	ProgramStateAssigned ProgramState = "assigned" // Attached to a specific client
	ProgramStateInShop   ProgramState = "in_shop"  // Listed for purchase
)

// ProgramCategory type for the coaching discipline of a program
type ProgramCategory string

const (
	CategoryFitness   ProgramCategory = "fitness"
	CategoryNutrition ProgramCategory = "nutrition"
	CategoryMental    ProgramCategory = "mental"
)

// BlockType distinguishes the payload carried by a content block.
type BlockType string

const (
	BlockTypeExercise  BlockType = "exercise"
	BlockTypeRecipe    BlockType = "recipe"
	BlockTypeMental    BlockType = "mental"
	BlockTypeText      BlockType = "text"
	BlockTypeImage     BlockType = "image"
	BlockTypeVideo     BlockType = "video"
	BlockTypeURL       BlockType = "url"
	BlockTypeProTip    BlockType = "pro_tip"
	BlockTypeAvoidance BlockType = "avoidance"
)

// BlockData is the type-specific payload of a content block. Only the
// fields relevant to the block's type are populated; the rest stay empty
// and are omitted from storage.
type BlockData struct {
	Text        string `bson:"text,omitempty" json:"text,omitempty"`
	ImageURL    string `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	VideoURL    string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	LinkURL     string `bson:"linkUrl,omitempty" json:"linkUrl,omitempty"`
	Sets        int    `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps        int    `bson:"reps,omitempty" json:"reps,omitempty"`
	RestSeconds int    `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	Portions    int    `bson:"portions,omitempty" json:"portions,omitempty"`
	DurationMin int    `bson:"durationMin,omitempty" json:"durationMin,omitempty"`
}

// ContentBlock is the smallest addressable unit of program content within
// a day. A block with CatalogRef set carries only program-specific overlay
// data (e.g. a set/rep scheme); name and media are resolved from the
// catalog at read time. A block without CatalogRef is self-contained.
type ContentBlock struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Type       BlockType           `bson:"type" json:"type"`
	Order      int                 `bson:"order" json:"order"` // Unique within the parent day
	Data       BlockData           `bson:"data,omitempty" json:"data"`
	CatalogRef *primitive.ObjectID `bson:"catalogRef,omitempty" json:"catalogRef,omitempty"`
}

// Day groups the ordered blocks of a single program day.
type Day struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	DayNumber int                `bson:"dayNumber" json:"dayNumber"` // Unique within the parent week
	Blocks    []ContentBlock     `bson:"blocks" json:"blocks"`
}

// Week groups the ordered days of a single program week. Weeks are stored
// as their own documents keyed by ProgramID; days and blocks are embedded.
type Week struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID  primitive.ObjectID `bson:"programId" json:"programId"`
	WeekNumber int                `bson:"weekNumber" json:"weekNumber"` // Unique and consecutive within the program
	Title      string             `bson:"title,omitempty" json:"title,omitempty"`
	Days       []Day              `bson:"days" json:"days"`
}

// Program is the root entity a coach authors and eventually assigns to a
// client or lists in the shop. The week/day/block tree is persisted
// separately from the program document and attached on load.
type Program struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID       primitive.ObjectID `bson:"coachId" json:"coachId"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Category      ProgramCategory    `bson:"category" json:"category"`
	Tags          []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	HeaderImage   string             `bson:"headerImage,omitempty" json:"headerImage,omitempty"`
	GuidanceText  string             `bson:"guidanceText,omitempty" json:"guidanceText,omitempty"`
	ProTip        string             `bson:"proTip,omitempty" json:"proTip,omitempty"`
	AvoidanceText string             `bson:"avoidanceText,omitempty" json:"avoidanceText,omitempty"`

	State ProgramState `bson:"state" json:"state"`

	// Set iff State == assigned.
	ClientID        *primitive.ObjectID `bson:"clientId,omitempty" json:"clientId,omitempty"`
	AssignedAt      *time.Time          `bson:"assignedAt,omitempty" json:"assignedAt,omitempty"`
	PersonalMessage string              `bson:"personalMessage,omitempty" json:"personalMessage,omitempty"`

	// Set iff State == in_shop.
	ShopPrice    *float64   `bson:"shopPrice,omitempty" json:"shopPrice,omitempty"`
	ShopListedAt *time.Time `bson:"shopListedAt,omitempty" json:"shopListedAt,omitempty"`

	Weeks []Week `bson:"-" json:"weeks"` // Loaded from the tree collection, never embedded

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Deletable reports whether the program may be destroyed in its current
// state. Assigned and listed programs must be unassigned/delisted first.
func (p *Program) Deletable() bool {
	return p.State == ProgramStateDraft || p.State == ProgramStateSaved
}

// CheckLifecycleFields verifies the state/field coupling: assignment
// fields are present iff the program is assigned, shop fields iff it is
// listed. Returns a descriptive error on the first violation.
func (p *Program) CheckLifecycleFields() error {
	assigned := p.State == ProgramStateAssigned
	if assigned != (p.ClientID != nil) || assigned != (p.AssignedAt != nil) {
		return fmt.Errorf("program %s: state %q inconsistent with assignment fields", p.ID.Hex(), p.State)
	}
	listed := p.State == ProgramStateInShop
	if listed != (p.ShopPrice != nil) || listed != (p.ShopListedAt != nil) {
		return fmt.Errorf("program %s: state %q inconsistent with shop fields", p.ID.Hex(), p.State)
	}
	return nil
}

// ValidateTree checks the structural invariants of a week/day/block tree:
// week numbers unique and consecutive starting at 1, day numbers unique
// within their week, block order values unique within their day. The
// submitted sequence itself is preserved as-is; validation never reorders.
// An empty tree is valid (a program may have zero weeks).
func ValidateTree(weeks []Week) error {
	seenWeeks := make(map[int]bool, len(weeks))
	for i, w := range weeks {
		if w.WeekNumber != i+1 {
			return fmt.Errorf("week at position %d has number %d, want %d", i, w.WeekNumber, i+1)
		}
		if seenWeeks[w.WeekNumber] {
			return fmt.Errorf("duplicate week number %d", w.WeekNumber)
		}
		seenWeeks[w.WeekNumber] = true

		seenDays := make(map[int]bool, len(w.Days))
		for _, d := range w.Days {
			if seenDays[d.DayNumber] {
				return fmt.Errorf("week %d: duplicate day number %d", w.WeekNumber, d.DayNumber)
			}
			seenDays[d.DayNumber] = true

			seenOrders := make(map[int]bool, len(d.Blocks))
			for _, b := range d.Blocks {
				if seenOrders[b.Order] {
					return fmt.Errorf("week %d day %d: duplicate block order %d", w.WeekNumber, d.DayNumber, b.Order)
				}
				seenOrders[b.Order] = true
			}
		}
	}
	return nil
}
