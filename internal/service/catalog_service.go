package service

import (
	"context"
	"errors"
	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrCatalogItemNotFound     = errors.New("catalog item not found")
	ErrCatalogItemAccessDenied = errors.New("access denied to modify or delete this catalog item")
	ErrValidationFailed        = errors.New("validation failed")
)

// CatalogItemInput carries the coach-editable fields of a catalog item.
type CatalogItemInput struct {
	Name        string
	Description string
	IsDraft     bool
	ImageURL    string
	VideoURL    string
	MuscleGroup string
	Difficulty  string
	Equipment   string
	Ingredients []string
	Calories    int
	PrepMinutes int
	AudioURL    string
	DurationMin int
}

// --- Service Interface ---
type CatalogService interface {
	CreateItem(ctx context.Context, coachID primitive.ObjectID, kind domain.CatalogKind, input CatalogItemInput) (*domain.CatalogItem, error)
	GetItemByID(ctx context.Context, itemID primitive.ObjectID) (*domain.CatalogItem, error)
	ListItems(ctx context.Context, coachID primitive.ObjectID, kind domain.CatalogKind, includeDrafts bool) ([]domain.CatalogItem, error)
	UpdateItem(ctx context.Context, coachID, itemID primitive.ObjectID, input CatalogItemInput) (*domain.CatalogItem, error)
	DeleteItem(ctx context.Context, coachID, itemID primitive.ObjectID) error
}

// --- Service Implementation ---

// catalogService implements the CatalogService interface.
type catalogService struct {
	catalogRepo repository.CatalogRepository
}

// NewCatalogService creates a new instance of catalogService.
func NewCatalogService(catalogRepo repository.CatalogRepository) CatalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
	}
}

// CreateItem handles the creation of a new knowledge hub item by a coach.
func (s *catalogService) CreateItem(ctx context.Context, coachID primitive.ObjectID, kind domain.CatalogKind, input CatalogItemInput) (*domain.CatalogItem, error) {
	if input.Name == "" {
		return nil, ErrValidationFailed
	}
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required to create a catalog item")
	}
	if kind != domain.KindExercise && kind != domain.KindRecipe && kind != domain.KindMentalExercise {
		return nil, ErrValidationFailed
	}

	item := &domain.CatalogItem{
		CoachID: coachID,
		Kind:    kind,
	}
	applyCatalogInput(item, input)

	itemID, err := s.catalogRepo.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	// Fetch again so CreatedAt/UpdatedAt come back populated.
	return s.catalogRepo.GetByID(ctx, itemID)
}

// GetItemByID retrieves a single catalog item.
func (s *catalogService) GetItemByID(ctx context.Context, itemID primitive.ObjectID) (*domain.CatalogItem, error) {
	item, err := s.catalogRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCatalogItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// ListItems retrieves a coach's catalog items, optionally filtered by kind.
// Draft items are only included when the coach asks for them (the block
// picker in the program editor hides drafts).
func (s *catalogService) ListItems(ctx context.Context, coachID primitive.ObjectID, kind domain.CatalogKind, includeDrafts bool) ([]domain.CatalogItem, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID cannot be nil")
	}
	items, err := s.catalogRepo.ListByCoach(ctx, coachID, kind, includeDrafts)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItem handles updating an existing catalog item, ensuring ownership.
// Edits propagate live to every block referencing the item.
func (s *catalogService) UpdateItem(ctx context.Context, coachID, itemID primitive.ObjectID, input CatalogItemInput) (*domain.CatalogItem, error) {
	if input.Name == "" {
		return nil, ErrValidationFailed
	}
	if coachID == primitive.NilObjectID || itemID == primitive.NilObjectID {
		return nil, errors.New("coach ID and item ID are required")
	}

	existing, err := s.catalogRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCatalogItemNotFound
		}
		return nil, err
	}
	if existing.CoachID != coachID {
		return nil, ErrCatalogItemAccessDenied
	}

	applyCatalogInput(existing, input)

	err = s.catalogRepo.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCatalogItemNotFound
		}
		return nil, err
	}
	return existing, nil
}

// DeleteItem handles deleting a catalog item, ensuring ownership. Blocks
// referencing the item keep their inline data and degrade gracefully at
// render time; no referential integrity is enforced here.
func (s *catalogService) DeleteItem(ctx context.Context, coachID, itemID primitive.ObjectID) error {
	if coachID == primitive.NilObjectID || itemID == primitive.NilObjectID {
		return errors.New("coach ID and item ID are required")
	}

	// The repository's Delete filter includes the coachID, so ownership is
	// enforced at the DB level.
	err := s.catalogRepo.Delete(ctx, itemID, coachID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCatalogItemNotFound
		}
		return err
	}
	return nil
}

// applyCatalogInput copies the editable fields of the input onto the item.
// CoachID and Kind are never touched by an edit.
func applyCatalogInput(item *domain.CatalogItem, input CatalogItemInput) {
	item.Name = input.Name
	item.Description = input.Description
	item.IsDraft = input.IsDraft
	item.ImageURL = input.ImageURL
	item.VideoURL = input.VideoURL
	item.MuscleGroup = input.MuscleGroup
	item.Difficulty = input.Difficulty
	item.Equipment = input.Equipment
	item.Ingredients = input.Ingredients
	item.Calories = input.Calories
	item.PrepMinutes = input.PrepMinutes
	item.AudioURL = input.AudioURL
	item.DurationMin = input.DurationMin
}
