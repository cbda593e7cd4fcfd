package repository

import (
	"context"
	"peakform/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
	// ErrPartialWrite signals a multi-step tree replace that aborted after
	// the old tree was discarded. Surfaced, never retried here.
	ErrPartialWrite = RepositoryError("partial tree write")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddClientIDToCoach(ctx context.Context, coachID, clientID primitive.ObjectID) error
	GetClientsByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
	SetCoachForClient(ctx context.Context, clientID, coachID primitive.ObjectID) error
}

// CatalogRepository defines the interface for interacting with knowledge
// hub items.
type CatalogRepository interface {
	Create(ctx context.Context, item *domain.CatalogItem) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CatalogItem, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.CatalogItem, error)
	ListByCoach(ctx context.Context, coachID primitive.ObjectID, kind domain.CatalogKind, includeDrafts bool) ([]domain.CatalogItem, error)
	Update(ctx context.Context, item *domain.CatalogItem) error
	Delete(ctx context.Context, id primitive.ObjectID, coachID primitive.ObjectID) error // Ensure coach owns the item
}

// ProgramRepository defines the interface for program documents and their
// week/day/block trees. The tree lives in its own collection and is always
// replaced wholesale (no partial structural edits server-side).
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Program, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Program, error)
	Update(ctx context.Context, program *domain.Program) error
	Delete(ctx context.Context, id primitive.ObjectID, coachID primitive.ObjectID) error

	// ReplaceTree discards the stored tree for the program and writes the
	// submitted one in declared order. Returns ErrPartialWrite if the write
	// aborts after the old tree was removed.
	ReplaceTree(ctx context.Context, programID primitive.ObjectID, weeks []domain.Week) error
	// GetTree reconstructs the stored tree in week order.
	GetTree(ctx context.Context, programID primitive.ObjectID) ([]domain.Week, error)
	// DeleteTree removes the stored tree (used when the program is deleted).
	DeleteTree(ctx context.Context, programID primitive.ObjectID) error
	// CountWeeks returns the number of stored weeks per program for the
	// given program ids (listing enrichment).
	CountWeeks(ctx context.Context, programIDs []primitive.ObjectID) (map[primitive.ObjectID]int, error)
}

// AssignmentRepository defines the interface for program assignment records.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.ProgramAssignment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramAssignment, error)
	GetActiveByProgramID(ctx context.Context, programID primitive.ObjectID) (*domain.ProgramAssignment, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID, activeOnly bool) ([]domain.ProgramAssignment, error)
	Deactivate(ctx context.Context, id primitive.ObjectID) error
}

// MediaRepository defines the interface for upload metadata. Files
// themselves live in object storage.
type MediaRepository interface {
	Create(ctx context.Context, upload *domain.MediaUpload) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MediaUpload, error)
}
