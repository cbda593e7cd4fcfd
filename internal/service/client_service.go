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
	ErrProgramNotAssignedToClient = errors.New("program is not assigned to this client")
)

// AssignedProgram is a client-facing listing entry: the program plus the
// coach's personal message and name.
type AssignedProgram struct {
	Program         domain.Program `json:"program"`
	CoachName       string         `json:"coachName,omitempty"`
	PersonalMessage string         `json:"personalMessage,omitempty"`
}

// --- Service Interface ---
type ClientService interface {
	// GetMyPrograms lists the programs currently assigned to the client.
	GetMyPrograms(ctx context.Context, clientID primitive.ObjectID) ([]AssignedProgram, error)
	// GetMyProgram returns the full resolved view of one assigned program.
	GetMyProgram(ctx context.Context, clientID, programID primitive.ObjectID) (*ProgramView, error)
}

// --- Service Implementation ---

// clientService implements the ClientService interface. Read-only: clients
// consume programs and never mutate them.
type clientService struct {
	programRepo repository.ProgramRepository
	catalogRepo repository.CatalogRepository
	userRepo    repository.UserRepository
}

// NewClientService creates a new instance of clientService.
func NewClientService(
	programRepo repository.ProgramRepository,
	catalogRepo repository.CatalogRepository,
	userRepo repository.UserRepository,
) ClientService {
	return &clientService{
		programRepo: programRepo,
		catalogRepo: catalogRepo,
		userRepo:    userRepo,
	}
}

// GetMyPrograms retrieves the programs assigned to the client, enriched
// with the coach's display name.
func (s *clientService) GetMyPrograms(ctx context.Context, clientID primitive.ObjectID) ([]AssignedProgram, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}
	programs, err := s.programRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	coachNames := make(map[primitive.ObjectID]string)
	result := make([]AssignedProgram, len(programs))
	for i, p := range programs {
		name, ok := coachNames[p.CoachID]
		if !ok {
			if coach, err := s.userRepo.GetByID(ctx, p.CoachID); err == nil {
				name = coach.Name
			}
			coachNames[p.CoachID] = name
		}
		result[i] = AssignedProgram{
			Program:         p,
			CoachName:       name,
			PersonalMessage: p.PersonalMessage,
		}
	}
	return result, nil
}

// GetMyProgram loads one assigned program with its tree and catalog
// references resolved for consumption.
func (s *clientService) GetMyProgram(ctx context.Context, clientID, programID primitive.ObjectID) (*ProgramView, error) {
	if clientID == primitive.NilObjectID || programID == primitive.NilObjectID {
		return nil, errors.New("client ID and program ID are required")
	}

	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if program.State != domain.ProgramStateAssigned || program.ClientID == nil || *program.ClientID != clientID {
		return nil, ErrProgramNotAssignedToClient
	}

	tree, err := s.programRepo.GetTree(ctx, programID)
	if err != nil {
		return nil, err
	}

	refs := collectCatalogRefs(tree)
	items, err := s.catalogRepo.GetByIDs(ctx, refs)
	if err != nil {
		return nil, err
	}
	itemsByID := make(map[primitive.ObjectID]domain.CatalogItem, len(items))
	for _, item := range items {
		itemsByID[item.ID] = item
	}

	view := &ProgramView{
		Program: *program,
		Weeks:   resolveTree(tree, itemsByID),
	}
	return view, nil
}
