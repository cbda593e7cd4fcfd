// internal/service/program_service.go
package service

import (
	"context"
	"errors"
	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrProgramNotFound     = errors.New("program not found")
	ErrProgramAccessDenied = errors.New("access denied to modify this program")
	ErrInvalidTransition   = errors.New("program state does not permit this transition")
	ErrAssignmentActive    = errors.New("assignment has not expired yet")
)

// ProgramContent is the content patch a coach submits on save. It carries
// everything editable in the program editor and deliberately nothing from
// the lifecycle (state, assignment, shop listing). The caller owns the
// editing session; the engine only sees the flushed result.
type ProgramContent struct {
	Title         string
	Description   string
	Category      domain.ProgramCategory
	Tags          []string
	HeaderImage   string
	GuidanceText  string
	ProTip        string
	AvoidanceText string
	Weeks         []domain.Week
}

// ProgramSummary enriches a program with display data for the coach-facing
// list: the assigned client's name and the stored week count.
type ProgramSummary struct {
	Program    domain.Program `json:"program"`
	ClientName string         `json:"clientName,omitempty"`
	WeekCount  int            `json:"weekCount"`
}

// --- Service Interface ---
type ProgramService interface {
	// Authoring
	SaveDraft(ctx context.Context, coachID, programID primitive.ObjectID, content ProgramContent) (*domain.Program, error)
	CreateOrUpdateProgram(ctx context.Context, coachID, programID primitive.ObjectID, content ProgramContent) (*domain.Program, error)
	DuplicateProgram(ctx context.Context, coachID, programID primitive.ObjectID) (*domain.Program, error)
	DeleteProgram(ctx context.Context, coachID, programID primitive.ObjectID) error

	// Lifecycle transitions
	AssignToClient(ctx context.Context, coachID, programID, clientID primitive.ObjectID, personalMessage string) error
	PublishToShop(ctx context.Context, coachID, programID primitive.ObjectID, price float64) error
	Unassign(ctx context.Context, coachID, programID primitive.ObjectID) error
	DelistFromShop(ctx context.Context, coachID, programID primitive.ObjectID) error

	// Read path
	GetProgram(ctx context.Context, coachID, programID primitive.ObjectID) (*ProgramView, error)
	ListPrograms(ctx context.Context, coachID primitive.ObjectID) ([]ProgramSummary, error)
}

// --- Service Implementation ---

// programService implements the ProgramService interface: the program
// lifecycle engine. It is stateless between calls; all editing happens in
// the caller's session and is flushed wholesale on save.
type programService struct {
	programRepo    repository.ProgramRepository
	assignmentRepo repository.AssignmentRepository
	catalogRepo    repository.CatalogRepository
	userRepo       repository.UserRepository

	// How long an assignment stays effective; unassign is gated on this.
	assignmentDuration time.Duration

	now func() time.Time
}

// NewProgramService creates a new instance of programService.
func NewProgramService(
	programRepo repository.ProgramRepository,
	assignmentRepo repository.AssignmentRepository,
	catalogRepo repository.CatalogRepository,
	userRepo repository.UserRepository,
	assignmentDuration time.Duration,
) ProgramService {
	if assignmentDuration <= 0 {
		assignmentDuration = 28 * 24 * time.Hour
	}
	return &programService{
		programRepo:        programRepo,
		assignmentRepo:     assignmentRepo,
		catalogRepo:        catalogRepo,
		userRepo:           userRepo,
		assignmentDuration: assignmentDuration,
		now:                time.Now,
	}
}

// applyContentEdit merges a content patch onto an existing program. Pure:
// it never touches State, ClientID, AssignedAt, PersonalMessage, ShopPrice,
// or ShopListedAt, so an editing save cannot silently revert an assigned or
// listed program. Returns the updated copy.
func applyContentEdit(existing domain.Program, patch ProgramContent) domain.Program {
	updated := existing
	updated.Title = patch.Title
	updated.Description = patch.Description
	updated.Category = patch.Category
	updated.Tags = append([]string(nil), patch.Tags...)
	updated.HeaderImage = patch.HeaderImage
	updated.GuidanceText = patch.GuidanceText
	updated.ProTip = patch.ProTip
	updated.AvoidanceText = patch.AvoidanceText
	updated.Weeks = patch.Weeks
	return updated
}

// === Authoring ===

// SaveDraft creates or updates a program, keeping (or placing) it in draft
// when it has no lifecycle history. An existing non-draft program is only
// content-edited; its state survives untouched.
func (s *programService) SaveDraft(ctx context.Context, coachID, programID primitive.ObjectID, content ProgramContent) (*domain.Program, error) {
	return s.save(ctx, coachID, programID, content, domain.ProgramStateDraft)
}

// CreateOrUpdateProgram creates a program directly in saved state (first
// non-draft save) or content-edits an existing one. A draft being saved
// this way is promoted to saved; assigned/in_shop programs keep their state
// and companion fields.
func (s *programService) CreateOrUpdateProgram(ctx context.Context, coachID, programID primitive.ObjectID, content ProgramContent) (*domain.Program, error) {
	return s.save(ctx, coachID, programID, content, domain.ProgramStateSaved)
}

func (s *programService) save(ctx context.Context, coachID, programID primitive.ObjectID, content ProgramContent, createState domain.ProgramState) (*domain.Program, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}
	if content.Title == "" {
		return nil, ErrValidationFailed
	}
	if err := domain.ValidateTree(content.Weeks); err != nil {
		return nil, err
	}

	if programID == primitive.NilObjectID {
		return s.create(ctx, coachID, content, createState)
	}

	existing, err := s.getOwned(ctx, coachID, programID)
	if err != nil {
		return nil, err
	}

	updated := applyContentEdit(*existing, content)
	// First non-draft save of a draft promotes it. Everything else keeps
	// its current state.
	if existing.State == domain.ProgramStateDraft && createState == domain.ProgramStateSaved {
		updated.State = domain.ProgramStateSaved
	}

	if err := s.programRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	// Replace-entire-tree. A partial write here is surfaced, not rolled
	// back; the coach's next save rewrites the whole tree anyway.
	if err := s.programRepo.ReplaceTree(ctx, updated.ID, content.Weeks); err != nil {
		return nil, err
	}

	return s.reload(ctx, updated.ID)
}

func (s *programService) create(ctx context.Context, coachID primitive.ObjectID, content ProgramContent, state domain.ProgramState) (*domain.Program, error) {
	program := applyContentEdit(domain.Program{CoachID: coachID, State: state}, content)

	programID, err := s.programRepo.Create(ctx, &program)
	if err != nil {
		return nil, err
	}
	if err := s.programRepo.ReplaceTree(ctx, programID, content.Weeks); err != nil {
		return nil, err
	}
	return s.reload(ctx, programID)
}

// DuplicateProgram copies a program's content and catalog references into a
// brand-new draft. Lifecycle fields (client, assignment, shop listing) are
// never copied.
func (s *programService) DuplicateProgram(ctx context.Context, coachID, programID primitive.ObjectID) (*domain.Program, error) {
	source, err := s.getOwned(ctx, coachID, programID)
	if err != nil {
		return nil, err
	}
	tree, err := s.programRepo.GetTree(ctx, programID)
	if err != nil {
		return nil, err
	}

	// Strip document ids so the repository mints fresh ones; catalog refs
	// are carried over as-is (reference, not copy).
	for wi := range tree {
		tree[wi].ID = primitive.NilObjectID
		tree[wi].ProgramID = primitive.NilObjectID
		for di := range tree[wi].Days {
			tree[wi].Days[di].ID = primitive.NilObjectID
			for bi := range tree[wi].Days[di].Blocks {
				tree[wi].Days[di].Blocks[bi].ID = primitive.NilObjectID
			}
		}
	}

	content := ProgramContent{
		Title:         source.Title,
		Description:   source.Description,
		Category:      source.Category,
		Tags:          source.Tags,
		HeaderImage:   source.HeaderImage,
		GuidanceText:  source.GuidanceText,
		ProTip:        source.ProTip,
		AvoidanceText: source.AvoidanceText,
		Weeks:         tree,
	}
	return s.create(ctx, coachID, content, domain.ProgramStateDraft)
}

// DeleteProgram removes a program and its tree. Refused unless the program
// is in draft or saved state: assigned and listed programs must be
// unassigned/delisted first.
func (s *programService) DeleteProgram(ctx context.Context, coachID, programID primitive.ObjectID) error {
	program, err := s.getOwned(ctx, coachID, programID)
	if err != nil {
		return err
	}
	if !program.Deletable() {
		return ErrInvalidTransition
	}

	if err := s.programRepo.DeleteTree(ctx, programID); err != nil {
		return err
	}
	if err := s.programRepo.Delete(ctx, programID, coachID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgramNotFound
		}
		return err
	}
	return nil
}

// === Lifecycle Transitions ===

// AssignToClient transitions saved -> assigned and creates the companion
// assignment record. Refused from in_shop (delist first: assignment and
// shop listing are mutually exclusive), from assigned (already attached),
// and from draft (save first).
func (s *programService) AssignToClient(ctx context.Context, coachID, programID, clientID primitive.ObjectID, personalMessage string) error {
	if clientID == primitive.NilObjectID {
		return ErrValidationFailed
	}
	program, err := s.getOwned(ctx, coachID, programID)
	if err != nil {
		return err
	}
	if program.State != domain.ProgramStateSaved {
		return ErrInvalidTransition
	}

	// The target must be a real client managed by this coach.
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	if !client.IsClient() {
		return ErrClientNotRole
	}
	if client.CoachID == nil || *client.CoachID != coachID {
		return ErrClientNotManaged
	}

	assignedAt := s.now().UTC()
	assignment := &domain.ProgramAssignment{
		ProgramID:       programID,
		ClientID:        clientID,
		CoachID:         coachID,
		PersonalMessage: personalMessage,
		AssignedAt:      assignedAt,
	}
	if _, err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return err
	}

	program.State = domain.ProgramStateAssigned
	program.ClientID = &clientID
	program.AssignedAt = &assignedAt
	program.PersonalMessage = personalMessage
	return s.programRepo.Update(ctx, program)
}

// PublishToShop transitions saved -> in_shop, stamping the listing fields
// on the program itself. Refused from assigned (mutually exclusive) and
// from draft.
func (s *programService) PublishToShop(ctx context.Context, coachID, programID primitive.ObjectID, price float64) error {
	if price <= 0 {
		return ErrValidationFailed
	}
	program, err := s.getOwned(ctx, coachID, programID)
	if err != nil {
		return err
	}
	if program.State != domain.ProgramStateSaved {
		return ErrInvalidTransition
	}

	listedAt := s.now().UTC()
	program.State = domain.ProgramStateInShop
	program.ShopPrice = &price
	program.ShopListedAt = &listedAt
	return s.programRepo.Update(ctx, program)
}

// Unassign transitions assigned -> saved, but only once the assignment's
// effective duration has elapsed. The assignment record is deactivated, not
// deleted, so the client's history survives.
func (s *programService) Unassign(ctx context.Context, coachID, programID primitive.ObjectID) error {
	program, err := s.getOwned(ctx, coachID, programID)
	if err != nil {
		return err
	}
	if program.State != domain.ProgramStateAssigned {
		return ErrInvalidTransition
	}

	assignment, err := s.assignmentRepo.GetActiveByProgramID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// State says assigned but no record exists; fall back to the
			// program's own timestamp so the coach is not stuck.
			if program.AssignedAt == nil || s.now().UTC().Before(program.AssignedAt.Add(s.assignmentDuration)) {
				return ErrAssignmentActive
			}
		} else {
			return err
		}
	} else {
		if !assignment.Expired(s.now().UTC(), s.assignmentDuration) {
			return ErrAssignmentActive
		}
		if err := s.assignmentRepo.Deactivate(ctx, assignment.ID); err != nil {
			return err
		}
	}

	program.State = domain.ProgramStateSaved
	program.ClientID = nil
	program.AssignedAt = nil
	program.PersonalMessage = ""
	return s.programRepo.Update(ctx, program)
}

// DelistFromShop transitions in_shop -> saved and clears the listing fields.
func (s *programService) DelistFromShop(ctx context.Context, coachID, programID primitive.ObjectID) error {
	program, err := s.getOwned(ctx, coachID, programID)
	if err != nil {
		return err
	}
	if program.State != domain.ProgramStateInShop {
		return ErrInvalidTransition
	}

	program.State = domain.ProgramStateSaved
	program.ShopPrice = nil
	program.ShopListedAt = nil
	return s.programRepo.Update(ctx, program)
}

// === Read Path ===

// GetProgram loads a program with its tree and resolves catalog references
// for display. Missing catalog items degrade to the blocks' inline data.
func (s *programService) GetProgram(ctx context.Context, coachID, programID primitive.ObjectID) (*ProgramView, error) {
	program, err := s.getOwned(ctx, coachID, programID)
	if err != nil {
		return nil, err
	}
	tree, err := s.programRepo.GetTree(ctx, programID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, program, tree)
}

// ListPrograms returns the coach's programs enriched with the assigned
// client's display name and the week count, for the listing UI.
func (s *programService) ListPrograms(ctx context.Context, coachID primitive.ObjectID) ([]ProgramSummary, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}
	programs, err := s.programRepo.GetByCoachID(ctx, coachID)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, len(programs))
	for i, p := range programs {
		ids[i] = p.ID
	}
	weekCounts, err := s.programRepo.CountWeeks(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Client names, fetched once per distinct client.
	names := make(map[primitive.ObjectID]string)
	for _, p := range programs {
		if p.ClientID == nil {
			continue
		}
		if _, ok := names[*p.ClientID]; ok {
			continue
		}
		client, err := s.userRepo.GetByID(ctx, *p.ClientID)
		if err != nil {
			// A vanished client only degrades the listing display.
			names[*p.ClientID] = ""
			continue
		}
		names[*p.ClientID] = client.Name
	}

	summaries := make([]ProgramSummary, len(programs))
	for i, p := range programs {
		summary := ProgramSummary{
			Program:   p,
			WeekCount: weekCounts[p.ID],
		}
		if p.ClientID != nil {
			summary.ClientName = names[*p.ClientID]
		}
		summaries[i] = summary
	}
	return summaries, nil
}

// === Helpers ===

func (s *programService) getOwned(ctx context.Context, coachID, programID primitive.ObjectID) (*domain.Program, error) {
	if coachID == primitive.NilObjectID || programID == primitive.NilObjectID {
		return nil, errors.New("coach ID and program ID are required")
	}
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if program.CoachID != coachID {
		return nil, ErrProgramAccessDenied
	}
	return program, nil
}

func (s *programService) reload(ctx context.Context, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		return nil, err
	}
	tree, err := s.programRepo.GetTree(ctx, programID)
	if err != nil {
		return nil, err
	}
	program.Weeks = tree
	return program, nil
}

// buildView resolves the tree's catalog references in one batched fetch.
func (s *programService) buildView(ctx context.Context, program *domain.Program, tree []domain.Week) (*ProgramView, error) {
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
	view.Program.Weeks = nil // The resolved weeks replace the raw tree
	return view, nil
}
