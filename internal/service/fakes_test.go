package service

// In-memory repository fakes for service tests. They mimic the observable
// behavior of the mongo repositories: minted ids, copies on read, ErrNotFound
// sentinels, and wholesale tree replacement.

import (
	"context"
	"sort"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- ProgramRepository fake ---

type fakeProgramRepo struct {
	programs map[primitive.ObjectID]domain.Program
	trees    map[primitive.ObjectID][]domain.Week

	// When set, ReplaceTree drops the old tree and then fails with this
	// error, mimicking an aborted multi-step write.
	replaceTreeErr error
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{
		programs: make(map[primitive.ObjectID]domain.Program),
		trees:    make(map[primitive.ObjectID][]domain.Week),
	}
}

func (f *fakeProgramRepo) Create(_ context.Context, program *domain.Program) (primitive.ObjectID, error) {
	program.ID = primitive.NewObjectID()
	f.programs[program.ID] = *program
	return program.ID, nil
}

func (f *fakeProgramRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Program, error) {
	p, ok := f.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (f *fakeProgramRepo) GetByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.Program, error) {
	var out []domain.Program
	for _, p := range f.programs {
		if p.CoachID == coachID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (f *fakeProgramRepo) GetByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.Program, error) {
	var out []domain.Program
	for _, p := range f.programs {
		if p.State == domain.ProgramStateAssigned && p.ClientID != nil && *p.ClientID == clientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProgramRepo) Update(_ context.Context, program *domain.Program) error {
	if _, ok := f.programs[program.ID]; !ok {
		return repository.ErrNotFound
	}
	f.programs[program.ID] = *program
	return nil
}

func (f *fakeProgramRepo) Delete(_ context.Context, id primitive.ObjectID, coachID primitive.ObjectID) error {
	p, ok := f.programs[id]
	if !ok || p.CoachID != coachID {
		return repository.ErrNotFound
	}
	delete(f.programs, id)
	return nil
}

func (f *fakeProgramRepo) ReplaceTree(_ context.Context, programID primitive.ObjectID, weeks []domain.Week) error {
	delete(f.trees, programID)
	if f.replaceTreeErr != nil {
		return f.replaceTreeErr
	}
	stored := make([]domain.Week, len(weeks))
	for i, w := range weeks {
		w.ID = primitive.NewObjectID()
		w.ProgramID = programID
		stored[i] = w
	}
	f.trees[programID] = stored
	return nil
}

func (f *fakeProgramRepo) GetTree(_ context.Context, programID primitive.ObjectID) ([]domain.Week, error) {
	stored := f.trees[programID]
	// Deep copy: the real repository decodes fresh documents, so callers may
	// freely mutate what they get back.
	out := make([]domain.Week, len(stored))
	for i, w := range stored {
		days := make([]domain.Day, len(w.Days))
		for di, d := range w.Days {
			blocks := make([]domain.ContentBlock, len(d.Blocks))
			copy(blocks, d.Blocks)
			d.Blocks = blocks
			days[di] = d
		}
		w.Days = days
		out[i] = w
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekNumber < out[j].WeekNumber })
	return out, nil
}

func (f *fakeProgramRepo) DeleteTree(_ context.Context, programID primitive.ObjectID) error {
	delete(f.trees, programID)
	return nil
}

func (f *fakeProgramRepo) CountWeeks(_ context.Context, programIDs []primitive.ObjectID) (map[primitive.ObjectID]int, error) {
	counts := make(map[primitive.ObjectID]int)
	for _, id := range programIDs {
		if tree, ok := f.trees[id]; ok && len(tree) > 0 {
			counts[id] = len(tree)
		}
	}
	return counts, nil
}

// --- AssignmentRepository fake ---

type fakeAssignmentRepo struct {
	assignments map[primitive.ObjectID]domain.ProgramAssignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[primitive.ObjectID]domain.ProgramAssignment)}
}

func (f *fakeAssignmentRepo) Create(_ context.Context, assignment *domain.ProgramAssignment) (primitive.ObjectID, error) {
	assignment.ID = primitive.NewObjectID()
	assignment.Active = true
	f.assignments[assignment.ID] = *assignment
	return assignment.ID, nil
}

func (f *fakeAssignmentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ProgramAssignment, error) {
	a, ok := f.assignments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := a
	return &cp, nil
}

func (f *fakeAssignmentRepo) GetActiveByProgramID(_ context.Context, programID primitive.ObjectID) (*domain.ProgramAssignment, error) {
	for _, a := range f.assignments {
		if a.ProgramID == programID && a.Active {
			cp := a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAssignmentRepo) GetByClientID(_ context.Context, clientID primitive.ObjectID, activeOnly bool) ([]domain.ProgramAssignment, error) {
	var out []domain.ProgramAssignment
	for _, a := range f.assignments {
		if a.ClientID == clientID && (!activeOnly || a.Active) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) Deactivate(_ context.Context, id primitive.ObjectID) error {
	a, ok := f.assignments[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Active = false
	f.assignments[id] = a
	return nil
}

// --- CatalogRepository fake ---

type fakeCatalogRepo struct {
	items map[primitive.ObjectID]domain.CatalogItem
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{items: make(map[primitive.ObjectID]domain.CatalogItem)}
}

func (f *fakeCatalogRepo) Create(_ context.Context, item *domain.CatalogItem) (primitive.ObjectID, error) {
	item.ID = primitive.NewObjectID()
	f.items[item.ID] = *item
	return item.ID, nil
}

func (f *fakeCatalogRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.CatalogItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := item
	return &cp, nil
}

func (f *fakeCatalogRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.CatalogItem, error) {
	var out []domain.CatalogItem
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) ListByCoach(_ context.Context, coachID primitive.ObjectID, kind domain.CatalogKind, includeDrafts bool) ([]domain.CatalogItem, error) {
	var out []domain.CatalogItem
	for _, item := range f.items {
		if item.CoachID != coachID {
			continue
		}
		if kind != "" && item.Kind != kind {
			continue
		}
		if item.IsDraft && !includeDrafts {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeCatalogRepo) Update(_ context.Context, item *domain.CatalogItem) error {
	if _, ok := f.items[item.ID]; !ok {
		return repository.ErrNotFound
	}
	f.items[item.ID] = *item
	return nil
}

func (f *fakeCatalogRepo) Delete(_ context.Context, id primitive.ObjectID, coachID primitive.ObjectID) error {
	item, ok := f.items[id]
	if !ok || item.CoachID != coachID {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

// --- UserRepository fake ---

type fakeUserRepo struct {
	users map[primitive.ObjectID]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]domain.User)}
}

func (f *fakeUserRepo) add(user domain.User) domain.User {
	if user.ID == primitive.NilObjectID {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	user.ID = primitive.NewObjectID()
	f.users[user.ID] = *user
	return user.ID, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (f *fakeUserRepo) AddClientIDToCoach(_ context.Context, coachID, clientID primitive.ObjectID) error {
	coach, ok := f.users[coachID]
	if !ok {
		return repository.ErrNotFound
	}
	coach.ClientIDs = append(coach.ClientIDs, clientID)
	f.users[coachID] = coach
	return nil
}

func (f *fakeUserRepo) GetClientsByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.users {
		if u.CoachID != nil && *u.CoachID == coachID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) SetCoachForClient(_ context.Context, clientID, coachID primitive.ObjectID) error {
	client, ok := f.users[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	client.CoachID = &coachID
	f.users[clientID] = client
	return nil
}
