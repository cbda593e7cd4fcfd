package service

import (
	"context"
	"testing"
	"time"

	"peakform/coaching-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// clientFixture seeds an assigned program through the lifecycle engine and
// exposes the read-side client service over the same fakes.
type clientFixture struct {
	*engineFixture
	clientSvc ClientService
	program   *domain.Program
}

func newClientFixture(t *testing.T) *clientFixture {
	t.Helper()
	fx := newEngineFixture(t)
	p := fx.mustCreateSaved(t, strengthContent())
	fx.mustAssign(t, p.ID, "You've got this")
	return &clientFixture{
		engineFixture: fx,
		clientSvc:     NewClientService(fx.programs, fx.catalog, fx.users),
		program:       p,
	}
}

func TestGetMyProgramsEnrichedWithCoachName(t *testing.T) {
	fx := newClientFixture(t)

	assigned, err := fx.clientSvc.GetMyPrograms(context.Background(), fx.client.ID)
	require.NoError(t, err)
	require.Len(t, assigned, 1)

	assert.Equal(t, fx.program.ID, assigned[0].Program.ID)
	assert.Equal(t, "Coach Carter", assigned[0].CoachName)
	assert.Equal(t, "You've got this", assigned[0].PersonalMessage)
}

func TestGetMyProgramsEmptyForUnassignedClient(t *testing.T) {
	fx := newClientFixture(t)
	stranger := fx.users.add(domain.User{Name: "Stranger", Email: "s@example.com", Role: domain.RoleClient})

	assigned, err := fx.clientSvc.GetMyPrograms(context.Background(), stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, assigned)
}

func TestGetMyProgramReturnsResolvedView(t *testing.T) {
	fx := newClientFixture(t)

	view, err := fx.clientSvc.GetMyProgram(context.Background(), fx.client.ID, fx.program.ID)
	require.NoError(t, err)

	assert.Equal(t, fx.program.ID, view.Program.ID)
	require.Len(t, view.Weeks, 2)
	assert.Equal(t, "Foundation", view.Weeks[0].Title)
	require.Len(t, view.Weeks[0].Days[0].Blocks, 2)
}

func TestGetMyProgramRefusedForOtherClient(t *testing.T) {
	fx := newClientFixture(t)
	other := fx.users.add(domain.User{Name: "Other", Email: "o@example.com", Role: domain.RoleClient, CoachID: &fx.coach.ID})

	_, err := fx.clientSvc.GetMyProgram(context.Background(), other.ID, fx.program.ID)
	assert.ErrorIs(t, err, ErrProgramNotAssignedToClient)
}

func TestGetMyProgramRefusedAfterUnassign(t *testing.T) {
	fx := newClientFixture(t)

	fx.advance(testAssignmentDuration + time.Hour)
	require.NoError(t, fx.svc.Unassign(context.Background(), fx.coach.ID, fx.program.ID))

	_, err := fx.clientSvc.GetMyProgram(context.Background(), fx.client.ID, fx.program.ID)
	assert.ErrorIs(t, err, ErrProgramNotAssignedToClient)
}

func TestGetMyProgramUnknownID(t *testing.T) {
	fx := newClientFixture(t)

	_, err := fx.clientSvc.GetMyProgram(context.Background(), fx.client.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrProgramNotFound)
}
