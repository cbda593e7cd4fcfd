package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeFileStorage returns deterministic URLs so tests can assert on keys.
type fakeFileStorage struct{}

func (f *fakeFileStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	return "https://storage.example.com/put/" + objectKey, nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.example.com/get/" + objectKey, nil
}

func (f *fakeFileStorage) DeleteObject(_ context.Context, _ string) error {
	return nil
}

// fakeMediaRepo is a trivial in-memory MediaRepository.
type fakeMediaRepo struct {
	uploads map[primitive.ObjectID]domain.MediaUpload
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{uploads: make(map[primitive.ObjectID]domain.MediaUpload)}
}

func (f *fakeMediaRepo) Create(_ context.Context, upload *domain.MediaUpload) (primitive.ObjectID, error) {
	upload.ID = primitive.NewObjectID()
	f.uploads[upload.ID] = *upload
	return upload.ID, nil
}

func (f *fakeMediaRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.MediaUpload, error) {
	u, ok := f.uploads[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := u
	return &cp, nil
}

type coachFixture struct {
	svc    CoachService
	users  *fakeUserRepo
	media  *fakeMediaRepo
	coach  domain.User
	client domain.User
}

func newCoachFixture(t *testing.T) *coachFixture {
	t.Helper()
	fx := &coachFixture{
		users: newFakeUserRepo(),
		media: newFakeMediaRepo(),
	}
	fx.svc = NewCoachService(fx.users, fx.media, &fakeFileStorage{})
	fx.coach = fx.users.add(domain.User{Name: "Coach Carter", Email: "coach@example.com", Role: domain.RoleCoach})
	fx.client = fx.users.add(domain.User{Name: "Casey Client", Email: "c1@example.com", Role: domain.RoleClient})
	return fx
}

func TestAddClientByEmail(t *testing.T) {
	fx := newCoachFixture(t)

	added, err := fx.svc.AddClientByEmail(context.Background(), fx.coach.ID, "c1@example.com")
	require.NoError(t, err)
	require.NotNil(t, added.CoachID)
	assert.Equal(t, fx.coach.ID, *added.CoachID)

	roster, err := fx.svc.GetManagedClients(context.Background(), fx.coach.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, fx.client.ID, roster[0].ID)
	assert.Empty(t, roster[0].PasswordHash)

	// Re-adding the same client is a no-op, not an error.
	_, err = fx.svc.AddClientByEmail(context.Background(), fx.coach.ID, "c1@example.com")
	assert.NoError(t, err)
}

func TestAddClientByEmailRejections(t *testing.T) {
	fx := newCoachFixture(t)

	_, err := fx.svc.AddClientByEmail(context.Background(), fx.coach.ID, "nobody@example.com")
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = fx.svc.AddClientByEmail(context.Background(), fx.coach.ID, "coach@example.com")
	assert.ErrorIs(t, err, ErrClientNotRole)

	rival := fx.users.add(domain.User{Name: "Rival", Email: "rival@example.com", Role: domain.RoleCoach})
	_, err = fx.svc.AddClientByEmail(context.Background(), rival.ID, "c1@example.com")
	require.NoError(t, err)
	_, err = fx.svc.AddClientByEmail(context.Background(), fx.coach.ID, "c1@example.com")
	assert.ErrorIs(t, err, ErrClientAlreadyAssigned)
}

func TestRequestMediaUploadURL(t *testing.T) {
	fx := newCoachFixture(t)

	ticket, err := fx.svc.RequestMediaUploadURL(context.Background(), fx.coach.ID, "header.jpg", "image/jpeg")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ticket.ObjectKey, "media/"+fx.coach.ID.Hex()+"/"), "keys are scoped per coach")
	assert.True(t, strings.HasSuffix(ticket.ObjectKey, ".jpg"))
	assert.Contains(t, ticket.UploadURL, ticket.ObjectKey)

	_, err = fx.svc.RequestMediaUploadURL(context.Background(), fx.coach.ID, "notes.pdf", "application/pdf")
	assert.Error(t, err, "only image and video uploads are accepted")
}

func TestConfirmMediaUploadScopesKeys(t *testing.T) {
	fx := newCoachFixture(t)

	ticket, err := fx.svc.RequestMediaUploadURL(context.Background(), fx.coach.ID, "header.jpg", "image/jpeg")
	require.NoError(t, err)

	upload, err := fx.svc.ConfirmMediaUpload(context.Background(), fx.coach.ID, ticket.ObjectKey, "header.jpg", "image/jpeg", 1024)
	require.NoError(t, err)
	assert.Equal(t, fx.coach.ID, upload.CoachID)

	// A foreign coach cannot claim the key.
	rival := fx.users.add(domain.User{Name: "Rival", Email: "r@example.com", Role: domain.RoleCoach})
	_, err = fx.svc.ConfirmMediaUpload(context.Background(), rival.ID, ticket.ObjectKey, "header.jpg", "image/jpeg", 1024)
	assert.Error(t, err)

	// And cannot fetch a download URL for someone else's upload.
	_, err = fx.svc.GetMediaDownloadURL(context.Background(), rival.ID, upload.ID)
	assert.Error(t, err)

	url, err := fx.svc.GetMediaDownloadURL(context.Background(), fx.coach.ID, upload.ID)
	require.NoError(t, err)
	assert.Contains(t, url, ticket.ObjectKey)
}
