package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"
	"peakform/coaching-app/internal/storage"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotFound        = errors.New("client user not found")
	ErrClientNotRole         = errors.New("user found but is not a client")
	ErrClientAlreadyAssigned = errors.New("client is already assigned to a coach")
	ErrClientNotManaged      = errors.New("client is not managed by this coach")
	ErrUploadURLError        = errors.New("failed to generate upload URL")
)

// MediaUploadTicket carries the presigned URL and the object key the coach
// reports back once the upload completes.
type MediaUploadTicket struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// --- Service Interface ---
type CoachService interface {
	// Client roster
	AddClientByEmail(ctx context.Context, coachID primitive.ObjectID, clientEmail string) (*domain.User, error)
	GetManagedClients(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)

	// Media uploads (program header images, catalog item media)
	RequestMediaUploadURL(ctx context.Context, coachID primitive.ObjectID, fileName, contentType string) (*MediaUploadTicket, error)
	ConfirmMediaUpload(ctx context.Context, coachID primitive.ObjectID, objectKey, fileName, contentType string, size int64) (*domain.MediaUpload, error)
	GetMediaDownloadURL(ctx context.Context, coachID, uploadID primitive.ObjectID) (string, error)
}

// --- Service Implementation ---

// coachService implements the CoachService interface.
type coachService struct {
	userRepo    repository.UserRepository
	mediaRepo   repository.MediaRepository
	fileStorage storage.FileStorage
}

// NewCoachService creates a new instance of coachService.
func NewCoachService(
	userRepo repository.UserRepository,
	mediaRepo repository.MediaRepository,
	fileStorage storage.FileStorage,
) CoachService {
	return &coachService{
		userRepo:    userRepo,
		mediaRepo:   mediaRepo,
		fileStorage: fileStorage,
	}
}

// === Client Roster ===

// AddClientByEmail finds a client by email and attaches them to the coach.
func (s *coachService) AddClientByEmail(ctx context.Context, coachID primitive.ObjectID, clientEmail string) (*domain.User, error) {
	if coachID == primitive.NilObjectID || clientEmail == "" {
		return nil, errors.New("coach ID and client email are required")
	}

	client, err := s.userRepo.GetByEmail(ctx, clientEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	if client.Role != domain.RoleClient {
		return nil, ErrClientNotRole
	}

	if client.CoachID != nil && *client.CoachID != primitive.NilObjectID {
		if *client.CoachID == coachID {
			// Already managed by this coach.
			return client, nil
		}
		return nil, ErrClientAlreadyAssigned
	}

	// Update both sides of the relationship. No transaction; the second
	// write failing leaves a dangling roster entry the next attempt repairs.
	if err := s.userRepo.AddClientIDToCoach(ctx, coachID, client.ID); err != nil {
		return nil, err
	}
	if err := s.userRepo.SetCoachForClient(ctx, client.ID, coachID); err != nil {
		return nil, err
	}

	client.CoachID = &coachID
	return client, nil
}

// GetManagedClients retrieves the list of clients managed by the coach.
func (s *coachService) GetManagedClients(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}
	clients, err := s.userRepo.GetClientsByCoachID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	// Clear password hashes before returning.
	for i := range clients {
		clients[i].PasswordHash = ""
	}
	return clients, nil
}

// === Media Uploads ===

// RequestMediaUploadURL generates a presigned URL for a coach to upload an
// image or video used by a program header or catalog item.
func (s *coachService) RequestMediaUploadURL(ctx context.Context, coachID primitive.ObjectID, fileName, contentType string) (*MediaUploadTicket, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}
	lower := strings.ToLower(contentType)
	if !strings.HasPrefix(lower, "image/") && !strings.HasPrefix(lower, "video/") {
		return nil, errors.New("content type must be an image or video MIME type")
	}

	ext := path.Ext(fileName)
	objectKey := fmt.Sprintf("media/%s/%s%s", coachID.Hex(), uuid.NewString(), ext)

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &MediaUploadTicket{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// ConfirmMediaUpload records metadata after the coach finished uploading to
// the presigned URL.
func (s *coachService) ConfirmMediaUpload(ctx context.Context, coachID primitive.ObjectID, objectKey, fileName, contentType string, size int64) (*domain.MediaUpload, error) {
	if coachID == primitive.NilObjectID || objectKey == "" {
		return nil, errors.New("coach ID and object key are required")
	}
	// Keys are scoped per coach; refuse confirmations for foreign keys.
	if !strings.HasPrefix(objectKey, "media/"+coachID.Hex()+"/") {
		return nil, errors.New("object key does not belong to this coach")
	}

	upload := &domain.MediaUpload{
		CoachID:     coachID,
		S3ObjectKey: objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
	}
	uploadID, err := s.mediaRepo.Create(ctx, upload)
	if err != nil {
		return nil, err
	}
	upload.ID = uploadID
	return upload, nil
}

// GetMediaDownloadURL generates a presigned GET URL for an upload the coach
// owns.
func (s *coachService) GetMediaDownloadURL(ctx context.Context, coachID, uploadID primitive.ObjectID) (string, error) {
	upload, err := s.mediaRepo.GetByID(ctx, uploadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", errors.New("upload not found")
		}
		return "", err
	}
	if upload.CoachID != coachID {
		return "", errors.New("access denied to this upload")
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, upload.S3ObjectKey, storage.DefaultPresignedURLExpiry)
}
