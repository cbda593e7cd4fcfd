package service

import (
	"context"
	"testing"

	"peakform/coaching-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateItemValidation(t *testing.T) {
	svc := NewCatalogService(newFakeCatalogRepo())
	coachID := primitive.NewObjectID()

	_, err := svc.CreateItem(context.Background(), coachID, domain.KindExercise, CatalogItemInput{})
	assert.ErrorIs(t, err, ErrValidationFailed, "name is required")

	_, err = svc.CreateItem(context.Background(), coachID, "workout", CatalogItemInput{Name: "Squat"})
	assert.ErrorIs(t, err, ErrValidationFailed, "unknown kind is rejected")
}

func TestCatalogCRUDKeepsOwnershipAndKind(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := NewCatalogService(repo)
	coachID := primitive.NewObjectID()

	item, err := svc.CreateItem(context.Background(), coachID, domain.KindRecipe, CatalogItemInput{
		Name:        "Overnight Oats",
		Ingredients: []string{"oats", "milk"},
		Calories:    420,
	})
	require.NoError(t, err)
	assert.Equal(t, coachID, item.CoachID)
	assert.Equal(t, domain.KindRecipe, item.Kind)

	updated, err := svc.UpdateItem(context.Background(), coachID, item.ID, CatalogItemInput{
		Name:     "Overnight Oats (v2)",
		Calories: 390,
	})
	require.NoError(t, err)
	assert.Equal(t, "Overnight Oats (v2)", updated.Name)
	assert.Equal(t, 390, updated.Calories)
	assert.Equal(t, coachID, updated.CoachID, "edits never change the owner")
	assert.Equal(t, domain.KindRecipe, updated.Kind, "edits never change the kind")

	// A rival coach can read but not modify or delete.
	rival := primitive.NewObjectID()
	_, err = svc.UpdateItem(context.Background(), rival, item.ID, CatalogItemInput{Name: "Hijacked"})
	assert.ErrorIs(t, err, ErrCatalogItemAccessDenied)
	assert.ErrorIs(t, svc.DeleteItem(context.Background(), rival, item.ID), ErrCatalogItemNotFound)

	require.NoError(t, svc.DeleteItem(context.Background(), coachID, item.ID))
	_, err = svc.GetItemByID(context.Background(), item.ID)
	assert.ErrorIs(t, err, ErrCatalogItemNotFound)
}

func TestListItemsHidesDraftsByDefault(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := NewCatalogService(repo)
	coachID := primitive.NewObjectID()

	_, err := svc.CreateItem(context.Background(), coachID, domain.KindExercise, CatalogItemInput{Name: "Squat"})
	require.NoError(t, err)
	_, err = svc.CreateItem(context.Background(), coachID, domain.KindExercise, CatalogItemInput{Name: "WIP Lunge", IsDraft: true})
	require.NoError(t, err)
	_, err = svc.CreateItem(context.Background(), coachID, domain.KindRecipe, CatalogItemInput{Name: "Smoothie"})
	require.NoError(t, err)

	published, err := svc.ListItems(context.Background(), coachID, domain.KindExercise, false)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "Squat", published[0].Name)

	all, err := svc.ListItems(context.Background(), coachID, domain.KindExercise, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	everything, err := svc.ListItems(context.Background(), coachID, "", true)
	require.NoError(t, err)
	assert.Len(t, everything, 3)
}
