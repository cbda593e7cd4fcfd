package service

import (
	"testing"

	"peakform/coaching-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCollectCatalogRefs(t *testing.T) {
	ref1 := primitive.NewObjectID()
	ref2 := primitive.NewObjectID()

	tree := []domain.Week{
		{
			WeekNumber: 1,
			Days: []domain.Day{
				{DayNumber: 1, Blocks: []domain.ContentBlock{
					{Order: 1, CatalogRef: &ref1},
					{Order: 2}, // no ref
					{Order: 3, CatalogRef: &ref2},
				}},
			},
		},
		{
			WeekNumber: 2,
			Days: []domain.Day{
				{DayNumber: 1, Blocks: []domain.ContentBlock{
					{Order: 1, CatalogRef: &ref1}, // repeated across weeks
				}},
			},
		},
	}

	refs := collectCatalogRefs(tree)
	assert.ElementsMatch(t, []primitive.ObjectID{ref1, ref2}, refs, "refs must be distinct")

	assert.Empty(t, collectCatalogRefs(nil))
}

func TestResolveBlockWithoutRef(t *testing.T) {
	block := domain.ContentBlock{
		ID:    primitive.NewObjectID(),
		Type:  domain.BlockTypeImage,
		Order: 4,
		Data:  domain.BlockData{ImageURL: "https://cdn.example.com/inline.jpg"},
	}

	resolved := resolveBlock(block, nil)

	assert.Equal(t, block.ID.Hex(), resolved.ID)
	assert.Equal(t, "https://cdn.example.com/inline.jpg", resolved.ImageURL)
	assert.Empty(t, resolved.CatalogRef)
	assert.Nil(t, resolved.Catalog)
}

func TestResolveBlockItemOverridesNameAndMedia(t *testing.T) {
	ref := primitive.NewObjectID()
	block := domain.ContentBlock{
		Type:       domain.BlockTypeExercise,
		Order:      1,
		CatalogRef: &ref,
		Data: domain.BlockData{
			Sets:     4,
			Reps:     8,
			ImageURL: "https://cdn.example.com/stale-inline.jpg",
		},
	}
	items := map[primitive.ObjectID]domain.CatalogItem{
		ref: {
			ID:       ref,
			Kind:     domain.KindExercise,
			Name:     "Romanian Deadlift",
			ImageURL: "https://cdn.example.com/rdl.jpg",
		},
	}

	resolved := resolveBlock(block, items)

	assert.Equal(t, "Romanian Deadlift", resolved.Name)
	assert.Equal(t, "https://cdn.example.com/rdl.jpg", resolved.ImageURL, "catalog media wins over inline")
	assert.Equal(t, domain.BlockData{Sets: 4, Reps: 8, ImageURL: "https://cdn.example.com/stale-inline.jpg"}, resolved.Data,
		"the program-specific overlay is untouched")
	require.NotNil(t, resolved.Catalog)
	assert.Equal(t, ref, resolved.Catalog.ID)
}

func TestResolveBlockItemWithoutMediaKeepsInline(t *testing.T) {
	ref := primitive.NewObjectID()
	block := domain.ContentBlock{
		Type:       domain.BlockTypeRecipe,
		Order:      1,
		CatalogRef: &ref,
		Data:       domain.BlockData{ImageURL: "https://cdn.example.com/dish.jpg", Portions: 2},
	}
	items := map[primitive.ObjectID]domain.CatalogItem{
		ref: {ID: ref, Kind: domain.KindRecipe, Name: "Overnight Oats"},
	}

	resolved := resolveBlock(block, items)

	assert.Equal(t, "Overnight Oats", resolved.Name)
	assert.Equal(t, "https://cdn.example.com/dish.jpg", resolved.ImageURL, "empty catalog media falls back to inline")
}

func TestResolveBlockDanglingRef(t *testing.T) {
	ref := primitive.NewObjectID()
	block := domain.ContentBlock{
		Type:       domain.BlockTypeMental,
		Order:      1,
		CatalogRef: &ref,
		Data:       domain.BlockData{Text: "Box breathing, 5 minutes", DurationMin: 5},
	}

	resolved := resolveBlock(block, map[primitive.ObjectID]domain.CatalogItem{})

	assert.Equal(t, ref.Hex(), resolved.CatalogRef, "the reference stays visible")
	assert.Nil(t, resolved.Catalog)
	assert.Empty(t, resolved.Name)
	assert.Equal(t, "Box breathing, 5 minutes", resolved.Data.Text)
}

func TestResolveTreePreservesSubmittedOrder(t *testing.T) {
	tree := []domain.Week{
		{WeekNumber: 1, Days: []domain.Day{
			{DayNumber: 1, Blocks: []domain.ContentBlock{
				{Order: 3, Type: domain.BlockTypeText},
				{Order: 1, Type: domain.BlockTypeText},
				{Order: 2, Type: domain.BlockTypeText},
			}},
		}},
	}

	views := resolveTree(tree, nil)
	require.Len(t, views, 1)
	blocks := views[0].Days[0].Blocks
	require.Len(t, blocks, 3)

	// Display order is the coach's declared sequence, not sorted.
	assert.Equal(t, []int{3, 1, 2}, []int{blocks[0].Order, blocks[1].Order, blocks[2].Order})
}
