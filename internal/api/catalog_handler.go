// internal/api/catalog_handler.go
package api

import (
	"errors"
	"net/http"
	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogHandler holds the catalog service dependency.
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// --- DTOs ---

// CatalogItemRequest defines the expected JSON for creating or updating a
// knowledge hub item.
type CatalogItemRequest struct {
	Kind        domain.CatalogKind `json:"kind" binding:"required,oneof=exercise recipe mental_exercise"`
	Name        string             `json:"name" binding:"required"`
	Description string             `json:"description"`
	IsDraft     bool               `json:"isDraft"`
	ImageURL    string             `json:"imageUrl" binding:"omitempty,url"`
	VideoURL    string             `json:"videoUrl" binding:"omitempty,url"`
	MuscleGroup string             `json:"muscleGroup"`
	Difficulty  string             `json:"difficulty"`
	Equipment   string             `json:"equipment"`
	Ingredients []string           `json:"ingredients"`
	Calories    int                `json:"calories" binding:"omitempty,min=0"`
	PrepMinutes int                `json:"prepMinutes" binding:"omitempty,min=0"`
	AudioURL    string             `json:"audioUrl" binding:"omitempty,url"`
	DurationMin int                `json:"durationMin" binding:"omitempty,min=0"`
}

// CatalogItemResponse is the DTO for returning catalog item details.
type CatalogItemResponse struct {
	ID          string             `json:"id"`
	CoachID     string             `json:"coachId"`
	Kind        domain.CatalogKind `json:"kind"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	IsDraft     bool               `json:"isDraft"`
	ImageURL    string             `json:"imageUrl,omitempty"`
	VideoURL    string             `json:"videoUrl,omitempty"`
	MuscleGroup string             `json:"muscleGroup,omitempty"`
	Difficulty  string             `json:"difficulty,omitempty"`
	Equipment   string             `json:"equipment,omitempty"`
	Ingredients []string           `json:"ingredients,omitempty"`
	Calories    int                `json:"calories,omitempty"`
	PrepMinutes int                `json:"prepMinutes,omitempty"`
	AudioURL    string             `json:"audioUrl,omitempty"`
	DurationMin int                `json:"durationMin,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// MapCatalogItemToResponse converts a domain.CatalogItem to its DTO.
func MapCatalogItemToResponse(item *domain.CatalogItem) CatalogItemResponse {
	if item == nil {
		return CatalogItemResponse{}
	}
	return CatalogItemResponse{
		ID:          item.ID.Hex(),
		CoachID:     item.CoachID.Hex(),
		Kind:        item.Kind,
		Name:        item.Name,
		Description: item.Description,
		IsDraft:     item.IsDraft,
		ImageURL:    item.ImageURL,
		VideoURL:    item.VideoURL,
		MuscleGroup: item.MuscleGroup,
		Difficulty:  item.Difficulty,
		Equipment:   item.Equipment,
		Ingredients: item.Ingredients,
		Calories:    item.Calories,
		PrepMinutes: item.PrepMinutes,
		AudioURL:    item.AudioURL,
		DurationMin: item.DurationMin,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// MapCatalogItemsToResponse converts a slice of items to DTOs.
func MapCatalogItemsToResponse(items []domain.CatalogItem) []CatalogItemResponse {
	responses := make([]CatalogItemResponse, len(items))
	for i, item := range items {
		responses[i] = MapCatalogItemToResponse(&item)
	}
	return responses
}

func (r CatalogItemRequest) toInput() service.CatalogItemInput {
	return service.CatalogItemInput{
		Name:        r.Name,
		Description: r.Description,
		IsDraft:     r.IsDraft,
		ImageURL:    r.ImageURL,
		VideoURL:    r.VideoURL,
		MuscleGroup: r.MuscleGroup,
		Difficulty:  r.Difficulty,
		Equipment:   r.Equipment,
		Ingredients: r.Ingredients,
		Calories:    r.Calories,
		PrepMinutes: r.PrepMinutes,
		AudioURL:    r.AudioURL,
		DurationMin: r.DurationMin,
	}
}

// --- Handler Methods ---

// CreateItem handles POST /coach/catalog
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	coachID, ok := userObjectIDFromContext(c)
	if !ok {
		return
	}

	item, err := h.catalogService.CreateItem(c.Request.Context(), coachID, req.Kind, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create catalog item.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapCatalogItemToResponse(item))
}

// ListItems handles GET /coach/catalog?kind=exercise&includeDrafts=true
func (h *CatalogHandler) ListItems(c *gin.Context) {
	coachID, ok := userObjectIDFromContext(c)
	if !ok {
		return
	}

	kind := domain.CatalogKind(c.Query("kind"))
	includeDrafts := c.Query("includeDrafts") == "true"

	items, err := h.catalogService.ListItems(c.Request.Context(), coachID, kind, includeDrafts)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list catalog items.")
		return
	}

	c.JSON(http.StatusOK, MapCatalogItemsToResponse(items))
}

// GetItem handles GET /coach/catalog/:id
func (h *CatalogHandler) GetItem(c *gin.Context) {
	itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid catalog item ID format.")
		return
	}

	item, err := h.catalogService.GetItemByID(c.Request.Context(), itemID)
	if err != nil {
		if errors.Is(err, service.ErrCatalogItemNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to get catalog item.")
		}
		return
	}

	c.JSON(http.StatusOK, MapCatalogItemToResponse(item))
}

// UpdateItem handles PUT /coach/catalog/:id
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid catalog item ID format.")
		return
	}

	var req CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	coachID, ok := userObjectIDFromContext(c)
	if !ok {
		return
	}

	item, err := h.catalogService.UpdateItem(c.Request.Context(), coachID, itemID, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCatalogItemNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrCatalogItemAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update catalog item.")
		}
		return
	}

	c.JSON(http.StatusOK, MapCatalogItemToResponse(item))
}

// DeleteItem handles DELETE /coach/catalog/:id
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid catalog item ID format.")
		return
	}

	coachID, ok := userObjectIDFromContext(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteItem(c.Request.Context(), coachID, itemID); err != nil {
		if errors.Is(err, service.ErrCatalogItemNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete catalog item.")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// userObjectIDFromContext extracts and parses the authenticated user's ID,
// writing the error response itself on failure.
func userObjectIDFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return id, true
}
