// internal/api/program_handler.go
package api

import (
	"context"
	"errors"
	"net/http"
	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"
	"peakform/coaching-app/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramHandler holds the program service dependency.
type ProgramHandler struct {
	programService service.ProgramService
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// --- DTOs ---

// BlockRequest is one content block in a submitted tree.
type BlockRequest struct {
	Type       domain.BlockType `json:"type" binding:"required,oneof=exercise recipe mental text image video url pro_tip avoidance"`
	Order      int              `json:"order"`
	Data       domain.BlockData `json:"data"`
	CatalogRef string           `json:"catalogRef" binding:"omitempty,len=24"`
}

// DayRequest is one day in a submitted tree.
type DayRequest struct {
	Name      string         `json:"name"`
	DayNumber int            `json:"dayNumber" binding:"required,min=1"`
	Blocks    []BlockRequest `json:"blocks"`
}

// WeekRequest is one week in a submitted tree.
type WeekRequest struct {
	WeekNumber int          `json:"weekNumber" binding:"required,min=1"`
	Title      string       `json:"title"`
	Days       []DayRequest `json:"days"`
}

// SaveProgramRequest is the full editing-session payload flushed on save.
type SaveProgramRequest struct {
	Title         string                 `json:"title" binding:"required"`
	Description   string                 `json:"description"`
	Category      domain.ProgramCategory `json:"category" binding:"required,oneof=fitness nutrition mental"`
	Tags          []string               `json:"tags"`
	HeaderImage   string                 `json:"headerImage" binding:"omitempty,url"`
	GuidanceText  string                 `json:"guidanceText"`
	ProTip        string                 `json:"proTip"`
	AvoidanceText string                 `json:"avoidanceText"`
	Weeks         []WeekRequest          `json:"weeks"`
}

type AssignProgramRequest struct {
	ClientID        string `json:"clientId" binding:"required,len=24"`
	PersonalMessage string `json:"personalMessage"`
}

type PublishProgramRequest struct {
	Price float64 `json:"price" binding:"required,gt=0"`
}

// ProgramResponse is the DTO for a program document (without resolution).
type ProgramResponse struct {
	ID              string                 `json:"id"`
	CoachID         string                 `json:"coachId"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description,omitempty"`
	Category        domain.ProgramCategory `json:"category"`
	Tags            []string               `json:"tags,omitempty"`
	HeaderImage     string                 `json:"headerImage,omitempty"`
	GuidanceText    string                 `json:"guidanceText,omitempty"`
	ProTip          string                 `json:"proTip,omitempty"`
	AvoidanceText   string                 `json:"avoidanceText,omitempty"`
	State           domain.ProgramState    `json:"state"`
	ClientID        *string                `json:"clientId,omitempty"`
	AssignedAt      *time.Time             `json:"assignedAt,omitempty"`
	PersonalMessage string                 `json:"personalMessage,omitempty"`
	ShopPrice       *float64               `json:"shopPrice,omitempty"`
	ShopListedAt    *time.Time             `json:"shopListedAt,omitempty"`
	Weeks           []domain.Week          `json:"weeks,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

// ProgramSummaryResponse is one row of the coach-facing listing.
type ProgramSummaryResponse struct {
	ProgramResponse
	ClientName string `json:"clientName,omitempty"`
	WeekCount  int    `json:"weekCount"`
}

// MapProgramToResponse converts a domain.Program to its DTO.
func MapProgramToResponse(p *domain.Program) ProgramResponse {
	if p == nil {
		return ProgramResponse{}
	}
	resp := ProgramResponse{
		ID:              p.ID.Hex(),
		CoachID:         p.CoachID.Hex(),
		Title:           p.Title,
		Description:     p.Description,
		Category:        p.Category,
		Tags:            p.Tags,
		HeaderImage:     p.HeaderImage,
		GuidanceText:    p.GuidanceText,
		ProTip:          p.ProTip,
		AvoidanceText:   p.AvoidanceText,
		State:           p.State,
		AssignedAt:      p.AssignedAt,
		PersonalMessage: p.PersonalMessage,
		ShopPrice:       p.ShopPrice,
		ShopListedAt:    p.ShopListedAt,
		Weeks:           p.Weeks,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.ClientID != nil {
		clientIDHex := p.ClientID.Hex()
		resp.ClientID = &clientIDHex
	}
	return resp
}

// toContent converts the request payload to the service-level content patch.
func (r SaveProgramRequest) toContent() (service.ProgramContent, error) {
	weeks := make([]domain.Week, len(r.Weeks))
	for wi, wr := range r.Weeks {
		days := make([]domain.Day, len(wr.Days))
		for di, dr := range wr.Days {
			blocks := make([]domain.ContentBlock, len(dr.Blocks))
			for bi, br := range dr.Blocks {
				block := domain.ContentBlock{
					Type:  br.Type,
					Order: br.Order,
					Data:  br.Data,
				}
				if br.CatalogRef != "" {
					ref, err := primitive.ObjectIDFromHex(br.CatalogRef)
					if err != nil {
						return service.ProgramContent{}, errors.New("invalid catalogRef: " + br.CatalogRef)
					}
					block.CatalogRef = &ref
				}
				blocks[bi] = block
			}
			days[di] = domain.Day{
				Name:      dr.Name,
				DayNumber: dr.DayNumber,
				Blocks:    blocks,
			}
		}
		weeks[wi] = domain.Week{
			WeekNumber: wr.WeekNumber,
			Title:      wr.Title,
			Days:       days,
		}
	}

	return service.ProgramContent{
		Title:         r.Title,
		Description:   r.Description,
		Category:      r.Category,
		Tags:          r.Tags,
		HeaderImage:   r.HeaderImage,
		GuidanceText:  r.GuidanceText,
		ProTip:        r.ProTip,
		AvoidanceText: r.AvoidanceText,
		Weeks:         weeks,
	}, nil
}

// --- Handler Methods ---

// SaveProgram handles POST /coach/programs and PUT /coach/programs/:id
// (create in saved state or content-edit preserving lifecycle state).
func (h *ProgramHandler) SaveProgram(c *gin.Context) {
	h.save(c, h.programService.CreateOrUpdateProgram)
}

// SaveDraft handles POST /coach/programs/draft and PUT /coach/programs/:id/draft.
func (h *ProgramHandler) SaveDraft(c *gin.Context) {
	h.save(c, h.programService.SaveDraft)
}

func (h *ProgramHandler) save(
	c *gin.Context,
	fn func(ctx context.Context, coachID, programID primitive.ObjectID, content service.ProgramContent) (*domain.Program, error),
) {
	var req SaveProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	coachID, ok := userObjectIDFromContext(c)
	if !ok {
		return
	}

	programID := primitive.NilObjectID
	if idParam := c.Param("id"); idParam != "" {
		var err error
		programID, err = primitive.ObjectIDFromHex(idParam)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid program ID format.")
			return
		}
	}

	content, err := req.toContent()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	program, err := fn(c.Request.Context(), coachID, programID, content)
	if err != nil {
		h.mapSaveError(c, err)
		return
	}

	status := http.StatusOK
	if programID == primitive.NilObjectID {
		status = http.StatusCreated
	}
	c.JSON(status, MapProgramToResponse(program))
}

func (h *ProgramHandler) mapSaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProgramAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrPartialWrite):
		// The tree replace aborted partway; the coach should re-save.
		abortWithError(c, http.StatusInternalServerError, "Program content was only partially saved; please save again.")
	default:
		abortWithError(c, http.StatusBadRequest, err.Error())
	}
}

// GetProgram handles GET /coach/programs/:id (resolved view).
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	coachID, programID, ok := h.ids(c)
	if !ok {
		return
	}

	view, err := h.programService.GetProgram(c.Request.Context(), coachID, programID)
	if err != nil {
		h.mapLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListPrograms handles GET /coach/programs (enriched listing).
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	coachID, ok := userObjectIDFromContext(c)
	if !ok {
		return
	}

	summaries, err := h.programService.ListPrograms(c.Request.Context(), coachID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list programs.")
		return
	}

	responses := make([]ProgramSummaryResponse, len(summaries))
	for i, s := range summaries {
		responses[i] = ProgramSummaryResponse{
			ProgramResponse: MapProgramToResponse(&s.Program),
			ClientName:      s.ClientName,
			WeekCount:       s.WeekCount,
		}
	}
	c.JSON(http.StatusOK, responses)
}

// AssignProgram handles POST /coach/programs/:id/assign.
func (h *ProgramHandler) AssignProgram(c *gin.Context) {
	coachID, programID, ok := h.ids(c)
	if !ok {
		return
	}

	var req AssignProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return
	}

	err = h.programService.AssignToClient(c.Request.Context(), coachID, programID, clientID, req.PersonalMessage)
	if err != nil {
		h.mapLifecycleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PublishProgram handles POST /coach/programs/:id/publish.
func (h *ProgramHandler) PublishProgram(c *gin.Context) {
	coachID, programID, ok := h.ids(c)
	if !ok {
		return
	}

	var req PublishProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	err := h.programService.PublishToShop(c.Request.Context(), coachID, programID, req.Price)
	if err != nil {
		h.mapLifecycleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UnassignProgram handles POST /coach/programs/:id/unassign.
func (h *ProgramHandler) UnassignProgram(c *gin.Context) {
	coachID, programID, ok := h.ids(c)
	if !ok {
		return
	}

	err := h.programService.Unassign(c.Request.Context(), coachID, programID)
	if err != nil {
		h.mapLifecycleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DelistProgram handles POST /coach/programs/:id/delist.
func (h *ProgramHandler) DelistProgram(c *gin.Context) {
	coachID, programID, ok := h.ids(c)
	if !ok {
		return
	}

	err := h.programService.DelistFromShop(c.Request.Context(), coachID, programID)
	if err != nil {
		h.mapLifecycleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DuplicateProgram handles POST /coach/programs/:id/duplicate.
func (h *ProgramHandler) DuplicateProgram(c *gin.Context) {
	coachID, programID, ok := h.ids(c)
	if !ok {
		return
	}

	program, err := h.programService.DuplicateProgram(c.Request.Context(), coachID, programID)
	if err != nil {
		h.mapLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapProgramToResponse(program))
}

// DeleteProgram handles DELETE /coach/programs/:id.
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	coachID, programID, ok := h.ids(c)
	if !ok {
		return
	}

	err := h.programService.DeleteProgram(c.Request.Context(), coachID, programID)
	if err != nil {
		h.mapLifecycleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProgramHandler) ids(c *gin.Context) (coachID, programID primitive.ObjectID, ok bool) {
	coachID, ok = userObjectIDFromContext(c)
	if !ok {
		return
	}
	programID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format.")
		return coachID, primitive.NilObjectID, false
	}
	return coachID, programID, true
}

func (h *ProgramHandler) mapLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound), errors.Is(err, service.ErrClientNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProgramAccessDenied), errors.Is(err, service.ErrClientNotManaged), errors.Is(err, service.ErrClientNotRole):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrAssignmentActive):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Program operation failed.")
	}
}
