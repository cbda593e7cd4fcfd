// internal/api/client_handler.go
package api

import (
	"errors"
	"net/http"
	"peakform/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ClientHandler struct {
	clientService service.ClientService
}

func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// GetMyPrograms lists the programs assigned to the authenticated client.
func (h *ClientHandler) GetMyPrograms(c *gin.Context) {
	clientID, ok := userObjectIDFromContext(c)
	if !ok {
		return
	}

	programs, err := h.clientService.GetMyPrograms(c.Request.Context(), clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve assigned programs.")
		return
	}
	c.JSON(http.StatusOK, programs)
}

// GetMyProgram returns the resolved view of one assigned program.
func (h *ClientHandler) GetMyProgram(c *gin.Context) {
	clientID, ok := userObjectIDFromContext(c)
	if !ok {
		return
	}
	programID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format.")
		return
	}

	view, err := h.clientService.GetMyProgram(c.Request.Context(), clientID, programID)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrProgramNotAssignedToClient) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve program.")
		}
		return
	}
	c.JSON(http.StatusOK, view)
}
