// internal/api/client_handler.go
package api

import (
	"alcyxob/fitplan/internal/domain"
	"alcyxob/fitplan/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	clientService  service.ClientService
	workoutService service.WorkoutService
}

func NewClientHandler(clientService service.ClientService, workoutService service.WorkoutService) *ClientHandler {
	return &ClientHandler{clientService: clientService, workoutService: workoutService}
}

type ClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

// ListClients godoc
// @Summary List clients
// @Tags Clients
// @Produce json
// @Param q query string false "Search over name, email and phone"
// @Success 200 {array} domain.Client
// @Router /clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	clients, err := h.clientService.ListClients(c.Request.Context(), c.Query("q"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve clients.")
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetClient godoc
// @Summary Get one client
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} domain.Client
// @Failure 404 {object} gin.H "Client not found"
// @Router /clients/{id} [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	client, err := h.clientService.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve client.")
		return
	}
	c.JSON(http.StatusOK, client)
}

// CreateClient godoc
// @Summary Create a client
// @Tags Clients
// @Accept json
// @Produce json
// @Param client body ClientRequest true "Client details"
// @Success 201 {object} domain.Client
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Router /clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	client, err := h.clientService.CreateClient(c.Request.Context(), &domain.Client{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	})
	if err != nil {
		abortWithServiceError(c, err, "Failed to create client.")
		return
	}
	c.JSON(http.StatusCreated, client)
}

// UpdateClient godoc
// @Summary Update a client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param patch body domain.ClientPatch true "Fields to change"
// @Success 200 {object} domain.Client
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 404 {object} gin.H "Client not found"
// @Router /clients/{id} [put]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var patch domain.ClientPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	client, err := h.clientService.UpdateClient(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		abortWithServiceError(c, err, "Failed to update client.")
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient godoc
// @Summary Delete a client
// @Description Workouts written for the client are kept.
// @Tags Clients
// @Param id path string true "Client ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Client not found"
// @Router /clients/{id} [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	if err := h.clientService.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		abortWithServiceError(c, err, "Failed to delete client.")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetClientWorkouts godoc
// @Summary List the plans written for a client
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {array} domain.Workout
// @Failure 404 {object} gin.H "Client not found"
// @Router /clients/{id}/workouts [get]
func (h *ClientHandler) GetClientWorkouts(c *gin.Context) {
	workouts, err := h.workoutService.ListWorkoutsByClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve workouts.")
		return
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	c.JSON(http.StatusOK, workouts)
}
