// internal/api/workout_handler.go
package api

import (
	"alcyxob/fitplan/internal/domain"
	"alcyxob/fitplan/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct {
	workoutService  service.WorkoutService
	documentService service.DocumentService
}

func NewWorkoutHandler(workoutService service.WorkoutService, documentService service.DocumentService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService, documentService: documentService}
}

// ListWorkouts godoc
// @Summary List workout plans
// @Description Returns every plan, most recently updated first.
// @Tags Workouts
// @Produce json
// @Param q query string false "Search over name, client, coach and type"
// @Param type query string false "Exact workout type"
// @Success 200 {array} domain.Workout
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), service.WorkoutFilter{
		Query: c.Query("q"),
		Type:  c.Query("type"),
	})
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve workouts.")
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// GetWorkout godoc
// @Summary Get one workout plan
// @Tags Workouts
// @Produce json
// @Param id path string true "Workout ID"
// @Success 200 {object} domain.Workout
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	w, err := h.workoutService.GetWorkout(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve workout.")
		return
	}
	c.JSON(http.StatusOK, w)
}

// CreateWorkout godoc
// @Summary Create a workout plan
// @Description Weeks may be sent inline; missing ids are generated and weeks are numbered by position.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param workout body domain.Workout true "Workout"
// @Success 201 {object} domain.Workout
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req domain.Workout
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	req.ID = ""
	w, err := h.workoutService.CreateWorkout(c.Request.Context(), &req)
	if err != nil {
		abortWithServiceError(c, err, "Failed to create workout.")
		return
	}
	c.JSON(http.StatusCreated, w)
}

// UpdateWorkout godoc
// @Summary Update a workout plan
// @Description Partial update. Sending "version" makes the update fail with 409 if the plan changed meanwhile.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param id path string true "Workout ID"
// @Param patch body domain.WorkoutPatch true "Fields to change"
// @Success 200 {object} domain.Workout
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 404 {object} gin.H "Workout not found"
// @Failure 409 {object} gin.H "Version conflict"
// @Router /workouts/{id} [put]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	var patch domain.WorkoutPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	w, err := h.workoutService.UpdateWorkout(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		abortWithServiceError(c, err, "Failed to update workout.")
		return
	}
	c.JSON(http.StatusOK, w)
}

// DeleteWorkout godoc
// @Summary Delete a workout plan
// @Tags Workouts
// @Param id path string true "Workout ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), c.Param("id")); err != nil {
		abortWithServiceError(c, err, "Failed to delete workout.")
		return
	}
	c.Status(http.StatusNoContent)
}

// DuplicateWorkout godoc
// @Summary Duplicate a workout plan
// @Description Deep copy with new ids; "(Copy)" is appended to the client name.
// @Tags Workouts
// @Produce json
// @Param id path string true "Workout ID"
// @Success 201 {object} domain.Workout
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id}/duplicate [post]
func (h *WorkoutHandler) DuplicateWorkout(c *gin.Context) {
	w, err := h.workoutService.DuplicateWorkout(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to duplicate workout.")
		return
	}
	c.JSON(http.StatusCreated, w)
}

// DownloadPDF godoc
// @Summary Render a workout plan as PDF
// @Description The suggested save path (export path hint + filename) is returned in X-Suggested-Path.
// @Tags Workouts
// @Produce application/pdf
// @Param id path string true "Workout ID"
// @Success 200 {file} file "plan-{client}.pdf"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id}/pdf [get]
func (h *WorkoutHandler) DownloadPDF(c *gin.Context) {
	plan, err := h.documentService.RenderWorkout(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to generate PDF.")
		return
	}
	setAttachment(c, plan.Filename)
	c.Header("X-Suggested-Path", plan.SuggestedPath)
	if plan.ArchiveURL != "" {
		c.Header("X-Archive-URL", plan.ArchiveURL)
	}
	c.Data(http.StatusOK, "application/pdf", plan.Data)
}
