package api

import (
	"alcyxob/fitplan/internal/service"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Structural edits of a plan. Each call saves the plan and answers with
// the full updated workout plus the id of any node it created.

// AddWeek godoc
// @Summary Append a week
// @Description The new week gets number N+1 and an empty "Day 1".
// @Tags Plan editor
// @Produce json
// @Param id path string true "Workout ID"
// @Success 201 {object} service.EditResult
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id}/weeks [post]
func (h *WorkoutHandler) AddWeek(c *gin.Context) {
	res, err := h.workoutService.AddWeek(c.Request.Context(), c.Param("id"))
	respondEdit(c, http.StatusCreated, res, err)
}

// RemoveWeek godoc
// @Summary Remove a week
// @Description Remaining weeks are renumbered 1..N.
// @Tags Plan editor
// @Produce json
// @Param id path string true "Workout ID"
// @Param weekId path string true "Week ID"
// @Success 200 {object} service.EditResult
// @Failure 404 {object} gin.H "Workout or week not found"
// @Router /workouts/{id}/weeks/{weekId} [delete]
func (h *WorkoutHandler) RemoveWeek(c *gin.Context) {
	res, err := h.workoutService.RemoveWeek(c.Request.Context(), c.Param("id"), c.Param("weekId"))
	respondEdit(c, http.StatusOK, res, err)
}

// AddDay godoc
// @Summary Append a day to a week
// @Tags Plan editor
// @Produce json
// @Param id path string true "Workout ID"
// @Param weekId path string true "Week ID"
// @Success 201 {object} service.EditResult
// @Failure 404 {object} gin.H "Workout or week not found"
// @Router /workouts/{id}/weeks/{weekId}/days [post]
func (h *WorkoutHandler) AddDay(c *gin.Context) {
	res, err := h.workoutService.AddDay(c.Request.Context(), c.Param("id"), c.Param("weekId"))
	respondEdit(c, http.StatusCreated, res, err)
}

// RemoveDay godoc
// @Summary Remove a day
// @Tags Plan editor
// @Produce json
// @Param id path string true "Workout ID"
// @Param weekId path string true "Week ID"
// @Param dayId path string true "Day ID"
// @Success 200 {object} service.EditResult
// @Failure 404 {object} gin.H "Workout, week or day not found"
// @Router /workouts/{id}/weeks/{weekId}/days/{dayId} [delete]
func (h *WorkoutHandler) RemoveDay(c *gin.Context) {
	res, err := h.workoutService.RemoveDay(c.Request.Context(), c.Param("id"), c.Param("weekId"), c.Param("dayId"))
	respondEdit(c, http.StatusOK, res, err)
}

// AddExercise godoc
// @Summary Append an exercise to a day
// @Description The body holds the initial field values keyed by JSON name; name, sets and reps are required for the plan to save.
// @Tags Plan editor
// @Accept json
// @Produce json
// @Param id path string true "Workout ID"
// @Param weekId path string true "Week ID"
// @Param dayId path string true "Day ID"
// @Param fields body object false "Initial field values"
// @Success 201 {object} service.EditResult
// @Failure 400 {object} gin.H "Invalid field or validation error"
// @Failure 404 {object} gin.H "Workout, week or day not found"
// @Router /workouts/{id}/weeks/{weekId}/days/{dayId}/exercises [post]
func (h *WorkoutHandler) AddExercise(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Could not read request body")
		return
	}
	var initial map[string]json.RawMessage
	if len(body) > 0 {
		if err := json.Unmarshal(body, &initial); err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
			return
		}
	}
	res, err := h.workoutService.AddExercise(c.Request.Context(), c.Param("id"), c.Param("weekId"), c.Param("dayId"), initial)
	respondEdit(c, http.StatusCreated, res, err)
}

// RemoveExercise godoc
// @Summary Remove an exercise
// @Tags Plan editor
// @Produce json
// @Param id path string true "Workout ID"
// @Param weekId path string true "Week ID"
// @Param dayId path string true "Day ID"
// @Param exerciseId path string true "Exercise ID"
// @Success 200 {object} service.EditResult
// @Failure 404 {object} gin.H "Node not found"
// @Router /workouts/{id}/weeks/{weekId}/days/{dayId}/exercises/{exerciseId} [delete]
func (h *WorkoutHandler) RemoveExercise(c *gin.Context) {
	res, err := h.workoutService.RemoveExercise(c.Request.Context(),
		c.Param("id"), c.Param("weekId"), c.Param("dayId"), c.Param("exerciseId"))
	respondEdit(c, http.StatusOK, res, err)
}

// UpdateField godoc
// @Summary Set one field of the plan or one of its nodes
// @Tags Plan editor
// @Accept json
// @Produce json
// @Param id path string true "Workout ID"
// @Param update body service.FieldUpdate true "Target node, field and value"
// @Success 200 {object} service.EditResult
// @Failure 400 {object} gin.H "Unknown field or bad value"
// @Failure 404 {object} gin.H "Node not found"
// @Router /workouts/{id}/fields [patch]
func (h *WorkoutHandler) UpdateField(c *gin.Context) {
	var req service.FieldUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	res, err := h.workoutService.UpdateField(c.Request.Context(), c.Param("id"), req)
	respondEdit(c, http.StatusOK, res, err)
}

func respondEdit(c *gin.Context, status int, res *service.EditResult, err error) {
	if err != nil {
		abortWithServiceError(c, err, "Failed to edit workout.")
		return
	}
	c.JSON(status, res)
}
