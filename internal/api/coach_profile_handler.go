package api

import (
	"alcyxob/fitplan/internal/domain"
	"alcyxob/fitplan/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CoachProfileHandler struct {
	profileService service.CoachProfileService
}

func NewCoachProfileHandler(profileService service.CoachProfileService) *CoachProfileHandler {
	return &CoachProfileHandler{profileService: profileService}
}

// GetProfile godoc
// @Summary Get the coach profile
// @Tags Coach profile
// @Produce json
// @Success 200 {object} domain.CoachProfile
// @Failure 404 {object} gin.H "No profile yet"
// @Router /coach-profile [get]
func (h *CoachProfileHandler) GetProfile(c *gin.Context) {
	p, err := h.profileService.GetProfile(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve coach profile.")
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetProfileByID godoc
// @Summary Get the coach profile by id
// @Tags Coach profile
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} domain.CoachProfile
// @Failure 404 {object} gin.H "Profile not found"
// @Router /coach-profile/{id} [get]
func (h *CoachProfileHandler) GetProfileByID(c *gin.Context) {
	p, err := h.profileService.GetProfileByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve coach profile.")
		return
	}
	c.JSON(http.StatusOK, p)
}

// ReplaceProfile godoc
// @Summary Create the coach profile
// @Description Any existing profile is discarded, not merged.
// @Tags Coach profile
// @Accept json
// @Produce json
// @Param profile body domain.CoachProfile true "Profile"
// @Success 201 {object} domain.CoachProfile
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Router /coach-profile [post]
func (h *CoachProfileHandler) ReplaceProfile(c *gin.Context) {
	var req domain.CoachProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	p, err := h.profileService.ReplaceProfile(c.Request.Context(), &req)
	if err != nil {
		abortWithServiceError(c, err, "Failed to save coach profile.")
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdateProfile godoc
// @Summary Update the coach profile
// @Tags Coach profile
// @Accept json
// @Produce json
// @Param id path string true "Profile ID"
// @Param patch body domain.CoachProfilePatch true "Fields to change"
// @Success 200 {object} domain.CoachProfile
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 404 {object} gin.H "Profile not found"
// @Router /coach-profile/{id} [put]
func (h *CoachProfileHandler) UpdateProfile(c *gin.Context) {
	var patch domain.CoachProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	p, err := h.profileService.UpdateProfile(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		abortWithServiceError(c, err, "Failed to update coach profile.")
		return
	}
	c.JSON(http.StatusOK, p)
}
