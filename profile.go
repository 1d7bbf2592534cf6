package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Neel-Sh/HealthAI-sub002/internal/energy"
)

// resolvedProfile loads the stored profile and latest logged weight and
// merges them with the engine defaults.
func (h *Handler) resolvedProfile(c *gin.Context, userID int) (profileRow, energy.Profile, error) {
	row, err := h.store.getProfile(c, userID)
	if err != nil {
		return profileRow{}, energy.Profile{}, err
	}
	latest, err := h.store.latestWeight(c, userID)
	if err != nil {
		return profileRow{}, energy.Profile{}, err
	}
	return row, energy.ResolveProfile(row.input(latest)), nil
}

// getProfile returns the stored body attributes and the resolved profile.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	row, p, err := h.resolvedProfile(c, userID)
	if err != nil {
		log.Printf("[getProfile] user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, profileResponse{Stored: row, Resolved: p, Valid: p.Validate() == nil})
}

// patchProfile updates only the provided body attributes.
// PATCH /api/profile. Non-positive measurements are rejected here so they
// never reach the engine.
func (h *Handler) patchProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	positive := []struct {
		name  string
		value *float64
	}{
		{"weight_kg", body.WeightKg},
		{"height_cm", body.HeightCm},
		{"age_years", body.AgeYears},
		{"target_weight_kg", body.TargetWeightKg},
	}
	for _, f := range positive {
		if f.value != nil && *f.value <= 0 {
			apiError(c, http.StatusBadRequest, f.name+" must be positive")
			return
		}
	}
	if body.Sex != nil && !energy.Sex(*body.Sex).Valid() {
		apiError(c, http.StatusBadRequest, "sex must be one of: male, female")
		return
	}

	row, err := h.store.getProfile(c, userID)
	if err != nil {
		log.Printf("[patchProfile] load user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	if body.WeightKg != nil {
		row.WeightKg = body.WeightKg
	}
	if body.HeightCm != nil {
		row.HeightCm = body.HeightCm
	}
	if body.AgeYears != nil {
		row.AgeYears = body.AgeYears
	}
	if body.Sex != nil {
		row.Sex = body.Sex
	}
	if body.TargetWeightKg != nil {
		row.TargetWeightKg = body.TargetWeightKg
	}

	row.UserID = userID
	saved, err := h.store.saveProfile(c, row)
	if err != nil {
		log.Printf("[patchProfile] save user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	_, p, err := h.resolvedProfile(c, userID)
	if err != nil {
		log.Printf("[patchProfile] resolve user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	c.JSON(http.StatusOK, profileResponse{Stored: saved, Resolved: p, Valid: p.Validate() == nil})
}
