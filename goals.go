package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Neel-Sh/HealthAI-sub002/internal/energy"
)

// getGoals returns the user's goal parameters (defaults if never saved).
// GET /api/goals.
func (h *Handler) getGoals(c *gin.Context) {
	userID := c.GetInt("user_id")

	g, err := h.store.getGoals(c, userID)
	if err != nil {
		log.Printf("[getGoals] user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to fetch goals")
		return
	}
	c.JSON(http.StatusOK, g)
}

// patchGoals updates only the provided goal fields.
// PATCH /api/goals. Weekly rates outside the allowed band are clamped rather
// than rejected, matching how the engine treats them.
func (h *Handler) patchGoals(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchGoalsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// Validate enums before saving; a bad direction would silently compute as
	// maintain on every later snapshot.
	if body.Direction != nil && !energy.Direction(*body.Direction).Valid() {
		apiError(c, http.StatusBadRequest, "direction must be one of: lose, maintain, gain")
		return
	}
	if body.FallbackActivityLevel != nil {
		if _, err := energy.ParseActivityLevel(*body.FallbackActivityLevel); err != nil {
			apiError(c, http.StatusBadRequest, "fallback_activity_level must be one of: sedentary, lightly_active, moderately_active, very_active, extra_active")
			return
		}
	}
	if body.CalorieGoalOverride != nil && *body.CalorieGoalOverride <= 0 {
		apiError(c, http.StatusBadRequest, "calorie_goal_override must be positive")
		return
	}
	if body.DeficitGoalOverride != nil && *body.DeficitGoalOverride < 0 {
		apiError(c, http.StatusBadRequest, "deficit_goal_override must not be negative")
		return
	}

	g, err := h.store.getGoals(c, userID)
	if err != nil {
		log.Printf("[patchGoals] load user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to fetch goals")
		return
	}

	if body.Direction != nil {
		g.Direction = *body.Direction
	}
	if body.WeeklyRateKg != nil {
		g.WeeklyRateKg = energy.ClampWeeklyRate(*body.WeeklyRateKg)
	}
	if body.CalorieGoalOverride != nil {
		g.CalorieGoalOverride = body.CalorieGoalOverride
	}
	if body.ClearCalorieGoalOverride {
		g.CalorieGoalOverride = nil
	}
	if body.DeficitGoalOverride != nil {
		g.DeficitGoalOverride = body.DeficitGoalOverride
	}
	if body.ClearDeficitGoalOverride {
		g.DeficitGoalOverride = nil
	}
	if body.FallbackActivityLevel != nil {
		g.FallbackActivityLevel = body.FallbackActivityLevel
	}
	if body.ClearFallbackActivity {
		g.FallbackActivityLevel = nil
	}

	g.UserID = userID
	saved, err := h.store.saveGoals(c, g)
	if err != nil {
		log.Printf("[patchGoals] save user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to update goals")
		return
	}
	c.JSON(http.StatusOK, saved)
}
