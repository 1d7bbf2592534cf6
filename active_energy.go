package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Neel-Sh/HealthAI-sub002/internal/energy"
)

// getActiveEnergy returns measured active-energy samples within [start, end].
// GET /api/active-energy?start=YYYY-MM-DD&end=YYYY-MM-DD. Days without a
// sample are simply absent; they count as zero active calories downstream.
func (h *Handler) getActiveEnergy(c *gin.Context) {
	userID := c.GetInt("user_id")
	start, end, ok := rangeQuery(c)
	if !ok {
		return
	}

	samples, err := h.store.listActiveEnergy(c, userID, start, end)
	if err != nil {
		log.Printf("[getActiveEnergy] user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to fetch active energy")
		return
	}
	if samples == nil {
		samples = []energy.ActiveEnergySample{}
	}
	c.JSON(http.StatusOK, samples)
}

// putActiveEnergy stores the day's sample, replacing any earlier value.
// PUT /api/active-energy/:date. Body: { "active_kcal": 420, "workouts": 1 }.
// The health-data sync client calls this once per day it has data for.
func (h *Handler) putActiveEnergy(c *gin.Context) {
	userID := c.GetInt("user_id")
	day, err := energy.ParseDay(c.Param("date"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	var body struct {
		ActiveKcal *float64 `json:"active_kcal"`
		Workouts   int      `json:"workouts"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.ActiveKcal == nil {
		apiError(c, http.StatusBadRequest, "active_kcal is required")
		return
	}
	if *body.ActiveKcal < 0 || body.Workouts < 0 {
		apiError(c, http.StatusBadRequest, "active_kcal and workouts must not be negative")
		return
	}

	saved, err := h.store.upsertActiveEnergy(c, userID, energy.ActiveEnergySample{
		Date:       day,
		ActiveKcal: *body.ActiveKcal,
		Workouts:   body.Workouts,
	})
	if err != nil {
		log.Printf("[putActiveEnergy] user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to save active energy")
		return
	}
	c.JSON(http.StatusOK, saved)
}

// getActivityLevel suggests a fallback activity level from the trailing week.
// GET /api/activity-level?end=YYYY-MM-DD (defaults to today).
func (h *Handler) getActivityLevel(c *gin.Context) {
	userID := c.GetInt("user_id")
	end, ok := h.dayQuery(c, "end")
	if !ok {
		return
	}

	samples, err := h.store.listActiveEnergy(c, userID, end.AddDays(1-energy.WindowDays), end)
	if err != nil {
		log.Printf("[getActivityLevel] user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to fetch active energy")
		return
	}
	c.JSON(http.StatusOK, energy.WeeklyActivitySummary(samples, end))
}
