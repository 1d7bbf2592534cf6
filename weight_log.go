package main

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Neel-Sh/HealthAI-sub002/internal/energy"
)

// maxWeightKg bounds a weight entry; anything above is a typo.
const maxWeightKg = 999.9

// getWeightLog returns weight entries for the authenticated user within [start, end].
// GET /api/weight-log?start=YYYY-MM-DD&end=YYYY-MM-DD. Both params required.
// Returns an empty array (not null) if no entries exist in the range.
func (h *Handler) getWeightLog(c *gin.Context) {
	userID := c.GetInt("user_id")
	start, end, ok := rangeQuery(c)
	if !ok {
		return
	}

	entries, err := h.store.listWeights(c, userID, start, end)
	if err != nil {
		log.Printf("[getWeightLog] user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to fetch weight log")
		return
	}
	if entries == nil {
		entries = []weightEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// upsertWeightEntry creates or updates the weight entry for the given date.
// POST /api/weight-log. Body: { "date": "YYYY-MM-DD", "weight_kg": 82.4 }.
// The latest entry becomes the profile's measured weight.
func (h *Handler) upsertWeightEntry(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body struct {
		Date     string  `json:"date"`
		WeightKg float64 `json:"weight_kg"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	day := h.today()
	if body.Date != "" {
		d, err := energy.ParseDay(body.Date)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		day = d
	}
	if body.WeightKg <= 0 || body.WeightKg > maxWeightKg {
		apiError(c, http.StatusBadRequest, "weight_kg must be between 0 and 999.9")
		return
	}

	entry, err := h.store.upsertWeight(c, userID, day, body.WeightKg)
	if err != nil {
		log.Printf("[upsertWeightEntry] user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to upsert weight entry")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// deleteWeightEntry removes a weight log entry by ID.
// DELETE /api/weight-log/:id. Returns 204 on success, 404 if not found.
func (h *Handler) deleteWeightEntry(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid weight entry id")
		return
	}

	deleted, err := h.store.deleteWeight(c, userID, id)
	if err != nil {
		log.Printf("[deleteWeightEntry] user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to delete weight entry")
		return
	}
	if !deleted {
		apiError(c, http.StatusNotFound, "weight entry not found")
		return
	}
	c.Status(http.StatusNoContent)
}
