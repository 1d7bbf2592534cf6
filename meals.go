package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Neel-Sh/HealthAI-sub002/internal/energy"
)

// dayBounds returns [start, end) for a local calendar day span.
func (h *Handler) dayBounds(first, last energy.Day) (time.Time, time.Time) {
	return first.Start(h.location()), last.AddDays(1).Start(h.location())
}

// getDailyMeals returns the meal entries and totals for one local day.
// GET /api/meals?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getDailyMeals(c *gin.Context) {
	userID := c.GetInt("user_id")
	day, ok := h.dayQuery(c, "date")
	if !ok {
		return
	}

	from, to := h.dayBounds(day, day)
	entries, err := h.store.listMeals(c, userID, from, to)
	if err != nil {
		log.Printf("[getDailyMeals] user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to fetch meals")
		return
	}
	// Ensure entries is an empty array (not null) in JSON
	if entries == nil {
		entries = []energy.MealEntry{}
	}

	c.JSON(http.StatusOK, dailyMeals{
		Date:    day,
		Entries: entries,
		Totals:  energy.Aggregate(entries, day, h.location()),
	})
}

// createMeal logs a new meal entry. logged_at defaults to now and source to
// manual_quick_add.
// POST /api/meals.
func (h *Handler) createMeal(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createMealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}

	e := energy.MealEntry{
		ID:       uuid.New(),
		LoggedAt: time.Now().UTC(),
		Name:     strings.TrimSpace(body.Name),
		Calories: body.Calories,
		ProteinG: body.ProteinG,
		CarbsG:   body.CarbsG,
		FatG:     body.FatG,
		FiberG:   body.FiberG,
		SugarG:   body.SugarG,
		SodiumMg: body.SodiumMg,
		WaterMl:  body.WaterMl,
		Source:   energy.MealSource(body.Source),
	}
	if body.LoggedAt != nil {
		e.LoggedAt = body.LoggedAt.UTC()
	}
	if e.Source == "" {
		e.Source = energy.SourceManualQuickAdd
	}
	if err := e.Validate(); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.store.createMeal(c, userID, e)
	if err != nil {
		log.Printf("[createMeal] user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to create meal")
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// deleteMeal removes a meal entry. Returns 204 on success.
// DELETE /api/meals/:id.
func (h *Handler) deleteMeal(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid meal id")
		return
	}

	deleted, err := h.store.deleteMeal(c, userID, id)
	if err != nil {
		log.Printf("[deleteMeal] user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to delete meal")
		return
	}
	if !deleted {
		apiError(c, http.StatusNotFound, "meal not found")
		return
	}
	c.Status(http.StatusNoContent)
}
