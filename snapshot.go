package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Neel-Sh/HealthAI-sub002/internal/energy"
)

// snapshotInput resolves everything the engine needs for day: the profile
// (with the latest logged weight), goal parameters, the trailing week of
// meals ending on day, and that week's active-energy samples. All I/O
// happens here; the engine only runs once the inputs are materialized.
func (h *Handler) snapshotInput(c *gin.Context, userID int, day energy.Day) (energy.SnapshotInput, error) {
	row, profile, err := h.resolvedProfile(c, userID)
	if err != nil {
		return energy.SnapshotInput{}, err
	}
	goals, err := h.store.getGoals(c, userID)
	if err != nil {
		return energy.SnapshotInput{}, err
	}

	first := day.AddDays(1 - energy.WindowDays)
	from, to := h.dayBounds(first, day)
	meals, err := h.store.listMeals(c, userID, from, to)
	if err != nil {
		return energy.SnapshotInput{}, err
	}
	samples, err := h.store.listActiveEnergy(c, userID, first, day)
	if err != nil {
		return energy.SnapshotInput{}, err
	}

	return energy.SnapshotInput{
		Profile:        profile,
		Goals:          goals.params(),
		TargetWeightKg: row.TargetWeightKg,
		Today:          day,
		Location:       h.location(),
		// Aggregate filters by day, so today's intake can share the week's slice.
		TodaysEntries:    meals,
		TrailingEntries:  meals,
		ActiveEnergy:     samples,
		FallbackActivity: goals.fallbackLevel(),
	}, nil
}

// setupRequired answers an invalid profile with a 422 the client turns into
// an onboarding prompt instead of showing wrong numbers.
func setupRequired(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":          "profile incomplete",
		"detail":         err.Error(),
		"setup_required": true,
	})
}

// getSnapshot returns the full computed energy balance for a day.
// GET /api/snapshot?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getSnapshot(c *gin.Context) {
	userID := c.GetInt("user_id")
	day, ok := h.dayQuery(c, "date")
	if !ok {
		return
	}

	in, err := h.snapshotInput(c, userID, day)
	if err != nil {
		log.Printf("[getSnapshot] load user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to load snapshot data")
		return
	}

	s, err := energy.ComputeSnapshot(in)
	if errors.Is(err, energy.ErrInvalidProfile) {
		setupRequired(c, err)
		return
	}
	if err != nil {
		log.Printf("[getSnapshot] compute user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to compute snapshot")
		return
	}
	c.JSON(http.StatusOK, s)
}

// getWeekDeficit returns the seven-day deficit window ending on end, the
// rolling average over logged days, and the safety tier of the planned deficit.
// GET /api/deficit/week?end=YYYY-MM-DD (defaults to today).
func (h *Handler) getWeekDeficit(c *gin.Context) {
	userID := c.GetInt("user_id")
	end, ok := h.dayQuery(c, "end")
	if !ok {
		return
	}

	in, err := h.snapshotInput(c, userID, end)
	if err != nil {
		log.Printf("[getWeekDeficit] load user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to load deficit data")
		return
	}

	bmr, err := energy.BMR(in.Profile)
	if err != nil {
		setupRequired(c, err)
		return
	}
	days := energy.TrailingDeficits(energy.Window{
		End:      end,
		Location: in.Location,
		BMR:      bmr,
		Entries:  in.TrailingEntries,
		Samples:  in.ActiveEnergy,
		Fallback: in.FallbackActivity,
	})
	avg, logged := energy.RollingAverageDeficit(days)

	// The planned deficit is measured against the last day's maintenance.
	goals := energy.ComputeGoals(days[len(days)-1].Maintenance, bmr, in.Profile.WeightKg, in.Goals)

	c.JSON(http.StatusOK, weekDeficit{
		End:        end,
		Days:       days,
		AvgDeficit: avg,
		DaysLogged: logged,
		TargetTier: energy.ClassifySafety(goals.TargetDeficit),
		TargetKcal: goals.TargetDeficit,
	})
}
