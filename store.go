package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Neel-Sh/HealthAI-sub002/internal/energy"
)

// dataStore is the persistence boundary for the handlers. pgStore is the
// production implementation; tests use an in-memory fake.
type dataStore interface {
	userByUsername(ctx context.Context, username string) (user, error)
	userIDForToken(ctx context.Context, token string) (int, error)

	// getProfile and getGoals return an empty/default row (not an error)
	// when the user has never saved one.
	getProfile(ctx context.Context, userID int) (profileRow, error)
	saveProfile(ctx context.Context, p profileRow) (profileRow, error)
	getGoals(ctx context.Context, userID int) (goalRow, error)
	saveGoals(ctx context.Context, g goalRow) (goalRow, error)

	// listMeals returns entries with from <= logged_at < to, oldest first.
	listMeals(ctx context.Context, userID int, from, to time.Time) ([]energy.MealEntry, error)
	createMeal(ctx context.Context, userID int, e energy.MealEntry) (energy.MealEntry, error)
	deleteMeal(ctx context.Context, userID int, id uuid.UUID) (bool, error)

	// listActiveEnergy returns samples for start..end inclusive.
	listActiveEnergy(ctx context.Context, userID int, start, end energy.Day) ([]energy.ActiveEnergySample, error)
	upsertActiveEnergy(ctx context.Context, userID int, s energy.ActiveEnergySample) (energy.ActiveEnergySample, error)

	listWeights(ctx context.Context, userID int, start, end energy.Day) ([]weightEntry, error)
	// latestWeight returns nil when the user has no weight entries.
	latestWeight(ctx context.Context, userID int) (*weightEntry, error)
	upsertWeight(ctx context.Context, userID int, day energy.Day, weightKg float64) (weightEntry, error)
	deleteWeight(ctx context.Context, userID int, id int) (bool, error)
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// getDBPool creates a connection pool. We use a pool (not a single conn) because
// Neon closes idle connections after ~5 minutes.
func getDBPool(dbURL string) *pgxpool.Pool {
	poolCfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse DB URL: %v\n", err)
		os.Exit(1)
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from Neon's server-side prepared statement cache after schema changes.
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	log.Println("DB pool ready!")
	return pool
}

/* ─── Postgres store ─────────────────────────────────────────────────── */

// pgStore implements dataStore on a pgx pool.
type pgStore struct {
	db *pgxpool.Pool
}

func (s *pgStore) userByUsername(ctx context.Context, username string) (user, error) {
	return queryOne[user](ctx, s.db,
		"SELECT * FROM users WHERE username = @username",
		pgx.NamedArgs{"username": username})
}

func (s *pgStore) userIDForToken(ctx context.Context, token string) (int, error) {
	var userID int
	err := s.db.QueryRow(ctx, "SELECT id FROM users WHERE auth_token = $1", token).Scan(&userID)
	return userID, err
}

func (s *pgStore) getProfile(ctx context.Context, userID int) (profileRow, error) {
	p, err := queryOne[profileRow](ctx, s.db,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return profileRow{UserID: userID}, nil
	}
	return p, err
}

func (s *pgStore) saveProfile(ctx context.Context, p profileRow) (profileRow, error) {
	return queryOne[profileRow](ctx, s.db,
		`INSERT INTO profiles (user_id, weight_kg, height_cm, age_years, sex, target_weight_kg, updated_at)
		 VALUES (@userID, @weightKg, @heightCm, @ageYears, @sex, @targetWeightKg, now())
		 ON CONFLICT (user_id) DO UPDATE SET
			weight_kg        = EXCLUDED.weight_kg,
			height_cm        = EXCLUDED.height_cm,
			age_years        = EXCLUDED.age_years,
			sex              = EXCLUDED.sex,
			target_weight_kg = EXCLUDED.target_weight_kg,
			updated_at       = now()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": p.UserID, "weightKg": p.WeightKg, "heightCm": p.HeightCm,
			"ageYears": p.AgeYears, "sex": p.Sex, "targetWeightKg": p.TargetWeightKg,
		})
}

func (s *pgStore) getGoals(ctx context.Context, userID int) (goalRow, error) {
	g, err := queryOne[goalRow](ctx, s.db,
		"SELECT * FROM goal_parameters WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return defaultGoalRow(userID), nil
	}
	return g, err
}

func (s *pgStore) saveGoals(ctx context.Context, g goalRow) (goalRow, error) {
	return queryOne[goalRow](ctx, s.db,
		`INSERT INTO goal_parameters (user_id, direction, weekly_rate_kg, calorie_goal_override,
			deficit_goal_override, fallback_activity_level, updated_at)
		 VALUES (@userID, @direction, @weeklyRateKg, @calorieGoalOverride,
			@deficitGoalOverride, @fallbackActivityLevel, now())
		 ON CONFLICT (user_id) DO UPDATE SET
			direction               = EXCLUDED.direction,
			weekly_rate_kg          = EXCLUDED.weekly_rate_kg,
			calorie_goal_override   = EXCLUDED.calorie_goal_override,
			deficit_goal_override   = EXCLUDED.deficit_goal_override,
			fallback_activity_level = EXCLUDED.fallback_activity_level,
			updated_at              = now()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": g.UserID, "direction": g.Direction, "weeklyRateKg": g.WeeklyRateKg,
			"calorieGoalOverride": g.CalorieGoalOverride, "deficitGoalOverride": g.DeficitGoalOverride,
			"fallbackActivityLevel": g.FallbackActivityLevel,
		})
}

func (s *pgStore) listMeals(ctx context.Context, userID int, from, to time.Time) ([]energy.MealEntry, error) {
	rows, err := queryMany[mealRow](ctx, s.db,
		`SELECT * FROM meal_entries
		 WHERE user_id = @userID AND logged_at >= @from AND logged_at < @to
		 ORDER BY logged_at`,
		pgx.NamedArgs{"userID": userID, "from": from, "to": to})
	if err != nil {
		return nil, err
	}
	entries := make([]energy.MealEntry, len(rows))
	for i, r := range rows {
		entries[i] = r.entry()
	}
	return entries, nil
}

func (s *pgStore) createMeal(ctx context.Context, userID int, e energy.MealEntry) (energy.MealEntry, error) {
	row, err := queryOne[mealRow](ctx, s.db,
		`INSERT INTO meal_entries (id, user_id, logged_at, name, calories, protein_g, carbs_g, fat_g,
			fiber_g, sugar_g, sodium_mg, water_ml, source)
		 VALUES (@id, @userID, @loggedAt, @name, @calories, @proteinG, @carbsG, @fatG,
			@fiberG, @sugarG, @sodiumMg, @waterMl, @source)
		 RETURNING *`,
		pgx.NamedArgs{
			"id": e.ID, "userID": userID, "loggedAt": e.LoggedAt, "name": e.Name,
			"calories": e.Calories, "proteinG": e.ProteinG, "carbsG": e.CarbsG, "fatG": e.FatG,
			"fiberG": e.FiberG, "sugarG": e.SugarG, "sodiumMg": e.SodiumMg, "waterMl": e.WaterMl,
			"source": string(e.Source),
		})
	if err != nil {
		return energy.MealEntry{}, err
	}
	return row.entry(), nil
}

func (s *pgStore) deleteMeal(ctx context.Context, userID int, id uuid.UUID) (bool, error) {
	result, err := s.db.Exec(ctx,
		"DELETE FROM meal_entries WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (s *pgStore) listActiveEnergy(ctx context.Context, userID int, start, end energy.Day) ([]energy.ActiveEnergySample, error) {
	rows, err := queryMany[activeEnergyRow](ctx, s.db,
		`SELECT * FROM active_energy
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start.String(), "end": end.String()})
	if err != nil {
		return nil, err
	}
	samples := make([]energy.ActiveEnergySample, len(rows))
	for i, r := range rows {
		samples[i] = r.sample()
	}
	return samples, nil
}

func (s *pgStore) upsertActiveEnergy(ctx context.Context, userID int, sample energy.ActiveEnergySample) (energy.ActiveEnergySample, error) {
	row, err := queryOne[activeEnergyRow](ctx, s.db,
		`INSERT INTO active_energy (user_id, date, active_kcal, workouts, updated_at)
		 VALUES (@userID, @date, @activeKcal, @workouts, now())
		 ON CONFLICT (user_id, date) DO UPDATE SET
			active_kcal = EXCLUDED.active_kcal,
			workouts    = EXCLUDED.workouts,
			updated_at  = now()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "date": sample.Date.String(),
			"activeKcal": sample.ActiveKcal, "workouts": sample.Workouts,
		})
	if err != nil {
		return energy.ActiveEnergySample{}, err
	}
	return row.sample(), nil
}

func (s *pgStore) listWeights(ctx context.Context, userID int, start, end energy.Day) ([]weightEntry, error) {
	return queryMany[weightEntry](ctx, s.db,
		`SELECT * FROM weight_log
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start.String(), "end": end.String()})
}

func (s *pgStore) latestWeight(ctx context.Context, userID int) (*weightEntry, error) {
	e, err := queryOne[weightEntry](ctx, s.db,
		"SELECT * FROM weight_log WHERE user_id = @userID ORDER BY date DESC LIMIT 1",
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// upsertWeight relies on UNIQUE(user_id, date): posting the same date updates in place.
func (s *pgStore) upsertWeight(ctx context.Context, userID int, day energy.Day, weightKg float64) (weightEntry, error) {
	return queryOne[weightEntry](ctx, s.db,
		`INSERT INTO weight_log (user_id, date, weight_kg)
		 VALUES (@userID, @date, @weightKg)
		 ON CONFLICT (user_id, date) DO UPDATE SET weight_kg = EXCLUDED.weight_kg
		 RETURNING *`,
		pgx.NamedArgs{"userID": userID, "date": day.String(), "weightKg": weightKg})
}

func (s *pgStore) deleteWeight(ctx context.Context, userID int, id int) (bool, error) {
	result, err := s.db.Exec(ctx,
		"DELETE FROM weight_log WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
