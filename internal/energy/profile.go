// Package energy computes daily energy balance: BMR and TDEE from a body
// profile, calorie and macro goals, intake totals from logged meals, realized
// deficits over a trailing week, and weight-change projections.
//
// Every function is a pure transform of its arguments. Callers resolve
// profiles, logs and activity samples first, then call into the package.
package energy

import (
	"errors"
	"fmt"
	"math"
)

// Sex selects the Mifflin-St Jeor sex constant.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Fallback body attributes used when a field has no measured or user-entered value.
const (
	DefaultWeightKg = 70.0
	DefaultHeightCm = 175.0
	DefaultAgeYears = 30.0
	DefaultSex      = SexMale
)

// ErrInvalidProfile is returned when weight, height or age is not a positive
// finite number. There is no safe default for an impossible measurement, so
// the caller must fix the profile (usually by sending the user to setup).
var ErrInvalidProfile = errors.New("invalid profile")

// ProfileInput carries the optional body attributes reported by the health
// data provider or entered by the user. Nil means "unknown".
type ProfileInput struct {
	WeightKg *float64
	HeightCm *float64
	AgeYears *float64
	Sex      *Sex
}

// Measured records which Profile fields came from real data rather than defaults.
type Measured struct {
	Weight bool `json:"weight"`
	Height bool `json:"height"`
	Age    bool `json:"age"`
	Sex    bool `json:"sex"`
}

// Profile is a fully resolved body profile. Fields are always set.
type Profile struct {
	WeightKg float64  `json:"weight_kg"`
	HeightCm float64  `json:"height_cm"`
	AgeYears float64  `json:"age_years"`
	Sex      Sex      `json:"sex"`
	Measured Measured `json:"measured"`
}

// ResolveProfile merges in with the fallback defaults, field by field.
// Provided values are kept as-is, including non-positive ones; Validate
// reports those rather than silently replacing them.
func ResolveProfile(in ProfileInput) Profile {
	p := Profile{
		WeightKg: DefaultWeightKg,
		HeightCm: DefaultHeightCm,
		AgeYears: DefaultAgeYears,
		Sex:      DefaultSex,
	}
	if in.WeightKg != nil {
		p.WeightKg = *in.WeightKg
		p.Measured.Weight = true
	}
	if in.HeightCm != nil {
		p.HeightCm = *in.HeightCm
		p.Measured.Height = true
	}
	if in.AgeYears != nil {
		p.AgeYears = *in.AgeYears
		p.Measured.Age = true
	}
	if in.Sex != nil && in.Sex.Valid() {
		p.Sex = *in.Sex
		p.Measured.Sex = true
	}
	return p
}

// Valid reports whether s is one of the known sexes.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// Validate returns ErrInvalidProfile (wrapped with the offending field) when
// any numeric attribute is non-positive, NaN or infinite.
func (p Profile) Validate() error {
	if !positiveFinite(p.WeightKg) {
		return fmt.Errorf("%w: weight_kg must be positive, got %v", ErrInvalidProfile, p.WeightKg)
	}
	if !positiveFinite(p.HeightCm) {
		return fmt.Errorf("%w: height_cm must be positive, got %v", ErrInvalidProfile, p.HeightCm)
	}
	if !positiveFinite(p.AgeYears) {
		return fmt.Errorf("%w: age_years must be positive, got %v", ErrInvalidProfile, p.AgeYears)
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
