package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSession is matched by every ValidationError via errors.Is
var ErrInvalidSession = errors.New("invalid brew session")

// Phase is the position of a BrewSession in its dial-in/rating lifecycle
type Phase int

const (
	PhaseIdle    Phase = iota // dial-in fields editable
	PhaseBrewing              // ratings editable
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseBrewing:
		return "brewing"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// BrewSession holds the dial-in inputs and post-brew ratings of one shot
type BrewSession struct {
	BeanName        string  `json:"bean_name"`
	Grinder         string  `json:"grinder"`
	Dose            float64 `json:"dose"`              // grams in
	GrindSize       float64 `json:"grind_size"`        // grinder setting
	PreInfusionTime float64 `json:"pre_infusion_time"` // seconds
	Yield           float64 `json:"yield"`             // grams out
	ShotTime        float64 `json:"shot_time"`         // seconds

	Sourness            int `json:"sourness"`
	Bitterness          int `json:"bitterness"`
	Sweetness           int `json:"sweetness"`
	Body                int `json:"body"`
	OverallSatisfaction int `json:"overall_satisfaction"`

	Notes    string `json:"notes"`
	Favorite bool   `json:"favorite"`
}

const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 3
)

// DefaultSession returns a session with the documented starting values
func DefaultSession() BrewSession {
	return BrewSession{
		Dose:                18.0,
		GrindSize:           5.0,
		PreInfusionTime:     5.0,
		Yield:               36.0,
		ShotTime:            30.0,
		Sourness:            DefaultRating,
		Bitterness:          DefaultRating,
		Sweetness:           DefaultRating,
		Body:                DefaultRating,
		OverallSatisfaction: DefaultRating,
	}
}

// Limit is an inclusive input range for a numeric field
type Limit struct {
	Min, Max float64
	Step     float64
}

// InputLimits are the ranges the input surfaces offer for each numeric field.
// grind_size has no bounds.
var InputLimits = map[string]Limit{
	"dose":              {Min: 0, Max: 30, Step: 0.1},
	"grind_size":        {Min: math.Inf(-1), Max: math.Inf(1), Step: 0.5},
	"pre_infusion_time": {Min: 0, Max: 30, Step: 0.1},
	"yield":             {Min: 0, Max: 100, Step: 0.1},
	"shot_time":         {Min: 0, Max: 60, Step: 0.1},
}

// ValidationError reports a session field outside its domain
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidSession
}

// Validate checks the core invariants: ratings in [1,5], masses and times
// non-negative, every number finite.
func (s *BrewSession) Validate() error {
	if err := s.ValidateDialIn(); err != nil {
		return err
	}
	return s.ValidateRatings()
}

// ValidateDialIn checks only the fields entered before brewing
func (s *BrewSession) ValidateDialIn() error {
	for _, f := range s.measures() {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ValidationError{Field: f.name, Value: f.value, Reason: "must be a finite number"}
		}
		if f.name != "grind_size" && f.value < 0 {
			return &ValidationError{Field: f.name, Value: f.value, Reason: "must not be negative"}
		}
	}
	return nil
}

// ValidateRatings checks the post-brew sensory ratings
func (s *BrewSession) ValidateRatings() error {
	for _, r := range s.ratings() {
		if r.value < MinRating || r.value > MaxRating {
			return &ValidationError{
				Field:  r.name,
				Value:  r.value,
				Reason: fmt.Sprintf("must be between %d and %d", MinRating, MaxRating),
			}
		}
	}
	return nil
}

// ValidateInput applies Validate plus the upper bounds of InputLimits
func (s *BrewSession) ValidateInput() error {
	if err := s.Validate(); err != nil {
		return err
	}
	for _, f := range s.measures() {
		lim := InputLimits[f.name]
		if f.value < lim.Min || f.value > lim.Max {
			return &ValidationError{
				Field:  f.name,
				Value:  f.value,
				Reason: fmt.Sprintf("must be between %g and %g", lim.Min, lim.Max),
			}
		}
	}
	return nil
}

// Value returns a numeric field by its column name
func (s *BrewSession) Value(name string) (float64, bool) {
	for _, f := range s.measures() {
		if f.name == name {
			return f.value, true
		}
	}
	for _, r := range s.ratings() {
		if r.name == name {
			return float64(r.value), true
		}
	}
	return 0, false
}

// ResetRatings puts the rating phase fields back to their defaults and keeps
// the dial-in values.
func (s *BrewSession) ResetRatings() {
	s.Sourness = DefaultRating
	s.Bitterness = DefaultRating
	s.Sweetness = DefaultRating
	s.Body = DefaultRating
	s.OverallSatisfaction = DefaultRating
	s.Notes = ""
	s.Favorite = false
}

type namedFloat struct {
	name  string
	value float64
}

type namedInt struct {
	name  string
	value int
}

func (s *BrewSession) measures() []namedFloat {
	return []namedFloat{
		{"dose", s.Dose},
		{"grind_size", s.GrindSize},
		{"pre_infusion_time", s.PreInfusionTime},
		{"yield", s.Yield},
		{"shot_time", s.ShotTime},
	}
}

func (s *BrewSession) ratings() []namedInt {
	return []namedInt{
		{"sourness", s.Sourness},
		{"bitterness", s.Bitterness},
		{"sweetness", s.Sweetness},
		{"body", s.Body},
		{"overall_satisfaction", s.OverallSatisfaction},
	}
}
