package models

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestDefaultSession(t *testing.T) {
	s := DefaultSession()

	if s.Dose != 18.0 || s.GrindSize != 5.0 || s.PreInfusionTime != 5.0 ||
		s.Yield != 36.0 || s.ShotTime != 30.0 {
		t.Errorf("unexpected dial-in defaults: %+v", s)
	}
	for _, r := range s.ratings() {
		if r.value != 3 {
			t.Errorf("%s default = %d, want 3", r.name, r.value)
		}
	}
	if s.Favorite {
		t.Error("favorite should default to false")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("default session should be valid: %v", err)
	}
}

func TestSessionValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BrewSession)
		field   string
		wantErr bool
	}{
		{
			name:    "valid session",
			mutate:  func(s *BrewSession) { s.BeanName = "Ethiopia Guji" },
			wantErr: false,
		},
		{
			name:    "negative grind size allowed",
			mutate:  func(s *BrewSession) { s.GrindSize = -2 },
			wantErr: false,
		},
		{
			name:    "rating below range",
			mutate:  func(s *BrewSession) { s.Sourness = 0 },
			field:   "sourness",
			wantErr: true,
		},
		{
			name:    "rating above range",
			mutate:  func(s *BrewSession) { s.OverallSatisfaction = 6 },
			field:   "overall_satisfaction",
			wantErr: true,
		},
		{
			name:    "negative dose",
			mutate:  func(s *BrewSession) { s.Dose = -0.1 },
			field:   "dose",
			wantErr: true,
		},
		{
			name:    "negative shot time",
			mutate:  func(s *BrewSession) { s.ShotTime = -1 },
			field:   "shot_time",
			wantErr: true,
		},
		{
			name:    "NaN yield",
			mutate:  func(s *BrewSession) { s.Yield = math.NaN() },
			field:   "yield",
			wantErr: true,
		},
		{
			name:    "infinite grind size",
			mutate:  func(s *BrewSession) { s.GrindSize = math.Inf(1) },
			field:   "grind_size",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSession()
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
			if !errors.Is(err, ErrInvalidSession) {
				t.Error("errors.Is(err, ErrInvalidSession) = false")
			}
		})
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BrewSession)
		wantErr bool
	}{
		{"defaults", func(s *BrewSession) {}, false},
		{"dose at max", func(s *BrewSession) { s.Dose = 30 }, false},
		{"dose over max", func(s *BrewSession) { s.Dose = 30.1 }, true},
		{"yield over max", func(s *BrewSession) { s.Yield = 120 }, true},
		{"shot time over max", func(s *BrewSession) { s.ShotTime = 61 }, true},
		{"pre-infusion over max", func(s *BrewSession) { s.PreInfusionTime = 31 }, true},
		{"large grind size", func(s *BrewSession) { s.GrindSize = 250 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSession()
			tt.mutate(&s)
			if err := s.ValidateInput(); (err != nil) != tt.wantErr {
				t.Errorf("ValidateInput() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResetRatingsKeepsDialIn(t *testing.T) {
	s := DefaultSession()
	s.BeanName = "Kenya AA"
	s.Dose = 19.5
	s.Sourness = 5
	s.Notes = "bright"
	s.Favorite = true

	s.ResetRatings()

	if s.BeanName != "Kenya AA" || s.Dose != 19.5 {
		t.Errorf("dial-in fields changed: %+v", s)
	}
	if s.Sourness != DefaultRating || s.Notes != "" || s.Favorite {
		t.Errorf("rating fields not reset: %+v", s)
	}
}

func TestEntryReloadDropsFavorite(t *testing.T) {
	s := DefaultSession()
	s.BeanName = "Colombia"
	s.Favorite = true
	e := BrewLogEntry{
		Timestamp:  time.Date(2024, 3, 1, 8, 30, 0, 0, time.Local),
		Session:    s,
		Suggestion: "Brew looks balanced",
	}

	got := e.Reload()
	if got.Favorite {
		t.Error("Reload() kept favorite flag")
	}
	if got.BeanName != "Colombia" {
		t.Errorf("BeanName = %q", got.BeanName)
	}
	if e.Label() != "Colombia - 2024-03-01 08:30:00" {
		t.Errorf("Label() = %q", e.Label())
	}
}

func TestValue(t *testing.T) {
	s := DefaultSession()
	if v, ok := s.Value("yield"); !ok || v != 36 {
		t.Errorf("Value(yield) = %v, %v", v, ok)
	}
	if v, ok := s.Value("body"); !ok || v != 3 {
		t.Errorf("Value(body) = %v, %v", v, ok)
	}
	if _, ok := s.Value("crema"); ok {
		t.Error("Value(crema) should not exist")
	}
}
