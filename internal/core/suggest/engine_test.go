package suggest

import (
	"errors"
	"strings"
	"testing"

	"github.com/neilberkman/espressolog/internal/core/models"
)

func session(sour, bitter, sweet, body int) models.BrewSession {
	s := models.DefaultSession()
	s.Sourness = sour
	s.Bitterness = bitter
	s.Sweetness = sweet
	s.Body = body
	return s
}

func TestEvaluateScenarios(t *testing.T) {
	tests := []struct {
		name      string
		session   models.BrewSession
		wantText  string
		wantParam Param
		wantValue float64
		balanced  bool
	}{
		{
			name:      "scenario A too sour",
			session:   session(5, 1, 3, 3),
			wantText:  "Too sour",
			wantParam: ParamGrindSize,
			wantValue: 4.5,
		},
		{
			name:      "scenario B weak",
			session:   session(2, 2, 1, 1),
			wantText:  "Too weak/bland",
			wantParam: ParamDose,
			wantValue: 18.5,
		},
		{
			name:     "scenario C balanced",
			session:  session(2, 2, 3, 3),
			wantText: BalancedMessage,
			balanced: true,
		},
		{
			name:      "bitter",
			session:   session(3, 4, 3, 3),
			wantText:  "Too bitter",
			wantParam: ParamGrindSize,
			wantValue: 5.5,
		},
		{
			name:      "unbalanced",
			session:   session(2, 3, 4, 3),
			wantText:  "Unbalanced",
			wantParam: ParamYield,
			wantValue: 38,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.session)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if !strings.Contains(got.Text, tt.wantText) {
				t.Errorf("Text = %q, want it to contain %q", got.Text, tt.wantText)
			}
			if tt.balanced {
				if !got.Balanced() || len(got.Changes) != 0 {
					t.Errorf("expected no changes, got %v", got.Changes)
				}
				if !strings.Contains(got.Text, "Brew looks balanced") {
					t.Errorf("Text = %q", got.Text)
				}
				return
			}
			if len(got.Changes) != 1 {
				t.Fatalf("expected exactly one change, got %v", got.Changes)
			}
			if v, ok := got.Changes[tt.wantParam]; !ok || v != tt.wantValue {
				t.Errorf("Changes = %v, want %s=%v", got.Changes, tt.wantParam, tt.wantValue)
			}
		})
	}
}

func TestSournessDominates(t *testing.T) {
	// Every combination with sourness >= 4 must adjust grind finer.
	for sour := 4; sour <= 5; sour++ {
		for bitter := 1; bitter <= 5; bitter++ {
			for sweet := 1; sweet <= 5; sweet++ {
				for body := 1; body <= 5; body++ {
					s := session(sour, bitter, sweet, body)
					s.GrindSize = 7.25
					got, err := Evaluate(s)
					if err != nil {
						t.Fatal(err)
					}
					if len(got.Changes) != 1 || got.Changes[ParamGrindSize] != 6.75 {
						t.Fatalf("session %+v: Changes = %v", s, got.Changes)
					}
				}
			}
		}
	}
}

func TestBitternessWhenNotSour(t *testing.T) {
	for sour := 1; sour <= 3; sour++ {
		for bitter := 4; bitter <= 5; bitter++ {
			for sweet := 1; sweet <= 5; sweet++ {
				for body := 1; body <= 5; body++ {
					got, err := Evaluate(session(sour, bitter, sweet, body))
					if err != nil {
						t.Fatal(err)
					}
					if got.Rule != "bitter" || got.Changes[ParamGrindSize] != 5.5 {
						t.Fatalf("sour=%d bitter=%d sweet=%d body=%d: got %+v", sour, bitter, sweet, body, got)
					}
				}
			}
		}
	}
}

func TestWeakWhenNeitherSourNorBitter(t *testing.T) {
	for sour := 1; sour <= 3; sour++ {
		for bitter := 1; bitter <= 3; bitter++ {
			for sweet := 1; sweet <= 2; sweet++ {
				for body := 1; body <= 2; body++ {
					s := session(sour, bitter, sweet, body)
					s.Dose = 17
					got, err := Evaluate(s)
					if err != nil {
						t.Fatal(err)
					}
					if len(got.Changes) != 1 || got.Changes[ParamDose] != 17.5 {
						t.Fatalf("session %+v: Changes = %v", s, got.Changes)
					}
				}
			}
		}
	}
}

func TestExclusivity(t *testing.T) {
	for sour := 1; sour <= 5; sour++ {
		for bitter := 1; bitter <= 5; bitter++ {
			for sweet := 1; sweet <= 5; sweet++ {
				for body := 1; body <= 5; body++ {
					got, err := Evaluate(session(sour, bitter, sweet, body))
					if err != nil {
						t.Fatal(err)
					}
					if len(got.Changes) > 1 {
						t.Fatalf("more than one change: %v", got.Changes)
					}
					if got.Balanced() != (got.Text == BalancedMessage) {
						t.Fatalf("changes %v inconsistent with text %q", got.Changes, got.Text)
					}
				}
			}
		}
	}
}

func TestRulesIndividually(t *testing.T) {
	s := models.DefaultSession()
	byName := map[string]Rule{}
	for _, r := range Rules() {
		byName[r.Name] = r
	}

	aggressive := byName["aggressive"]
	s.Sourness, s.Bitterness, s.Body = 4, 4, 4
	if !aggressive.Match(s) {
		t.Error("aggressive should match 4/4/4")
	}
	if p, v := aggressive.Apply(s); p != ParamDose || v != 17.5 {
		t.Errorf("aggressive Apply = %s %v", p, v)
	}

	// The aggressive case is shadowed by the sour rule.
	got, _ := Evaluate(s)
	if got.Rule != "sour" {
		t.Errorf("Rule = %q, want sour", got.Rule)
	}

	order := []string{"sour", "bitter", "weak", "aggressive", "unbalanced"}
	for i, r := range Rules() {
		if r.Name != order[i] {
			t.Errorf("rule %d = %s, want %s", i, r.Name, order[i])
		}
	}
}

func TestEvaluateRejectsInvalid(t *testing.T) {
	s := session(6, 1, 1, 1)
	_, err := Evaluate(s)
	if !errors.Is(err, models.ErrInvalidSession) {
		t.Fatalf("expected validation error, got %v", err)
	}

	s = models.DefaultSession()
	s.Yield = -5
	if _, err := Evaluate(s); err == nil {
		t.Fatal("expected error for negative yield")
	}
}

func TestRows(t *testing.T) {
	s := session(5, 1, 3, 3)
	got, _ := Evaluate(s)
	rows := got.Rows(s)
	if len(rows) != 1 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0].Param != ParamGrindSize || rows[0].Current != 5 || rows[0].Suggested != 4.5 {
		t.Errorf("row = %+v", rows[0])
	}
}
