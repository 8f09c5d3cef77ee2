// Package suggest maps post-brew sensory ratings to a single parameter
// adjustment for the next shot.
package suggest

import (
	"fmt"
	"sort"

	"github.com/neilberkman/espressolog/internal/core/models"
)

// Param names a dial-in parameter the engine may adjust. Values match the
// brew log column names.
type Param string

const (
	ParamDose      Param = "dose"
	ParamGrindSize Param = "grind_size"
	ParamYield     Param = "yield"
)

// BalancedMessage is the text returned when no rule fires
const BalancedMessage = "Brew looks balanced! Keep these parameters."

// Rule is one entry of the ordered rule list
type Rule struct {
	Name    string
	Message string
	Match   func(s models.BrewSession) bool
	Apply   func(s models.BrewSession) (Param, float64)
}

// Result is the outcome of evaluating a session. Changes holds suggested
// absolute values, never deltas.
type Result struct {
	Rule    string // empty when balanced
	Text    string
	Changes map[Param]float64
}

// Balanced reports whether no adjustment was suggested
func (r Result) Balanced() bool {
	return len(r.Changes) == 0
}

// Change is one row of the current-vs-suggested table
type Change struct {
	Param     Param
	Current   float64
	Suggested float64
}

// Rows pairs each suggested value with the session's current value
func (r Result) Rows(s models.BrewSession) []Change {
	rows := make([]Change, 0, len(r.Changes))
	for p, v := range r.Changes {
		cur, _ := s.Value(string(p))
		rows = append(rows, Change{Param: p, Current: cur, Suggested: v})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Param < rows[j].Param })
	return rows
}

// rules are evaluated in order and the first match wins: sourness dominates
// bitterness, which dominates the weak/aggressive/unbalanced cases.
var rules = []Rule{
	{
		Name:    "sour",
		Message: "Too sour → grind finer (decrease grind size by 0.5)",
		Match:   func(s models.BrewSession) bool { return s.Sourness >= 4 },
		Apply:   func(s models.BrewSession) (Param, float64) { return ParamGrindSize, s.GrindSize - 0.5 },
	},
	{
		Name:    "bitter",
		Message: "Too bitter → grind coarser (increase grind size by 0.5)",
		Match:   func(s models.BrewSession) bool { return s.Bitterness >= 4 },
		Apply:   func(s models.BrewSession) (Param, float64) { return ParamGrindSize, s.GrindSize + 0.5 },
	},
	{
		Name:    "weak",
		Message: "Too weak/bland → increase dose by 0.5g",
		Match:   func(s models.BrewSession) bool { return s.Sweetness <= 2 && s.Body <= 2 },
		Apply:   func(s models.BrewSession) (Param, float64) { return ParamDose, s.Dose + 0.5 },
	},
	{
		// Unreachable with valid ratings since rules 1 and 2 catch any
		// bitterness+sourness >= 8; kept to preserve the documented order.
		Name:    "aggressive",
		Message: "Too aggressive → reduce dose by 0.5g",
		Match: func(s models.BrewSession) bool {
			return s.Bitterness+s.Sourness >= 8 && s.Body >= 4
		},
		Apply: func(s models.BrewSession) (Param, float64) { return ParamDose, s.Dose - 0.5 },
	},
	{
		Name:    "unbalanced",
		Message: "Unbalanced → increase yield by 2g",
		Match:   func(s models.BrewSession) bool { return s.Sweetness >= 4 && s.Bitterness >= 3 },
		Apply:   func(s models.BrewSession) (Param, float64) { return ParamYield, s.Yield + 2 },
	},
}

// Rules returns a copy of the ordered rule list
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Evaluate validates the session and returns the suggestion of the first
// matching rule, or the balanced result when none match.
func Evaluate(s models.BrewSession) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, fmt.Errorf("evaluate: %w", err)
	}

	for _, r := range rules {
		if !r.Match(s) {
			continue
		}
		p, v := r.Apply(s)
		return Result{
			Rule:    r.Name,
			Text:    r.Message,
			Changes: map[Param]float64{p: v},
		}, nil
	}

	return Result{Text: BalancedMessage, Changes: map[Param]float64{}}, nil
}
