package cli

import (
	"github.com/neilberkman/espressolog/internal/core/brewlog"
	"github.com/neilberkman/espressolog/internal/core/models"
	"github.com/spf13/cobra"
)

// sessionFlags binds one flag per BrewSession field. Only flags the user
// actually set override the base session.
type sessionFlags struct {
	from int
	s    models.BrewSession
}

func addSessionFlags(cmd *cobra.Command, f *sessionFlags) {
	fs := cmd.Flags()
	fs.StringVar(&f.s.BeanName, "bean", "", "Bean name")
	fs.StringVar(&f.s.Grinder, "grinder", "", "Grinder")
	fs.Float64Var(&f.s.Dose, "dose", 0, "Dose in grams (0-30, default 18.0)")
	fs.Float64Var(&f.s.GrindSize, "grind", 0, "Grind size (default 5.0)")
	fs.Float64Var(&f.s.PreInfusionTime, "pre-infusion", 0, "Pre-infusion time in seconds (0-30, default 5.0)")
	fs.Float64Var(&f.s.Yield, "yield", 0, "Yield in grams (0-100, default 36.0)")
	fs.Float64Var(&f.s.ShotTime, "time", 0, "Shot time in seconds (0-60, default 30.0)")
	fs.IntVar(&f.s.Sourness, "sourness", 0, "Sourness 1-5 (default 3)")
	fs.IntVar(&f.s.Bitterness, "bitterness", 0, "Bitterness 1-5 (default 3)")
	fs.IntVar(&f.s.Sweetness, "sweetness", 0, "Sweetness 1-5 (default 3)")
	fs.IntVar(&f.s.Body, "body", 0, "Body 1-5 (default 3)")
	fs.IntVar(&f.s.OverallSatisfaction, "overall", 0, "Overall satisfaction 1-5 (default 3)")
	fs.StringVar(&f.s.Notes, "notes", "", "Tasting notes")
	fs.BoolVar(&f.s.Favorite, "favorite", false, "Mark the brew as a favorite")
	fs.IntVar(&f.from, "from", -1, "Start from the logged brew at this index")
}

// build starts from the configured defaults, or the --from entry, and
// applies every flag the user set.
func (f *sessionFlags) build(cmd *cobra.Command, st *brewlog.Store) (models.BrewSession, error) {
	s := cfg.Defaults
	if f.from >= 0 && st != nil {
		loaded, err := st.LoadByIndex(f.from)
		if err != nil {
			return s, err
		}
		s = loaded
	}

	fs := cmd.Flags()
	overrides := []struct {
		flag  string
		apply func()
	}{
		{"bean", func() { s.BeanName = f.s.BeanName }},
		{"grinder", func() { s.Grinder = f.s.Grinder }},
		{"dose", func() { s.Dose = f.s.Dose }},
		{"grind", func() { s.GrindSize = f.s.GrindSize }},
		{"pre-infusion", func() { s.PreInfusionTime = f.s.PreInfusionTime }},
		{"yield", func() { s.Yield = f.s.Yield }},
		{"time", func() { s.ShotTime = f.s.ShotTime }},
		{"sourness", func() { s.Sourness = f.s.Sourness }},
		{"bitterness", func() { s.Bitterness = f.s.Bitterness }},
		{"sweetness", func() { s.Sweetness = f.s.Sweetness }},
		{"body", func() { s.Body = f.s.Body }},
		{"overall", func() { s.OverallSatisfaction = f.s.OverallSatisfaction }},
		{"notes", func() { s.Notes = f.s.Notes }},
		{"favorite", func() { s.Favorite = f.s.Favorite }},
	}
	for _, o := range overrides {
		if fs.Changed(o.flag) {
			o.apply()
		}
	}

	if err := s.ValidateInput(); err != nil {
		return s, err
	}
	return s, nil
}
