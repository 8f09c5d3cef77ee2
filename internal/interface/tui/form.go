package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/espressolog/internal/core/models"
)

// fieldKind decides how a form value is parsed
type fieldKind int

const (
	textField fieldKind = iota
	floatField
	intField
	boolField
)

type formField struct {
	name  string // brew log column name
	label string
	kind  fieldKind
	input textinput.Model
}

// form is a vertical list of text inputs with one focused at a time
type form struct {
	title  string
	submit string // label of the action run by enter on the last field
	fields []formField
	focus  int
}

type fieldSpec struct {
	name  string
	label string
	kind  fieldKind
}

var dialInFields = []fieldSpec{
	{"bean_name", "Bean", textField},
	{"grinder", "Grinder", textField},
	{"dose", "Dose (g)", floatField},
	{"grind_size", "Grind size", floatField},
	{"pre_infusion_time", "Pre-infusion (s)", floatField},
	{"yield", "Yield (g)", floatField},
	{"shot_time", "Shot time (s)", floatField},
}

var ratingFields = []fieldSpec{
	{"sourness", "Sourness (1-5)", intField},
	{"bitterness", "Bitterness (1-5)", intField},
	{"sweetness", "Sweetness (1-5)", intField},
	{"body", "Body (1-5)", intField},
	{"overall_satisfaction", "Overall (1-5)", intField},
	{"notes", "Notes", textField},
	{"favorite", "Favorite (y/n)", boolField},
}

func newDialInForm(s models.BrewSession) form {
	return newForm("Dial-in", "save & brew", dialInFields, s)
}

func newRatingForm(s models.BrewSession) form {
	return newForm("Rate the shot", "get suggestions", ratingFields, s)
}

func newForm(title, submit string, specs []fieldSpec, s models.BrewSession) form {
	f := form{title: title, submit: submit}
	for _, spec := range specs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 200
		ti.Width = 40
		ti.SetValue(fieldValue(s, spec.name))
		f.fields = append(f.fields, formField{name: spec.name, label: spec.label, kind: spec.kind, input: ti})
	}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

func (f *form) onLast() bool {
	return f.focus == len(f.fields)-1
}

// move shifts focus by delta, wrapping around
func (f *form) move(delta int) tea.Cmd {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	return f.fields[f.focus].input.Focus()
}

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return f, cmd
}

// apply parses every field into s and checks the input limits
func (f form) apply(s models.BrewSession) (models.BrewSession, error) {
	for _, field := range f.fields {
		if err := setField(&s, field.name, field.kind, field.input.Value()); err != nil {
			return s, fmt.Errorf("%s: %w", field.label, err)
		}
	}
	if err := s.ValidateInput(); err != nil {
		return s, err
	}
	return s, nil
}

func (f form) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(f.title))
	b.WriteString("\n\n")
	for i, field := range f.fields {
		label := labelStyle.Render(field.label)
		if i == f.focus {
			label = focusedLabelStyle.Render("› " + field.label)
		}
		b.WriteString(label)
		b.WriteString(field.input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("tab/shift+tab move • enter on last field: %s • esc cancel", f.submit)))
	return b.String()
}

func fieldValue(s models.BrewSession, name string) string {
	switch name {
	case "bean_name":
		return s.BeanName
	case "grinder":
		return s.Grinder
	case "notes":
		return s.Notes
	case "favorite":
		if s.Favorite {
			return "y"
		}
		return "n"
	case "sourness":
		return strconv.Itoa(s.Sourness)
	case "bitterness":
		return strconv.Itoa(s.Bitterness)
	case "sweetness":
		return strconv.Itoa(s.Sweetness)
	case "body":
		return strconv.Itoa(s.Body)
	case "overall_satisfaction":
		return strconv.Itoa(s.OverallSatisfaction)
	}
	if v, ok := s.Value(name); ok {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func setField(s *models.BrewSession, name string, kind fieldKind, raw string) error {
	raw = strings.TrimSpace(raw)

	switch kind {
	case textField:
		switch name {
		case "bean_name":
			s.BeanName = raw
		case "grinder":
			s.Grinder = raw
		case "notes":
			s.Notes = raw
		}
		return nil

	case boolField:
		switch strings.ToLower(raw) {
		case "y", "yes", "true", "1":
			s.Favorite = true
		case "", "n", "no", "false", "0":
			s.Favorite = false
		default:
			return fmt.Errorf("%q is not y or n", raw)
		}
		return nil

	case intField:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%q is not a whole number", raw)
		}
		switch name {
		case "sourness":
			s.Sourness = v
		case "bitterness":
			s.Bitterness = v
		case "sweetness":
			s.Sweetness = v
		case "body":
			s.Body = v
		case "overall_satisfaction":
			s.OverallSatisfaction = v
		}
		return nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("%q is not a number", raw)
	}
	switch name {
	case "dose":
		s.Dose = v
	case "grind_size":
		s.GrindSize = v
	case "pre_infusion_time":
		s.PreInfusionTime = v
	case "yield":
		s.Yield = v
	case "shot_time":
		s.ShotTime = v
	}
	return nil
}
