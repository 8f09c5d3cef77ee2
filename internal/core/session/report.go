package session

import (
	"math"
	"strconv"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/dustin/go-humanize"
	"github.com/neilberkman/espressolog/internal/core/models"
	"github.com/neilberkman/espressolog/internal/core/suggest"
)

// DefaultReportTemplate renders the suggestion and the current vs suggested
// table shown after a brew is saved.
const DefaultReportTemplate = `{{{suggestion}}}
{{#has_changes}}

Suggested change{{#bean_name}} for {{{bean_name}}}{{/bean_name}}:
{{#changes}}
  {{{label}}}: {{current}} -> {{suggested}}
{{/changes}}
{{/has_changes}}
{{#brewed_at}}

Logged {{brewed_at}} ({{time_since}})
{{/brewed_at}}
`

var paramLabels = map[suggest.Param]string{
	suggest.ParamDose:      "Dose (g)",
	suggest.ParamGrindSize: "Grind size",
	suggest.ParamYield:     "Yield (g)",
}

// ParamLabel returns the display name of an adjustable parameter
func ParamLabel(p suggest.Param) string {
	if l, ok := paramLabels[p]; ok {
		return l
	}
	return string(p)
}

// FormatValue formats a parameter value for display, rounded to hundredths
func FormatValue(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// ReportData builds the template context for a report. A zero brewedAt
// leaves the timestamp keys out.
func ReportData(s models.BrewSession, r suggest.Result, brewedAt time.Time) map[string]interface{} {
	var changes []map[string]interface{}
	for _, row := range r.Rows(s) {
		changes = append(changes, map[string]interface{}{
			"parameter": string(row.Param),
			"label":     ParamLabel(row.Param),
			"current":   FormatValue(row.Current),
			"suggested": FormatValue(row.Suggested),
		})
	}

	data := map[string]interface{}{
		"bean_name":   s.BeanName,
		"grinder":     s.Grinder,
		"suggestion":  r.Text,
		"rule":        r.Rule,
		"balanced":    r.Balanced(),
		"has_changes": len(changes) > 0,
		"changes":     changes,
	}
	if !brewedAt.IsZero() {
		data["brewed_at"] = brewedAt.Format(models.TimestampLayout)
		data["time_since"] = humanize.Time(brewedAt)
	}
	return data
}

// RenderReport renders tmpl (DefaultReportTemplate when empty) for a brew.
// If the template fails to render the plain suggestion text is returned
// together with the error.
func RenderReport(tmpl string, s models.BrewSession, r suggest.Result, brewedAt time.Time) (string, error) {
	if tmpl == "" {
		tmpl = DefaultReportTemplate
	}
	out, err := mustache.Render(tmpl, ReportData(s, r, brewedAt))
	if err != nil {
		return r.Text + "\n", err
	}
	return out, nil
}
