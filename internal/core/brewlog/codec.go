package brewlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/neilberkman/espressolog/internal/core/models"
)

// Columns is the fixed, ordered schema of the log file
var Columns = []string{
	"timestamp", "bean_name", "grinder", "dose", "grind_size", "pre_infusion_time",
	"yield", "shot_time", "sourness", "bitterness", "sweetness", "body",
	"overall_satisfaction", "notes", "suggestions", "favorite",
}

func writeEntries(w io.Writer, entries []models.BrewLogEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(encodeRow(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func encodeRow(e models.BrewLogEntry) []string {
	s := e.Session
	return []string{
		e.Timestamp.Format(models.TimestampLayout),
		s.BeanName,
		s.Grinder,
		formatFloat(s.Dose),
		formatFloat(s.GrindSize),
		formatFloat(s.PreInfusionTime),
		formatFloat(s.Yield),
		formatFloat(s.ShotTime),
		strconv.Itoa(s.Sourness),
		strconv.Itoa(s.Bitterness),
		strconv.Itoa(s.Sweetness),
		strconv.Itoa(s.Body),
		strconv.Itoa(s.OverallSatisfaction),
		s.Notes,
		e.Suggestion,
		formatBool(s.Favorite),
	}
}

// readEntries parses a whole log. Header columns are matched by name, so
// column order and unknown extra columns are tolerated. Every row must also
// hold a valid session.
func readEntries(r io.Reader) ([]models.BrewLogEntry, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, lineError(err, 1)
	}

	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	idx := make([]int, len(Columns))
	for i, col := range Columns {
		p, ok := pos[col]
		if !ok {
			return nil, &ParseError{Line: 1, Err: fmt.Errorf("missing column %q", col)}
		}
		idx[i] = p
	}

	var entries []models.BrewLogEntry
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, lineError(err, line+1)
		}
		line, _ = cr.FieldPos(0)

		fields := make([]string, len(Columns))
		for i, p := range idx {
			fields[i] = record[p]
		}
		e, err := decodeRow(fields)
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		if err := e.Session.Validate(); err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func lineError(err error, line int) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		line = perr.StartLine
	}
	return &ParseError{Line: line, Err: err}
}

func decodeRow(f []string) (models.BrewLogEntry, error) {
	var e models.BrewLogEntry
	var err error

	e.Timestamp, err = time.ParseInLocation(models.TimestampLayout, strings.TrimSpace(f[0]), time.Local)
	if err != nil {
		return e, fmt.Errorf("timestamp: %w", err)
	}

	s := &e.Session
	s.BeanName = f[1]
	s.Grinder = f[2]

	floats := []*float64{&s.Dose, &s.GrindSize, &s.PreInfusionTime, &s.Yield, &s.ShotTime}
	for i, dst := range floats {
		if *dst, err = parseFloat(f[3+i]); err != nil {
			return e, fmt.Errorf("%s: %w", Columns[3+i], err)
		}
	}

	ints := []*int{&s.Sourness, &s.Bitterness, &s.Sweetness, &s.Body, &s.OverallSatisfaction}
	for i, dst := range ints {
		if *dst, err = parseInt(f[8+i]); err != nil {
			return e, fmt.Errorf("%s: %w", Columns[8+i], err)
		}
	}

	s.Notes = f[13]
	e.Suggestion = f[14]

	if s.Favorite, err = parseBool(f[15]); err != nil {
		return e, fmt.Errorf("favorite: %w", err)
	}
	return e, nil
}

func formatFloat(f float64) string {
	out := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// parseInt accepts integral floats such as "3.0"
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return int(f), nil
}

func parseBool(s string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}
