package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/neilberkman/espressolog/internal/core/brewlog"
	"github.com/neilberkman/espressolog/internal/core/models"
	"github.com/neilberkman/espressolog/internal/core/search"
	"github.com/neilberkman/espressolog/internal/core/session"
	"github.com/neilberkman/espressolog/internal/core/suggest"
)

// BrewArgs defines the session fields accepted by suggest_adjustment and
// log_brew. Unset fields keep their default value.
type BrewArgs struct {
	BeanName            *string  `json:"bean_name,omitempty"`
	Grinder             *string  `json:"grinder,omitempty"`
	Dose                *float64 `json:"dose,omitempty"`
	GrindSize           *float64 `json:"grind_size,omitempty"`
	PreInfusionTime     *float64 `json:"pre_infusion_time,omitempty"`
	Yield               *float64 `json:"yield,omitempty"`
	ShotTime            *float64 `json:"shot_time,omitempty"`
	Sourness            *int     `json:"sourness,omitempty"`
	Bitterness          *int     `json:"bitterness,omitempty"`
	Sweetness           *int     `json:"sweetness,omitempty"`
	Body                *int     `json:"body,omitempty"`
	OverallSatisfaction *int     `json:"overall_satisfaction,omitempty"`
	Notes               *string  `json:"notes,omitempty"`
	Favorite            *bool    `json:"favorite,omitempty"`
}

// ListBrewsArgs defines arguments for the list_brews tool
type ListBrewsArgs struct {
	Limit         int    `json:"limit,omitempty"`
	Query         string `json:"query,omitempty"`
	FavoritesOnly bool   `json:"favorites_only,omitempty"`
}

// IndexArgs defines arguments for get_brew and set_favorite
type IndexArgs struct {
	Index    *int  `json:"index"`
	Favorite *bool `json:"favorite,omitempty"`
}

// DeleteBrewsArgs defines arguments for the delete_brews tool
type DeleteBrewsArgs struct {
	Indices []int `json:"indices"`
}

// BrewRecord is a log entry as returned to the client
type BrewRecord struct {
	Index      int                `json:"index"`
	BrewedAt   string             `json:"brewed_at"`
	Session    models.BrewSession `json:"session"`
	Suggestion string             `json:"suggestion"`
}

// SuggestionResult is the evaluation of one session
type SuggestionResult struct {
	Rule       string          `json:"rule,omitempty"`
	Suggestion string          `json:"suggestion"`
	Balanced   bool            `json:"balanced"`
	Changes    []ChangeSummary `json:"changes"`
	Report     string          `json:"report"`
}

// ChangeSummary is one current-vs-suggested row
type ChangeSummary struct {
	Parameter string  `json:"parameter"`
	Current   float64 `json:"current"`
	Suggested float64 `json:"suggested"`
}

// handlers carries what every tool needs
type handlers struct {
	store          *brewlog.Store
	defaults       models.BrewSession
	reportTemplate string
	now            func() time.Time
}

// StartServer starts the MCP server on stdio
func StartServer(logPath string, defaults models.BrewSession, reportTemplate string) error {
	// stdout carries the protocol
	log.SetOutput(os.Stderr)

	st, err := brewlog.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open brew log: %w", err)
	}
	log.Printf("espressolog MCP server using %s (%d brews)", st.Path(), st.Len())

	h := &handlers{store: st, defaults: defaults, reportTemplate: reportTemplate, now: time.Now}
	return server.ServeStdio(newServer(h))
}

func newServer(h *handlers) *server.MCPServer {
	s := server.NewMCPServer(
		"espressolog",
		"1.0.0",
	)

	s.AddTool(mcp.NewTool("suggest_adjustment",
		append([]mcp.ToolOption{
			mcp.WithDescription("Evaluate espresso ratings and return a single suggested parameter change for the next shot. Does not save anything."),
		}, sessionOptions()...)...,
	), h.suggestAdjustment)

	s.AddTool(mcp.NewTool("log_brew",
		append([]mcp.ToolOption{
			mcp.WithDescription("Save a brew to the log with its suggestion and return the suggestion. Unset fields use the configured defaults."),
		}, sessionOptions()...)...,
	), h.logBrew)

	s.AddTool(mcp.NewTool("list_brews",
		mcp.WithDescription("List logged brews, newest first"),
		mcp.WithNumber("limit",
			mcp.Description("Max brews to return (default: 20)")),
		mcp.WithString("query",
			mcp.Description("Filter query, e.g. 'bean:kenya after:2024-05-01 fav chocolate'")),
		mcp.WithBoolean("favorites_only",
			mcp.Description("Only return favorites")),
	), h.listBrews)

	s.AddTool(mcp.NewTool("get_brew",
		mcp.WithDescription("Retrieve one logged brew by index"),
		mcp.WithNumber("index",
			mcp.Required(),
			mcp.Description("Brew index as returned by list_brews")),
	), h.getBrew)

	s.AddTool(mcp.NewTool("set_favorite",
		mcp.WithDescription("Mark or unmark a logged brew as a favorite"),
		mcp.WithNumber("index",
			mcp.Required(),
			mcp.Description("Brew index as returned by list_brews")),
		mcp.WithBoolean("favorite",
			mcp.Required(),
			mcp.Description("true to mark, false to clear")),
	), h.setFavorite)

	s.AddTool(mcp.NewTool("delete_brews",
		mcp.WithDescription("Delete logged brews by index. Indices refer to the log before the delete; if any is out of range nothing is deleted."),
		mcp.WithArray("indices",
			mcp.Required(),
			mcp.Description("Brew indices to delete"),
			mcp.Items(map[string]any{"type": "number"})),
	), h.deleteBrews)

	return s
}

func sessionOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("bean_name", mcp.Description("Bean name")),
		mcp.WithString("grinder", mcp.Description("Grinder")),
		mcp.WithNumber("dose", mcp.Description("Dose in grams (0-30)")),
		mcp.WithNumber("grind_size", mcp.Description("Grinder setting")),
		mcp.WithNumber("pre_infusion_time", mcp.Description("Pre-infusion time in seconds (0-30)")),
		mcp.WithNumber("yield", mcp.Description("Yield in grams (0-100)")),
		mcp.WithNumber("shot_time", mcp.Description("Shot time in seconds (0-60)")),
		mcp.WithNumber("sourness", mcp.Description("Sourness rating 1-5")),
		mcp.WithNumber("bitterness", mcp.Description("Bitterness rating 1-5")),
		mcp.WithNumber("sweetness", mcp.Description("Sweetness rating 1-5")),
		mcp.WithNumber("body", mcp.Description("Body rating 1-5")),
		mcp.WithNumber("overall_satisfaction", mcp.Description("Overall satisfaction 1-5")),
		mcp.WithString("notes", mcp.Description("Tasting notes")),
		mcp.WithBoolean("favorite", mcp.Description("Mark the brew as a favorite")),
	}
}

func decodeArgs(request mcp.CallToolRequest, v interface{}) error {
	argsBytes, _ := json.Marshal(request.Params.Arguments)
	return json.Unmarshal(argsBytes, v)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	resultJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (h *handlers) session(request mcp.CallToolRequest) (models.BrewSession, error) {
	var args BrewArgs
	if err := decodeArgs(request, &args); err != nil {
		return models.BrewSession{}, fmt.Errorf("invalid arguments: %w", err)
	}
	s := args.apply(h.defaults)
	if err := s.ValidateInput(); err != nil {
		return s, err
	}
	return s, nil
}

func (a BrewArgs) apply(s models.BrewSession) models.BrewSession {
	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setNum := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setStr(&s.BeanName, a.BeanName)
	setStr(&s.Grinder, a.Grinder)
	setNum(&s.Dose, a.Dose)
	setNum(&s.GrindSize, a.GrindSize)
	setNum(&s.PreInfusionTime, a.PreInfusionTime)
	setNum(&s.Yield, a.Yield)
	setNum(&s.ShotTime, a.ShotTime)
	setInt(&s.Sourness, a.Sourness)
	setInt(&s.Bitterness, a.Bitterness)
	setInt(&s.Sweetness, a.Sweetness)
	setInt(&s.Body, a.Body)
	setInt(&s.OverallSatisfaction, a.OverallSatisfaction)
	setStr(&s.Notes, a.Notes)
	if a.Favorite != nil {
		s.Favorite = *a.Favorite
	}
	return s
}

func (h *handlers) suggestion(s models.BrewSession, r suggest.Result, brewedAt time.Time) SuggestionResult {
	report, err := session.RenderReport(h.reportTemplate, s, r, brewedAt)
	if err != nil {
		log.Printf("report template failed: %v", err)
	}

	out := SuggestionResult{
		Rule:       r.Rule,
		Suggestion: r.Text,
		Balanced:   r.Balanced(),
		Changes:    []ChangeSummary{},
		Report:     report,
	}
	for _, c := range r.Rows(s) {
		out.Changes = append(out.Changes, ChangeSummary{
			Parameter: string(c.Param),
			Current:   c.Current,
			Suggested: c.Suggested,
		})
	}
	return out
}

func (h *handlers) suggestAdjustment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, err := h.session(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	r, err := suggest.Evaluate(s)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(h.suggestion(s, r, time.Time{}))
}

func (h *handlers) logBrew(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, err := h.session(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	w := session.NewWorkflow(s)
	if err := w.StartBrew(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := w.Finish(ctx, h.store)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]interface{}{
		"index":      out.Index,
		"brewed_at":  out.Entry.Timestamp.Format(models.TimestampLayout),
		"suggestion": h.suggestion(out.Brewed, out.Result, out.Entry.Timestamp),
	})
}

func (h *handlers) listBrews(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args ListBrewsArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	// Set defaults (interface concern - pagination)
	limit := args.Limit
	if limit <= 0 {
		limit = 20
	}

	filters := search.ParseQuery(strings.TrimSpace(args.Query), h.now())
	if args.FavoritesOnly {
		filters.FavoritesOnly = true
	}

	entries := h.store.List()
	results := []BrewRecord{}
	total := 0
	for _, i := range brewlog.SortedIndices(entries) {
		if !filters.Match(entries[i]) {
			continue
		}
		total++
		if len(results) < limit {
			results = append(results, record(i, entries[i]))
		}
	}

	return jsonResult(map[string]interface{}{
		"brews": results,
		"total": total,
	})
}

func (h *handlers) getBrew(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args IndexArgs
	if err := decodeArgs(request, &args); err != nil || args.Index == nil {
		return mcp.NewToolResultError("invalid arguments: index is required"), nil
	}

	e, err := h.store.Get(*args.Index)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(record(*args.Index, e))
}

func (h *handlers) setFavorite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args IndexArgs
	if err := decodeArgs(request, &args); err != nil || args.Index == nil {
		return mcp.NewToolResultError("invalid arguments: index is required"), nil
	}

	if args.Favorite == nil {
		return mcp.NewToolResultError("invalid arguments: favorite is required"), nil
	}

	if err := h.store.SetFavorite(ctx, *args.Index, *args.Favorite); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	e, err := h.store.Get(*args.Index)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(record(*args.Index, e))
}

func (h *handlers) deleteBrews(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args DeleteBrewsArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	removed, err := h.store.BatchDelete(ctx, args.Indices)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]interface{}{
		"deleted":   removed,
		"remaining": h.store.Len(),
	})
}

func record(index int, e models.BrewLogEntry) BrewRecord {
	return BrewRecord{
		Index:      index,
		BrewedAt:   e.Timestamp.Format(models.TimestampLayout),
		Session:    e.Session,
		Suggestion: e.Suggestion,
	}
}
