package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/neilberkman/espressolog/internal/core/brewlog"
	"github.com/neilberkman/espressolog/internal/core/search"
	"github.com/spf13/cobra"
)

var (
	listLimit     int
	listFavorites bool
)

var listCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List logged brews",
	Long: `List logged brews, newest first.

The number in brackets is the brew's index, used by show, favorite, delete and load.

Query filters:
  bean:<name>  grinder:<name>  fav
  after:<date>  before:<date>  date:<date>   (2024-05-01, yesterday, 3-days-ago)
Other words match bean, grinder, notes or suggestion.

Examples:
  espressolog list
  espressolog list --limit 5
  espressolog list bean:kenya after:last-monday
  espressolog list --favorites chocolate`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of brews to display")
	listCmd.Flags().BoolVar(&listFavorites, "favorites", false, "Only show favorites")
}

func runList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	entries := st.List()
	filters := search.ParseQuery(strings.Join(args, " "), time.Now())
	if listFavorites {
		filters.FavoritesOnly = true
	}

	// Newest first (interface concern - the log itself stays in append order)
	var shown []int
	for _, i := range brewlog.SortedIndices(entries) {
		if filters.Match(entries[i]) {
			shown = append(shown, i)
		}
	}

	if len(shown) == 0 {
		if !filters.IsEmpty() {
			fmt.Println("No brews match the query.")
		} else {
			fmt.Println("No brews logged yet. Run 'espressolog brew' to add one.")
		}
		return nil
	}

	total := len(shown)
	if listLimit > 0 && len(shown) > listLimit {
		shown = shown[:listLimit]
	}
	fmt.Printf("Showing %d of %d brew(s)\n\n", len(shown), total)

	for _, i := range shown {
		e := entries[i]
		s := e.Session

		star := " "
		if e.Favorite() {
			star = "★"
		}
		bean := s.BeanName
		if bean == "" {
			bean = "(unnamed bean)"
		}

		fmt.Printf("[%d] %s %s", i, star, bean)
		if s.Grinder != "" {
			fmt.Printf(" · %s", s.Grinder)
		}
		fmt.Println()
		fmt.Printf("    %gg in, grind %g, %gs pre-infusion → %gg out in %gs\n",
			s.Dose, s.GrindSize, s.PreInfusionTime, s.Yield, s.ShotTime)
		fmt.Printf("    sour %d · bitter %d · sweet %d · body %d · overall %d\n",
			s.Sourness, s.Bitterness, s.Sweetness, s.Body, s.OverallSatisfaction)
		fmt.Printf("    %s\n", firstLine(e.Suggestion, 80))
		fmt.Printf("    Brewed: %s (%s)\n", e.Timestamp.Format("Jan 2 15:04"), humanize.Time(e.Timestamp))
		fmt.Println()
	}

	return nil
}

// firstLine returns the first line of s, truncated for display
func firstLine(s string, maxLen int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimPrefix(strings.TrimSpace(s), "- ")
	if len([]rune(s)) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen-3]) + "..."
}
