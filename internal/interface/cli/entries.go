package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/neilberkman/espressolog/internal/core/models"
	"github.com/spf13/cobra"
)

var (
	showCopy    bool
	favoriteOff bool
)

var showCmd = &cobra.Command{
	Use:   "show <index>",
	Short: "Show a logged brew",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite <index>",
	Short: "Mark a logged brew as a favorite",
	Long: `Mark a logged brew as a favorite, or clear the mark with --off.

Examples:
  espressolog favorite 4
  espressolog favorite 4 --off`,
	Args: cobra.ExactArgs(1),
	RunE: runFavorite,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <index>...",
	Short: "Delete logged brews",
	Long: `Delete one or more logged brews by index. All indices refer to the log as
it is before the delete; if any index is out of range nothing is deleted.

Examples:
  espressolog delete 3
  espressolog delete 0 4 7`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

var loadCmd = &cobra.Command{
	Use:   "load <index>",
	Short: "Print a brew command pre-filled from a logged brew",
	Long: `Reload a logged brew's dial-in and rating values as a ready-to-edit
espressolog brew command. The favorite flag and stored suggestion are not carried over.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(favoriteCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(loadCmd)

	showCmd.Flags().BoolVar(&showCopy, "copy", false, "Copy the stored suggestion to the clipboard")
	favoriteCmd.Flags().BoolVar(&favoriteOff, "off", false, "Clear the favorite mark")
}

func runShow(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	e, err := st.Get(index)
	if err != nil {
		return err
	}

	s := e.Session
	fmt.Printf("Brew:      #%d\n", index)
	fmt.Printf("Brewed:    %s (%s)\n", e.Timestamp.Format(models.TimestampLayout), humanize.Time(e.Timestamp))
	fmt.Printf("Bean:      %s\n", s.BeanName)
	fmt.Printf("Grinder:   %s\n", s.Grinder)
	fmt.Printf("Favorite:  %t\n\n", e.Favorite())
	fmt.Printf("Dose:          %g g\n", s.Dose)
	fmt.Printf("Grind size:    %g\n", s.GrindSize)
	fmt.Printf("Pre-infusion:  %g s\n", s.PreInfusionTime)
	fmt.Printf("Yield:         %g g\n", s.Yield)
	fmt.Printf("Shot time:     %g s\n\n", s.ShotTime)
	fmt.Printf("Sourness %d · Bitterness %d · Sweetness %d · Body %d · Overall %d\n\n",
		s.Sourness, s.Bitterness, s.Sweetness, s.Body, s.OverallSatisfaction)
	if s.Notes != "" {
		fmt.Printf("Notes:\n%s\n\n", s.Notes)
	}
	fmt.Printf("Suggestion:\n%s\n", e.Suggestion)

	if showCopy {
		if err := clipboard.WriteAll(e.Suggestion); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not copy to clipboard: %v\n", err)
		} else {
			fmt.Println("Suggestion copied to clipboard!")
		}
	}
	return nil
}

func runFavorite(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	if err := st.SetFavorite(cmd.Context(), index, !favoriteOff); err != nil {
		return err
	}

	if favoriteOff {
		fmt.Printf("Brew #%d is no longer a favorite\n", index)
	} else {
		fmt.Printf("Brew #%d marked as favorite ★\n", index)
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	indices := make([]int, 0, len(args))
	for _, a := range args {
		i, err := parseIndex(a)
		if err != nil {
			return err
		}
		indices = append(indices, i)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	removed, err := st.BatchDelete(cmd.Context(), indices)
	if err != nil {
		return err
	}

	fmt.Printf("%d brew(s) deleted, %d remaining\n", removed, st.Len())
	return nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	s, err := st.LoadByIndex(index)
	if err != nil {
		return err
	}

	fmt.Println(brewCommandLine(s))
	return nil
}

// brewCommandLine renders a session as an espressolog brew invocation
func brewCommandLine(s models.BrewSession) string {
	parts := []string{"espressolog", "brew"}
	add := func(flag, value string) {
		parts = append(parts, "--"+flag, value)
	}
	num := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

	if s.BeanName != "" {
		add("bean", shellEscape(s.BeanName))
	}
	if s.Grinder != "" {
		add("grinder", shellEscape(s.Grinder))
	}
	add("dose", num(s.Dose))
	add("grind", num(s.GrindSize))
	add("pre-infusion", num(s.PreInfusionTime))
	add("yield", num(s.Yield))
	add("time", num(s.ShotTime))
	add("sourness", strconv.Itoa(s.Sourness))
	add("bitterness", strconv.Itoa(s.Bitterness))
	add("sweetness", strconv.Itoa(s.Sweetness))
	add("body", strconv.Itoa(s.Body))
	add("overall", strconv.Itoa(s.OverallSatisfaction))
	if s.Notes != "" {
		add("notes", shellEscape(s.Notes))
	}
	return strings.Join(parts, " ")
}

// shellEscape single-quotes s so the shell passes it through untouched
func shellEscape(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}
