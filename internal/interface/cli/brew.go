package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/neilberkman/espressolog/internal/core/brewlog"
	"github.com/neilberkman/espressolog/internal/core/session"
	"github.com/neilberkman/espressolog/internal/core/suggest"
	"github.com/spf13/cobra"
)

var (
	brewFlags    sessionFlags
	brewCopy     bool
	suggestFlags sessionFlags
)

var brewCmd = &cobra.Command{
	Use:   "brew",
	Short: "Log a brew and get a suggestion for the next one",
	Long: `Record a shot's dial-in parameters and ratings, save it to the brew log,
and print a suggested adjustment for the next shot.

Unset fields come from the configured defaults, or from a logged brew with --from.

Examples:
  espressolog brew --bean "Kenya AA" --dose 18 --grind 5 --sourness 4
  espressolog brew --from 12 --sourness 2 --sweetness 4 --notes "better"`,
	Args: cobra.NoArgs,
	RunE: runBrew,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Show the suggestion for a brew without saving it",
	Long: `Evaluate ratings against the suggestion rules without writing to the log.

Examples:
  espressolog suggest --sourness 5 --grind 6
  espressolog suggest --from 3`,
	Args: cobra.NoArgs,
	RunE: runSuggest,
}

func init() {
	rootCmd.AddCommand(brewCmd)
	rootCmd.AddCommand(suggestCmd)

	addSessionFlags(brewCmd, &brewFlags)
	brewCmd.Flags().BoolVar(&brewCopy, "copy", false, "Copy the suggestion report to the clipboard")
	addSessionFlags(suggestCmd, &suggestFlags)
}

func runBrew(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	s, err := brewFlags.build(cmd, st)
	if err != nil {
		return err
	}

	// Dial-in, then rating, then save: the same lifecycle the TUI drives.
	w := session.NewWorkflow(s)
	if err := w.StartBrew(); err != nil {
		return err
	}
	out, err := w.Finish(cmd.Context(), st)
	if err != nil {
		return err
	}

	report, err := session.RenderReport(cfg.ReportTemplate, out.Brewed, out.Result, out.Entry.Timestamp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: report template failed: %v\n", err)
	}
	fmt.Print(report)
	fmt.Printf("\nSaved as brew #%d in %s\n", out.Index, st.Path())

	if brewCopy {
		if err := clipboard.WriteAll(report); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not copy to clipboard: %v\n", err)
		} else {
			fmt.Println("Report copied to clipboard!")
		}
	}
	return nil
}

func runSuggest(cmd *cobra.Command, args []string) error {
	var st *brewlog.Store
	if suggestFlags.from >= 0 {
		var err error
		if st, err = openStore(); err != nil {
			return err
		}
	}

	s, err := suggestFlags.build(cmd, st)
	if err != nil {
		return err
	}

	result, err := suggest.Evaluate(s)
	if err != nil {
		return err
	}

	report, err := session.RenderReport(cfg.ReportTemplate, s, result, time.Time{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: report template failed: %v\n", err)
	}
	fmt.Print(report)
	return nil
}
