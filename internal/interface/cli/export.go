package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/neilberkman/espressolog/internal/core/db"
	"github.com/neilberkman/espressolog/internal/core/models"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the brew log to markdown or SQLite",
	Long: `Export every logged brew to a markdown document or a SQLite database.

By default exports to the current directory as brew_log.md or brew_log.db.
Use --output to specify a custom path. A SQLite export replaces the brews
table in an existing database.

Examples:
  espressolog export
  espressolog export --format sqlite -o ~/brews.db
  espressolog export -o journal.md`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: brew_log.md or brew_log.db in current directory)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "markdown", "Export format: markdown or sqlite")
}

func runExport(cmd *cobra.Command, args []string) error {
	var ext string
	switch exportFormat {
	case "markdown", "md":
		ext = ".md"
	case "sqlite", "db":
		ext = ".db"
	default:
		return fmt.Errorf("unknown export format %q (want markdown or sqlite)", exportFormat)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	entries := st.List()

	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	// Determine output path
	outputPath := exportOutput
	if outputPath == "" {
		outputPath = filepath.Join(cwd, "brew_log"+ext)
	} else if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(cwd, outputPath)
	}

	if ext == ".db" {
		return exportSQLite(outputPath, entries)
	}

	if err := os.WriteFile(outputPath, []byte(renderMarkdown(entries)), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	fmt.Printf("Exported %d brew(s) to: %s\n", len(entries), outputPath)
	return nil
}

func exportSQLite(path string, entries []models.BrewLogEntry) error {
	database, err := db.New(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	if err := database.ReplaceBrews(entries); err != nil {
		return fmt.Errorf("failed to export brews: %w", err)
	}
	count, err := database.CountBrews()
	if err != nil {
		return fmt.Errorf("failed to count exported brews: %w", err)
	}

	fmt.Printf("Exported %d brew(s) to: %s\n", count, path)
	return nil
}

// renderMarkdown writes entries in log order, one section per brew
func renderMarkdown(entries []models.BrewLogEntry) string {
	var b strings.Builder

	b.WriteString("# Brew log\n\n")
	b.WriteString(fmt.Sprintf("**Brews:** %d\n\n", len(entries)))
	b.WriteString("---\n\n")

	for i, e := range entries {
		s := e.Session

		b.WriteString(fmt.Sprintf("## #%d %s", i, e.Label()))
		if e.Favorite() {
			b.WriteString(" ★")
		}
		b.WriteString("\n\n")

		if s.Grinder != "" {
			b.WriteString("**Grinder:** ")
			b.WriteString(s.Grinder)
			b.WriteString("  \n")
		}
		b.WriteString(fmt.Sprintf("**Recipe:** %gg in, grind %g, %gs pre-infusion, %gg out in %gs  \n",
			s.Dose, s.GrindSize, s.PreInfusionTime, s.Yield, s.ShotTime))
		b.WriteString(fmt.Sprintf("**Ratings:** sourness %d, bitterness %d, sweetness %d, body %d, overall %d\n\n",
			s.Sourness, s.Bitterness, s.Sweetness, s.Body, s.OverallSatisfaction))

		if s.Notes != "" {
			b.WriteString(s.Notes)
			b.WriteString("\n\n")
		}

		b.WriteString("_")
		b.WriteString(e.Suggestion)
		b.WriteString("_\n\n")
		b.WriteString("---\n\n")
	}

	return b.String()
}
