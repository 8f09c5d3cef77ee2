package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the brew log if it does not exist",
	Long: `Create the brew log (a CSV file with only the header row) if it is missing.
An existing log is read and left untouched.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	fmt.Printf("Brew log ready: %s (%d brew(s))\n", st.Path(), st.Len())
	return nil
}
