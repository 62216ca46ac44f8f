package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ramanasai/quotes/internal/render"
)

var showNew bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current quote, or a new one with --new",
	Long: `Shows the quote last displayed in this terminal session when it is still
in the selected category. Otherwise, or with --new, picks a random quote
from the selected category, avoiding an immediate repeat.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		term := render.NewTerminal(cmd.OutOrStdout(), render.NewRenderer(renderConfig(render.FormatDefault)))
		e, err := openEnv(cmd, term)
		if err != nil {
			return err
		}
		defer e.Close()

		if showNew {
			e.svc.Next(cmd.Context())
		} else {
			e.svc.Current(cmd.Context())
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVarP(&showNew, "new", "n", false, "Pick a new quote")
	showCmd.Flags().BoolVar(&showIDs, "ids", false, "Show entry ids")
	showCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}
