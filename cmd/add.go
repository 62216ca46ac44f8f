package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/quotes/internal/render"
	"github.com/ramanasai/quotes/internal/store"
)

var addCategory string

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a quote to a category",
	Example: `  quotes add -c Inspiration "Stay hungry, stay foolish."
  quotes add --category Humor I am not lazy, I am on energy saving mode`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := render.NewTerminal(cmd.OutOrStdout(), render.NewRenderer(renderConfig(render.FormatDefault)))
		e, err := openEnv(cmd, term)
		if err != nil {
			return err
		}
		defer e.Close()

		added, err := e.svc.Add(cmd.Context(), strings.Join(args, " "), addCategory)
		var serr *store.StorageError
		switch {
		case errors.As(err, &serr):
			return fmt.Errorf("added for this run only, not saved: %w", err)
		case err != nil:
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved to %s.\n", added.Category)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "Category for the new quote (required)")
	_ = addCmd.MarkFlagRequired("category")
}
