package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/quotes/internal/app"
	"github.com/ramanasai/quotes/internal/render"
)

var filterCmd = &cobra.Command{
	Use:   "filter [category]",
	Short: "Print or change the selected category",
	Long: `Without an argument prints the selected category. With one, selects it
(use "all" for every category), saves it, and shows a quote from it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := render.NewTerminal(cmd.OutOrStdout(), render.NewRenderer(renderConfig(render.FormatDefault)))
		e, err := openEnv(cmd, term)
		if err != nil {
			return err
		}
		defer e.Close()

		if len(args) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), e.svc.Filter())
			return nil
		}
		err = e.svc.SetFilter(cmd.Context(), strings.TrimSpace(args[0]))
		if errors.Is(err, app.ErrUnknownCategory) {
			return fmt.Errorf("%w (known: %s)", err, strings.Join(e.svc.Categories(), ", "))
		}
		return err
	},
}
