package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramanasai/quotes/internal/render"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"cats"},
	Short:   "List categories; the selected filter is marked with *",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, nil)
		if err != nil {
			return err
		}
		defer e.Close()

		r := render.NewRenderer(renderConfig(render.FormatDefault))
		fmt.Fprint(cmd.OutOrStdout(), r.RenderCategories(e.svc.Categories(), e.svc.Filter()))
		return nil
	},
}
