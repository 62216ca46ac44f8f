package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/quotes/internal/collection"
	"github.com/ramanasai/quotes/internal/entry"
	"github.com/ramanasai/quotes/internal/render"
)

var (
	listCategory string
	limit        int
	page         int
	format       string
	noColor      bool
	showIDs      bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries, optionally for one category",
	Long: `Examples:
	quotes list                              # every entry
	quotes list --category Humor             # one category
	quotes list --current                    # the saved filter
	quotes list --format table --limit 20    # table format
	quotes list --format json > entries.json # for scripts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := render.ParseFormat(format)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd, nil)
		if err != nil {
			return err
		}
		defer e.Close()

		category := strings.TrimSpace(listCategory)
		if current, _ := cmd.Flags().GetBool("current"); current {
			category = e.svc.Filter()
		}
		if category == "" {
			category = entry.All
		}
		if !collection.HasCategory(e.svc.Snapshot(), category) {
			return fmt.Errorf("unknown category %q (see `quotes categories`)", category)
		}

		entries := e.svc.Entries(category)
		pg := render.NewPage(len(entries), limit, page)

		r := render.NewRenderer(renderConfig(f))
		out, err := r.RenderList(render.List{
			Entries: pg.Slice(entries),
			Filter:  category,
			Total:   len(entries),
			Page:    pg,
		})
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func renderConfig(f render.Format) render.Config {
	rc := render.DefaultConfig()
	rc.Format = f
	rc.ShowID = showIDs
	if noColor {
		rc.Color = false
	}
	return rc
}

func init() {
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Only entries in this category")
	listCmd.Flags().Bool("current", false, "Use the saved category filter")
	listCmd.Flags().IntVar(&limit, "limit", 0, "Entries per page (0 shows everything)")
	listCmd.Flags().IntVar(&page, "page", 1, "Page number to show")
	listCmd.Flags().StringVar(&format, "format", "default", "Output format: default, table, json, csv, compact, quiet")
	listCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	listCmd.Flags().BoolVar(&showIDs, "ids", false, "Show entry ids")
}
