package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ramanasai/quotes/internal/render"
	"github.com/ramanasai/quotes/internal/transfer"
)

var exportPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every entry to a JSON file",
	Long: `Writes the whole collection as a JSON array of {"text","category"} objects
(plus id and any extra fields). Use --output - for stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, nil)
		if err != nil {
			return err
		}
		defer e.Close()

		doc, err := e.svc.Export()
		if err != nil {
			return err
		}
		if exportPath == "-" {
			_, err = cmd.OutOrStdout().Write(doc)
			return err
		}
		if err := os.WriteFile(exportPath, doc, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s.\n", len(e.svc.Snapshot()), exportPath)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Append entries from a JSON file",
	Long: `Reads a JSON array of {"text","category"} objects and appends them all.
If any element is malformed nothing is imported. Use - to read stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var doc []byte
		var err error
		if args[0] == "-" {
			doc, err = io.ReadAll(cmd.InOrStdin())
		} else {
			doc, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}

		term := render.NewTerminal(cmd.OutOrStdout(), render.NewRenderer(renderConfig(render.FormatDefault)))
		e, err := openEnv(cmd, term)
		if err != nil {
			return err
		}
		defer e.Close()

		n, err := e.svc.Import(cmd.Context(), doc)
		if err != nil {
			return fmt.Errorf("import %s: %w", args[0], err)
		}
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import.")
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportPath, "output", "o", transfer.DefaultFileName, "Destination file, or - for stdout")
}
