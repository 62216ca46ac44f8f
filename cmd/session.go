package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramanasai/quotes/internal/store"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the per-terminal session state",
}

var sessionEndCmd = &cobra.Command{
	Use:   "end",
	Short: "Forget the last shown quote for this session",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := store.OpenSession(globals.cfg.Session.Dir, globals.cfg.Session.ID)
		if err := s.End(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session %s ended.\n", s.ID())
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionEndCmd)
}
