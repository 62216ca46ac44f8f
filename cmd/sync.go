package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramanasai/quotes/internal/reconcile"
	"github.com/ramanasai/quotes/internal/render"
)

var errNoRemote = errors.New("no remote configured: set remote.url or QUOTES_REMOTE_URL")

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile with the remote source once",
	RunE: func(cmd *cobra.Command, args []string) error {
		term := render.NewTerminal(cmd.OutOrStdout(), render.NewRenderer(renderConfig(render.FormatDefault)))
		e, err := openEnv(cmd, term)
		if err != nil {
			return err
		}
		defer e.Close()

		eng := e.engine()
		if eng == nil {
			return errNoRemote
		}
		out := eng.Trigger(cmd.Context())
		switch out.Status {
		case reconcile.Failed:
			return fmt.Errorf("sync failed: %w", out.Err)
		case reconcile.Unchanged:
			fmt.Fprintln(cmd.OutOrStdout(), "Already up to date.")
		case reconcile.Changed:
			fmt.Fprintf(cmd.OutOrStdout(), "%s merge: %d added, %d removed.\n",
				out.Result.Policy, out.Result.Added, out.Result.Removed)
			if out.Err != nil {
				return fmt.Errorf("merged but not saved: %w", out.Err)
			}
		}
		return nil
	},
}

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reconcile with the remote source every interval until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		term := render.NewTerminal(cmd.OutOrStdout(), render.NewRenderer(renderConfig(render.FormatDefault)))
		e, err := openEnv(cmd, term)
		if err != nil {
			return err
		}
		defer e.Close()

		if cmd.Flags().Changed("interval") {
			e.cfg.Sync.Interval = watchInterval
		}
		eng := e.engine()
		if eng == nil {
			return errNoRemote
		}
		e.logger.Info("watching remote", "url", e.remote.URL(), "interval", eng.Interval(), "policy", eng.Policy())
		eng.Run(cmd.Context(), e.cfg.Sync.OnStart)
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Time between cycles (default sync.interval)")
}
