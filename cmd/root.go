package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ramanasai/quotes/internal/collection"
	"github.com/ramanasai/quotes/internal/config"
	"github.com/ramanasai/quotes/internal/logging"
	"github.com/ramanasai/quotes/internal/ui"
)

var (
	cfgPath    string
	logLevel   string
	policyFlag string
)

// globals is filled in by the root pre-run hook.
var globals struct {
	cfg    config.Config
	logger *log.Logger
}

var rootCmd = &cobra.Command{
	Use:   "quotes",
	Short: "Categorized quotes in your terminal, synced with a server",
	Long: `Keeps a local collection of quotes grouped by category, shows a random
one on demand, and reconciles the collection with a remote source.

Run without a subcommand to open the interactive view.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = logLevel
		}
		if cmd.Flags().Changed("policy") {
			p, err := collection.ParsePolicy(policyFlag)
			if err != nil {
				return err
			}
			cfg.Sync.Policy = string(p)
		}
		globals.cfg = cfg
		globals.logger = logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// The TUI owns the terminal; background logs would corrupt it.
		globals.logger.SetOutput(io.Discard)

		ctx := cmd.Context()
		bridge := ui.NewBridge()
		e, err := openEnv(cmd, bridge)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		opts := ui.Options{NotifyDuration: e.cfg.Notify.Duration}
		theme := ui.ThemeByName(e.cfg.Theme)
		opts.Theme = &theme

		eng := e.engine()
		if eng != nil {
			opts.Sync = eng.Trigger
		}
		// Attach before the first cycle so its events reach the view.
		p := ui.NewProgram(ctx, e.svc, bridge, opts)

		var wg sync.WaitGroup
		if eng != nil {
			wg.Add(1)
			go func() {
				defer wg.Done()
				eng.Run(ctx, e.cfg.Sync.OnStart)
			}()
		}

		err = ui.Run(ctx, p)
		cancel()
		wg.Wait()
		return err
	},
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "config file (default ~/.config/quotes/config.yaml)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error")
	pf.StringVar(&policyFlag, "policy", "", "merge policy for sync: additive|authoritative")

	rootCmd.AddCommand(addCmd, showCmd, listCmd, categoriesCmd, filterCmd,
		exportCmd, importCmd, syncCmd, watchCmd, sessionCmd, versionCmd)
}
