package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ramanasai/quotes/internal/app"
	"github.com/ramanasai/quotes/internal/config"
	"github.com/ramanasai/quotes/internal/encryption"
	"github.com/ramanasai/quotes/internal/notify"
	"github.com/ramanasai/quotes/internal/reconcile"
	"github.com/ramanasai/quotes/internal/remote"
	"github.com/ramanasai/quotes/internal/selection"
	"github.com/ramanasai/quotes/internal/store"
)

// env is everything a command needs, opened from the loaded config.
type env struct {
	cfg     config.Config
	logger  *log.Logger
	session *store.Session
	remote  *remote.Client
	svc     *app.Service
	closers []func() error
}

// openPersistent opens the configured backend, sealed when a passphrase is
// set.
func openPersistent(cfg config.Config) (store.KV, func() error, error) {
	dir := strings.TrimSpace(cfg.Store.Dir)
	if dir == "" {
		d, err := store.DataDir()
		if err != nil {
			return nil, nil, fmt.Errorf("data dir: %w", err)
		}
		dir = d
	}

	var kv store.KV
	closeFn := func() error { return nil }
	switch cfg.Store.Backend {
	case config.BackendDiskv:
		kv = store.NewDiskv(dir)
	default:
		db, err := store.OpenSQLite(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		kv, closeFn = db, db.Close
	}

	if cfg.Store.Passphrase != "" {
		enc, err := encryption.NewEncryptor(cfg.Store.Passphrase, filepath.Join(dir, encryption.SaltFileName))
		if err != nil {
			_ = closeFn()
			return nil, nil, err
		}
		kv = store.NewSealed(kv, enc)
	}
	return kv, closeFn, nil
}

func openRemote(cfg config.Config) (*remote.Client, error) {
	if !cfg.RemoteEnabled() {
		return nil, nil
	}
	return remote.New(cfg.Remote.URL,
		remote.WithTimeout(cfg.Remote.Timeout),
		remote.WithMapping(remote.Mapping{
			TextField:       cfg.Remote.TextField,
			CategoryField:   cfg.Remote.CategoryField,
			DefaultCategory: cfg.Remote.DefaultCategory,
		}),
	)
}

// openEnv wires the service to display. Desktop notifications wrap the
// display when notify.desktop is on. State the store could not save is
// reported on the command's error output.
func openEnv(cmd *cobra.Command, display app.Display) (*env, error) {
	ctx := cmd.Context()
	e := &env{cfg: globals.cfg, logger: globals.logger}

	kv, closeFn, err := openPersistent(e.cfg)
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, closeFn)

	e.session = store.OpenSession(e.cfg.Session.Dir, e.cfg.Session.ID)

	if e.remote, err = openRemote(e.cfg); err != nil {
		_ = e.Close()
		return nil, fmt.Errorf("remote.url: %w", err)
	}

	if e.cfg.Notify.Desktop {
		display = notify.NewDesktop(display, nil, e.logger)
	}

	opts := app.Options{
		Persistent: kv,
		Ephemeral:  e.session,
		Selector:   selection.New(nil, e.cfg.Selection.MaxAttempts),
		Display:    display,
		Logger:     e.logger,
	}
	if e.remote != nil {
		opts.Poster = e.remote
	}

	e.svc, err = app.Open(ctx, opts)
	if err != nil {
		var serr *store.StorageError
		if e.svc == nil || !errors.As(err, &serr) {
			_ = e.Close()
			return nil, err
		}
		e.logger.Warn("running with unsaved state", "err", err)
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: could not save initial state:", err)
	}
	e.logger.Debug("environment ready",
		"backend", e.cfg.Store.Backend,
		"session", e.session.ID(),
		"remote", e.cfg.Remote.URL,
	)
	return e, nil
}

// engine returns the reconciliation engine, or nil without a remote.
func (e *env) engine() *reconcile.Engine {
	if e.remote == nil {
		return nil
	}
	return reconcile.New(e.remote, e.svc,
		reconcile.WithPolicy(e.cfg.Policy()),
		reconcile.WithInterval(e.cfg.Sync.Interval),
		reconcile.WithLogger(e.logger),
	)
}

func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i]())
	}
	return errors.Join(errs...)
}
