// Package cli is the harapan terminal host. It wires the Google provider, the
// backend session client and the auth bridge behind cobra commands.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"harapan-web/internal/bridge"
	"harapan-web/internal/config"
	"harapan-web/internal/domain"
	"harapan-web/internal/provider/google"
	"harapan-web/internal/sessionclient"
	"harapan-web/pkg/logger"
)

// signInTimeout bounds the interactive sign-in flow
const signInTimeout = 5 * time.Minute

// ErrNotSignedIn is returned by commands that need a signed-in user
var ErrNotSignedIn = stderrors.New("not signed in")

// IdentityProvider is a bridge.Provider that can replay its persisted state
type IdentityProvider interface {
	bridge.Provider
	Restore(ctx context.Context) (*domain.SessionUser, error)
}

// Options are the global flags
type Options struct {
	Server  string
	Verbose bool
	Config  *config.Config
}

// Factory builds the provider and backend notifier for one command run
type Factory func(opts *Options, log *logger.Logger) (IdentityProvider, bridge.Notifier, error)

// DefaultFactory uses Google with the OS credential store and the HTTP session
// client. The backend session token is kept in the same store, so a later run
// can end the session an earlier one opened.
func DefaultFactory(opts *Options, log *logger.Logger) (IdentityProvider, bridge.Notifier, error) {
	ring, err := google.OpenKeyring()
	if err != nil {
		return nil, nil, fmt.Errorf("secure storage is not available: %w", err)
	}

	provider, err := google.New(google.Config{
		ClientID:     opts.Config.GoogleClientID,
		ClientSecret: opts.Config.GoogleClientSecret,
		Keyring:      ring,
		Opener: google.OpenerFunc(func(url string) error {
			fmt.Fprintf(os.Stderr, "Buka tautan ini untuk login:\n%s\n\n", url)
			return google.BrowserOpener.Open(url)
		}),
		Logger: log,
	})
	if err != nil {
		return nil, nil, err
	}
	tokens := sessionclient.NewKeyringTokenStore(ring, opts.Server)
	return provider, sessionclient.NewWithTokenStore(opts.Server, tokens), nil
}

// run is the state shared by the commands of one invocation
type run struct {
	opts    *Options
	factory Factory
	out     io.Writer
	errOut  io.Writer

	log    *logger.Logger
	bridge *bridge.Bridge
	view   *TerminalView
}

// NewRootCmd builds the harapan command tree
func NewRootCmd(factory Factory, cfg *config.Config, out, errOut io.Writer) *cobra.Command {
	r := &run{
		opts:    &Options{Config: cfg},
		factory: factory,
		out:     out,
		errOut:  errOut,
	}

	root := &cobra.Command{
		Use:           "harapan",
		Short:         "Sign in to Harapan and book village tours from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&r.opts.Server, "server", cfg.ServerURL, "Harapan backend URL")
	root.PersistentFlags().BoolVarP(&r.opts.Verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newLoginCmd(r),
		newLogoutCmd(r),
		newStatusCmd(r),
		newBookCmd(r),
	)
	return root
}

// wrap starts the bridge around fn and waits for outstanding backend
// notifications before the command returns
func (r *run) wrap(fn func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := r.start(ctx); err != nil {
			return err
		}
		defer r.bridge.Stop()
		return fn(ctx, args)
	}
}

func (r *run) start(ctx context.Context) error {
	level := "warn"
	if r.opts.Verbose {
		level = "debug"
	}
	r.log = logger.NewWithWriter(level, r.errOut, true)

	provider, notifier, err := r.factory(r.opts, r.log)
	if err != nil {
		return err
	}

	r.view = NewTerminalView(r.out)
	r.bridge = bridge.New(provider, notifier, bridge.Options{
		Renderer: r.view,
		Alerter:  NewTerminalAlerter(r.out),
		Reloader: bridge.ReloaderFunc(r.view.Show),
		Logger:   r.log,
	})
	r.bridge.Start()

	if _, err := provider.Restore(ctx); err != nil {
		r.log.WithError(err).Warn("Failed to restore previous sign-in")
	}
	return nil
}

// Execute runs the CLI
func Execute() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	root := NewRootCmd(DefaultFactory, cfg, os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
