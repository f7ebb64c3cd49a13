package cli

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/talkincode/shopdesk/config"
	"github.com/talkincode/shopdesk/internal/app"
)

type env struct {
	cfgFile string
	debug   bool
	cfg     *config.AppConfig
	app     *app.Application
}

// Option adjusts the command tree before it runs
type Option func(*env)

// WithConfig runs the commands on cfg instead of loading a config file
func WithConfig(cfg *config.AppConfig) Option {
	return func(e *env) {
		e.cfg = cfg
	}
}

func (e *env) init() error {
	cfg := e.cfg
	if cfg == nil {
		var err error
		if cfg, err = config.LoadConfig(e.cfgFile); err != nil {
			return err
		}
	}
	if e.debug {
		cfg.System.Debug = true
	}
	app.InitLogger(cfg)
	a := app.NewApplication(cfg)
	if err := a.Init(cfg); err != nil {
		return errors.WithMessage(err, "init application")
	}
	e.app = a
	return nil
}

func (e *env) release() {
	if e.app != nil {
		e.app.Release()
		e.app = nil
	}
}

func newRoot(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "shopdesk",
		Short:         "Back-office client for the shop catalog and staff accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.init()
		},
	}
	root.PersistentFlags().StringVarP(&e.cfgFile, "config", "c", "", "config file (yaml)")
	root.PersistentFlags().BoolVar(&e.debug, "debug", false, "debug logging")

	root.AddCommand(loginCommand(e), logoutCommand(e), whoamiCommand(e), browseCommand(e))
	for _, r := range resources {
		root.AddCommand(resourceCommand(e, r))
	}
	return root
}

// Execute runs the shopdesk command line with args and releases the application afterwards
func Execute(ctx context.Context, args []string, in io.Reader, out io.Writer, opts ...Option) error {
	e := &env{}
	for _, opt := range opts {
		opt(e)
	}
	defer e.release()
	root := newRoot(e)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)
	return root.ExecuteContext(ctx)
}
