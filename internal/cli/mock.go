package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/talkincode/shopdesk/config"
	"github.com/talkincode/shopdesk/internal/app"
	"github.com/talkincode/shopdesk/internal/mockapi"
	"go.uber.org/zap"
)

func newMockRoot() *cobra.Command {
	var (
		cfgFile string
		noSeed  bool
	)
	cmd := &cobra.Command{
		Use:           "mockapi",
		Short:         "Serve the shop REST API from memory for local development",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Mock.Port, _ = cmd.Flags().GetInt("port")
			}
			if cmd.Flags().Changed("host") {
				cfg.Mock.Host, _ = cmd.Flags().GetString("host")
			}
			cfg.Mock.Seed = cfg.Mock.Seed && !noSeed
			cfg.System.Debug = true
			app.InitLogger(cfg)
			defer func() { _ = zap.L().Sync() }()

			srv := mockapi.New(mockapi.Config{JwtSecret: cfg.Mock.JwtSecret, Seed: cfg.Mock.Seed})
			addr := fmt.Sprintf("%s:%d", cfg.Mock.Host, cfg.Mock.Port)
			if cfg.Mock.Seed {
				fmt.Fprintf(cmd.OutOrStdout(), "seeded accounts: %s / %s, %s / %s\n",
					mockapi.AdminEmail, mockapi.AdminPassword, mockapi.SalesEmail, mockapi.SalesPassword)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(sctx); err != nil {
					zap.S().Error(err)
				}
			}()
			return srv.Start(addr)
		},
	}
	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file (yaml)")
	cmd.Flags().String("host", "", "listen host")
	cmd.Flags().Int("port", 0, "listen port")
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "start with empty tables and no accounts")
	return cmd
}

// ExecuteMock runs the fake backend command line
func ExecuteMock(ctx context.Context, args []string, out io.Writer) error {
	root := newMockRoot()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)
	return root.ExecuteContext(ctx)
}
