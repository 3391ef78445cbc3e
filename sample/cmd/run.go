package cmd

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/super-flat/actornode/actors"
	"github.com/super-flat/actornode/config"
	"github.com/super-flat/actornode/listeners/console"
	"github.com/super-flat/actornode/listeners/metrics"
	"github.com/super-flat/actornode/sample/account"
)

const demoTimeout = 5 * time.Second

func init() {
	rootCmd.AddCommand(runCMD)
}

var runCMD = &cobra.Command{
	Use:   "run",
	Short: "Run the account demo",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath, envFile)
		if err != nil {
			return err
		}
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()
		return Sample(ctx, cfg)
	},
}

// Sample spawns an account, runs a few operations against it and, when a
// metrics address is configured, keeps serving metrics until ctx is done
func Sample(ctx context.Context, cfg *config.Config) error {
	logger := cfg.Logger(console.NewLogger(os.Stderr, cfg.Log.Color))
	log := logger.WithField("component", "sample")

	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(registry)

	opts := append(cfg.NodeOpts(),
		actors.WithLogger(logger),
		actors.WithListener(recorder.Listener()),
	)
	if cfg.Log.Console {
		opts = append(opts, actors.WithListener(console.NewListener(logger)))
	}
	node := actors.New(opts...)
	node.Start()
	defer node.Shutdown()

	group, groupCtx := errgroup.WithContext(ctx)
	if cfg.Metrics.Address != "" {
		group.Go(func() error {
			return metrics.Serve(groupCtx, cfg.Metrics.Address, registry, logger)
		})
	}
	group.Go(func() error {
		return runAccount(groupCtx, node, log)
	})
	return group.Wait()
}

func runAccount(ctx context.Context, node *actors.Node, log logrus.FieldLogger) error {
	acct := actors.Spawn[account.State, account.Message](ctx, node, account.Handle, &account.State{Balance: 100})
	acct.Send(account.Deposit{Amount: 50})
	acct.Send(account.Withdrawal{Amount: 1000})

	balance := make(chan int64, 1)
	acct.SendWithReply(account.GetBalance{}, func(reply any) {
		if value, ok := reply.(int64); ok {
			balance <- value
		}
	})

	waitCtx, cancel := context.WithTimeout(ctx, demoTimeout)
	defer cancel()
	if err := node.AwaitIdle(waitCtx); err != nil {
		return errors.Wrap(err, "wait for account actor")
	}
	select {
	case value := <-balance:
		log.WithField("address", acct.Address()).WithField("balance", value).Info("[sample] final balance")
	default:
		return errors.New("account actor did not reply")
	}
	return nil
}
