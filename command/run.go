package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"feed-notifier/config"
	"feed-notifier/entrylog"
	"feed-notifier/misc"
	"feed-notifier/service"
)

func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "poll every configured feed until interrupted",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "delay", Usage: "minimum time between cycle starts", EnvVars: []string{"QUERY_DELAY"}, Value: config.TimeoutBetweenLoops},
		},
		Action: func(c *cli.Context) error {
			config.TimeoutBetweenLoops = c.Duration("delay")
			store, closer, err := openStore(c)
			if err != nil {
				return err
			}
			defer closer.Close() //nolint:errcheck
			all, err := sessions(c, store)
			if err != nil {
				return err
			}
			if len(all) == 0 {
				return fmt.Errorf("no feed configs in %s", c.String("config-dir"))
			}
			misc.Info(fmt.Sprintf("polling %d feeds every %s", len(all), config.TimeoutBetweenLoops))
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			runner := &service.Runner{
				Sessions:   all,
				Delay:      config.TimeoutBetweenLoops,
				AfterCycle: func([]service.Report) { misc.PushMetrics() },
			}
			if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			misc.Info("stop")
			return nil
		},
	}
}

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "run a single poll cycle of one feed",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "feed", Required: true},
		},
		Action: func(c *cli.Context) error {
			store, closer, err := openStore(c)
			if err != nil {
				return err
			}
			defer closer.Close() //nolint:errcheck
			s, err := session(c, store, c.String("feed"))
			if err != nil {
				return err
			}
			report := s.Poll(c.Context)
			misc.PushMetrics()
			fmt.Fprintln(c.App.Writer, report.String())
			for _, e := range report.Errors {
				fmt.Fprintln(c.App.ErrWriter, e)
			}
			if !report.Healthy {
				return cli.Exit("feed is unhealthy", 1)
			}
			return nil
		},
	}
}

func logCmd() *cli.Command {
	return &cli.Command{
		Name:  "log",
		Usage: "print the remembered messages of one feed, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "feed", Required: true},
			&cli.IntFlag{Name: "depth", Value: config.DefaultLogDepth},
		},
		Action: func(c *cli.Context) error {
			store, closer, err := openStore(c)
			if err != nil {
				return err
			}
			defer closer.Close() //nolint:errcheck
			log, err := entrylog.Load(store, c.String("feed"), c.Int("depth"))
			if err != nil {
				return err
			}
			for i, msg := range log.Messages() {
				fmt.Fprintf(c.App.Writer, "#%d\n%s\n\n", i+1, msg)
			}
			return nil
		},
	}
}
