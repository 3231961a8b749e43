// Package command is the command line of the notifier
package command

import (
	"github.com/urfave/cli/v2"

	"feed-notifier/config"
	"feed-notifier/misc"
)

// App builds the command line application
func App() *cli.App {
	return &cli.App{
		Name:  "feed-notifier",
		Usage: "poll feeds and post new entries to chat webhooks",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Usage: "directory of feed configs", EnvVars: []string{"CONFIG_DIR"}, Value: "config"},
			&cli.StringFlag{Name: "log-dir", Usage: "directory of entry logs for the file store", EnvVars: []string{"LOG_DIR"}, Value: "logs"},
			&cli.StringFlag{Name: "store", Usage: "entry log store: file, bolt or postgres", EnvVars: []string{"STORE"}, Value: "file"},
			&cli.StringFlag{Name: "bolt-path", Usage: "bolt database file", EnvVars: []string{"BOLT_PATH"}, Value: "var/store.bdb"},
			&cli.StringFlag{Name: "db-host", EnvVars: []string{"DB_HOST"}, Value: "127.0.0.1"},
			&cli.StringFlag{Name: "db-user", EnvVars: []string{"DB_USER"}, Value: "postgres"},
			&cli.StringFlag{Name: "db-password", EnvVars: []string{"DB_PASSWORD"}},
			&cli.StringFlag{Name: "db-name", EnvVars: []string{"DB_NAME"}, Value: "postgres"},
			&cli.DurationFlag{Name: "request-timeout", Usage: "timeout of every remote call", EnvVars: []string{"REQUEST_TIMEOUT"}, Value: config.RequestTimeout},
			&cli.StringFlag{Name: "push-url", Usage: "prometheus pushgateway url", EnvVars: []string{"PUSH_URL"}},
			&cli.StringFlag{Name: "push-job", EnvVars: []string{"PUSH_JOB"}, Value: "feed_notifier"},
			&cli.BoolFlag{Name: "debug", EnvVars: []string{"DEBUG"}},
		},
		Before: func(c *cli.Context) error {
			misc.Setup(c.Bool("debug"))
			config.RequestTimeout = c.Duration("request-timeout")
			if url := c.String("push-url"); url != "" {
				misc.InitMetrics(url, c.String("push-job"))
			}
			return nil
		},
		Commands: []*cli.Command{
			runCmd(),
			checkCmd(),
			logCmd(),
		},
	}
}
