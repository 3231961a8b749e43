package command

import (
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"feed-notifier/config"
	"feed-notifier/db"
	"feed-notifier/entrylog"
	"feed-notifier/http"
	"feed-notifier/proc"
	"feed-notifier/service"
	"feed-notifier/telegram"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStore returns the configured entry log store and a closer for it
func openStore(c *cli.Context) (entrylog.Store, io.Closer, error) {
	switch c.String("store") {
	case "file":
		store, err := entrylog.NewFileStore(c.String("log-dir"))
		return store, nopCloser{}, err
	case "bolt":
		store, err := proc.NewBoltDB(c.String("bolt-path"))
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case "postgres":
		conn, err := db.Connect(c.String("db-host"), c.String("db-user"), c.String("db-password"), c.String("db-name"))
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, nil, err
		}
		return &db.Store{DB: conn}, sqlDB, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", c.String("store"))
}

// channel picks the slack webhook when configured, telegram otherwise
func channel(cfg *config.Feed) (service.Notifier, error) {
	if cfg.SlackHookURL != "" {
		return http.NewWebhook(cfg), nil
	}
	if cfg.TelegramToken != "" {
		notifier, err := telegram.Connect(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			return nil, err
		}
		return notifier, nil
	}
	return nil, errors.New("no notification channel configured")
}

func sessions(c *cli.Context, store entrylog.Store) ([]*service.Session, error) {
	loaders, err := config.Discover(c.String("config-dir"))
	if err != nil {
		return nil, err
	}
	source := http.NewSource()
	result := make([]*service.Session, 0, len(loaders))
	for _, loader := range loaders {
		result = append(result, service.NewSession(config.LoaderName(loader), loader, source, channel, store))
	}
	return result, nil
}

func session(c *cli.Context, store entrylog.Store, name string) (*service.Session, error) {
	all, err := sessions(c, store)
	if err != nil {
		return nil, err
	}
	for _, s := range all {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("no config for feed %q in %s", name, c.String("config-dir"))
}
