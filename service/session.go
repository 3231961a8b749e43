// Package service runs poll cycles of feeds: dedup against the entry log, delivery and health tracking
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/thoas/go-funk"

	"feed-notifier/config"
	"feed-notifier/entity"
	"feed-notifier/entrylog"
	"feed-notifier/misc"
)

// Retriever returns the current content of a feed, newest first
type Retriever interface {
	Retrieve(ctx context.Context, cfg *config.Feed) ([]entity.FeedEntry, error)
}

// Notifier delivers one message with a single request and no retry
type Notifier interface {
	Deliver(ctx context.Context, message string) error
}

// Channel builds the notifier described by feed settings
type Channel func(cfg *config.Feed) (Notifier, error)

// State is a step of a poll cycle
type State int

// Poll cycle states
const (
	Idle State = iota
	ConfigLoaded
	ContentRetrieved
	Deduplicated
	Delivering
	LogPersisted
	Unhealthy
)

func (s State) String() string {
	return [...]string{"idle", "config loaded", "content retrieved", "deduplicated", "delivering", "log persisted", "unhealthy"}[s]
}

// Report is the outcome of one poll cycle
type Report struct {
	Feed      string
	State     State
	Healthy   bool
	New       int
	Delivered int
	Failed    int
	Errors    []error
}

func (r Report) String() string {
	return fmt.Sprintf("%s: %s, healthy %t, new %d, delivered %d, failed %d", r.Feed, r.State, r.Healthy, r.New, r.Delivered, r.Failed)
}

// Session owns the config, entry log and health of one feed across cycles
type Session struct {
	Name      string
	Loader    config.Loader
	Retriever Retriever
	Channel   Channel
	Store     entrylog.Store
	Format    Formatter

	log        *entrylog.Log
	healthy    bool
	notifier   Notifier
	channelKey string
	retry      []string
}

// NewSession makes a session, the feed is assumed healthy until a cycle fails
func NewSession(name string, loader config.Loader, retriever Retriever, channel Channel, store entrylog.Store) *Session {
	return &Session{
		Name:      name,
		Loader:    loader,
		Retriever: retriever,
		Channel:   channel,
		Store:     store,
		Format:    FormatMessage,
		healthy:   true,
	}
}

// Healthy reports the result of the last cycle
func (s *Session) Healthy() bool {
	return s.healthy
}

// Log returns the in-memory entry log, nil before the first loaded config
func (s *Session) Log() *entrylog.Log {
	return s.log
}

// Poll runs one cycle. Errors are reported, never returned, so one feed cannot stop the others.
func (s *Session) Poll(ctx context.Context) (report Report) {
	report = Report{Feed: s.Name, State: Idle, Healthy: s.healthy}
	defer func() {
		if rec := recover(); rec != nil {
			report = s.fail(ctx, report, KindRetrieval, fmt.Errorf("panic: %v", rec))
		}
	}()

	cfg, err := s.Loader.Load(ctx)
	if err != nil {
		return s.fail(ctx, report, KindConfig, err)
	}
	report.State = ConfigLoaded
	notifier, err := s.channel(cfg)
	if err != nil {
		return s.fail(ctx, report, KindConfig, err)
	}
	s.prepareLog(cfg.Depth())

	entries, err := s.Retriever.Retrieve(ctx, cfg)
	if err != nil {
		return s.fail(ctx, report, KindRetrieval, err)
	}
	report.State = ContentRetrieved
	if !s.healthy {
		s.healthy = true
		s.notify(ctx, OnlineMessage(s.Name))
	}
	report.Healthy = true
	misc.FeedUp.With(prometheus.Labels{"feed": s.Name}).Set(1)

	pending := s.withRetries(entries, NewEntries(entries, s.log, s.Format))
	report.State = Deduplicated
	report.New = len(pending)

	var failed []string
	for _, p := range pending {
		report.State = Delivering
		if err := notifier.Deliver(ctx, p.Message); err != nil {
			e := &Error{Kind: KindDelivery, Feed: s.Name, Err: err}
			misc.Error("delivery", "deliver message", e)
			report.Errors = append(report.Errors, e)
			report.Failed++
			failed = append(failed, p.Message)
			continue
		}
		if p.Retry {
			s.log.InsertAfterNewest(p.Message)
		} else {
			s.log.PushFront(p.Message)
		}
		report.Delivered++
		misc.Delivered.With(prometheus.Labels{"feed": s.Name}).Inc()
	}
	s.retry = failed

	if report.Delivered > 0 {
		if err := s.log.Save(s.Store, s.Name); err != nil {
			e := &Error{Kind: KindPersistence, Feed: s.Name, Err: err}
			misc.Error("persistence", "save entry log", e)
			report.Errors = append(report.Errors, e)
			return report
		}
		report.State = LogPersisted
	}
	return report
}

func (s *Session) fail(ctx context.Context, report Report, kind Kind, err error) Report {
	e := &Error{Kind: kind, Feed: s.Name, Err: err}
	misc.Error(kind.String(), "poll "+s.Name, e)
	report.Errors = append(report.Errors, e)
	report.State = Unhealthy
	report.Healthy = false
	if s.healthy {
		s.healthy = false
		s.notify(ctx, OfflineMessage(s.Name))
	}
	misc.FeedUp.With(prometheus.Labels{"feed": s.Name}).Set(0)
	return report
}

// notify sends a health notice through the last working channel, failures are only logged
func (s *Session) notify(ctx context.Context, message string) {
	if s.notifier == nil {
		misc.Warn("no channel for health notice of "+s.Name, fmt.Errorf("%q not sent", message))
		return
	}
	if err := s.notifier.Deliver(ctx, message); err != nil {
		misc.Warn("health notice of "+s.Name, err)
	}
}

func (s *Session) channel(cfg *config.Feed) (Notifier, error) {
	key := strings.Join([]string{cfg.SlackHookURL, cfg.Payload, cfg.TelegramToken, cfg.TelegramChatID}, "\x00")
	if s.notifier != nil && key == s.channelKey {
		return s.notifier, nil
	}
	notifier, err := s.Channel(cfg)
	if err != nil {
		return nil, fmt.Errorf("notification channel: %w", err)
	}
	s.notifier = notifier
	s.channelKey = key
	return notifier, nil
}

func (s *Session) prepareLog(depth int) {
	if s.log != nil {
		if s.log.Depth() != depth {
			misc.Info(fmt.Sprintf("log depth of %s changed from %d to %d", s.Name, s.log.Depth(), depth))
			s.log.Resize(depth)
		}
		return
	}
	log, err := entrylog.Load(s.Store, s.Name, depth)
	if err != nil {
		misc.Warn("entry log of "+s.Name+" reset, already seen entries may be sent again", err)
	}
	s.log = log
}

// withRetries puts back entries whose delivery failed last cycle and that the dedup boundary now hides
func (s *Session) withRetries(entries []entity.FeedEntry, pending []Pending) []Pending {
	if len(s.retry) == 0 {
		return pending
	}
	queued := map[string]bool{}
	for _, p := range pending {
		queued[p.Message] = true
	}
	var again []Pending
	for i := len(entries) - 1; i >= 0; i-- {
		msg := s.Format(entries[i])
		if queued[msg] || s.log.Contains(msg) || !funk.ContainsString(s.retry, msg) {
			continue
		}
		queued[msg] = true
		again = append(again, Pending{Entry: entries[i], Message: msg, Retry: true})
	}
	return append(again, pending...)
}
