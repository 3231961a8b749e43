package service_test

import (
	"context"
	"testing"
	"time"

	"feed-notifier/config"
	"feed-notifier/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemaining(t *testing.T) {
	tests := []struct {
		name     string
		delay    time.Duration
		elapsed  time.Duration
		expected time.Duration
	}{
		{name: "fast cycle", delay: time.Minute, elapsed: 10 * time.Second, expected: 50 * time.Second},
		{name: "exact", delay: time.Minute, elapsed: time.Minute, expected: 0},
		{name: "slow cycle", delay: time.Minute, elapsed: 2 * time.Minute, expected: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, service.Remaining(tt.delay, tt.elapsed))
		})
	}
}

func newSession(name string, retriever *fakeRetriever, notifier *fakeNotifier) *service.Session {
	loader := &fakeLoader{cfg: &config.Feed{Name: name, SlackHookURL: "https://hooks/" + name}}
	session := service.NewSession(name, loader, retriever, func(*config.Feed) (service.Notifier, error) {
		return notifier, nil
	}, &memStore{data: map[string][]string{}})
	session.Format = byID
	return session
}

func TestCycleIsolatesFeeds(t *testing.T) {
	broken := &fakeNotifier{failOn: map[string]bool{}}
	working := &fakeNotifier{failOn: map[string]bool{}}
	var seen []service.Report
	runner := &service.Runner{
		Sessions: []*service.Session{
			newSession("broken", &fakeRetriever{panics: true}, broken),
			newSession("working", &fakeRetriever{entries: feed("A")}, working),
		},
		AfterCycle: func(reports []service.Report) { seen = reports },
	}
	reports := runner.Cycle(context.Background())
	require.Len(t, reports, 2)
	assert.Equal(t, service.Unhealthy, reports[0].State)
	assert.Equal(t, 1, reports[1].Delivered)
	assert.Equal(t, []string{"A"}, working.sent)
	assert.Equal(t, reports, seen)
}

func TestRunStopsOnCancel(t *testing.T) {
	notifier := &fakeNotifier{failOn: map[string]bool{}}
	cycles := 0
	ctx, cancel := context.WithCancel(context.Background())
	runner := &service.Runner{
		Sessions: []*service.Session{newSession("feed", &fakeRetriever{entries: feed("A")}, notifier)},
		Delay:    time.Millisecond,
		AfterCycle: func([]service.Report) {
			cycles++
			if cycles == 3 {
				cancel()
			}
		},
	}
	err := runner.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, cycles)
	assert.Equal(t, []string{"A"}, notifier.sent)
}
