package service_test

import (
	"testing"

	"feed-notifier/entity"
	"feed-notifier/entrylog"
	"feed-notifier/service"

	"github.com/stretchr/testify/assert"
)

func byID(entry entity.FeedEntry) string {
	id, _ := entry.Get("id")
	return id
}

func feed(ids ...string) []entity.FeedEntry {
	entries := make([]entity.FeedEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, entity.NewEntry("id", id))
	}
	return entries
}

func logOf(depth int, newestFirst ...string) *entrylog.Log {
	log := entrylog.New(depth)
	for i := len(newestFirst) - 1; i >= 0; i-- {
		log.PushFront(newestFirst[i])
	}
	return log
}

func messages(pending []service.Pending) []string {
	result := []string{}
	for _, p := range pending {
		result = append(result, p.Message)
	}
	return result
}

func TestNewEntries(t *testing.T) {
	tests := []struct {
		name     string
		feed     []string
		log      []string
		expected []string
	}{
		{name: "boundary in the middle", feed: []string{"E", "D", "A"}, log: []string{"A", "B", "C"}, expected: []string{"D", "E"}},
		{name: "nothing new", feed: []string{"A", "B"}, log: []string{"A", "B", "C"}, expected: []string{}},
		{name: "no match means all new", feed: []string{"Z", "Y", "X"}, log: []string{"A"}, expected: []string{"X", "Y", "Z"}},
		{name: "fresh log", feed: []string{"B", "A"}, log: nil, expected: []string{"A", "B"}},
		{name: "empty feed", feed: nil, log: []string{"A"}, expected: []string{}},
		{name: "older entries after the boundary are ignored", feed: []string{"N", "B", "Q"}, log: []string{"B"}, expected: []string{"N"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pending := service.NewEntries(feed(tt.feed...), logOf(5, tt.log...), byID)
			assert.Equal(t, tt.expected, messages(pending))
		})
	}
}

func TestNewEntriesIdempotent(t *testing.T) {
	content := feed("E", "D", "A")
	log := logOf(3, "A", "B", "C")
	for _, p := range service.NewEntries(content, log, byID) {
		log.PushFront(p.Message)
	}
	assert.Equal(t, []string{"E", "D", "A"}, log.Messages())
	assert.Empty(t, service.NewEntries(content, log, byID))
}

func TestNewEntriesUsesFormattedIdentity(t *testing.T) {
	content := []entity.FeedEntry{entity.NewEntry("group", "LockBit", "victim", "Acme")}
	log := logOf(3, "Group: LockBit\nVictim: Acme")
	assert.Empty(t, service.NewEntries(content, log, service.FormatMessage))
}
