package service

import (
	"github.com/thoas/go-funk"

	"feed-notifier/entity"
	"feed-notifier/entrylog"
	"feed-notifier/misc"
)

// Pending is a new entry ready for delivery
type Pending struct {
	Entry   entity.FeedEntry
	Message string
	// Retry marks an entry older than the dedup boundary whose delivery failed before
	Retry bool
}

// NewEntries returns entries newer than the first one already in the log, oldest first.
// entries must be newest first. When nothing matches, every entry is new.
func NewEntries(entries []entity.FeedEntry, log *entrylog.Log, format Formatter) []Pending {
	if len(entries) == 0 {
		misc.Info("feed is empty, nothing to do")
		return nil
	}
	formatted := make([]Pending, 0, len(entries))
	for _, entry := range entries {
		formatted = append(formatted, Pending{Entry: entry, Message: format(entry)})
	}
	fresh := make([]Pending, 0, len(formatted))
	for _, p := range formatted {
		if log.Contains(p.Message) {
			break
		}
		fresh = append(fresh, p)
	}
	if len(fresh) == 0 {
		return nil
	}
	return funk.Reverse(fresh).([]Pending)
}
