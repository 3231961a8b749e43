// Package entrylog keeps the bounded, newest-first record of messages already delivered for a feed
package entrylog

import (
	"errors"
	"fmt"

	"github.com/thoas/go-funk"
)

// ErrNotFound is returned by a Store when the feed has no persisted log
var ErrNotFound = errors.New("entry log not found")

// ErrCorrupt marks a persisted log that could not be decoded
var ErrCorrupt = errors.New("entry log corrupt")

// Store is durable storage for entry logs keyed by feed name
type Store interface {
	// Load returns persisted messages newest-first or ErrNotFound
	Load(feed string) ([]string, error)
	// Save replaces the persisted messages of the feed atomically
	Save(feed string, messages []string) error
}

// Log is a bounded sequence of formatted messages, newest first
type Log struct {
	depth    int
	messages []string
}

// New makes an empty log holding at most depth messages
func New(depth int) *Log {
	if depth < 1 {
		depth = 1
	}
	return &Log{depth: depth, messages: make([]string, 0, depth)}
}

// Load reads the log of the feed from the store.
// It always returns a usable log, a non-nil error means the persisted copy was unreadable and the log starts empty.
func Load(store Store, feed string, depth int) (*Log, error) {
	log := New(depth)
	messages, err := store.Load(feed)
	if errors.Is(err, ErrNotFound) {
		return log, nil
	}
	if err != nil {
		return log, fmt.Errorf("load entry log of %s: %w", feed, err)
	}
	for _, msg := range nonEmpty(messages) {
		if len(log.messages) == log.depth {
			break
		}
		log.messages = append(log.messages, msg)
	}
	return log, nil
}

// Save writes retained messages, newest first
func (l *Log) Save(store Store, feed string) error {
	if err := store.Save(feed, l.Messages()); err != nil {
		return fmt.Errorf("save entry log of %s: %w", feed, err)
	}
	return nil
}

// Contains reports whether the message is retained
func (l *Log) Contains(msg string) bool {
	return funk.ContainsString(l.messages, msg)
}

// PushFront inserts the message as newest, evicting the oldest at capacity
func (l *Log) PushFront(msg string) {
	if len(l.messages) == l.depth {
		l.messages = l.messages[:l.depth-1]
	}
	l.messages = append([]string{msg}, l.messages...)
}

// InsertAfterNewest inserts the message just behind the newest one, evicting the oldest at capacity.
// The newest message stays in place, so entries delivered late never push out the dedup boundary.
func (l *Log) InsertAfterNewest(msg string) {
	if len(l.messages) == 0 {
		l.messages = append(l.messages, msg)
		return
	}
	messages := make([]string, 0, len(l.messages)+1)
	messages = append(messages, l.messages[0], msg)
	messages = append(messages, l.messages[1:]...)
	if len(messages) > l.depth {
		messages = messages[:l.depth]
	}
	l.messages = messages
}

// Resize changes the depth, dropping the oldest messages when it shrinks
func (l *Log) Resize(depth int) {
	if depth < 1 {
		depth = 1
	}
	l.depth = depth
	if len(l.messages) > depth {
		l.messages = l.messages[:depth]
	}
}

// Depth is the capacity of the log
func (l *Log) Depth() int {
	return l.depth
}

// Len is the number of retained messages
func (l *Log) Len() int {
	return len(l.messages)
}

// Messages returns a copy of retained messages, newest first
func (l *Log) Messages() []string {
	result := make([]string, len(l.messages))
	copy(result, l.messages)
	return result
}

func nonEmpty(messages []string) []string {
	result := funk.FilterString(messages, func(msg string) bool {
		return msg != ""
	})
	if result == nil {
		return []string{}
	}
	return result
}
