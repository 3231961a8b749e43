package service

import (
	"strings"

	"github.com/thoas/go-funk"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"feed-notifier/entity"
)

// Formatter renders an entry into the message that is delivered and remembered
type Formatter func(entity.FeedEntry) string

// knownFields are rendered first, in this order
var knownFields = []string{"group", "victim", "date", "link"}

// Title title-cases a key or name, underscores become spaces
func Title(text string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// FormatMessage renders every field as a "Key: Value" line
func FormatMessage(entry entity.FeedEntry) string {
	lines := make([]string, 0, len(entry))
	for _, key := range knownFields {
		if value, ok := entry.Get(key); ok {
			lines = append(lines, Title(key)+": "+value)
		}
	}
	for _, field := range entry {
		if funk.ContainsString(knownFields, field.Key) {
			continue
		}
		lines = append(lines, Title(field.Key)+": "+field.Value)
	}
	return strings.Join(lines, "\n")
}

// OfflineMessage is sent when a feed stops answering
func OfflineMessage(feed string) string {
	return Title(feed) + " is offline"
}

// OnlineMessage is sent when a feed answers again after a failure
func OnlineMessage(feed string) string {
	return Title(feed) + " is back online"
}
