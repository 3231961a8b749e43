// Package config holds process timings and the typed per-feed settings
package config

import (
	"time"
)

// TimeoutBetweenLoops is the minimum delay between the starts of two poll cycles
var TimeoutBetweenLoops = 60 * time.Second

// RequestTimeout bounds every single remote call of a cycle
var RequestTimeout = 30 * time.Second

// DefaultLogDepth is the number of delivered messages remembered per feed
const DefaultLogDepth = 20

// Source kinds
const (
	KindRSS  = "rss"
	KindJSON = "json"
)

// Payload formats of the webhook channel
const (
	PayloadBlocks = "blocks"
	PayloadText   = "text"
)

// Field maps an entry key to an attribute of the source item
type Field struct {
	Key  string `json:"key" toml:"key"`
	From string `json:"from" toml:"from"`
}

// DarkfeedFields is the mapping used by RSS feeds without explicit fields
var DarkfeedFields = []Field{
	{Key: "group", From: "title"},
	{Key: "victim", From: "description"},
	{Key: "date", From: "published"},
	{Key: "link", From: "link"},
}

// Feed is the settings of one feed, reloaded at the start of every cycle
type Feed struct {
	// Name is the file stem of the config, not read from the file
	Name string `json:"-" toml:"-"`

	Kind        string            `json:"kind" toml:"kind"`
	FeedURL     string            `json:"feed_url" toml:"feed_url"`
	Cookie      string            `json:"cookie" toml:"cookie"`
	Headers     map[string]string `json:"headers" toml:"headers"`
	LoginMarker string            `json:"login_marker" toml:"login_marker"`
	Fields      []Field           `json:"fields" toml:"fields"`
	ItemsKey    string            `json:"items_key" toml:"items_key"`

	SlackHookURL   string `json:"slack_hook_url" toml:"slack_hook_url"`
	Payload        string `json:"payload" toml:"payload"`
	TelegramToken  string `json:"telegram_token" toml:"telegram_token"`
	TelegramChatID string `json:"telegram_chat_id" toml:"telegram_chat_id"`

	LogDepth int `json:"log_depth" toml:"log_depth"`
}

// Depth returns the configured log depth or the default
func (f *Feed) Depth() int {
	if f.LogDepth == 0 {
		return DefaultLogDepth
	}
	return f.LogDepth
}

// Mapping returns the field mapping in render order
func (f *Feed) Mapping() []Field {
	if len(f.Fields) == 0 && f.Kind == KindRSS {
		return DarkfeedFields
	}
	return f.Fields
}
