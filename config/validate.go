package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/thoas/go-funk"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid feed config")

var itemAttributes = []string{"title", "description", "content", "link", "published", "updated", "guid", "author", "categories"}

// Validate fills defaults and checks that the settings are usable
func (f *Feed) Validate() error {
	if f.Kind == "" {
		f.Kind = KindRSS
	}
	if f.Payload == "" {
		f.Payload = PayloadBlocks
	}
	if err := ValidName(f.Name); err != nil {
		return err
	}
	switch f.Kind {
	case KindRSS, KindJSON:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalid, f.Kind)
	}
	if f.FeedURL == "" {
		return fmt.Errorf("%w: feed_url is required", ErrInvalid)
	}
	if _, err := url.ParseRequestURI(f.FeedURL); err != nil {
		return fmt.Errorf("%w: feed_url: %v", ErrInvalid, err)
	}
	if f.SlackHookURL == "" && f.TelegramToken == "" {
		return fmt.Errorf("%w: slack_hook_url or telegram_token is required", ErrInvalid)
	}
	if f.TelegramToken != "" && f.TelegramChatID == "" {
		return fmt.Errorf("%w: telegram_chat_id is required with telegram_token", ErrInvalid)
	}
	switch f.Payload {
	case PayloadBlocks, PayloadText:
	default:
		return fmt.Errorf("%w: unknown payload %q", ErrInvalid, f.Payload)
	}
	if f.LogDepth < 0 {
		return fmt.Errorf("%w: log_depth must not be negative", ErrInvalid)
	}
	if f.Kind == KindJSON {
		if len(f.Fields) == 0 {
			return fmt.Errorf("%w: json feeds need fields", ErrInvalid)
		}
	}
	for _, field := range f.Fields {
		if field.Key == "" || field.From == "" {
			return fmt.Errorf("%w: field needs key and from", ErrInvalid)
		}
		if f.Kind == KindRSS && !funk.ContainsString(itemAttributes, field.From) {
			return fmt.Errorf("%w: unknown item attribute %q", ErrInvalid, field.From)
		}
	}
	return nil
}

// ValidName checks that a feed name can be used as a file stem
func ValidName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: bad feed name %q", ErrInvalid, name)
	}
	return nil
}
