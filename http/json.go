package http

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"strconv"

	"github.com/lafin/http"

	"feed-notifier/config"
	"feed-notifier/entity"
)

// JSON retrieves a JSON array of objects, optionally nested under a key
type JSON struct{}

// Retrieve returns decoded items in source order, expected newest first
func (JSON) Retrieve(ctx context.Context, cfg *config.Feed) ([]entity.FeedEntry, error) {
	headers := requestHeaders(cfg)
	body, _, err := bounded(ctx, func() ([]byte, *nethttp.Response, error) {
		return http.Get(cfg.FeedURL, headers)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get feed %s: %w", cfg.FeedURL, err)
	}
	items, err := decodeItems(body, cfg.ItemsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode feed %s: %w", cfg.FeedURL, err)
	}
	entries := make([]entity.FeedEntry, 0, len(items))
	for _, item := range items {
		entry := make(entity.FeedEntry, 0, len(cfg.Fields))
		for _, field := range cfg.Fields {
			entry = entry.Set(field.Key, stringValue(item[field.From]))
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func decodeItems(body []byte, key string) ([]map[string]any, error) {
	if key == "" {
		var items []map[string]any
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	raw, ok := wrapped[key]
	if !ok {
		return nil, fmt.Errorf("no %q in response", key)
	}
	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return TextContent(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}
