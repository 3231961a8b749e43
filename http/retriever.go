// Package http handle work with http
package http

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"feed-notifier/config"
	"feed-notifier/entity"
)

// DateLayout renders parsed item dates, always in UTC
const DateLayout = "2006-01-02 15:04:05+00:00"

// ErrLoginRedirect is returned when the source redirected to its login page
var ErrLoginRedirect = errors.New("cookie needs to be refreshed")

// UserAgent is sent with every feed request
var UserAgent = "feed-notifier/1.0"

// RSS retrieves RSS and Atom feeds with gofeed
type RSS struct {
	Client *nethttp.Client
}

type headerTransport struct {
	headers map[string]string
	cookie  string
	next    nethttp.RoundTripper
	lastURL string
}

func (t *headerTransport) RoundTrip(req *nethttp.Request) (*nethttp.Response, error) {
	req = req.Clone(req.Context())
	for key, value := range t.headers {
		if strings.EqualFold(key, "host") {
			req.Host = value
			continue
		}
		req.Header.Set(key, value)
	}
	if t.cookie != "" {
		req.Header.Set("Cookie", t.cookie)
	}
	t.lastURL = req.URL.String()
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	// 2xx other than 200 and 201 carries no feed body
	if resp.StatusCode >= 200 && resp.StatusCode < 300 && resp.StatusCode != nethttp.StatusOK && resp.StatusCode != nethttp.StatusCreated {
		resp.Body.Close() //nolint:errcheck
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL)
	}
	return resp, nil
}

// Retrieve returns feed items newest first, mapped to entries by the config fields
func (r *RSS) Retrieve(ctx context.Context, cfg *config.Feed) ([]entity.FeedEntry, error) {
	base := nethttp.DefaultTransport
	timeout := config.RequestTimeout
	if r.Client != nil {
		if r.Client.Transport != nil {
			base = r.Client.Transport
		}
		if r.Client.Timeout > 0 {
			timeout = r.Client.Timeout
		}
	}
	transport := &headerTransport{headers: cfg.Headers, cookie: cfg.Cookie, next: base}
	fp := gofeed.NewParser()
	fp.UserAgent = UserAgent
	fp.Client = &nethttp.Client{Transport: transport, Timeout: timeout}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	feed, err := fp.ParseURLWithContext(cfg.FeedURL, reqCtx)
	if cfg.LoginMarker != "" && strings.Contains(transport.lastURL, cfg.LoginMarker) {
		return nil, fmt.Errorf("%s: %w", cfg.Name, ErrLoginRedirect)
	}
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, fmt.Errorf("unexpected status %d from %s", httpErr.StatusCode, cfg.FeedURL)
		}
		return nil, fmt.Errorf("failed to get feed %s: %w", cfg.FeedURL, err)
	}
	entries := make([]entity.FeedEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		entries = append(entries, itemEntry(item, cfg.Mapping()))
	}
	return entries, nil
}

func itemEntry(item *gofeed.Item, fields []config.Field) entity.FeedEntry {
	entry := make(entity.FeedEntry, 0, len(fields))
	for _, field := range fields {
		entry = entry.Set(field.Key, itemAttribute(item, field.From))
	}
	return entry
}

func itemAttribute(item *gofeed.Item, name string) string {
	switch name {
	case "title":
		return TextContent(item.Title)
	case "description":
		return TextContent(item.Description)
	case "content":
		return TextContent(item.Content)
	case "link":
		return item.Link
	case "published":
		return formatDate(item.PublishedParsed, item.Published)
	case "updated":
		return formatDate(item.UpdatedParsed, item.Updated)
	case "guid":
		return item.GUID
	case "author":
		if item.Author != nil {
			return item.Author.Name
		}
	case "categories":
		return strings.Join(item.Categories, ", ")
	}
	return ""
}

func formatDate(parsed *time.Time, raw string) string {
	if parsed == nil {
		return raw
	}
	return parsed.UTC().Format(DateLayout)
}
