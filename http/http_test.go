package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"feed-notifier/config"
	"feed-notifier/entity"
	feedhttp "feed-notifier/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const darkfeedRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>darkfeed</title>
<item>
<title>LockBit</title>
<description><![CDATA[<p>Acme &amp; Co</p>]]></description>
<link>https://darkfeed.io/posts/2</link>
<pubDate>Mon, 02 Jan 2006 15:04:05 +0200</pubDate>
</item>
<item>
<title>Cl0p</title>
<description>Initech</description>
<link>https://darkfeed.io/posts/1</link>
<pubDate>Sun, 01 Jan 2006 10:00:00 +0000</pubDate>
</item>
</channel>
</rss>`

func TestRSSRetrieve(t *testing.T) {
	ts := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "session=abc", r.Header.Get("Cookie"))
		assert.Equal(t, "darkfeed.io", r.Host)
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(darkfeedRSS))
	}))
	defer ts.Close()

	cfg := &config.Feed{Name: "darkfeed", Kind: config.KindRSS, FeedURL: ts.URL, Cookie: "session=abc", Headers: map[string]string{"Host": "darkfeed.io"}}
	entries, err := (&feedhttp.RSS{}).Retrieve(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.FeedEntry{
		{Key: "group", Value: "LockBit"},
		{Key: "victim", Value: "Acme & Co"},
		{Key: "date", Value: "2006-01-02 13:04:05+00:00"},
		{Key: "link", Value: "https://darkfeed.io/posts/2"},
	}, entries[0])
	victim, ok := entries[1].Get("victim")
	assert.True(t, ok)
	assert.Equal(t, "Initech", victim)
}

func TestRSSCustomFields(t *testing.T) {
	ts := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_, _ = w.Write([]byte(darkfeedRSS))
	}))
	defer ts.Close()

	cfg := &config.Feed{Name: "news", Kind: config.KindRSS, FeedURL: ts.URL, Fields: []config.Field{{Key: "headline", From: "title"}, {Key: "url", From: "link"}}}
	entries, err := (&feedhttp.RSS{}).Retrieve(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, entity.NewEntry("headline", "Cl0p", "url", "https://darkfeed.io/posts/1"), entries[1])
}

func TestRSSFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: nethttp.StatusInternalServerError, body: "oops"},
		{name: "accepted is not a feed", status: nethttp.StatusAccepted, body: darkfeedRSS},
		{name: "not a feed", status: nethttp.StatusOK, body: "<html><body>hello</body></html>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()
			_, err := (&feedhttp.RSS{}).Retrieve(context.Background(), &config.Feed{Name: "f", FeedURL: ts.URL})
			assert.Error(t, err)
		})
	}
}

func TestRSSLoginRedirect(t *testing.T) {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/feed", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		nethttp.Redirect(w, r, "/login1", nethttp.StatusFound)
	})
	mux.HandleFunc("/login1", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_, _ = w.Write([]byte("<html><body>sign in</body></html>"))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	cfg := &config.Feed{Name: "darkfeed", FeedURL: ts.URL + "/feed", LoginMarker: "login1"}
	_, err := (&feedhttp.RSS{}).Retrieve(context.Background(), cfg)
	assert.True(t, errors.Is(err, feedhttp.ErrLoginRedirect))
}

func TestJSONRetrieve(t *testing.T) {
	ts := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"posts": [
			{"group_name": "LockBit", "post_title": "Acme", "discovered": "2024-05-01"},
			{"group_name": "Cl0p", "post_title": "Initech", "size": 12}
		]}`))
	}))
	defer ts.Close()

	cfg := &config.Feed{Name: "ransom", Kind: config.KindJSON, FeedURL: ts.URL, ItemsKey: "posts", Fields: []config.Field{
		{Key: "group", From: "group_name"},
		{Key: "victim", From: "post_title"},
		{Key: "size", From: "size"},
	}}
	entries, err := feedhttp.JSON{}.Retrieve(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.NewEntry("group", "LockBit", "victim", "Acme", "size", ""), entries[0])
	assert.Equal(t, entity.NewEntry("group", "Cl0p", "victim", "Initech", "size", "12"), entries[1])
}

func TestJSONRetrieveSendsCookieAndHeaders(t *testing.T) {
	ts := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Header.Get("Cookie") != "sid=1" || r.Header.Get("X-Api-Key") != "k" {
			w.WriteHeader(nethttp.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[{"attacker_name": "LockBit", "victim_name": "Acme"}]`))
	}))
	defer ts.Close()

	cfg := &config.Feed{Name: "darkfeed", Kind: config.KindJSON, FeedURL: ts.URL, Cookie: "sid=1", Headers: map[string]string{"X-Api-Key": "k"}, Fields: []config.Field{
		{Key: "group", From: "attacker_name"},
		{Key: "victim", From: "victim_name"},
	}}
	entries, err := feedhttp.JSON{}.Retrieve(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []entity.FeedEntry{entity.NewEntry("group", "LockBit", "victim", "Acme")}, entries)
}

func TestWebhookDeliver(t *testing.T) {
	var got map[string][]map[string]any
	ts := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, nethttp.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte("ok"))
	}))
	defer ts.Close()

	hook := feedhttp.NewWebhook(&config.Feed{SlackHookURL: ts.URL, Payload: config.PayloadBlocks})
	require.NoError(t, hook.Deliver(context.Background(), "Group: LockBit"))
	require.Len(t, got["blocks"], 2)
	assert.Equal(t, "section", got["blocks"][0]["type"])
	assert.Equal(t, map[string]any{"type": "mrkdwn", "text": "Group: LockBit"}, got["blocks"][0]["text"])
	assert.Equal(t, "divider", got["blocks"][1]["type"])
}

func TestWebhookTextPayload(t *testing.T) {
	hook := &feedhttp.Webhook{Payload: config.PayloadText}
	body, err := hook.Body("hello")
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hello"}`, string(body))
}

func TestWebhookNon2xxIsError(t *testing.T) {
	ts := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusForbidden)
		_, _ = w.Write([]byte("invalid_token"))
	}))
	defer ts.Close()

	hook := feedhttp.NewWebhook(&config.Feed{SlackHookURL: ts.URL})
	assert.Error(t, hook.Deliver(context.Background(), "x"))
}

func TestWebhookDeliverReturnsOnCancel(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		<-release
	}))
	defer ts.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hook := feedhttp.NewWebhook(&config.Feed{SlackHookURL: ts.URL})
	err := hook.Deliver(ctx, "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestTextContent(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "plain", text: "  Acme  Corp ", expected: "Acme Corp"},
		{name: "entities", text: "Acme &amp; Co", expected: "Acme & Co"},
		{name: "tags", text: "<p>Acme <b>Corp</b></p><script>alert(1)</script>", expected: "Acme Corp"},
		{name: "line breaks", text: "first<br/>  second", expected: "first\nsecond"},
		{name: "nbsp", text: "a b", expected: "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, feedhttp.TextContent(tt.text))
		})
	}
}
