package misc

import (
	"github.com/go-pkgz/lgr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

var pusher *push.Pusher

// L is logger
var L = lgr.New(lgr.Msec, lgr.Debug, lgr.CallerFile, lgr.CallerFunc)

// TaskErrors is error metrics
var TaskErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "feed_notifier_errors",
	Help: "Errors by stage",
}, []string{"error"})

// Delivered counts messages accepted by a notification channel
var Delivered = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "feed_notifier_delivered",
	Help: "Messages delivered per feed",
}, []string{"feed"})

// FeedUp is 1 while the feed source is reachable
var FeedUp = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Name: "feed_notifier_up",
	Help: "Feed health, 1 is online",
}, []string{"feed"})

// Setup reconfigures the logger
func Setup(debug bool) {
	if debug {
		L = lgr.New(lgr.Msec, lgr.Debug, lgr.CallerFile, lgr.CallerFunc)
		return
	}
	L = lgr.New(lgr.Msec)
}

// InitMetrics initializes the metrics
func InitMetrics(url, job string) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(TaskErrors, Delivered, FeedUp)
	pusher = push.New(url, job).Gatherer(registry)
}

// PushMetrics push metrics, a no-op until InitMetrics is called
func PushMetrics() {
	if pusher == nil {
		return
	}
	if err := pusher.Push(); err != nil {
		L.Logf("ERROR could not push to Pushgateway, %v", err)
	}
	TaskErrors.Reset()
	Delivered.Reset()
}
