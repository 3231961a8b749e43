//revive:disable:var-naming
package misc

import (
	"flag"

	"github.com/prometheus/client_golang/prometheus"
)

func underTest() bool {
	return flag.Lookup("test.v") != nil
}

// Fatal expose fatal error
func Fatal(name, desc string, err error) {
	TaskErrors.With(prometheus.Labels{"error": name}).Inc()
	PushMetrics()
	L.Logf("FATAL %s, %v", desc, err)
}

// Error expose error
func Error(name, desc string, err error) {
	TaskErrors.With(prometheus.Labels{"error": name}).Inc()
	if !underTest() {
		L.Logf("ERROR %s, %v", desc, err)
	}
}

// Warn expose warning
func Warn(desc string, err error) {
	if !underTest() {
		L.Logf("WARN %s, %v", desc, err)
	}
}

// Info expose info
func Info(desc string) {
	if !underTest() {
		L.Logf("INFO %s", desc)
	}
}

// Debug expose debug
func Debug(desc string) {
	if !underTest() {
		L.Logf("DEBUG %s", desc)
	}
}
