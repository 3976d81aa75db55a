// Package metrics exposes runtime counters via expvar.
package metrics

import "expvar"

var (
	DispatchesTotal  = expvar.NewInt("dispatches_total")
	DispatchFailures = expvar.NewInt("dispatch_failures")
	BuildsStarted    = expvar.NewInt("builds_started")
	BuildsDelegated  = expvar.NewInt("builds_delegated")
	ResponsesSent    = expvar.NewInt("responses_sent")
	ResponsesFailed  = expvar.NewInt("responses_failed")
	AlertsDispatched = expvar.NewInt("alerts_dispatched")
	AlertsFailed     = expvar.NewInt("alerts_failed")
)
