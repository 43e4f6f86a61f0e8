package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	adsServedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "susanoo_ads_served_total",
			Help: "Total number of advertisements served, by outreach channel",
		},
		[]string{"channel"},
	)

	engagedUsersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "susanoo_engaged_users_total",
			Help: "Total number of users counted as engaged, by outreach channel",
		},
		[]string{"channel"},
	)

	dispatchSkipsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "susanoo_dispatch_skips_total",
			Help: "Total number of matched users skipped during dispatch, by outreach channel",
		},
		[]string{"channel"},
	)

	serveFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "susanoo_serve_failures_total",
			Help: "Total number of serve attempts that failed, by stage",
		},
		[]string{"stage"},
	)
)
