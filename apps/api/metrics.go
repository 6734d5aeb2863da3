package main

import "github.com/prometheus/client_golang/prometheus"

var (
	applicationsReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dogmail_applications_received_total",
		Help: "Adoption applications received, by decode result",
	}, []string{"result"})
	deliveries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dogmail_deliveries_total",
		Help: "Application emails handed to the mail provider, by outcome",
	}, []string{"provider", "outcome"})
	deliveryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dogmail_delivery_duration_seconds",
		Help:    "Time spent waiting on the mail provider",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})
	originRejections = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dogmail_origin_rejections_total",
		Help: "Cross-origin requests rejected by the origin allow-list",
	})
)

func init() {
	prometheus.MustRegister(applicationsReceived)
	prometheus.MustRegister(deliveries)
	prometheus.MustRegister(deliveryDuration)
	prometheus.MustRegister(originRejections)
}
