package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ApplicationsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "devhire_applications_submitted_total",
		Help: "Applications accepted by the ledger.",
	})

	ProjectStatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devhire_project_status_transitions_total",
		Help: "Project status changes by source and target status.",
	}, []string{"from", "to"})

	NotificationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devhire_notifications_failed_total",
		Help: "Notification deliveries that failed or were dropped.",
	}, []string{"reason"})
)
