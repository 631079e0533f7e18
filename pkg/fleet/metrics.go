package fleet

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	SyncTargetCRM    = "crm"
	SyncTargetBridge = "test_bridge"

	rejectReasonNotFound = "not_found"
	rejectReasonInvalid  = "invalid_transition"
	rejectReasonBusiness = "business_rule"
	rejectReasonConflict = "conflict"
	rejectReasonStorage  = "storage"
)

var (
	transitionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commissioning_lifecycle_transitions_total",
		Help: "Applied device lifecycle transitions.",
	}, []string{"from", "to"})

	lifecycleRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commissioning_lifecycle_rejections_total",
		Help: "Lifecycle transitions refused before any write.",
	}, []string{"reason"})

	commissionsFinalized = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commissioning_commissions_finalized_total",
		Help: "Commission records finalized, by outcome.",
	}, []string{"status"})

	externalSyncFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commissioning_external_sync_failures_total",
		Help: "Swallowed failures talking to external collaborators.",
	}, []string{"target"})

	syncJobsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "commissioning_sync_jobs_dropped_total",
		Help: "CRM sync jobs dropped because the queue was full or closed.",
	})
)
