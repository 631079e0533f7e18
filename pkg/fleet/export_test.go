package fleet

// Collectors exposed to the external test package.
var (
	TransitionsApplied   = transitionsApplied
	LifecycleRejections  = lifecycleRejections
	CommissionsFinalized = commissionsFinalized
	ExternalSyncFailures = externalSyncFailures
	SyncJobsDropped      = syncJobsDropped
)
