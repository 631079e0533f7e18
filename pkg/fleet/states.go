package fleet

import (
	"fmt"

	"waterwatch.io/commissioning-service/pkg/models"
)

var lifecycleTransitions = map[models.LifecycleState]map[models.LifecycleState]struct{}{
	models.LifecycleInventory: {
		models.LifecycleAllocated: {},
	},
	models.LifecycleAllocated: {
		models.LifecycleShipped:   {},
		models.LifecycleInventory: {},
	},
	models.LifecycleShipped: {
		models.LifecycleDelivered: {},
	},
	models.LifecycleDelivered: {
		models.LifecycleInstalled: {},
	},
	models.LifecycleInstalled: {
		models.LifecycleCommissioned: {},
		// retry path when commissioning fails
		models.LifecycleDelivered: {},
	},
	models.LifecycleCommissioned: {
		models.LifecycleActive: {},
	},
	models.LifecycleActive: {
		models.LifecycleMaintenance:    {},
		models.LifecycleDecommissioned: {},
	},
	models.LifecycleMaintenance: {
		models.LifecycleActive:         {},
		models.LifecycleDecommissioned: {},
	},
	models.LifecycleDecommissioned: {
		// refurbishment
		models.LifecycleInventory: {},
	},
}

var allLifecycleStates = []models.LifecycleState{
	models.LifecycleInventory,
	models.LifecycleAllocated,
	models.LifecycleShipped,
	models.LifecycleDelivered,
	models.LifecycleInstalled,
	models.LifecycleCommissioned,
	models.LifecycleActive,
	models.LifecycleMaintenance,
	models.LifecycleDecommissioned,
}

func AllLifecycleStates() []models.LifecycleState {
	return append([]models.LifecycleState(nil), allLifecycleStates...)
}

func CanTransition(from, to models.LifecycleState) bool {
	targets, ok := lifecycleTransitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// LegalTargets lists the states reachable from one step, in table order.
func LegalTargets(from models.LifecycleState) []models.LifecycleState {
	targets := []models.LifecycleState{}
	for _, s := range allLifecycleStates {
		if CanTransition(from, s) {
			targets = append(targets, s)
		}
	}
	return targets
}

func ParseLifecycleState(raw string) (models.LifecycleState, error) {
	for _, s := range allLifecycleStates {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown lifecycle state %q", raw)
}
