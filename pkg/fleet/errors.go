package fleet

import (
	"errors"
	"fmt"
	"strings"

	"waterwatch.io/commissioning-service/pkg/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
	ErrBusinessRule      = errors.New("business rule violation")
	ErrWorkflowNotReady  = errors.New("commission workflow not ready")
	ErrExternalSync      = errors.New("external sync failure")
	ErrConflict          = errors.New("concurrent modification")
)

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, id)
}

// InvalidTransitionError is returned when the requested edge is missing from
// the lifecycle table.
type InvalidTransitionError struct {
	DeviceID string
	From     models.LifecycleState
	To       models.LifecycleState
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition device %q from %q to %q", e.DeviceID, e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	if target == ErrInvalidTransition {
		return true
	}
	_, ok := target.(*InvalidTransitionError)
	return ok
}

// BusinessRuleError is a domain precondition that the bare transition table
// does not express, such as activating a device whose commission has not
// passed.
type BusinessRuleError struct {
	Rule   string
	Detail string
}

func (e *BusinessRuleError) Error() string {
	if e.Detail == "" {
		return e.Rule
	}
	return fmt.Sprintf("%s: %s", e.Rule, e.Detail)
}

func (e *BusinessRuleError) Is(target error) bool {
	if target == ErrBusinessRule {
		return true
	}
	_, ok := target.(*BusinessRuleError)
	return ok
}

func businessRule(rule, detailFormat string, args ...any) error {
	return &BusinessRuleError{Rule: rule, Detail: fmt.Sprintf(detailFormat, args...)}
}

const (
	RuleDeviceNotInInventory = "device not in inventory"
	RuleTrackingRequired     = "tracking number required"
	RuleInstallerRequired    = "installer required"
	RuleReasonRequired       = "reason required"
	RuleCommissionNotPassed  = "commission not passed"
	RuleDeviceNotDeliverable = "device not ready for commissioning"
	RuleActiveCommission     = "device has an active commission"
	RuleNoApplicableTests    = "no applicable tests"
	RuleCommissionStarted    = "commission already started"
	RuleCommissionFinalized  = "commission already finalized"
	RuleDuplicateSerial      = "duplicate serial number"
	RuleSerialRequired       = "serial number required"
	RuleUnknownTest          = "unknown test"
	RuleInvalidTestStatus    = "test result must be passed or failed"
	RulePhotoURLRequired     = "photo url required"
	RuleSignatureIncomplete  = "signature needs a name and image data"
)

// WorkflowNotReadyError names every readiness gate that is not yet satisfied.
type WorkflowNotReadyError struct {
	CommissionID string
	Unmet        []Gate
}

func (e *WorkflowNotReadyError) Error() string {
	names := make([]string, len(e.Unmet))
	for i, g := range e.Unmet {
		names[i] = string(g)
	}
	return fmt.Sprintf("commission %q not ready, unmet gates: %s", e.CommissionID, strings.Join(names, ", "))
}

func (e *WorkflowNotReadyError) Is(target error) bool {
	if target == ErrWorkflowNotReady {
		return true
	}
	_, ok := target.(*WorkflowNotReadyError)
	return ok
}
