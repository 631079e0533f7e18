package fleet

import (
	"context"
	"sync"
	"time"

	"waterwatch.io/commissioning-service/pkg/db"
	"waterwatch.io/commissioning-service/pkg/models"
)

//go:generate mockgen -source=fleet.go -destination=mocks/mock_fleet.go -package=mocks

type ILifecycle interface {
	RegisterDevice(ctx context.Context, input *models.Device) (*models.Device, error)
	GetDevice(ctx context.Context, deviceID string) (*models.Device, error)
	ListTransitions(ctx context.Context, deviceID string) ([]models.DeviceTransition, error)

	Transition(ctx context.Context, deviceID string, target models.LifecycleState, meta models.TransitionMetadata) (*TransitionOutcome, error)
	BulkTransition(ctx context.Context, deviceIDs []string, target models.LifecycleState, meta models.TransitionMetadata) []BulkTransitionResult

	AllocateToOrder(ctx context.Context, deviceID, orderID string) (*TransitionOutcome, error)
	MarkShipped(ctx context.Context, deviceID, trackingNumber, carrier string) (*TransitionOutcome, error)
	MarkDelivered(ctx context.Context, deviceID string) (*TransitionOutcome, error)
	MarkInstalled(ctx context.Context, deviceID, installerID string) (*TransitionOutcome, error)
	Activate(ctx context.Context, deviceID, customerID string) (*TransitionOutcome, error)
	SetMaintenance(ctx context.Context, deviceID, reason string) (*TransitionOutcome, error)
	Decommission(ctx context.Context, deviceID, reason string) (*TransitionOutcome, error)
	ReturnToInventory(ctx context.Context, deviceID, reason string) (*TransitionOutcome, error)
}

type ICommission interface {
	InitializeCommission(ctx context.Context, deviceID, orderID, installerID string) (*models.Commission, error)
	GetCommission(ctx context.Context, commissionID string) (*models.Commission, error)
	StartCommission(ctx context.Context, commissionID, installerID string) (*models.Commission, error)
	UpdateCheck(ctx context.Context, commissionID string, checklist models.ChecklistName, itemID string, completed bool, notes, actorID string) (*models.Commission, error)
	RunTests(ctx context.Context, commissionID string, testIDs []string) (*models.Commission, error)
	UpdateTestResult(ctx context.Context, commissionID, testID string, update models.TestResultUpdate) (bool, error)
	UploadPhoto(ctx context.Context, commissionID string, input models.PhotoInput) (*models.Photo, error)
	SubmitSignature(ctx context.Context, commissionID string, input models.SignatureInput) (*models.Commission, error)
	Readiness(ctx context.Context, commissionID string) (*Readiness, error)
	CompleteCommission(ctx context.Context, commissionID string) (*models.CommissionResult, error)
	ActivateDevice(ctx context.Context, deviceID, customerID string) (*models.Device, error)
	CancelCommission(ctx context.Context, commissionID, reason string) (*models.Commission, error)
}

// ITestBridge hands hardware tests to the device side. Results come back
// later through ICommission.UpdateTestResult.
type ITestBridge interface {
	Dispatch(ctx context.Context, commissionID, deviceID string, testIDs []string) error
}

// ISyncNotifier pushes device state to the CRM. It is only ever called from
// the SyncDispatcher worker.
type ISyncNotifier interface {
	SyncDevice(ctx context.Context, device *models.Device, dealID string) error
}

type TransitionOutcome struct {
	DeviceID string                `json:"device_id"`
	Previous models.LifecycleState `json:"previous"`
	Current  models.LifecycleState `json:"current"`
	At       time.Time             `json:"at"`
}

type BulkTransitionResult struct {
	DeviceID string             `json:"device_id"`
	Outcome  *TransitionOutcome `json:"outcome,omitempty"`
	Err      error              `json:"-"`
	Error    string             `json:"error,omitempty"`
}

type Fleet struct {
	Db         db.DB
	Templates  *Templates
	Lifecycle  ILifecycle
	Commission ICommission
	Bridge     ITestBridge
	Sync       *SyncDispatcher

	// Now overrides the clock in tests.
	Now func() time.Time

	deviceLocks     RecordLocks
	commissionLocks RecordLocks
}

type ServiceOpts struct {
	Lifecycle  ILifecycle
	Commission ICommission
	Bridge     ITestBridge
	Sync       *SyncDispatcher
	Templates  *Templates
}

func (f *Fleet) WithServices(opts ServiceOpts) *Fleet {
	if opts.Lifecycle != nil {
		f.Lifecycle = opts.Lifecycle
	}
	if opts.Commission != nil {
		f.Commission = opts.Commission
	}
	if opts.Bridge != nil {
		f.Bridge = opts.Bridge
	}
	if opts.Sync != nil {
		f.Sync = opts.Sync
	}
	if opts.Templates != nil {
		f.Templates = opts.Templates
	}
	return f
}

func (f *Fleet) now() time.Time {
	if f.Now != nil {
		return f.Now().UTC()
	}
	return time.Now().UTC()
}

var embeddedTemplates = sync.OnceValue(DefaultTemplates)

func (f *Fleet) templates() *Templates {
	if f.Templates != nil {
		return f.Templates
	}
	return embeddedTemplates()
}
