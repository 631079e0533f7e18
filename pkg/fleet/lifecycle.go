package fleet

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"waterwatch.io/commissioning-service/pkg/common"
	"waterwatch.io/commissioning-service/pkg/models"
)

func lifecycleLogger() *zap.Logger {
	return common.GetCategoryLogger(common.LoggerNameFleetCore, common.LoggerCategoryLifecycle)
}

// deviceMutation checks domain preconditions on the loaded device and
// adjusts its associations before the edge is applied. Returning an error
// aborts the transition with nothing written.
type deviceMutation func(tx *gorm.DB, dev *models.Device) error

func loadDevice(tx *gorm.DB, deviceID string) (*models.Device, error) {
	var dev models.Device
	err := tx.First(&dev, "id = ?", deviceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("device", deviceID)
	}
	if err != nil {
		return nil, err
	}
	return &dev, nil
}

// applyTransition is the only writer of Device.Lifecycle. Callers hold the
// device lock and pass the transaction the write belongs to.
func (f *Fleet) applyTransition(
	tx *gorm.DB,
	deviceID string,
	target models.LifecycleState,
	meta models.TransitionMetadata,
	mutate deviceMutation,
) (*TransitionOutcome, *models.Device, error) {
	dev, err := loadDevice(tx, deviceID)
	if err != nil {
		return nil, nil, err
	}

	from := dev.Lifecycle

	if mutate != nil {
		if err := mutate(tx, dev); err != nil {
			return nil, nil, err
		}
	}

	if !CanTransition(from, target) {
		return nil, nil, &InvalidTransitionError{DeviceID: deviceID, From: from, To: target}
	}

	now := f.now()
	dev.Lifecycle = target
	stampLifecycle(dev, target, meta, now)

	res := tx.Model(dev).
		Where("lifecycle = ?", from).
		Select("*").Omit("created_at").
		Updates(dev)
	if res.Error != nil {
		return nil, nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil, ErrConflict
	}

	audit := models.DeviceTransition{
		DeviceID:  deviceID,
		From:      from,
		To:        target,
		Metadata:  datatypes.NewJSONType(meta),
		CreatedAt: now,
	}
	if err := tx.Create(&audit).Error; err != nil {
		return nil, nil, err
	}

	return &TransitionOutcome{DeviceID: deviceID, Previous: from, Current: target, At: now}, dev, nil
}

func stampLifecycle(dev *models.Device, target models.LifecycleState, meta models.TransitionMetadata, now time.Time) {
	at := now
	switch target {
	case models.LifecycleAllocated:
		dev.AllocatedAt = &at
	case models.LifecycleShipped:
		dev.ShippedAt = &at
		if meta.TrackingNumber != "" {
			dev.TrackingNumber = meta.TrackingNumber
		}
		if meta.Carrier != "" {
			dev.Carrier = meta.Carrier
		}
	case models.LifecycleDelivered:
		dev.DeliveredAt = &at
	case models.LifecycleInstalled:
		dev.InstalledAt = &at
		if meta.InstallerID != "" {
			installer := meta.InstallerID
			dev.InstallerID = &installer
		}
	case models.LifecycleCommissioned:
		dev.CommissionedAt = &at
	case models.LifecycleActive:
		dev.ActivatedAt = &at
	case models.LifecycleMaintenance:
		dev.MaintenanceAt = &at
	case models.LifecycleDecommissioned:
		dev.DecommissionedAt = &at
	case models.LifecycleInventory:
		dev.ReturnedAt = &at
	}
}

func (f *Fleet) observeTransition(outcome *TransitionOutcome, meta models.TransitionMetadata) {
	if outcome == nil {
		return
	}
	transitionsApplied.WithLabelValues(string(outcome.Previous), string(outcome.Current)).Inc()
	lifecycleLogger().Info("Device transitioned",
		zap.String("device_id", outcome.DeviceID),
		zap.String("from", string(outcome.Previous)),
		zap.String("to", string(outcome.Current)),
		zap.Reflect("metadata", meta),
	)
}

func observeRejection(deviceID string, target models.LifecycleState, err error) {
	reason := rejectReasonStorage
	switch {
	case errors.Is(err, ErrNotFound):
		reason = rejectReasonNotFound
	case errors.Is(err, ErrInvalidTransition):
		reason = rejectReasonInvalid
	case errors.Is(err, ErrBusinessRule):
		reason = rejectReasonBusiness
	case errors.Is(err, ErrConflict):
		reason = rejectReasonConflict
	}
	lifecycleRejections.WithLabelValues(reason).Inc()
	lifecycleLogger().Info("Device transition rejected",
		zap.String("device_id", deviceID),
		zap.String("to", string(target)),
		zap.String("reason", reason),
		zap.Error(err),
	)
}

// transitionDevice runs one transition in its own transaction under the
// device lock.
func (f *Fleet) transitionDevice(
	ctx context.Context,
	deviceID string,
	target models.LifecycleState,
	meta models.TransitionMetadata,
	mutate deviceMutation,
) (*TransitionOutcome, error) {
	unlock := f.deviceLocks.Lock(deviceID)
	defer unlock()

	var outcome *TransitionOutcome
	err := f.Db.Conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		outcome, _, err = f.applyTransition(tx, deviceID, target, meta, mutate)
		return err
	})
	if err != nil {
		observeRejection(deviceID, target, err)
		return nil, err
	}

	f.observeTransition(outcome, meta)
	return outcome, nil
}

func (f *Fleet) registerDevice(ctx context.Context, input *models.Device) (*models.Device, error) {
	serial := strings.TrimSpace(input.SerialNumber)
	if serial == "" {
		return nil, businessRule(RuleSerialRequired, "device %q", input.ID)
	}

	dev := models.Device{
		ID:               input.ID,
		SerialNumber:     serial,
		SKU:              input.SKU,
		DeviceType:       input.DeviceType,
		Lifecycle:        models.LifecycleInventory,
		CommissionStatus: models.DeviceCommissionPending,
	}
	if dev.ID == "" {
		dev.ID = uuid.NewString()
	}

	err := f.Db.Conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Device{}).Where("serial_number = ?", serial).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return businessRule(RuleDuplicateSerial, "serial %q is already registered", serial)
		}
		return tx.Create(&dev).Error
	})
	if err != nil {
		return nil, err
	}

	lifecycleLogger().Info("Device registered", zap.Reflect("device", dev))
	return &dev, nil
}

func (f *Fleet) getDevice(ctx context.Context, deviceID string) (*models.Device, error) {
	return loadDevice(f.Db.Conn.WithContext(ctx), deviceID)
}

func (f *Fleet) listTransitions(ctx context.Context, deviceID string) ([]models.DeviceTransition, error) {
	if _, err := f.getDevice(ctx, deviceID); err != nil {
		return nil, err
	}
	var transitions []models.DeviceTransition
	err := f.Db.Conn.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("id asc").
		Find(&transitions).Error
	return transitions, err
}

func (f *Fleet) transition(ctx context.Context, deviceID string, target models.LifecycleState, meta models.TransitionMetadata) (*TransitionOutcome, error) {
	return f.transitionDevice(ctx, deviceID, target, meta, requirePassedCommission(target))
}

// requirePassedCommission keeps generic moves from reaching commissioned or
// active for a device whose commission has not passed. Only legal edges are
// checked so that non-edges still report ErrInvalidTransition.
func requirePassedCommission(target models.LifecycleState) deviceMutation {
	if target != models.LifecycleCommissioned && target != models.LifecycleActive {
		return nil
	}
	return func(_ *gorm.DB, dev *models.Device) error {
		if !CanTransition(dev.Lifecycle, target) || dev.CommissionStatus == models.DeviceCommissionPassed {
			return nil
		}
		return businessRule(RuleCommissionNotPassed, "device %q commission status is %s", dev.ID, dev.CommissionStatus)
	}
}

// bulkTransition applies the same move to each device independently. One
// failing device never affects the others.
func (f *Fleet) bulkTransition(ctx context.Context, deviceIDs []string, target models.LifecycleState, meta models.TransitionMetadata) []BulkTransitionResult {
	results := make([]BulkTransitionResult, len(deviceIDs))
	for i, deviceID := range deviceIDs {
		outcome, err := f.transitionDevice(ctx, deviceID, target, meta, requirePassedCommission(target))
		results[i] = BulkTransitionResult{DeviceID: deviceID, Outcome: outcome, Err: err}
		if err != nil {
			results[i].Error = err.Error()
		}
	}
	return results
}

func (f *Fleet) allocateToOrder(ctx context.Context, deviceID, orderID string) (*TransitionOutcome, error) {
	meta := models.TransitionMetadata{OrderID: orderID}
	return f.transitionDevice(ctx, deviceID, models.LifecycleAllocated, meta, func(tx *gorm.DB, dev *models.Device) error {
		if dev.Lifecycle != models.LifecycleInventory {
			return businessRule(RuleDeviceNotInInventory, "device %q is %s", dev.ID, dev.Lifecycle)
		}

		var order models.Order
		err := tx.First(&order, "id = ?", orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("order", orderID)
		}
		if err != nil {
			return err
		}

		dev.OrderID = &order.ID
		if order.CustomerID != "" {
			customerID := order.CustomerID
			dev.CustomerID = &customerID
		}
		dev.SiteID = order.SiteID
		return nil
	})
}

func (f *Fleet) markShipped(ctx context.Context, deviceID, trackingNumber, carrier string) (*TransitionOutcome, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		err := businessRule(RuleTrackingRequired, "device %q", deviceID)
		observeRejection(deviceID, models.LifecycleShipped, err)
		return nil, err
	}
	meta := models.TransitionMetadata{TrackingNumber: trackingNumber, Carrier: strings.TrimSpace(carrier)}
	return f.transitionDevice(ctx, deviceID, models.LifecycleShipped, meta, nil)
}

func (f *Fleet) markDelivered(ctx context.Context, deviceID string) (*TransitionOutcome, error) {
	return f.transitionDevice(ctx, deviceID, models.LifecycleDelivered, models.TransitionMetadata{}, nil)
}

func (f *Fleet) markInstalled(ctx context.Context, deviceID, installerID string) (*TransitionOutcome, error) {
	installerID = strings.TrimSpace(installerID)
	if installerID == "" {
		err := businessRule(RuleInstallerRequired, "device %q", deviceID)
		observeRejection(deviceID, models.LifecycleInstalled, err)
		return nil, err
	}
	meta := models.TransitionMetadata{InstallerID: installerID, Actor: installerID}
	return f.transitionDevice(ctx, deviceID, models.LifecycleInstalled, meta, nil)
}

func (f *Fleet) activate(ctx context.Context, deviceID, customerID string) (*TransitionOutcome, error) {
	meta := models.TransitionMetadata{CustomerID: customerID}
	return f.transitionDevice(ctx, deviceID, models.LifecycleActive, meta, func(tx *gorm.DB, dev *models.Device) error {
		if dev.CommissionStatus != models.DeviceCommissionPassed {
			return businessRule(RuleCommissionNotPassed, "device %q commission status is %s", dev.ID, dev.CommissionStatus)
		}

		var customer models.Customer
		err := tx.First(&customer, "id = ?", customerID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("customer", customerID)
		}
		if err != nil {
			return err
		}

		dev.CustomerID = &customer.ID
		return nil
	})
}

func (f *Fleet) setMaintenance(ctx context.Context, deviceID, reason string) (*TransitionOutcome, error) {
	return f.transitionWithReason(ctx, deviceID, models.LifecycleMaintenance, reason)
}

func (f *Fleet) decommission(ctx context.Context, deviceID, reason string) (*TransitionOutcome, error) {
	return f.transitionWithReason(ctx, deviceID, models.LifecycleDecommissioned, reason)
}

func (f *Fleet) transitionWithReason(ctx context.Context, deviceID string, target models.LifecycleState, reason string) (*TransitionOutcome, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		err := businessRule(RuleReasonRequired, "moving device %q to %s", deviceID, target)
		observeRejection(deviceID, target, err)
		return nil, err
	}
	return f.transitionDevice(ctx, deviceID, target, models.TransitionMetadata{Reason: reason}, nil)
}

// returnToInventory unbinds the device from its order, site, customer and
// commissioning history so it can be allocated again.
func (f *Fleet) returnToInventory(ctx context.Context, deviceID, reason string) (*TransitionOutcome, error) {
	meta := models.TransitionMetadata{Reason: strings.TrimSpace(reason)}
	return f.transitionDevice(ctx, deviceID, models.LifecycleInventory, meta, func(_ *gorm.DB, dev *models.Device) error {
		dev.OrderID = nil
		dev.SiteID = nil
		dev.CustomerID = nil
		dev.InstallerID = nil
		dev.CommissionID = nil
		dev.CommissionStatus = models.DeviceCommissionPending
		dev.TrackingNumber = ""
		dev.Carrier = ""
		return nil
	})
}

type ILifecycleImpl struct {
	fleet *Fleet
}

func (il *ILifecycleImpl) RegisterDevice(ctx context.Context, input *models.Device) (*models.Device, error) {
	return il.fleet.registerDevice(ctx, input)
}

func (il *ILifecycleImpl) GetDevice(ctx context.Context, deviceID string) (*models.Device, error) {
	return il.fleet.getDevice(ctx, deviceID)
}

func (il *ILifecycleImpl) ListTransitions(ctx context.Context, deviceID string) ([]models.DeviceTransition, error) {
	return il.fleet.listTransitions(ctx, deviceID)
}

func (il *ILifecycleImpl) Transition(ctx context.Context, deviceID string, target models.LifecycleState, meta models.TransitionMetadata) (*TransitionOutcome, error) {
	return il.fleet.transition(ctx, deviceID, target, meta)
}

func (il *ILifecycleImpl) BulkTransition(ctx context.Context, deviceIDs []string, target models.LifecycleState, meta models.TransitionMetadata) []BulkTransitionResult {
	return il.fleet.bulkTransition(ctx, deviceIDs, target, meta)
}

func (il *ILifecycleImpl) AllocateToOrder(ctx context.Context, deviceID, orderID string) (*TransitionOutcome, error) {
	return il.fleet.allocateToOrder(ctx, deviceID, orderID)
}

func (il *ILifecycleImpl) MarkShipped(ctx context.Context, deviceID, trackingNumber, carrier string) (*TransitionOutcome, error) {
	return il.fleet.markShipped(ctx, deviceID, trackingNumber, carrier)
}

func (il *ILifecycleImpl) MarkDelivered(ctx context.Context, deviceID string) (*TransitionOutcome, error) {
	return il.fleet.markDelivered(ctx, deviceID)
}

func (il *ILifecycleImpl) MarkInstalled(ctx context.Context, deviceID, installerID string) (*TransitionOutcome, error) {
	return il.fleet.markInstalled(ctx, deviceID, installerID)
}

func (il *ILifecycleImpl) Activate(ctx context.Context, deviceID, customerID string) (*TransitionOutcome, error) {
	return il.fleet.activate(ctx, deviceID, customerID)
}

func (il *ILifecycleImpl) SetMaintenance(ctx context.Context, deviceID, reason string) (*TransitionOutcome, error) {
	return il.fleet.setMaintenance(ctx, deviceID, reason)
}

func (il *ILifecycleImpl) Decommission(ctx context.Context, deviceID, reason string) (*TransitionOutcome, error) {
	return il.fleet.decommission(ctx, deviceID, reason)
}

func (il *ILifecycleImpl) ReturnToInventory(ctx context.Context, deviceID, reason string) (*TransitionOutcome, error) {
	return il.fleet.returnToInventory(ctx, deviceID, reason)
}

func (f *Fleet) GetILifecycle() ILifecycle {
	return &ILifecycleImpl{fleet: f}
}
