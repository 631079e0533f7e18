package fleet

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"waterwatch.io/commissioning-service/pkg/models"
)

func loadOrder(tx *gorm.DB, orderID string) (*models.Order, error) {
	var order models.Order
	err := tx.First(&order, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("order", orderID)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// updateDeviceColumns writes association columns of a device. It refuses
// the lifecycle column; lifecycle only moves through applyTransition.
func updateDeviceColumns(tx *gorm.DB, dev *models.Device, columns ...string) error {
	for _, column := range columns {
		if column == "lifecycle" {
			return errors.New("lifecycle is written by applyTransition only")
		}
	}
	return tx.Model(dev).Select(columns).Updates(dev).Error
}

// initializeCommission decides the whole shape of a commissioning attempt:
// which checklists and which tests. Later steps only edit items inside it.
func (f *Fleet) initializeCommission(ctx context.Context, deviceID, orderID, installerID string) (*models.Commission, error) {
	logger := commissionLogger()

	installerID = strings.TrimSpace(installerID)
	if installerID == "" {
		return nil, businessRule(RuleInstallerRequired, "device %q", deviceID)
	}

	unlock := f.deviceLocks.Lock(deviceID)
	defer unlock()

	var commission *models.Commission
	var outcome *TransitionOutcome
	meta := models.TransitionMetadata{
		Actor:       installerID,
		InstallerID: installerID,
		OrderID:     orderID,
	}

	err := f.Db.Conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dev, err := loadDevice(tx, deviceID)
		if err != nil {
			return err
		}
		order, err := loadOrder(tx, orderID)
		if err != nil {
			return err
		}

		if dev.Lifecycle != models.LifecycleDelivered && dev.Lifecycle != models.LifecycleInstalled {
			return businessRule(RuleDeviceNotDeliverable, "device %q is %s", dev.ID, dev.Lifecycle)
		}

		if dev.CommissionID != nil {
			active, err := loadCommission(tx, *dev.CommissionID)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}
			if active != nil && !active.Status.IsTerminal() {
				return businessRule(RuleActiveCommission, "commission %q is %s", active.ID, active.Status)
			}
		}

		tpl := f.templates()
		checklistType := tpl.ChecklistTypeFor(dev.DeviceType)
		preDeployment, commissioning := tpl.NewChecklists(checklistType)
		tests := tpl.NewTestResults(dev.DeviceType)
		if len(tests) == 0 {
			return businessRule(RuleNoApplicableTests, "device type %q", dev.DeviceType)
		}

		siteID := order.SiteID
		if siteID == nil {
			siteID = dev.SiteID
		}

		commission = &models.Commission{
			ID:                  uuid.NewString(),
			DeviceID:            dev.ID,
			OrderID:             order.ID,
			SiteID:              siteID,
			InstallerID:         installerID,
			ChecklistType:       checklistType,
			Status:              models.CommissionPending,
			PreDeploymentChecks: preDeployment,
			CommissioningChecks: commissioning,
			TestResults:         tests,
			Photos:              []models.Photo{},
			Version:             1,
		}
		if err := tx.Create(commission).Error; err != nil {
			return err
		}
		meta.CommissionID = commission.ID

		bind := func(_ *gorm.DB, d *models.Device) error {
			d.InstallerID = &installerID
			d.CommissionID = &commission.ID
			d.CommissionStatus = models.DeviceCommissionPending
			return nil
		}

		if dev.Lifecycle == models.LifecycleDelivered {
			outcome, _, err = f.applyTransition(tx, dev.ID, models.LifecycleInstalled, meta, bind)
			return err
		}

		// retry on an already installed unit: rebind only
		_ = bind(tx, dev)
		return updateDeviceColumns(tx, dev, "installer_id", "commission_id", "commission_status")
	})
	if err != nil {
		logger.Info("Commission not initialized",
			zap.String("device_id", deviceID),
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return nil, err
	}

	f.observeTransition(outcome, meta)
	logger.Info("Commission initialized",
		zap.String("commission_id", commission.ID),
		zap.String("device_id", commission.DeviceID),
		zap.String("checklist_type", string(commission.ChecklistType)),
		zap.Int("tests", len(commission.TestResults)),
	)

	return commission, nil
}
