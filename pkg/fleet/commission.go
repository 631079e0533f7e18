package fleet

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"waterwatch.io/commissioning-service/pkg/common"
	"waterwatch.io/commissioning-service/pkg/models"
)

func commissionLogger() *zap.Logger {
	return common.GetCategoryLogger(common.LoggerNameFleetCore, common.LoggerCategoryCommission)
}

func loadCommission(tx *gorm.DB, commissionID string) (*models.Commission, error) {
	var c models.Commission
	err := tx.First(&c, "id = ?", commissionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("commission", commissionID)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// saveCommission writes the whole record if nobody else wrote it since it
// was loaded. When statuses are given, the stored status must also be one
// of them.
func saveCommission(tx *gorm.DB, c *models.Commission, statuses ...models.CommissionStatus) error {
	prev := c.Version
	c.Version++

	q := tx.Model(c).Where("version = ?", prev)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	res := q.Select("*").Omit("created_at").Updates(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func ensureOpen(c *models.Commission) error {
	if c.Status.IsTerminal() {
		return businessRule(RuleCommissionFinalized, "commission %q is %s", c.ID, c.Status)
	}
	return nil
}

// withCommission runs fn on a freshly loaded record inside one transaction,
// holding the commission lock and then the device lock. When fn reports a
// change the record is saved with a version check.
func (f *Fleet) withCommission(ctx context.Context, commissionID string, fn func(tx *gorm.DB, c *models.Commission) (bool, error)) (*models.Commission, error) {
	unlockCommission := f.commissionLocks.Lock(commissionID)
	defer unlockCommission()

	head, err := loadCommission(f.Db.Conn.WithContext(ctx), commissionID)
	if err != nil {
		return nil, err
	}

	unlockDevice := f.deviceLocks.Lock(head.DeviceID)
	defer unlockDevice()

	var c *models.Commission
	err = f.Db.Conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if c, err = loadCommission(tx, commissionID); err != nil {
			return err
		}
		changed, err := fn(tx, c)
		if err != nil || !changed {
			return err
		}
		return saveCommission(tx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (f *Fleet) getCommission(ctx context.Context, commissionID string) (*models.Commission, error) {
	return loadCommission(f.Db.Conn.WithContext(ctx), commissionID)
}

func (f *Fleet) startCommission(ctx context.Context, commissionID, installerID string) (*models.Commission, error) {
	var outcome *TransitionOutcome
	var meta models.TransitionMetadata

	c, err := f.withCommission(ctx, commissionID, func(tx *gorm.DB, c *models.Commission) (bool, error) {
		if err := ensureOpen(c); err != nil {
			return false, err
		}
		if c.Status != models.CommissionPending {
			return false, businessRule(RuleCommissionStarted, "commission %q is %s", c.ID, c.Status)
		}

		var err error
		outcome, meta, err = f.beginCommission(tx, c, installerID)
		return err == nil, err
	})
	if err != nil {
		return nil, err
	}

	f.observeTransition(outcome, meta)
	commissionLogger().Info("Commission started",
		zap.String("commission_id", c.ID),
		zap.String("installer_id", c.InstallerID),
	)
	return c, nil
}

// beginCommission moves a pending record to in_progress inside tx. The
// device must be installed, or delivered and installed on the way, and its
// commission status follows the record.
func (f *Fleet) beginCommission(tx *gorm.DB, c *models.Commission, installerID string) (*TransitionOutcome, models.TransitionMetadata, error) {
	if installerID = strings.TrimSpace(installerID); installerID != "" {
		c.InstallerID = installerID
	}
	meta := models.TransitionMetadata{
		Actor:        c.InstallerID,
		InstallerID:  c.InstallerID,
		CommissionID: c.ID,
	}

	dev, err := loadDevice(tx, c.DeviceID)
	if err != nil {
		return nil, meta, err
	}

	markInProgress := func(_ *gorm.DB, d *models.Device) error {
		d.InstallerID = &c.InstallerID
		d.CommissionStatus = models.DeviceCommissionInProgress
		return nil
	}

	var outcome *TransitionOutcome
	switch dev.Lifecycle {
	case models.LifecycleDelivered:
		if outcome, _, err = f.applyTransition(tx, dev.ID, models.LifecycleInstalled, meta, markInProgress); err != nil {
			return nil, meta, err
		}
	case models.LifecycleInstalled:
		_ = markInProgress(tx, dev)
		if err := updateDeviceColumns(tx, dev, "installer_id", "commission_status"); err != nil {
			return nil, meta, err
		}
	default:
		return nil, meta, businessRule(RuleDeviceNotDeliverable, "device %q is %s", dev.ID, dev.Lifecycle)
	}

	now := f.now()
	c.Status = models.CommissionInProgress
	c.StartedAt = &now
	return outcome, meta, nil
}

// updateCheck is idempotent: completing an already completed item only
// refreshes attribution and notes.
func (f *Fleet) updateCheck(ctx context.Context, commissionID string, checklist models.ChecklistName, itemID string, completed bool, notes, actorID string) (*models.Commission, error) {
	return f.withCommission(ctx, commissionID, func(_ *gorm.DB, c *models.Commission) (bool, error) {
		if err := ensureOpen(c); err != nil {
			return false, err
		}

		items := c.Checklist(checklist)
		if items == nil {
			return false, notFound("checklist", string(checklist))
		}

		idx := slices.IndexFunc(*items, func(item models.ChecklistItem) bool { return item.ID == itemID })
		if idx < 0 {
			return false, notFound("checklist item", itemID)
		}

		item := &(*items)[idx]
		item.Completed = completed
		if completed {
			now := f.now()
			item.CompletedAt = &now
			item.CompletedBy = actorID
		} else {
			item.CompletedAt = nil
			item.CompletedBy = ""
		}
		if notes != "" {
			item.Notes = notes
		}
		return true, nil
	})
}

// runTests marks the requested tests running and hands them to the bridge
// once the record is committed. Results arrive through updateTestResult.
func (f *Fleet) runTests(ctx context.Context, commissionID string, testIDs []string) (*models.Commission, error) {
	var dispatched []string
	var outcome *TransitionOutcome
	var meta models.TransitionMetadata

	c, err := f.withCommission(ctx, commissionID, func(tx *gorm.DB, c *models.Commission) (bool, error) {
		if err := ensureOpen(c); err != nil {
			return false, err
		}

		requested := map[string]bool{}
		for _, id := range testIDs {
			if !slices.ContainsFunc(c.TestResults, func(t models.TestResult) bool { return t.ID == id }) {
				return false, businessRule(RuleUnknownTest, "test %q is not part of commission %q", id, c.ID)
			}
			requested[id] = true
		}

		// running tests on a record nobody started starts it first
		if c.Status == models.CommissionPending {
			var err error
			if outcome, meta, err = f.beginCommission(tx, c, ""); err != nil {
				return false, err
			}
		}

		now := f.now()
		dispatched = dispatched[:0]
		for i := range c.TestResults {
			test := &c.TestResults[i]
			if len(requested) > 0 && !requested[test.ID] {
				continue
			}
			startedAt := now
			test.Status = models.TestRunning
			test.StartedAt = &startedAt
			test.FinishedAt = nil
			test.DurationMs = 0
			test.Details = ""
			test.ExpectedValue = ""
			test.ActualValue = ""
			dispatched = append(dispatched, test.ID)
		}

		c.Status = models.CommissionAwaitingTests
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	f.observeTransition(outcome, meta)

	logger := common.GetCategoryLogger(common.LoggerNameFleetCore, common.LoggerCategoryTests)
	logger.Info("Tests dispatched",
		zap.String("commission_id", c.ID),
		zap.Strings("tests", dispatched),
	)

	if f.Bridge == nil {
		logger.Warn("No test bridge configured, tests stay running until results are reported",
			zap.String("commission_id", c.ID))
		return c, nil
	}

	if err := f.Bridge.Dispatch(ctx, c.ID, c.DeviceID, dispatched); err != nil {
		externalSyncFailures.WithLabelValues(SyncTargetBridge).Inc()
		logger.Warn("Test bridge dispatch failed",
			zap.String("commission_id", c.ID),
			zap.Error(errors.Join(ErrExternalSync, err)),
		)
	}

	return c, nil
}

// updateTestResult applies a bridge report only to a test that is still
// running on an open record. Reports for unknown or idle tests are ignored;
// reports for finalized or cancelled records are rejected as stale.
func (f *Fleet) updateTestResult(ctx context.Context, commissionID, testID string, update models.TestResultUpdate) (bool, error) {
	if update.Status != models.TestPassed && update.Status != models.TestFailed {
		return false, businessRule(RuleInvalidTestStatus, "test %q reported %q", testID, update.Status)
	}

	applied := false
	_, err := f.withCommission(ctx, commissionID, func(_ *gorm.DB, c *models.Commission) (bool, error) {
		if c.Status.IsTerminal() {
			return false, businessRule(RuleCommissionFinalized, "stale result for test %q on %s commission %q", testID, c.Status, c.ID)
		}

		idx := slices.IndexFunc(c.TestResults, func(t models.TestResult) bool { return t.ID == testID })
		if idx < 0 || c.TestResults[idx].Status != models.TestRunning {
			return false, nil
		}

		now := f.now()
		test := &c.TestResults[idx]
		test.Status = update.Status
		test.DurationMs = update.DurationMs
		test.Details = update.Details
		test.ExpectedValue = update.ExpectedValue
		test.ActualValue = update.ActualValue
		test.FinishedAt = &now
		applied = true
		return true, nil
	})
	if err != nil {
		return false, err
	}

	common.GetCategoryLogger(common.LoggerNameFleetCore, common.LoggerCategoryTests).Info("Test result received",
		zap.String("commission_id", commissionID),
		zap.String("test_id", testID),
		zap.String("status", string(update.Status)),
		zap.Bool("applied", applied),
	)
	return applied, nil
}

func (f *Fleet) uploadPhoto(ctx context.Context, commissionID string, input models.PhotoInput) (*models.Photo, error) {
	if strings.TrimSpace(input.URL) == "" {
		return nil, businessRule(RulePhotoURLRequired, "commission %q", commissionID)
	}

	var photo models.Photo
	_, err := f.withCommission(ctx, commissionID, func(_ *gorm.DB, c *models.Commission) (bool, error) {
		if err := ensureOpen(c); err != nil {
			return false, err
		}
		photo = models.Photo{
			ID:         uuid.NewString(),
			URL:        strings.TrimSpace(input.URL),
			Caption:    input.Caption,
			Category:   input.Category,
			UploadedAt: f.now(),
			UploadedBy: input.UploadedBy,
		}
		c.Photos = append(c.Photos, photo)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// submitSignature replaces any earlier signature.
func (f *Fleet) submitSignature(ctx context.Context, commissionID string, input models.SignatureInput) (*models.Commission, error) {
	if strings.TrimSpace(input.Name) == "" || input.ImageData == "" {
		return nil, businessRule(RuleSignatureIncomplete, "commission %q", commissionID)
	}

	return f.withCommission(ctx, commissionID, func(_ *gorm.DB, c *models.Commission) (bool, error) {
		if err := ensureOpen(c); err != nil {
			return false, err
		}
		c.Signature = &models.Signature{
			Name:      strings.TrimSpace(input.Name),
			Timestamp: f.now(),
			ImageData: input.ImageData,
		}
		return true, nil
	})
}

func (f *Fleet) readiness(ctx context.Context, commissionID string) (*Readiness, error) {
	c, err := f.getCommission(ctx, commissionID)
	if err != nil {
		return nil, err
	}
	r := EvaluateReadiness(c, f.templates().PhotoRule())
	return &r, nil
}

// completeCommission finalizes the record exactly once. The status moves
// from an open value to passed or failed by compare-and-set, so a second
// call, concurrent or not, is rejected and the stored result stays as it is.
func (f *Fleet) completeCommission(ctx context.Context, commissionID string) (*models.CommissionResult, error) {
	logger := commissionLogger()

	var outcome *TransitionOutcome
	var meta models.TransitionMetadata
	var device *models.Device
	var dealID string

	c, err := f.withCommission(ctx, commissionID, func(tx *gorm.DB, c *models.Commission) (bool, error) {
		if c.Status.IsTerminal() {
			return false, businessRule(RuleCommissionFinalized, "commission %q is %s", c.ID, c.Status)
		}

		readiness := EvaluateReadiness(c, f.templates().PhotoRule())
		if !readiness.CanComplete() {
			return false, &WorkflowNotReadyError{CommissionID: c.ID, Unmet: readiness.Unmet()}
		}

		status, score := Outcome(c)
		now := f.now()
		c.Result = &models.CommissionResult{
			Status:       status,
			OverallScore: score,
			Tests:        slices.Clone([]models.TestResult(c.TestResults)),
			FailedTests:  FailedTestIDs(c.TestResults),
			CompletedAt:  now,
		}
		c.Status = status

		var err error
		if status == models.CommissionPassed {
			meta = models.TransitionMetadata{Actor: c.InstallerID, CommissionID: c.ID}
			outcome, device, err = f.applyTransition(tx, c.DeviceID, models.LifecycleCommissioned, meta, func(_ *gorm.DB, d *models.Device) error {
				d.CommissionStatus = models.DeviceCommissionPassed
				return nil
			})
			if err != nil {
				return false, err
			}
		} else {
			if device, err = loadDevice(tx, c.DeviceID); err != nil {
				return false, err
			}
			device.CommissionStatus = models.DeviceCommissionFailed
			if err := updateDeviceColumns(tx, device, "commission_status"); err != nil {
				return false, err
			}
		}

		if order, err := loadOrder(tx, c.OrderID); err == nil {
			dealID = order.CRMDealID
		}

		if err := saveCommission(tx, c, models.OpenCommissionStatuses()...); err != nil {
			return false, err
		}
		return false, nil
	})
	if err != nil {
		logger.Info("Commission not completed", zap.String("commission_id", commissionID), zap.Error(err))
		return nil, err
	}

	commissionsFinalized.WithLabelValues(string(c.Status)).Inc()
	f.observeTransition(outcome, meta)
	logger.Info("Commission completed",
		zap.String("commission_id", c.ID),
		zap.String("status", string(c.Result.Status)),
		zap.Int("overall_score", c.Result.OverallScore),
		zap.Strings("failed_tests", c.Result.FailedTests),
	)

	f.notifySync(device, dealID)
	return c.Result, nil
}

// activateDevice is the last step of the happy path. The CRM hears about it
// in the background; its failures never reach the caller.
func (f *Fleet) activateDevice(ctx context.Context, deviceID, customerID string) (*models.Device, error) {
	lifecycle := f.Lifecycle
	if lifecycle == nil {
		lifecycle = f.GetILifecycle()
	}

	if _, err := lifecycle.Activate(ctx, deviceID, customerID); err != nil {
		return nil, err
	}

	dev, err := f.getDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	dealID := ""
	if dev.OrderID != nil {
		if order, err := loadOrder(f.Db.Conn.WithContext(ctx), *dev.OrderID); err == nil {
			dealID = order.CRMDealID
		}
	}

	f.notifySync(dev, dealID)
	return dev, nil
}

// cancelCommission closes the record and frees the device for a new
// attempt. The device lifecycle is left where it is.
func (f *Fleet) cancelCommission(ctx context.Context, commissionID, reason string) (*models.Commission, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, businessRule(RuleReasonRequired, "cancelling commission %q", commissionID)
	}

	c, err := f.withCommission(ctx, commissionID, func(tx *gorm.DB, c *models.Commission) (bool, error) {
		if err := ensureOpen(c); err != nil {
			return false, err
		}

		now := f.now()
		c.Status = models.CommissionCancelled
		c.CancelledAt = &now
		c.CancelReason = reason

		dev, err := loadDevice(tx, c.DeviceID)
		if err != nil {
			return false, err
		}
		if dev.CommissionID != nil && *dev.CommissionID == c.ID {
			dev.CommissionStatus = models.DeviceCommissionPending
			dev.InstallerID = nil
			dev.CommissionID = nil
			if err := updateDeviceColumns(tx, dev, "commission_status", "installer_id", "commission_id"); err != nil {
				return false, err
			}
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	commissionLogger().Info("Commission cancelled",
		zap.String("commission_id", c.ID),
		zap.String("reason", reason),
	)
	return c, nil
}

func (f *Fleet) notifySync(device *models.Device, dealID string) {
	if f.Sync == nil || device == nil {
		return
	}
	f.Sync.Notify(*device, dealID)
}

type ICommissionImpl struct {
	fleet *Fleet
}

func (ic *ICommissionImpl) InitializeCommission(ctx context.Context, deviceID, orderID, installerID string) (*models.Commission, error) {
	return ic.fleet.initializeCommission(ctx, deviceID, orderID, installerID)
}

func (ic *ICommissionImpl) GetCommission(ctx context.Context, commissionID string) (*models.Commission, error) {
	return ic.fleet.getCommission(ctx, commissionID)
}

func (ic *ICommissionImpl) StartCommission(ctx context.Context, commissionID, installerID string) (*models.Commission, error) {
	return ic.fleet.startCommission(ctx, commissionID, installerID)
}

func (ic *ICommissionImpl) UpdateCheck(ctx context.Context, commissionID string, checklist models.ChecklistName, itemID string, completed bool, notes, actorID string) (*models.Commission, error) {
	return ic.fleet.updateCheck(ctx, commissionID, checklist, itemID, completed, notes, actorID)
}

func (ic *ICommissionImpl) RunTests(ctx context.Context, commissionID string, testIDs []string) (*models.Commission, error) {
	return ic.fleet.runTests(ctx, commissionID, testIDs)
}

func (ic *ICommissionImpl) UpdateTestResult(ctx context.Context, commissionID, testID string, update models.TestResultUpdate) (bool, error) {
	return ic.fleet.updateTestResult(ctx, commissionID, testID, update)
}

func (ic *ICommissionImpl) UploadPhoto(ctx context.Context, commissionID string, input models.PhotoInput) (*models.Photo, error) {
	return ic.fleet.uploadPhoto(ctx, commissionID, input)
}

func (ic *ICommissionImpl) SubmitSignature(ctx context.Context, commissionID string, input models.SignatureInput) (*models.Commission, error) {
	return ic.fleet.submitSignature(ctx, commissionID, input)
}

func (ic *ICommissionImpl) Readiness(ctx context.Context, commissionID string) (*Readiness, error) {
	return ic.fleet.readiness(ctx, commissionID)
}

func (ic *ICommissionImpl) CompleteCommission(ctx context.Context, commissionID string) (*models.CommissionResult, error) {
	return ic.fleet.completeCommission(ctx, commissionID)
}

func (ic *ICommissionImpl) ActivateDevice(ctx context.Context, deviceID, customerID string) (*models.Device, error) {
	return ic.fleet.activateDevice(ctx, deviceID, customerID)
}

func (ic *ICommissionImpl) CancelCommission(ctx context.Context, commissionID, reason string) (*models.Commission, error) {
	return ic.fleet.cancelCommission(ctx, commissionID, reason)
}

func (f *Fleet) GetICommission() ICommission {
	return &ICommissionImpl{fleet: f}
}
