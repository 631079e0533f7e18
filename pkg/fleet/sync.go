package fleet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"waterwatch.io/commissioning-service/pkg/common"
	"waterwatch.io/commissioning-service/pkg/models"
)

const defaultSyncTimeout = 10 * time.Second

type syncJob struct {
	device models.Device
	dealID string
}

// SyncDispatcher delivers device snapshots to the CRM from a single
// background worker. Callers never wait for the CRM and never see its
// errors.
type SyncDispatcher struct {
	notifier ISyncNotifier
	timeout  time.Duration
	jobs     chan syncJob

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewSyncDispatcher(notifier ISyncNotifier, queueSize int) *SyncDispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	d := &SyncDispatcher{
		notifier: notifier,
		timeout:  defaultSyncTimeout,
		jobs:     make(chan syncJob, queueSize),
		done:     make(chan struct{}),
	}
	go d.run()
	return d
}

func syncLogger() *zap.Logger {
	return common.GetCategoryLogger(common.LoggerNameFleetCore, common.LoggerCategorySync)
}

// Notify queues a snapshot of the device. A full or closed queue drops the
// job.
func (d *SyncDispatcher) Notify(device models.Device, dealID string) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		syncJobsDropped.Inc()
		syncLogger().Warn("Sync dispatcher closed, dropping job", zap.String("device_id", device.ID))
		return
	}

	select {
	case d.jobs <- syncJob{device: device, dealID: dealID}:
	default:
		syncJobsDropped.Inc()
		syncLogger().Warn("Sync queue full, dropping job", zap.String("device_id", device.ID))
	}
}

// Close stops accepting jobs and waits for the queued ones to finish.
func (d *SyncDispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()
	<-d.done
}

func (d *SyncDispatcher) run() {
	defer close(d.done)
	for job := range d.jobs {
		d.deliver(job)
	}
}

func (d *SyncDispatcher) deliver(job syncJob) {
	logger := syncLogger()

	defer func() {
		if r := recover(); r != nil {
			externalSyncFailures.WithLabelValues(SyncTargetCRM).Inc()
			logger.Error("CRM sync panicked", zap.String("device_id", job.device.ID), zap.Any("panic", r))
		}
	}()

	if d.notifier == nil {
		logger.Debug("No CRM notifier configured", zap.String("device_id", job.device.ID))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.notifier.SyncDevice(ctx, &job.device, job.dealID); err != nil {
		if !errors.Is(err, ErrExternalSync) {
			err = fmt.Errorf("%w: %w", ErrExternalSync, err)
		}
		externalSyncFailures.WithLabelValues(SyncTargetCRM).Inc()
		logger.Warn("CRM sync failed",
			zap.String("device_id", job.device.ID),
			zap.String("deal_id", job.dealID),
			zap.Error(err),
		)
		return
	}

	logger.Info("CRM sync delivered",
		zap.String("device_id", job.device.ID),
		zap.String("lifecycle", string(job.device.Lifecycle)),
		zap.String("deal_id", job.dealID),
	)
}
