package fleet_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zapcore"

	"waterwatch.io/commissioning-service/pkg/common"
	"waterwatch.io/commissioning-service/pkg/fleet"
	"waterwatch.io/commissioning-service/pkg/fleet/mocks"
	"waterwatch.io/commissioning-service/pkg/models"
)

func TestSyncDispatcher_FailureIsLoggedNotReturned(t *testing.T) {
	var buf bytes.Buffer
	common.SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	notifier := mocks.NewMockISyncNotifier(ctrl)

	failures := testutil.ToFloat64(fleet.ExternalSyncFailures.WithLabelValues(fleet.SyncTargetCRM))
	notifier.
		EXPECT().
		SyncDevice(gomock.Any(), gomock.Any(), "deal-1").
		Return(errors.New("502 bad gateway")).
		Times(1)

	dispatcher := fleet.NewSyncDispatcher(notifier, 4)
	dispatcher.Notify(models.Device{ID: "dev-1", Lifecycle: models.LifecycleActive}, "deal-1")
	dispatcher.Close()

	assert.Equal(t, failures+1, testutil.ToFloat64(fleet.ExternalSyncFailures.WithLabelValues(fleet.SyncTargetCRM)))

	entry := findLog(ParseLogs(&buf), "CRM sync failed")
	require.NotNil(t, entry)
	assert.Equal(t, "dev-1", entry["device_id"])
	assert.Equal(t, "sync", entry["category"])
	assert.Contains(t, entry["error"], fleet.ErrExternalSync.Error())
}

func TestSyncDispatcher_DropsWhenClosedOrFull(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	notifier := mocks.NewMockISyncNotifier(ctrl)

	release := make(chan struct{})
	started := make(chan struct{})
	notifier.
		EXPECT().
		SyncDevice(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *models.Device, string) error {
			close(started)
			<-release
			return nil
		}).
		Times(1)
	notifier.
		EXPECT().
		SyncDevice(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		Times(1)

	dropped := testutil.ToFloat64(fleet.SyncJobsDropped)
	dispatcher := fleet.NewSyncDispatcher(notifier, 1)

	dispatcher.Notify(models.Device{ID: "dev-1"}, "")
	<-started
	dispatcher.Notify(models.Device{ID: "dev-2"}, "") // queued
	dispatcher.Notify(models.Device{ID: "dev-3"}, "") // queue full
	assert.Equal(t, dropped+1, testutil.ToFloat64(fleet.SyncJobsDropped))

	close(release)
	dispatcher.Close()

	dispatcher.Notify(models.Device{ID: "dev-4"}, "")
	assert.Equal(t, dropped+2, testutil.ToFloat64(fleet.SyncJobsDropped))

	// closing twice is harmless
	dispatcher.Close()
}

func TestSyncDispatcher_RecoversFromPanic(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	notifier := mocks.NewMockISyncNotifier(ctrl)

	notifier.
		EXPECT().
		SyncDevice(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *models.Device, string) error {
			panic("nil map")
		}).
		Times(1)
	notifier.
		EXPECT().
		SyncDevice(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		Times(1)

	dispatcher := fleet.NewSyncDispatcher(notifier, 2)
	dispatcher.Notify(models.Device{ID: "dev-1"}, "")
	dispatcher.Notify(models.Device{ID: "dev-2"}, "")
	dispatcher.Close()
}
