package fleet_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"waterwatch.io/commissioning-service/pkg/db"
	"waterwatch.io/commissioning-service/pkg/fleet"
	"waterwatch.io/commissioning-service/pkg/fleet/mocks"
	"waterwatch.io/commissioning-service/pkg/models"
)

// GetMockFleetWithMemorySqliteDialector wires a fleet on the shared
// in-memory database. The bridge and CRM notifier are mocks when asked for,
// otherwise absent.
func GetMockFleetWithMemorySqliteDialector(t *testing.T, useMockBridge, useMockNotifier bool) (
	*gomock.Controller,
	*fleet.Fleet,
	*mocks.MockITestBridge,
	*mocks.MockISyncNotifier,
) {
	ctrl := gomock.NewController(t)

	mockBridge := mocks.NewMockITestBridge(ctrl)
	mockNotifier := mocks.NewMockISyncNotifier(ctrl)
	dbInstance := db.GetInstance(db.UseMemorySqliteDialector())
	fleetInstance := &fleet.Fleet{Db: *dbInstance}

	var notifier fleet.ISyncNotifier
	if useMockNotifier {
		notifier = mockNotifier
	}
	dispatcher := fleet.NewSyncDispatcher(notifier, 16)
	// runs before the controller checks its expectations
	t.Cleanup(dispatcher.Close)

	opts := fleet.ServiceOpts{
		Lifecycle:  fleetInstance.GetILifecycle(),
		Commission: fleetInstance.GetICommission(),
		Sync:       dispatcher,
	}
	if useMockBridge {
		opts.Bridge = mockBridge
	}
	fleetInstance.WithServices(opts)

	return ctrl, fleetInstance, mockBridge, mockNotifier
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}

func findLog(logs []any, msg string) map[string]any {
	for _, l := range logs {
		if entry, ok := l.(map[string]any); ok && entry["msg"] == msg {
			return entry
		}
	}
	return nil
}

type fixture struct {
	customer models.Customer
	site     models.Site
	order    models.Order
}

func seedOrder(t *testing.T, f *fleet.Fleet) fixture {
	t.Helper()

	fx := fixture{
		customer: models.Customer{ID: uuid.NewString(), Name: "Lakeside Utilities", Email: "ops@lakeside.example"},
		site:     models.Site{ID: uuid.NewString(), Name: "Intake 3", Latitude: 46.2, Longitude: 6.1},
	}
	fx.order = models.Order{
		ID:         uuid.NewString(),
		CustomerID: fx.customer.ID,
		SiteID:     &fx.site.ID,
		CRMDealID:  "deal-" + fx.customer.ID[:8],
		Status:     "open",
	}
	require.NoError(t, f.Db.Conn.Create(&fx.customer).Error)
	require.NoError(t, f.Db.Conn.Create(&fx.site).Error)
	require.NoError(t, f.Db.Conn.Create(&fx.order).Error)
	return fx
}

func seedDevice(t *testing.T, f *fleet.Fleet, deviceType string) *models.Device {
	t.Helper()

	dev, err := f.Lifecycle.RegisterDevice(context.Background(), &models.Device{
		SerialNumber: "WW-" + uuid.NewString(),
		SKU:          "WQ-100",
		DeviceType:   deviceType,
	})
	require.NoError(t, err)
	return dev
}

// seedDeliveredDevice walks a fresh device through allocation, shipping and
// delivery for the given order.
func seedDeliveredDevice(t *testing.T, f *fleet.Fleet, deviceType string, fx fixture) *models.Device {
	t.Helper()
	ctx := context.Background()

	dev := seedDevice(t, f, deviceType)
	_, err := f.Lifecycle.AllocateToOrder(ctx, dev.ID, fx.order.ID)
	require.NoError(t, err)
	_, err = f.Lifecycle.MarkShipped(ctx, dev.ID, "1Z999", "UPS")
	require.NoError(t, err)
	_, err = f.Lifecycle.MarkDelivered(ctx, dev.ID)
	require.NoError(t, err)

	dev, err = f.Lifecycle.GetDevice(ctx, dev.ID)
	require.NoError(t, err)
	return dev
}

// completeEvidence ticks every checklist item, attaches photos and signs.
func completeEvidence(t *testing.T, f *fleet.Fleet, c *models.Commission, photoCount int) {
	t.Helper()
	ctx := context.Background()

	for _, item := range c.PreDeploymentChecks {
		_, err := f.Commission.UpdateCheck(ctx, c.ID, models.ChecklistPreDeployment, item.ID, true, "", "inst-1")
		require.NoError(t, err)
	}
	for _, item := range c.CommissioningChecks {
		_, err := f.Commission.UpdateCheck(ctx, c.ID, models.ChecklistCommissioning, item.ID, true, "", "inst-1")
		require.NoError(t, err)
	}
	for i := range photoCount {
		_, err := f.Commission.UploadPhoto(ctx, c.ID, models.PhotoInput{
			URL:        "https://photos.example/" + c.ID + "/" + string(rune('a'+i)) + ".jpg",
			Category:   "installation",
			UploadedBy: "inst-1",
		})
		require.NoError(t, err)
	}
	_, err := f.Commission.SubmitSignature(ctx, c.ID, models.SignatureInput{Name: "Ana Ruiz", ImageData: "data:image/png;base64,iVBORw0KGgo="})
	require.NoError(t, err)
}

// reportAll runs every test and reports each one, failing the ids in failed.
func reportAll(t *testing.T, f *fleet.Fleet, c *models.Commission, failed ...string) {
	t.Helper()
	ctx := context.Background()

	_, err := f.Commission.RunTests(ctx, c.ID, nil)
	require.NoError(t, err)

	for _, test := range c.TestResults {
		status := models.TestPassed
		for _, id := range failed {
			if id == test.ID {
				status = models.TestFailed
			}
		}
		applied, err := f.Commission.UpdateTestResult(ctx, c.ID, test.ID, models.TestResultUpdate{
			Status:     status,
			DurationMs: 1200,
			Details:    "bench",
		})
		require.NoError(t, err)
		require.True(t, applied, test.ID)
	}
}
