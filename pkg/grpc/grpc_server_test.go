package grpc

import (
	"context"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"waterwatch.io/commissioning-service/pkg/common"
	"waterwatch.io/commissioning-service/pkg/db"
	"waterwatch.io/commissioning-service/pkg/fleet"
	"waterwatch.io/commissioning-service/pkg/models"
	_ "waterwatch.io/commissioning-service/pkg/testing"
)

const bufSize = 1024 * 1024

func startTestServer(t *testing.T, limiterStore *fleet.RateLimiterStore) (*HardwareBridgeClient, *fleet.Fleet) {
	listener := bufconn.Listen(bufSize)

	fleetCore := fleet.Fleet{
		Db: *db.GetInstance(db.UseMemorySqliteDialector()),
	}
	fleetCore.WithServices(fleet.ServiceOpts{
		Lifecycle:  fleetCore.GetILifecycle(),
		Commission: fleetCore.GetICommission(),
	})

	bridgeServer := BridgeServer{Fleet: &fleetCore, RateLimiterStore: limiterStore}
	interceptor := bridgeServer.CreateRateLimitInterceptor([]string{
		ReportTestResultMethod,
		GetReadinessMethod,
	})
	server := grpc.NewServer(grpc.UnaryInterceptor(interceptor))
	RegisterHardwareBridgeServer(server, &bridgeServer)

	go func() {
		_ = server.Serve(listener)
	}()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, s string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewHardwareBridgeClient(conn), &fleetCore
}

// seedRunningCommission walks a fresh device up to a commission whose tests
// are all running.
func seedRunningCommission(t *testing.T, f *fleet.Fleet) *models.Commission {
	t.Helper()
	ctx := context.Background()

	customer := models.Customer{ID: uuid.NewString(), Name: "Lakeside Utility"}
	order := models.Order{ID: uuid.NewString(), CustomerID: customer.ID, Status: "open"}
	require.NoError(t, f.Db.Conn.Create(&customer).Error)
	require.NoError(t, f.Db.Conn.Create(&order).Error)

	dev, err := f.Lifecycle.RegisterDevice(ctx, &models.Device{SerialNumber: "WW-" + uuid.NewString(), DeviceType: "buoy-solar"})
	require.NoError(t, err)
	_, err = f.Lifecycle.AllocateToOrder(ctx, dev.ID, order.ID)
	require.NoError(t, err)
	_, err = f.Lifecycle.MarkShipped(ctx, dev.ID, "1Z77", "UPS")
	require.NoError(t, err)
	_, err = f.Lifecycle.MarkDelivered(ctx, dev.ID)
	require.NoError(t, err)

	c, err := f.Commission.InitializeCommission(ctx, dev.ID, order.ID, "inst-7")
	require.NoError(t, err)
	c, err = f.Commission.RunTests(ctx, c.ID, nil)
	require.NoError(t, err)
	return c
}

func mustStruct(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func TestReportTestResultAndReadiness(t *testing.T) {
	common.SetTestLoggerNop()
	client, f := startTestServer(t, nil)
	ctx := context.Background()

	c := seedRunningCommission(t, f)
	require.Len(t, c.TestResults, 9)

	resp, err := client.ReportTestResult(ctx, mustStruct(t, map[string]any{
		"commission_id": c.ID,
		"test_id":       "battery",
		"status":        "passed",
		"duration_ms":   1200,
		"actual_value":  "12.6V",
	}))
	require.NoError(t, err)
	assert.True(t, resp.GetFields()["applied"].GetBoolValue())

	// the same report again is a no-op: the test is no longer running
	resp, err = client.ReportTestResult(ctx, mustStruct(t, map[string]any{
		"commission_id": c.ID,
		"test_id":       "battery",
		"status":        "failed",
	}))
	require.NoError(t, err)
	assert.False(t, resp.GetFields()["applied"].GetBoolValue())

	stored, err := f.Commission.GetCommission(ctx, c.ID)
	require.NoError(t, err)
	for _, test := range stored.TestResults {
		if test.ID == "battery" {
			assert.Equal(t, models.TestPassed, test.Status)
			assert.Equal(t, 1200, test.DurationMs)
			assert.Equal(t, "12.6V", test.ActualValue)
		}
	}

	readiness, err := client.GetReadiness(ctx, mustStruct(t, map[string]any{"commission_id": c.ID}))
	require.NoError(t, err)
	fields := readiness.AsMap()
	assert.Equal(t, true, fields["tests"])
	assert.Equal(t, false, fields["can_complete"])
	assert.Equal(t, []any{"pre_deployment", "commissioning", "photos", "signature"}, fields["unmet"])
}

func TestReportTestResultEdgeCases(t *testing.T) {
	common.SetTestLoggerNop()
	client, f := startTestServer(t, nil)
	ctx := context.Background()

	c := seedRunningCommission(t, f)

	_, err := client.ReportTestResult(ctx, mustStruct(t, map[string]any{
		"commission_id": c.ID,
		"test_id":       "gps",
		"status":        "running",
	}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.ReportTestResult(ctx, mustStruct(t, map[string]any{
		"test_id": "gps",
		"status":  "passed",
	}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.ReportTestResult(ctx, mustStruct(t, map[string]any{
		"commission_id": uuid.NewString(),
		"test_id":       "gps",
		"status":        "passed",
	}))
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.GetReadiness(ctx, mustStruct(t, map[string]any{}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = f.Commission.CancelCommission(ctx, c.ID, "site flooded")
	require.NoError(t, err)

	_, err = client.ReportTestResult(ctx, mustStruct(t, map[string]any{
		"commission_id": c.ID,
		"test_id":       "gps",
		"status":        "passed",
	}))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestRateLimitInterceptor(t *testing.T) {
	common.SetTestLoggerNop()

	limiterStore := fleet.NewRateLimiterStore(0.001, 2)
	client, f := startTestServer(t, limiterStore)
	ctx := context.Background()

	c := seedRunningCommission(t, f)
	req := mustStruct(t, map[string]any{"commission_id": c.ID})

	for i := range 2 {
		_, err := client.GetReadiness(ctx, req)
		require.NoError(t, err, "expected request %d to pass", i+1)
	}

	_, err := client.GetReadiness(ctx, req)
	require.Error(t, err)
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))

	// other commissions keep their own budget
	other := seedRunningCommission(t, f)
	_, err = client.GetReadiness(ctx, mustStruct(t, map[string]any{"commission_id": other.ID}))
	assert.NoError(t, err)
}
