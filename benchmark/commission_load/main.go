package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"waterwatch.io/commissioning-service/pkg/db"
	commissionGrpc "waterwatch.io/commissioning-service/pkg/grpc"
	"waterwatch.io/commissioning-service/pkg/models"
)

// Drives devices through the whole commissioning workflow against a running
// server. Test results go over HTTP or gRPC at random. The server must use
// a file database at the same COMMISSION_DB_PATH so the order can be seeded.

var maxDevices = flag.Int("devices", 200, "devices to commission")
var httpHostPort = flag.String("http", "127.0.0.1:1080", "http host:port")
var grpcHostPort = flag.String("grpc", "127.0.0.1:10801", "grpc host:port")
var failRate = flag.Float64("fail-rate", 0.1, "probability of a failing hardware test")

var rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
var rndMu sync.Mutex

var httpClient *resty.Client
var grpcClient *commissionGrpc.HardwareBridgeClient

func main() {
	flag.Parse()

	httpClient = resty.New().SetBaseURL("http://" + *httpHostPort)

	resp, err := httpClient.R().Get("/healthz")
	if err != nil || resp.StatusCode() != http.StatusOK {
		log.Fatal("HTTP server not available: ", err)
	}
	fmt.Printf("http server verified\n")

	conn, err := grpc.NewClient(*grpcHostPort, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal("Failed to connect to gRPC server:", err)
	}
	defer conn.Close()
	grpcClient = commissionGrpc.NewHardwareBridgeClient(conn)

	customer, order := seedOrder()
	fmt.Printf("seeded order %s\n", order.ID)

	var passed, failed, errored atomic.Int64

	startTime := time.Now()
	wg := sync.WaitGroup{}
	for i := range *maxDevices {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := commissionDevice(customer.ID, order.ID)
			switch {
			case err != nil:
				errored.Add(1)
				fmt.Printf("\ndevice %d: %v\n", i, err)
			case status == models.CommissionPassed:
				passed.Add(1)
			default:
				failed.Add(1)
			}
			fmt.Printf("\rcommissioned %v devices", passed.Load()+failed.Load()+errored.Load())
		}()
	}
	wg.Wait()
	usedTime := time.Since(startTime)

	fmt.Printf(
		"\n\rcommissioned %v devices (passed=%v failed=%v errors=%v): used time=%v seconds, throughput=%v devices/second\n",
		*maxDevices, passed.Load(), failed.Load(), errored.Load(), usedTime.Seconds(), float64(*maxDevices)/usedTime.Seconds(),
	)
}

func seedOrder() (*models.Customer, *models.Order) {
	conn := db.GetInstance(db.UseSqliteDialector()).Conn

	customer := &models.Customer{ID: uuid.NewString(), Name: "Load Test Utility"}
	order := &models.Order{ID: uuid.NewString(), CustomerID: customer.ID, Status: "open"}
	if err := conn.Create(customer).Error; err != nil {
		log.Fatal("Failed to seed customer: ", err)
	}
	if err := conn.Create(order).Error; err != nil {
		log.Fatal("Failed to seed order: ", err)
	}
	return customer, order
}

func flipCoin(p float64) bool {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Float64() < p
}

func post(path string, body any, result any) error {
	req := httpClient.R()
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}
	resp, err := req.Post(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("POST %s: %s %s", path, resp.Status(), resp.String())
	}
	return nil
}

func commissionDevice(customerID, orderID string) (models.CommissionStatus, error) {
	var dev models.Device
	if err := post("/devices", map[string]string{
		"serial_number": "LOAD-" + uuid.NewString(),
		"device_type":   "shore-standard",
	}, &dev); err != nil {
		return "", err
	}

	devicePath := "/devices/" + dev.ID
	steps := []struct {
		path string
		body any
	}{
		{devicePath + "/allocate", map[string]string{"order_id": orderID}},
		{devicePath + "/ship", map[string]string{"tracking_number": "LOAD-" + dev.ID[:8], "carrier": "bench"}},
		{devicePath + "/deliver", nil},
	}
	for _, step := range steps {
		if err := post(step.path, step.body, nil); err != nil {
			return "", err
		}
	}

	var c models.Commission
	if err := post("/commissions", map[string]string{
		"device_id":    dev.ID,
		"order_id":     orderID,
		"installer_id": "bench",
	}, &c); err != nil {
		return "", err
	}
	commissionPath := "/commissions/" + c.ID

	for name, items := range map[models.ChecklistName][]models.ChecklistItem{
		models.ChecklistPreDeployment: c.PreDeploymentChecks,
		models.ChecklistCommissioning: c.CommissioningChecks,
	} {
		for _, item := range items {
			resp, err := httpClient.R().
				SetBody(map[string]any{"completed": true, "actor_id": "bench"}).
				Patch(fmt.Sprintf("%s/checks/%s/%s", commissionPath, name, item.ID))
			if err != nil {
				return "", err
			}
			if resp.IsError() {
				return "", fmt.Errorf("PATCH check %s: %s", item.ID, resp.Status())
			}
		}
	}

	if err := post(commissionPath+"/tests/run", nil, nil); err != nil {
		return "", err
	}
	for _, test := range c.TestResults {
		if err := reportResult(c.ID, test.ID); err != nil {
			return "", err
		}
	}

	for i := range 3 {
		if err := post(commissionPath+"/photos", map[string]string{
			"url":         fmt.Sprintf("https://photos.invalid/%s/%d.jpg", c.ID, i),
			"category":    "installation",
			"uploaded_by": "bench",
		}, nil); err != nil {
			return "", err
		}
	}
	if err := post(commissionPath+"/signature", map[string]string{"name": "Bench", "image_data": "data:image/png;base64,AA=="}, nil); err != nil {
		return "", err
	}

	var result models.CommissionResult
	if err := post(commissionPath+"/complete", nil, &result); err != nil {
		return "", err
	}

	if result.Status == models.CommissionPassed {
		if err := post(devicePath+"/activate", map[string]string{"customer_id": customerID}, nil); err != nil {
			return "", err
		}
	}
	return result.Status, nil
}

func reportResult(commissionID, testID string) error {
	status := models.TestPassed
	if flipCoin(*failRate) {
		status = models.TestFailed
	}
	rndMu.Lock()
	duration := 200 + rnd.Int31n(1000)
	rndMu.Unlock()

	if flipCoin(0.5) {
		return post(fmt.Sprintf("/commissions/%s/tests/%s/result", commissionID, testID), map[string]any{
			"status":      status,
			"duration_ms": duration,
		}, nil)
	}

	req, err := structpb.NewStruct(map[string]any{
		"commission_id": commissionID,
		"test_id":       testID,
		"status":        string(status),
		"duration_ms":   int(duration),
	})
	if err != nil {
		return err
	}
	_, err = grpcClient.ReportTestResult(context.Background(), req)
	return err
}
