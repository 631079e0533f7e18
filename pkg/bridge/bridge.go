package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	z "github.com/Oudwins/zog"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
	"waterwatch.io/commissioning-service/pkg/common"
	"waterwatch.io/commissioning-service/pkg/fleet"
	"waterwatch.io/commissioning-service/pkg/models"
)

const (
	runTopicSuffix    = "tests/run"
	resultTopicSuffix = "tests/result"

	defaultQoS = byte(1)
)

var (
	ErrRateLimited    = errors.New("test results rate limited")
	ErrDeviceMismatch = errors.New("test result published for another device")
)

// RunRequest asks the firmware on one device to execute tests.
type RunRequest struct {
	CommissionID string    `json:"commission_id"`
	DeviceID     string    `json:"device_id"`
	Tests        []string  `json:"tests"`
	RequestedAt  time.Time `json:"requested_at"`
}

// ResultReport is one finished test as reported by the device.
type ResultReport struct {
	CommissionID  string `json:"commission_id" zog:"commission_id"`
	TestID        string `json:"test_id" zog:"test_id"`
	Status        string `json:"status" zog:"status"`
	DurationMs    int    `json:"duration_ms" zog:"duration_ms"`
	Details       string `json:"details" zog:"details"`
	ExpectedValue string `json:"expected_value" zog:"expected_value"`
	ActualValue   string `json:"actual_value" zog:"actual_value"`
}

var resultReportSchema = z.Struct(z.Shape{
	"CommissionID":  z.String().Min(1).Required(),
	"TestID":        z.String().Min(1).Required(),
	"Status":        z.String().OneOf([]string{string(models.TestPassed), string(models.TestFailed)}).Required(),
	"DurationMs":    z.Int().GTE(0),
	"Details":       z.String(),
	"ExpectedValue": z.String(),
	"ActualValue":   z.String(),
})

// Connect opens a paho client against the broker.
func Connect(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return client, nil
}

// Bridge carries hardware test runs to devices over MQTT and feeds the
// results back into the commissioning workflow. It satisfies
// fleet.ITestBridge.
type Bridge struct {
	client  mqtt.Client
	prefix  string
	qos     byte
	limiter *fleet.RateLimiterStore
	logger  *zap.Logger

	commission fleet.ICommission
}

func New(client mqtt.Client, topicPrefix string, limiter *fleet.RateLimiterStore) *Bridge {
	return &Bridge{
		client:  client,
		prefix:  strings.Trim(topicPrefix, "/"),
		qos:     defaultQoS,
		limiter: limiter,
		logger:  common.GetLoggerWith(common.LoggerNameBridge),
	}
}

func (b *Bridge) RunTopic(deviceID string) string {
	return fmt.Sprintf("%s/%s/%s", b.prefix, deviceID, runTopicSuffix)
}

func (b *Bridge) ResultTopicFilter() string {
	return fmt.Sprintf("%s/+/%s", b.prefix, resultTopicSuffix)
}

func (b *Bridge) Dispatch(ctx context.Context, commissionID, deviceID string, testIDs []string) error {
	payload, err := json.Marshal(RunRequest{
		CommissionID: commissionID,
		DeviceID:     deviceID,
		Tests:        testIDs,
		RequestedAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	topic := b.RunTopic(deviceID)
	token := b.client.Publish(topic, b.qos, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("publish to %s: %w", topic, ctx.Err())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, err)
	}

	b.logger.Info("Test run published",
		zap.String("topic", topic),
		zap.String("commission_id", commissionID),
		zap.Strings("tests", testIDs),
	)
	return nil
}

// Listen subscribes to result reports from every device and applies them
// through commission.
func (b *Bridge) Listen(commission fleet.ICommission) error {
	b.commission = commission

	filter := b.ResultTopicFilter()
	token := b.client.Subscribe(filter, b.qos, func(_ mqtt.Client, msg mqtt.Message) {
		if err := b.HandleResult(context.Background(), msg.Topic(), msg.Payload()); err != nil {
			b.logger.Warn("Error handling test result", zap.String("topic", msg.Topic()), zap.Error(err))
		}
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", filter, token.Error())
	}

	b.logger.Info("Listening for test results", zap.String("topic", filter))
	return nil
}

// HandleResult decodes one report and applies it. Reports whose topic names a
// device other than the commission's are dropped. Reports for tests that are
// not running are ignored by the workflow and only logged here.
func (b *Bridge) HandleResult(ctx context.Context, topic string, payload []byte) error {
	if b.commission == nil {
		return errors.New("bridge is not listening")
	}

	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return fmt.Errorf("decode result on %s: %w", topic, err)
	}

	var report ResultReport
	if errs := resultReportSchema.Parse(raw, &report); errs != nil {
		return fmt.Errorf("invalid result on %s: %v", topic, errs)
	}

	if !b.limiter.Allow(report.CommissionID) {
		return fmt.Errorf("%w: commission %s", ErrRateLimited, report.CommissionID)
	}

	// a device may only report into its own commission
	c, err := b.commission.GetCommission(ctx, report.CommissionID)
	if err != nil {
		return err
	}
	deviceID := deviceFromTopic(topic)
	if deviceID != c.DeviceID {
		return fmt.Errorf("%w: %s reported for commission %s of device %s",
			ErrDeviceMismatch, deviceID, c.ID, c.DeviceID)
	}

	applied, err := b.commission.UpdateTestResult(ctx, report.CommissionID, report.TestID, models.TestResultUpdate{
		Status:        models.TestStatus(report.Status),
		DurationMs:    report.DurationMs,
		Details:       report.Details,
		ExpectedValue: report.ExpectedValue,
		ActualValue:   report.ActualValue,
	})
	if err != nil {
		return err
	}

	b.logger.Info("Test result handled",
		zap.String("device_id", deviceID),
		zap.String("commission_id", report.CommissionID),
		zap.String("test_id", report.TestID),
		zap.Bool("applied", applied),
	)
	return nil
}

func deviceFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-3]
}

func (b *Bridge) Close() {
	if b.client.IsConnected() {
		b.client.Disconnect(250)
	}
}

var _ fleet.ITestBridge = (*Bridge)(nil)
