package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"waterwatch.io/commissioning-service/pkg/common"
	"waterwatch.io/commissioning-service/pkg/fleet"
	"waterwatch.io/commissioning-service/pkg/models"
)

// DeviceSnapshot is what the CRM keeps about a deployed unit.
type DeviceSnapshot struct {
	DeviceID         string                        `json:"device_id"`
	SerialNumber     string                        `json:"serial_number"`
	DeviceType       string                        `json:"device_type"`
	Lifecycle        models.LifecycleState         `json:"lifecycle"`
	CommissionStatus models.DeviceCommissionStatus `json:"commission_status"`
	DealID           string                        `json:"deal_id,omitempty"`
	CustomerID       string                        `json:"customer_id,omitempty"`
	SiteID           string                        `json:"site_id,omitempty"`
	CommissionID     string                        `json:"commission_id,omitempty"`
	CommissionedAt   *time.Time                    `json:"commissioned_at,omitempty"`
	ActivatedAt      *time.Time                    `json:"activated_at,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

// Notifier pushes device snapshots to the CRM REST API. It satisfies
// fleet.ISyncNotifier.
type Notifier struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewNotifier(baseURL, token string) *Notifier {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}

	return &Notifier{
		httpClient: client,
		logger:     common.GetLoggerWith(common.LoggerNameCRM),
	}
}

func Snapshot(device *models.Device, dealID string) DeviceSnapshot {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return DeviceSnapshot{
		DeviceID:         device.ID,
		SerialNumber:     device.SerialNumber,
		DeviceType:       device.DeviceType,
		Lifecycle:        device.Lifecycle,
		CommissionStatus: device.CommissionStatus,
		DealID:           dealID,
		CustomerID:       deref(device.CustomerID),
		SiteID:           deref(device.SiteID),
		CommissionID:     deref(device.CommissionID),
		CommissionedAt:   device.CommissionedAt,
		ActivatedAt:      device.ActivatedAt,
	}
}

func (n *Notifier) SyncDevice(ctx context.Context, device *models.Device, dealID string) error {
	if device == nil {
		return fmt.Errorf("%w: no device to sync", fleet.ErrExternalSync)
	}

	n.logger.Info("Syncing device to CRM",
		zap.String("device_id", device.ID),
		zap.String("lifecycle", string(device.Lifecycle)),
		zap.String("deal_id", dealID),
	)

	var failure ErrorResponse
	resp, err := n.httpClient.R().
		SetContext(ctx).
		SetPathParam("device_id", device.ID).
		SetBody(Snapshot(device, dealID)).
		SetError(&failure).
		Put("/devices/{device_id}")
	if err != nil {
		return fmt.Errorf("%w: crm request: %w", fleet.ErrExternalSync, err)
	}

	if resp.IsError() {
		n.logger.Error("CRM rejected device sync",
			zap.String("device_id", device.ID),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("message", failure.Message),
		)
		return fmt.Errorf("%w: crm returned %d: %s", fleet.ErrExternalSync, resp.StatusCode(), failure.Message)
	}

	return nil
}

var _ fleet.ISyncNotifier = (*Notifier)(nil)
