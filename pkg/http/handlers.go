package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"waterwatch.io/commissioning-service/pkg/common"
	"waterwatch.io/commissioning-service/pkg/fleet"
	"waterwatch.io/commissioning-service/pkg/models"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

var lifecycleStateNames = common.Mapper(fleet.AllLifecycleStates(), func(s models.LifecycleState) string { return string(s) })

type RegisterDeviceRequest struct {
	ID           string `json:"id" zog:"id"`
	SerialNumber string `json:"serial_number" zog:"serial_number"`
	SKU          string `json:"sku" zog:"sku"`
	DeviceType   string `json:"device_type" zog:"device_type"`
}

var registerDeviceRequestSchema = z.Struct(z.Shape{
	"ID":           z.String(),
	"SerialNumber": z.String().Min(1).Required(),
	"SKU":          z.String(),
	"DeviceType":   z.String().Min(1).Required(),
})

func (rs *RestfulServer) PostDevice(c *gin.Context) {
	if !rs.CheckLimiter(c, c.ClientIP()) {
		return
	}

	var req RegisterDeviceRequest
	if err := registerDeviceRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	dev, err := rs.Fleet.Lifecycle.RegisterDevice(c.Request.Context(), &models.Device{
		ID:           req.ID,
		SerialNumber: req.SerialNumber,
		SKU:          req.SKU,
		DeviceType:   req.DeviceType,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dev)
}

func (rs *RestfulServer) GetDevice(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.CheckLimiter(c, deviceID) {
		return
	}

	dev, err := rs.Fleet.Lifecycle.GetDevice(c.Request.Context(), deviceID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"device":        dev,
		"legal_targets": fleet.LegalTargets(dev.Lifecycle),
	})
}

func (rs *RestfulServer) GetTransitions(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.CheckLimiter(c, deviceID) {
		return
	}

	transitions, err := rs.Fleet.Lifecycle.ListTransitions(c.Request.Context(), deviceID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, transitions)
}

type TransitionRequest struct {
	To             string `json:"to" zog:"to"`
	Actor          string `json:"actor" zog:"actor"`
	Reason         string `json:"reason" zog:"reason"`
	TrackingNumber string `json:"tracking_number" zog:"tracking_number"`
	Carrier        string `json:"carrier" zog:"carrier"`
	OrderID        string `json:"order_id" zog:"order_id"`
	CustomerID     string `json:"customer_id" zog:"customer_id"`
	SiteID         string `json:"site_id" zog:"site_id"`
	InstallerID    string `json:"installer_id" zog:"installer_id"`
	CommissionID   string `json:"commission_id" zog:"commission_id"`
}

var transitionRequestSchema = z.Struct(z.Shape{
	"To":             z.String().OneOf(lifecycleStateNames).Required(),
	"Actor":          z.String(),
	"Reason":         z.String(),
	"TrackingNumber": z.String(),
	"Carrier":        z.String(),
	"OrderID":        z.String(),
	"CustomerID":     z.String(),
	"SiteID":         z.String(),
	"InstallerID":    z.String(),
	"CommissionID":   z.String(),
})

func (req TransitionRequest) metadata() models.TransitionMetadata {
	return models.TransitionMetadata{
		Actor:          req.Actor,
		Reason:         req.Reason,
		TrackingNumber: req.TrackingNumber,
		Carrier:        req.Carrier,
		OrderID:        req.OrderID,
		CustomerID:     req.CustomerID,
		SiteID:         req.SiteID,
		InstallerID:    req.InstallerID,
		CommissionID:   req.CommissionID,
	}
}

func (rs *RestfulServer) PostTransition(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.CheckLimiter(c, deviceID) {
		return
	}

	var req TransitionRequest
	if err := transitionRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	outcome, err := rs.Fleet.Lifecycle.Transition(c.Request.Context(), deviceID, models.LifecycleState(req.To), req.metadata())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

type BulkTransitionRequest struct {
	DeviceIDs []string `json:"device_ids" zog:"device_ids"`
	To        string   `json:"to" zog:"to"`
	Actor     string   `json:"actor" zog:"actor"`
	Reason    string   `json:"reason" zog:"reason"`
}

var bulkTransitionRequestSchema = z.Struct(z.Shape{
	"DeviceIDs": z.Slice(z.String().Min(1)).Min(1).Required(),
	"To":        z.String().OneOf(lifecycleStateNames).Required(),
	"Actor":     z.String(),
	"Reason":    z.String(),
})

// PostBulkTransition always answers 200; per-device failures are reported
// in the body.
func (rs *RestfulServer) PostBulkTransition(c *gin.Context) {
	if !rs.CheckLimiter(c, c.ClientIP()) {
		return
	}

	var req BulkTransitionRequest
	if err := bulkTransitionRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	results := rs.Fleet.Lifecycle.BulkTransition(c.Request.Context(), req.DeviceIDs, models.LifecycleState(req.To), models.TransitionMetadata{
		Actor:  req.Actor,
		Reason: req.Reason,
	})

	c.JSON(http.StatusOK, results)
}

type AllocateRequest struct {
	OrderID string `json:"order_id" zog:"order_id"`
}

var allocateRequestSchema = z.Struct(z.Shape{
	"OrderID": z.String().Min(1).Required(),
})

func (rs *RestfulServer) PostAllocate(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.CheckLimiter(c, deviceID) {
		return
	}

	var req AllocateRequest
	if err := allocateRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	outcome, err := rs.Fleet.Lifecycle.AllocateToOrder(c.Request.Context(), deviceID, req.OrderID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

type ShipRequest struct {
	TrackingNumber string `json:"tracking_number" zog:"tracking_number"`
	Carrier        string `json:"carrier" zog:"carrier"`
}

// tracking presence is a business rule, checked by the lifecycle service
var shipRequestSchema = z.Struct(z.Shape{
	"TrackingNumber": z.String(),
	"Carrier":        z.String(),
})

func (rs *RestfulServer) PostShip(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.CheckLimiter(c, deviceID) {
		return
	}

	var req ShipRequest
	if err := shipRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	outcome, err := rs.Fleet.Lifecycle.MarkShipped(c.Request.Context(), deviceID, req.TrackingNumber, req.Carrier)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

func (rs *RestfulServer) PostDeliver(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.CheckLimiter(c, deviceID) {
		return
	}

	outcome, err := rs.Fleet.Lifecycle.MarkDelivered(c.Request.Context(), deviceID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

type InstallRequest struct {
	InstallerID string `json:"installer_id" zog:"installer_id"`
}

var installRequestSchema = z.Struct(z.Shape{
	"InstallerID": z.String(),
})

func (rs *RestfulServer) PostInstall(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.CheckLimiter(c, deviceID) {
		return
	}

	var req InstallRequest
	if err := installRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	outcome, err := rs.Fleet.Lifecycle.MarkInstalled(c.Request.Context(), deviceID, req.InstallerID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

type ActivateRequest struct {
	CustomerID string `json:"customer_id" zog:"customer_id"`
}

var activateRequestSchema = z.Struct(z.Shape{
	"CustomerID": z.String().Min(1).Required(),
})

// PostActivate goes through the commissioning workflow so the CRM hears
// about the activation.
func (rs *RestfulServer) PostActivate(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.CheckLimiter(c, deviceID) {
		return
	}

	var req ActivateRequest
	if err := activateRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	dev, err := rs.Fleet.Commission.ActivateDevice(c.Request.Context(), deviceID, req.CustomerID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dev)
}

type ReasonRequest struct {
	Reason string `json:"reason" zog:"reason"`
}

var reasonRequestSchema = z.Struct(z.Shape{
	"Reason": z.String(),
})

func (rs *RestfulServer) parseReason(c *gin.Context) (string, bool) {
	var req ReasonRequest
	if !hasBody(c) {
		return "", true
	}
	if err := reasonRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return "", false
	}
	return req.Reason, true
}

func (rs *RestfulServer) PostMaintenance(c *gin.Context) {
	rs.reasonedTransition(c, rs.Fleet.Lifecycle.SetMaintenance)
}

func (rs *RestfulServer) PostDecommission(c *gin.Context) {
	rs.reasonedTransition(c, rs.Fleet.Lifecycle.Decommission)
}

func (rs *RestfulServer) PostReturnToInventory(c *gin.Context) {
	rs.reasonedTransition(c, rs.Fleet.Lifecycle.ReturnToInventory)
}

type reasonedTransitionFn = func(ctx context.Context, deviceID, reason string) (*fleet.TransitionOutcome, error)

func (rs *RestfulServer) reasonedTransition(c *gin.Context, apply reasonedTransitionFn) {
	deviceID := c.Param("device_id")

	if !rs.CheckLimiter(c, deviceID) {
		return
	}

	reason, ok := rs.parseReason(c)
	if !ok {
		return
	}

	outcome, err := apply(c.Request.Context(), deviceID, reason)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

type LimiterRequest struct {
	Rate  float64 `json:"rate" zog:"rate"`
	Burst int     `json:"burst" zog:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"Rate":  z.Float64().GT(0).Required(),
	"Burst": z.Int().GT(0).Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	subject := c.Param("subject")

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(subject, req.Rate, req.Burst)

	c.Status(http.StatusOK)
}
