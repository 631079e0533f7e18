package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"waterwatch.io/commissioning-service/pkg/models"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

type InitializeCommissionRequest struct {
	DeviceID    string `json:"device_id" zog:"device_id"`
	OrderID     string `json:"order_id" zog:"order_id"`
	InstallerID string `json:"installer_id" zog:"installer_id"`
}

var initializeCommissionRequestSchema = z.Struct(z.Shape{
	"DeviceID":    z.String().Min(1).Required(),
	"OrderID":     z.String().Min(1).Required(),
	"InstallerID": z.String().Min(1).Required(),
})

func (rs *RestfulServer) PostCommission(c *gin.Context) {
	var req InitializeCommissionRequest
	if err := initializeCommissionRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if !rs.CheckLimiter(c, req.DeviceID) {
		return
	}

	commission, err := rs.Fleet.Commission.InitializeCommission(c.Request.Context(), req.DeviceID, req.OrderID, req.InstallerID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, commission)
}

func (rs *RestfulServer) GetCommission(c *gin.Context) {
	commissionID := c.Param("commission_id")

	if !rs.CheckLimiter(c, commissionID) {
		return
	}

	commission, err := rs.Fleet.Commission.GetCommission(c.Request.Context(), commissionID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, commission)
}

func (rs *RestfulServer) GetReadiness(c *gin.Context) {
	commissionID := c.Param("commission_id")

	if !rs.CheckLimiter(c, commissionID) {
		return
	}

	readiness, err := rs.Fleet.Commission.Readiness(c.Request.Context(), commissionID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gates":        readiness,
		"can_complete": readiness.CanComplete(),
		"unmet":        readiness.Unmet(),
	})
}

type StartCommissionRequest struct {
	InstallerID string `json:"installer_id" zog:"installer_id"`
}

var startCommissionRequestSchema = z.Struct(z.Shape{
	"InstallerID": z.String(),
})

func (rs *RestfulServer) PostStart(c *gin.Context) {
	commissionID := c.Param("commission_id")

	if !rs.CheckLimiter(c, commissionID) {
		return
	}

	var req StartCommissionRequest
	if hasBody(c) {
		if err := startCommissionRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err})
			return
		}
	}

	commission, err := rs.Fleet.Commission.StartCommission(c.Request.Context(), commissionID, req.InstallerID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, commission)
}

type UpdateCheckRequest struct {
	Completed bool   `json:"completed" zog:"completed"`
	Notes     string `json:"notes" zog:"notes"`
	ActorID   string `json:"actor_id" zog:"actor_id"`
}

var updateCheckRequestSchema = z.Struct(z.Shape{
	"Completed": z.Bool(),
	"Notes":     z.String(),
	"ActorID":   z.String().Min(1).Required(),
})

func (rs *RestfulServer) PatchCheck(c *gin.Context) {
	commissionID := c.Param("commission_id")

	if !rs.CheckLimiter(c, commissionID) {
		return
	}

	var req UpdateCheckRequest
	if err := updateCheckRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	commission, err := rs.Fleet.Commission.UpdateCheck(
		c.Request.Context(),
		commissionID,
		models.ChecklistName(c.Param("checklist")),
		c.Param("item_id"),
		req.Completed,
		req.Notes,
		req.ActorID,
	)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, commission)
}

type RunTestsRequest struct {
	TestIDs []string `json:"test_ids" zog:"test_ids"`
}

var runTestsRequestSchema = z.Struct(z.Shape{
	"TestIDs": z.Slice(z.String().Min(1)),
})

// PostRunTests answers 202: the hardware reports results later.
func (rs *RestfulServer) PostRunTests(c *gin.Context) {
	commissionID := c.Param("commission_id")

	if !rs.CheckLimiter(c, commissionID) {
		return
	}

	var req RunTestsRequest
	if hasBody(c) {
		if err := runTestsRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err})
			return
		}
	}

	commission, err := rs.Fleet.Commission.RunTests(c.Request.Context(), commissionID, req.TestIDs)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, commission)
}

type TestResultRequest struct {
	Status        string `json:"status" zog:"status"`
	DurationMs    int    `json:"duration_ms" zog:"duration_ms"`
	Details       string `json:"details" zog:"details"`
	ExpectedValue string `json:"expected_value" zog:"expected_value"`
	ActualValue   string `json:"actual_value" zog:"actual_value"`
}

var testResultRequestSchema = z.Struct(z.Shape{
	"Status":        z.String().OneOf([]string{string(models.TestPassed), string(models.TestFailed)}).Required(),
	"DurationMs":    z.Int().GTE(0),
	"Details":       z.String(),
	"ExpectedValue": z.String(),
	"ActualValue":   z.String(),
})

func (rs *RestfulServer) PostTestResult(c *gin.Context) {
	commissionID := c.Param("commission_id")

	if !rs.CheckLimiter(c, commissionID) {
		return
	}

	var req TestResultRequest
	if err := testResultRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	applied, err := rs.Fleet.Commission.UpdateTestResult(c.Request.Context(), commissionID, c.Param("test_id"), models.TestResultUpdate{
		Status:        models.TestStatus(req.Status),
		DurationMs:    req.DurationMs,
		Details:       req.Details,
		ExpectedValue: req.ExpectedValue,
		ActualValue:   req.ActualValue,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applied": applied})
}

type PhotoRequest struct {
	URL        string `json:"url" zog:"url"`
	Caption    string `json:"caption" zog:"caption"`
	Category   string `json:"category" zog:"category"`
	UploadedBy string `json:"uploaded_by" zog:"uploaded_by"`
}

var photoRequestSchema = z.Struct(z.Shape{
	"URL":        z.String().URL().Required(),
	"Caption":    z.String(),
	"Category":   z.String(),
	"UploadedBy": z.String().Min(1).Required(),
})

func (rs *RestfulServer) PostPhoto(c *gin.Context) {
	commissionID := c.Param("commission_id")

	if !rs.CheckLimiter(c, commissionID) {
		return
	}

	var req PhotoRequest
	if err := photoRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	photo, err := rs.Fleet.Commission.UploadPhoto(c.Request.Context(), commissionID, models.PhotoInput{
		URL:        req.URL,
		Caption:    req.Caption,
		Category:   req.Category,
		UploadedBy: req.UploadedBy,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, photo)
}

type SignatureRequest struct {
	Name      string `json:"name" zog:"name"`
	ImageData string `json:"image_data" zog:"image_data"`
}

var signatureRequestSchema = z.Struct(z.Shape{
	"Name":      z.String().Min(1).Required(),
	"ImageData": z.String().Min(1).Required(),
})

func (rs *RestfulServer) PostSignature(c *gin.Context) {
	commissionID := c.Param("commission_id")

	if !rs.CheckLimiter(c, commissionID) {
		return
	}

	var req SignatureRequest
	if err := signatureRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	commission, err := rs.Fleet.Commission.SubmitSignature(c.Request.Context(), commissionID, models.SignatureInput{
		Name:      req.Name,
		ImageData: req.ImageData,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, commission)
}

func (rs *RestfulServer) PostComplete(c *gin.Context) {
	commissionID := c.Param("commission_id")

	if !rs.CheckLimiter(c, commissionID) {
		return
	}

	result, err := rs.Fleet.Commission.CompleteCommission(c.Request.Context(), commissionID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type CancelRequest struct {
	Reason string `json:"reason" zog:"reason"`
}

var cancelRequestSchema = z.Struct(z.Shape{
	"Reason": z.String().Min(1).Required(),
})

func (rs *RestfulServer) PostCancel(c *gin.Context) {
	commissionID := c.Param("commission_id")

	if !rs.CheckLimiter(c, commissionID) {
		return
	}

	var req CancelRequest
	if err := cancelRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	commission, err := rs.Fleet.Commission.CancelCommission(c.Request.Context(), commissionID, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, commission)
}
