package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"waterwatch.io/commissioning-service/pkg/common"
	"waterwatch.io/commissioning-service/pkg/fleet"
)

type RestfulServer struct {
	Server           *gin.Engine
	Fleet            *fleet.Fleet
	RateLimiterStore *fleet.RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(subject string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	}
	return rs.RateLimiterStore.GetLimiter(subject)
}

// CheckLimiter answers 429 and returns false when subject is over its rate.
func (rs *RestfulServer) CheckLimiter(c *gin.Context, subject string) bool {
	if rs.RateLimiterStore.Allow(subject) {
		return true
	}
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
	return false
}

func (rs *RestfulServer) SetLimiter(subject string, subjectRate float64, subjectBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(subject, rate.Limit(subjectRate), subjectBurst)
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.GET("/metrics", gin.WrapH(promhttp.Handler()))
	rs.Server.POST("/limiter/:subject", rs.PostLimiter)

	rs.Server.POST("/devices", rs.PostDevice)
	rs.Server.POST("/devices/transition/bulk", rs.PostBulkTransition)

	devices := rs.Server.Group("/devices/:device_id")
	{
		devices.GET("", rs.GetDevice)
		devices.GET("/transitions", rs.GetTransitions)
		devices.POST("/transition", rs.PostTransition)
		devices.POST("/allocate", rs.PostAllocate)
		devices.POST("/ship", rs.PostShip)
		devices.POST("/deliver", rs.PostDeliver)
		devices.POST("/install", rs.PostInstall)
		devices.POST("/activate", rs.PostActivate)
		devices.POST("/maintenance", rs.PostMaintenance)
		devices.POST("/decommission", rs.PostDecommission)
		devices.POST("/inventory", rs.PostReturnToInventory)
	}

	rs.Server.POST("/commissions", rs.PostCommission)

	commissions := rs.Server.Group("/commissions/:commission_id")
	{
		commissions.GET("", rs.GetCommission)
		commissions.GET("/readiness", rs.GetReadiness)
		commissions.POST("/start", rs.PostStart)
		commissions.PATCH("/checks/:checklist/:item_id", rs.PatchCheck)
		commissions.POST("/tests/run", rs.PostRunTests)
		commissions.POST("/tests/:test_id/result", rs.PostTestResult)
		commissions.POST("/photos", rs.PostPhoto)
		commissions.POST("/signature", rs.PostSignature)
		commissions.POST("/complete", rs.PostComplete)
		commissions.POST("/cancel", rs.PostCancel)
	}
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// writeError maps workflow errors onto status codes. Anything unrecognised
// is a 500 and gets logged.
func writeError(c *gin.Context, err error) {
	var transitionErr *fleet.InvalidTransitionError
	var ruleErr *fleet.BusinessRuleError
	var notReady *fleet.WorkflowNotReadyError

	switch {
	case errors.Is(err, fleet.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
			"from":  transitionErr.From,
			"to":    transitionErr.To,
		})
	case errors.Is(err, fleet.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &ruleErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "rule": ruleErr.Rule})
	case errors.As(err, &notReady):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": err.Error(), "unmet": notReady.Unmet})
	default:
		common.GetLoggerWith(common.LoggerNameRestfulServer).Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func hasBody(c *gin.Context) bool {
	return c.Request.Body != nil && c.Request.ContentLength != 0
}
