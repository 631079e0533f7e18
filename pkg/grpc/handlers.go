package grpc

import (
	"context"
	"errors"

	z "github.com/Oudwins/zog"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"waterwatch.io/commissioning-service/pkg/common"
	"waterwatch.io/commissioning-service/pkg/fleet"
	"waterwatch.io/commissioning-service/pkg/models"
)

type reportTestResultRequest struct {
	CommissionID  string `zog:"commission_id"`
	TestID        string `zog:"test_id"`
	Status        string `zog:"status"`
	DurationMs    int    `zog:"duration_ms"`
	Details       string `zog:"details"`
	ExpectedValue string `zog:"expected_value"`
	ActualValue   string `zog:"actual_value"`
}

var reportTestResultSchema = z.Struct(z.Shape{
	"CommissionID":  z.String().Min(1).Required(),
	"TestID":        z.String().Min(1).Required(),
	"Status":        z.String().OneOf([]string{string(models.TestPassed), string(models.TestFailed)}).Required(),
	"DurationMs":    z.Int().GTE(0),
	"Details":       z.String(),
	"ExpectedValue": z.String(),
	"ActualValue":   z.String(),
})

type readinessRequest struct {
	CommissionID string `zog:"commission_id"`
}

var readinessSchema = z.Struct(z.Shape{
	"CommissionID": z.String().Min(1).Required(),
})

func (s *BridgeServer) ReportTestResult(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in reportTestResultRequest
	if errs := reportTestResultSchema.Parse(req.AsMap(), &in); errs != nil {
		return nil, status.Errorf(codes.InvalidArgument, "validation error: %v", errs)
	}

	applied, err := s.Fleet.Commission.UpdateTestResult(ctx, in.CommissionID, in.TestID, models.TestResultUpdate{
		Status:        models.TestStatus(in.Status),
		DurationMs:    in.DurationMs,
		Details:       in.Details,
		ExpectedValue: in.ExpectedValue,
		ActualValue:   in.ActualValue,
	})
	if err != nil {
		return nil, toStatus(ReportTestResultMethod, err)
	}

	return structpb.NewStruct(map[string]any{"applied": applied})
}

func (s *BridgeServer) GetReadiness(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in readinessRequest
	if errs := readinessSchema.Parse(req.AsMap(), &in); errs != nil {
		return nil, status.Errorf(codes.InvalidArgument, "validation error: %v", errs)
	}

	readiness, err := s.Fleet.Commission.Readiness(ctx, in.CommissionID)
	if err != nil {
		return nil, toStatus(GetReadinessMethod, err)
	}

	unmet := common.Mapper(readiness.Unmet(), func(g fleet.Gate) any { return string(g) })

	return structpb.NewStruct(map[string]any{
		"pre_deployment": readiness.PreDeployment,
		"commissioning":  readiness.Commissioning,
		"tests":          readiness.Tests,
		"photos":         readiness.Photos,
		"signature":      readiness.Signature,
		"can_complete":   readiness.CanComplete(),
		"unmet":          unmet,
	})
}

func toStatus(method string, err error) error {
	switch {
	case errors.Is(err, fleet.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, fleet.ErrConflict):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, fleet.ErrBusinessRule),
		errors.Is(err, fleet.ErrInvalidTransition),
		errors.Is(err, fleet.ErrWorkflowNotReady):
		return status.Error(codes.FailedPrecondition, err.Error())
	}

	common.GetLoggerWith(common.LoggerNameGrpcServer).Error("Request failed",
		zap.String("method", method),
		zap.Error(err),
	)
	return status.Error(codes.Internal, "internal error")
}
