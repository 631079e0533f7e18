package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"waterwatch.io/commissioning-service/pkg/bridge"
	"waterwatch.io/commissioning-service/pkg/common"
	"waterwatch.io/commissioning-service/pkg/crm"
	"waterwatch.io/commissioning-service/pkg/fleet"
	commissionGrpc "waterwatch.io/commissioning-service/pkg/grpc"
	commissionHttp "waterwatch.io/commissioning-service/pkg/http"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := common.LoadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *common.Config) error {
	logger := common.GetLogger()

	templates, err := fleet.LoadTemplates(cfg.TemplatesPath)
	if err != nil {
		return err
	}

	fleetCore := fleet.Fleet{
		Db:        *openDB(cfg),
		Templates: templates,
	}
	fleetCore.WithServices(fleet.ServiceOpts{
		Lifecycle:  fleetCore.GetILifecycle(),
		Commission: fleetCore.GetICommission(),
	})

	var notifier fleet.ISyncNotifier
	if cfg.CRMBaseURL != "" {
		notifier = crm.NewNotifier(cfg.CRMBaseURL, cfg.CRMToken)
	} else {
		logger.Warn("No CRM base url configured, device sync is disabled")
	}
	dispatcher := fleet.NewSyncDispatcher(notifier, cfg.SyncQueueSize)
	defer dispatcher.Close()
	fleetCore.WithServices(fleet.ServiceOpts{Sync: dispatcher})

	newLimiterStore := func() *fleet.RateLimiterStore {
		return fleet.NewRateLimiterStore(rate.Limit(cfg.DefaultRate), cfg.DefaultBurst)
	}

	if cfg.MQTTBroker != "" {
		client, err := bridge.Connect(cfg.MQTTBroker, cfg.MQTTClientID)
		if err != nil {
			return err
		}
		testBridge := bridge.New(client, cfg.MQTTTopicPrefix, newLimiterStore())
		defer testBridge.Close()

		if err := testBridge.Listen(fleetCore.Commission); err != nil {
			return err
		}
		fleetCore.WithServices(fleet.ServiceOpts{Bridge: testBridge})
	} else {
		logger.Warn("No MQTT broker configured, hardware tests must be reported over gRPC")
	}

	errCh := make(chan error, 2)
	limiterField := zap.String("default_limiter",
		fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", cfg.DefaultRate, cfg.DefaultBurst))

	var grpcServer *grpc.Server
	if cfg.GrpcHostPort != "" {
		bridgeServer := commissionGrpc.BridgeServer{
			Fleet:            &fleetCore,
			RateLimiterStore: newLimiterStore(),
		}
		interceptor := bridgeServer.CreateRateLimitInterceptor([]string{
			commissionGrpc.ReportTestResultMethod,
			commissionGrpc.GetReadinessMethod,
		})
		grpcServer = grpc.NewServer(grpc.UnaryInterceptor(interceptor))
		commissionGrpc.RegisterHardwareBridgeServer(grpcServer, &bridgeServer)
		logger.Info("gRPC server created with:", limiterField)

		listener, err := net.Listen("tcp", cfg.GrpcHostPort)
		if err != nil {
			return fmt.Errorf("failed to listen: %w", err)
		}

		go func() {
			logger.Info("Starting gRPC server on " + cfg.GrpcHostPort)
			if err := grpcServer.Serve(listener); err != nil {
				errCh <- fmt.Errorf("grpc server failed to serve: %w", err)
			}
		}()
	}

	rs := &commissionHttp.RestfulServer{
		Server:           gin.Default(),
		Fleet:            &fleetCore,
		RateLimiterStore: newLimiterStore(),
	}
	rs.Setup()
	logger.Info("http server created with:", limiterField)

	httpServer := &http.Server{
		Addr:    cfg.HttpHostPort,
		Handler: rs.Server,
	}
	go func() {
		logger.Info("Starting HTTP server on " + cfg.HttpHostPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err = <-errCh:
		logger.Error("Server stopped", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Warn("HTTP shutdown incomplete", zap.Error(shutdownErr))
	}

	return err
}
