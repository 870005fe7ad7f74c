// Command lambda serves the API from AWS Lambda behind an API Gateway HTTP API.
package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"orgconfig/infrastructure/config"
	"orgconfig/infrastructure/di"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// runtime holds what one execution environment builds on its first
// invocation. Environments are frozen rather than shut down, so the
// container cleanup is never called.
type runtime struct {
	proxy  *chiadapter.ChiLambdaV2
	logger *zap.Logger
}

var (
	bootOnce sync.Once
	booted   *runtime
	bootErr  error

	invocations atomic.Int64
)

func boot() (*runtime, error) {
	bootOnce.Do(func() {
		started := time.Now()

		cfg, err := config.Load()
		if err != nil {
			bootErr = fmt.Errorf("load configuration: %w", err)
			return
		}
		container, _, err := di.InitializeContainer(context.Background(), cfg)
		if err != nil {
			bootErr = fmt.Errorf("initialize container: %w", err)
			return
		}
		mux, ok := container.Handler.(*chi.Mux)
		if !ok {
			bootErr = fmt.Errorf("http handler is %T, want *chi.Mux", container.Handler)
			return
		}

		booted = &runtime{proxy: chiadapter.NewV2(mux), logger: container.Logger}
		booted.logger.Info("Lambda environment ready",
			zap.String("environment", cfg.Environment),
			zap.Duration("initDuration", time.Since(started)),
		)
	})
	return booted, bootErr
}

func handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	rt, err := boot()
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}

	n := invocations.Add(1)
	rt.logger.Debug("Lambda invocation",
		zap.String("method", req.RequestContext.HTTP.Method),
		zap.String("path", req.RequestContext.HTTP.Path),
		zap.String("awsRequestId", req.RequestContext.RequestID),
		zap.Bool("coldStart", n == 1),
	)
	return rt.proxy.ProxyWithContextV2(ctx, req)
}

func main() {
	lambda.Start(handle)
}
