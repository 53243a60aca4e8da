package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/awmpietro/under5-screening/internal/app"
	"github.com/awmpietro/under5-screening/internal/config"
	"github.com/awmpietro/under5-screening/internal/logger"
	"github.com/awmpietro/under5-screening/internal/transport/lambdatransport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		zap.NewExample().Fatal("logger init failed", zap.Error(err))
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	svc, closeSvc, err := app.Build(context.Background(), cfg, log)
	if err != nil {
		zapLog.Fatal("service init failed", zap.Error(err))
	}
	defer closeSvc()

	h := lambdatransport.NewHandler(svc, log)
	lambda.Start(h.Handle)
}
