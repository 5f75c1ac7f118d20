package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/relabs-tech/jobly/core/config"
	"github.com/relabs-tech/jobly/core/lambdaproxy"
	"github.com/relabs-tech/jobly/core/logger"
	"github.com/relabs-tech/jobly/core/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Default().WithError(err).Fatalln("cannot load configuration")
	}
	logger.InitLogger(cfg.LogLevel)

	s, err := service.New(context.Background(), cfg)
	if err != nil {
		logger.Default().WithError(err).Fatalln("cannot start service")
	}
	defer s.Close()

	lambda.Start(lambdaproxy.Handler(s.Router))
}
