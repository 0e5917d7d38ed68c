package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/kailas-cloud/osintinfo/internal/app"
	"github.com/kailas-cloud/osintinfo/internal/config"
	logpkg "github.com/kailas-cloud/osintinfo/internal/logger"
	"github.com/kailas-cloud/osintinfo/internal/transport/apigw"
	"github.com/kailas-cloud/osintinfo/internal/version"
)

func main() {
	env := config.GetEnv()
	if env == "local" {
		env = "lambda"
	}

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	if err := app.ResolveSecrets(ctx, &cfg); err != nil {
		logger.Fatal("Failed to resolve secrets", zap.Error(err))
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to build app", zap.Error(err))
	}
	defer a.Close()

	logger.Info("Starting osintinfo lambda",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
	)
	lambda.Start(apigw.New(a.Handler, logger).Handle)
}
