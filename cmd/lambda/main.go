package main

import (
	"context"
	"log"

	"factorindex/cmd"
	"factorindex/internal/logger"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
)

type lambdaHandler struct {
	ginLambda *ginadapter.GinLambda
}

func (m lambdaHandler) Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.FromContext(ctx).Infow("received request", "method", req.HTTPMethod, "path", req.Path)
	return m.ginLambda.ProxyWithContext(ctx, req)
}

func main() {
	deps, err := cmd.InitializeDependencies("")
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(deps)

	// scheduled refreshes come from EventBridge hitting /refresh, so no cron here
	deps.ApiHandler.JobQueue.Start(context.Background())

	handler := lambdaHandler{
		ginLambda: ginadapter.New(deps.ApiHandler.NewEngine()),
	}
	lambda.Start(handler.Handler)
}
