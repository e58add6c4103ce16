//go:build lambda

package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/serverless"
)

func main() {
	lambda.Start(serverless.Handle)
}
