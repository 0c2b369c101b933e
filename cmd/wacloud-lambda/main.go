// Command wacloud-lambda serves the webhook from AWS Lambda behind an API
// Gateway proxy integration. Settings are read from WACLOUD_ prefixed
// environment variables; with WACLOUD_SQS_QUEUE set every event is forwarded
// to that queue.
//
// Forwarding runs on offloaded goroutines, which Lambda may freeze once the
// response is returned. Publish from the handler itself when every event
// must reach the queue.
package main

import (
	"context"

	"github.com/Abraxas-365/wacloud/configx"
	"github.com/Abraxas-365/wacloud/eventx"
	"github.com/Abraxas-365/wacloud/logx"
	"github.com/Abraxas-365/wacloud/whatsappx"
	"github.com/Abraxas-365/wacloud/whatsappx/middleware"
	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	cfg, err := configx.NewBuilder().
		FromEnv("WACLOUD_").
		RequireEnv("WACLOUD_WHATSAPP_SECRET", "WACLOUD_WHATSAPP_VERIFY").
		Build()
	if err != nil {
		logx.Fatal("wacloud-lambda: %v", err)
	}

	client := whatsappx.New(whatsappx.ConfigFromSource(cfg))
	if queueURL := cfg.Get("sqs.queue").AsString(); queueURL != "" {
		pub, err := eventx.NewSQSPublisherFromEnv(context.Background(), queueURL)
		if err != nil {
			logx.Fatal("wacloud-lambda: %v", err)
		}
		client.Forward(pub)
	}

	lambda.Start(middleware.Lambda(client))
}
