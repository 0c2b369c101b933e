package eventx

import (
	"context"
	"strconv"

	"github.com/Abraxas-365/wacloud/logx"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQS caps SendMessageBatch at ten entries
const sqsMaxBatch = 10

// SQSAPI is the subset of *sqs.Client the publisher needs
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	SendMessageBatch(ctx context.Context, params *sqs.SendMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error)
}

// SQSPublisher forwards events to an Amazon SQS queue as JSON bodies
type SQSPublisher struct {
	client   SQSAPI
	queueURL string
}

// NewSQSPublisher wraps an existing SQS client
func NewSQSPublisher(client SQSAPI, queueURL string) (*SQSPublisher, error) {
	if client == nil || queueURL == "" {
		return nil, ErrorRegistry.New(ErrInvalidConfiguration).
			WithDetail("reason", "sqs client and queue url are required")
	}
	return &SQSPublisher{client: client, queueURL: queueURL}, nil
}

// NewSQSPublisherFromEnv loads AWS credentials and region the default way
func NewSQSPublisherFromEnv(ctx context.Context, queueURL string) (*SQSPublisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, ErrorRegistry.New(ErrInvalidConfiguration).WithCause(err)
	}
	return NewSQSPublisher(sqs.NewFromConfig(cfg), queueURL)
}

// Publish sends one event
func (p *SQSPublisher) Publish(ctx context.Context, event Event) error {
	body, err := ToJSON(event)
	if err != nil {
		return err
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          aws.String(p.queueURL),
		MessageBody:       aws.String(string(body)),
		MessageAttributes: attributes(event),
	})
	if err != nil {
		return ErrorRegistry.New(ErrPublishFailed).
			WithCause(err).
			WithDetail("event_id", event.ID())
	}
	logx.Debug("eventx: published %s (%s) to sqs", event.Type(), event.ID())
	return nil
}

// PublishBatch sends events in chunks of ten. Entries SQS rejects are
// reported together in one error.
func (p *SQSPublisher) PublishBatch(ctx context.Context, events []Event) error {
	var failed []string
	for start := 0; start < len(events); start += sqsMaxBatch {
		end := min(start+sqsMaxBatch, len(events))

		entries := make([]types.SendMessageBatchRequestEntry, 0, end-start)
		for i, event := range events[start:end] {
			body, err := ToJSON(event)
			if err != nil {
				return err
			}
			entries = append(entries, types.SendMessageBatchRequestEntry{
				Id:                aws.String(strconv.Itoa(start + i)),
				MessageBody:       aws.String(string(body)),
				MessageAttributes: attributes(event),
			})
		}

		out, err := p.client.SendMessageBatch(ctx, &sqs.SendMessageBatchInput{
			QueueUrl: aws.String(p.queueURL),
			Entries:  entries,
		})
		if err != nil {
			return ErrorRegistry.New(ErrPublishFailed).
				WithCause(err).
				WithDetail("batch_start", start)
		}
		for _, f := range out.Failed {
			idx, _ := strconv.Atoi(aws.ToString(f.Id))
			failed = append(failed, events[idx].ID())
		}
	}

	if len(failed) > 0 {
		return ErrorRegistry.New(ErrPublishFailed).WithDetail("failed_event_ids", failed)
	}
	return nil
}

func attributes(event Event) map[string]types.MessageAttributeValue {
	return map[string]types.MessageAttributeValue{
		"event_type": {DataType: aws.String("String"), StringValue: aws.String(event.Type())},
		"source":     {DataType: aws.String("String"), StringValue: aws.String(event.Source())},
	}
}
