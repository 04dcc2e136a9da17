package publishers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// sqsAPI is the part of *sqs.Client the queue sink calls.
type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

func newSQSPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.SQS == nil {
		return nil, fmt.Errorf("publisher %q missing sqs configuration", cfg.ID)
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.SQS.Region, cfg.SQS.AWSCredentials)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newSink(cfg, sendToQueue(sqs.NewFromConfig(awsCfg), cfg.SQS.QueueURL), log), nil
}

// sendToQueue delivers each event as one SQS message.
func sendToQueue(api sqsAPI, queueURL string) sendFunc {
	return func(ctx context.Context, body []byte, attrs map[string]string) (string, error) {
		out, err := api.SendMessage(ctx, &sqs.SendMessageInput{
			QueueUrl:    aws.String(queueURL),
			MessageBody: aws.String(string(body)),
			MessageAttributes: stringAttributes(attrs, func(dataType, value *string) types.MessageAttributeValue {
				return types.MessageAttributeValue{DataType: dataType, StringValue: value}
			}),
		})
		if err != nil {
			return "", fmt.Errorf("send message to sqs: %w", err)
		}
		return aws.ToString(out.MessageId), nil
	}
}
