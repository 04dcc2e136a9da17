package publishers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// snsAPI is the part of *sns.Client the topic sink calls.
type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func newSNSPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.SNS == nil {
		return nil, fmt.Errorf("publisher %q missing sns configuration", cfg.ID)
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.SNS.Region, cfg.SNS.AWSCredentials)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newSink(cfg, sendToTopic(sns.NewFromConfig(awsCfg), cfg.SNS.TopicARN), log), nil
}

// sendToTopic publishes each event to an SNS topic; subscribers can filter on the attributes.
func sendToTopic(api snsAPI, topicARN string) sendFunc {
	return func(ctx context.Context, body []byte, attrs map[string]string) (string, error) {
		out, err := api.Publish(ctx, &sns.PublishInput{
			TopicArn: aws.String(topicARN),
			Message:  aws.String(string(body)),
			MessageAttributes: stringAttributes(attrs, func(dataType, value *string) types.MessageAttributeValue {
				return types.MessageAttributeValue{DataType: dataType, StringValue: value}
			}),
		})
		if err != nil {
			return "", fmt.Errorf("publish to sns: %w", err)
		}
		return aws.ToString(out.MessageId), nil
	}
}
