package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/samvad-hq/competera-client/internal/domain"
)

type fakeSQS struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQS) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-456")}, nil
}

func queueSink(api sqsAPI) *sink {
	return newSink(PublisherConfig{ID: "queue", Type: TypeSQS}, sendToQueue(api, "https://example.com/queue"), nil)
}

func TestQueueSinkSendsEvent(t *testing.T) {
	api := &fakeSQS{}
	if err := queueSink(api).Publish(context.Background(), NewEvent("competera", domain.ProbeResult{ID: "p1", OK: true})); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if api.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(api.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := api.input.MessageAttributes["status"]
	if !ok || aws.ToString(attr.StringValue) != "up" || aws.ToString(attr.DataType) != "String" {
		t.Fatalf("status attribute missing or wrong: %#v", attr)
	}
	if got := aws.ToString(api.input.MessageAttributes["service"].StringValue); got != "competera" {
		t.Fatalf("service attribute = %q", got)
	}
	if !strings.Contains(aws.ToString(api.input.MessageBody), `"probe":{"id":"p1"`) {
		t.Fatalf("MessageBody missing probe: %s", aws.ToString(api.input.MessageBody))
	}
}

func TestQueueSinkWrapsSendError(t *testing.T) {
	err := queueSink(&fakeSQS{err: errors.New("boom")}).Publish(context.Background(), Event{})
	if err == nil || !strings.Contains(err.Error(), "send message to sqs") {
		t.Fatalf("expected wrapped sqs error, got %v", err)
	}
}

func TestTopicSinkMarksDownEvents(t *testing.T) {
	api := &fakeSNS{}
	s := newSink(PublisherConfig{ID: "alerts", Type: TypeSNS}, sendToTopic(api, "arn:aws:sns:::topic"), nil)

	if err := s.Publish(context.Background(), NewEvent("competera", domain.ProbeResult{ErrorCode: 401})); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := aws.ToString(api.input.TopicArn); got != "arn:aws:sns:::topic" {
		t.Fatalf("TopicArn = %s", got)
	}
	if got := aws.ToString(api.input.MessageAttributes["status"].StringValue); got != "down" {
		t.Fatalf("status attribute = %q", got)
	}
	if !strings.Contains(aws.ToString(api.input.Message), `"error_code":401`) {
		t.Fatalf("Message missing error_code: %s", aws.ToString(api.input.Message))
	}

	api.err = errors.New("throttled")
	if err := s.Publish(context.Background(), Event{}); err == nil {
		t.Fatalf("expected error from Publish")
	}
}
