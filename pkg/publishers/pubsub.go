package publishers

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

func newPubSubPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.PubSub == nil {
		return nil, fmt.Errorf("publisher %q missing pubsub configuration", cfg.ID)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var opts []option.ClientOption
	if cfg.PubSub.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.PubSub.CredentialsFile))
	}
	client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	topic := client.Topic(cfg.PubSub.Topic)
	s := newSink(cfg, sendToPubSub(topic), log)
	s.close = func() error {
		topic.Stop()
		return client.Close()
	}
	return s, nil
}

// sendToPubSub publishes and blocks until the server acknowledges the message.
func sendToPubSub(topic *pubsub.Topic) sendFunc {
	return func(ctx context.Context, body []byte, attrs map[string]string) (string, error) {
		id, err := topic.Publish(ctx, &pubsub.Message{Data: body, Attributes: attrs}).Get(ctx)
		if err != nil {
			return "", fmt.Errorf("publish to pubsub: %w", err)
		}
		return id, nil
	}
}
