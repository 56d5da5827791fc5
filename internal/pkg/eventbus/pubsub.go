// Package eventbus publishes domain events to Google Cloud Pub/Sub.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// Publisher sends one message per call and waits for the server ack.
type Publisher interface {
	Publish(ctx context.Context, eventType string, data []byte) (string, error)
	Close() error
}

type PubSubPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewPubSubPublisher uses Application Default Credentials unless
// credentialsJSON is provided. The topic is created when missing.
func NewPubSubPublisher(ctx context.Context, projectID, topic, credentialsJSON string) (*PubSubPublisher, error) {
	if projectID == "" {
		return nil, errors.New("pubsub project id is required")
	}
	if topic == "" {
		return nil, errors.New("pubsub topic is required")
	}

	var opts []option.ClientOption
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	t := client.Topic(topic)
	ok, err := t.Exists(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to check topic %q: %w", topic, err)
	}
	if !ok {
		if t, err = client.CreateTopic(ctx, topic); err != nil {
			client.Close()
			return nil, fmt.Errorf("create topic %q: %w", topic, err)
		}
	}

	slog.Info("pubsub publisher ready", "project_id", projectID, "topic", topic)
	return &PubSubPublisher{client: client, topic: t}, nil
}

func (p *PubSubPublisher) Publish(ctx context.Context, eventType string, data []byte) (string, error) {
	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"event_type": eventType},
	})
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to publish %s: %w", eventType, err)
	}
	return id, nil
}

// Close flushes pending publishes and releases the client.
func (p *PubSubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
