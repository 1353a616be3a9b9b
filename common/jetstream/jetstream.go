package jetstream

import (
	"context"
	"github.com/nats-io/nats.go/jetstream"
	"ru-ticket/common/constant"
)

// Publisher is the part of jetstream.JetStream the services publish through.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

var _ Publisher = (jetstream.JetStream)(nil)

func CreateQueueStream(ctx context.Context, js jetstream.JetStream, maxBytes int64) (jetstream.Stream, error) {
	if maxBytes == 0 {
		maxBytes = -1
	}

	cfg := jetstream.StreamConfig{
		Name:      constant.QueueStreamName,
		Retention: jetstream.WorkQueuePolicy,
		Subjects:  []string{constant.AllWildcard},
		MaxBytes:  maxBytes,
	}

	return js.CreateOrUpdateStream(ctx, cfg)
}
