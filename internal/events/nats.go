package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// ChangedEvent is the wire form of a change broadcast.
type ChangedEvent struct {
	EventType  string    `json:"event_type"`
	Collection string    `json:"collection"`
	ChangedAt  time.Time `json:"changed_at"`
}

const changedSubject = "dashboard.collection.changed"

// NatsBroadcaster publishes change events so views on other devices
// can refresh. Publish failures are logged, never propagated.
type NatsBroadcaster struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewNatsBroadcaster(natsURL string, logger *zap.Logger) (*NatsBroadcaster, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, err
	}
	return &NatsBroadcaster{conn: nc, logger: logger}, nil
}

func (b *NatsBroadcaster) Changed(collection string) {
	event := ChangedEvent{
		EventType:  "collection.changed",
		Collection: collection,
		ChangedAt:  time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal change event", zap.Error(err))
		return
	}

	if err := b.conn.Publish(changedSubject, payload); err != nil {
		b.logger.Warn("Failed to publish change event",
			zap.String("collection", collection),
			zap.Error(err),
		)
	}
}

func (b *NatsBroadcaster) Close() {
	b.conn.Close()
}
