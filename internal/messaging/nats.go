package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"weshare/internal/event"
)

// SubjectPrefix prefixes every outbound domain event subject.
const SubjectPrefix = "weshare.events."

// Subject returns the NATS subject of an event name, e.g. weshare.events.ScheduleCreated.
func Subject(name string) string {
	return SubjectPrefix + name
}

// Publisher is the part of *nats.Conn the bridge needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Envelope is the JSON body of an outbound message.
type Envelope struct {
	Name       string      `json:"name"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    event.Event `json:"payload"`
}

// Bridge forwards committed domain events to NATS.
type Bridge struct {
	pub Publisher
	log *slog.Logger
	now func() time.Time
}

func NewBridge(pub Publisher, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{pub: pub, log: logger, now: time.Now}
}

// Register subscribes the bridge to every event after commit, so rolled back work is never announced.
func (b *Bridge) Register(bus *event.Bus) {
	bus.SubscribeAll(event.AfterCommit, b.forward)
}

func (b *Bridge) forward(ctx context.Context, e event.Event) error {
	data, err := json.Marshal(Envelope{Name: e.Name(), OccurredAt: b.now().UTC(), Payload: e})
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.Name(), err)
	}
	if err := b.pub.Publish(Subject(e.Name()), data); err != nil {
		return fmt.Errorf("publish %s: %w", e.Name(), err)
	}
	b.log.DebugContext(ctx, "event published", "subject", Subject(e.Name()))
	return nil
}

// Connect dials NATS and keeps reconnecting in the background.
func Connect(url string, logger *slog.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = slog.Default()
	}
	nc, err := nats.Connect(url,
		nats.Name("weshare-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return nc, nil
}
