package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/roadbook/roadbook/internal/core/domain"
)

// Publisher implements ports.EventPublisher using NATS JetStream. Route
// events let the editor UI refresh open itineraries without polling.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:      "ITINERARY_EVENTS",
		Subjects:  []string{"itinerary.>"},
		Retention: nats.InterestPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist — try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

type routeGeneratedEvent struct {
	Day              int       `json:"day"`
	DistanceMiles    int       `json:"distanceMiles"`
	EstimatedTime    string    `json:"estimatedTime"`
	PointCount       int       `json:"pointCount"`
	SourcePointCount int       `json:"sourcePointCount"`
	GeneratedAt      time.Time `json:"generatedAt"`
}

func (p *Publisher) PublishRouteGenerated(ctx context.Context, day int, geom *domain.GeneratedGeometry) error {
	data, err := json.Marshal(routeGeneratedEvent{
		Day:              day,
		DistanceMiles:    geom.DistanceMiles,
		EstimatedTime:    geom.EstimatedTime,
		PointCount:       len(geom.Path),
		SourcePointCount: geom.SourcePointCount,
		GeneratedAt:      time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	_, err = p.js.Publish("itinerary.route.generated."+strconv.Itoa(day), data)
	return err
}

func (p *Publisher) PublishDocumentUpdated(ctx context.Context, day int) error {
	data, err := json.Marshal(map[string]any{
		"day":       day,
		"updatedAt": time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	_, err = p.js.Publish("itinerary.document.updated."+strconv.Itoa(day), data)
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
