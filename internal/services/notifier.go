package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Lllllllleong/goldflowsync/internal/models"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

const (
	// HojasUpdatedEventType is the CloudEvent type sent after a live update.
	HojasUpdatedEventType = "com.goldflow.hojas.updated"
	eventSource           = "goldflow-sync"
)

// EventNotifier publishes live updates to a CloudEvents HTTP sink.
type EventNotifier struct {
	client     cloudevents.Client
	collection string
}

func NewEventNotifier(sinkURL, collection string) (*EventNotifier, error) {
	client, err := cloudevents.NewClientHTTP(cloudevents.WithTarget(sinkURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create CloudEvents client: %w", err)
	}
	return &EventNotifier{client: client, collection: collection}, nil
}

// Notify sends one HojasUpdatedEventType event carrying the hoja count.
func (n *EventNotifier) Notify(ctx context.Context, count int) error {
	e := cloudevents.NewEvent()
	e.SetID(uuid.NewString())
	e.SetType(HojasUpdatedEventType)
	e.SetSource(eventSource)
	e.SetSubject(n.collection)
	e.SetTime(time.Now())
	if err := e.SetData(cloudevents.ApplicationJSON, models.HojasUpdatedEvent{
		Collection: n.collection,
		Count:      count,
	}); err != nil {
		return fmt.Errorf("failed to encode event data: %w", err)
	}

	if result := n.client.Send(ctx, e); !cloudevents.IsACK(result) {
		return fmt.Errorf("failed to deliver %s event: %w", HojasUpdatedEventType, result)
	}
	return nil
}

func (n *EventNotifier) Hook() UpdateHook {
	return func(ctx context.Context, hojas []models.Hoja) {
		if err := n.Notify(ctx, len(hojas)); err != nil {
			slog.Error("Failed to notify event sink.", "error", err)
		}
	}
}
