package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"github.com/imrishuroy/go-pizza-cartflow/internal/aws"
	"github.com/imrishuroy/go-pizza-cartflow/internal/cart"
	"github.com/imrishuroy/go-pizza-cartflow/internal/idempotency"
)

// MetricsEmitter is satisfied by *aws.MetricsEmitter.
type MetricsEmitter interface {
	Emit(ctx context.Context, dimensions map[string]string, metrics ...aws.Metric) error
}

// Processor consumes cart.created events and records metrics once per cart.
type Processor struct {
	idempStore *idempotency.Store
	metrics    MetricsEmitter
}

// NewProcessor creates a new worker processor with AWS clients injected.
func NewProcessor(idempStore *idempotency.Store, metrics MetricsEmitter) *Processor {
	return &Processor{
		idempStore: idempStore,
		metrics:    metrics,
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("[worker] error: %v", err)
			return err
		}
	}
	return nil
}

func idempotencyKey(cartID string) string {
	return cart.EventType + ":" + cartID
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var ev cart.Event
	if err := json.Unmarshal([]byte(rec.Body), &ev); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if ev.CartID == "" {
		return fmt.Errorf("message %s has no cart_id", rec.MessageId)
	}

	log.Printf("[worker] received cart=%s email=%s total=%v", ev.CartID, ev.Email, ev.Total)

	key := idempotencyKey(ev.CartID)
	proceed, err := p.claim(ctx, key, ev.CartID)
	if err != nil {
		return err
	}
	if !proceed {
		return nil
	}

	err = p.metrics.Emit(ctx, map[string]string{"Service": "cart"},
		aws.Metric{Name: "CartsCreated", Value: 1, Unit: "Count"},
		aws.Metric{Name: "CartItems", Value: float64(ev.ItemCount), Unit: "Count"},
		aws.Metric{Name: "CartTotal", Value: ev.Total},
	)
	if err != nil {
		_ = p.idempStore.MarkFailed(ctx, key, fmt.Sprintf("metrics_failed: %v", err))
		return fmt.Errorf("emit metrics for cart=%s: %w", ev.CartID, err)
	}

	result, _ := json.Marshal(map[string]interface{}{"cart_id": ev.CartID, "total": ev.Total})
	if err := p.idempStore.MarkDone(ctx, key, string(result)); err != nil {
		return fmt.Errorf("failed to update idempotency: %w", err)
	}

	log.Printf("[worker] recorded cart=%s", ev.CartID)
	return nil
}

// claim returns true when this delivery should do the work.
func (p *Processor) claim(ctx context.Context, key, cartID string) (bool, error) {
	created, err := p.idempStore.CreateIfNotExists(ctx, key, cartID)
	if err != nil {
		return false, fmt.Errorf("create idempotency record: %w", err)
	}
	if created {
		return true, nil
	}

	existing, err := p.idempStore.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read idempotency record: %w", err)
	}
	if existing == nil {
		return false, fmt.Errorf("idempotency record for cart=%s vanished", cartID)
	}

	switch existing.Status {
	case idempotency.StatusDone:
		log.Printf("[worker] already recorded cart=%s", cartID)
		return false, nil
	case idempotency.StatusInProgress:
		log.Printf("[worker] duplicate delivery for cart=%s", cartID)
		return false, nil
	case idempotency.StatusFailed:
		err := p.idempStore.Reclaim(ctx, key)
		if errors.Is(err, idempotency.ErrConditionFailed) {
			// another delivery reclaimed it first
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, fmt.Errorf("unexpected status for cart=%s: %s", cartID, existing.Status)
	}
}
