package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/pds-platform/fulfillment/internal/order"
	"github.com/pds-platform/fulfillment/internal/sequence"
)

// Publisher announces fulfillment outcomes on the events exchange. Each
// payload goes out in an envelope with a per-order partition sequence.
type Publisher struct {
	ch       *amqp.Channel
	seqRepo  *sequence.Repository
	producer string
}

func NewPublisher(conn *amqp.Connection, seqRepo *sequence.Repository, producer string) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	if producer == "" {
		producer = "order-service"
	}

	return &Publisher{ch: ch, seqRepo: seqRepo, producer: producer}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

// FulfilledItem is one line of a fulfillment result payload.
type FulfilledItem struct {
	ProductCode string `json:"productCode"`
	Quantity    int    `json:"quantity"`
	Status      string `json:"status"`
	WarehouseID *int64 `json:"warehouseId,omitempty"`
}

type FulfillmentResultPayload struct {
	OrderID    string          `json:"orderId"`
	CustomerID string          `json:"customerId"`
	Status     string          `json:"status"`
	Items      []FulfilledItem `json:"items"`
	Timestamp  time.Time       `json:"timestamp"`
}

// PublishFulfillmentResult emits OrderStockReserved or OrderFailed depending
// on the order's terminal status.
func (p *Publisher) PublishFulfillmentResult(ctx context.Context, o *order.Order) error {
	timestamp := time.Now().UTC()

	payload := FulfillmentResultPayload{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Status:     string(o.Status),
		Timestamp:  timestamp,
	}
	for _, it := range o.Items {
		payload.Items = append(payload.Items, FulfilledItem{
			ProductCode: it.ProductCode,
			Quantity:    it.Quantity,
			Status:      string(it.Status),
			WarehouseID: it.FulfilledByWarehouseID,
		})
	}

	eventName := EventNameOrderFailed
	routingKey := OrderFailedRoutingKey
	if o.Status == order.StatusStockReserved {
		eventName = EventNameOrderStockReserved
		routingKey = OrderStockReservedRoutingKey
	}

	seq, err := p.seqRepo.NextSequence(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventName, err)
	}

	env := EventEnvelope{
		EventName:     eventName,
		EventVersion:  1,
		EventID:       uuid.NewString(),
		CorrelationID: o.ID,
		Producer:      p.producer,
		PartitionKey:  o.ID,
		Sequence:      seq,
		OccurredAt:    timestamp,
		Payload:       raw,
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", eventName, err)
	}

	return p.publishJSON(ctx, routingKey, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
