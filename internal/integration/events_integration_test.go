package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pds-platform/fulfillment/internal/db"
	"github.com/pds-platform/fulfillment/internal/events"
	"github.com/pds-platform/fulfillment/internal/order"
	"github.com/pds-platform/fulfillment/internal/sequence"
)

func startRabbitMQ(ctx context.Context, t *testing.T) (testcontainers.Container, string) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "rabbitmq:3.13-alpine",
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor:   wait.ForListeningPort("5672/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "5672/tcp")
	require.NoError(t, err)

	return container, fmt.Sprintf("amqp://guest:guest@%s:%s/", host, mappedPort.Port())
}

// Publishes fulfillment results through a real broker and consumes them back:
// routing key follows the terminal status, the envelope validates, and the
// per-order sequence advances across publishes.
func TestFulfillmentEvents_PublishAndConsume(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	pgC, dsn := startPostgres(ctx, t, "orders")
	defer terminateContainer(t, pgC)

	logger := log.New(io.Discard, "", log.LstdFlags)
	require.NoError(t, db.RunMigrations(dsn, "order", logger))

	conn, err := db.Open(dsn)
	require.NoError(t, err)
	defer conn.Close()

	mqC, amqpURL := startRabbitMQ(ctx, t)
	defer terminateContainer(t, mqC)

	amqpConn, err := amqp.Dial(amqpURL)
	require.NoError(t, err)
	defer amqpConn.Close()

	pub, err := events.NewPublisher(amqpConn, sequence.NewRepository(conn), "order-service")
	require.NoError(t, err)
	defer pub.Close()

	consumeCh, err := amqpConn.Channel()
	require.NoError(t, err)
	defer consumeCh.Close()

	q, err := consumeCh.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, consumeCh.QueueBind(q.Name, "order.*.v1", events.EventsExchange, false, nil))

	deliveries, err := consumeCh.Consume(q.Name, "", true, true, false, false, nil)
	require.NoError(t, err)

	warehouseID := int64(7)
	o := &order.Order{
		ID:         "ord-1",
		CustomerID: "cust-1",
		Status:     order.StatusStockReserved,
		Items: []order.Item{
			{ProductCode: "p1", Quantity: 2, Status: order.ItemStatusReserved, FulfilledByWarehouseID: &warehouseID},
		},
	}
	require.NoError(t, pub.PublishFulfillmentResult(ctx, o))

	o.Status = order.StatusFailed
	o.Items[0].Status = order.ItemStatusNotAvailable
	o.Items[0].FulfilledByWarehouseID = nil
	require.NoError(t, pub.PublishFulfillmentResult(ctx, o))

	first := receiveDelivery(t, deliveries)
	require.Equal(t, events.OrderStockReservedRoutingKey, first.RoutingKey)

	env, err := events.ParseEnvelope(first.Body)
	require.NoError(t, err)
	require.NoError(t, env.Validate(events.EventNameOrderStockReserved, 1))
	require.Equal(t, "ord-1", env.PartitionKey)
	require.Equal(t, "order-service", env.Producer)
	require.EqualValues(t, 1, env.Sequence)

	var payload events.FulfillmentResultPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	require.Equal(t, "ord-1", payload.OrderID)
	require.Equal(t, string(order.StatusStockReserved), payload.Status)
	require.Len(t, payload.Items, 1)
	require.NotNil(t, payload.Items[0].WarehouseID)
	require.EqualValues(t, 7, *payload.Items[0].WarehouseID)

	second := receiveDelivery(t, deliveries)
	require.Equal(t, events.OrderFailedRoutingKey, second.RoutingKey)

	env2, err := events.ParseEnvelope(second.Body)
	require.NoError(t, err)
	require.NoError(t, env2.Validate(events.EventNameOrderFailed, 1))
	require.EqualValues(t, 2, env2.Sequence)
}

func receiveDelivery(t *testing.T, deliveries <-chan amqp.Delivery) amqp.Delivery {
	t.Helper()
	select {
	case d := <-deliveries:
		return d
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for delivery")
		return amqp.Delivery{}
	}
}
